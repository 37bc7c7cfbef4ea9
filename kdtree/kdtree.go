// Package kdtree implements a k-d tree over primitive bounding boxes,
// built once by Surface-Area-Heuristic cost minimisation and traversed
// with an explicit stack for ray/scene intersection queries.
package kdtree

import (
	"sort"

	"github.com/dfreese/Gray-sub002/vecmath"
)

// BuildOptions tunes the SAH build.
type BuildOptions struct {
	// ObjectCost weights the per-primitive intersection cost against the
	// traversal cost in the SAH objective. Default ~8, per original
	// Gray's tuning.
	ObjectCost float64
	// TraversalCost is the fixed cost charged for descending into an
	// internal node.
	TraversalCost float64
	// MinLeafSize stops splitting once a candidate leaf holds this many
	// or fewer primitives.
	MinLeafSize int
	// MaxDepth bounds recursion depth as a safety net against pathological
	// SAH degenerate cases.
	MaxDepth int
	// DoubleRecurseSplitting additionally evaluates splits that duplicate
	// primitives straddling the split plane into both children, and keeps
	// whichever of the duplicate/single-assignment splits scores lower.
	DoubleRecurseSplitting bool
	// SweepAllAxes, when true, evaluates candidate splits on all three
	// axes instead of only the parent box's single largest-extent axis.
	SweepAllAxes bool
}

// DefaultBuildOptions mirrors original Gray's defaults.
func DefaultBuildOptions() BuildOptions {
	return BuildOptions{
		ObjectCost:    8,
		TraversalCost: 1,
		MinLeafSize:   2,
		MaxDepth:      48,
	}
}

// ExtentFunc returns the tight AABB of primitive i.
type ExtentFunc func(i int) vecmath.AABB

// ExtentInBoxFunc returns a tight bound of primitive i clipped to box, or
// ok=false if the primitive does not intersect box.
type ExtentInBoxFunc func(i int, box vecmath.AABB) (vecmath.AABB, bool)

type node struct {
	// Internal node fields.
	axis      int
	split     float64
	left, right int32 // indices into Tree.nodes; -1 if leaf

	// Leaf node fields.
	prims []int32
}

func (n *node) isLeaf() bool { return n.left < 0 && n.right < 0 }

// Tree is an immutable k-d tree indexing a fixed set of primitives by
// integer index. It owns no primitive data itself.
type Tree struct {
	nodes []node
	root  int32
	bound vecmath.AABB
	opts  BuildOptions
}

// Bound returns the root bounding box of the tree.
func (t *Tree) Bound() vecmath.AABB { return t.bound }

type buildPrim struct {
	index int32
	box   vecmath.AABB
}

// Build constructs a k-d tree over n primitives using the supplied
// extent callbacks.
func Build(n int, extent ExtentFunc, extentInBox ExtentInBoxFunc, opts BuildOptions) *Tree {
	if opts.ObjectCost == 0 {
		opts = DefaultBuildOptions()
	}
	t := &Tree{opts: opts}

	prims := make([]buildPrim, n)
	bound := vecmath.EmptyAABB()
	for i := 0; i < n; i++ {
		box := extent(i)
		prims[i] = buildPrim{index: int32(i), box: box}
		bound = bound.EnlargeToEnclose(box)
	}
	t.bound = bound

	t.root = t.build(prims, bound, extentInBox, 0)
	return t
}

// splitCandidate is one candidate split plane position on a given axis.
type splitCandidate struct {
	axis int
	pos  float64
}

func (t *Tree) build(prims []buildPrim, bound vecmath.AABB, extentInBox ExtentInBoxFunc, depth int) int32 {
	leafCost := t.opts.ObjectCost * float64(len(prims))
	if len(prims) <= t.opts.MinLeafSize || depth >= t.opts.MaxDepth {
		return t.makeLeaf(prims)
	}

	axes := []int{bound.LargestAxis()}
	if t.opts.SweepAllAxes {
		axes = []int{0, 1, 2}
	}

	bestCost := leafCost
	bestAxis := -1
	var bestSplit float64
	bestDuplicate := false

	parentSA := bound.SurfaceArea()
	if parentSA == 0 {
		return t.makeLeaf(prims)
	}

	for _, axis := range axes {
		candidates := candidatePositions(prims, axis)
		for _, pos := range candidates {
			leftBox, rightBox := splitBox(bound, axis, pos)

			nLeftSingle, nRightSingle := 0, 0
			for _, p := range prims {
				lo := p.box.Min.Component(axis)
				hi := p.box.Max.Component(axis)
				mid := (lo + hi) / 2
				if mid <= pos {
					nLeftSingle++
				} else {
					nRightSingle++
				}
			}
			cost := sahCost(t.opts, leftBox.SurfaceArea(), nLeftSingle, rightBox.SurfaceArea(), nRightSingle, parentSA)
			if cost < bestCost {
				bestCost, bestAxis, bestSplit, bestDuplicate = cost, axis, pos, false
			}

			if t.opts.DoubleRecurseSplitting {
				nLeftDup, nRightDup := 0, 0
				for _, p := range prims {
					if p.box.Min.Component(axis) <= pos {
						nLeftDup++
					}
					if p.box.Max.Component(axis) >= pos {
						nRightDup++
					}
				}
				dupCost := sahCost(t.opts, leftBox.SurfaceArea(), nLeftDup, rightBox.SurfaceArea(), nRightDup, parentSA)
				if dupCost < bestCost {
					bestCost, bestAxis, bestSplit, bestDuplicate = dupCost, axis, pos, true
				}
			}
		}
	}

	if bestAxis < 0 {
		return t.makeLeaf(prims)
	}

	leftBox, rightBox := splitBox(bound, bestAxis, bestSplit)
	var leftPrims, rightPrims []buildPrim
	for _, p := range prims {
		lo := p.box.Min.Component(bestAxis)
		hi := p.box.Max.Component(bestAxis)
		if bestDuplicate {
			if lo <= bestSplit {
				leftPrims = append(leftPrims, clippedPrim(p, leftBox, extentInBox))
			}
			if hi >= bestSplit {
				rightPrims = append(rightPrims, clippedPrim(p, rightBox, extentInBox))
			}
		} else {
			mid := (lo + hi) / 2
			if mid <= bestSplit {
				leftPrims = append(leftPrims, clippedPrim(p, leftBox, extentInBox))
			} else {
				rightPrims = append(rightPrims, clippedPrim(p, rightBox, extentInBox))
			}
		}
	}

	if len(leftPrims) == 0 || len(rightPrims) == 0 {
		return t.makeLeaf(prims)
	}

	idx := int32(len(t.nodes))
	t.nodes = append(t.nodes, node{axis: bestAxis, split: bestSplit, left: -1, right: -1})

	left := t.build(leftPrims, leftBox, extentInBox, depth+1)
	right := t.build(rightPrims, rightBox, extentInBox, depth+1)
	t.nodes[idx].left = left
	t.nodes[idx].right = right
	return idx
}

func clippedPrim(p buildPrim, box vecmath.AABB, extentInBox ExtentInBoxFunc) buildPrim {
	if extentInBox == nil {
		return p
	}
	if clipped, ok := extentInBox(int(p.index), box); ok {
		return buildPrim{index: p.index, box: clipped}
	}
	return p
}

func (t *Tree) makeLeaf(prims []buildPrim) int32 {
	idx := int32(len(t.nodes))
	leaf := node{left: -1, right: -1, prims: make([]int32, len(prims))}
	for i, p := range prims {
		leaf.prims[i] = p.index
	}
	t.nodes = append(t.nodes, leaf)
	return idx
}

func candidatePositions(prims []buildPrim, axis int) []float64 {
	positions := make([]float64, 0, 2*len(prims))
	for _, p := range prims {
		positions = append(positions, p.box.Min.Component(axis), p.box.Max.Component(axis))
	}
	sort.Float64s(positions)
	out := positions[:0:0]
	for i, v := range positions {
		if i == 0 || v != positions[i-1] {
			out = append(out, v)
		}
	}
	return out
}

func splitBox(b vecmath.AABB, axis int, pos float64) (left, right vecmath.AABB) {
	left, right = b, b
	left.Max = left.Max.WithComponent(axis, pos)
	right.Min = right.Min.WithComponent(axis, pos)
	return left, right
}

func sahCost(opts BuildOptions, leftSA float64, nLeft int, rightSA float64, nRight int, parentSA float64) float64 {
	return opts.TraversalCost + opts.ObjectCost*(leftSA*float64(nLeft)+rightSA*float64(nRight))/parentSA
}
