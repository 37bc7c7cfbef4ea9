package kdtree

import (
	"math"

	"github.com/dfreese/Gray-sub002/vecmath"
)

// HitFunc tests primitive i for intersection with the ray, given the
// current best-known distance currentMax. It returns the hit distance
// and ok=true if a closer hit was found; the traverser uses the
// returned distance to tighten currentMax for the remaining candidates.
type HitFunc func(i int, origin, dir vecmath.Vector3, currentMax float64) (float64, bool)

type frame struct {
	node        int32
	tNear, tFar float64
}

// Traverse finds the primitive nearest to origin along dir within
// [0, maxDist], tie-broken to the lower primitive index on an exact
// distance tie (deterministic replay). Returns index=-1 if no primitive
// is hit.
func (t *Tree) Traverse(origin, dir vecmath.Vector3, maxDist float64, hit HitFunc) (index int, tHit float64) {
	_, rootFar, ok := t.bound.Hit(origin, dir, 0, maxDist)
	if !ok {
		return -1, 0
	}

	bestIndex := -1
	bestT := maxDist
	invDir := vecmath.Vector3{X: safeInv(dir.X), Y: safeInv(dir.Y), Z: safeInv(dir.Z)}

	stack := make([]frame, 0, 64)
	stack = append(stack, frame{node: t.root, tNear: 0, tFar: rootFar})

	for len(stack) > 0 {
		fr := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if fr.tNear > bestT {
			continue
		}

		n := &t.nodes[fr.node]
		if n.isLeaf() {
			for _, p := range n.prims {
				pi := int(p)
				if d, ok := hit(pi, origin, dir, bestT); ok {
					if d < bestT || (d == bestT && (bestIndex < 0 || pi < bestIndex)) {
						bestT = d
						bestIndex = pi
					}
				}
			}
			continue
		}

		axisOrigin := origin.Component(n.axis)
		axisInv := invDir.Component(n.axis)
		tSplit := (n.split - axisOrigin) * axisInv

		near, far := n.left, n.right
		if dir.Component(n.axis) < 0 {
			near, far = n.right, n.left
		}

		switch {
		case tSplit >= fr.tFar || tSplit < 0:
			stack = append(stack, frame{node: near, tNear: fr.tNear, tFar: fr.tFar})
		case tSplit <= fr.tNear:
			stack = append(stack, frame{node: far, tNear: fr.tNear, tFar: fr.tFar})
		default:
			stack = append(stack, frame{node: far, tNear: tSplit, tFar: fr.tFar})
			stack = append(stack, frame{node: near, tNear: fr.tNear, tFar: tSplit})
		}
	}

	if bestIndex < 0 {
		return -1, 0
	}
	return bestIndex, bestT
}

func safeInv(x float64) float64 {
	if x == 0 {
		return math.Inf(1)
	}
	return 1 / x
}
