package scene

import (
	"math"

	"github.com/dfreese/Gray-sub002/material"
	"github.com/dfreese/Gray-sub002/vecmath"
)

const overlapEpsilon = 1e-10

// DefaultOverlapSteps is the per-axis ray grid density used by TestOverlap,
// cast from each of the scene AABB's six faces.
const DefaultOverlapSteps = 400

// DefaultOverlapFailureThreshold is the fraction of failing rays above
// which a scene is judged to have geometry errors (overlapping solids,
// inverted normals).
const DefaultOverlapFailureThreshold = 0.001

// OverlapResult summarizes one TestOverlap run.
type OverlapResult struct {
	TotalRays  int
	FailedRays int
}

// FailureRate is the fraction of cast rays whose material-stack walk
// did not end cleanly.
func (r OverlapResult) FailureRate() float64 {
	if r.TotalRays == 0 {
		return 0
	}
	return float64(r.FailedRays) / float64(r.TotalRays)
}

// Failed reports whether the scene's failure rate exceeds threshold.
func (r OverlapResult) Failed(threshold float64) bool {
	return r.FailureRate() > threshold
}

// TestOverlap casts stepsPerDir x stepsPerDir parallel rays inward from
// just outside each of the scene AABB's six faces and walks each one's
// material stack via TestOverlapSingle, diagnosing overlapping solids
// and inverted normals.
func (s *Scene) TestOverlap(stepsPerDir int) OverlapResult {
	bound := s.Bound()
	var result OverlapResult

	faces := []struct {
		normal    vecmath.Vector3
		u, v      int // the two axes spanning the face
		fixedAxis int
		fixedHigh bool
	}{
		{vecmath.Vector3{X: 1}, 1, 2, 0, false},
		{vecmath.Vector3{X: -1}, 1, 2, 0, true},
		{vecmath.Vector3{Y: 1}, 0, 2, 1, false},
		{vecmath.Vector3{Y: -1}, 0, 2, 1, true},
		{vecmath.Vector3{Z: 1}, 0, 1, 2, false},
		{vecmath.Vector3{Z: -1}, 0, 1, 2, true},
	}

	for _, face := range faces {
		dir := face.normal // rays travel inward, opposite the outward face normal direction stored here is inward already since normal points in the travel direction
		for iu := 0; iu < stepsPerDir; iu++ {
			for iv := 0; iv < stepsPerDir; iv++ {
				origin := originOnFace(bound, face.fixedAxis, face.fixedHigh, face.u, face.v, iu, iv, stepsPerDir)
				result.TotalRays++
				if !s.TestOverlapSingle(origin, dir) {
					result.FailedRays++
				}
			}
		}
	}
	return result
}

func originOnFace(bound vecmath.AABB, fixedAxis int, fixedHigh bool, uAxis, vAxis, iu, iv, steps int) vecmath.Vector3 {
	var p vecmath.Vector3
	fixedVal := bound.Min.Component(fixedAxis)
	if fixedHigh {
		fixedVal = bound.Max.Component(fixedAxis)
	}
	// Offset just outside the box so the first hit is a real front face.
	margin := bound.Diagonal() * 1e-4
	if fixedHigh {
		fixedVal += margin
	} else {
		fixedVal -= margin
	}
	p = p.WithComponent(fixedAxis, fixedVal)

	uLo, uHi := bound.Min.Component(uAxis), bound.Max.Component(uAxis)
	vLo, vHi := bound.Min.Component(vAxis), bound.Max.Component(vAxis)
	frac := func(i int) float64 {
		if steps <= 1 {
			return 0.5
		}
		return (float64(i) + 0.5) / float64(steps)
	}
	p = p.WithComponent(uAxis, uLo+frac(iu)*(uHi-uLo))
	p = p.WithComponent(vAxis, vLo+frac(iv)*(vHi-vLo))
	return p
}

// TestOverlapSingle walks every intersection along (origin, dir),
// maintaining a stack of materials: every front face pushes, every back
// face must pop the material it pushed. Returns false iff the walk ends
// with a non-empty stack or a popped material mismatch.
func (s *Scene) TestOverlapSingle(origin, dir vecmath.Vector3) bool {
	var stack []*material.Material
	pos := origin
	for {
		hit, ok := s.Intersect(pos, dir, math.Inf(1))
		if !ok {
			break
		}
		if hit.FrontFace {
			stack = append(stack, s.MaterialAt(hit.MaterialF))
		} else {
			if len(stack) == 0 || stack[len(stack)-1] != s.MaterialAt(hit.MaterialB) {
				return false
			}
			stack = stack[:len(stack)-1]
		}
		pos = hit.Point.Add(dir.Scale(overlapEpsilon))
	}
	return len(stack) == 0
}
