package geom

import (
	"math"

	"github.com/dfreese/Gray-sub002/vecmath"
)

// Sphere is centered at Center with radius Radius. The outward normal
// determines front/back facing; spheres are always two-sided (the
// interior is a valid material region).
type Sphere struct {
	Center vecmath.Vector3
	Radius float64

	MaterialF, MaterialB MaterialRef
	DetectorID, SourceID int
}

func NewSphere(center vecmath.Vector3, radius float64, matF, matB MaterialRef, detID, srcID int) *Sphere {
	return &Sphere{Center: center, Radius: radius, MaterialF: matF, MaterialB: matB, DetectorID: detID, SourceID: srcID}
}

func (s *Sphere) FindIntersection(origin, dir vecmath.Vector3, maxDist float64) (HitRecord, bool) {
	oc := origin.Sub(s.Center)
	b := oc.Dot(dir)
	c := oc.Dot(oc) - s.Radius*s.Radius
	disc := b*b - c
	if disc < 0 {
		return HitRecord{}, false
	}
	sq := math.Sqrt(disc)

	t := -b - sq
	if t <= 0 || t > maxDist {
		t = -b + sq
		if t <= 0 || t > maxDist {
			return HitRecord{}, false
		}
	}

	p := origin.Add(dir.Scale(t))
	n := p.Sub(s.Center).Normalize()
	frontFace := n.Dot(dir) < 0

	return HitRecord{
		T:          t,
		Point:      p,
		Normal:     n,
		FrontFace:  frontFace,
		MaterialF:  s.MaterialF,
		MaterialB:  s.MaterialB,
		DetectorID: s.DetectorID,
		SourceID:   s.SourceID,
	}, true
}

func (s *Sphere) CalcAABB() vecmath.AABB {
	r := vecmath.Vector3{X: s.Radius, Y: s.Radius, Z: s.Radius}
	return vecmath.AABB{Min: s.Center.Sub(r), Max: s.Center.Add(r)}
}

func (s *Sphere) CalcExtentsInBox(box vecmath.AABB) (vecmath.AABB, bool) {
	clipped := s.CalcAABB().Intersect(box)
	if clipped.IsEmpty() {
		return vecmath.AABB{}, false
	}
	return clipped, true
}

func (s *Sphere) Materials() (front, back MaterialRef) { return s.MaterialF, s.MaterialB }
