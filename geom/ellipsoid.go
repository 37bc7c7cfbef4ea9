package geom

import (
	"math"

	"github.com/dfreese/Gray-sub002/vecmath"
)

// Ellipsoid is an axis-aligned ellipsoid centered at Center with
// semi-axis radii Radii.{X,Y,Z}.
type Ellipsoid struct {
	Center vecmath.Vector3
	Radii  vecmath.Vector3

	MaterialF, MaterialB MaterialRef
	DetectorID, SourceID int
}

func NewEllipsoid(center, radii vecmath.Vector3, matF, matB MaterialRef, detID, srcID int) *Ellipsoid {
	return &Ellipsoid{Center: center, Radii: radii, MaterialF: matF, MaterialB: matB, DetectorID: detID, SourceID: srcID}
}

func (e *Ellipsoid) FindIntersection(origin, dir vecmath.Vector3, maxDist float64) (HitRecord, bool) {
	d := origin.Sub(e.Center)
	rx2, ry2, rz2 := e.Radii.X*e.Radii.X, e.Radii.Y*e.Radii.Y, e.Radii.Z*e.Radii.Z

	a := dir.X*dir.X/rx2 + dir.Y*dir.Y/ry2 + dir.Z*dir.Z/rz2
	b := 2 * (dir.X*d.X/rx2 + dir.Y*d.Y/ry2 + dir.Z*d.Z/rz2)
	c := d.X*d.X/rx2+d.Y*d.Y/ry2+d.Z*d.Z/rz2 - 1

	disc := b*b - 4*a*c
	if disc < 0 {
		return HitRecord{}, false
	}
	sq := math.Sqrt(disc)

	t := (-b - sq) / (2 * a)
	if t <= 0 || t > maxDist {
		t = (-b + sq) / (2 * a)
		if t <= 0 || t > maxDist {
			return HitRecord{}, false
		}
	}

	p := origin.Add(dir.Scale(t))
	rel := p.Sub(e.Center)
	n := vecmath.Vector3{X: rel.X / rx2, Y: rel.Y / ry2, Z: rel.Z / rz2}.Normalize()
	frontFace := n.Dot(dir) < 0

	return HitRecord{
		T:          t,
		Point:      p,
		Normal:     n,
		FrontFace:  frontFace,
		MaterialF:  e.MaterialF,
		MaterialB:  e.MaterialB,
		DetectorID: e.DetectorID,
		SourceID:   e.SourceID,
	}, true
}

func (e *Ellipsoid) CalcAABB() vecmath.AABB {
	return vecmath.AABB{Min: e.Center.Sub(e.Radii), Max: e.Center.Add(e.Radii)}
}

func (e *Ellipsoid) CalcExtentsInBox(box vecmath.AABB) (vecmath.AABB, bool) {
	clipped := e.CalcAABB().Intersect(box)
	if clipped.IsEmpty() {
		return vecmath.AABB{}, false
	}
	return clipped, true
}

func (e *Ellipsoid) Materials() (front, back MaterialRef) { return e.MaterialF, e.MaterialB }
