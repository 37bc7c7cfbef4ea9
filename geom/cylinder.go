package geom

import (
	"math"

	"github.com/dfreese/Gray-sub002/vecmath"
)

// Cylinder is a (possibly oblique) right circular cylinder: a lateral
// tube of Radius running from Base to Base+Height*Axis (Axis need not
// be an axis-aligned unit vector; it is normalized internally and its
// original length is folded into Height), with optional flat end caps.
type Cylinder struct {
	Base   vecmath.Vector3
	Axis   vecmath.Vector3 // unit vector, cylinder centerline direction
	Height float64
	Radius float64

	CapBottom, CapTop bool

	MaterialF, MaterialB MaterialRef
	DetectorID, SourceID int
}

// NewCylinder builds a cylinder from a base point, an (unnormalized)
// axis vector whose length sets the height, and a radius.
func NewCylinder(base, axisVec vecmath.Vector3, radius float64, capBottom, capTop bool, matF, matB MaterialRef, detID, srcID int) *Cylinder {
	h := axisVec.Length()
	axis := axisVec
	if h > 0 {
		axis = axisVec.Scale(1 / h)
	}
	return &Cylinder{
		Base: base, Axis: axis, Height: h, Radius: radius,
		CapBottom: capBottom, CapTop: capTop,
		MaterialF: matF, MaterialB: matB, DetectorID: detID, SourceID: srcID,
	}
}

func (c *Cylinder) perp(v vecmath.Vector3) vecmath.Vector3 {
	return v.Sub(c.Axis.Scale(v.Dot(c.Axis)))
}

func (c *Cylinder) FindIntersection(origin, dir vecmath.Vector3, maxDist float64) (HitRecord, bool) {
	best := math.Inf(1)
	var bestHit HitRecord
	found := false

	oc := origin.Sub(c.Base)
	dPerp := c.perp(dir)
	ocPerp := c.perp(oc)

	a := dPerp.Dot(dPerp)
	if a > 1e-14 {
		b := 2 * dPerp.Dot(ocPerp)
		cc := ocPerp.Dot(ocPerp) - c.Radius*c.Radius
		disc := b*b - 4*a*cc
		if disc >= 0 {
			sq := math.Sqrt(disc)
			for _, t := range [2]float64{(-b - sq) / (2 * a), (-b + sq) / (2 * a)} {
				if t <= 0 || t > maxDist || t >= best {
					continue
				}
				s := oc.Add(dir.Scale(t)).Dot(c.Axis)
				if s < 0 || s > c.Height {
					continue
				}
				p := origin.Add(dir.Scale(t))
				n := c.perp(p.Sub(c.Base)).Normalize()
				frontFace := n.Dot(dir) < 0
				best = t
				bestHit = HitRecord{
					T: t, Point: p, Normal: n, FrontFace: frontFace,
					MaterialF: c.MaterialF, MaterialB: c.MaterialB,
					DetectorID: c.DetectorID, SourceID: c.SourceID,
				}
				found = true
			}
		}
	}

	if c.CapBottom {
		if t, p, ok := c.hitCap(origin, dir, c.Base, c.Axis.Negate(), maxDist); ok && t < best {
			best = t
			frontFace := c.Axis.Negate().Dot(dir) < 0
			bestHit = HitRecord{
				T: t, Point: p, Normal: c.Axis.Negate(), FrontFace: frontFace,
				MaterialF: c.MaterialF, MaterialB: c.MaterialB,
				DetectorID: c.DetectorID, SourceID: c.SourceID,
			}
			found = true
		}
	}
	if c.CapTop {
		top := c.Base.Add(c.Axis.Scale(c.Height))
		if t, p, ok := c.hitCap(origin, dir, top, c.Axis, maxDist); ok && t < best {
			best = t
			frontFace := c.Axis.Dot(dir) < 0
			bestHit = HitRecord{
				T: t, Point: p, Normal: c.Axis, FrontFace: frontFace,
				MaterialF: c.MaterialF, MaterialB: c.MaterialB,
				DetectorID: c.DetectorID, SourceID: c.SourceID,
			}
			found = true
		}
	}

	return bestHit, found
}

// hitCap intersects the ray with the disk of radius c.Radius centered at
// center, lying in the plane with the given outward normal.
func (c *Cylinder) hitCap(origin, dir, center, normal vecmath.Vector3, maxDist float64) (float64, vecmath.Vector3, bool) {
	denom := normal.Dot(dir)
	if denom == 0 {
		return 0, vecmath.Vector3{}, false
	}
	t := normal.Dot(center.Sub(origin)) / denom
	if t <= 0 || t > maxDist {
		return 0, vecmath.Vector3{}, false
	}
	p := origin.Add(dir.Scale(t))
	if p.Sub(center).LengthSq() > c.Radius*c.Radius {
		return 0, vecmath.Vector3{}, false
	}
	return t, p, true
}

func (c *Cylinder) CalcAABB() vecmath.AABB {
	top := c.Base.Add(c.Axis.Scale(c.Height))
	box := vecmath.EmptyAABB()
	// Enclose both end-cap disks: a disk of Radius normal to Axis spans
	// Radius*sqrt(1-Axis_k^2) either side of its center along world axis k.
	r := vecmath.Vector3{
		X: c.Radius * math.Sqrt(math.Max(0, 1-c.Axis.X*c.Axis.X)),
		Y: c.Radius * math.Sqrt(math.Max(0, 1-c.Axis.Y*c.Axis.Y)),
		Z: c.Radius * math.Sqrt(math.Max(0, 1-c.Axis.Z*c.Axis.Z)),
	}
	box = box.EnlargeToEnclose(vecmath.AABB{Min: c.Base.Sub(r), Max: c.Base.Add(r)})
	box = box.EnlargeToEnclose(vecmath.AABB{Min: top.Sub(r), Max: top.Add(r)})
	return box
}

func (c *Cylinder) CalcExtentsInBox(box vecmath.AABB) (vecmath.AABB, bool) {
	clipped := c.CalcAABB().Intersect(box)
	if clipped.IsEmpty() {
		return vecmath.AABB{}, false
	}
	return clipped, true
}

func (c *Cylinder) Materials() (front, back MaterialRef) { return c.MaterialF, c.MaterialB }
