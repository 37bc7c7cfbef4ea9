package geom

import (
	"math"

	"github.com/dfreese/Gray-sub002/vecmath"
)

// Cone has its apex at Base, widening to Radius at distance Height along
// Axis (a unit vector). An optional flat cap closes the wide end.
type Cone struct {
	Base   vecmath.Vector3
	Axis   vecmath.Vector3
	Height float64
	Radius float64

	CapTop bool

	MaterialF, MaterialB MaterialRef
	DetectorID, SourceID int
}

func NewCone(base, axisVec vecmath.Vector3, radius float64, capTop bool, matF, matB MaterialRef, detID, srcID int) *Cone {
	h := axisVec.Length()
	axis := axisVec
	if h > 0 {
		axis = axisVec.Scale(1 / h)
	}
	return &Cone{Base: base, Axis: axis, Height: h, Radius: radius, CapTop: capTop, MaterialF: matF, MaterialB: matB, DetectorID: detID, SourceID: srcID}
}

func (c *Cone) perp(v vecmath.Vector3) vecmath.Vector3 {
	return v.Sub(c.Axis.Scale(v.Dot(c.Axis)))
}

func (c *Cone) FindIntersection(origin, dir vecmath.Vector3, maxDist float64) (HitRecord, bool) {
	k := c.Radius / c.Height
	k2 := k * k

	oc := origin.Sub(c.Base)
	s0 := oc.Dot(c.Axis)
	sD := dir.Dot(c.Axis)
	ocPerp := c.perp(oc)
	dPerp := c.perp(dir)

	a := dPerp.Dot(dPerp) - k2*sD*sD
	b := 2 * (dPerp.Dot(ocPerp) - k2*s0*sD)
	cc := ocPerp.Dot(ocPerp) - k2*s0*s0

	best := math.Inf(1)
	var bestHit HitRecord
	found := false

	if math.Abs(a) > 1e-14 {
		disc := b*b - 4*a*cc
		if disc >= 0 {
			sq := math.Sqrt(disc)
			for _, t := range [2]float64{(-b - sq) / (2 * a), (-b + sq) / (2 * a)} {
				if t <= 0 || t > maxDist || t >= best {
					continue
				}
				s := s0 + t*sD
				if s < 0 || s > c.Height {
					continue
				}
				p := origin.Add(dir.Scale(t))
				w := p.Sub(c.Base)
				wPerp := c.perp(w)
				n := wPerp.Sub(c.Axis.Scale(k2 * s)).Normalize()
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

	if c.CapTop {
		top := c.Base.Add(c.Axis.Scale(c.Height))
		denom := c.Axis.Dot(dir)
		if denom != 0 {
			t := c.Axis.Dot(top.Sub(origin)) / denom
			if t > 0 && t <= maxDist && t < best {
				p := origin.Add(dir.Scale(t))
				if p.Sub(top).LengthSq() <= c.Radius*c.Radius {
					frontFace := c.Axis.Dot(dir) < 0
					best = t
					bestHit = HitRecord{
						T: t, Point: p, Normal: c.Axis, FrontFace: frontFace,
						MaterialF: c.MaterialF, MaterialB: c.MaterialB,
						DetectorID: c.DetectorID, SourceID: c.SourceID,
					}
					found = true
				}
			}
		}
	}

	return bestHit, found
}

func (c *Cone) CalcAABB() vecmath.AABB {
	top := c.Base.Add(c.Axis.Scale(c.Height))
	box := vecmath.EmptyAABB()
	box = box.EnlargeToEncloseVec(c.Base)
	// The wide end is a disk of Radius normal to Axis, spanning
	// Radius*sqrt(1-Axis_k^2) either side of its center along world axis k.
	r := vecmath.Vector3{
		X: c.Radius * math.Sqrt(math.Max(0, 1-c.Axis.X*c.Axis.X)),
		Y: c.Radius * math.Sqrt(math.Max(0, 1-c.Axis.Y*c.Axis.Y)),
		Z: c.Radius * math.Sqrt(math.Max(0, 1-c.Axis.Z*c.Axis.Z)),
	}
	box = box.EnlargeToEnclose(vecmath.AABB{Min: top.Sub(r), Max: top.Add(r)})
	return box
}

func (c *Cone) CalcExtentsInBox(box vecmath.AABB) (vecmath.AABB, bool) {
	clipped := c.CalcAABB().Intersect(box)
	if clipped.IsEmpty() {
		return vecmath.AABB{}, false
	}
	return clipped, true
}

func (c *Cone) Materials() (front, back MaterialRef) { return c.MaterialF, c.MaterialB }
