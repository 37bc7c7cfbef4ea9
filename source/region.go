package source

import (
	"math"

	"github.com/dfreese/Gray-sub002/mc"
	"github.com/dfreese/Gray-sub002/vecmath"
)

// Region is a parametrised 3-D volume a Source draws decay positions
// from, and tests candidate positions against when it is used as a
// negative (subtractive) source.
type Region interface {
	SamplePoint(s *mc.Sampler) vecmath.Vector3
	Contains(pos vecmath.Vector3) bool
}

// PointRegion is a degenerate region: a single position.
type PointRegion struct{ Pos vecmath.Vector3 }

func (r PointRegion) SamplePoint(s *mc.Sampler) vecmath.Vector3 { return r.Pos }
func (r PointRegion) Contains(pos vecmath.Vector3) bool         { return pos == r.Pos }

// BoxRegion is an axis-aligned box centered at Center with full
// dimensions Size.
type BoxRegion struct {
	Center, Size vecmath.Vector3
}

func (r BoxRegion) SamplePoint(s *mc.Sampler) vecmath.Vector3 {
	return vecmath.Vector3{
		X: r.Center.X + (s.Uniform()-0.5)*r.Size.X,
		Y: r.Center.Y + (s.Uniform()-0.5)*r.Size.Y,
		Z: r.Center.Z + (s.Uniform()-0.5)*r.Size.Z,
	}
}

func (r BoxRegion) Contains(pos vecmath.Vector3) bool {
	d := pos.Sub(r.Center)
	return math.Abs(d.X) <= r.Size.X/2 && math.Abs(d.Y) <= r.Size.Y/2 && math.Abs(d.Z) <= r.Size.Z/2
}

// SphereRegion samples uniformly within a ball of Radius about Center.
type SphereRegion struct {
	Center vecmath.Vector3
	Radius float64
}

func (r SphereRegion) SamplePoint(s *mc.Sampler) vecmath.Vector3 {
	for {
		v := vecmath.Vector3{X: 2*s.Uniform() - 1, Y: 2*s.Uniform() - 1, Z: 2*s.Uniform() - 1}
		if v.LengthSq() <= 1 {
			return r.Center.Add(v.Scale(r.Radius))
		}
	}
}

func (r SphereRegion) Contains(pos vecmath.Vector3) bool {
	return pos.Sub(r.Center).LengthSq() <= r.Radius*r.Radius
}

// EllipsoidRegion samples uniformly within an axis-aligned ellipsoid.
type EllipsoidRegion struct {
	Center vecmath.Vector3
	Radii  vecmath.Vector3
}

func (r EllipsoidRegion) SamplePoint(s *mc.Sampler) vecmath.Vector3 {
	for {
		v := vecmath.Vector3{X: 2*s.Uniform() - 1, Y: 2*s.Uniform() - 1, Z: 2*s.Uniform() - 1}
		if v.LengthSq() <= 1 {
			return r.Center.Add(vecmath.Vector3{X: v.X * r.Radii.X, Y: v.Y * r.Radii.Y, Z: v.Z * r.Radii.Z})
		}
	}
}

func (r EllipsoidRegion) Contains(pos vecmath.Vector3) bool {
	d := pos.Sub(r.Center)
	return (d.X*d.X)/(r.Radii.X*r.Radii.X)+(d.Y*d.Y)/(r.Radii.Y*r.Radii.Y)+(d.Z*d.Z)/(r.Radii.Z*r.Radii.Z) <= 1
}

// CylinderRegion samples uniformly within a right circular cylinder
// running from Base along Axis (unnormalized; its length is the
// cylinder's height).
type CylinderRegion struct {
	Base, Axis vecmath.Vector3
	Radius     float64
}

func (r CylinderRegion) unit() (vecmath.Vector3, float64) {
	h := r.Axis.Length()
	if h == 0 {
		return r.Axis, 0
	}
	return r.Axis.Scale(1 / h), h
}

func (r CylinderRegion) SamplePoint(s *mc.Sampler) vecmath.Vector3 {
	axis, h := r.unit()
	perp1, perp2 := orthonormalBasis(axis)
	for {
		x := 2*s.Uniform() - 1
		y := 2*s.Uniform() - 1
		if x*x+y*y <= 1 {
			radial := perp1.Scale(x * r.Radius).Add(perp2.Scale(y * r.Radius))
			return r.Base.Add(radial).Add(axis.Scale(s.Uniform() * h))
		}
	}
}

func (r CylinderRegion) Contains(pos vecmath.Vector3) bool {
	axis, h := r.unit()
	d := pos.Sub(r.Base)
	s := d.Dot(axis)
	if s < 0 || s > h {
		return false
	}
	perp := d.Sub(axis.Scale(s))
	return perp.LengthSq() <= r.Radius*r.Radius
}

// EllipticCylinderRegion is a CylinderRegion whose cross-section is an
// ellipse with semi-axes RadiusA (along the first perpendicular basis
// vector) and RadiusB (along the second).
type EllipticCylinderRegion struct {
	Base, Axis      vecmath.Vector3
	RadiusA, RadiusB float64
}

func (r EllipticCylinderRegion) unit() (vecmath.Vector3, float64) {
	h := r.Axis.Length()
	if h == 0 {
		return r.Axis, 0
	}
	return r.Axis.Scale(1 / h), h
}

func (r EllipticCylinderRegion) SamplePoint(s *mc.Sampler) vecmath.Vector3 {
	axis, h := r.unit()
	perp1, perp2 := orthonormalBasis(axis)
	for {
		x := 2*s.Uniform() - 1
		y := 2*s.Uniform() - 1
		if x*x+y*y <= 1 {
			radial := perp1.Scale(x * r.RadiusA).Add(perp2.Scale(y * r.RadiusB))
			return r.Base.Add(radial).Add(axis.Scale(s.Uniform() * h))
		}
	}
}

func (r EllipticCylinderRegion) Contains(pos vecmath.Vector3) bool {
	axis, h := r.unit()
	perp1, perp2 := orthonormalBasis(axis)
	d := pos.Sub(r.Base)
	s := d.Dot(axis)
	if s < 0 || s > h {
		return false
	}
	rad := d.Sub(axis.Scale(s))
	u, v := rad.Dot(perp1), rad.Dot(perp2)
	return (u*u)/(r.RadiusA*r.RadiusA)+(v*v)/(r.RadiusB*r.RadiusB) <= 1
}

// AnnulusRegion samples uniformly within the volume between InnerRadius
// and OuterRadius of a cylindrical shell.
type AnnulusRegion struct {
	Base, Axis               vecmath.Vector3
	InnerRadius, OuterRadius float64
}

func (r AnnulusRegion) unit() (vecmath.Vector3, float64) {
	h := r.Axis.Length()
	if h == 0 {
		return r.Axis, 0
	}
	return r.Axis.Scale(1 / h), h
}

func (r AnnulusRegion) SamplePoint(s *mc.Sampler) vecmath.Vector3 {
	axis, h := r.unit()
	perp1, perp2 := orthonormalBasis(axis)
	inner2, outer2 := r.InnerRadius*r.InnerRadius, r.OuterRadius*r.OuterRadius
	radius := math.Sqrt(inner2 + s.Uniform()*(outer2-inner2))
	theta := 2 * math.Pi * s.Uniform()
	radial := perp1.Scale(radius * math.Cos(theta)).Add(perp2.Scale(radius * math.Sin(theta)))
	return r.Base.Add(radial).Add(axis.Scale(s.Uniform() * h))
}

func (r AnnulusRegion) Contains(pos vecmath.Vector3) bool {
	axis, h := r.unit()
	d := pos.Sub(r.Base)
	s := d.Dot(axis)
	if s < 0 || s > h {
		return false
	}
	perp := d.Sub(axis.Scale(s))
	l2 := perp.LengthSq()
	return l2 >= r.InnerRadius*r.InnerRadius && l2 <= r.OuterRadius*r.OuterRadius
}

// VectorRegion samples uniformly (by area) over a set of triangles,
// used for sources whose activity follows a scene surface.
type VectorRegion struct {
	A, B, C []vecmath.Vector3 // parallel triangle vertex arrays
	areas   []float64
	total   float64
}

// NewVectorRegion precomputes per-triangle areas for area-weighted
// sampling.
func NewVectorRegion(a, b, c []vecmath.Vector3) *VectorRegion {
	r := &VectorRegion{A: a, B: b, C: c, areas: make([]float64, len(a))}
	for i := range a {
		area := b[i].Sub(a[i]).Cross(c[i].Sub(a[i])).Length() / 2
		r.areas[i] = area
		r.total += area
	}
	return r
}

func (r *VectorRegion) SamplePoint(s *mc.Sampler) vecmath.Vector3 {
	target := s.Uniform() * r.total
	var acc float64
	idx := len(r.areas) - 1
	for i, a := range r.areas {
		acc += a
		if acc >= target {
			idx = i
			break
		}
	}
	u, v := s.Uniform(), s.Uniform()
	if u+v > 1 {
		u, v = 1-u, 1-v
	}
	e1 := r.B[idx].Sub(r.A[idx])
	e2 := r.C[idx].Sub(r.A[idx])
	return r.A[idx].Add(e1.Scale(u)).Add(e2.Scale(v))
}

func (r *VectorRegion) Contains(pos vecmath.Vector3) bool { return false }

// orthonormalBasis returns two unit vectors perpendicular to axis (and
// to each other), used to parametrize a cylinder's cross-section.
func orthonormalBasis(axis vecmath.Vector3) (vecmath.Vector3, vecmath.Vector3) {
	ref := vecmath.Vector3{Y: 1}
	if math.Abs(axis.Dot(ref)) > 0.99 {
		ref = vecmath.Vector3{X: 1}
	}
	perp1 := axis.Cross(ref).Normalize()
	perp2 := axis.Cross(perp1).Normalize()
	return perp1, perp2
}
