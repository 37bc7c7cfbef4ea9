package vecmath

import "math"

// AABB is an axis-aligned bounding box, inclusive of its faces.
// Invariant: Min.k <= Max.k on every axis.
type AABB struct {
	Min, Max Vector3
}

// EmptyAABB returns a box with Min > Max on every axis, suitable as the
// accumulator for a chain of EnlargeToEnclose calls.
func EmptyAABB() AABB {
	inf := math.Inf(1)
	return AABB{
		Min: Vector3{inf, inf, inf},
		Max: Vector3{-inf, -inf, -inf},
	}
}

// NewAABB builds the tight box enclosing a and b.
func NewAABB(a, b Vector3) AABB {
	return AABB{Min: Min(a, b), Max: Max(a, b)}
}

// EnlargeToEnclose returns the smallest box containing both b and other.
func (b AABB) EnlargeToEnclose(other AABB) AABB {
	return AABB{Min: Min(b.Min, other.Min), Max: Max(b.Max, other.Max)}
}

// EnlargeToEncloseVec returns the smallest box containing both b and p.
func (b AABB) EnlargeToEncloseVec(p Vector3) AABB {
	return AABB{Min: Min(b.Min, p), Max: Max(b.Max, p)}
}

// Intersect returns the set-intersection of b and other. The result may
// be empty (IsEmpty() true) if the boxes do not overlap.
func (b AABB) Intersect(other AABB) AABB {
	return AABB{Min: Max(b.Min, other.Min), Max: Min(b.Max, other.Max)}
}

// IsEmpty reports whether Min > Max on any axis. A box with zero extent
// on an axis (a flat box or a point) is not empty.
func (b AABB) IsEmpty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

// SurfaceArea returns the total surface area of the box. Returns 0 for
// an empty box.
func (b AABB) SurfaceArea() float64 {
	if b.IsEmpty() {
		return 0
	}
	d := b.Max.Sub(b.Min)
	return 2 * (d.X*d.Y + d.Y*d.Z + d.Z*d.X)
}

// Extent returns the box's size along axis k.
func (b AABB) Extent(k int) float64 {
	return b.Max.Component(k) - b.Min.Component(k)
}

// LargestAxis returns the axis (0=x,1=y,2=z) along which the box has
// the greatest extent.
func (b AABB) LargestAxis() int {
	d := b.Max.Sub(b.Min)
	axis := 0
	best := d.X
	if d.Y > best {
		axis, best = 1, d.Y
	}
	if d.Z > best {
		axis = 2
	}
	return axis
}

// Diagonal returns the Euclidean length of the box's space diagonal.
func (b AABB) Diagonal() float64 {
	return b.Max.Sub(b.Min).Length()
}

// Hit performs the slab-method ray/box intersection test, clipped to the
// caller-supplied parametric range [t0, t1]. It returns the overlap of
// the ray's valid t-range with the box and whether that overlap is
// non-empty. Each axis's near/far slab order comes from the sign of that
// axis's reciprocal direction, computed on every call; Hit takes no
// precomputed sign bits.
//
// Per IEEE-754, dividing by a zero direction component yields +/-Inf,
// which sorts to the correct slab bound automatically -- no special
// casing is required for axis-aligned rays.
func (b AABB) Hit(origin, dir Vector3, t0, t1 float64) (tMin, tMax float64, ok bool) {
	invX, invY, invZ := 1/dir.X, 1/dir.Y, 1/dir.Z

	tMin, tMax = t0, t1

	tx0 := (b.Min.X - origin.X) * invX
	tx1 := (b.Max.X - origin.X) * invX
	if invX < 0 {
		tx0, tx1 = tx1, tx0
	}
	if tx0 > tMin {
		tMin = tx0
	}
	if tx1 < tMax {
		tMax = tx1
	}
	if tMax <= tMin {
		return tMin, tMax, false
	}

	ty0 := (b.Min.Y - origin.Y) * invY
	ty1 := (b.Max.Y - origin.Y) * invY
	if invY < 0 {
		ty0, ty1 = ty1, ty0
	}
	if ty0 > tMin {
		tMin = ty0
	}
	if ty1 < tMax {
		tMax = ty1
	}
	if tMax <= tMin {
		return tMin, tMax, false
	}

	tz0 := (b.Min.Z - origin.Z) * invZ
	tz1 := (b.Max.Z - origin.Z) * invZ
	if invZ < 0 {
		tz0, tz1 = tz1, tz0
	}
	if tz0 > tMin {
		tMin = tz0
	}
	if tz1 < tMax {
		tMax = tz1
	}
	if tMax <= tMin {
		return tMin, tMax, false
	}

	return tMin, tMax, true
}
