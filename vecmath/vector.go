// Package vecmath provides 3-D vector and axis-aligned bounding box
// primitives used throughout the ray-tracing core.
package vecmath

import "math"

// Vector3 is a point or direction in 3-space.
type Vector3 struct {
	X, Y, Z float64
}

// Add returns v+u.
func (v Vector3) Add(u Vector3) Vector3 {
	return Vector3{v.X + u.X, v.Y + u.Y, v.Z + u.Z}
}

// Sub returns v-u.
func (v Vector3) Sub(u Vector3) Vector3 {
	return Vector3{v.X - u.X, v.Y - u.Y, v.Z - u.Z}
}

// Scale returns v*s.
func (v Vector3) Scale(s float64) Vector3 {
	return Vector3{v.X * s, v.Y * s, v.Z * s}
}

// Dot returns the dot product v . u.
func (v Vector3) Dot(u Vector3) float64 {
	return v.X*u.X + v.Y*u.Y + v.Z*u.Z
}

// Cross returns the cross product v x u.
func (v Vector3) Cross(u Vector3) Vector3 {
	return Vector3{
		v.Y*u.Z - v.Z*u.Y,
		v.Z*u.X - v.X*u.Z,
		v.X*u.Y - v.Y*u.X,
	}
}

// Length returns the Euclidean norm of v.
func (v Vector3) Length() float64 {
	return math.Sqrt(v.Dot(v))
}

// LengthSq returns the squared Euclidean norm of v, avoiding a sqrt.
func (v Vector3) LengthSq() float64 {
	return v.Dot(v)
}

// Normalize returns v scaled to unit length. The zero vector is
// returned unchanged.
func (v Vector3) Normalize() Vector3 {
	l := v.Length()
	if l == 0 {
		return v
	}
	return v.Scale(1 / l)
}

// Negate returns -v.
func (v Vector3) Negate() Vector3 {
	return Vector3{-v.X, -v.Y, -v.Z}
}

// Component returns the k-th axis component (0=x, 1=y, 2=z).
func (v Vector3) Component(k int) float64 {
	switch k {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// WithComponent returns a copy of v with axis k set to val.
func (v Vector3) WithComponent(k int, val float64) Vector3 {
	switch k {
	case 0:
		v.X = val
	case 1:
		v.Y = val
	default:
		v.Z = val
	}
	return v
}

// Min returns the componentwise minimum of v and u.
func Min(v, u Vector3) Vector3 {
	return Vector3{math.Min(v.X, u.X), math.Min(v.Y, u.Y), math.Min(v.Z, u.Z)}
}

// Max returns the componentwise maximum of v and u.
func Max(v, u Vector3) Vector3 {
	return Vector3{math.Max(v.X, u.X), math.Max(v.Y, u.Y), math.Max(v.Z, u.Z)}
}

// Reflect reflects v about a unit normal n: v - 2(v.n)n.
func (v Vector3) Reflect(n Vector3) Vector3 {
	return v.Sub(n.Scale(2 * v.Dot(n)))
}
