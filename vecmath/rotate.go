package vecmath

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// RotateAboutAxis rotates v by angle radians about the unit axis using
// Rodrigues' rotation formula, implemented as a 3x3 matrix-vector
// multiply via gonum/mat so the composition below reads as ordinary
// linear algebra rather than hand-unrolled cross products.
func RotateAboutAxis(v, axis Vector3, angle float64) Vector3 {
	axis = axis.Normalize()
	s, c := math.Sincos(angle)
	oneMinusC := 1 - c

	ax, ay, az := axis.X, axis.Y, axis.Z
	r := mat.NewDense(3, 3, []float64{
		c + ax*ax*oneMinusC, ax*ay*oneMinusC - az*s, ax*az*oneMinusC + ay*s,
		ay*ax*oneMinusC + az*s, c + ay*ay*oneMinusC, ay*az*oneMinusC - ax*s,
		az*ax*oneMinusC - ay*s, az*ay*oneMinusC + ax*s, c + az*az*oneMinusC,
	})

	in := mat.NewVecDense(3, []float64{v.X, v.Y, v.Z})
	var out mat.VecDense
	out.MulVec(r, in)
	return Vector3{out.AtVec(0), out.AtVec(1), out.AtVec(2)}
}

// Deflect rotates the unit direction dir by polar angle theta (from dir)
// and azimuth phi (about dir), used to apply a sampled Compton/Rayleigh
// scattering angle to a photon's direction of travel. The perpendicular
// axis is built from dir x globalY, renormalised; if that is degenerate
// (dir parallel to global y) dir x globalX is used instead.
func Deflect(dir Vector3, theta, phi float64) Vector3 {
	perp := dir.Cross(Vector3{0, 1, 0})
	if perp.LengthSq() < 1e-20 {
		perp = dir.Cross(Vector3{1, 0, 0})
	}
	perp = perp.Normalize()

	deflected := RotateAboutAxis(dir, perp, theta)
	return RotateAboutAxis(deflected, dir, phi).Normalize()
}
