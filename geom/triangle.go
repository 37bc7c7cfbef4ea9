package geom

import "github.com/dfreese/Gray-sub002/vecmath"

// Triangle is a flat, one- or two-sided polygon with three vertices in
// counter-clockwise order (as seen from the front face). It precomputes
// its plane normal, plane constant and a dual barycentric basis so that
// FindIntersection costs a small constant number of dot products, per
// the scene's design: sit MaterialB to NoMaterial for a back-face-culled
// (one-sided) triangle.
type Triangle struct {
	A, B, C vecmath.Vector3

	MaterialF, MaterialB MaterialRef
	DetectorID, SourceID int

	normal         vecmath.Vector3
	planeCoef      float64
	uBeta, uGamma  vecmath.Vector3
}

// NewTriangle builds a Triangle and precomputes its intersection basis.
func NewTriangle(a, b, c vecmath.Vector3, matF, matB MaterialRef, detID, srcID int) *Triangle {
	t := &Triangle{A: a, B: b, C: c, MaterialF: matF, MaterialB: matB, DetectorID: detID, SourceID: srcID}
	t.precalc()
	return t
}

func (t *Triangle) precalc() {
	e1 := t.B.Sub(t.A)
	e2 := t.C.Sub(t.A)
	n := e1.Cross(e2)
	nn := n.Dot(n)
	t.normal = n.Normalize()
	t.planeCoef = n.Dot(t.A)
	if nn > 0 {
		t.uBeta = e2.Cross(n).Scale(1 / nn)
		t.uGamma = n.Cross(e1).Scale(1 / nn)
	}
}

// IsTwoSided reports whether the triangle has a distinct back material.
func (t *Triangle) IsTwoSided() bool {
	return t.MaterialB != NoMaterial
}

func (t *Triangle) FindIntersection(origin, dir vecmath.Vector3, maxDist float64) (HitRecord, bool) {
	denom := t.normal.Dot(dir)
	if denom == 0 {
		return HitRecord{}, false
	}
	tHit := (t.planeCoef - t.normal.Dot(origin)) / denom
	if tHit <= 0 || tHit > maxDist {
		return HitRecord{}, false
	}

	p := origin.Add(dir.Scale(tHit))
	rel := p.Sub(t.A)
	beta := t.uBeta.Dot(rel)
	gamma := t.uGamma.Dot(rel)
	alpha := 1 - beta - gamma
	if alpha < 0 || beta < 0 || gamma < 0 {
		return HitRecord{}, false
	}

	frontFace := denom < 0
	if !frontFace && !t.IsTwoSided() {
		return HitRecord{}, false
	}

	return HitRecord{
		T:          tHit,
		Point:      p,
		Normal:     t.normal,
		FrontFace:  frontFace,
		MaterialF:  t.MaterialF,
		MaterialB:  t.MaterialB,
		DetectorID: t.DetectorID,
		SourceID:   t.SourceID,
	}, true
}

func (t *Triangle) CalcAABB() vecmath.AABB {
	box := vecmath.NewAABB(t.A, t.B)
	return box.EnlargeToEncloseVec(t.C)
}

func (t *Triangle) CalcExtentsInBox(box vecmath.AABB) (vecmath.AABB, bool) {
	full := t.CalcAABB()
	clipped := full.Intersect(box)
	if clipped.IsEmpty() {
		return vecmath.AABB{}, false
	}
	return clipped, true
}

func (t *Triangle) Materials() (front, back MaterialRef) { return t.MaterialF, t.MaterialB }
