package geom

import "github.com/dfreese/Gray-sub002/vecmath"

// Parallelogram is a flat quadrilateral spanned by two edge vectors from
// a corner vertex: A, A+edge1, A+edge1+edge2, A+edge2, in counter-
// clockwise order. It shares the triangle's dual-basis intersection
// technique but tests u,v in [0,1] instead of a barycentric simplex.
type Parallelogram struct {
	A, Edge1, Edge2 vecmath.Vector3

	MaterialF, MaterialB MaterialRef
	DetectorID, SourceID int

	normal        vecmath.Vector3
	planeCoef     float64
	uAxis, vAxis  vecmath.Vector3
}

// NewParallelogram builds a Parallelogram and precomputes its basis.
func NewParallelogram(a, edge1, edge2 vecmath.Vector3, matF, matB MaterialRef, detID, srcID int) *Parallelogram {
	p := &Parallelogram{A: a, Edge1: edge1, Edge2: edge2, MaterialF: matF, MaterialB: matB, DetectorID: detID, SourceID: srcID}
	p.precalc()
	return p
}

func (p *Parallelogram) precalc() {
	n := p.Edge1.Cross(p.Edge2)
	nn := n.Dot(n)
	p.normal = n.Normalize()
	p.planeCoef = n.Dot(p.A)
	if nn > 0 {
		p.uAxis = p.Edge2.Cross(n).Scale(1 / nn)
		p.vAxis = n.Cross(p.Edge1).Scale(1 / nn)
	}
}

func (p *Parallelogram) IsTwoSided() bool {
	return p.MaterialB != NoMaterial
}

func (p *Parallelogram) FindIntersection(origin, dir vecmath.Vector3, maxDist float64) (HitRecord, bool) {
	denom := p.normal.Dot(dir)
	if denom == 0 {
		return HitRecord{}, false
	}
	t := (p.planeCoef - p.normal.Dot(origin)) / denom
	if t <= 0 || t > maxDist {
		return HitRecord{}, false
	}

	pos := origin.Add(dir.Scale(t))
	rel := pos.Sub(p.A)
	u := p.uAxis.Dot(rel)
	v := p.vAxis.Dot(rel)
	if u < 0 || u > 1 || v < 0 || v > 1 {
		return HitRecord{}, false
	}

	frontFace := denom < 0
	if !frontFace && !p.IsTwoSided() {
		return HitRecord{}, false
	}

	return HitRecord{
		T:          t,
		Point:      pos,
		Normal:     p.normal,
		FrontFace:  frontFace,
		MaterialF:  p.MaterialF,
		MaterialB:  p.MaterialB,
		DetectorID: p.DetectorID,
		SourceID:   p.SourceID,
	}, true
}

func (p *Parallelogram) CalcAABB() vecmath.AABB {
	b := p.A
	c := p.A.Add(p.Edge1)
	d := p.A.Add(p.Edge2)
	e := p.A.Add(p.Edge1).Add(p.Edge2)
	box := vecmath.NewAABB(b, c)
	box = box.EnlargeToEncloseVec(d)
	box = box.EnlargeToEncloseVec(e)
	return box
}

func (p *Parallelogram) CalcExtentsInBox(box vecmath.AABB) (vecmath.AABB, bool) {
	clipped := p.CalcAABB().Intersect(box)
	if clipped.IsEmpty() {
		return vecmath.AABB{}, false
	}
	return clipped, true
}

func (p *Parallelogram) Materials() (front, back MaterialRef) { return p.MaterialF, p.MaterialB }
