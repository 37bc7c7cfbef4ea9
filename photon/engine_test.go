package photon

import (
	"testing"

	"github.com/dfreese/Gray-sub002/geom"
	"github.com/dfreese/Gray-sub002/material"
	"github.com/dfreese/Gray-sub002/vecmath"
)

// constSampler feeds a fixed sequence of uniform draws, cycling once
// exhausted, for deterministic tests.
type constSampler struct {
	vals []float64
	i    int
}

func (c *constSampler) Uniform() float64 {
	v := c.vals[c.i%len(c.vals)]
	c.i++
	return v
}

func testMaterial(index int, sensitive, interactive bool, density float64) *material.Material {
	energy := []float64{0.01, 1.0, 1.5}
	phot := []float64{0.01, 0.01, 0.01}
	comp := []float64{0.01, 0.01, 0.01}
	rayl := []float64{0.01, 0.01, 0.01}
	x := []float64{0, 10}
	sf := []float64{1, 1}
	ff := []float64{1, 1}
	return material.NewMaterial(index, "m", density, sensitive, interactive, energy, comp, phot, rayl, x, sf, ff)
}

// emptyWorld never reports a hit, so TracePhoton should immediately
// record no_interaction and return.
type emptyWorld struct{}

func (emptyWorld) Intersect(origin, dir vecmath.Vector3, maxDist float64) (geom.HitRecord, bool) {
	return geom.HitRecord{}, false
}
func (emptyWorld) MaterialAt(ref geom.MaterialRef) *material.Material { return nil }

func TestTracePhotonNoInteractionOnEmptyScene(t *testing.T) {
	world := emptyWorld{}
	e := &Engine{World: world, Rand: &constSampler{vals: []float64{0.5}}, LogNoInteractions: true}
	p := &Photon{Pos: vecmath.Vector3{}, Dir: vecmath.Vector3{Z: 1}, Energy: 0.5, DetID: -1,
		Stack: MaterialStack{testMaterial(0, false, false, 1.0)}}

	out := e.TracePhoton(p, nil)
	if len(out) != 1 || out[0].Kind != KindNoInteraction {
		t.Fatalf("expected a single no_interaction record, got %+v", out)
	}
	if e.Stats().NoInteraction != 1 {
		t.Errorf("expected NoInteraction stat to be 1, got %d", e.Stats().NoInteraction)
	}
}

func TestTracePhotonEmptyStackIsError(t *testing.T) {
	e := &Engine{World: emptyWorld{}, Rand: &constSampler{vals: []float64{0.5}}, LogErrors: true}
	p := &Photon{Dir: vecmath.Vector3{Z: 1}, Energy: 0.5, DetID: -1}

	out := e.TracePhoton(p, nil)
	if len(out) != 1 || out[0].Kind != KindErrorEmpty {
		t.Fatalf("expected a single error_empty record, got %+v", out)
	}
	if e.Stats().Error != 1 {
		t.Errorf("expected Error stat to be 1, got %d", e.Stats().Error)
	}
}

// absorber is a World with a single face at distance 1 along +z whose
// back side is the photon's own starting material, used to exercise the
// photoelectric-termination path with a forced u=0 draw (always picks
// photoelectric when its coefficient is first in SelectInteraction's
// ordering).
type absorber struct {
	mat *material.Material
}

func (a absorber) Intersect(origin, dir vecmath.Vector3, maxDist float64) (geom.HitRecord, bool) {
	return geom.HitRecord{T: 1.0, FrontFace: true, MaterialF: 0, DetectorID: -1}, true
}
func (a absorber) MaterialAt(ref geom.MaterialRef) *material.Material { return a.mat }

func TestTracePhotonPhotoelectricTerminates(t *testing.T) {
	mat := testMaterial(0, false, true, 100.0) // dense: free flight lands well inside 1.0
	world := absorber{mat: mat}
	e := &Engine{World: world, Rand: &constSampler{vals: []float64{0.999, 0.0}}, LogNonsensitive: true}
	p := &Photon{Dir: vecmath.Vector3{Z: 1}, Energy: 0.5, DetID: -1, Stack: MaterialStack{mat}}

	out := e.TracePhoton(p, nil)
	if len(out) == 0 || out[len(out)-1].Kind != KindPhotoelectric {
		t.Fatalf("expected final record to be photoelectric, got %+v", out)
	}
	if p.Energy != 0 {
		t.Errorf("expected photon energy to be zeroed after photoelectric absorption, got %v", p.Energy)
	}
}

func TestMaterialStackPushPopClone(t *testing.T) {
	var s MaterialStack
	m1 := testMaterial(1, false, true, 1)
	m2 := testMaterial(2, false, true, 1)
	s = s.Push(m1).Push(m2)
	if s.Top() != m2 {
		t.Fatalf("expected top to be m2")
	}
	clone := s.Clone()
	s = s.Pop()
	if s.Top() != m1 {
		t.Fatalf("expected top to be m1 after pop")
	}
	if clone.Top() != m2 {
		t.Fatalf("clone should be unaffected by original's pop")
	}
}
