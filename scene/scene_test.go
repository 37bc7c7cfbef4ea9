package scene

import (
	"testing"

	"github.com/dfreese/Gray-sub002/geom"
	"github.com/dfreese/Gray-sub002/kdtree"
	"github.com/dfreese/Gray-sub002/material"
	"github.com/dfreese/Gray-sub002/vecmath"
)

func simpleMaterial(idx int) *material.Material {
	energy := []float64{0.01, 1.5}
	v := []float64{0.01, 0.01}
	x := []float64{0, 10}
	sf := []float64{1, 1}
	return material.NewMaterial(idx, "m", 1.0, false, true, energy, v, v, v, x, sf, sf)
}

func buildSphereScene(t *testing.T) *Scene {
	t.Helper()
	b := NewBuilder()
	b.SetDefaultMaterial(simpleMaterial(0))
	mat := simpleMaterial(1)
	b.AddMaterial(mat)
	sphere := geom.NewSphere(vecmath.Vector3{}, 1.0, 0, 0, -1, -1)
	b.AddPrimitive(sphere)
	sc, err := b.Build(kdtree.DefaultBuildOptions())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return sc
}

func TestSceneIntersectHitsSphere(t *testing.T) {
	sc := buildSphereScene(t)
	hit, ok := sc.Intersect(vecmath.Vector3{X: -5}, vecmath.Vector3{X: 1}, 1e9)
	if !ok {
		t.Fatal("expected a hit on the sphere")
	}
	if hit.T <= 0 {
		t.Errorf("expected positive hit distance, got %v", hit.T)
	}
	if !hit.FrontFace {
		t.Errorf("expected to hit the sphere's front face from outside")
	}
}

func TestSceneIntersectMissesEmptySpace(t *testing.T) {
	sc := buildSphereScene(t)
	_, ok := sc.Intersect(vecmath.Vector3{X: -5, Y: 5}, vecmath.Vector3{X: 1}, 1e9)
	if ok {
		t.Fatal("expected no hit along a ray that misses the sphere")
	}
}

func TestOverlapSingleCleanSphere(t *testing.T) {
	sc := buildSphereScene(t)
	ok := sc.TestOverlapSingle(vecmath.Vector3{X: -5}, vecmath.Vector3{X: 1})
	if !ok {
		t.Error("expected a clean (balanced push/pop) walk through a single closed sphere")
	}
}

func TestDiameterPositive(t *testing.T) {
	sc := buildSphereScene(t)
	if sc.Diameter() <= 0 {
		t.Errorf("expected positive scene diameter, got %v", sc.Diameter())
	}
}

func TestBuildRejectsOutOfRangeMaterialRef(t *testing.T) {
	b := NewBuilder()
	b.SetDefaultMaterial(simpleMaterial(0))
	b.AddMaterial(simpleMaterial(1))
	sphere := geom.NewSphere(vecmath.Vector3{}, 1.0, geom.MaterialRef(5), 0, -1, -1)
	b.AddPrimitive(sphere)
	if _, err := b.Build(kdtree.DefaultBuildOptions()); err == nil {
		t.Fatal("expected Build to reject an out-of-range front material ref")
	}
}

func TestBuildAllowsNoMaterial(t *testing.T) {
	b := NewBuilder()
	b.SetDefaultMaterial(simpleMaterial(0))
	b.AddMaterial(simpleMaterial(1))
	sphere := geom.NewSphere(vecmath.Vector3{}, 1.0, geom.NoMaterial, geom.NoMaterial, -1, -1)
	b.AddPrimitive(sphere)
	if _, err := b.Build(kdtree.DefaultBuildOptions()); err != nil {
		t.Fatalf("expected NoMaterial refs to be accepted, got %v", err)
	}
}
