package main

import (
	"testing"

	"github.com/dfreese/Gray-sub002/vecmath"
)

func TestVec3(t *testing.T) {
	got := vec3([]float64{1, 2, 3})
	want := vecmath.Vector3{X: 1, Y: 2, Z: 3}
	if got != want {
		t.Errorf("vec3: got %+v want %+v", got, want)
	}
	if z := vec3(nil); z != (vecmath.Vector3{}) {
		t.Errorf("vec3(nil): got %+v want zero value", z)
	}
	if z := vec3([]float64{1, 2}); z != (vecmath.Vector3{}) {
		t.Errorf("vec3(short slice): got %+v want zero value", z)
	}
}

func TestBuildRegion(t *testing.T) {
	cases := []struct {
		name string
		bs   bundleSource
	}{
		{"point", bundleSource{Type: "point", Center: []float64{1, 2, 3}}},
		{"sphere", bundleSource{Type: "sphere", Center: []float64{0, 0, 0}, Radius: 2}},
		{"box", bundleSource{Type: "box", Center: []float64{0, 0, 0}, Size: []float64{1, 1, 1}}},
	}
	for _, c := range cases {
		if _, err := buildRegion(c.bs); err != nil {
			t.Errorf("buildRegion(%s): unexpected error: %v", c.name, err)
		}
	}
	if _, err := buildRegion(bundleSource{Type: "cylinder"}); err == nil {
		t.Error("buildRegion(unsupported type): expected error, got nil")
	}
}
