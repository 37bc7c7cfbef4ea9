package material

import (
	"math"
	"testing"

	"github.com/dfreese/Gray-sub002/vecmath"
)

func waterLike() *Material {
	energy := []float64{0.01, 0.1, 0.5, 1.0, 1.5}
	phot := []float64{5.0, 0.02, 0.002, 0.0005, 0.0002}
	comp := []float64{0.1, 0.15, 0.1, 0.07, 0.05}
	rayl := []float64{0.5, 0.01, 0.001, 0.0003, 0.0001}
	x := []float64{0, 1, 2, 5, 10}
	sf := []float64{0, 0.3, 0.6, 0.9, 1.0}
	ff := []float64{1, 0.8, 0.4, 0.1, 0.02}
	return NewMaterial(0, "water", 1.0, true, true, energy, comp, phot, rayl, x, sf, ff)
}

func TestInterpolateClamps(t *testing.T) {
	x := []float64{1, 2, 3}
	y := []float64{10, 20, 30}
	if v := interpolate(x, y, 0); v != 10 {
		t.Errorf("below range: got %v, want 10", v)
	}
	if v := interpolate(x, y, 4); v != 30 {
		t.Errorf("above range: got %v, want 30", v)
	}
	if v := interpolate(x, y, 1.5); v != 15 {
		t.Errorf("midpoint: got %v, want 15", v)
	}
}

func TestAttenuationAtMemoizes(t *testing.T) {
	m := waterLike()
	a := m.AttenuationAt(0.3)
	b := m.AttenuationAt(0.3)
	if a != b {
		t.Errorf("expected identical cached result, got %v vs %v", a, b)
	}
	if a.Total <= 0 {
		t.Errorf("expected positive total attenuation, got %v", a.Total)
	}
	if math.Abs(a.Total-(a.Photoelectric+a.Compton+a.Rayleigh)) > 1e-12 {
		t.Errorf("total should equal sum of channels, got %v vs sum %v", a.Total, a.Photoelectric+a.Compton+a.Rayleigh)
	}
}

func TestSelectInteractionBoundaries(t *testing.T) {
	m := waterLike()
	lens := AttenLengths{Photoelectric: 1, Compton: 2, Rayleigh: 3, Total: 6}
	cases := []struct {
		u    float64
		want InteractionKind
	}{
		{0, Photoelectric},
		{0.999, Photoelectric},
		{1.001, Compton},
		{2.999, Compton},
		{3.001, Rayleigh},
		{5.999, Rayleigh},
	}
	for _, c := range cases {
		if got := m.SelectInteraction(c.u, lens); got != c.want {
			t.Errorf("SelectInteraction(%v) = %v, want %v", c.u, got, c.want)
		}
	}
}

func TestComptonScatterConservesEnergyDownward(t *testing.T) {
	m := waterLike()
	dir := vecmath.Vector3{X: 0, Y: 0, Z: 1}
	for _, e := range []float64{0.05, 0.1, 0.3, 0.511, 1.0} {
		newDir, eOut := m.ComptonScatter(dir, e, 0.25, 0.75)
		if eOut <= 0 || eOut > e {
			t.Errorf("e=%v: scattered energy %v out of (0, %v]", e, eOut, e)
		}
		if math.Abs(newDir.Length()-1) > 1e-9 {
			t.Errorf("e=%v: scattered direction not unit length: %v", e, newDir.Length())
		}
	}
}

func TestRayleighScatterPreservesEnergy(t *testing.T) {
	m := waterLike()
	dir := vecmath.Vector3{X: 1, Y: 0, Z: 0}
	newDir := m.RayleighScatter(dir, 0.2, 0.5, 0.5)
	if math.Abs(newDir.Length()-1) > 1e-9 {
		t.Errorf("scattered direction not unit length: %v", newDir.Length())
	}
}

func TestXrayEscapeNoShellsNeverEscapes(t *testing.T) {
	m := waterLike()
	if _, escapes := m.XrayEscape(0.1, 0.5, 0.0); escapes {
		t.Error("material with no shells should never report an escape")
	}
}

func TestXrayEscapeBelowBindingEnergyNeverEscapes(t *testing.T) {
	m := waterLike()
	m.Shells = []Shell{{BindingEnergy: 0.5, SelectionWeight: 1, FluorescenceYield: 1}}
	if _, escapes := m.XrayEscape(0.1, 0.5, 0.0); escapes {
		t.Error("photon energy below the only shell's binding energy should never escape")
	}
}

func TestXrayEscapeFullYieldAlwaysEscapesAtBindingEnergy(t *testing.T) {
	m := waterLike()
	m.Shells = []Shell{{BindingEnergy: 0.1, SelectionWeight: 1, FluorescenceYield: 1}}
	e, escapes := m.XrayEscape(0.5, 0.9, 0.0)
	if !escapes {
		t.Fatal("fluorescence yield of 1 should always escape")
	}
	if e != 0.1 {
		t.Errorf("escaped x-ray energy = %v, want shell binding energy 0.1", e)
	}
}

func TestXrayEscapeZeroYieldNeverEscapes(t *testing.T) {
	m := waterLike()
	m.Shells = []Shell{{BindingEnergy: 0.1, SelectionWeight: 1, FluorescenceYield: 0}}
	if _, escapes := m.XrayEscape(0.5, 0.5, 0.999); escapes {
		t.Error("fluorescence yield of 0 should always lose the Auger coinflip")
	}
}

func TestScatterTableSampleMonotonicInCDF(t *testing.T) {
	m := waterLike()
	// A larger uniform draw should never yield a smaller or equal cos
	// theta sample at a fixed energy, since the CDF is monotonic.
	e := 0.3
	prev := -2.0
	for _, u := range []float64{0.01, 0.25, 0.5, 0.75, 0.99} {
		c := m.compton.sample(e, u)
		if c < prev {
			t.Errorf("sample at u=%v gave cos theta %v, less than previous %v", u, c, prev)
		}
		prev = c
	}
}
