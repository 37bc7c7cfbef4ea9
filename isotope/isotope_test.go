package isotope

import (
	"math"
	"testing"

	"github.com/dfreese/Gray-sub002/mc"
	"github.com/dfreese/Gray-sub002/photon"
	"github.com/dfreese/Gray-sub002/vecmath"
)

func TestPositronIsotopePureEmitterYieldsBlueRed(t *testing.T) {
	p := &PositronIsotope{PositronEmissionProb: 1.0, AcolinearityFWHMDeg: 0.5}
	s := mc.New(1)
	photons := p.Decay(s, vecmath.Vector3{}, 0, 1, 0)
	if len(photons) != 2 {
		t.Fatalf("expected 2 photons, got %d", len(photons))
	}
	colors := map[photon.Color]bool{}
	for _, ph := range photons {
		colors[ph.Color] = true
		if math.Abs(ph.Energy-energy511) > 1e-9 {
			t.Errorf("expected 511 keV photon, got %v", ph.Energy)
		}
		if math.Abs(ph.Dir.Length()-1) > 1e-9 {
			t.Errorf("expected unit direction, got length %v", ph.Dir.Length())
		}
	}
	if !colors[photon.ColorBlue] || !colors[photon.ColorRed] {
		t.Errorf("expected one blue and one red photon, got %+v", photons)
	}
}

func TestPositronIsotopeWithPromptGammaYieldsThree(t *testing.T) {
	p := &PositronIsotope{PositronEmissionProb: 1.0, PromptGammaEnergyMeV: 0.909, AcolinearityFWHMDeg: 0.5}
	s := mc.New(2)
	photons := p.Decay(s, vecmath.Vector3{}, 0, 1, 0)
	if len(photons) != 3 {
		t.Fatalf("expected 3 photons, got %d", len(photons))
	}
	var sawYellow bool
	for _, ph := range photons {
		if ph.Color == photon.ColorYellow {
			sawYellow = true
			if math.Abs(ph.Energy-0.909) > 1e-9 {
				t.Errorf("expected prompt gamma energy 0.909, got %v", ph.Energy)
			}
		}
	}
	if !sawYellow {
		t.Errorf("expected a yellow prompt-gamma photon")
	}
}

func TestPositronIsotopeExpectedPhotons(t *testing.T) {
	p := &PositronIsotope{PositronEmissionProb: 0.9, PromptGammaEnergyMeV: 0.909}
	if got := p.ExpectedPhotons(); math.Abs(got-2.8) > 1e-9 {
		t.Errorf("ExpectedPhotons() = %v, want 2.8", got)
	}
}

func TestGaussianRangeRejectsBeyondMax(t *testing.T) {
	g := GaussianRange{FWHMMM: 10, MaxRangeMM: 0.5}
	s := mc.New(3)
	for i := 0; i < 100; i++ {
		p := g.Sample(s, vecmath.Vector3{})
		if p.Length() > 0.5*0.1+1e-9 {
			t.Fatalf("sample %v exceeds max range after mm->cm conversion", p.Length())
		}
	}
}

func TestBeamIsotopeSingleDirectedPhoton(t *testing.T) {
	b := &BeamIsotope{EnergyMeV: 0.14, Dir: vecmath.Vector3{X: 3, Y: 0, Z: 4}}
	s := mc.New(4)
	photons := b.Decay(s, vecmath.Vector3{}, 0, 1, 0)
	if len(photons) != 1 {
		t.Fatalf("expected exactly 1 photon, got %d", len(photons))
	}
	if math.Abs(photons[0].Dir.Length()-1) > 1e-9 {
		t.Errorf("expected normalized direction, got length %v", photons[0].Dir.Length())
	}
}
