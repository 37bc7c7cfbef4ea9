package isotope

import (
	"math"

	"github.com/dfreese/Gray-sub002/mc"
	"github.com/dfreese/Gray-sub002/photon"
	"github.com/dfreese/Gray-sub002/vecmath"
)

const fwhmToSigma = 1.0 / 2.35482005

// PositronIsotope models a pure positron emitter, optionally combined
// with a prompt gamma (the Zr-89 class of isotope). HalfLifeS may be
// +Inf for sources with no decay-rate limit.
type PositronIsotope struct {
	HalfLifeS            float64
	PositronEmissionProb float64
	PromptGammaEnergyMeV float64 // 0 disables the yellow photon
	AcolinearityFWHMDeg  float64
	Range                RangeModel
}

func (p *PositronIsotope) HalfLife() float64 { return p.HalfLifeS }

func (p *PositronIsotope) ExpectedPhotons() float64 {
	expected := 2.0 * p.PositronEmissionProb
	if p.PromptGammaEnergyMeV > 0 {
		expected++
	}
	return expected
}

func (p *PositronIsotope) emitsGamma() bool { return p.PromptGammaEnergyMeV > 0 }

// acolinearitySigma is the acolinearity FWHM converted to a sigma in
// radians, matching the deflection convention used by Deflect.
func (p *PositronIsotope) acolinearitySigma() float64 {
	return p.AcolinearityFWHMDeg / 180.0 * math.Pi * fwhmToSigma
}

func (p *PositronIsotope) Decay(s *mc.Sampler, pos vecmath.Vector3, time float64, decayID int64, sourceID int) []photon.Photon {
	var out []photon.Photon

	if p.emitsGamma() {
		out = append(out, photon.Photon{
			Pos: pos, Dir: uniformSphere(s), Energy: p.PromptGammaEnergyMeV,
			Time: time, DecayID: decayID, SourceID: sourceID, DetID: -1,
			Color: photon.ColorYellow,
		})
	}

	if s.Uniform() >= p.PositronEmissionProb {
		return out
	}

	anniPos := pos
	if p.Range != nil {
		anniPos = p.Range.Sample(s, pos)
	}

	blueDir := uniformSphere(s)
	sigma := p.acolinearitySigma()
	theta := math.Pi + s.Gaussian(0, sigma)
	phi := 2 * math.Pi * s.Uniform()
	redDir := vecmath.Deflect(blueDir, theta, phi)

	blue := photon.Photon{
		Pos: anniPos, Dir: blueDir, Energy: energy511, Time: time,
		DecayID: decayID, SourceID: sourceID, DetID: -1, Color: photon.ColorBlue,
	}
	red := blue
	red.Dir = redDir
	red.Color = photon.ColorRed

	out = append(out, blue, red)
	return out
}
