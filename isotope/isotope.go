// Package isotope implements nuclear-decay kinematics: positron
// annihilation (with acolinearity and positron range), prompt-gamma
// emission, and single-photon beam sources.
package isotope

import (
	"math"

	"github.com/dfreese/Gray-sub002/mc"
	"github.com/dfreese/Gray-sub002/photon"
	"github.com/dfreese/Gray-sub002/vecmath"
)

const energy511 = 0.511

// Isotope produces the photons of one nuclear decay at the given
// position and time. decayID threads through to every photon and the
// NuclearDecay record emitted for this decay.
type Isotope interface {
	Decay(s *mc.Sampler, pos vecmath.Vector3, time float64, decayID int64, sourceID int) []photon.Photon
	// ExpectedPhotons is the mean photon yield per decay, used by the
	// scheduler to size activity splits and interaction buffers.
	ExpectedPhotons() float64
	// HalfLife is in seconds; may be +Inf for a non-decaying source.
	HalfLife() float64
}

// RangeModel displaces a positron's birth position to its annihilation
// point.
type RangeModel interface {
	Sample(s *mc.Sampler, pos vecmath.Vector3) vecmath.Vector3
}

// NoRange leaves the annihilation point at the birth position.
type NoRange struct{}

func (NoRange) Sample(s *mc.Sampler, pos vecmath.Vector3) vecmath.Vector3 { return pos }

// GaussianRange displaces the positron by a Gaussian-distributed range
// (FWHM in mm) in a uniformly sampled direction, rejecting draws beyond
// MaxRangeMM.
type GaussianRange struct {
	FWHMMM    float64
	MaxRangeMM float64
}

func (g GaussianRange) Sample(s *mc.Sampler, pos vecmath.Vector3) vecmath.Vector3 {
	sigma := mc.FWHMToSigma(g.FWHMMM)
	var r float64
	for {
		r = math.Abs(s.Gaussian(0, sigma))
		if r <= g.MaxRangeMM {
			break
		}
	}
	dir := uniformSphere(s)
	return pos.Add(dir.Scale(r * 0.1)) // mm -> cm
}

// LevinRange displaces the positron by a two-component exponential
// radial profile (C weights the fast component K1 against the slow
// component K2), rejecting draws beyond MaxRangeMM. See Levin & Hoffman
// 1999 for the physical model this reproduces.
type LevinRange struct {
	C, K1, K2  float64
	MaxRangeMM float64
}

func (l LevinRange) Sample(s *mc.Sampler, pos vecmath.Vector3) vecmath.Vector3 {
	cPrime := l.C / (l.C + l.K1/l.K2*(1-l.C))
	var r float64
	for {
		if s.Uniform() < cPrime {
			r = s.Exponential(l.K1)
		} else {
			r = s.Exponential(l.K2)
		}
		if r <= l.MaxRangeMM {
			break
		}
	}
	dir := uniformSphere(s)
	return pos.Add(dir.Scale(r * 0.1)) // mm -> cm
}

func uniformSphere(s *mc.Sampler) vecmath.Vector3 {
	cost := 2*s.Uniform() - 1
	phi := 2 * math.Pi * s.Uniform()
	sint := math.Sqrt(1 - cost*cost)
	v := vecmath.Vector3{X: sint * math.Cos(phi), Y: sint * math.Sin(phi), Z: cost}
	return v.Normalize()
}
