// Package source implements source geometries, activity/half-life
// bookkeeping, and the priority-queue decay scheduler that drives the
// transport engine.
package source

import (
	"math"

	"github.com/dfreese/Gray-sub002/isotope"
	"github.com/dfreese/Gray-sub002/mc"
	"github.com/dfreese/Gray-sub002/photon"
	"github.com/dfreese/Gray-sub002/vecmath"
)

// Source is a parametrised 3-D region with an activity, an isotope, and
// a sign: positive sources emit, negative sources subtract activity
// from the union via rejection sampling in Scheduler.
type Source struct {
	ID       int
	Region   Region
	Isotope  isotope.Isotope
	Stack    photon.MaterialStack
	Activity0 float64 // Bq at t=0
	Negative bool
	SimulateHalfLife bool
}

// ActivityAt returns the source's activity (Bq) at simulation time t,
// following exponential decay when SimulateHalfLife is set and the
// isotope's half-life is finite.
func (s *Source) ActivityAt(t float64) float64 {
	hl := s.Isotope.HalfLife()
	if !s.SimulateHalfLife || math.IsInf(hl, 1) || hl <= 0 {
		return s.Activity0
	}
	lambda := math.Ln2 / hl
	return s.Activity0 * math.Exp(-lambda*t)
}

// ExpectedPhotons is the expected photon count this source produces
// over [start, start+dur).
func (s *Source) ExpectedPhotons(start, dur float64) float64 {
	perDecay := s.Isotope.ExpectedPhotons()
	hl := s.Isotope.HalfLife()
	if !s.SimulateHalfLife || math.IsInf(hl, 1) || hl <= 0 {
		return s.Activity0 * dur * perDecay
	}
	lambda := math.Ln2 / hl
	decays := (s.Activity0 / lambda) * (math.Exp(-lambda*start) - math.Exp(-lambda*(start+dur)))
	return decays * perDecay
}

// Decay samples a candidate decay position from the source's region.
func (s *Source) Decay(sampler *mc.Sampler) vecmath.Vector3 {
	return s.Region.SamplePoint(sampler)
}

// Inside reports whether pos lies within the source's region, used when
// s is a negative source to reject positions from positive sources.
func (s *Source) Inside(pos vecmath.Vector3) bool {
	return s.Region.Contains(pos)
}
