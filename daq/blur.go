package daq

import (
	"math"

	"github.com/dfreese/Gray-sub002/mc"
	"github.com/dfreese/Gray-sub002/photon"
)

// BlurEnergyStage applies the detector's energy resolution: each kept
// event's Deposit is smeared by a Gaussian whose sigma scales with the
// square root of energy, the way scintillator light-yield statistics
// blur a real detector's measured energy. resolutionAtRef is the FWHM
// fraction (e.g. 0.1 for 10%) measured at refEnergy. Stateless aside
// from its sampler, so it never buffers events.
type BlurEnergyStage struct {
	sampler         *mc.Sampler
	resolutionAtRef float64
	refEnergy       float64
	ProcessorStats
}

func NewBlurEnergyStage(sampler *mc.Sampler, resolutionAtRef, refEnergy float64) *BlurEnergyStage {
	return &BlurEnergyStage{sampler: sampler, resolutionAtRef: resolutionAtRef, refEnergy: refEnergy}
}

func (b *BlurEnergyStage) Process(events []photon.Interaction) []photon.Interaction {
	startDropped := b.NoDropped()
	out := make([]photon.Interaction, len(events))
	for i, e := range events {
		if !e.Dropped && e.Deposit > 0 {
			fwhm := b.resolutionAtRef * e.Deposit * sqrtRatio(b.refEnergy, e.Deposit)
			sigma := mc.FWHMToSigma(fwhm)
			e.Deposit += b.sampler.Gaussian(0, sigma)
			if e.Deposit < 0 {
				e.Deposit = 0
			}
		}
		out[i] = e
	}
	b.track(startDropped, out)
	return out
}

func sqrtRatio(ref, e float64) float64 {
	if e <= 0 {
		return 0
	}
	return math.Sqrt(ref / e)
}

func (b *BlurEnergyStage) Stop() []photon.Interaction  { return nil }
func (b *BlurEnergyStage) Reset()                      { b.reset() }
func (b *BlurEnergyStage) Stats() ProcessorStats       { return b.ProcessorStats }

// BlurTimeStage applies detector timing jitter: each kept event's Time
// is smeared by a fixed Gaussian sigma, modeling coincidence timing
// resolution. Stateless aside from its sampler.
type BlurTimeStage struct {
	sampler *mc.Sampler
	sigma   float64
	ProcessorStats
}

func NewBlurTimeStage(sampler *mc.Sampler, sigma float64) *BlurTimeStage {
	return &BlurTimeStage{sampler: sampler, sigma: sigma}
}

func (b *BlurTimeStage) Process(events []photon.Interaction) []photon.Interaction {
	startDropped := b.NoDropped()
	out := make([]photon.Interaction, len(events))
	limit := 3 * b.sigma
	for i, e := range events {
		if !e.Dropped {
			jitter := b.sampler.Gaussian(0, b.sigma)
			if jitter > limit {
				jitter = limit
			} else if jitter < -limit {
				jitter = -limit
			}
			e.Time += jitter
		}
		out[i] = e
	}
	b.track(startDropped, out)
	return out
}

// SortWindow is the minimum sort-stage window a pipeline must reorder
// across to absorb this stage's timing jitter: events can move by up to
// 3*sigma in either direction, so they can end up up to 6*sigma out of
// order relative to one another.
func (b *BlurTimeStage) SortWindow() float64 { return 6 * b.sigma }

func (b *BlurTimeStage) Stop() []photon.Interaction { return nil }
func (b *BlurTimeStage) Reset()                     { b.reset() }
func (b *BlurTimeStage) Stats() ProcessorStats      { return b.ProcessorStats }
