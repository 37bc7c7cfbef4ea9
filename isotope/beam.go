package isotope

import (
	"math"

	"github.com/dfreese/Gray-sub002/mc"
	"github.com/dfreese/Gray-sub002/photon"
	"github.com/dfreese/Gray-sub002/vecmath"
)

// BeamIsotope emits a single photon of fixed energy along a fixed
// direction, with no half-life limit.
type BeamIsotope struct {
	EnergyMeV float64
	Dir       vecmath.Vector3
}

func (b *BeamIsotope) HalfLife() float64      { return math.Inf(1) }
func (b *BeamIsotope) ExpectedPhotons() float64 { return 1 }

func (b *BeamIsotope) Decay(s *mc.Sampler, pos vecmath.Vector3, time float64, decayID int64, sourceID int) []photon.Photon {
	return []photon.Photon{{
		Pos: pos, Dir: b.Dir.Normalize(), Energy: b.EnergyMeV, Time: time,
		DecayID: decayID, SourceID: sourceID, DetID: -1, Color: photon.ColorNone,
	}}
}
