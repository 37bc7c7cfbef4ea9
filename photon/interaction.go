package photon

import (
	"github.com/dfreese/Gray-sub002/material"
	"github.com/dfreese/Gray-sub002/vecmath"
)

// InteractionKind names the kind of record an Interaction carries.
type InteractionKind int

const (
	KindCompton InteractionKind = iota
	KindPhotoelectric
	KindXrayEscape
	KindRayleigh
	KindNuclearDecay
	KindNoInteraction
	KindErrorEmpty
	KindErrorTraceDepth
)

// Interaction is one output record: either a physical interaction along
// a photon's track, a diagnostic no-interaction/error record, or a
// nuclear decay marker. Time is monotonically non-decreasing within any
// one photon's lifetime.
type Interaction struct {
	Kind InteractionKind

	Time     float64
	Pos      vecmath.Vector3
	Deposit  float64 // MeV; 0 for non-depositing kinds
	Color    Color
	DecayID  int64
	SourceID int
	MaterialID int
	DetID    int // -1 if not in sensitive material

	Scatter ScatterCounts

	// CoincGroup: -2 dropped, -1 untouched, >=0 group member. Assigned by
	// the DAQ coincidence stage; -1 at emission time.
	CoincGroup int
	// Dropped gates DAQ processing. Nuclear decays, rayleigh, and any
	// interaction in non-sensitive material are created already dropped.
	Dropped bool
}

func fromPhoton(p *Photon, kind InteractionKind, deposit float64, matID int, sensitive bool) Interaction {
	dropped := !sensitive
	if kind == KindRayleigh || kind == KindNuclearDecay {
		dropped = true
	}
	return Interaction{
		Kind: kind, Time: p.Time, Pos: p.Pos, Deposit: deposit,
		Color: p.Color, DecayID: p.DecayID, SourceID: p.SourceID,
		MaterialID: matID, DetID: p.DetID, Scatter: p.Scatter,
		CoincGroup: -1, Dropped: dropped,
	}
}

func noInteraction(p *Photon, m *material.Material) Interaction {
	return fromPhoton(p, KindNoInteraction, 0, m.Index, m.Sensitive)
}

func photoelectric(p *Photon, m *material.Material) Interaction {
	return fromPhoton(p, KindPhotoelectric, p.Energy, m.Index, m.Sensitive)
}

func xrayEscapeRecord(p *Photon, deposit float64, m *material.Material) Interaction {
	return fromPhoton(p, KindXrayEscape, deposit, m.Index, m.Sensitive)
}

func comptonRecord(p *Photon, deposit float64, m *material.Material) Interaction {
	return fromPhoton(p, KindCompton, deposit, m.Index, m.Sensitive)
}

func rayleighRecord(p *Photon, m *material.Material) Interaction {
	return fromPhoton(p, KindRayleigh, 0, m.Index, m.Sensitive)
}

func errorEmpty(p *Photon) Interaction {
	i := fromPhoton(p, KindErrorEmpty, 0, -1, false)
	return i
}

func errorTraceDepth(p *Photon, m *material.Material) Interaction {
	matID := -1
	if m != nil {
		matID = m.Index
	}
	return fromPhoton(p, KindErrorTraceDepth, 0, matID, false)
}

// NuclearDecayRecord builds the Interaction marking a decay, emitted
// before any of its photons are traced.
func NuclearDecayRecord(decayID int64, sourceID int, t float64, pos vecmath.Vector3, m *material.Material) Interaction {
	matID := -1
	if m != nil {
		matID = m.Index
	}
	return Interaction{
		Kind: KindNuclearDecay, Time: t, Pos: pos, DecayID: decayID,
		SourceID: sourceID, MaterialID: matID, DetID: -1,
		CoincGroup: -1, Dropped: true,
	}
}
