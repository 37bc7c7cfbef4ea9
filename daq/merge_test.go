package daq

import (
	"testing"

	"github.com/dfreese/Gray-sub002/photon"
)

func TestMergeStatsSumsAcrossDistinctKeys(t *testing.T) {
	e0 := photon.Interaction{DecayID: 1, Color: photon.ColorBlue, Scatter: photon.ScatterCounts{ComptonPhantom: 2}}
	e1 := photon.Interaction{DecayID: 2, Color: photon.ColorBlue, Scatter: photon.ScatterCounts{ComptonPhantom: 3}}
	mergeStats(&e0, &e1)
	if e0.Scatter.ComptonPhantom != 5 {
		t.Errorf("distinct (DecayID, Color) keys should sum: got %d, want 5", e0.Scatter.ComptonPhantom)
	}
}

func TestMergeStatsMaxesWithinSameKey(t *testing.T) {
	e0 := photon.Interaction{DecayID: 1, Color: photon.ColorRed, Scatter: photon.ScatterCounts{ComptonPhantom: 2, RayleighDetector: 5}}
	e1 := photon.Interaction{DecayID: 1, Color: photon.ColorRed, Scatter: photon.ScatterCounts{ComptonPhantom: 4, RayleighDetector: 1}}
	mergeStats(&e0, &e1)
	if e0.Scatter.ComptonPhantom != 4 {
		t.Errorf("same (DecayID, Color) key should take max: got %d, want 4", e0.Scatter.ComptonPhantom)
	}
	if e0.Scatter.RayleighDetector != 5 {
		t.Errorf("same (DecayID, Color) key should take max: got %d, want 5", e0.Scatter.RayleighDetector)
	}
}

func TestMergeFirstPropagatesScatterStats(t *testing.T) {
	e0 := photon.Interaction{DecayID: 1, Color: photon.ColorBlue, Deposit: 0.1, Scatter: photon.ScatterCounts{XrayFluorescence: 1}}
	e1 := photon.Interaction{DecayID: 2, Color: photon.ColorBlue, Deposit: 0.2, Scatter: photon.ScatterCounts{XrayFluorescence: 1}}
	MergeFirst(&e0, &e1)
	if !e1.Dropped {
		t.Fatal("expected e1 to be dropped")
	}
	if e0.Scatter.XrayFluorescence != 2 {
		t.Errorf("distinct decays should sum fluorescence counts: got %d, want 2", e0.Scatter.XrayFluorescence)
	}
}
