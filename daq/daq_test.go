package daq

import (
	"testing"

	"github.com/dfreese/Gray-sub002/photon"
)

func timeOf(e photon.Interaction) float64 { return e.Time }
func detOf(e photon.Interaction) int      { return e.DetID }

func mkEvent(t float64, det int, deposit float64) photon.Interaction {
	return photon.Interaction{Kind: photon.KindPhotoelectric, Time: t, DetID: det, Deposit: deposit, CoincGroup: -1}
}

func TestSortStageReleasesOnlyTimedOutPrefix(t *testing.T) {
	s := NewSortStage(1.0, timeOf)
	events := []photon.Interaction{mkEvent(0, 0, 1), mkEvent(2, 0, 1), mkEvent(0.5, 0, 1)}
	ready := s.Process(events)
	// last event (sorted) has time 2; cutoff is 2-1=1, so anything <=1 is
	// ready: times 0 and 0.5.
	if len(ready) != 2 {
		t.Fatalf("expected 2 ready events, got %d", len(ready))
	}
	if ready[0].Time != 0 || ready[1].Time != 0.5 {
		t.Fatalf("unexpected ready order/times: %+v", ready)
	}
	rest := s.Stop()
	if len(rest) != 1 || rest[0].Time != 2 {
		t.Fatalf("expected final flush to release the remaining event, got %+v", rest)
	}
}

func TestDeadtimeStageNonParalyzableDropsWithinWindow(t *testing.T) {
	d := NewDeadtimeStage([]int{0}, 1.0, timeOf, detOf, false)
	events := []photon.Interaction{mkEvent(0, 0, 1), mkEvent(0.5, 0, 1), mkEvent(2.0, 0, 1)}
	d.process(events)
	ready := d.Stop()
	kept := 0
	for _, e := range ready {
		if !e.Dropped {
			kept++
		}
	}
	if kept != 2 {
		t.Fatalf("expected 2 surviving hits (at t=0 and t=2), got %d of %d", kept, len(ready))
	}
	if d.NoDropped() != 1 {
		t.Fatalf("expected 1 dropped hit, got %d", d.NoDropped())
	}
}

func TestDeadtimeStageParalyzableExtendsWindow(t *testing.T) {
	d := NewDeadtimeStage([]int{0}, 1.0, timeOf, detOf, true)
	events := []photon.Interaction{mkEvent(0, 0, 1), mkEvent(0.5, 0, 1), mkEvent(1.2, 0, 1)}
	d.process(events)
	ready := d.Stop()
	kept := 0
	for _, e := range ready {
		if !e.Dropped {
			kept++
		}
	}
	// First hit at t=0 opens a window to t=1. The hit at 0.5 extends it to
	// 1.5 and is dropped, which pushes the window further, so the hit at
	// 1.2 is still inside and also dropped.
	if kept != 1 {
		t.Fatalf("expected only the first hit to survive, got %d of %d kept", kept, len(ready))
	}
}

func TestMergeFirstSumsEnergyAndDropsSecond(t *testing.T) {
	m := NewMergeStage([]int{0, 0}, 1.0, timeOf, detOf, MergeFirst)
	events := []photon.Interaction{mkEvent(0, 0, 0.2), mkEvent(0.1, 1, 0.3)}
	m.buf = append(m.buf, events...)
	cut := m.run(true)
	if cut != len(m.buf) {
		t.Fatalf("expected full buffer resolved on stop, got cut=%d of %d", cut, len(m.buf))
	}
	if !m.buf[1].Dropped {
		t.Fatal("expected the second event to be dropped into the first")
	}
	if m.buf[0].Deposit != 0.5 {
		t.Fatalf("expected merged deposit 0.5, got %v", m.buf[0].Deposit)
	}
}

func TestCoincidenceStageTagsPair(t *testing.T) {
	c := NewCoincidenceStage(10.0, 0, timeOf, false, true)
	events := []photon.Interaction{mkEvent(0, 0, 0.511), mkEvent(1, 1, 0.511)}
	c.Process(events)
	c.Stop()
	if c.Pairs() != 2 {
		t.Fatalf("expected 2 events counted as a coincident pair, got %d", c.Pairs())
	}
}

func TestCoincidenceStageRejectsSingle(t *testing.T) {
	c := NewCoincidenceStage(1.0, 0, timeOf, false, true)
	events := []photon.Interaction{mkEvent(0, 0, 0.511), mkEvent(100, 1, 0.511)}
	c.Process(events)
	c.Stop()
	if c.Singles() != 2 {
		t.Fatalf("expected both isolated events counted as singles, got %d", c.Singles())
	}
}

func TestFilterStageEnergyWindow(t *testing.T) {
	f := EnergyWindowFilter(0.4, 0.6)
	events := []photon.Interaction{mkEvent(0, 0, 0.511), mkEvent(0, 0, 0.1)}
	out := f.Process(events)
	if out[0].Dropped {
		t.Error("expected the in-window event to survive")
	}
	if !out[1].Dropped {
		t.Error("expected the out-of-window event to be dropped")
	}
}

func TestPipelineSortsThenFilters(t *testing.T) {
	p := NewPipeline(0.01, timeOf, EnergyWindowFilter(0.4, 0.6))
	out := p.Add([]photon.Interaction{mkEvent(0, 0, 0.511)})
	out = append(out, p.Stop()...)
	if len(out) != 1 || out[0].Dropped {
		t.Fatalf("expected one surviving event, got %+v", out)
	}
}
