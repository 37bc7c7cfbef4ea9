package daq

import "github.com/dfreese/Gray-sub002/photon"

// FilterStage drops any event for which keep returns false, e.g. an
// energy window discriminator or a coincidence-group predicate run
// after CoincidenceStage. Stateless: every event it sees is resolved
// immediately.
type FilterStage struct {
	keep func(photon.Interaction) bool
	ProcessorStats
}

func NewFilterStage(keep func(photon.Interaction) bool) *FilterStage {
	return &FilterStage{keep: keep}
}

func (f *FilterStage) Process(events []photon.Interaction) []photon.Interaction {
	startDropped := f.NoDropped()
	out := make([]photon.Interaction, len(events))
	for i, e := range events {
		if !e.Dropped && !f.keep(e) {
			e.Dropped = true
			f.incDropped(1)
		}
		out[i] = e
	}
	f.track(startDropped, out)
	return out
}

func (f *FilterStage) Stop() []photon.Interaction { return nil }
func (f *FilterStage) Reset()                     { f.reset() }
func (f *FilterStage) Stats() ProcessorStats      { return f.ProcessorStats }

// EnergyWindowFilter builds a FilterStage keeping only events whose
// Deposit falls in [lo, hi], the classic photopeak energy window.
func EnergyWindowFilter(lo, hi float64) *FilterStage {
	return NewFilterStage(func(e photon.Interaction) bool {
		return e.Deposit >= lo && e.Deposit <= hi
	})
}

// CoincidenceOnlyFilter keeps only events that CoincidenceStage placed
// into an accepted group (CoincGroup >= 0).
func CoincidenceOnlyFilter() *FilterStage {
	return NewFilterStage(func(e photon.Interaction) bool { return e.CoincGroup >= 0 })
}
