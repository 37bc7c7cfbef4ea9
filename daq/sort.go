package daq

import (
	"sort"

	"github.com/dfreese/Gray-sub002/photon"
)

// SortStage buffers incoming events and releases the prefix that is
// guaranteed sorted and final: everything more than maxWait behind the
// most recent event seen. Grounded on SortProcess's insertion-sort plus
// walk-back-from-the-end timeout detection; Go's stable sort replaces
// the hand-rolled insertion sort since the correctness argument (mostly
// sorted input, few comparisons) isn't worth hand-rolling here.
type SortStage struct {
	maxWait float64
	timeOf  func(photon.Interaction) float64
	buf     []photon.Interaction
	ProcessorStats
}

func NewSortStage(maxWait float64, timeOf func(photon.Interaction) float64) *SortStage {
	return &SortStage{maxWait: maxWait, timeOf: timeOf}
}

func (s *SortStage) process(events []photon.Interaction) []photon.Interaction {
	s.buf = append(s.buf, events...)
	if len(s.buf) == 0 {
		return nil
	}
	sort.SliceStable(s.buf, func(i, j int) bool { return s.timeOf(s.buf[i]) < s.timeOf(s.buf[j]) })

	// Any event older than maxWait behind the most recent one seen is
	// guaranteed final: no future arrival can land before it. Scan back
	// from the newest event to find the cut between safe and not-yet-safe.
	outTime := s.timeOf(s.buf[len(s.buf)-1]) - s.maxWait
	cut := 0
	for i := len(s.buf) - 1; i >= 0; i-- {
		if s.timeOf(s.buf[i]) <= outTime {
			cut = i + 1
			break
		}
	}
	ready := append([]photon.Interaction(nil), s.buf[:cut]...)
	s.buf = append([]photon.Interaction(nil), s.buf[cut:]...)
	return ready
}

func (s *SortStage) Process(events []photon.Interaction) []photon.Interaction {
	startDropped := s.NoDropped()
	ready := s.process(events)
	s.track(startDropped, ready)
	return ready
}

// Stop releases everything still buffered, sorted, with no timeout cut.
func (s *SortStage) Stop() []photon.Interaction {
	startDropped := s.NoDropped()
	sort.SliceStable(s.buf, func(i, j int) bool { return s.timeOf(s.buf[i]) < s.timeOf(s.buf[j]) })
	ready := s.buf
	s.buf = nil
	s.track(startDropped, ready)
	return ready
}

func (s *SortStage) Reset() {
	s.buf = nil
	s.reset()
}

func (s *SortStage) Stats() ProcessorStats { return s.ProcessorStats }
