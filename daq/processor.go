// Package daq turns raw traced interactions into the detector-observed
// event stream: sorting by time, detector blurring, anger/energy-sum
// merging, dead time, filtering and coincidence sorting, each stage
// buffering whatever it cannot yet resolve and handing the rest
// downstream.
package daq

import "github.com/dfreese/Gray-sub002/photon"

// ProcessorStats mirrors Processor<EventT>'s event bookkeeping: the
// number of events a stage has seen, kept (output undropped), and
// dropped or merged away.
type ProcessorStats struct {
	events, dropped, kept int64
}

func (s ProcessorStats) NoEvents() int64  { return s.events }
func (s ProcessorStats) NoDropped() int64 { return s.dropped }
func (s ProcessorStats) NoKept() int64    { return s.kept }

func (s *ProcessorStats) reset() { *s = ProcessorStats{} }

func (s *ProcessorStats) incDropped(n int64) { s.dropped += n }

// track updates kept/events the way Processor<EventT>::process_events
// does: kept counts the undropped events in ready, and events counts
// kept plus however many additional drops happened during this call.
func (s *ProcessorStats) track(startDropped int64, ready []photon.Interaction) {
	var kept int64
	for _, e := range ready {
		if !e.Dropped {
			kept++
		}
	}
	s.kept += kept
	s.events += kept + (s.dropped - startDropped)
}

// Stage is one DAQ pipeline processor. Process hands it a freshly
// arrived batch of time-ordered events and returns the prefix of its
// internal buffer that is now final, given everything seen so far;
// anything that could still be touched by a later batch (a trailing,
// not-yet-timed-out run) is held back. Stop flushes all buffered state
// at the end of the stream.
type Stage interface {
	Process(events []photon.Interaction) []photon.Interaction
	Stop() []photon.Interaction
	Reset()
	Stats() ProcessorStats
}

// Pipeline composes stages into one ordered process, with a mandatory
// leading SortStage so every following stage sees its input in time
// order. It mirrors ProcessStream<EventT>: a batch moves through every
// stage at add time, and Stop drains each stage in turn, pushing what
// it releases through the remaining downstream stages.
type Pipeline struct {
	sort   *SortStage
	stages []Stage
}

// NewPipeline builds a Pipeline whose first stage is a SortStage with
// the given max out-of-order wait time (the DAQ package's caller is
// expected to size this to 5*scene.Diameter()/c, the longest a photon
// pair's arrival times can plausibly straddle). Additional stages run
// in the order given.
func NewPipeline(sortMaxWait float64, timeOf func(photon.Interaction) float64, stages ...Stage) *Pipeline {
	return &Pipeline{sort: NewSortStage(sortMaxWait, timeOf), stages: stages}
}

// Add runs a batch of newly produced events through the sort stage and
// then every configured stage in order, returning what's fully ready.
func (p *Pipeline) Add(events []photon.Interaction) []photon.Interaction {
	out := p.sort.Process(events)
	for _, s := range p.stages {
		out = s.Process(out)
	}
	return out
}

// Stop flushes every stage's buffered state, pushing each stage's
// flushed output through the remainder of the pipeline, and returns
// everything still outstanding.
func (p *Pipeline) Stop() []photon.Interaction {
	var ret []photon.Interaction
	flushed := p.sort.Stop()
	for _, s := range p.stages {
		flushed = s.Process(flushed)
	}
	ret = append(ret, flushed...)
	for i, s := range p.stages {
		out := s.Stop()
		for _, next := range p.stages[i+1:] {
			out = next.Process(out)
		}
		ret = append(ret, out...)
	}
	return ret
}

// Reset clears every stage's buffered state and counters.
func (p *Pipeline) Reset() {
	p.sort.Reset()
	for _, s := range p.stages {
		s.Reset()
	}
}

// Stats returns the sort stage's stats followed by each configured
// stage's, in pipeline order.
func (p *Pipeline) Stats() []ProcessorStats {
	stats := make([]ProcessorStats, 0, len(p.stages)+1)
	stats = append(stats, p.sort.Stats())
	for _, s := range p.stages {
		stats = append(stats, s.Stats())
	}
	return stats
}
