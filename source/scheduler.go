package source

import (
	"container/heap"

	"github.com/dfreese/Gray-sub002/mc"
	"github.com/dfreese/Gray-sub002/photon"
	"github.com/dfreese/Gray-sub002/vecmath"
)

// decayInfo is one scheduled candidate decay: the source it came from,
// the time it occurs, and its (already negative-source-accepted)
// position.
type decayInfo struct {
	sourceIdx int
	time      float64
	pos       vecmath.Vector3
}

type decayHeap []decayInfo

func (h decayHeap) Len() int            { return len(h) }
func (h decayHeap) Less(i, j int) bool  { return h[i].time < h[j].time }
func (h decayHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *decayHeap) Push(x interface{}) { *h = append(*h, x.(decayInfo)) }
func (h *decayHeap) Pop() interface{} {
	old := *h
	n := len(old)
	v := old[n-1]
	*h = old[:n-1]
	return v
}

// Scheduler is the priority-queue-driven decay generator: one next-decay
// time per positive source, advanced and rejection-tested against every
// negative source on each pop.
type Scheduler struct {
	sources    []*Source
	negSources []*Source

	heap decayHeap

	startTime, endTime float64
	decayNumber        int64

	sampler *mc.Sampler
}

// NewScheduler builds a Scheduler over the given positive and negative
// sources, drawing each positive source's first decay time forward from
// startTime. Next yields only decays before startTime+simTime.
func NewScheduler(sampler *mc.Sampler, sources, negSources []*Source, startTime, simTime float64) *Scheduler {
	sch := &Scheduler{
		sources: sources, negSources: negSources,
		startTime: startTime, endTime: startTime + simTime,
		sampler: sampler,
	}
	for idx := range sources {
		info := sch.nextDecay(decayInfo{sourceIdx: idx, time: startTime})
		sch.heap = append(sch.heap, info)
	}
	heap.Init(&sch.heap)
	return sch
}

// nextDecay advances base's source forward from base.time by repeated
// exponential draws, rejecting positions that fall inside a negative
// source's region, and returns the accepted candidate, or the first
// candidate at or past the end of the window without testing it. Time
// always advances on a rejected draw, even though the position is
// discarded.
func (sch *Scheduler) nextDecay(base decayInfo) decayInfo {
	src := sch.sources[base.sourceIdx]
	for {
		activity := src.ActivityAt(base.time)
		base.time += sch.sampler.Exponential(activity)
		base.pos = src.Decay(sch.sampler)
		if base.time >= sch.endTime || !sch.insideNegative(base.pos) {
			return base
		}
	}
}

func (sch *Scheduler) insideNegative(pos vecmath.Vector3) bool {
	for _, neg := range sch.negSources {
		if neg.Inside(pos) {
			ratio := -neg.Activity0
			if sch.sampler.Uniform() < ratio {
				return true
			}
		}
	}
	return false
}

// Time returns the time of the next scheduled decay, or EndTime if no
// sources are scheduled.
func (sch *Scheduler) Time() float64 {
	if len(sch.heap) == 0 {
		return sch.endTime
	}
	return sch.heap[0].time
}

// EndTime returns the end of the simulation window.
func (sch *Scheduler) EndTime() float64 { return sch.endTime }

// Next pops the next scheduled decay, reschedules its source, and
// converts it into a photon.Decay via the source's isotope. Returns
// ok=false once Time() has reached EndTime.
func (sch *Scheduler) Next() (*photon.Decay, bool) {
	if sch.Time() >= sch.endTime {
		return nil, false
	}
	info := heap.Pop(&sch.heap).(decayInfo)
	heap.Push(&sch.heap, sch.nextDecay(info))

	src := sch.sources[info.sourceIdx]
	decayID := sch.decayNumber
	sch.decayNumber++

	photons := src.Isotope.Decay(sch.sampler, info.pos, info.time, decayID, src.ID)
	return &photon.Decay{
		ID: decayID, SourceID: src.ID, Time: info.time, Pos: info.pos,
		Photons: photons, Stack: src.Stack,
	}, true
}
