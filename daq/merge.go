package daq

import (
	"fmt"
	"math"

	"github.com/dfreese/Gray-sub002/photon"
)

// MergeFunc merges e1 into e0 or e0 into e1, marking the absorbed
// event Dropped. Grounded on MergeFunctors.cpp's MergeFirst, MergeMax
// and MergeAnger operators.
type MergeFunc func(e0, e1 *photon.Interaction)

// mergeStats combines src's scatter counters into dst. When dst and src
// share a (DecayID, Color) key they are two partial views of the same
// photon's scatter history (e.g. a merge chain that has touched the
// same photon more than once), so each counter takes the max rather
// than the sum, to avoid counting the same scatter twice; across
// distinct keys the counters are independent photons and are summed.
func mergeStats(dst, src *photon.Interaction) {
	combine := addInt
	if dst.DecayID == src.DecayID && dst.Color == src.Color {
		combine = maxOfTwo
	}
	dst.Scatter.ComptonPhantom = combine(dst.Scatter.ComptonPhantom, src.Scatter.ComptonPhantom)
	dst.Scatter.ComptonDetector = combine(dst.Scatter.ComptonDetector, src.Scatter.ComptonDetector)
	dst.Scatter.RayleighPhantom = combine(dst.Scatter.RayleighPhantom, src.Scatter.RayleighPhantom)
	dst.Scatter.RayleighDetector = combine(dst.Scatter.RayleighDetector, src.Scatter.RayleighDetector)
	dst.Scatter.XrayFluorescence = combine(dst.Scatter.XrayFluorescence, src.Scatter.XrayFluorescence)
}

func addInt(a, b int) int { return a + b }

func maxOfTwo(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// MergeFirst always keeps e0, summing e1's energy into it.
func MergeFirst(e0, e1 *photon.Interaction) {
	mergeStats(e0, e1)
	e0.Deposit += e1.Deposit
	e1.Dropped = true
}

// MergeMax keeps whichever event carried the larger deposit, summing
// the other's energy into it.
func MergeMax(e0, e1 *photon.Interaction) {
	if e0.Deposit < e1.Deposit {
		mergeStats(e1, e0)
		e1.Deposit += e0.Deposit
		e0.Dropped = true
	} else {
		mergeStats(e0, e1)
		e0.Deposit += e1.Deposit
		e1.Dropped = true
	}
}

// AngerLogic computes an energy-weighted centroid detector id across a
// block of sub-detectors addressed by (block, bx, by, bz), the way an
// Anger camera's readout electronics would estimate crystal position
// from weighted photo-sensor signals. Grounded on MergeFunctors.cpp's
// MergeAnger.
type AngerLogic struct {
	base, bx, by, bz   []int
	noBlk, noBX, noBY, noBZ int
	reverse            []int
}

// NewAngerLogic builds the reverse (block,bx,by,bz)->detector-id map
// used to resolve a merged event's weighted-centroid position back to
// a concrete detector id. base/bx/by/bz are parallel arrays, one entry
// per detector id.
func NewAngerLogic(base, bx, by, bz []int) (*AngerLogic, error) {
	a := &AngerLogic{base: base, bx: bx, by: by, bz: bz}
	a.noBlk = maxInt(base) + 1
	a.noBX = maxInt(bx) + 1
	a.noBY = maxInt(by) + 1
	a.noBZ = maxInt(bz) + 1
	total := len(base)
	implied := a.noBlk * a.noBX * a.noBY * a.noBZ
	if total != implied {
		return nil, fmt.Errorf("daq: %d detectors specified, but anger mapping of %d blocks of (%d,%d,%d) implies %d", total, a.noBlk, a.noBX, a.noBY, a.noBZ, implied)
	}
	a.reverse = make([]int, total)
	for i := range a.reverse {
		a.reverse[i] = -1
	}
	for idx := 0; idx < total; idx++ {
		rev := a.index(base[idx], bx[idx], by[idx], bz[idx])
		if rev < 0 || rev >= total {
			return nil, fmt.Errorf("daq: block index mapping inconsistent with block size (%d,%d,%d) at detector %d", a.noBX, a.noBY, a.noBZ, idx)
		}
		if a.reverse[rev] != -1 {
			return nil, fmt.Errorf("daq: duplicate anger mapping for block size (%d,%d,%d) at detector %d", a.noBX, a.noBY, a.noBZ, idx)
		}
		a.reverse[rev] = idx
	}
	return a, nil
}

func (a *AngerLogic) index(blk, bx, by, bz int) int {
	return ((blk*a.noBZ+bz)*a.noBY+by)*a.noBX + bx
}

func maxInt(vs []int) int {
	m := vs[0]
	for _, v := range vs[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// Merge is a MergeFunc that computes the energy-weighted (bx,by,bz)
// centroid of e0 and e1's detector ids and relabels the surviving
// event with the detector id at that centroid.
func (a *AngerLogic) Merge(e0, e1 *photon.Interaction) {
	energy := e0.Deposit + e1.Deposit
	blk := a.base[e0.DetID]
	row := round(float64(a.bx[e0.DetID])*(e0.Deposit/energy) + float64(a.bx[e1.DetID])*(e1.Deposit/energy))
	col := round(float64(a.by[e0.DetID])*(e0.Deposit/energy) + float64(a.by[e1.DetID])*(e1.Deposit/energy))
	lay := round(float64(a.bz[e0.DetID])*(e0.Deposit/energy) + float64(a.bz[e1.DetID])*(e1.Deposit/energy))
	id := a.reverse[a.index(blk, row, col, lay)]

	if e0.Deposit < e1.Deposit {
		mergeStats(e1, e0)
		e1.DetID = id
		e1.Deposit = energy
		e0.Dropped = true
	} else {
		mergeStats(e0, e1)
		e0.DetID = id
		e0.Deposit = energy
		e1.Dropped = true
	}
}

func round(v float64) int { return int(math.Round(v)) }

// MergeStage merges same-component events arriving within a rolling
// time window into one, via the supplied MergeFunc. Grounded on
// MergeProcess: a merge can drop either side (MergeMax, MergeAnger
// pick a winner), so after merging the loop re-checks which event
// survived before continuing its scan.
type MergeStage struct {
	idLookup []int
	window   float64
	timeOf   func(photon.Interaction) float64
	idOf     func(photon.Interaction) int
	merge    MergeFunc

	buf []photon.Interaction
	ProcessorStats
}

func NewMergeStage(idLookup []int, window float64, timeOf func(photon.Interaction) float64, idOf func(photon.Interaction) int, merge MergeFunc) *MergeStage {
	return &MergeStage{idLookup: idLookup, window: window, timeOf: timeOf, idOf: idOf, merge: merge}
}

func (m *MergeStage) findID(e photon.Interaction) int { return m.idLookup[m.idOf(e)] }

// run scans buf for a run of same-component events within window of
// each other, merging as it goes. If stopping is false and the scan
// for some event's window runs off the end of buf, that event (and
// everything after it) is left unresolved and the cut point is
// returned; if stopping is true the whole buffer is always resolved.
func (m *MergeStage) run(stopping bool) int {
	cur := 0
	for cur < len(m.buf) {
		if m.buf[cur].Dropped {
			cur++
			continue
		}
		curID := m.findID(m.buf[cur])
		window := m.timeOf(m.buf[cur]) + m.window
		next := cur + 1
		for next < len(m.buf) {
			if m.buf[next].Dropped {
				next++
				continue
			}
			if m.timeOf(m.buf[next]) >= window {
				break
			}
			if curID == m.findID(m.buf[next]) {
				m.merge(&m.buf[cur], &m.buf[next])
				m.incDropped(1)
				if m.buf[cur].Dropped {
					break
				}
			}
			next++
		}
		if next == len(m.buf) && !stopping {
			return cur
		}
		cur++
	}
	return len(m.buf)
}

func (m *MergeStage) Process(events []photon.Interaction) []photon.Interaction {
	startDropped := m.NoDropped()
	m.buf = append(m.buf, events...)
	cut := m.run(false)
	ready := append([]photon.Interaction(nil), m.buf[:cut]...)
	m.buf = append([]photon.Interaction(nil), m.buf[cut:]...)
	m.track(startDropped, ready)
	return ready
}

func (m *MergeStage) Stop() []photon.Interaction {
	startDropped := m.NoDropped()
	m.run(true)
	ready := m.buf
	m.buf = nil
	m.track(startDropped, ready)
	return ready
}

func (m *MergeStage) Reset() {
	m.buf = nil
	m.reset()
}

func (m *MergeStage) Stats() ProcessorStats { return m.ProcessorStats }
