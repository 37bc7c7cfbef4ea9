package daq

import "github.com/dfreese/Gray-sub002/photon"

// DeadtimeStage applies a per-component dead time window: once a
// component (detector, block, whatever idLookup maps det ids onto)
// registers a hit, further hits within the window are dropped. A
// paralyzable dead time extends the window on every dropped hit
// (keeps the component dead as long as hits keep arriving); a
// non-paralyzable one leaves the original timeout in place. Grounded
// on DeadtimeProcess.
type DeadtimeStage struct {
	idLookup    []int
	window      float64
	timeOf      func(photon.Interaction) float64
	idOf        func(photon.Interaction) int
	paralyzable bool

	buf      []photon.Interaction
	timeouts map[int]float64

	ProcessorStats
}

func NewDeadtimeStage(idLookup []int, window float64, timeOf func(photon.Interaction) float64, idOf func(photon.Interaction) int, paralyzable bool) *DeadtimeStage {
	return &DeadtimeStage{
		idLookup: idLookup, window: window, timeOf: timeOf, idOf: idOf,
		paralyzable: paralyzable, timeouts: make(map[int]float64),
	}
}

func (d *DeadtimeStage) findID(e photon.Interaction) int {
	return d.idLookup[d.idOf(e)]
}

func (d *DeadtimeStage) process(events []photon.Interaction) []photon.Interaction {
	if len(events) == 0 {
		return nil
	}
	for _, e := range events {
		t := d.timeOf(e)
		id := d.findID(e)
		to, seen := d.timeouts[id]
		switch {
		case !seen || to <= t:
			d.buf = append(d.buf, e)
			d.timeouts[id] = t + d.window
		case d.paralyzable:
			d.timeouts[id] = t + d.window
			d.incDropped(1)
		default:
			d.incDropped(1)
		}
	}

	lastTime := d.timeOf(events[len(events)-1])
	cut := 0
	for cut < len(d.buf) {
		id := d.findID(d.buf[cut])
		if lastTime < d.timeouts[id] {
			break
		}
		cut++
	}
	ready := append([]photon.Interaction(nil), d.buf[:cut]...)
	d.buf = append([]photon.Interaction(nil), d.buf[cut:]...)
	return ready
}

func (d *DeadtimeStage) Process(events []photon.Interaction) []photon.Interaction {
	startDropped := d.NoDropped()
	ready := d.process(events)
	d.track(startDropped, ready)
	return ready
}

// Stop treats every remaining buffered event as having fully timed out.
func (d *DeadtimeStage) Stop() []photon.Interaction {
	startDropped := d.NoDropped()
	ready := d.buf
	d.buf = nil
	d.track(startDropped, ready)
	return ready
}

func (d *DeadtimeStage) Reset() {
	d.buf = nil
	d.timeouts = make(map[int]float64)
	d.reset()
}

func (d *DeadtimeStage) Stats() ProcessorStats { return d.ProcessorStats }
