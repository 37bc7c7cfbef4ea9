package daq

import "github.com/dfreese/Gray-sub002/photon"

// CoincidenceStage groups events within a rolling window into pairs,
// multiples, and singles, tagging each with CoincGroup (-2 rejected,
// or the accepted group id). A paralyzable window extends outward to
// the most recent qualifying event the way a real coincidence
// electronics gate would; rejectMultiples drops everything in a
// three-or-more-event group instead of keeping it. Grounded on
// CoincProcess.
type CoincidenceStage struct {
	window, offset   float64
	rejectMultiples  bool
	paralyzable      bool
	timeOf           func(photon.Interaction) float64

	buf []photon.Interaction

	pairs, multiples, singles, groups int64

	ProcessorStats
}

func NewCoincidenceStage(window, offset float64, timeOf func(photon.Interaction) float64, rejectMultiples, paralyzable bool) *CoincidenceStage {
	return &CoincidenceStage{window: window, offset: offset, timeOf: timeOf, rejectMultiples: rejectMultiples, paralyzable: paralyzable}
}

func (c *CoincidenceStage) Pairs() int64     { return c.pairs }
func (c *CoincidenceStage) Multiples() int64 { return c.multiples }
func (c *CoincidenceStage) Singles() int64   { return c.singles }
func (c *CoincidenceStage) Groups() int64    { return c.groups }

// run scans buf, tagging CoincGroup on every untouched event, and
// returns how much of the prefix is resolved: the whole buffer if
// stopping, else up to the first event whose window ran off the end.
func (c *CoincidenceStage) run(stopping bool) int {
	for i := range c.buf {
		c.buf[i].CoincGroup = -1
	}

	cur := 0
	for cur < len(c.buf) {
		current := &c.buf[cur]
		if current.Dropped || current.CoincGroup != -1 {
			cur++
			continue
		}

		windowStart := c.offset
		wsIdx := cur + 1
		for ; wsIdx < len(c.buf); wsIdx++ {
			e := &c.buf[wsIdx]
			// Skipping already-grouped events here (not just dropped ones)
			// means the [offset, offset+window) scan for "current" never
			// reconsiders an event some earlier group already claimed. With
			// offset == 0 this never changes the outcome, since the scan
			// immediately breaks on the first ungrouped event; it only
			// matters for offset > 0, where it can shift which event opens
			// the window.
			if e.Dropped || e.CoincGroup != -1 {
				continue
			}
			if c.timeOf(*e)-c.timeOf(*current) >= windowStart {
				break
			}
		}

		windowEnd := c.offset + c.window
		weIdx := wsIdx
		for ; weIdx < len(c.buf); weIdx++ {
			e := &c.buf[weIdx]
			if e.Dropped || e.CoincGroup != -1 {
				continue
			}
			dt := c.timeOf(*e) - c.timeOf(*current)
			if dt >= windowEnd {
				break
			}
			if c.paralyzable {
				windowEnd = dt + c.window
			}
		}

		if weIdx == len(c.buf) && !stopping {
			return cur
		}

		noEvents := 1
		for i := wsIdx; i < weIdx; i++ {
			if !c.buf[i].Dropped {
				noEvents++
			}
		}

		keep := false
		switch {
		case noEvents == 2:
			c.pairs += int64(noEvents)
			keep = true
		case noEvents > 2:
			c.multiples += int64(noEvents)
			keep = !c.rejectMultiples
		default:
			c.singles += int64(noEvents)
		}

		for i := wsIdx; i < weIdx; i++ {
			if c.buf[i].Dropped {
				continue
			}
			if keep {
				c.buf[i].CoincGroup = int(c.groups)
			} else {
				c.buf[i].CoincGroup = -2
			}
		}
		if keep {
			current.CoincGroup = int(c.groups)
			c.groups++
		} else {
			current.CoincGroup = -2
			c.incDropped(int64(noEvents))
		}
		cur++
	}
	return len(c.buf)
}

func (c *CoincidenceStage) Process(events []photon.Interaction) []photon.Interaction {
	startDropped := c.NoDropped()
	c.buf = append(c.buf, events...)
	cut := c.run(false)
	ready := append([]photon.Interaction(nil), c.buf[:cut]...)
	c.buf = append([]photon.Interaction(nil), c.buf[cut:]...)
	c.track(startDropped, ready)
	return ready
}

func (c *CoincidenceStage) Stop() []photon.Interaction {
	startDropped := c.NoDropped()
	c.run(true)
	ready := c.buf
	c.buf = nil
	c.track(startDropped, ready)
	return ready
}

func (c *CoincidenceStage) Reset() {
	c.buf = nil
	c.pairs, c.multiples, c.singles, c.groups = 0, 0, 0, 0
	c.reset()
}

func (c *CoincidenceStage) Stats() ProcessorStats { return c.ProcessorStats }
