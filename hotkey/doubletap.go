package hotkey

import (
	"time"

	"murmur/log"
)

// DoubleTap recognizes a double-press of the activation key. Two press
// edges of any alias within the interval emit one activation; autorepeat
// of a held key never counts as a second press. A completed double-press
// clears the stored candidate, so a third rapid press starts a fresh
// window instead of chaining into a second activation.
type DoubleTap struct {
	interval time.Duration
	activate chan struct{}

	lastPress time.Time
	hasPress  bool
	down      map[uint16]bool
}

func NewDoubleTap(interval time.Duration) *DoubleTap {
	return &DoubleTap{
		interval: interval,
		activate: make(chan struct{}, 1),
		down:     make(map[uint16]bool),
	}
}

// Activations signals once per recognized double-press. The channel is
// buffered; an unconsumed activation is dropped rather than blocking the
// key-event path.
func (d *DoubleTap) Activations() <-chan struct{} {
	return d.activate
}

// Run pumps the source's transitions through the detector until the
// source's event channel closes. Call from its own goroutine.
func (d *DoubleTap) Run(src Source) {
	for ev := range src.Events() {
		if d.feed(ev) {
			select {
			case d.activate <- struct{}{}:
			default:
			}
		}
	}
}

// feed consumes one transition and reports whether it completed a
// double-press. Timing decisions use the event's own timestamp, never the
// wall clock.
func (d *DoubleTap) feed(ev KeyEvent) bool {
	switch ev.Edge {
	case Press:
		if d.down[ev.Code] {
			// Autorepeat of a held key, not a second press.
			return false
		}
		d.down[ev.Code] = true

		if d.hasPress && ev.At.Sub(d.lastPress) <= d.interval {
			d.hasPress = false
			return true
		}
		// Too late to match (or nothing stored): becomes the new candidate.
		d.lastPress = ev.At
		d.hasPress = true
		return false

	case Release:
		if !d.down[ev.Code] {
			log.Debugf("hotkey: release without press (code %d)", ev.Code)
			return false
		}
		delete(d.down, ev.Code)
		return false
	}
	return false
}
