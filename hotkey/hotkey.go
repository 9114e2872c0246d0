package hotkey

import "time"

// Edge is one side of a key transition.
type Edge int

const (
	Press Edge = iota
	Release
)

func (e Edge) String() string {
	if e == Press {
		return "press"
	}
	return "release"
}

// KeyEvent is a single raw transition of a monitored key. Left and right
// variants of the activation key arrive as distinct codes; the detector
// treats them as aliases of one logical key.
type KeyEvent struct {
	Code uint16
	Edge Edge
	At   time.Time
}

// Source delivers raw key transitions for the monitored keys.
type Source interface {
	Register() error
	Unregister()
	Events() <-chan KeyEvent
}
