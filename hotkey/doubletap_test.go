package hotkey

import (
	"testing"
	"time"
)

const (
	leftAlt  uint16 = 56
	rightAlt uint16 = 100
)

var t0 = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func at(offset time.Duration) time.Time { return t0.Add(offset) }

// tap feeds a press+release pair and reports whether the press activated.
func tap(d *DoubleTap, code uint16, pressAt time.Time) bool {
	activated := d.feed(KeyEvent{Code: code, Edge: Press, At: pressAt})
	d.feed(KeyEvent{Code: code, Edge: Release, At: pressAt.Add(30 * time.Millisecond)})
	return activated
}

func TestDoubleTapWithinInterval(t *testing.T) {
	d := NewDoubleTap(500 * time.Millisecond)

	if tap(d, leftAlt, at(0)) {
		t.Fatal("first tap should not activate")
	}
	if !tap(d, leftAlt, at(300*time.Millisecond)) {
		t.Fatal("second tap at +300ms should activate")
	}
}

func TestSlowTapsReplaceCandidate(t *testing.T) {
	d := NewDoubleTap(500 * time.Millisecond)

	if tap(d, leftAlt, at(0)) {
		t.Fatal("first tap should not activate")
	}
	if tap(d, leftAlt, at(900*time.Millisecond)) {
		t.Fatal("tap at +900ms should not activate")
	}
	// The +900ms press is now the candidate: a press shortly after matches it.
	if !tap(d, leftAlt, at(1100*time.Millisecond)) {
		t.Fatal("tap at +1100ms should match the +900ms candidate")
	}
}

func TestAliasesAreEquivalent(t *testing.T) {
	d := NewDoubleTap(500 * time.Millisecond)

	if tap(d, leftAlt, at(0)) {
		t.Fatal("first tap should not activate")
	}
	if !tap(d, rightAlt, at(200*time.Millisecond)) {
		t.Fatal("left then right Alt within interval should activate")
	}
}

func TestHeldKeyRepeatsNeverActivate(t *testing.T) {
	d := NewDoubleTap(500 * time.Millisecond)

	if d.feed(KeyEvent{Code: leftAlt, Edge: Press, At: at(0)}) {
		t.Fatal("first press should not activate")
	}
	// Synthetic repeat press edges without an intervening release.
	for i := 1; i <= 5; i++ {
		ev := KeyEvent{Code: leftAlt, Edge: Press, At: at(time.Duration(i) * 50 * time.Millisecond)}
		if d.feed(ev) {
			t.Fatalf("repeat press %d activated", i)
		}
	}
	d.feed(KeyEvent{Code: leftAlt, Edge: Release, At: at(400 * time.Millisecond)})

	// A genuine second press after the release still matches the first.
	if !d.feed(KeyEvent{Code: leftAlt, Edge: Press, At: at(450 * time.Millisecond)}) {
		t.Fatal("genuine second press should activate")
	}
}

func TestTriplePressStartsFreshWindow(t *testing.T) {
	d := NewDoubleTap(500 * time.Millisecond)

	tap(d, leftAlt, at(0))
	if !tap(d, leftAlt, at(200*time.Millisecond)) {
		t.Fatal("second tap should activate")
	}
	// Third rapid press: the matched pair was consumed, so this is a new
	// candidate, not a second activation.
	if tap(d, leftAlt, at(350*time.Millisecond)) {
		t.Fatal("third rapid tap must not chain into another activation")
	}
	// ...and a fourth press pairs with the third.
	if !tap(d, leftAlt, at(500*time.Millisecond)) {
		t.Fatal("fourth tap should match the third as a fresh double-press")
	}
}

func TestStrayReleaseIgnored(t *testing.T) {
	d := NewDoubleTap(500 * time.Millisecond)

	if d.feed(KeyEvent{Code: leftAlt, Edge: Release, At: at(0)}) {
		t.Fatal("stray release activated")
	}
	// Detector state is unharmed: a normal double-tap still works.
	tap(d, leftAlt, at(100*time.Millisecond))
	if !tap(d, leftAlt, at(300*time.Millisecond)) {
		t.Fatal("double-tap after stray release should activate")
	}
}

func TestExactIntervalBoundaryActivates(t *testing.T) {
	d := NewDoubleTap(500 * time.Millisecond)

	tap(d, leftAlt, at(0))
	if !tap(d, leftAlt, at(500*time.Millisecond)) {
		t.Fatal("presses separated by exactly the interval should activate")
	}
}

func TestRunPumpsSourceEvents(t *testing.T) {
	src := NewFake()
	d := NewDoubleTap(500 * time.Millisecond)
	go d.Run(src)

	src.SimPress(leftAlt, at(0))
	src.SimRelease(leftAlt, at(50*time.Millisecond))
	src.SimPress(rightAlt, at(250*time.Millisecond))
	src.SimRelease(rightAlt, at(300*time.Millisecond))

	select {
	case <-d.Activations():
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for activation")
	}
	src.Unregister()
}
