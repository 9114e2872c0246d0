package hotkey

import "time"

// FakeSource feeds scripted transitions to a detector in tests.
type FakeSource struct {
	events chan KeyEvent
}

func NewFake() *FakeSource {
	return &FakeSource{events: make(chan KeyEvent, 64)}
}

func (f *FakeSource) Register() error        { return nil }
func (f *FakeSource) Unregister()            { close(f.events) }
func (f *FakeSource) Events() <-chan KeyEvent { return f.events }

func (f *FakeSource) SimPress(code uint16, at time.Time) {
	f.events <- KeyEvent{Code: code, Edge: Press, At: at}
}

func (f *FakeSource) SimRelease(code uint16, at time.Time) {
	f.events <- KeyEvent{Code: code, Edge: Release, At: at}
}
