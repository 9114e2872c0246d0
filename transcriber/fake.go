package transcriber

import (
	"context"
	"sync"
)

// FakeBackend replays a scripted sequence of outcomes. Each call to
// Transcribe consumes the next entry; once the script runs out the
// final entry repeats.
type FakeBackend struct {
	name string
	max  int

	mu       sync.Mutex
	script   []error
	text     string
	calls    int
	requests []Request
}

func NewFake(name, text string, script ...error) *FakeBackend {
	return &FakeBackend{name: name, text: text, script: script, max: 25 * 1024 * 1024}
}

func (f *FakeBackend) Name() string { return f.name }

func (f *FakeBackend) MaxUploadBytes() int { return f.max }

// SetMaxUploadBytes lowers the ceiling to exercise the compression path.
func (f *FakeBackend) SetMaxUploadBytes(n int) { f.max = n }

func (f *FakeBackend) Transcribe(_ context.Context, req Request) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	var err error
	if len(f.script) > 0 {
		i := min(f.calls, len(f.script)-1)
		err = f.script[i]
	}
	f.calls++
	if err != nil {
		return "", err
	}
	return f.text, nil
}

func (f *FakeBackend) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *FakeBackend) LastRequest() Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		return Request{}
	}
	return f.requests[len(f.requests)-1]
}
