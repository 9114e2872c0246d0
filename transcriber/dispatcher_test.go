package transcriber

import (
	"context"
	"testing"
	"time"
)

func newTestDispatcher(primary, fallback Backend, retries int) *Dispatcher {
	d := NewDispatcher(primary, fallback, retries)
	d.retryDelay = time.Millisecond
	return d
}

func wavRequest(n int) Request {
	return Request{Audio: make([]byte, n), Format: "wav", SampleRate: 16000, Channels: 1}
}

func TestDispatchFirstAttemptSucceeds(t *testing.T) {
	primary := NewFake("primary", "hello world")
	fallback := NewFake("fallback", "never")
	d := newTestDispatcher(primary, fallback, 3)

	res, err := d.Dispatch(context.Background(), wavRequest(100))
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if res.Text != "hello world" || res.Backend != "primary" || res.Attempts != 1 {
		t.Errorf("got %+v", res)
	}
	if fallback.Calls() != 0 {
		t.Error("fallback contacted on primary success")
	}
}

func TestDispatchRetriesTransientThenSucceeds(t *testing.T) {
	primary := NewFake("primary", "second time lucky",
		newFailure(FailTransient, "primary", "503"), nil)
	fallback := NewFake("fallback", "never")
	d := newTestDispatcher(primary, fallback, 3)

	res, err := d.Dispatch(context.Background(), wavRequest(100))
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if res.Attempts != 2 || res.Backend != "primary" {
		t.Errorf("got attempts=%d backend=%s", res.Attempts, res.Backend)
	}
	if fallback.Calls() != 0 {
		t.Error("fallback contacted although primary recovered")
	}
}

func TestDispatchExhaustsPrimaryThenFallsBack(t *testing.T) {
	primary := NewFake("primary", "", newFailure(FailTransient, "primary", "overloaded"))
	fallback := NewFake("fallback", "plan b")
	d := newTestDispatcher(primary, fallback, 3)

	res, err := d.Dispatch(context.Background(), wavRequest(100))
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if primary.Calls() != 3 {
		t.Errorf("primary calls = %d, want 3", primary.Calls())
	}
	if res.Backend != "fallback" || res.Text != "plan b" {
		t.Errorf("got %+v", res)
	}
}

func TestDispatchAuthFailureIsNotRetried(t *testing.T) {
	primary := NewFake("primary", "", newFailure(FailAuth, "primary", "bad key"))
	d := newTestDispatcher(primary, nil, 3)

	_, err := d.Dispatch(context.Background(), wavRequest(100))
	if err == nil {
		t.Fatal("expected error")
	}
	if Kind(err) != FailAuth {
		t.Errorf("kind = %s, want %s", Kind(err), FailAuth)
	}
	if primary.Calls() != 1 {
		t.Errorf("primary calls = %d, want 1 (no retries on auth)", primary.Calls())
	}
}

func TestDispatchFallbackFailureIsSurfaced(t *testing.T) {
	primary := NewFake("primary", "", newFailure(FailTransient, "primary", "down"))
	fallback := NewFake("fallback", "", newFailure(FailAuth, "fallback", "bad key"))
	d := newTestDispatcher(primary, fallback, 2)

	_, err := d.Dispatch(context.Background(), wavRequest(100))
	if err == nil {
		t.Fatal("expected error")
	}
	if Kind(err) != FailAuth {
		t.Errorf("kind = %s, want fallback's %s", Kind(err), FailAuth)
	}
	if fallback.Calls() != 1 {
		t.Errorf("fallback calls = %d, want exactly 1", fallback.Calls())
	}
}

func TestDispatchOversizedPayloadNeverContactsBackend(t *testing.T) {
	primary := NewFake("primary", "never")
	primary.SetMaxUploadBytes(64)
	d := newTestDispatcher(primary, nil, 3)

	// Already FLAC, nothing left to compress.
	req := Request{Audio: make([]byte, 1000), Format: "flac", SampleRate: 16000, Channels: 1}
	_, err := d.Dispatch(context.Background(), req)
	if Kind(err) != FailPayloadTooLarge {
		t.Fatalf("kind = %s, want %s", Kind(err), FailPayloadTooLarge)
	}
	if primary.Calls() != 0 {
		t.Errorf("backend contacted %d times, want 0", primary.Calls())
	}
}

func TestDispatchCompressesOversizedWAV(t *testing.T) {
	primary := NewFake("primary", "compressed fine")
	primary.SetMaxUploadBytes(512)
	d := newTestDispatcher(primary, nil, 3)
	d.compress = func(wav []byte, _, _ int) ([]byte, error) {
		return wav[:64], nil
	}

	res, err := d.Dispatch(context.Background(), wavRequest(1000))
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if res.Text != "compressed fine" {
		t.Errorf("text = %q", res.Text)
	}
	got := primary.LastRequest()
	if got.Format != "flac" {
		t.Errorf("backend saw format %q, want flac", got.Format)
	}
	if len(got.Audio) != 64 {
		t.Errorf("backend saw %d bytes, want 64", len(got.Audio))
	}
}

func TestDispatchCancelledIsNotSentToFallback(t *testing.T) {
	primary := NewFake("primary", "", newFailure(FailCancelled, "primary", "ctx done"))
	fallback := NewFake("fallback", "never")
	d := newTestDispatcher(primary, fallback, 3)

	_, err := d.Dispatch(context.Background(), wavRequest(100))
	if Kind(err) != FailCancelled {
		t.Fatalf("kind = %s, want %s", Kind(err), FailCancelled)
	}
	if fallback.Calls() != 0 {
		t.Error("fallback contacted after cancellation")
	}
}
