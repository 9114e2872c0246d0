package transcriber

import (
	"context"
	"time"

	"murmur/encoder"
	"murmur/log"
)

const defaultRetryDelay = 500 * time.Millisecond

// Result describes a completed dispatch.
type Result struct {
	Text     string
	Backend  string
	Attempts int
	Elapsed  time.Duration
}

// Dispatcher routes a recording to the primary backend, retrying
// transient failures with doubling backoff, and falls back to a second
// backend once if the primary is exhausted. Payloads over a backend's
// upload ceiling are compressed first; if compression cannot get under
// the ceiling the backend is never contacted.
type Dispatcher struct {
	primary    Backend
	fallback   Backend // nil = no fallback
	maxRetries int
	retryDelay time.Duration

	// compress is swapped in tests.
	compress func(wav []byte, sampleRate, channels int) ([]byte, error)
}

func NewDispatcher(primary, fallback Backend, maxRetries int) *Dispatcher {
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &Dispatcher{
		primary:    primary,
		fallback:   fallback,
		maxRetries: maxRetries,
		retryDelay: defaultRetryDelay,
		compress:   encoder.CompressWAV,
	}
}

// Dispatch sends the recording out and returns the transcript. The
// returned error is always a *Failure.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()

	res, err := d.tryBackend(ctx, d.primary, req)
	if err != nil && d.fallback != nil && Kind(err) != FailCancelled {
		log.Warnf("%s failed (%v), falling back to %s", d.primary.Name(), err, d.fallback.Name())
		var fbErr error
		res, fbErr = d.tryBackendOnce(ctx, d.fallback, req)
		if fbErr != nil {
			err = fbErr
		} else {
			err = nil
		}
	}
	if err != nil {
		return nil, err
	}

	res.Elapsed = time.Since(start)
	return res, nil
}

// tryBackend runs the full retry loop against one backend.
func (d *Dispatcher) tryBackend(ctx context.Context, b Backend, req Request) (*Result, error) {
	req, err := d.fit(b, req)
	if err != nil {
		return nil, err
	}

	delay := d.retryDelay
	var lastErr error
	for attempt := 1; attempt <= d.maxRetries; attempt++ {
		text, err := b.Transcribe(ctx, req)
		if err == nil {
			return &Result{Text: text, Backend: b.Name(), Attempts: attempt}, nil
		}
		lastErr = err
		if !Retryable(err) {
			break
		}
		if attempt < d.maxRetries {
			log.Warnf("%s attempt %d/%d failed: %v (retrying in %v)",
				b.Name(), attempt, d.maxRetries, err, delay)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, classifyTransport(b.Name(), ctx.Err())
			}
			delay *= 2
		}
	}
	return nil, lastErr
}

// tryBackendOnce is the single-shot fallback path, no retries.
func (d *Dispatcher) tryBackendOnce(ctx context.Context, b Backend, req Request) (*Result, error) {
	req, err := d.fit(b, req)
	if err != nil {
		return nil, err
	}
	text, err := b.Transcribe(ctx, req)
	if err != nil {
		return nil, err
	}
	return &Result{Text: text, Backend: b.Name(), Attempts: 1}, nil
}

// fit shrinks the payload under the backend's upload ceiling, compressing
// WAV to FLAC when needed. Too large even after compression means the
// backend is never contacted.
func (d *Dispatcher) fit(b Backend, req Request) (Request, error) {
	limit := b.MaxUploadBytes()
	if len(req.Audio) <= limit {
		return req, nil
	}
	if req.Format != "wav" {
		return req, newFailure(FailPayloadTooLarge, b.Name(),
			"%d byte %s payload exceeds %d byte limit", len(req.Audio), req.Format, limit)
	}

	compressed, err := d.compress(req.Audio, req.SampleRate, req.Channels)
	if err != nil {
		return req, newFailure(FailPayloadTooLarge, b.Name(), "compression failed: %v", err)
	}
	log.Infof("compressed %d KB wav to %d KB flac for %s",
		len(req.Audio)/1024, len(compressed)/1024, b.Name())

	if len(compressed) > limit {
		return req, newFailure(FailPayloadTooLarge, b.Name(),
			"%d byte payload still exceeds %d byte limit after compression", len(compressed), limit)
	}
	req.Audio = compressed
	req.Format = "flac"
	return req, nil
}
