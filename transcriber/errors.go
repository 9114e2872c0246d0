package transcriber

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// FailureKind classifies why a transcription could not be produced.
type FailureKind string

const (
	FailCaptureUnavailable FailureKind = "capture_unavailable"
	FailPayloadTooLarge    FailureKind = "payload_too_large"
	FailAuth               FailureKind = "backend_auth"
	FailTransient          FailureKind = "backend_transient"
	FailMalformed          FailureKind = "backend_malformed"
	FailCancelled          FailureKind = "cancelled"
)

// Failure is the only error type that escapes the dispatcher. Transient
// failures are retry candidates; everything else aborts immediately.
type Failure struct {
	Kind    FailureKind
	Backend string
	Message string
	Err     error
}

func (f *Failure) Error() string {
	if f.Backend != "" {
		return fmt.Sprintf("%s: %s: %s", f.Backend, f.Kind, f.Message)
	}
	return fmt.Sprintf("%s: %s", f.Kind, f.Message)
}

func (f *Failure) Unwrap() error { return f.Err }

func newFailure(kind FailureKind, backend, format string, args ...any) *Failure {
	return &Failure{Kind: kind, Backend: backend, Message: fmt.Sprintf(format, args...)}
}

// Kind extracts the failure kind, mapping unclassified errors to transient.
func Kind(err error) FailureKind {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind
	}
	return FailTransient
}

// Retryable reports whether the dispatcher may retry after this error.
func Retryable(err error) bool {
	return Kind(err) == FailTransient
}

// classifyTransport wraps network-level errors from an HTTP round trip.
// Context cancellation is surfaced as cancelled, everything else as a
// transient failure worth retrying.
func classifyTransport(backend string, err error) *Failure {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &Failure{Kind: FailCancelled, Backend: backend, Message: "request cancelled", Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &Failure{Kind: FailTransient, Backend: backend, Message: "network timeout", Err: err}
	}
	return &Failure{Kind: FailTransient, Backend: backend, Message: err.Error(), Err: err}
}

// classifyStatus maps an HTTP status to a failure kind per the retry
// policy: auth and malformed requests are never retried, rate limits and
// server errors are.
func classifyStatus(backend string, status int, body []byte) *Failure {
	msg := fmt.Sprintf("API error %d: %s", status, truncate(body, 200))
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return newFailure(FailAuth, backend, "%s", msg)
	case status == http.StatusRequestTimeout || status == http.StatusTooManyRequests || status >= 500:
		return newFailure(FailTransient, backend, "%s", msg)
	default:
		return newFailure(FailMalformed, backend, "%s", msg)
	}
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
