package transcriber

import (
	"context"
	"fmt"

	"murmur/config"
)

// Request is one frozen recording headed for a backend. Audio holds the
// complete payload in the container named by Format ("wav" or "flac").
type Request struct {
	Audio      []byte
	Format     string
	SampleRate int
	Channels   int
	Language   string // empty = let the backend auto-detect
}

// Backend is a remote transcription service. Implementations classify
// every error into a *Failure and are safe for reuse across sessions.
type Backend interface {
	Name() string
	MaxUploadBytes() int
	Transcribe(ctx context.Context, req Request) (string, error)
}

// New builds a backend for the named service.
func New(service config.Service, cfg *config.Config) (Backend, error) {
	key := cfg.APIKey(service)
	if key == "" {
		return nil, fmt.Errorf("no API key configured for %s", service)
	}
	switch service {
	case config.ServiceOpenAI:
		return NewOpenAI(key, cfg.OpenAIModel), nil
	case config.ServiceGemini:
		return NewGemini(key, cfg.GeminiModel), nil
	default:
		return nil, fmt.Errorf("unknown transcription service %q", service)
	}
}
