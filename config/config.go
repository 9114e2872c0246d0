package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Service identifies a transcription backend.
type Service string

const (
	ServiceOpenAI Service = "openai"
	ServiceGemini Service = "gemini"
)

// Config holds all environment-driven settings.
type Config struct {
	// API keys
	OpenAIAPIKey string
	GeminiAPIKey string

	// Backend selection
	Service         Service
	FallbackService Service // empty = no fallback

	// Model configuration
	OpenAIModel string
	GeminiModel string
	Language    string // ISO 639-1 code, empty = auto-detect

	// Activation gesture
	DoublePressInterval time.Duration

	// Recording
	MaxRecordingTime time.Duration
	SampleRate       int
	Channels         int
	ChunkSize        int
	Format           string

	// Dispatch resilience
	MaxRetries int
}

// Load reads configuration from a .env file (if present) and the process
// environment. Defaults match the stock setup: OpenAI whisper, English,
// 120s recording ceiling, double-press window of half a second.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		OpenAIAPIKey:        os.Getenv("OPENAI_API_KEY"),
		GeminiAPIKey:        os.Getenv("GEMINI_API_KEY"),
		Service:             Service(getEnv("TRANSCRIPTION_SERVICE", "openai")),
		FallbackService:     Service(os.Getenv("FALLBACK_SERVICE")),
		OpenAIModel:         getEnv("OPENAI_MODEL", "whisper-1"),
		GeminiModel:         getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		Language:            getEnv("LANGUAGE", "en"),
		DoublePressInterval: getEnvSeconds("DOUBLE_PRESS_INTERVAL", 0.5),
		MaxRecordingTime:    time.Duration(getEnvInt("MAX_RECORDING_TIME", 120)) * time.Second,
		SampleRate:          getEnvInt("SAMPLE_RATE", 44100),
		Channels:            getEnvInt("CHANNELS", 1),
		ChunkSize:           getEnvInt("CHUNK_SIZE", 1024),
		Format:              getEnv("FORMAT", "wav"),
		MaxRetries:          getEnvInt("MAX_RETRIES", 3),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Service {
	case ServiceOpenAI, ServiceGemini:
	default:
		return fmt.Errorf("unknown TRANSCRIPTION_SERVICE %q (use openai or gemini)", c.Service)
	}
	switch c.FallbackService {
	case "", ServiceOpenAI, ServiceGemini:
	default:
		return fmt.Errorf("unknown FALLBACK_SERVICE %q (use openai or gemini)", c.FallbackService)
	}
	if c.DoublePressInterval <= 0 {
		return fmt.Errorf("DOUBLE_PRESS_INTERVAL must be positive")
	}
	if c.MaxRecordingTime <= 0 {
		return fmt.Errorf("MAX_RECORDING_TIME must be positive")
	}
	if c.SampleRate <= 0 || c.Channels <= 0 {
		return fmt.Errorf("invalid audio parameters: rate=%d channels=%d", c.SampleRate, c.Channels)
	}
	return nil
}

// APIKey returns the key for the named service.
func (c *Config) APIKey(s Service) string {
	if s == ServiceGemini {
		return c.GeminiAPIKey
	}
	return c.OpenAIAPIKey
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvSeconds(key string, defaultValue float64) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return time.Duration(defaultValue * float64(time.Second))
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return time.Duration(defaultValue * float64(time.Second))
	}
	return time.Duration(f * float64(time.Second))
}
