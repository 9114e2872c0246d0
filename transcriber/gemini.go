package transcriber

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"google.golang.org/genai"

	"murmur/log"
)

const transcriptionPrompt = "Transcribe this audio accurately. Return only the transcript text, with no commentary."

// Gemini transcribes by sending the audio inline to a generative model
// with a transcription prompt. The client is built lazily on first use
// so construction never needs a context.
type Gemini struct {
	apiKey string
	model  string

	mu     sync.Mutex
	client *genai.Client
}

func NewGemini(apiKey, model string) *Gemini {
	return &Gemini{apiKey: apiKey, model: model}
}

func (g *Gemini) Name() string { return "gemini" }

// MaxUploadBytes is the inline-data ceiling for generateContent
// requests. Larger payloads would need the Files API.
func (g *Gemini) MaxUploadBytes() int { return 20 * 1024 * 1024 }

func (g *Gemini) getClient(ctx context.Context) (*genai.Client, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.client != nil {
		return g.client, nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  g.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	g.client = client
	return client, nil
}

func (g *Gemini) Transcribe(ctx context.Context, r Request) (string, error) {
	client, err := g.getClient(ctx)
	if err != nil {
		return "", classifyTransport(g.Name(), err)
	}

	prompt := transcriptionPrompt
	if r.Language != "" {
		prompt += " The audio is in language " + r.Language + "."
	}

	contents := []*genai.Content{
		genai.NewContentFromParts(
			[]*genai.Part{
				genai.NewPartFromText(prompt),
				genai.NewPartFromBytes(r.Audio, mimeType(r.Format)),
			},
			genai.RoleUser,
		),
	}

	start := time.Now()
	resp, err := client.Models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{})
	if err != nil {
		return "", classifyGenAI(g.Name(), err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", newFailure(FailMalformed, g.Name(), "empty transcription response")
	}

	log.Debugf("gemini: %d KB transcribed in %d ms", len(r.Audio)/1024, time.Since(start).Milliseconds())
	return text, nil
}

// classifyGenAI maps genai SDK errors onto the failure taxonomy. The
// SDK surfaces HTTP failures as *genai.APIError with the status code.
func classifyGenAI(backend string, err error) *Failure {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		f := classifyStatus(backend, apiErr.Code, []byte(apiErr.Message))
		f.Err = err
		return f
	}
	return classifyTransport(backend, err)
}

func mimeType(format string) string {
	switch format {
	case "flac":
		return "audio/flac"
	case "mp3":
		return "audio/mpeg"
	default:
		return "audio/wav"
	}
}
