package transcriber

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"murmur/log"
)

const openAIURL = "https://api.openai.com/v1/audio/transcriptions"

// OpenAI sends recordings to the Whisper transcription endpoint.
type OpenAI struct {
	client *TracedClient
	apiURL string
	apiKey string
	model  string
}

func NewOpenAI(apiKey, model string) *OpenAI {
	o := &OpenAI{
		client: NewTracedClient(openAIURL),
		apiURL: openAIURL,
		apiKey: apiKey,
		model:  model,
	}
	go o.client.Warm()
	return o
}

func (o *OpenAI) Name() string { return "openai" }

// MaxUploadBytes is the documented 25 MB file-size ceiling.
func (o *OpenAI) MaxUploadBytes() int { return 25 * 1024 * 1024 }

func (o *OpenAI) Transcribe(ctx context.Context, r Request) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", "audio."+r.Format)
	if err != nil {
		return "", newFailure(FailMalformed, o.Name(), "build multipart: %v", err)
	}
	if _, err := part.Write(r.Audio); err != nil {
		return "", newFailure(FailMalformed, o.Name(), "build multipart: %v", err)
	}

	writer.WriteField("model", o.model)
	writer.WriteField("response_format", "json")
	if r.Language != "" {
		writer.WriteField("language", r.Language)
	}
	writer.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.apiURL, &body)
	if err != nil {
		return "", newFailure(FailMalformed, o.Name(), "build request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+o.apiKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	start := time.Now()
	resp, err := o.client.Do(req)
	if err != nil {
		return "", classifyTransport(o.Name(), err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", classifyStatus(o.Name(), resp.StatusCode, resp.Body)
	}

	var oResp struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(resp.Body, &oResp); err != nil {
		return "", newFailure(FailMalformed, o.Name(), "response parse error: %v", err)
	}

	log.Debugf("openai: %d KB uploaded in %d ms (ttfb %d ms, reused=%v)",
		len(r.Audio)/1024, time.Since(start).Milliseconds(),
		resp.Metrics.TTFB.Milliseconds(), resp.Metrics.ConnReused)

	return strings.TrimSpace(oResp.Text), nil
}
