// Package whisper transcribes recorded speech with an OpenAI-compatible
// audio transcription endpoint.
package whisper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/heartmarshall/wordlookup/internal/domain"
	"github.com/heartmarshall/wordlookup/internal/metrics"
)

// DefaultBaseURL is the OpenAI transcription endpoint.
const DefaultBaseURL = "https://api.openai.com/v1/audio/transcriptions"

// Provider sends audio clips to a transcription service.
type Provider struct {
	url        string
	apiKey     string
	model      string
	httpClient *http.Client
	log        *slog.Logger
}

// NewProvider creates a Provider. An empty apiKey leaves the provider
// configured but unavailable.
func NewProvider(url, apiKey, model string, timeout time.Duration, logger *slog.Logger) *Provider {
	if url == "" {
		url = DefaultBaseURL
	}
	if model == "" {
		model = "whisper-1"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Provider{
		url:        url,
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
		log:        logger.With("adapter", "whisper"),
	}
}

type transcriptionResponse struct {
	Text  string `json:"text"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Transcribe returns the text spoken in audio. filename is used only to let
// the service infer the container format.
//
// It returns domain.ErrUnavailable when the provider has no credentials or the
// service cannot be reached, and domain.ErrUnrecognized when no speech was found.
func (p *Provider) Transcribe(ctx context.Context, audio io.Reader, filename string) (text string, err error) {
	start := time.Now()
	defer func() { metrics.ObserveProvider("whisper", start, err) }()

	if p.apiKey == "" {
		return "", fmt.Errorf("whisper: no api key: %w", domain.ErrUnavailable)
	}
	if filename == "" {
		filename = "audio.wav"
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("whisper: create form file: %w", err)
	}
	n, err := io.Copy(fw, audio)
	if err != nil {
		return "", fmt.Errorf("whisper: copy audio: %w", err)
	}
	if n == 0 {
		return "", fmt.Errorf("whisper: empty audio: %w", domain.ErrUnrecognized)
	}
	if err := mw.WriteField("model", p.model); err != nil {
		return "", fmt.Errorf("whisper: write model field: %w", err)
	}
	if err := mw.WriteField("response_format", "json"); err != nil {
		return "", fmt.Errorf("whisper: write format field: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("whisper: close multipart: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, &body)
	if err != nil {
		return "", fmt.Errorf("whisper: create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		p.log.ErrorContext(ctx, "whisper request failed", slog.String("error", err.Error()))
		return "", fmt.Errorf("whisper: request failed: %v: %w", err, domain.ErrUnavailable)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("whisper: read body: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode >= 500:
		return "", fmt.Errorf("whisper: status %d: %w", resp.StatusCode, domain.ErrUnavailable)
	case resp.StatusCode >= 400:
		// The service rejects clips it cannot decode.
		return "", fmt.Errorf("whisper: status %d: %w", resp.StatusCode, domain.ErrUnrecognized)
	}

	var out transcriptionResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("whisper: decode json: %w", err)
	}
	if out.Error != nil {
		return "", fmt.Errorf("whisper: %s: %w", out.Error.Message, domain.ErrUnrecognized)
	}

	text = strings.TrimSpace(out.Text)
	if text == "" {
		return "", domain.ErrUnrecognized
	}

	p.log.DebugContext(ctx, "whisper transcribed", slog.Int("chars", len(text)))
	return text, nil
}
