// Package translate implements machine translation over the public Google
// Translate "gtx" endpoint.
package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/heartmarshall/wordlookup/internal/metrics"
	"github.com/heartmarshall/wordlookup/internal/provider"
)

// DefaultBaseURL is the Google Translate single-shot endpoint.
const DefaultBaseURL = "https://translate.googleapis.com/translate_a/single"

// Provider translates short texts.
type Provider struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

// NewProvider creates a Provider for baseURL. A zero timeout means 10s.
func NewProvider(baseURL string, timeout time.Duration, logger *slog.Logger) *Provider {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Provider{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		log:        logger.With("adapter", "translate"),
	}
}

// Translate translates text into target, auto-detecting the source language.
func (p *Provider) Translate(ctx context.Context, text, target string) (res *provider.TranslationResult, err error) {
	start := time.Now()
	defer func() { metrics.ObserveProvider("translate", start, err) }()

	u, err := url.Parse(p.baseURL)
	if err != nil {
		return nil, fmt.Errorf("translate: parse base url: %w", err)
	}
	q := u.Query()
	q.Set("client", "gtx")
	q.Set("sl", "auto")
	q.Set("tl", GoogleCode(target))
	q.Set("dt", "t")
	q.Set("q", text)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("translate: create request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("translate: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("translate: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("translate: read body: %w", err)
	}

	res, err = parseResponse(body)
	if err != nil {
		return nil, err
	}

	p.log.DebugContext(ctx, "translate response",
		slog.String("target", target),
		slog.String("source", res.SourceLanguage),
	)

	return res, nil
}

// parseResponse decodes the positional gtx payload:
// [[["translated","original",...],...], null, "detected-source", ...]
func parseResponse(body []byte) (*provider.TranslationResult, error) {
	var top []json.RawMessage
	if err := json.Unmarshal(body, &top); err != nil {
		return nil, fmt.Errorf("translate: decode json: %w", err)
	}
	if len(top) == 0 {
		return nil, fmt.Errorf("translate: empty response")
	}

	var segments [][]any
	if err := json.Unmarshal(top[0], &segments); err != nil {
		return nil, fmt.Errorf("translate: decode segments: %w", err)
	}

	var b strings.Builder
	for _, seg := range segments {
		if len(seg) == 0 {
			continue
		}
		if s, ok := seg[0].(string); ok {
			b.WriteString(s)
		}
	}

	res := &provider.TranslationResult{Text: strings.TrimSpace(b.String())}
	if res.Text == "" {
		return nil, fmt.Errorf("translate: no translated text")
	}

	if len(top) > 2 {
		var src string
		if err := json.Unmarshal(top[2], &src); err == nil {
			res.SourceLanguage = strings.ToLower(src)
		}
	}

	return res, nil
}

// GoogleCode converts a registry code ("zh-cn") into the form Google expects ("zh-CN").
func GoogleCode(code string) string {
	lang, region, ok := strings.Cut(code, "-")
	if !ok {
		return strings.ToLower(code)
	}
	return strings.ToLower(lang) + "-" + strings.ToUpper(region)
}
