// Package urbandict fetches crowd-sourced slang definitions from Urban Dictionary.
package urbandict

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/heartmarshall/wordlookup/internal/metrics"
	"github.com/heartmarshall/wordlookup/internal/provider"
)

// DefaultBaseURL is the public Urban Dictionary define endpoint.
const DefaultBaseURL = "https://api.urbandictionary.com/v0/define"

type apiResponse struct {
	List []apiDefinition `json:"list"`
}

type apiDefinition struct {
	Definition string `json:"definition"`
	Example    string `json:"example"`
	ThumbsUp   int    `json:"thumbs_up"`
}

// Provider queries the Urban Dictionary API.
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
		log:        logger.With("adapter", "urbandict"),
	}
}

// FetchSlang returns definitions for term ordered by thumbs-up votes, highest
// first. Bracketed cross-references ("[word]") are unwrapped.
func (p *Provider) FetchSlang(ctx context.Context, term string) (out []provider.SlangResult, err error) {
	start := time.Now()
	defer func() { metrics.ObserveProvider("urbandict", start, err) }()

	u, err := url.Parse(p.baseURL)
	if err != nil {
		return nil, fmt.Errorf("urbandict: parse base url: %w", err)
	}
	q := u.Query()
	q.Set("term", term)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("urbandict: create request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("urbandict: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("urbandict: unexpected status %d", resp.StatusCode)
	}

	var body apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("urbandict: decode json: %w", err)
	}

	out = make([]provider.SlangResult, 0, len(body.List))
	for _, d := range body.List {
		def := unbracket(d.Definition)
		if def == "" {
			continue
		}
		out = append(out, provider.SlangResult{
			Definition: def,
			Example:    unbracket(d.Example),
			ThumbsUp:   d.ThumbsUp,
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].ThumbsUp > out[j].ThumbsUp })

	p.log.DebugContext(ctx, "urbandict response", slog.String("term", term), slog.Int("definitions", len(out)))

	return out, nil
}

var bracketReplacer = strings.NewReplacer("[", "", "]", "", "\r\n", " ", "\n", " ")

func unbracket(s string) string {
	return strings.TrimSpace(bracketReplacer.Replace(s))
}
