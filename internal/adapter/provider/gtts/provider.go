// Package gtts synthesises speech with the Google Translate TTS endpoint.
package gtts

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/heartmarshall/wordlookup/internal/adapter/provider/translate"
	"github.com/heartmarshall/wordlookup/internal/metrics"
)

// DefaultBaseURL is the Google Translate TTS endpoint.
const DefaultBaseURL = "https://translate.google.com/translate_tts"

// maxChunk is the longest text the endpoint accepts per request.
const maxChunk = 100

// Provider returns MP3 audio for a text.
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
		log:        logger.With("adapter", "gtts"),
	}
}

// Synthesize returns MP3 bytes speaking text in lang. Texts longer than the
// endpoint limit are split on word boundaries and the MP3 streams concatenated.
func (p *Provider) Synthesize(ctx context.Context, text, lang string) (audio []byte, err error) {
	start := time.Now()
	defer func() { metrics.ObserveProvider("gtts", start, err) }()

	chunks := splitText(text, maxChunk)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("gtts: empty text")
	}

	var buf bytes.Buffer
	for i, chunk := range chunks {
		if err := p.fetchChunk(ctx, &buf, chunk, lang, i, len(chunks)); err != nil {
			return nil, err
		}
	}

	p.log.DebugContext(ctx, "gtts synthesized",
		slog.String("lang", lang),
		slog.Int("chunks", len(chunks)),
		slog.Int("bytes", buf.Len()),
	)

	return buf.Bytes(), nil
}

func (p *Provider) fetchChunk(ctx context.Context, w io.Writer, chunk, lang string, idx, total int) error {
	u, err := url.Parse(p.baseURL)
	if err != nil {
		return fmt.Errorf("gtts: parse base url: %w", err)
	}
	q := u.Query()
	q.Set("ie", "UTF-8")
	q.Set("client", "tw-ob")
	q.Set("tl", translate.GoogleCode(lang))
	q.Set("q", chunk)
	q.Set("textlen", strconv.Itoa(len([]rune(chunk))))
	q.Set("idx", strconv.Itoa(idx))
	q.Set("total", strconv.Itoa(total))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("gtts: create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("gtts: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("gtts: unexpected status %d", resp.StatusCode)
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return fmt.Errorf("gtts: read body: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("gtts: empty audio for chunk %d", idx)
	}
	return nil
}

// splitText breaks text into pieces of at most limit runes, preferring
// whitespace boundaries. A single word longer than limit is hard-split.
func splitText(text string, limit int) []string {
	var chunks []string
	var cur []rune

	flush := func() {
		if s := strings.TrimSpace(string(cur)); s != "" {
			chunks = append(chunks, s)
		}
		cur = cur[:0]
	}

	for _, word := range strings.Fields(text) {
		r := []rune(word)
		for len(r) > limit {
			flush()
			chunks = append(chunks, string(r[:limit]))
			r = r[limit:]
		}
		if len(cur) > 0 && len(cur)+1+len(r) > limit {
			flush()
		}
		if len(cur) > 0 {
			cur = append(cur, ' ')
		}
		cur = append(cur, r...)
	}
	flush()

	return chunks
}
