// Package api is the terminal client's view of the lookup server.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/heartmarshall/wordlookup/internal/domain"
)

// maxBody bounds how much of a response the client will read.
const maxBody = 16 << 20

// ErrTransport marks failures where no usable response arrived: the request
// could not be sent, or the body could not be read or decoded.
var ErrTransport = errors.New("transport failure")

// Error is an application-level failure reported by the server.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: status %d", e.StatusCode)
	}
	return fmt.Sprintf("api: status %d: %s", e.StatusCode, e.Message)
}

// Client talks to the lookup server over HTTP. It never retries.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

// NewClient creates a Client for baseURL. A zero timeout means 30s.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		log:        logger.With("adapter", "api"),
	}
}

// Languages fetches the supported languages in server order.
func (c *Client) Languages(ctx context.Context) ([]domain.Language, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/languages", "", nil)
	if err != nil {
		return nil, err
	}
	langs, err := decodeOrderedLanguages(body)
	if err != nil {
		return nil, fmt.Errorf("api: languages: %w: %w", ErrTransport, err)
	}
	return langs, nil
}

// History fetches recent searches, newest first.
func (c *Client) History(ctx context.Context) ([]domain.HistoryEntry, error) {
	var entries []domain.HistoryEntry
	if err := c.doJSON(ctx, http.MethodGet, "/api/history", nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// ClearHistory deletes the stored search history.
func (c *Client) ClearHistory(ctx context.Context) error {
	var out struct {
		Cleared int64 `json:"cleared"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/api/clear-history", nil, &out); err != nil {
		return err
	}
	c.log.DebugContext(ctx, "history cleared", slog.Int64("rows", out.Cleared))
	return nil
}

// Search looks up word for the target language.
func (c *Client) Search(ctx context.Context, word, lang string) (*domain.SearchResult, error) {
	in := map[string]string{"word": word, "target_lang": lang}
	var out domain.SearchResult
	if err := c.doJSON(ctx, http.MethodPost, "/api/search", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Pronounce returns base64 MP3 audio for text.
func (c *Client) Pronounce(ctx context.Context, text, lang string) (string, error) {
	in := map[string]string{"text": text, "lang": lang}
	var out struct {
		Audio string `json:"audio"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/api/pronounce", in, &out); err != nil {
		return "", err
	}
	return out.Audio, nil
}

// SpeechToText uploads a recording and returns the recognised text.
func (c *Client) SpeechToText(ctx context.Context, audio []byte, filename string) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("audio", filename)
	if err != nil {
		return "", fmt.Errorf("api: speech-to-text: %w", err)
	}
	if _, err := fw.Write(audio); err != nil {
		return "", fmt.Errorf("api: speech-to-text: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("api: speech-to-text: %w", err)
	}

	body, err := c.do(ctx, http.MethodPost, "/api/speech-to-text", mw.FormDataContentType(), &buf)
	if err != nil {
		return "", err
	}
	var out struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("api: speech-to-text: %w: %w", ErrTransport, err)
	}
	return out.Text, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var (
		reqBody     io.Reader
		contentType string
	)
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("api: %s: encode: %w", path, err)
		}
		reqBody = bytes.NewReader(b)
		contentType = "application/json"
	}

	body, err := c.do(ctx, method, path, contentType, reqBody)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("api: %s: %w: decode: %w", path, ErrTransport, err)
	}
	return nil
}

// do sends one request and returns the raw body of a successful response.
// A non-2xx status, or a 2xx object carrying an "error" field, is an *Error.
func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("api: %s: create request: %w", path, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.WarnContext(ctx, "request failed", slog.String("path", path), slog.String("error", err.Error()))
		return nil, fmt.Errorf("api: %s: %w: %w", path, ErrTransport, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("api: %s: %w: read body: %w", path, ErrTransport, err)
	}

	c.log.DebugContext(ctx, "api response",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)),
	)

	msg, hasErr := errorField(raw)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{StatusCode: resp.StatusCode, Message: msg}
	}
	if hasErr {
		return nil, &Error{StatusCode: resp.StatusCode, Message: msg}
	}
	return raw, nil
}

// errorField extracts a top-level "error" string from a JSON object body.
func errorField(raw []byte) (string, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return "", false
	}
	var env struct {
		Error *string `json:"error"`
	}
	if err := json.Unmarshal(trimmed, &env); err != nil || env.Error == nil {
		return "", false
	}
	return *env.Error, true
}

// decodeOrderedLanguages reads a code→name JSON object keeping key order.
func decodeOrderedLanguages(raw []byte) ([]domain.Language, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("expected object, got %v", tok)
	}

	var langs []domain.Language
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		code, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected key %v", tok)
		}
		var name string
		if err := dec.Decode(&name); err != nil {
			return nil, fmt.Errorf("language %q: %w", code, err)
		}
		langs = append(langs, domain.Language{Code: code, Name: name})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return langs, nil
}
