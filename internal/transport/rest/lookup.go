package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"

	"github.com/heartmarshall/wordlookup/internal/domain"
	"github.com/heartmarshall/wordlookup/internal/service/lookup"
)

type lookupService interface {
	Languages() []domain.Language
	Search(ctx context.Context, in lookup.SearchInput) (*domain.SearchResult, error)
	Pronounce(ctx context.Context, in lookup.PronounceInput) (string, error)
	Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error)
}

type historyService interface {
	List(ctx context.Context) ([]domain.HistoryEntry, error)
	Clear(ctx context.Context) (int64, error)
}

// LookupHandler serves the dictionary API consumed by the terminal client.
type LookupHandler struct {
	lookup    lookupService
	history   historyService
	maxUpload int64
	log       *slog.Logger
}

// NewLookupHandler creates a LookupHandler. maxUpload bounds speech uploads.
func NewLookupHandler(lookup lookupService, history historyService, maxUpload int64, logger *slog.Logger) *LookupHandler {
	return &LookupHandler{
		lookup:    lookup,
		history:   history,
		maxUpload: maxUpload,
		log:       logger.With("handler", "lookup"),
	}
}

type searchRequest struct {
	Word       string `json:"word"`
	TargetLang string `json:"target_lang"`
}

type pronounceRequest struct {
	Text string `json:"text"`
	Lang string `json:"lang"`
}

// Languages handles GET /api/languages. The object keeps registry order.
func (h *LookupHandler) Languages(w http.ResponseWriter, r *http.Request) {
	langs := h.lookup.Languages()
	obj := make(orderedObject, 0, len(langs))
	for _, l := range langs {
		obj = append(obj, keyValue{Key: l.Code, Value: l.Name})
	}
	writeJSON(w, http.StatusOK, obj)
}

// Search handles POST /api/search.
func (h *LookupHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.lookup.Search(r.Context(), lookup.SearchInput{
		Word:       req.Word,
		TargetLang: req.TargetLang,
	})
	if err != nil {
		handleError(h.log, w, r, err, "Lookup failed")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// History handles GET /api/history.
func (h *LookupHandler) History(w http.ResponseWriter, r *http.Request) {
	entries, err := h.history.List(r.Context())
	if err != nil {
		handleError(h.log, w, r, err, "Failed to load history")
		return
	}
	if entries == nil {
		entries = []domain.HistoryEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// ClearHistory handles POST /api/clear-history.
func (h *LookupHandler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	n, err := h.history.Clear(r.Context())
	if err != nil {
		handleError(h.log, w, r, err, "Failed to clear history")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"cleared": n})
}

// Pronounce handles POST /api/pronounce.
func (h *LookupHandler) Pronounce(w http.ResponseWriter, r *http.Request) {
	var req pronounceRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	audio, err := h.lookup.Pronounce(r.Context(), lookup.PronounceInput{Text: req.Text, Lang: req.Lang})
	if err != nil {
		handleError(h.log, w, r, err, "Failed to generate pronunciation")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"audio": audio})
}

// SpeechToText handles POST /api/speech-to-text with a multipart "audio" file.
func (h *LookupHandler) SpeechToText(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Audio file too large")
			return
		}
		writeError(w, http.StatusBadRequest, "No audio file provided")
		return
	}
	defer r.MultipartForm.RemoveAll() //nolint:errcheck

	file, header, err := r.FormFile("audio")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No audio file provided")
		return
	}
	defer file.Close()

	text, err := h.lookup.Transcribe(r.Context(), file, header.Filename)
	if err != nil {
		handleError(h.log, w, r, err, "Speech recognition failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"text": text})
}

// decodeJSON requires a JSON content type and decodes the body into v.
// It writes the 400 response itself and reports whether decoding succeeded.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mt != "application/json" {
		writeError(w, http.StatusBadRequest, "Request must be JSON")
		return false
	}
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Request must be JSON")
		return false
	}
	return true
}
