// Package search runs lookups against the server and drives the result area.
package search

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/heartmarshall/wordlookup/internal/adapter/api"
	"github.com/heartmarshall/wordlookup/internal/domain"
	"github.com/heartmarshall/wordlookup/internal/ui/render"
)

// User-facing messages.
const (
	MsgNetwork  = "Network error. Please try again."
	MsgFallback = "An error occurred"
)

// Outcome is the terminal state of one Search call.
type Outcome int

const (
	OutcomeSkipped Outcome = iota
	OutcomeSuccess
	OutcomeAppError
	OutcomeTransportError
	OutcomeStale
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSkipped:
		return "skipped"
	case OutcomeSuccess:
		return "success"
	case OutcomeAppError:
		return "app_error"
	case OutcomeTransportError:
		return "transport_error"
	case OutcomeStale:
		return "stale"
	default:
		return "unknown"
	}
}

// View is the result area.
type View interface {
	ShowLoading(on bool)
	ClearResult()
	ShowResult(card *render.Node)
	ShowError(msg string)
}

type searcher interface {
	Search(ctx context.Context, word, lang string) (*domain.SearchResult, error)
}

type historyRefresher interface {
	Refresh(ctx context.Context) error
}

// Executor issues searches. Only the latest request may touch the view.
type Executor struct {
	api     searcher
	history historyRefresher
	names   render.Namer
	view    View
	log     *slog.Logger

	gen atomic.Uint64

	// mu orders view updates between a new request and a finishing one.
	mu     sync.Mutex
	result *domain.SearchResult
	card   *render.Node
}

// NewExecutor creates an Executor.
func NewExecutor(api searcher, history historyRefresher, names render.Namer, view View, logger *slog.Logger) *Executor {
	return &Executor{
		api:     api,
		history: history,
		names:   names,
		view:    view,
		log:     logger.With("component", "search"),
	}
}

// Search looks up word in lang and renders the outcome.
func (e *Executor) Search(ctx context.Context, word, lang string) Outcome {
	word = strings.TrimSpace(word)
	if word == "" {
		return OutcomeSkipped
	}

	e.mu.Lock()
	gen := e.gen.Add(1)
	e.result, e.card = nil, nil
	e.view.ShowLoading(true)
	e.view.ClearResult()
	e.mu.Unlock()

	res, err := e.api.Search(ctx, word, lang)

	e.mu.Lock()
	if e.gen.Load() != gen {
		e.mu.Unlock()
		e.log.DebugContext(ctx, "stale search discarded", slog.String("word", word), slog.Uint64("generation", gen))
		return OutcomeStale
	}

	var outcome Outcome
	switch {
	case err == nil:
		e.result = res
		e.card = render.Card(res, e.names)
		e.view.ShowResult(e.card)
		outcome = OutcomeSuccess
	default:
		var msg string
		msg, outcome = classify(err)
		e.log.WarnContext(ctx, "search failed",
			slog.String("word", word),
			slog.String("lang", lang),
			slog.String("error", err.Error()),
		)
		e.view.ShowError(msg)
	}
	e.view.ShowLoading(false)
	e.mu.Unlock()

	if outcome == OutcomeSuccess {
		_ = e.history.Refresh(ctx)
	}
	return outcome
}

func classify(err error) (string, Outcome) {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		if apiErr.Message == "" {
			return MsgFallback, OutcomeAppError
		}
		return apiErr.Message, OutcomeAppError
	}
	return MsgNetwork, OutcomeTransportError
}

// Current returns the displayed result and its card, or nils when the result
// area holds no result.
func (e *Executor) Current() (*domain.SearchResult, *render.Node) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.result, e.card
}

// Generation returns the number of searches started.
func (e *Executor) Generation() uint64 {
	return e.gen.Load()
}
