// Package orchestrator composes the client components and exposes the user
// commands of the lookup client.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/wordlookup/internal/domain"
	"github.com/heartmarshall/wordlookup/internal/ui/catalog"
	"github.com/heartmarshall/wordlookup/internal/ui/history"
	"github.com/heartmarshall/wordlookup/internal/ui/render"
	"github.com/heartmarshall/wordlookup/internal/ui/search"
	"github.com/heartmarshall/wordlookup/internal/ui/speech"
)

// MsgClearFailed is shown when the history could not be cleared.
const MsgClearFailed = "Failed to clear history"

// View is everything the orchestrator draws on.
type View interface {
	search.View
	history.View
	Notice(msg string)
	ShowRecording(on bool)
	ShowLanguages(options []domain.Language)
	ShowForm(word, lang string)
}

type apiClient interface {
	Languages(ctx context.Context) ([]domain.Language, error)
	History(ctx context.Context) ([]domain.HistoryEntry, error)
	ClearHistory(ctx context.Context) error
	Search(ctx context.Context, word, lang string) (*domain.SearchResult, error)
}

type player interface {
	Play(ctx context.Context, b64 string) error
}

// Deps are the collaborators of an Orchestrator. Speech and Clipboard may be
// nil.
type Deps struct {
	API             apiClient
	Player          player
	Speech          speech.Capability
	Clipboard       func(text string) error
	View            View
	DefaultLanguage domain.Language
	TimeLayout      string
}

// Form is the current input state.
type Form struct {
	Word     string
	Language string
}

// Orchestrator owns the form state and routes user commands to components.
type Orchestrator struct {
	catalog   *catalog.Catalog
	history   *history.Log
	search    *search.Executor
	speech    *speech.Control
	player    player
	clipboard func(string) error
	view      View
	log       *slog.Logger

	mu   sync.Mutex
	form Form
	rows []history.Row

	wg sync.WaitGroup
}

// New wires the components around d.View.
func New(d Deps, logger *slog.Logger) *Orchestrator {
	o := &Orchestrator{
		player:    d.Player,
		clipboard: d.Clipboard,
		view:      d.View,
		log:       logger.With("component", "orchestrator"),
		form:      Form{Language: d.DefaultLanguage.Code},
	}
	p := &proxy{o: o}

	o.catalog = catalog.New(d.API, d.DefaultLanguage, logger)
	o.history = history.New(d.API, p, d.TimeLayout, logger)
	o.search = search.NewExecutor(d.API, o.history, o.catalog, d.View, logger)
	o.speech = speech.NewControl(d.Speech, p, logger)
	return o
}

// Init loads the language catalog and the history concurrently. Failures are
// logged by the components and do not stop the client.
func (o *Orchestrator) Init(ctx context.Context) {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_ = o.catalog.Load(gctx)
		return nil
	})
	g.Go(func() error {
		_ = o.history.Refresh(gctx)
		return nil
	})
	_ = g.Wait()

	o.view.ShowLanguages(o.catalog.Options())
	f := o.Form()
	o.view.ShowForm(f.Word, f.Language)
}

// Go runs fn in the background. Wait blocks until all such calls return.
func (o *Orchestrator) Go(ctx context.Context, fn func(ctx context.Context)) {
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		fn(ctx)
	}()
}

// Wait blocks until background handlers and speech sessions have finished.
func (o *Orchestrator) Wait() {
	o.wg.Wait()
	o.speech.Wait()
}

// Form returns a copy of the current form.
func (o *Orchestrator) Form() Form {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.form
}

func (o *Orchestrator) setForm(word, lang string) Form {
	o.mu.Lock()
	o.form.Word = word
	if lang != "" {
		o.form.Language = lang
	}
	f := o.form
	o.mu.Unlock()

	o.view.ShowForm(f.Word, f.Language)
	return f
}

// Submit searches word in the current language.
func (o *Orchestrator) Submit(ctx context.Context, word string) search.Outcome {
	f := o.setForm(strings.TrimSpace(word), "")
	return o.search.Search(ctx, f.Word, f.Language)
}

// SetLanguage selects a language offered by the catalog.
func (o *Orchestrator) SetLanguage(code string) error {
	code = strings.ToLower(strings.TrimSpace(code))
	if !o.catalog.Has(code) {
		return fmt.Errorf("unknown language %q", code)
	}
	o.mu.Lock()
	word := o.form.Word
	o.mu.Unlock()
	o.setForm(word, code)
	return nil
}

// Languages returns the selectable languages.
func (o *Orchestrator) Languages() []domain.Language {
	return o.catalog.Options()
}

// LanguageName returns the display name for code.
func (o *Orchestrator) LanguageName(code string) string {
	return o.catalog.DisplayName(code)
}

// RefreshHistory reloads the history list.
func (o *Orchestrator) RefreshHistory(ctx context.Context) error {
	return o.history.Refresh(ctx)
}

// SelectHistory fills the form from history row n (1-based) and searches it.
func (o *Orchestrator) SelectHistory(ctx context.Context, n int) (search.Outcome, error) {
	o.mu.Lock()
	if n < 1 || n > len(o.rows) || o.rows[n-1].Placeholder {
		o.mu.Unlock()
		return search.OutcomeSkipped, fmt.Errorf("no history entry %d", n)
	}
	entry := o.rows[n-1].Entry
	o.mu.Unlock()

	f := o.setForm(entry.Word, entry.TargetLanguage)
	return o.search.Search(ctx, f.Word, f.Language), nil
}

// ActivateChip searches the word of chip n (1-based) in the current language.
func (o *Orchestrator) ActivateChip(ctx context.Context, n int) (search.Outcome, error) {
	_, card := o.search.Current()
	chips := render.Chips(card)
	if n < 1 || n > len(chips) {
		return search.OutcomeSkipped, fmt.Errorf("no related word %d", n)
	}
	return o.Submit(ctx, chips[n-1].Action.Word), nil
}

// Play plays control n (1-based) of the current result. Failures are logged.
func (o *Orchestrator) Play(ctx context.Context, n int) error {
	_, card := o.search.Current()
	plays := render.Plays(card)
	if n < 1 || n > len(plays) {
		return fmt.Errorf("no audio %d", n)
	}
	if err := o.player.Play(ctx, plays[n-1].Action.Audio); err != nil {
		o.log.WarnContext(ctx, "playback failed", slog.String("error", err.Error()))
		return err
	}
	return nil
}

// ToggleMic starts or stops speech input.
func (o *Orchestrator) ToggleMic(ctx context.Context) {
	o.speech.Toggle(ctx)
}

// ClearHistory deletes the history. The list is refreshed either way and a
// failure is shown as a notice.
func (o *Orchestrator) ClearHistory(ctx context.Context) error {
	if err := o.history.Clear(ctx); err != nil {
		o.view.Notice(MsgClearFailed)
		return err
	}
	return nil
}

// Copy puts the current word and translation on the clipboard.
func (o *Orchestrator) Copy() (string, error) {
	if o.clipboard == nil {
		return "", errors.New("clipboard unavailable")
	}
	res, _ := o.search.Current()
	if res == nil {
		return "", errors.New("nothing to copy")
	}
	text := res.Word
	if res.Translation != "" {
		text += " → " + res.Translation
	}
	if err := o.clipboard(text); err != nil {
		return "", fmt.Errorf("copy to clipboard: %w", err)
	}
	return text, nil
}

// proxy sits between components and the View to keep orchestrator state in
// step with what is displayed.
type proxy struct {
	o *Orchestrator
}

func (p *proxy) ShowHistory(rows []history.Row) {
	p.o.mu.Lock()
	p.o.rows = rows
	p.o.mu.Unlock()
	p.o.view.ShowHistory(rows)
}

func (p *proxy) Notice(msg string)     { p.o.view.Notice(msg) }
func (p *proxy) ShowRecording(on bool) { p.o.view.ShowRecording(on) }
func (p *proxy) SetWord(word string)   { p.o.setForm(word, "") }
