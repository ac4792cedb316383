package orchestrator

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/wordlookup/internal/adapter/api"
	"github.com/heartmarshall/wordlookup/internal/domain"
	"github.com/heartmarshall/wordlookup/internal/ui/history"
	"github.com/heartmarshall/wordlookup/internal/ui/render"
	"github.com/heartmarshall/wordlookup/internal/ui/search"
)

// ---------------------------------------------------------------------------
// Mocks
// ---------------------------------------------------------------------------

type mockAPI struct {
	mu sync.Mutex

	LanguagesFunc    func(ctx context.Context) ([]domain.Language, error)
	HistoryFunc      func(ctx context.Context) ([]domain.HistoryEntry, error)
	ClearHistoryFunc func(ctx context.Context) error
	SearchFunc       func(ctx context.Context, word, lang string) (*domain.SearchResult, error)

	historyCalls int
	searches     [][2]string
}

func (m *mockAPI) Languages(ctx context.Context) ([]domain.Language, error) {
	return m.LanguagesFunc(ctx)
}

func (m *mockAPI) History(ctx context.Context) ([]domain.HistoryEntry, error) {
	m.mu.Lock()
	m.historyCalls++
	m.mu.Unlock()
	if m.HistoryFunc == nil {
		return nil, nil
	}
	return m.HistoryFunc(ctx)
}

func (m *mockAPI) ClearHistory(ctx context.Context) error {
	return m.ClearHistoryFunc(ctx)
}

func (m *mockAPI) Search(ctx context.Context, word, lang string) (*domain.SearchResult, error) {
	m.mu.Lock()
	m.searches = append(m.searches, [2]string{word, lang})
	m.mu.Unlock()
	return m.SearchFunc(ctx, word, lang)
}

func (m *mockAPI) historyCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.historyCalls
}

func (m *mockAPI) lastSearch() [2]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.searches) == 0 {
		return [2]string{}
	}
	return m.searches[len(m.searches)-1]
}

type mockPlayer struct {
	PlayFunc func(ctx context.Context, b64 string) error
}

func (m *mockPlayer) Play(ctx context.Context, b64 string) error { return m.PlayFunc(ctx, b64) }

type fakeView struct {
	mu        sync.Mutex
	loading   []bool
	results   []*render.Node
	errors    []string
	rows      [][]history.Row
	notices   []string
	languages []domain.Language
	form      Form
	recording []bool
}

func (v *fakeView) ShowLoading(on bool) {
	v.mu.Lock()
	v.loading = append(v.loading, on)
	v.mu.Unlock()
}

func (v *fakeView) ClearResult() {}

func (v *fakeView) ShowResult(card *render.Node) {
	v.mu.Lock()
	v.results = append(v.results, card)
	v.mu.Unlock()
}

func (v *fakeView) ShowError(msg string) {
	v.mu.Lock()
	v.errors = append(v.errors, msg)
	v.mu.Unlock()
}

func (v *fakeView) ShowHistory(rows []history.Row) {
	v.mu.Lock()
	v.rows = append(v.rows, rows)
	v.mu.Unlock()
}

func (v *fakeView) Notice(msg string) {
	v.mu.Lock()
	v.notices = append(v.notices, msg)
	v.mu.Unlock()
}

func (v *fakeView) ShowRecording(on bool) {
	v.mu.Lock()
	v.recording = append(v.recording, on)
	v.mu.Unlock()
}

func (v *fakeView) ShowLanguages(opts []domain.Language) {
	v.mu.Lock()
	v.languages = opts
	v.mu.Unlock()
}

func (v *fakeView) ShowForm(word, lang string) {
	v.mu.Lock()
	v.form = Form{Word: word, Language: lang}
	v.mu.Unlock()
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func testLanguages(context.Context) ([]domain.Language, error) {
	return []domain.Language{
		{Code: "en", Name: "English"},
		{Code: "es", Name: "Spanish"},
		{Code: "fr", Name: "French"},
	}, nil
}

func helloResult(lang string) *domain.SearchResult {
	return &domain.SearchResult{
		Word:                     "hello",
		Pronunciation:            "AAAA",
		Translation:              "hola",
		TranslationPronunciation: "BBBB",
		TargetLanguage:           lang,
		Synonyms:                 []string{"hi", "greetings"},
	}
}

func newTestOrchestrator(t *testing.T, a *mockAPI, p *mockPlayer) (*Orchestrator, *fakeView) {
	t.Helper()
	if a.LanguagesFunc == nil {
		a.LanguagesFunc = testLanguages
	}
	if p == nil {
		p = &mockPlayer{PlayFunc: func(context.Context, string) error { return nil }}
	}
	view := &fakeView{}
	o := New(Deps{
		API:             a,
		Player:          p,
		View:            view,
		DefaultLanguage: domain.DefaultLanguage,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	o.Init(context.Background())
	return o, view
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestInit_LoadsCatalogAndHistory(t *testing.T) {
	t.Parallel()

	a := &mockAPI{}
	_, view := newTestOrchestrator(t, a, nil)

	assert.Equal(t, 1, a.historyCount())
	require.Len(t, view.languages, 3)
	assert.Equal(t, "en", view.languages[0].Code)
	require.Len(t, view.rows, 1)
	assert.True(t, view.rows[0][0].Placeholder)
	assert.Equal(t, Form{Language: "en"}, view.form)
}

func TestInit_CatalogFailureKeepsDefault(t *testing.T) {
	t.Parallel()

	a := &mockAPI{LanguagesFunc: func(context.Context) ([]domain.Language, error) {
		return nil, errors.New("connection refused")
	}}
	o, view := newTestOrchestrator(t, a, nil)

	assert.Equal(t, []domain.Language{domain.DefaultLanguage}, view.languages)
	assert.Error(t, o.SetLanguage("es"))
}

func TestSubmit_HelloES(t *testing.T) {
	t.Parallel()

	a := &mockAPI{SearchFunc: func(_ context.Context, _, lang string) (*domain.SearchResult, error) {
		return helloResult(lang), nil
	}}
	o, view := newTestOrchestrator(t, a, nil)

	require.NoError(t, o.SetLanguage("es"))
	out := o.Submit(context.Background(), " hello ")

	assert.Equal(t, search.OutcomeSuccess, out)
	assert.Equal(t, [2]string{"hello", "es"}, a.lastSearch())
	require.Len(t, view.results, 1)
	tr := render.Find(view.results[0], render.KindTranslation)
	require.Len(t, tr, 1)
	assert.Equal(t, "hola", tr[0].Text)
	assert.Equal(t, []bool{true, false}, view.loading)
	assert.Equal(t, 2, a.historyCount(), "history refreshes after a successful search")
	assert.Equal(t, Form{Word: "hello", Language: "es"}, o.Form())
}

func TestSubmit_XyzzyFR(t *testing.T) {
	t.Parallel()

	a := &mockAPI{SearchFunc: func(context.Context, string, string) (*domain.SearchResult, error) {
		return nil, &api.Error{StatusCode: 404, Message: "Word not found"}
	}}
	o, view := newTestOrchestrator(t, a, nil)

	require.NoError(t, o.SetLanguage("fr"))
	out := o.Submit(context.Background(), "xyzzy")

	assert.Equal(t, search.OutcomeAppError, out)
	assert.Equal(t, []string{"Word not found"}, view.errors)
	assert.Empty(t, view.results)
	assert.Equal(t, []bool{true, false}, view.loading)
	assert.Equal(t, 1, a.historyCount(), "no history refresh after a failed search")
}

func TestActivateChip_UsesCurrentLanguage(t *testing.T) {
	t.Parallel()

	a := &mockAPI{SearchFunc: func(_ context.Context, word, lang string) (*domain.SearchResult, error) {
		r := helloResult(lang)
		r.Word = word
		return r, nil
	}}
	o, _ := newTestOrchestrator(t, a, nil)

	require.NoError(t, o.SetLanguage("es"))
	o.Submit(context.Background(), "hello")
	require.NoError(t, o.SetLanguage("fr"))

	out, err := o.ActivateChip(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, search.OutcomeSuccess, out)
	assert.Equal(t, [2]string{"greetings", "fr"}, a.lastSearch())
	assert.Equal(t, Form{Word: "greetings", Language: "fr"}, o.Form())

	_, err = o.ActivateChip(context.Background(), 9)
	assert.Error(t, err)
}

func TestSelectHistory(t *testing.T) {
	t.Parallel()

	a := &mockAPI{
		HistoryFunc: func(context.Context) ([]domain.HistoryEntry, error) {
			return []domain.HistoryEntry{{Word: "gato", TargetLanguage: "fr", Timestamp: time.Now()}}, nil
		},
		SearchFunc: func(_ context.Context, word, lang string) (*domain.SearchResult, error) {
			return &domain.SearchResult{Word: word, TargetLanguage: lang}, nil
		},
	}
	o, _ := newTestOrchestrator(t, a, nil)

	out, err := o.SelectHistory(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, search.OutcomeSuccess, out)
	assert.Equal(t, [2]string{"gato", "fr"}, a.lastSearch())
	assert.Equal(t, Form{Word: "gato", Language: "fr"}, o.Form())

	_, err = o.SelectHistory(context.Background(), 5)
	assert.Error(t, err)
}

func TestSelectHistory_PlaceholderIsNotSelectable(t *testing.T) {
	t.Parallel()

	o, _ := newTestOrchestrator(t, &mockAPI{}, nil)

	_, err := o.SelectHistory(context.Background(), 1)
	assert.Error(t, err)
}

func TestClearHistory_AlwaysRefreshes(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		a := &mockAPI{ClearHistoryFunc: func(context.Context) error { return nil }}
		o, view := newTestOrchestrator(t, a, nil)

		require.NoError(t, o.ClearHistory(context.Background()))
		assert.Equal(t, 2, a.historyCount())
		assert.Empty(t, view.notices)
	})

	t.Run("failure", func(t *testing.T) {
		t.Parallel()

		a := &mockAPI{ClearHistoryFunc: func(context.Context) error {
			return &api.Error{StatusCode: 500, Message: "Failed to clear history"}
		}}
		o, view := newTestOrchestrator(t, a, nil)

		assert.Error(t, o.ClearHistory(context.Background()))
		assert.Equal(t, 2, a.historyCount())
		assert.Equal(t, []string{MsgClearFailed}, view.notices)
	})
}

func TestPlay(t *testing.T) {
	t.Parallel()

	var played []string
	p := &mockPlayer{PlayFunc: func(_ context.Context, b64 string) error {
		played = append(played, b64)
		if b64 == "BBBB" {
			return errors.New("ffplay: not found")
		}
		return nil
	}}
	a := &mockAPI{SearchFunc: func(_ context.Context, _, lang string) (*domain.SearchResult, error) {
		return helloResult(lang), nil
	}}
	o, view := newTestOrchestrator(t, a, p)

	assert.Error(t, o.Play(context.Background(), 1), "nothing to play before a result")

	o.Submit(context.Background(), "hello")
	require.NoError(t, o.Play(context.Background(), 1))
	assert.Error(t, o.Play(context.Background(), 2))
	assert.Equal(t, []string{"AAAA", "BBBB"}, played)
	assert.Empty(t, view.errors, "playback failures are not shown as result errors")
}

func TestToggleMic_Unsupported(t *testing.T) {
	t.Parallel()

	o, view := newTestOrchestrator(t, &mockAPI{}, nil)

	o.ToggleMic(context.Background())
	o.Wait()

	require.Len(t, view.notices, 1)
	assert.Contains(t, view.notices[0], "not supported")
}

type mockCapability struct {
	ListenFunc func(ctx context.Context) (string, error)
}

func (m *mockCapability) Available() bool                          { return true }
func (m *mockCapability) Listen(ctx context.Context) (string, error) { return m.ListenFunc(ctx) }

func TestToggleMic_UtteranceFillsForm(t *testing.T) {
	t.Parallel()

	a := &mockAPI{LanguagesFunc: testLanguages}
	view := &fakeView{}
	o := New(Deps{
		API:             a,
		Player:          &mockPlayer{},
		Speech:          &mockCapability{ListenFunc: func(context.Context) (string, error) { return "bonjour", nil }},
		View:            view,
		DefaultLanguage: domain.DefaultLanguage,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	o.ToggleMic(context.Background())
	o.Wait()

	assert.Equal(t, "bonjour", o.Form().Word)
	assert.Equal(t, []bool{true, false}, view.recording)
}

func TestCopy(t *testing.T) {
	t.Parallel()

	var copied string
	a := &mockAPI{SearchFunc: func(_ context.Context, _, lang string) (*domain.SearchResult, error) {
		return helloResult(lang), nil
	}}
	view := &fakeView{}
	a.LanguagesFunc = testLanguages
	o := New(Deps{
		API:             a,
		Player:          &mockPlayer{},
		Clipboard:       func(s string) error { copied = s; return nil },
		View:            view,
		DefaultLanguage: domain.DefaultLanguage,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := o.Copy()
	assert.Error(t, err)

	o.Submit(context.Background(), "hello")
	text, err := o.Copy()
	require.NoError(t, err)
	assert.Equal(t, "hello → hola", text)
	assert.Equal(t, text, copied)
}

func TestGo_RunsHandlersAsync(t *testing.T) {
	t.Parallel()

	a := &mockAPI{SearchFunc: func(_ context.Context, word, lang string) (*domain.SearchResult, error) {
		return &domain.SearchResult{Word: word, TargetLanguage: lang}, nil
	}}
	o, view := newTestOrchestrator(t, a, nil)

	o.Go(context.Background(), func(ctx context.Context) { o.Submit(ctx, "cat") })
	o.Wait()

	assert.Len(t, view.results, 1)
}
