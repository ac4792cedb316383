package catalog

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/heartmarshall/wordlookup/internal/domain"
)

type mockSource struct {
	LanguagesFunc func(ctx context.Context) ([]domain.Language, error)
}

func (m *mockSource) Languages(ctx context.Context) ([]domain.Language, error) {
	return m.LanguagesFunc(ctx)
}

func newTestCatalog(src *mockSource) *Catalog {
	return New(src, domain.DefaultLanguage, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestCatalog_Unloaded(t *testing.T) {
	t.Parallel()

	c := newTestCatalog(&mockSource{})

	if c.Loaded() {
		t.Error("new catalog should not be loaded")
	}
	if opts := c.Options(); len(opts) != 1 || opts[0] != domain.DefaultLanguage {
		t.Errorf("Options() = %v, want only the default", opts)
	}
	if _, ok := c.Name("es"); ok {
		t.Error("unloaded catalog should know no names")
	}
	if got := c.DisplayName("es"); got != "es" {
		t.Errorf("DisplayName(es) = %q, want raw code", got)
	}
}

func TestCatalog_Load(t *testing.T) {
	t.Parallel()

	c := newTestCatalog(&mockSource{LanguagesFunc: func(context.Context) ([]domain.Language, error) {
		return []domain.Language{{"es", "Spanish"}, {"en", "English"}, {"zh-cn", "Chinese (Simplified)"}}, nil
	}})

	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !c.Loaded() {
		t.Error("catalog should be loaded")
	}

	want := []string{"en", "es", "zh-cn"}
	opts := c.Options()
	if len(opts) != len(want) {
		t.Fatalf("Options() = %v, want codes %v", opts, want)
	}
	for i, code := range want {
		if opts[i].Code != code {
			t.Errorf("Options()[%d] = %q, want %q", i, opts[i].Code, code)
		}
	}
	if got := c.DisplayName("zh-cn"); got != "Chinese (Simplified)" {
		t.Errorf("DisplayName(zh-cn) = %q", got)
	}
	if !c.Has("es") || c.Has("xx") {
		t.Error("Has should reflect the loaded options")
	}
}

func TestCatalog_LoadFailureKeepsState(t *testing.T) {
	t.Parallel()

	calls := 0
	src := &mockSource{LanguagesFunc: func(context.Context) ([]domain.Language, error) {
		calls++
		if calls == 1 {
			return []domain.Language{{"fr", "French"}}, nil
		}
		return nil, errors.New("connection refused")
	}}
	c := newTestCatalog(src)

	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("first Load: %v", err)
	}
	if err := c.Load(context.Background()); err == nil {
		t.Fatal("second Load should fail")
	}

	if !c.Loaded() || len(c.Options()) != 2 || c.DisplayName("fr") != "French" {
		t.Errorf("failed reload changed state: options=%v", c.Options())
	}
}
