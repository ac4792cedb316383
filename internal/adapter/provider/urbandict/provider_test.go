package urbandict

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestProvider_FetchSlang_SortsAndCleans(t *testing.T) {
	t.Parallel()

	var gotTerm string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotTerm = r.URL.Query().Get("term")
		w.Write([]byte(`{"list":[
			{"definition":"a [cool] thing","example":"that is [yeet]","thumbs_up":3},
			{"definition":"   ","example":"","thumbs_up":100},
			{"definition":"the best\nthing","example":"","thumbs_up":42}
		]}`))
	}))
	defer srv.Close()

	p := NewProvider(srv.URL, time.Second, newTestLogger())
	got, err := p.FetchSlang(context.Background(), "yeet it")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotTerm != "yeet it" {
		t.Errorf("term = %q, want %q", gotTerm, "yeet it")
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2 (blank definition dropped)", len(got))
	}
	if got[0].Definition != "the best thing" || got[0].ThumbsUp != 42 {
		t.Errorf("got[0] = %+v", got[0])
	}
	if got[1].Definition != "a cool thing" || got[1].Example != "that is yeet" {
		t.Errorf("got[1] = %+v", got[1])
	}
}

func TestProvider_FetchSlang_EmptyList(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"list":[]}`))
	}))
	defer srv.Close()

	got, err := NewProvider(srv.URL, time.Second, newTestLogger()).FetchSlang(context.Background(), "zzz")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no results, got %v", got)
	}
}

func TestProvider_FetchSlang_BadStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	if _, err := NewProvider(srv.URL, time.Second, newTestLogger()).FetchSlang(context.Background(), "x"); err == nil {
		t.Fatal("expected error for 500")
	}
}
