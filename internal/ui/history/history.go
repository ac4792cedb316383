// Package history keeps the client's search history list in sync with the
// server.
package history

import (
	"context"
	"log/slog"

	"github.com/heartmarshall/wordlookup/internal/domain"
)

// EmptyLabel is the text of the placeholder row shown for an empty history.
const EmptyLabel = "No search history"

// DefaultTimeLayout formats row timestamps.
const DefaultTimeLayout = "15:04:05"

// Row is one line of the history list.
type Row struct {
	Placeholder bool
	Label       string
	Time        string
	Entry       domain.HistoryEntry
}

// View displays history rows.
type View interface {
	ShowHistory(rows []Row)
}

type historySource interface {
	History(ctx context.Context) ([]domain.HistoryEntry, error)
	ClearHistory(ctx context.Context) error
}

// Log mirrors the server-side history into a View.
type Log struct {
	src    historySource
	view   View
	layout string
	log    *slog.Logger
}

// New creates a Log. An empty layout means DefaultTimeLayout.
func New(src historySource, view View, layout string, logger *slog.Logger) *Log {
	if layout == "" {
		layout = DefaultTimeLayout
	}
	return &Log{
		src:    src,
		view:   view,
		layout: layout,
		log:    logger.With("component", "history"),
	}
}

// Refresh fetches the history and replaces the view's rows. On failure the
// view is left untouched.
func (l *Log) Refresh(ctx context.Context) error {
	entries, err := l.src.History(ctx)
	if err != nil {
		l.log.WarnContext(ctx, "load history failed", slog.String("error", err.Error()))
		return err
	}
	l.view.ShowHistory(l.Rows(entries))
	return nil
}

// Clear deletes the server-side history, then refreshes regardless of the
// outcome. The clear error, if any, is returned.
func (l *Log) Clear(ctx context.Context) error {
	err := l.src.ClearHistory(ctx)
	if err != nil {
		l.log.WarnContext(ctx, "clear history failed", slog.String("error", err.Error()))
	}
	_ = l.Refresh(ctx)
	return err
}

// Rows converts entries to display rows.
func (l *Log) Rows(entries []domain.HistoryEntry) []Row {
	if len(entries) == 0 {
		return []Row{{Placeholder: true, Label: EmptyLabel}}
	}
	rows := make([]Row, len(entries))
	for i, e := range entries {
		rows[i] = Row{
			Label: e.Word,
			Time:  e.Timestamp.Local().Format(l.layout),
			Entry: e,
		}
	}
	return rows
}
