// Package history persists the search history in PostgreSQL.
package history

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/heartmarshall/wordlookup/internal/adapter/postgres"
	"github.com/heartmarshall/wordlookup/internal/domain"
)

const table = "search_history"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Repo provides history persistence. Inside TxManager.RunInTx it uses the
// context transaction.
type Repo struct {
	db postgres.Querier
}

// New creates a new history repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// Insert stores one entry.
func (r *Repo) Insert(ctx context.Context, e domain.HistoryEntry) error {
	query, args, err := psql.Insert(table).
		Columns("id", "word", "target_language", "created_at").
		Values(e.ID, e.Word, e.TargetLanguage, e.Timestamp).
		ToSql()
	if err != nil {
		return fmt.Errorf("history: build insert: %w", err)
	}

	if _, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, query, args...); err != nil {
		return postgres.MapError(err, "history: insert")
	}
	return nil
}

// ListRecent returns up to limit entries, newest first. It returns an empty
// slice (not nil) when there is no history.
func (r *Repo) ListRecent(ctx context.Context, limit int) ([]domain.HistoryEntry, error) {
	query, args, err := psql.Select("id", "word", "target_language", "created_at").
		From(table).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("history: build list: %w", err)
	}

	entries := []domain.HistoryEntry{}
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &entries, query, args...); err != nil {
		return nil, postgres.MapError(err, "history: list")
	}
	return entries, nil
}

// DeleteAll removes every entry and reports how many were removed.
func (r *Repo) DeleteAll(ctx context.Context) (int64, error) {
	query, args, err := psql.Delete(table).ToSql()
	if err != nil {
		return 0, fmt.Errorf("history: build clear: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, query, args...)
	if err != nil {
		return 0, postgres.MapError(err, "history: clear")
	}
	return tag.RowsAffected(), nil
}

// Prune deletes everything but the newest keep entries.
func (r *Repo) Prune(ctx context.Context, keep int) (int64, error) {
	query, args, err := psql.Delete(table).
		Where(sq.Expr("id NOT IN (SELECT id FROM "+table+" ORDER BY created_at DESC, id DESC LIMIT ?)", keep)).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("history: build prune: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, query, args...)
	if err != nil {
		return 0, postgres.MapError(err, "history: prune")
	}
	return tag.RowsAffected(), nil
}
