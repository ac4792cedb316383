package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/wordlookup/internal/domain"
)

// SeedHistory inserts one history row per word with timestamps one second
// apart, oldest first, and returns them in insertion order.
func SeedHistory(t *testing.T, pool *pgxpool.Pool, lang string, words ...string) []domain.HistoryEntry {
	t.Helper()

	base := time.Now().UTC().Truncate(time.Microsecond).Add(-time.Duration(len(words)) * time.Second)
	entries := make([]domain.HistoryEntry, 0, len(words))
	for i, w := range words {
		e := domain.HistoryEntry{
			ID:             uuid.New(),
			Word:           w,
			TargetLanguage: lang,
			Timestamp:      base.Add(time.Duration(i) * time.Second),
		}
		_, err := pool.Exec(context.Background(),
			`INSERT INTO search_history (id, word, target_language, created_at) VALUES ($1, $2, $3, $4)`,
			e.ID, e.Word, e.TargetLanguage, e.Timestamp,
		)
		if err != nil {
			t.Fatalf("SeedHistory: %v", err)
		}
		entries = append(entries, e)
	}
	return entries
}

// TruncateHistory empties the history table.
func TruncateHistory(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	if _, err := pool.Exec(context.Background(), `TRUNCATE search_history`); err != nil {
		t.Fatalf("TruncateHistory: %v", err)
	}
}
