package history

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v2"

	"github.com/heartmarshall/wordlookup/internal/domain"
)

func newMockRepo(t *testing.T) (*Repo, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Error(err)
		}
		mock.Close()
	})
	return New(mock), mock
}

func TestRepo_Insert(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepo(t)
	e := domain.HistoryEntry{
		ID:             uuid.New(),
		Word:           "hello",
		TargetLanguage: "es",
		Timestamp:      time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}

	mock.ExpectExec(`INSERT INTO search_history`).
		WithArgs(e.ID, e.Word, e.TargetLanguage, e.Timestamp).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	if err := repo.Insert(context.Background(), e); err != nil {
		t.Fatalf("Insert: %v", err)
	}
}

func TestRepo_Insert_CheckViolation(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepo(t)
	mock.ExpectExec(`INSERT INTO search_history`).
		WithArgs(pgxmock.AnyArg(), "", "en", pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23514", ConstraintName: "search_history_word_check"})

	err := repo.Insert(context.Background(), domain.HistoryEntry{ID: uuid.New(), TargetLanguage: "en", Timestamp: time.Now()})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestRepo_ListRecent(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepo(t)
	id1, id2 := uuid.New(), uuid.New()
	t1 := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	t0 := t1.Add(-time.Minute)

	rows := pgxmock.NewRows([]string{"id", "word", "target_language", "created_at"}).
		AddRow(id1, "hola", "en", t1).
		AddRow(id2, "hello", "es", t0)
	mock.ExpectQuery(`SELECT id, word, target_language, created_at FROM search_history ORDER BY created_at DESC, id DESC LIMIT 20`).
		WillReturnRows(rows)

	got, err := repo.ListRecent(context.Background(), 20)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].ID != id1 || got[0].Word != "hola" || !got[0].Timestamp.Equal(t1) {
		t.Errorf("got[0] = %+v", got[0])
	}
	if got[1].TargetLanguage != "es" {
		t.Errorf("got[1].TargetLanguage = %q, want es", got[1].TargetLanguage)
	}
}

func TestRepo_ListRecent_Empty(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepo(t)
	mock.ExpectQuery(`SELECT .* FROM search_history`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "word", "target_language", "created_at"}))

	got, err := repo.ListRecent(context.Background(), 5)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("got %v, want empty non-nil slice", got)
	}
}

func TestRepo_ListRecent_QueryError(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepo(t)
	mock.ExpectQuery(`SELECT .* FROM search_history`).WillReturnError(context.DeadlineExceeded)

	_, err := repo.ListRecent(context.Background(), 5)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want DeadlineExceeded", err)
	}
}

func TestRepo_DeleteAll(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepo(t)
	mock.ExpectExec(`DELETE FROM search_history`).WillReturnResult(pgxmock.NewResult("DELETE", 3))

	n, err := repo.DeleteAll(context.Background())
	if err != nil {
		t.Fatalf("DeleteAll: %v", err)
	}
	if n != 3 {
		t.Errorf("deleted = %d, want 3", n)
	}
}

func TestRepo_Prune(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepo(t)
	mock.ExpectExec(`DELETE FROM search_history WHERE id NOT IN \(SELECT id FROM search_history ORDER BY created_at DESC, id DESC LIMIT \$1\)`).
		WithArgs(500).
		WillReturnResult(pgxmock.NewResult("DELETE", 2))

	n, err := repo.Prune(context.Background(), 500)
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if n != 2 {
		t.Errorf("pruned = %d, want 2", n)
	}
}
