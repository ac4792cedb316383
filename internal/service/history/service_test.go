package history

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/wordlookup/internal/config"
	"github.com/heartmarshall/wordlookup/internal/domain"
)

// ---------------------------------------------------------------------------
// Manual mocks (moq-style with func fields)
// ---------------------------------------------------------------------------

type mockHistoryRepo struct {
	InsertFunc     func(ctx context.Context, e domain.HistoryEntry) error
	ListRecentFunc func(ctx context.Context, limit int) ([]domain.HistoryEntry, error)
	DeleteAllFunc  func(ctx context.Context) (int64, error)
	PruneFunc      func(ctx context.Context, keep int) (int64, error)
}

func (m *mockHistoryRepo) Insert(ctx context.Context, e domain.HistoryEntry) error {
	return m.InsertFunc(ctx, e)
}

func (m *mockHistoryRepo) ListRecent(ctx context.Context, limit int) ([]domain.HistoryEntry, error) {
	return m.ListRecentFunc(ctx, limit)
}

func (m *mockHistoryRepo) DeleteAll(ctx context.Context) (int64, error) {
	return m.DeleteAllFunc(ctx)
}

func (m *mockHistoryRepo) Prune(ctx context.Context, keep int) (int64, error) {
	return m.PruneFunc(ctx, keep)
}

type mockTxManager struct {
	RunInTxFunc func(ctx context.Context, fn func(ctx context.Context) error) error
}

func (m *mockTxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.RunInTxFunc != nil {
		return m.RunInTxFunc(ctx, fn)
	}
	return fn(ctx)
}

func newTestService(repo *mockHistoryRepo) *Service {
	return NewService(slog.Default(), repo, &mockTxManager{}, config.HistoryConfig{Limit: 20, Retain: 100})
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestService_List_UsesConfiguredLimit(t *testing.T) {
	t.Parallel()

	var gotLimit int
	repo := &mockHistoryRepo{
		ListRecentFunc: func(_ context.Context, limit int) ([]domain.HistoryEntry, error) {
			gotLimit = limit
			return []domain.HistoryEntry{{Word: "hola"}}, nil
		},
	}

	got, err := newTestService(repo).List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 20, gotLimit)
	assert.Len(t, got, 1)
}

func TestService_List_Error(t *testing.T) {
	t.Parallel()

	repoErr := errors.New("db down")
	repo := &mockHistoryRepo{
		ListRecentFunc: func(context.Context, int) ([]domain.HistoryEntry, error) { return nil, repoErr },
	}

	_, err := newTestService(repo).List(context.Background())
	assert.ErrorIs(t, err, repoErr)
}

func TestService_Clear(t *testing.T) {
	t.Parallel()

	repo := &mockHistoryRepo{
		DeleteAllFunc: func(context.Context) (int64, error) { return 4, nil },
	}

	n, err := newTestService(repo).Clear(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
}

func TestService_Record_InsertsAndPrunes(t *testing.T) {
	t.Parallel()

	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.FixedZone("X", 3600))
	var inserted domain.HistoryEntry
	var keep int
	repo := &mockHistoryRepo{
		InsertFunc: func(_ context.Context, e domain.HistoryEntry) error {
			inserted = e
			return nil
		},
		PruneFunc: func(_ context.Context, k int) (int64, error) {
			keep = k
			return 1, nil
		},
	}
	svc := newTestService(repo)
	svc.now = func() time.Time { return fixed }

	require.NoError(t, svc.Record(context.Background(), "  hello ", "es"))
	assert.Equal(t, "hello", inserted.Word)
	assert.Equal(t, "es", inserted.TargetLanguage)
	assert.Equal(t, time.UTC, inserted.Timestamp.Location())
	assert.True(t, inserted.Timestamp.Equal(fixed))
	assert.NotEqual(t, uuid.Nil, inserted.ID)
	assert.Equal(t, 100, keep)
}

func TestService_Record_EmptyWord(t *testing.T) {
	t.Parallel()

	err := newTestService(&mockHistoryRepo{}).Record(context.Background(), "   ", "en")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestService_Record_InsertFailureSkipsPrune(t *testing.T) {
	t.Parallel()

	pruneCalled := false
	repo := &mockHistoryRepo{
		InsertFunc: func(context.Context, domain.HistoryEntry) error { return errors.New("insert failed") },
		PruneFunc: func(context.Context, int) (int64, error) {
			pruneCalled = true
			return 0, nil
		},
	}

	err := newTestService(repo).Record(context.Background(), "hello", "en")
	assert.Error(t, err)
	assert.False(t, pruneCalled)
}

func TestService_Record_RunsInTransaction(t *testing.T) {
	t.Parallel()

	type key struct{}
	var insertSawTx bool
	repo := &mockHistoryRepo{
		InsertFunc: func(ctx context.Context, _ domain.HistoryEntry) error {
			insertSawTx = ctx.Value(key{}) != nil
			return nil
		},
		PruneFunc: func(context.Context, int) (int64, error) { return 0, nil },
	}
	tx := &mockTxManager{
		RunInTxFunc: func(ctx context.Context, fn func(context.Context) error) error {
			return fn(context.WithValue(ctx, key{}, true))
		},
	}
	svc := NewService(slog.Default(), repo, tx, config.HistoryConfig{Limit: 20, Retain: 100})

	require.NoError(t, svc.Record(context.Background(), "hello", "en"))
	assert.True(t, insertSawTx)
}
