// Package history records and lists past lookups.
package history

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/wordlookup/internal/config"
	"github.com/heartmarshall/wordlookup/internal/domain"
)

type historyRepo interface {
	Insert(ctx context.Context, e domain.HistoryEntry) error
	ListRecent(ctx context.Context, limit int) ([]domain.HistoryEntry, error)
	DeleteAll(ctx context.Context) (int64, error)
	Prune(ctx context.Context, keep int) (int64, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service implements the search history operations.
type Service struct {
	log    *slog.Logger
	repo   historyRepo
	tx     txManager
	limit  int
	retain int
	now    func() time.Time
}

// NewService creates a new history service.
func NewService(logger *slog.Logger, repo historyRepo, tx txManager, cfg config.HistoryConfig) *Service {
	return &Service{
		log:    logger.With("service", "history"),
		repo:   repo,
		tx:     tx,
		limit:  cfg.Limit,
		retain: cfg.Retain,
		now:    time.Now,
	}
}

// List returns the most recent entries, newest first.
func (s *Service) List(ctx context.Context) ([]domain.HistoryEntry, error) {
	entries, err := s.repo.ListRecent(ctx, s.limit)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return entries, nil
}

// Clear deletes all entries and returns how many were removed.
func (s *Service) Clear(ctx context.Context) (int64, error) {
	n, err := s.repo.DeleteAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("clear history: %w", err)
	}
	s.log.InfoContext(ctx, "history cleared", slog.Int64("deleted", n))
	return n, nil
}

// Record stores a lookup and drops entries beyond the retention bound in the
// same transaction.
func (s *Service) Record(ctx context.Context, word, targetLang string) error {
	word = strings.TrimSpace(word)
	if word == "" {
		return domain.NewValidationError("word", "required")
	}

	entry := domain.HistoryEntry{
		ID:             uuid.New(),
		Word:           word,
		TargetLanguage: targetLang,
		Timestamp:      s.now().UTC(),
	}

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Insert(txCtx, entry); err != nil {
			return err
		}
		if s.retain <= 0 {
			return nil
		}
		pruned, err := s.repo.Prune(txCtx, s.retain)
		if err != nil {
			return err
		}
		if pruned > 0 {
			s.log.DebugContext(ctx, "history pruned", slog.Int64("deleted", pruned))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("record history: %w", err)
	}
	return nil
}
