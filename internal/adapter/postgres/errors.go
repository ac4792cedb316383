package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/heartmarshall/wordlookup/internal/domain"
)

// MapError converts pgx/pgconn errors to domain errors, prefixed with op.
// context.DeadlineExceeded and context.Canceled pass through unmapped.
func MapError(err error, op string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w", op, err)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505", // unique_violation
			"23502", // not_null_violation
			"23514": // check_violation
			return fmt.Errorf("%s: %s: %w", op, pgErr.ConstraintName, domain.ErrValidation)
		}
	}

	return fmt.Errorf("%s: %w", op, err)
}
