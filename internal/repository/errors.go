package repository

import (
	"errors"
	"fmt"
	"strings"

	"blogapi/internal/observability"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Store error kinds. Every error returned by a repository wraps exactly one
// of these; the driver error stays in the chain.
var (
	ErrNotFound  = errors.New("record not found")
	ErrIntegrity = errors.New("integrity constraint violated")
	ErrStorage   = errors.New("storage failure")
)

// IsIntegrityError reports whether err is a data constraint violation.
func IsIntegrityError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) ||
		errors.Is(err, gorm.ErrDuplicatedKey) ||
		errors.Is(err, gorm.ErrCheckConstraintViolated) ||
		errors.Is(err, gorm.ErrInvalidValue) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// SQLSTATE class 23: integrity constraint violation.
		return strings.HasPrefix(pgErr.Code, "23")
	}
	return strings.Contains(strings.ToLower(err.Error()), "constraint failed")
}

// classify tags err with its store error kind and counts it.
func classify(operation string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrIntegrity), errors.Is(err, ErrStorage):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case IsIntegrityError(err):
		observability.StoreErrors.WithLabelValues(operation, "integrity").Inc()
		return fmt.Errorf("%w: %w", ErrIntegrity, err)
	default:
		observability.StoreErrors.WithLabelValues(operation, "storage").Inc()
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}
}
