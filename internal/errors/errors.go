// Package errors defines the domain error values shared across services.
// Handlers translate error codes into HTTP statuses; nothing below the
// handler layer knows about HTTP.
package errors

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// DomainError is a business error with a stable machine-readable code.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string { return e.Message }

// Is matches two domain errors by code, so parameterized errors built by
// constructors compare equal to their sentinel.
func (e *DomainError) Is(target error) bool {
	var de *DomainError
	if errors.As(target, &de) {
		return e.Code == de.Code
	}
	return false
}

// CodeOf returns the domain error code, or empty string for non-domain errors.
func CodeOf(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// Postgres error codes that indicate the statement lost a race rather than
// hit a business rule. Safe to retry with backoff.
const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgLockNotAvailable     = "55P03"
)

// IsTransient reports whether err is a storage-level conflict (deadlock,
// serialization failure, lock timeout) that a caller may retry.
func IsTransient(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case pgSerializationFailure, pgDeadlockDetected, pgLockNotAvailable:
		return true
	}
	return false
}
