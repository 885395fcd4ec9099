package repositories

import (
	"context"
	"database/sql"
	"errors"

	"minipay/internal/models"
)

// ErrNotFound is returned when a requested row does not exist. It is not a
// failure at this layer; callers decide how to surface it.
var ErrNotFound = errors.New("record not found")

// AccountRepository is the store for account rows (the balance side of the
// users table). All writes happen through it, and only inside a transaction
// opened with WithinTransaction.
type AccountRepository interface {
	// FindByLogin returns the account for a login. With lock set, the read
	// is issued as SELECT ... FOR UPDATE and the row stays locked until the
	// surrounding transaction commits or rolls back.
	FindByLogin(ctx context.Context, login string, lock bool) (*models.User, error)

	// SaveAll persists the given accounts as part of the caller's transaction.
	SaveAll(ctx context.Context, accounts ...*models.User) error

	// ResetAllBalances zeroes every balance in a single UPDATE statement
	// executed under the caller's transaction.
	ResetAllBalances(ctx context.Context) error

	// WithinTransaction runs fn inside a database transaction with the given
	// options. The transaction handle travels in the context passed to fn,
	// so repository calls made from fn join the same transaction. The
	// transaction commits when fn returns nil and rolls back otherwise.
	WithinTransaction(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error) error
}
