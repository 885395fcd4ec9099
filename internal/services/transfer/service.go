// Package transfer implements the atomic move of funds between two accounts.
package transfer

import (
	"context"
	"database/sql"
	"errors"

	domainerr "minipay/internal/errors"
	"minipay/internal/models"
	"minipay/internal/repositories"

	"github.com/shopspring/decimal"
)

// Service moves funds between accounts.
type Service interface {
	Transfer(ctx context.Context, fromLogin, toLogin string, amount decimal.Decimal) (*Result, error)
}

type service struct {
	accounts repositories.AccountRepository
}

// NewService creates a new transfer service.
func NewService(accounts repositories.AccountRepository) Service {
	if accounts == nil {
		panic("account repository is required")
	}
	return &service{accounts: accounts}
}

var minAmount = decimal.New(1, -2) // 0.01

// Repeatable read keeps the funds check in step 4 valid through the
// mutation: no concurrent commit to either row becomes visible mid-transfer.
var txOptions = &sql.TxOptions{Isolation: sql.LevelRepeatableRead}

// Transfer moves amount from fromLogin to toLogin inside one repeatable-read
// transaction. Either both balances change and the rows are persisted, or
// the transaction rolls back with no partial effect. The service never
// retries; serialization and deadlock errors surface to the caller, which
// may retry with backoff (see errors.IsTransient).
func (s *service) Transfer(ctx context.Context, fromLogin, toLogin string, amount decimal.Decimal) (*Result, error) {
	if fromLogin == toLogin {
		return nil, domainerr.ErrSelfTransfer
	}
	if err := validateAmount(amount); err != nil {
		return nil, err
	}

	var result *Result
	err := s.accounts.WithinTransaction(ctx, txOptions, func(ctx context.Context) error {
		// Lock rows in lexicographic login order regardless of direction, so
		// concurrent transfers over overlapping pairs always wait in the same
		// global order and no cycle of lock waits can form.
		first, second := fromLogin, toLogin
		if second < first {
			first, second = second, first
		}

		firstAcc, err := s.lockedLookup(ctx, first)
		if err != nil {
			return err
		}
		secondAcc, err := s.lockedLookup(ctx, second)
		if err != nil {
			return err
		}

		sender, receiver := firstAcc, secondAcc
		if first != fromLogin {
			sender, receiver = secondAcc, firstAcc
		}

		// Existence check only after both locked reads completed.
		if sender == nil {
			return domainerr.NewAccountNotFound(fromLogin)
		}
		if receiver == nil {
			return domainerr.NewAccountNotFound(toLogin)
		}

		if sender.Balance.LessThan(amount) {
			return domainerr.NewInsufficientFunds(sender.Balance, amount)
		}

		// Round half-up to 2 decimal places after each mutation.
		sender.Balance = sender.Balance.Sub(amount).Round(2)
		receiver.Balance = receiver.Balance.Add(amount).Round(2)

		if err := s.accounts.SaveAll(ctx, sender, receiver); err != nil {
			return err
		}

		result = &Result{
			FromUser:          sender,
			ToUser:            receiver,
			TransferredAmount: amount,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// lockedLookup acquires a locking read for the login. A missing row is
// reported as nil, not an error, so both lookups always run before the
// existence check and the rollback path releases every lock taken so far.
func (s *service) lockedLookup(ctx context.Context, login string) (*models.User, error) {
	acc, err := s.accounts.FindByLogin(ctx, login, true)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return acc, nil
}

func validateAmount(amount decimal.Decimal) error {
	if amount.LessThan(minAmount) {
		return domainerr.ErrInvalidAmount
	}
	if !amount.Equal(amount.Round(2)) {
		return domainerr.ErrInvalidAmount
	}
	return nil
}
