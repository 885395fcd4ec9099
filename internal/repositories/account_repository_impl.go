package repositories

import (
	"context"
	"database/sql"
	"errors"

	"minipay/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type txKey struct{}

func withTx(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

type accountRepository struct {
	base *gorm.DB
}

// NewAccountRepository creates an AccountRepository backed by GORM.
func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{base: db}
}

// db returns the transaction bound to ctx, or the base handle when called
// outside a transaction.
func (r *accountRepository) db(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return r.base
}

func (r *accountRepository) FindByLogin(ctx context.Context, login string, lock bool) (*models.User, error) {
	q := r.db(ctx).WithContext(ctx)
	if lock {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var user models.User
	if err := q.Where("login = ?", login).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *accountRepository) SaveAll(ctx context.Context, accounts ...*models.User) error {
	db := r.db(ctx).WithContext(ctx)
	for _, account := range accounts {
		if err := db.Save(account).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *accountRepository) ResetAllBalances(ctx context.Context) error {
	return r.db(ctx).WithContext(ctx).
		Model(&models.User{}).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Update("balance", decimal.Zero).Error
}

func (r *accountRepository) WithinTransaction(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error) error {
	run := func(tx *gorm.DB) error {
		return fn(withTx(ctx, tx))
	}
	if opts != nil {
		return r.base.WithContext(ctx).Transaction(run, opts)
	}
	return r.base.WithContext(ctx).Transaction(run)
}
