package transfer

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"

	domainerr "minipay/internal/errors"
	"minipay/internal/models"
	"minipay/internal/repositories"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAccountStore is an in-memory AccountRepository. It records lookup
// order so tests can pin the lock acquisition protocol.
type fakeAccountStore struct {
	mu       sync.Mutex
	accounts map[string]*models.User
	lookups  []string
	saveErr  error
}

func newFakeStore(balances map[string]string) *fakeAccountStore {
	f := &fakeAccountStore{accounts: make(map[string]*models.User)}
	id := uint(1)
	for login, balance := range balances {
		f.accounts[login] = &models.User{
			Login:   login,
			Balance: decimal.RequireFromString(balance),
		}
		f.accounts[login].ID = id
		id++
	}
	return f
}

func (f *fakeAccountStore) FindByLogin(_ context.Context, login string, _ bool) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups = append(f.lookups, login)
	acc, ok := f.accounts[login]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *acc
	return &cp, nil
}

func (f *fakeAccountStore) SaveAll(_ context.Context, accounts ...*models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	for _, acc := range accounts {
		cp := *acc
		f.accounts[acc.Login] = &cp
	}
	return nil
}

func (f *fakeAccountStore) ResetAllBalances(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, acc := range f.accounts {
		acc.Balance = decimal.Zero
	}
	return nil
}

func (f *fakeAccountStore) WithinTransaction(ctx context.Context, _ *sql.TxOptions, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (f *fakeAccountStore) balance(t *testing.T, login string) decimal.Decimal {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	acc, ok := f.accounts[login]
	require.True(t, ok, "account %s missing", login)
	return acc.Balance
}

func (f *fakeAccountStore) lookupOrder() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.lookups...)
}

func TestTransfer_Success(t *testing.T) {
	store := newFakeStore(map[string]string{
		"alice": "100.00",
		"bob":   "50.00",
	})
	svc := NewService(store)

	res, err := svc.Transfer(context.Background(), "alice", "bob", decimal.RequireFromString("33.33"))
	require.NoError(t, err)

	// Two-decimal rounding pinned exactly
	assert.Equal(t, "66.67", res.FromUser.Balance.StringFixed(2))
	assert.Equal(t, "83.33", res.ToUser.Balance.StringFixed(2))
	assert.Equal(t, "33.33", res.TransferredAmount.StringFixed(2))

	// Persisted state matches the returned snapshot
	assert.True(t, store.balance(t, "alice").Equal(res.FromUser.Balance))
	assert.True(t, store.balance(t, "bob").Equal(res.ToUser.Balance))
}

func TestTransfer_Conservation(t *testing.T) {
	store := newFakeStore(map[string]string{
		"alice": "120.50",
		"bob":   "9.99",
	})
	before := store.balance(t, "alice").Add(store.balance(t, "bob"))

	svc := NewService(store)
	_, err := svc.Transfer(context.Background(), "alice", "bob", decimal.RequireFromString("17.25"))
	require.NoError(t, err)

	after := store.balance(t, "alice").Add(store.balance(t, "bob"))
	assert.True(t, before.Equal(after), "total balance changed: %s -> %s", before, after)
}

func TestTransfer_SelfTransferNeverTouchesStorage(t *testing.T) {
	store := newFakeStore(map[string]string{"alice": "100.00"})
	svc := NewService(store)

	_, err := svc.Transfer(context.Background(), "alice", "alice", decimal.RequireFromString("10.00"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerr.ErrSelfTransfer)
	assert.Empty(t, store.lookupOrder(), "self-transfer must not reach storage")
}

func TestTransfer_InvalidAmounts(t *testing.T) {
	tests := []struct {
		name   string
		amount string
	}{
		{"zero", "0"},
		{"negative", "-5.00"},
		{"below minimum", "0.001"},
		{"three decimal places", "10.005"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore(map[string]string{
				"alice": "100.00",
				"bob":   "50.00",
			})
			svc := NewService(store)

			_, err := svc.Transfer(context.Background(), "alice", "bob", decimal.RequireFromString(tt.amount))
			require.Error(t, err)
			assert.ErrorIs(t, err, domainerr.ErrInvalidAmount)
			assert.Empty(t, store.lookupOrder())
		})
	}
}

func TestTransfer_InsufficientFundsBlocksMutation(t *testing.T) {
	store := newFakeStore(map[string]string{
		"alice": "10.00",
		"bob":   "50.00",
	})
	svc := NewService(store)

	_, err := svc.Transfer(context.Background(), "alice", "bob", decimal.RequireFromString("10.01"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerr.ErrInsufficientFunds)
	assert.Contains(t, err.Error(), "available 10.00")
	assert.Contains(t, err.Error(), "required 10.01")

	// Neither stored balance changed
	assert.Equal(t, "10.00", store.balance(t, "alice").StringFixed(2))
	assert.Equal(t, "50.00", store.balance(t, "bob").StringFixed(2))
}

func TestTransfer_LockOrderIsLexicographic(t *testing.T) {
	// The lookup order must be apple then zebra regardless of direction.
	t.Run("zebra pays apple", func(t *testing.T) {
		store := newFakeStore(map[string]string{
			"apple": "100.00",
			"zebra": "100.00",
		})
		svc := NewService(store)

		_, err := svc.Transfer(context.Background(), "zebra", "apple", decimal.RequireFromString("10.00"))
		require.NoError(t, err)
		assert.Equal(t, []string{"apple", "zebra"}, store.lookupOrder())
	})

	t.Run("apple pays zebra", func(t *testing.T) {
		store := newFakeStore(map[string]string{
			"apple": "100.00",
			"zebra": "100.00",
		})
		svc := NewService(store)

		_, err := svc.Transfer(context.Background(), "apple", "zebra", decimal.RequireFromString("10.00"))
		require.NoError(t, err)
		assert.Equal(t, []string{"apple", "zebra"}, store.lookupOrder())
	})
}

func TestTransfer_MissingAccounts(t *testing.T) {
	tests := []struct {
		name    string
		from    string
		to      string
		missing string
	}{
		{"missing sender", "ghost", "bob", "ghost"},
		{"missing receiver", "alice", "ghost", "ghost"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore(map[string]string{
				"alice": "100.00",
				"bob":   "50.00",
			})
			svc := NewService(store)

			_, err := svc.Transfer(context.Background(), tt.from, tt.to, decimal.RequireFromString("10.00"))
			require.Error(t, err)
			assert.ErrorIs(t, err, domainerr.ErrAccountNotFound)
			assert.Contains(t, err.Error(), tt.missing)

			// Both lookups ran before the existence check failed
			assert.Len(t, store.lookupOrder(), 2)
		})
	}
}

func TestTransfer_ConcurrentDisjointPairs(t *testing.T) {
	store := newFakeStore(map[string]string{
		"a1": "100.00",
		"a2": "100.00",
		"b1": "100.00",
		"b2": "100.00",
	})
	svc := NewService(store)

	var wg sync.WaitGroup
	errs := make([]error, 2)

	wg.Add(2)
	go func() {
		defer wg.Done()
		_, errs[0] = svc.Transfer(context.Background(), "a1", "a2", decimal.RequireFromString("30.00"))
	}()
	go func() {
		defer wg.Done()
		_, errs[1] = svc.Transfer(context.Background(), "b1", "b2", decimal.RequireFromString("45.50"))
	}()
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])

	assert.Equal(t, "70.00", store.balance(t, "a1").StringFixed(2))
	assert.Equal(t, "130.00", store.balance(t, "a2").StringFixed(2))
	assert.Equal(t, "54.50", store.balance(t, "b1").StringFixed(2))
	assert.Equal(t, "145.50", store.balance(t, "b2").StringFixed(2))
}

func TestTransfer_StorageErrorPropagatesUnchanged(t *testing.T) {
	store := newFakeStore(map[string]string{
		"alice": "100.00",
		"bob":   "50.00",
	})
	boom := errors.New("connection reset")
	store.saveErr = boom

	svc := NewService(store)
	_, err := svc.Transfer(context.Background(), "alice", "bob", decimal.RequireFromString("10.00"))
	assert.ErrorIs(t, err, boom)
}
