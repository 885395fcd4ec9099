package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	domainerr "minipay/internal/errors"
	"minipay/internal/jobs"
	"minipay/internal/models"
	"minipay/internal/services/transfer"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockTransferService struct {
	mock.Mock
}

func (m *MockTransferService) Transfer(ctx context.Context, from, to string, amount decimal.Decimal) (*transfer.Result, error) {
	args := m.Called(ctx, from, to, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transfer.Result), args.Error(1)
}

type MockQueue struct {
	mock.Mock
}

func (m *MockQueue) Enqueue(ctx context.Context, jobName string, payload json.RawMessage) (string, error) {
	args := m.Called(ctx, jobName, payload)
	return args.String(0), args.Error(1)
}

func newTestApp(h *BalanceHandler, claims *models.UserClaims) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("claims", claims)
		return c.Next()
	})
	app.Post("/api/balance/transfer", h.Transfer)
	app.Post("/api/balance-reset", h.ResetBalances)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path, body string) (int, string) {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(raw)
}

func TestBalanceHandler_TransferSuccess(t *testing.T) {
	svc := new(MockTransferService)
	h := NewBalanceHandler(svc, new(MockQueue))
	app := newTestApp(h, &models.UserClaims{UserID: 1, Login: "alice"})

	result := &transfer.Result{
		FromUser:          &models.User{Login: "alice", Balance: decimal.RequireFromString("66.67")},
		ToUser:            &models.User{Login: "bob", Balance: decimal.RequireFromString("83.33")},
		TransferredAmount: decimal.RequireFromString("33.33"),
	}
	svc.On("Transfer", mock.Anything, "alice", "bob",
		mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(decimal.RequireFromString("33.33")) }),
	).Return(result, nil)

	status, body := postJSON(t, app, "/api/balance/transfer", `{"from":"alice","to":"bob","amount":33.33}`)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, `"fromUser"`)
	assert.Contains(t, body, `"toUser"`)
	assert.Contains(t, body, `"transferredAmount"`)
	svc.AssertExpectations(t)
}

func TestBalanceHandler_TransferErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"insufficient funds", domainerr.NewInsufficientFunds(decimal.RequireFromString("1.00"), decimal.RequireFromString("10.00")), fiber.StatusBadRequest},
		{"self transfer", domainerr.ErrSelfTransfer, fiber.StatusBadRequest},
		{"account not found", domainerr.NewAccountNotFound("ghost"), fiber.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockTransferService)
			svc.On("Transfer", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, tt.err)

			h := NewBalanceHandler(svc, new(MockQueue))
			app := newTestApp(h, &models.UserClaims{UserID: 1, Login: "alice"})

			status, _ := postJSON(t, app, "/api/balance/transfer", `{"from":"alice","to":"bob","amount":10.00}`)
			assert.Equal(t, tt.wantStatus, status)
		})
	}
}

func TestBalanceHandler_TransferRejectsForeignAccount(t *testing.T) {
	svc := new(MockTransferService)
	h := NewBalanceHandler(svc, new(MockQueue))
	app := newTestApp(h, &models.UserClaims{UserID: 1, Login: "alice"})

	status, _ := postJSON(t, app, "/api/balance/transfer", `{"from":"mallory","to":"bob","amount":10.00}`)
	assert.Equal(t, fiber.StatusForbidden, status)
	svc.AssertNotCalled(t, "Transfer", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestBalanceHandler_TransferRejectsMalformedAmount(t *testing.T) {
	svc := new(MockTransferService)
	h := NewBalanceHandler(svc, new(MockQueue))
	app := newTestApp(h, &models.UserClaims{UserID: 1, Login: "alice"})

	status, _ := postJSON(t, app, "/api/balance/transfer", `{"from":"alice","to":"bob","amount":"abc"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	svc.AssertNotCalled(t, "Transfer", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestBalanceHandler_ResetEnqueuesJob(t *testing.T) {
	q := new(MockQueue)
	q.On("Enqueue", mock.Anything, jobs.JobResetAllBalances, mock.Anything).Return("job-123", nil)

	h := NewBalanceHandler(new(MockTransferService), q)
	app := newTestApp(h, &models.UserClaims{UserID: 1, Login: "root", Role: "admin"})

	status, body := postJSON(t, app, "/api/balance-reset", `{}`)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, "job-123")
	q.AssertExpectations(t)
}
