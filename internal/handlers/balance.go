package handlers

import (
	"encoding/json"

	"minipay/internal/jobs"
	"minipay/internal/models"
	"minipay/internal/queue"
	"minipay/internal/services/transfer"
	"minipay/internal/utils/response"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// BalanceHandler exposes the transfer and balance-reset endpoints.
type BalanceHandler struct {
	transfers transfer.Service
	jobQueue  queue.Queue
}

func NewBalanceHandler(transfers transfer.Service, jobQueue queue.Queue) *BalanceHandler {
	return &BalanceHandler{
		transfers: transfers,
		jobQueue:  jobQueue,
	}
}

// Transfer handles POST /balance/transfer requests.
func (h *BalanceHandler) Transfer(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	var req struct {
		From   string      `json:"from"`
		To     string      `json:"to"`
		Amount json.Number `json:"amount"`
	}
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request")
	}

	// Only the authenticated account holder can move their own funds.
	if req.From != claims.Login {
		return response.Error(c, fiber.StatusForbidden, "cannot transfer from another user's account")
	}

	amount, err := decimal.NewFromString(req.Amount.String())
	if err != nil {
		return response.BadRequest(c, "invalid amount")
	}

	result, err := h.transfers.Transfer(c.Context(), req.From, req.To, amount)
	if err != nil {
		return response.DomainError(c, err)
	}

	return c.JSON(fiber.Map{
		"fromUser":          result.FromUser,
		"toUser":            result.ToUser,
		"transferredAmount": result.TransferredAmount,
	})
}

// ResetBalances handles POST /balance-reset requests. The reset runs
// asynchronously; the response only confirms the job was enqueued.
func (h *BalanceHandler) ResetBalances(c *fiber.Ctx) error {
	jobID, err := h.jobQueue.Enqueue(c.Context(), jobs.JobResetAllBalances, nil)
	if err != nil {
		return response.ServerError(c, "failed to enqueue balance reset")
	}

	return c.JSON(fiber.Map{
		"message": "balance reset enqueued",
		"jobId":   jobID,
	})
}
