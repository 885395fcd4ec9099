package transfer

import (
	"minipay/internal/models"

	"github.com/shopspring/decimal"
)

// Result is the snapshot of both accounts after a completed transfer. It is
// returned to the caller and never persisted; no ledger is kept.
type Result struct {
	FromUser          *models.User    `json:"fromUser"`
	ToUser            *models.User    `json:"toUser"`
	TransferredAmount decimal.Decimal `json:"transferredAmount"`
}
