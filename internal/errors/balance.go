package errors

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrSelfTransfer = &DomainError{
		Code:    "INVALID_REQUEST",
		Message: "cannot transfer to self",
	}
	ErrInvalidAmount = &DomainError{
		Code:    "INVALID_REQUEST",
		Message: "amount must be positive with at most 2 decimal places",
	}
	ErrAccountNotFound = &DomainError{
		Code:    "ACCOUNT_NOT_FOUND",
		Message: "account not found",
	}
	ErrInsufficientFunds = &DomainError{
		Code:    "INSUFFICIENT_FUNDS",
		Message: "insufficient funds",
	}
)

// NewAccountNotFound names the missing login in the message.
func NewAccountNotFound(login string) *DomainError {
	return &DomainError{
		Code:    ErrAccountNotFound.Code,
		Message: fmt.Sprintf("account %q not found", login),
	}
}

// NewInsufficientFunds reports available and required amounts to 2 decimal
// places.
func NewInsufficientFunds(available, required decimal.Decimal) *DomainError {
	return &DomainError{
		Code: ErrInsufficientFunds.Code,
		Message: fmt.Sprintf("insufficient funds: available %s, required %s",
			available.StringFixed(2), required.StringFixed(2)),
	}
}
