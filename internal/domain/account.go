// Package domain provides definitions of all entities.
package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/go-petr/money-transfer/pkg/errorspkg"
)

// Account holds a balance in a specific currency.
//
// Currency is immutable after creation. Version is the optimistic lock
// counter, bumped by every balance write.
type Account struct {
	ID        uuid.UUID       `json:"id"`
	Balance   decimal.Decimal `json:"balance"`
	Currency  string          `json:"currency"`
	Version   int64           `json:"-"`
	CreatedAt time.Time       `json:"created_at"`
}

// ErrAccountNotFound indicates that the account is not found.
func ErrAccountNotFound(id uuid.UUID) *errorspkg.Error {
	return errorspkg.Newf(errorspkg.CodeResourceNotFound, "account %s not found", id)
}

// ErrInsufficientBalance indicates that the account balance cannot cover the amount.
func ErrInsufficientBalance(id uuid.UUID, amount decimal.Decimal) *errorspkg.Error {
	return errorspkg.Newf(errorspkg.CodeInsufficientFunds,
		"insufficient balance on account %s for amount %s", id, amount)
}

// ErrUnsupportedCurrency indicates a currency outside the supported set.
func ErrUnsupportedCurrency(currency string) *errorspkg.Error {
	return errorspkg.Newf(errorspkg.CodeInvalidAmount, "currency %s is not supported", currency)
}
