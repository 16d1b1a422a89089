package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/go-petr/money-transfer/pkg/errorspkg"
)

// TransferStatus is the lifecycle state of a Transfer.
type TransferStatus string

// Transfer statuses.
const (
	TransferPending          TransferStatus = "PENDING"
	TransferFundsTransferred TransferStatus = "FUNDS_TRANSFERRED"
	TransferRefunded         TransferStatus = "REFUNDED"
)

// ConcurrencyMode selects the concurrency control strategy for a transfer.
type ConcurrencyMode string

// Supported concurrency control modes.
const (
	ModeOptimistic   ConcurrencyMode = "OPTIMISTIC"
	ModePessimistic  ConcurrencyMode = "PESSIMISTIC"
	ModeSerializable ConcurrencyMode = "SERIALIZABLE"
)

// IsSupportedMode returns true if the mode names a known strategy.
func IsSupportedMode(mode string) bool {
	switch ConcurrencyMode(mode) {
	case ModeOptimistic, ModePessimistic, ModeSerializable:
		return true
	}

	return false
}

// Transfer holds the record of a funds movement between two accounts.
//
// A Transfer row is created only by a successful ledger mutation; its only
// later change is the flip to REFUNDED by the compensation handler.
type Transfer struct {
	ID              uuid.UUID       `json:"id"`
	SourceAccountID uuid.UUID       `json:"source_account_id"`
	TargetAccountID uuid.UUID       `json:"target_account_id"`
	Amount          decimal.Decimal `json:"amount"` // in source currency, positive
	Currency        string          `json:"currency"`
	Status          TransferStatus  `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
}

// CreateTransferParams is the input for a single transfer execution.
type CreateTransferParams struct {
	SourceAccountID uuid.UUID
	TargetAccountID uuid.UUID
	Amount          decimal.Decimal
}

// TransferCommand is a client submission: an idempotency key plus the
// transfer payload and the selected concurrency control mode.
type TransferCommand struct {
	RequestID       uuid.UUID
	SourceAccountID uuid.UUID
	TargetAccountID uuid.UUID
	Amount          decimal.Decimal
	Mode            ConcurrencyMode
}

// ErrInvalidAmount indicates a non-positive transfer amount.
var ErrInvalidAmount = errorspkg.New(errorspkg.CodeInvalidAmount, "transfer amount must be positive")

// ErrConcurrencyConflict indicates a transient concurrency failure; the
// request was not recorded and can be retried.
var ErrConcurrencyConflict = errorspkg.New(errorspkg.CodeConcurrencyConflict,
	"concurrent update conflict, retry the request")

// ErrVersionConflict indicates a failed optimistic conditional write.
var ErrVersionConflict = errorspkg.New(errorspkg.CodeConcurrencyConflict,
	"account version changed since read")

// ErrTransferNotFound indicates that the transfer is not found.
func ErrTransferNotFound(id uuid.UUID) *errorspkg.Error {
	return errorspkg.Newf(errorspkg.CodeResourceNotFound, "transfer %s not found", id)
}

// ErrSameAccount indicates a transfer with identical source and target accounts.
func ErrSameAccount(id uuid.UUID) *errorspkg.Error {
	return errorspkg.Newf(errorspkg.CodeSameAccount,
		"source and target accounts are the same: %s", id)
}

// ErrExchangeUnavailable indicates a failed currency exchange.
func ErrExchangeUnavailable(from, to string) *errorspkg.Error {
	return errorspkg.Newf(errorspkg.CodeExchangeUnavailable,
		"currency exchange from %s to %s is unavailable", from, to)
}

// ErrTransferAlreadyRefunded indicates a refund attempt on a refunded transfer.
func ErrTransferAlreadyRefunded(id uuid.UUID) *errorspkg.Error {
	return errorspkg.Newf(errorspkg.CodeInvalidEntityState,
		"transfer %s is already refunded", id)
}
