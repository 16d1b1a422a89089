package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/go-petr/money-transfer/pkg/errorspkg"
)

// RequestStatus is the lifecycle state of a TransferRequest.
type RequestStatus string

// Transfer request statuses.
const (
	RequestInProgress RequestStatus = "IN_PROGRESS"
	RequestCompleted  RequestStatus = "COMPLETED"
)

// OutcomeOK is the outcome code recorded for a successful completion.
const OutcomeOK = "OK"

// TransferRequest tracks an idempotent transfer submission.
//
// The id is the client-supplied idempotency key. While IN_PROGRESS the
// outcome fields are empty; once COMPLETED exactly one of the following
// holds: TransferID is set and OutcomeCode is OK, or TransferID is nil and
// the outcome carries a failure code with its message. Requests are never
// deleted; they are retained for audit and replay.
type TransferRequest struct {
	ID              uuid.UUID       `json:"id"`
	SourceAccountID uuid.UUID       `json:"source_account_id"`
	TargetAccountID uuid.UUID       `json:"target_account_id"`
	Amount          decimal.Decimal `json:"amount"`
	Status          RequestStatus   `json:"status"`
	OutcomeCode     string          `json:"outcome_code,omitempty"`
	InfoMessage     string          `json:"info_message,omitempty"`
	TransferID      *uuid.UUID      `json:"transfer_id,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// SamePayload reports whether the stored request matches the submitted
// payload. Amounts are compared numerically, not textually.
func (r TransferRequest) SamePayload(sourceID, targetID uuid.UUID, amount decimal.Decimal) bool {
	return r.SourceAccountID == sourceID &&
		r.TargetAccountID == targetID &&
		r.Amount.Equal(amount)
}

// CreateRequestParams is the input for registering a transfer request.
type CreateRequestParams struct {
	ID              uuid.UUID
	SourceAccountID uuid.UUID
	TargetAccountID uuid.UUID
	Amount          decimal.Decimal
}

// CompleteRequestParams is the input for the single IN_PROGRESS to COMPLETED
// transition of a transfer request.
type CompleteRequestParams struct {
	RequestID   uuid.UUID
	OutcomeCode string
	InfoMessage string
	TransferID  *uuid.UUID
}

// ErrRequestExists is the arbitration signal raised by the conditional
// insert when the idempotency key is already registered.
var ErrRequestExists = errors.New("transfer request already exists")

// ErrRequestNotFound indicates that the transfer request is not found.
func ErrRequestNotFound(id uuid.UUID) *errorspkg.Error {
	return errorspkg.Newf(errorspkg.CodeResourceNotFound, "transfer request %s not found", id)
}

// ErrRequestConflict indicates an idempotency key reused with a different payload.
func ErrRequestConflict(id uuid.UUID) *errorspkg.Error {
	return errorspkg.Newf(errorspkg.CodeRequestConflict,
		"the request payload does not match transfer request %s", id)
}

// ErrInvalidRequestState indicates a completion attempt on a request that is
// not IN_PROGRESS.
func ErrInvalidRequestState(id uuid.UUID) *errorspkg.Error {
	return errorspkg.Newf(errorspkg.CodeInvalidRequestState,
		"transfer request %s is not in progress", id)
}

// ErrInsufficientRequestData indicates malformed completion data.
func ErrInsufficientRequestData(id uuid.UUID) *errorspkg.Error {
	return errorspkg.Newf(errorspkg.CodeInsufficientRequestData,
		"insufficient completion data for transfer request %s", id)
}
