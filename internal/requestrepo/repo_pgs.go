// Package requestrepo manages repository layer of transfer requests.
package requestrepo

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/go-petr/money-transfer/internal/domain"
	"github.com/go-petr/money-transfer/pkg/dbpkg"
	"github.com/go-petr/money-transfer/pkg/errorspkg"
)

// pqUniqueViolation is the class 23 code raised by a conflicting insert.
const pqUniqueViolation = "23505"

// RepoPGS facilitates transfer request repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns transfer request RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

func scanRequest(row *sql.Row) (domain.TransferRequest, error) {
	var (
		r          domain.TransferRequest
		outcome    sql.NullString
		info       sql.NullString
		transferID uuid.NullUUID
	)

	err := row.Scan(
		&r.ID,
		&r.SourceAccountID,
		&r.TargetAccountID,
		&r.Amount,
		&r.Status,
		&outcome,
		&info,
		&transferID,
		&r.CreatedAt,
	)
	if err != nil {
		return r, err
	}

	r.OutcomeCode = outcome.String
	r.InfoMessage = info.String

	if transferID.Valid {
		id := transferID.UUID
		r.TransferID = &id
	}

	return r, nil
}

const createQuery = `
INSERT INTO
    transfer_requests (id, source_account_id, target_account_id, amount, status)
VALUES
    ($1, $2, $3, $4, $5)
RETURNING id, source_account_id, target_account_id, amount, status, outcome_code, info_message, transfer_id, created_at
`

// Create registers a transfer request in status IN_PROGRESS.
//
// The primary key on the idempotency key makes the insert the arbitration
// point between duplicate submissions: the loser of the race gets
// domain.ErrRequestExists and must fetch the winner's row.
func (r *RepoPGS) Create(ctx context.Context, arg domain.CreateRequestParams) (domain.TransferRequest, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery,
		arg.ID,
		arg.SourceAccountID,
		arg.TargetAccountID,
		arg.Amount,
		domain.RequestInProgress,
	)

	req, err := scanRequest(row)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if string(pqErr.Code) == pqUniqueViolation {
				return req, domain.ErrRequestExists
			}
		}

		l.Error().Err(err).Msgf("Create(ctx, %+v)", arg)

		return req, errorspkg.ErrInternal
	}

	return req, nil
}

const getQuery = `
SELECT
	id, source_account_id, target_account_id, amount, status, outcome_code, info_message, transfer_id, created_at
FROM transfer_requests
WHERE id = $1
`

// Get returns the transfer request with the given id.
func (r *RepoPGS) Get(ctx context.Context, id uuid.UUID) (domain.TransferRequest, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, getQuery, id)

	req, err := scanRequest(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return req, domain.ErrRequestNotFound(id)
		}

		l.Error().Err(err).Send()

		return req, errorspkg.ErrInternal
	}

	return req, nil
}

const completeQuery = `
UPDATE transfer_requests
SET status = $1, outcome_code = $2, info_message = $3, transfer_id = $4
WHERE id = $5 AND status = $6
RETURNING id, source_account_id, target_account_id, amount, status, outcome_code, info_message, transfer_id, created_at
`

// Complete performs the single IN_PROGRESS to COMPLETED transition.
//
// Conditioning the update on the current IN_PROGRESS status enforces the
// single-writer-per-request discipline: whichever completion lands first
// wins, all others get domain.ErrInvalidRequestState.
func (r *RepoPGS) Complete(ctx context.Context, arg domain.CompleteRequestParams) (domain.TransferRequest, error) {
	l := zerolog.Ctx(ctx)

	var transferID uuid.NullUUID
	if arg.TransferID != nil {
		transferID = uuid.NullUUID{UUID: *arg.TransferID, Valid: true}
	}

	row := r.db.QueryRowContext(ctx, completeQuery,
		domain.RequestCompleted,
		arg.OutcomeCode,
		arg.InfoMessage,
		transferID,
		arg.RequestID,
		domain.RequestInProgress,
	)

	req, err := scanRequest(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return req, domain.ErrInvalidRequestState(arg.RequestID)
		}

		l.Error().Err(err).Msgf("Complete(ctx, %+v)", arg)

		return req, errorspkg.ErrInternal
	}

	return req, nil
}
