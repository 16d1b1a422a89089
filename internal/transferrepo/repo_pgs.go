// Package transferrepo manages repository layer of transfers.
package transferrepo

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

// RepoPGS facilitates transfer repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns transfer RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

func scanTransfer(row *sql.Row) (domain.Transfer, error) {
	var t domain.Transfer

	err := row.Scan(
		&t.ID,
		&t.SourceAccountID,
		&t.TargetAccountID,
		&t.Amount,
		&t.Currency,
		&t.Status,
		&t.CreatedAt,
	)

	return t, err
}

const createQuery = `
INSERT INTO
    transfers (id, source_account_id, target_account_id, amount, currency, status)
VALUES
    ($1, $2, $3, $4, $5, $6)
RETURNING id, source_account_id, target_account_id, amount, currency, status, created_at
`

// Create creates the transfer record and then returns it.
//
// It must run inside the same transaction as the balance writes it records.
func (r *RepoPGS) Create(ctx context.Context, arg domain.CreateTransferParams, currency string) (domain.Transfer, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery,
		uuid.New(),
		arg.SourceAccountID,
		arg.TargetAccountID,
		arg.Amount,
		currency,
		domain.TransferFundsTransferred,
	)

	t, err := scanTransfer(row)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Constraint {
			case "transfers_source_account_id_fkey":
				return t, domain.ErrAccountNotFound(arg.SourceAccountID)
			case "transfers_target_account_id_fkey":
				return t, domain.ErrAccountNotFound(arg.TargetAccountID)
			case "transfers_amount_check":
				return t, domain.ErrInvalidAmount
			}
		}

		if dbpkg.IsSerializationFailure(err) {
			return t, domain.ErrConcurrencyConflict
		}

		l.Error().Err(err).Msgf("Create(ctx, %+v, %v)", arg, currency)

		return t, errorspkg.ErrInternal
	}

	return t, nil
}

const getQuery = `
SELECT
	id, source_account_id, target_account_id, amount, currency, status, created_at
FROM transfers
WHERE id = $1
`

// Get returns the transfer with the given id.
func (r *RepoPGS) Get(ctx context.Context, id uuid.UUID) (domain.Transfer, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, getQuery, id)

	t, err := scanTransfer(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return t, domain.ErrTransferNotFound(id)
		}

		l.Error().Err(err).Send()

		return t, errorspkg.ErrInternal
	}

	return t, nil
}

const setRefundedQuery = `
UPDATE transfers
SET status = $1
WHERE id = $2 AND status = $3
RETURNING id, source_account_id, target_account_id, amount, currency, status, created_at
`

// SetRefunded flips the transfer to REFUNDED.
//
// The update is conditioned on the current FUNDS_TRANSFERRED status so a
// transfer can be refunded at most once.
func (r *RepoPGS) SetRefunded(ctx context.Context, id uuid.UUID) (domain.Transfer, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, setRefundedQuery,
		domain.TransferRefunded, id, domain.TransferFundsTransferred)

	t, err := scanTransfer(row)
	if err != nil {
		if err == sql.ErrNoRows {
			// Distinguish a missing transfer from one in the wrong state.
			if _, getErr := r.Get(ctx, id); getErr != nil {
				return t, getErr
			}

			return t, domain.ErrTransferAlreadyRefunded(id)
		}

		l.Error().Err(err).Send()

		return t, errorspkg.ErrInternal
	}

	return t, nil
}

const listQuery = `
SELECT
	id, source_account_id, target_account_id, amount, currency, status, created_at
FROM transfers
WHERE
    source_account_id = $1 OR target_account_id = $1
ORDER BY created_at
LIMIT $2 OFFSET $3
`

// List returns the transfers touching the given account.
func (r *RepoPGS) List(ctx context.Context, accountID uuid.UUID, limit, offset int32) ([]domain.Transfer, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listQuery, accountID, limit, offset)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Transfer{}

	for rows.Next() {
		var t domain.Transfer
		if err := rows.Scan(
			&t.ID,
			&t.SourceAccountID,
			&t.TargetAccountID,
			&t.Amount,
			&t.Currency,
			&t.Status,
			&t.CreatedAt,
		); err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, t)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}
