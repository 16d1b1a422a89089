// Package transferstrategy implements the interchangeable concurrency
// control strategies for mutating account balances.
//
// Every strategy owns its transaction scope: it begins an explicit
// transaction, loads the account pair under its own exclusivity discipline,
// applies the ledger mutation, persists the balances together with the
// Transfer record, and commits. The orchestrator is indifferent to which
// strategy runs.
package transferstrategy

import (
	"bytes"
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/go-petr/money-transfer/internal/domain"
	"github.com/go-petr/money-transfer/internal/exchange"
	"github.com/go-petr/money-transfer/internal/ledger"
	"github.com/go-petr/money-transfer/internal/transferrepo"
	"github.com/go-petr/money-transfer/pkg/dbpkg"
	"github.com/go-petr/money-transfer/pkg/errorspkg"
)

// Strategy acquires the right to mutate an account pair and executes the
// transfer under that exclusivity.
type Strategy interface {
	AcquireAndTransfer(ctx context.Context, arg domain.CreateTransferParams) (domain.Transfer, error)
}

// NewSet returns all strategies keyed by concurrency mode.
func NewSet(conn *sql.DB, exchanger exchange.Exchanger, optimisticMaxAttempts int) map[domain.ConcurrencyMode]Strategy {
	return map[domain.ConcurrencyMode]Strategy{
		domain.ModeOptimistic:   NewOptimistic(conn, exchanger, optimisticMaxAttempts),
		domain.ModePessimistic:  NewPessimistic(conn, exchanger),
		domain.ModeSerializable: NewSerializable(conn, exchanger),
	}
}

// lessID imposes the fixed global account ordering used to keep multi-row
// operations deadlock free.
func lessID(a, b uuid.UUID) bool {
	return bytes.Compare(a[:], b[:]) < 0
}

// rollback discards the transaction; committed transactions report
// sql.ErrTxDone here, which is the normal path.
func rollback(ctx context.Context, tx *sql.Tx) {
	if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
		zerolog.Ctx(ctx).Error().Err(err).Msg("transaction rollback failed")
	}
}

// moveAndPersist applies the ledger mutation to the already loaded pair and
// writes both balances back in ascending account id order, then records the
// Transfer. persist writes a single account balance; strategies supply the
// plain or the version-conditioned variant.
func moveAndPersist(
	ctx context.Context,
	transfers *transferrepo.RepoPGS,
	exchanger exchange.Exchanger,
	arg domain.CreateTransferParams,
	source, target *domain.Account,
	persist func(ctx context.Context, a *domain.Account) error,
) (domain.Transfer, error) {
	if _, err := ledger.Move(ctx, source, target, arg.Amount, exchanger); err != nil {
		return domain.Transfer{}, err
	}

	first, second := source, target
	if lessID(second.ID, first.ID) {
		first, second = second, first
	}

	if err := persist(ctx, first); err != nil {
		return domain.Transfer{}, err
	}

	if err := persist(ctx, second); err != nil {
		return domain.Transfer{}, err
	}

	return transfers.Create(ctx, arg, source.Currency)
}

func commit(ctx context.Context, tx *sql.Tx) error {
	if err := tx.Commit(); err != nil {
		if dbpkg.IsSerializationFailure(err) {
			return domain.ErrConcurrencyConflict
		}

		zerolog.Ctx(ctx).Error().Err(err).Msg("transaction commit failed")

		return errorspkg.ErrInternal
	}

	return nil
}
