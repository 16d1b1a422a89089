// Package refundservice compensates transfers whose request completion was
// lost to a concurrent duplicate.
//
// The orchestrator posts the losing transfer id to an in-process queue; a
// worker goroutine drains the queue and reverses each transfer in a
// serializable transaction. Reversal is guarded by the transfer status, so a
// redelivered id is a no-op.
package refundservice

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/go-petr/money-transfer/internal/accountrepo"
	"github.com/go-petr/money-transfer/internal/domain"
	"github.com/go-petr/money-transfer/internal/exchange"
	"github.com/go-petr/money-transfer/internal/ledger"
	"github.com/go-petr/money-transfer/internal/transferrepo"
	"github.com/go-petr/money-transfer/pkg/dbpkg"
	"github.com/go-petr/money-transfer/pkg/errorspkg"
)

const queueSize = 64

// Service facilitates transfer compensation logic.
type Service struct {
	conn      *sql.DB
	exchanger exchange.Exchanger
	queue     chan uuid.UUID
}

// New returns a refund service.
func New(conn *sql.DB, exchanger exchange.Exchanger) *Service {
	return &Service{
		conn:      conn,
		exchanger: exchanger,
		queue:     make(chan uuid.UUID, queueSize),
	}
}

// Enqueue posts a refund signal for the transfer without blocking the caller.
//
// A full queue drops the signal; the transfer stays in FUNDS_TRANSFERRED and
// remains visible for operational reconciliation.
func (s *Service) Enqueue(ctx context.Context, transferID uuid.UUID) {
	select {
	case s.queue <- transferID:
	default:
		zerolog.Ctx(ctx).Error().
			Str("transfer_id", transferID.String()).
			Msg("refund queue is full, dropping refund signal")
	}
}

// Run drains the refund queue until the context is canceled.
func (s *Service) Run(ctx context.Context) {
	l := zerolog.Ctx(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case transferID := <-s.queue:
			if _, err := s.Refund(ctx, transferID); err != nil {
				l.Error().Err(err).
					Str("transfer_id", transferID.String()).
					Msg("transfer refund failed")
			}
		}
	}
}

// Refund reverses a committed transfer: the source account is credited with
// the original amount and the target account is debited with the amount
// re-exchanged at current rates. Exchange rate drift between the transfer and
// its refund is accepted.
//
// The whole reversal runs serializable and flips the transfer to REFUNDED
// under a status guard, so each transfer is refunded at most once.
func (s *Service) Refund(ctx context.Context, transferID uuid.UUID) (domain.Transfer, error) {
	tx, err := dbpkg.Begin(ctx, s.conn, sql.LevelSerializable)
	if err != nil {
		return domain.Transfer{}, errorspkg.ErrInternal
	}

	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			zerolog.Ctx(ctx).Error().Err(err).Msg("refund transaction rollback failed")
		}
	}()

	accounts := accountrepo.NewRepoPGS(tx)
	transfers := transferrepo.NewRepoPGS(tx)

	transfer, err := transfers.Get(ctx, transferID)
	if err != nil {
		return domain.Transfer{}, err
	}

	if transfer.Status != domain.TransferFundsTransferred {
		return domain.Transfer{}, domain.ErrTransferAlreadyRefunded(transfer.ID)
	}

	source, err := accounts.Get(ctx, transfer.SourceAccountID)
	if err != nil {
		return domain.Transfer{}, err
	}

	target, err := accounts.Get(ctx, transfer.TargetAccountID)
	if err != nil {
		return domain.Transfer{}, err
	}

	// The source gets back exactly what it paid. The target gives up the
	// original amount re-exchanged at current rates; rate drift between the
	// transfer and its refund is absorbed by the target.
	if err := ledger.Credit(&source, transfer.Amount); err != nil {
		return domain.Transfer{}, err
	}

	debitAmount := transfer.Amount

	if source.Currency != target.Currency {
		debitAmount, err = s.exchanger.Exchange(ctx, transfer.Amount, source.Currency, target.Currency)
		if err != nil {
			return domain.Transfer{}, err
		}
	}

	if err := ledger.Debit(&target, debitAmount); err != nil {
		return domain.Transfer{}, err
	}

	if err := s.persistPair(ctx, accounts, &source, &target); err != nil {
		return domain.Transfer{}, err
	}

	refunded, err := transfers.SetRefunded(ctx, transfer.ID)
	if err != nil {
		return domain.Transfer{}, err
	}

	if err := tx.Commit(); err != nil {
		if dbpkg.IsSerializationFailure(err) {
			return domain.Transfer{}, domain.ErrConcurrencyConflict
		}

		zerolog.Ctx(ctx).Error().Err(err).Msg("refund transaction commit failed")

		return domain.Transfer{}, errorspkg.ErrInternal
	}

	zerolog.Ctx(ctx).Info().
		Str("transfer_id", refunded.ID.String()).
		Msg("transfer refunded")

	return refunded, nil
}

func (s *Service) persistPair(ctx context.Context, accounts *accountrepo.RepoPGS, source, target *domain.Account) error {
	first, second := source, target
	if bytesLess(second.ID, first.ID) {
		first, second = second, first
	}

	if _, err := accounts.SetBalance(ctx, first.ID, first.Balance); err != nil {
		return err
	}

	_, err := accounts.SetBalance(ctx, second.ID, second.Balance)

	return err
}

func bytesLess(a, b uuid.UUID) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}

	return false
}
