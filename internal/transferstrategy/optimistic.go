package transferstrategy

import (
	"context"
	"database/sql"

	"github.com/rs/zerolog"

	"github.com/go-petr/money-transfer/internal/accountrepo"
	"github.com/go-petr/money-transfer/internal/domain"
	"github.com/go-petr/money-transfer/internal/exchange"
	"github.com/go-petr/money-transfer/internal/transferrepo"
	"github.com/go-petr/money-transfer/pkg/dbpkg"
	"github.com/go-petr/money-transfer/pkg/errorspkg"
)

// Optimistic executes transfers without locks, conditioning the balance
// writes on the account versions read at the start of the attempt.
//
// A version mismatch aborts the whole read-mutate-write attempt and retries
// it from scratch, up to maxAttempts; exhaustion surfaces a transient
// conflict to the caller rather than being silently swallowed.
type Optimistic struct {
	conn        *sql.DB
	exchanger   exchange.Exchanger
	maxAttempts int
}

// NewOptimistic returns the optimistic locking strategy.
func NewOptimistic(conn *sql.DB, exchanger exchange.Exchanger, maxAttempts int) *Optimistic {
	if maxAttempts <= 0 {
		maxAttempts = 3
	}

	return &Optimistic{
		conn:        conn,
		exchanger:   exchanger,
		maxAttempts: maxAttempts,
	}
}

// AcquireAndTransfer retries the optimistic attempt until it succeeds, fails
// on a business rule, or the attempt budget runs out.
func (s *Optimistic) AcquireAndTransfer(ctx context.Context, arg domain.CreateTransferParams) (domain.Transfer, error) {
	l := zerolog.Ctx(ctx)

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		transfer, err := s.attempt(ctx, arg)
		if err == nil {
			return transfer, nil
		}

		if !errorspkg.Is(err, errorspkg.CodeConcurrencyConflict) {
			return domain.Transfer{}, err
		}

		l.Info().
			Int("attempt", attempt).
			Int("max_attempts", s.maxAttempts).
			Msg("optimistic transfer conflict")
	}

	return domain.Transfer{}, domain.ErrConcurrencyConflict
}

func (s *Optimistic) attempt(ctx context.Context, arg domain.CreateTransferParams) (domain.Transfer, error) {
	tx, err := dbpkg.Begin(ctx, s.conn, sql.LevelReadCommitted)
	if err != nil {
		return domain.Transfer{}, errorspkg.ErrInternal
	}
	defer rollback(ctx, tx)

	accounts := accountrepo.NewRepoPGS(tx)
	transfers := transferrepo.NewRepoPGS(tx)

	source, err := accounts.Get(ctx, arg.SourceAccountID)
	if err != nil {
		return domain.Transfer{}, err
	}

	target, err := accounts.Get(ctx, arg.TargetAccountID)
	if err != nil {
		return domain.Transfer{}, err
	}

	transfer, err := moveAndPersist(ctx, transfers, s.exchanger, arg, &source, &target,
		func(ctx context.Context, a *domain.Account) error {
			updated, err := accounts.SetBalanceVersioned(ctx, a.ID, a.Balance, a.Version)
			if err != nil {
				return err
			}

			a.Version = updated.Version

			return nil
		})
	if err != nil {
		return domain.Transfer{}, err
	}

	if err := commit(ctx, tx); err != nil {
		return domain.Transfer{}, err
	}

	return transfer, nil
}
