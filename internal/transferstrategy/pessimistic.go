package transferstrategy

import (
	"context"
	"database/sql"

	"github.com/go-petr/money-transfer/internal/accountrepo"
	"github.com/go-petr/money-transfer/internal/domain"
	"github.com/go-petr/money-transfer/internal/exchange"
	"github.com/go-petr/money-transfer/internal/transferrepo"
	"github.com/go-petr/money-transfer/pkg/dbpkg"
	"github.com/go-petr/money-transfer/pkg/errorspkg"
)

// Pessimistic executes transfers under exclusive row locks on both accounts.
//
// Locks are always acquired in ascending account id order regardless of
// which account is source or target, so two in-flight transfers sharing an
// account pair cannot deadlock.
type Pessimistic struct {
	conn      *sql.DB
	exchanger exchange.Exchanger
}

// NewPessimistic returns the pessimistic locking strategy.
func NewPessimistic(conn *sql.DB, exchanger exchange.Exchanger) *Pessimistic {
	return &Pessimistic{
		conn:      conn,
		exchanger: exchanger,
	}
}

// AcquireAndTransfer locks both accounts, applies the transfer and commits.
func (s *Pessimistic) AcquireAndTransfer(ctx context.Context, arg domain.CreateTransferParams) (domain.Transfer, error) {
	tx, err := dbpkg.Begin(ctx, s.conn, sql.LevelReadCommitted)
	if err != nil {
		return domain.Transfer{}, errorspkg.ErrInternal
	}
	defer rollback(ctx, tx)

	accounts := accountrepo.NewRepoPGS(tx)
	transfers := transferrepo.NewRepoPGS(tx)

	firstID, secondID := arg.SourceAccountID, arg.TargetAccountID
	if lessID(secondID, firstID) {
		firstID, secondID = secondID, firstID
	}

	first, err := accounts.GetForUpdate(ctx, firstID)
	if err != nil {
		return domain.Transfer{}, err
	}

	second, err := accounts.GetForUpdate(ctx, secondID)
	if err != nil {
		return domain.Transfer{}, err
	}

	source, target := &first, &second
	if first.ID != arg.SourceAccountID {
		source, target = &second, &first
	}

	transfer, err := moveAndPersist(ctx, transfers, s.exchanger, arg, source, target,
		func(ctx context.Context, a *domain.Account) error {
			_, err := accounts.SetBalance(ctx, a.ID, a.Balance)
			return err
		})
	if err != nil {
		return domain.Transfer{}, err
	}

	if err := commit(ctx, tx); err != nil {
		return domain.Transfer{}, err
	}

	return transfer, nil
}
