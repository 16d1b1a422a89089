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

// Serializable delegates isolation entirely to the storage engine's
// serializable transaction mode.
//
// The engine aborts one of two conflicting concurrent transactions; that
// abort surfaces as a transient conflict which is NOT retried here, since
// the enclosing operation may already have side effects queued. The client
// retries the whole submission.
type Serializable struct {
	conn      *sql.DB
	exchanger exchange.Exchanger
}

// NewSerializable returns the serializable isolation strategy.
func NewSerializable(conn *sql.DB, exchanger exchange.Exchanger) *Serializable {
	return &Serializable{
		conn:      conn,
		exchanger: exchanger,
	}
}

// AcquireAndTransfer runs the transfer inside a serializable transaction.
func (s *Serializable) AcquireAndTransfer(ctx context.Context, arg domain.CreateTransferParams) (domain.Transfer, error) {
	tx, err := dbpkg.Begin(ctx, s.conn, sql.LevelSerializable)
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
