// Package ledger applies balance mutations to account pairs.
//
// The package performs no locking of its own: every function here trusts the
// exclusivity already established by the calling concurrency strategy.
package ledger

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/go-petr/money-transfer/internal/domain"
	"github.com/go-petr/money-transfer/internal/exchange"
)

// Debit decreases the account balance by amount.
//
// It fails with InsufficientFunds when the balance cannot cover the amount,
// keeping the balance non-negativity invariant before the write ever reaches
// storage.
func Debit(a *domain.Account, amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return domain.ErrInvalidAmount
	}

	if a.Balance.LessThan(amount) {
		return domain.ErrInsufficientBalance(a.ID, amount)
	}

	a.Balance = a.Balance.Sub(amount)

	return nil
}

// Credit increases the account balance by amount.
func Credit(a *domain.Account, amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return domain.ErrInvalidAmount
	}

	a.Balance = a.Balance.Add(amount)

	return nil
}

// Move debits the source, exchanges the amount when the account currencies
// differ, and credits the target. It returns the credited amount in the
// target currency.
//
// An exchange failure surfaces after the in-memory debit; since nothing has
// been persisted yet, the caller simply abandons the transaction.
func Move(ctx context.Context, source, target *domain.Account, amount decimal.Decimal, exchanger exchange.Exchanger) (decimal.Decimal, error) {
	if err := Debit(source, amount); err != nil {
		return decimal.Decimal{}, err
	}

	credited := amount

	if source.Currency != target.Currency {
		exchanged, err := exchanger.Exchange(ctx, amount, source.Currency, target.Currency)
		if err != nil {
			return decimal.Decimal{}, err
		}

		credited = exchanged
	}

	if err := Credit(target, credited); err != nil {
		return decimal.Decimal{}, err
	}

	return credited, nil
}
