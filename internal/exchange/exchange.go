// Package exchange provides currency conversion for transfers.
package exchange

import (
	"context"

	"github.com/shopspring/decimal"
)

// Exchanger converts an amount from one currency to another.
//
// Implementations must be idempotent and side effect free: calling Exchange
// repeatedly with identical arguments during retries is expected.
//
//go:generate mockgen -source exchange.go -destination exchange_mock.go -package exchange
type Exchanger interface {
	Exchange(ctx context.Context, amount decimal.Decimal, from, to string) (decimal.Decimal, error)
}
