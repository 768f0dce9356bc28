// Package exchange provides the exchange boundary and its implementations.
package exchange

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
)

// Side is the order side at the exchange boundary.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// Exchange defines the operations the pipeline needs from an exchange.
// Implementations are stateless per call; no connection affinity is assumed.
type Exchange interface {
	// PlaceMarketOrder submits a market order for quantity of symbol
	// (BASE/QUOTE format) and returns the exchange order id.
	PlaceMarketOrder(ctx context.Context, symbol string, side Side, quantity decimal.Decimal) (string, error)

	// GetBalance returns the free balance of one asset.
	GetBalance(ctx context.Context, asset string) (decimal.Decimal, error)
}

// SplitSymbol splits a BASE/QUOTE pair into its assets. A symbol without a
// separator is treated as the base asset with an empty quote.
func SplitSymbol(symbol string) (base, quote string) {
	parts := strings.SplitN(symbol, "/", 2)
	base = parts[0]
	if len(parts) == 2 {
		quote = parts[1]
	}
	return base, quote
}

// Pair joins a base asset with a quote asset into BASE/QUOTE form.
func Pair(base, quote string) string {
	return base + "/" + quote
}
