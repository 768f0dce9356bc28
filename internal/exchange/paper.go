package exchange

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	apperrors "alphagpt/internal/errors"
)

// PaperExchange implements Exchange with in-memory balances. It backs tests
// and dry runs against the live execution path without moving money.
type PaperExchange struct {
	balances     map[string]decimal.Decimal
	prices       map[string]decimal.Decimal
	orderCounter int
	mu           sync.Mutex
}

// NewPaperExchange creates a paper exchange seeded with the given balances.
// Orders fill at the mark price set via SetPrice; an order for an asset
// without a mark price is rejected.
func NewPaperExchange(balances map[string]float64) *PaperExchange {
	seeded := make(map[string]decimal.Decimal, len(balances))
	for asset, amount := range balances {
		seeded[asset] = decimal.NewFromFloat(amount)
	}
	return &PaperExchange{
		balances: seeded,
		prices:   make(map[string]decimal.Decimal),
	}
}

// SetPrice sets the mark price used to fill orders for one base asset.
func (p *PaperExchange) SetPrice(asset string, price float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.prices[asset] = decimal.NewFromFloat(price)
}

// PlaceMarketOrder fills the order immediately at the asset's mark price,
// settling both legs: a BUY debits the quote balance and credits the base,
// a SELL does the reverse.
func (p *PaperExchange) PlaceMarketOrder(ctx context.Context, symbol string, side Side, quantity decimal.Decimal) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	base, quote := SplitSymbol(symbol)

	price, ok := p.prices[base]
	if !ok || price.IsZero() {
		return "", apperrors.NewExchangeError("place_order", symbol,
			fmt.Errorf("no mark price for %s", base))
	}
	cost := quantity.Mul(price)

	if side == SideSell {
		held := p.balances[base]
		if held.LessThan(quantity) {
			return "", apperrors.NewExchangeError("place_order", symbol,
				fmt.Errorf("%w: need %s %s, have %s", apperrors.ErrInsufficientFunds, quantity, base, held))
		}
		p.balances[base] = held.Sub(quantity)
		p.balances[quote] = p.balances[quote].Add(cost)
	} else {
		funds := p.balances[quote]
		if funds.LessThan(cost) {
			return "", apperrors.NewExchangeError("place_order", symbol,
				fmt.Errorf("%w: need %s %s, have %s", apperrors.ErrInsufficientFunds, cost, quote, funds))
		}
		p.balances[quote] = funds.Sub(cost)
		p.balances[base] = p.balances[base].Add(quantity)
	}

	p.orderCounter++
	return fmt.Sprintf("PAPER_%d_%d", time.Now().Unix(), p.orderCounter), nil
}

// GetBalance returns the simulated free balance of one asset.
func (p *PaperExchange) GetBalance(ctx context.Context, asset string) (decimal.Decimal, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.balances[asset], nil
}

// SetBalance overrides one asset balance. Test helper.
func (p *PaperExchange) SetBalance(asset string, amount float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.balances[asset] = decimal.NewFromFloat(amount)
}

var _ Exchange = (*PaperExchange)(nil)
