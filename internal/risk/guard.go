// Package risk sizes trades and blocks those below the viable threshold.
package risk

import (
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"alphagpt/internal/config"
	"alphagpt/internal/models"
)

// Guard computes allowed trade sizes. Absence of a quantity is a normal,
// reportable outcome, never a fault.
type Guard struct {
	capPerTrade    decimal.Decimal
	minViable      decimal.Decimal
	sellDefaultQty decimal.Decimal
	quantityStep   decimal.Decimal
	logger         zerolog.Logger
}

// NewGuard creates a guard from the risk configuration.
func NewGuard(cfg config.RiskConfig, logger zerolog.Logger) *Guard {
	return &Guard{
		capPerTrade:    decimal.NewFromFloat(cfg.CapPerTrade),
		minViable:      decimal.NewFromFloat(cfg.MinViable),
		sellDefaultQty: decimal.NewFromFloat(cfg.SellDefaultQty),
		quantityStep:   decimal.NewFromFloat(cfg.QuantityStep),
		logger:         logger,
	}
}

// SizeTrade returns the quantity to trade for the given action, or ok=false
// when the trade should be skipped. availableBalance and referencePrice are
// denominated in the quote asset; holdings is the base-asset amount held, or
// nil when the exchange could not report it.
func (g *Guard) SizeTrade(action models.Action, availableBalance, referencePrice decimal.Decimal, holdings *decimal.Decimal) (decimal.Decimal, bool) {
	switch action {
	case models.ActionBuy:
		return g.sizeBuy(availableBalance, referencePrice)
	case models.ActionSell:
		return g.sizeSell(holdings)
	default:
		return decimal.Zero, false
	}
}

func (g *Guard) sizeBuy(availableBalance, referencePrice decimal.Decimal) (decimal.Decimal, bool) {
	notional := decimal.Min(g.capPerTrade, availableBalance)
	if notional.LessThan(g.minViable) {
		g.logger.Warn().
			Str("notional", notional.String()).
			Str("min_viable", g.minViable.String()).
			Msg("Insufficient funds for BUY, trade skipped")
		return decimal.Zero, false
	}
	if referencePrice.IsZero() {
		return decimal.Zero, false
	}

	quantity := g.truncateToStep(notional.Div(referencePrice))
	if quantity.IsZero() {
		return decimal.Zero, false
	}
	return quantity, true
}

// sizeSell sells the configured default quantity, clamped to actual
// holdings when the exchange reported them. When holdings are unknown the
// default is used as-is.
func (g *Guard) sizeSell(holdings *decimal.Decimal) (decimal.Decimal, bool) {
	quantity := g.sellDefaultQty
	if holdings != nil && holdings.LessThan(quantity) {
		quantity = g.truncateToStep(*holdings)
	}
	if quantity.IsZero() {
		g.logger.Warn().Msg("No holdings to SELL, trade skipped")
		return decimal.Zero, false
	}
	return quantity, true
}

// truncateToStep rounds a quantity down to the instrument's minimum
// tradable increment.
func (g *Guard) truncateToStep(quantity decimal.Decimal) decimal.Decimal {
	if g.quantityStep.IsZero() {
		return quantity
	}
	return quantity.Div(g.quantityStep).Floor().Mul(g.quantityStep)
}
