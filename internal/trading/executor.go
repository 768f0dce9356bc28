// Package trading executes risk-checked trade intents against the exchange.
package trading

import (
	"context"

	"github.com/rs/zerolog"

	"alphagpt/internal/exchange"
	"alphagpt/internal/logging"
	"alphagpt/internal/models"
)

// Executor submits trade intents or records simulated orders depending on
// run mode.
type Executor struct {
	exchange exchange.Exchange
	logger   zerolog.Logger
}

// NewExecutor creates a trade executor over the given exchange client.
func NewExecutor(ex exchange.Exchange, logger zerolog.Logger) *Executor {
	return &Executor{
		exchange: ex,
		logger:   logger,
	}
}

// Execute performs one intent. In simulated mode the exchange is never
// contacted. A live submission failure is reported in the outcome and is
// not retried: unlike an agent call, a failed live order is not safely
// re-playable without risking a duplicate fill.
func (e *Executor) Execute(ctx context.Context, intent models.TradeIntent, mode models.ExecutionMode) models.ExecutionOutcome {
	side := exchange.SideBuy
	if intent.Action == models.ActionSell {
		side = exchange.SideSell
	}

	if mode == models.ModeSimulated {
		logging.LogOrder(e.logger, string(models.ModeSimulated), intent.Symbol, string(side), intent.Quantity.String())
		return models.ExecutionOutcome{Mode: models.ModeSimulated}
	}

	orderID, err := e.exchange.PlaceMarketOrder(ctx, intent.Symbol, side, intent.Quantity)
	if err != nil {
		e.logger.Error().
			Str("symbol", intent.Symbol).
			Str("side", string(side)).
			Err(err).
			Msg("Live order failed")
		return models.ExecutionOutcome{Mode: models.ModeLive, Err: err}
	}

	logging.LogOrder(e.logger, string(models.ModeLive), intent.Symbol, string(side), intent.Quantity.String())
	return models.ExecutionOutcome{Mode: models.ModeLive, OrderID: orderID}
}
