package exchange

import (
	"context"
	"fmt"
	"strings"

	"github.com/adshao/go-binance/v2"
	"github.com/shopspring/decimal"

	apperrors "alphagpt/internal/errors"
)

// BinanceExchange implements Exchange against the Binance spot API.
type BinanceExchange struct {
	client *binance.Client
}

// NewBinanceExchange creates a Binance-backed exchange client.
func NewBinanceExchange(apiKey, apiSecret string) *BinanceExchange {
	return &BinanceExchange{
		client: binance.NewClient(apiKey, apiSecret),
	}
}

// PlaceMarketOrder submits a spot market order. Failures are reported, never
// retried here: a failed live order is not safely re-playable without
// risking a duplicate fill.
func (e *BinanceExchange) PlaceMarketOrder(ctx context.Context, symbol string, side Side, quantity decimal.Decimal) (string, error) {
	orderSide := binance.SideTypeBuy
	if side == SideSell {
		orderSide = binance.SideTypeSell
	}

	resp, err := e.client.NewCreateOrderService().
		Symbol(binanceSymbol(symbol)).
		Side(orderSide).
		Type(binance.OrderTypeMarket).
		Quantity(quantity.String()).
		Do(ctx)
	if err != nil {
		return "", apperrors.NewExchangeError("place_order", symbol, err)
	}

	return fmt.Sprintf("%d", resp.OrderID), nil
}

// GetBalance returns the free spot balance of one asset.
func (e *BinanceExchange) GetBalance(ctx context.Context, asset string) (decimal.Decimal, error) {
	account, err := e.client.NewGetAccountService().Do(ctx)
	if err != nil {
		return decimal.Zero, apperrors.NewExchangeError("get_balance", asset, err)
	}

	for _, b := range account.Balances {
		if b.Asset != asset {
			continue
		}
		free, err := decimal.NewFromString(b.Free)
		if err != nil {
			return decimal.Zero, apperrors.NewExchangeError("get_balance", asset, fmt.Errorf("parsing free balance %q: %w", b.Free, err))
		}
		return free, nil
	}

	return decimal.Zero, nil
}

// binanceSymbol converts BASE/QUOTE to the exchange's concatenated form.
func binanceSymbol(symbol string) string {
	return strings.ReplaceAll(symbol, "/", "")
}

var _ Exchange = (*BinanceExchange)(nil)
