package exchange

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "alphagpt/internal/errors"
)

func newTestExchange(balances map[string]float64) *PaperExchange {
	ex := NewPaperExchange(balances)
	ex.SetPrice("BTC", 50000)
	return ex
}

func TestPaperBuySettlesBothLegs(t *testing.T) {
	ex := newTestExchange(map[string]float64{"USDT": 100})

	orderID, err := ex.PlaceMarketOrder(context.Background(), "BTC/USDT", SideBuy, decimal.RequireFromString("0.001"))
	require.NoError(t, err)
	assert.Contains(t, orderID, "PAPER_")

	held, err := ex.GetBalance(context.Background(), "BTC")
	require.NoError(t, err)
	assert.True(t, held.Equal(decimal.RequireFromString("0.001")), "got %s", held)

	// 0.001 BTC at 50000 costs 50 USDT.
	funds, err := ex.GetBalance(context.Background(), "USDT")
	require.NoError(t, err)
	assert.True(t, funds.Equal(decimal.NewFromInt(50)), "got %s", funds)
}

func TestPaperRepeatedBuysExhaustFunds(t *testing.T) {
	ex := newTestExchange(map[string]float64{"USDT": 100})

	qty := decimal.RequireFromString("0.001")
	_, err := ex.PlaceMarketOrder(context.Background(), "BTC/USDT", SideBuy, qty)
	require.NoError(t, err)
	_, err = ex.PlaceMarketOrder(context.Background(), "BTC/USDT", SideBuy, qty)
	require.NoError(t, err)

	// Third buy needs 50 USDT but the first two spent the full 100.
	_, err = ex.PlaceMarketOrder(context.Background(), "BTC/USDT", SideBuy, qty)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientFunds)
}

func TestPaperSellSettlesBothLegs(t *testing.T) {
	ex := newTestExchange(map[string]float64{"BTC": 0.5})

	_, err := ex.PlaceMarketOrder(context.Background(), "BTC/USDT", SideSell, decimal.RequireFromString("0.001"))
	require.NoError(t, err)

	held, err := ex.GetBalance(context.Background(), "BTC")
	require.NoError(t, err)
	assert.True(t, held.Equal(decimal.RequireFromString("0.499")), "got %s", held)

	funds, err := ex.GetBalance(context.Background(), "USDT")
	require.NoError(t, err)
	assert.True(t, funds.Equal(decimal.NewFromInt(50)), "got %s", funds)
}

func TestPaperSellInsufficientHoldings(t *testing.T) {
	ex := newTestExchange(nil)
	ex.SetBalance("BTC", 0.0001)

	_, err := ex.PlaceMarketOrder(context.Background(), "BTC/USDT", SideSell, decimal.RequireFromString("0.001"))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientFunds)

	var exchangeErr *apperrors.ExchangeError
	require.ErrorAs(t, err, &exchangeErr)
	assert.Equal(t, "BTC/USDT", exchangeErr.Symbol)
}

func TestPaperRejectsUnpricedAsset(t *testing.T) {
	ex := NewPaperExchange(map[string]float64{"USDT": 100})

	_, err := ex.PlaceMarketOrder(context.Background(), "ETH/USDT", SideBuy, decimal.RequireFromString("0.01"))
	require.Error(t, err)

	var exchangeErr *apperrors.ExchangeError
	require.ErrorAs(t, err, &exchangeErr)
	assert.Equal(t, "place_order", exchangeErr.Op)
}

func TestPaperOrderIDsAreUnique(t *testing.T) {
	ex := newTestExchange(map[string]float64{"USDT": 100})

	first, err := ex.PlaceMarketOrder(context.Background(), "BTC/USDT", SideBuy, decimal.RequireFromString("0.001"))
	require.NoError(t, err)
	second, err := ex.PlaceMarketOrder(context.Background(), "BTC/USDT", SideBuy, decimal.RequireFromString("0.001"))
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestPaperUnknownAssetBalanceIsZero(t *testing.T) {
	ex := NewPaperExchange(nil)

	held, err := ex.GetBalance(context.Background(), "DOGE")
	require.NoError(t, err)
	assert.True(t, held.IsZero())
}

func TestSplitSymbol(t *testing.T) {
	base, quote := SplitSymbol("BTC/USDT")
	assert.Equal(t, "BTC", base)
	assert.Equal(t, "USDT", quote)

	base, quote = SplitSymbol("BTC")
	assert.Equal(t, "BTC", base)
	assert.Empty(t, quote)

	assert.Equal(t, "ETH/USDT", Pair("ETH", "USDT"))
}
