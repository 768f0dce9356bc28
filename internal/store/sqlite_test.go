package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alphagpt/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "decisions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAppendAndList(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := &models.DecisionRecord{
		Timestamp: time.Now().UTC(),
		Action:    models.ActionSell,
		Asset:     "BTC",
		RawText:   "SELL BTC",
		Mode:      models.ModeSimulated,
	}
	require.NoError(t, s.AppendDecision(ctx, first))
	assert.NotZero(t, first.ID)

	second := &models.DecisionRecord{
		Timestamp: time.Now().UTC(),
		Action:    models.ActionBuy,
		Asset:     "ETH",
		RawText:   "BUY ETH",
		Mode:      models.ModeLive,
		OrderID:   "12345",
	}
	require.NoError(t, s.AppendDecision(ctx, second))

	records, err := s.ListDecisions(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Newest first.
	assert.Equal(t, second.ID, records[0].ID)
	assert.Equal(t, models.ActionBuy, records[0].Action)
	assert.Equal(t, "ETH", records[0].Asset)
	assert.Equal(t, "12345", records[0].OrderID)
	assert.Equal(t, models.ActionSell, records[1].Action)
	assert.Equal(t, models.ModeSimulated, records[1].Mode)
}

func TestListLimit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, s.AppendDecision(ctx, &models.DecisionRecord{
			Timestamp: time.Now().UTC(),
			Action:    models.ActionHold,
			RawText:   "HOLD",
			Mode:      models.ModeSkipped,
		}))
	}

	records, err := s.ListDecisions(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestRecordWithErrorRoundTrips(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	record := &models.DecisionRecord{
		Timestamp: time.Now().UTC(),
		Action:    models.ActionBuy,
		Asset:     "BTC",
		RawText:   "BUY BTC",
		Mode:      models.ModeLive,
		Error:     "exchange error [place_order] BTC/USDT: rejected",
	}
	require.NoError(t, s.AppendDecision(ctx, record))

	records, err := s.ListDecisions(ctx, 1)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, record.Error, records[0].Error)
	assert.Empty(t, records[0].OrderID)
	assert.Nil(t, records[0].PnL)
}

func TestDecisionStats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seed := []models.DecisionRecord{
		{Action: models.ActionBuy, RawText: "BUY BTC", Mode: models.ModeLive, OrderID: "1"},
		{Action: models.ActionBuy, RawText: "BUY BTC", Mode: models.ModeSkipped},
		{Action: models.ActionSell, RawText: "SELL BTC", Mode: models.ModeLive, OrderID: "2"},
		{Action: models.ActionHold, RawText: "HOLD", Mode: models.ModeSkipped},
	}
	for i := range seed {
		seed[i].Timestamp = time.Now().UTC()
		require.NoError(t, s.AppendDecision(ctx, &seed[i]))
	}

	stats, err := s.DecisionStats(ctx)
	require.NoError(t, err)

	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 2, stats.Executed)
	assert.Equal(t, 2, stats.ByAction[models.ActionBuy])
	assert.Equal(t, 1, stats.ByAction[models.ActionSell])
	assert.Equal(t, 1, stats.ByAction[models.ActionHold])
}

func TestStatsOnEmptyLog(t *testing.T) {
	s := newTestStore(t)

	stats, err := s.DecisionStats(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.Total)
	assert.Empty(t, stats.ByAction)
}
