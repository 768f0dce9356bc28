// Package signals gathers the raw market, news and sentiment inputs for a run.
package signals

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"alphagpt/internal/models"
)

// MarketProvider supplies the latest market snapshot.
type MarketProvider interface {
	MarketData(ctx context.Context) (models.MarketSnapshot, error)
}

// NewsProvider supplies a macro-news digest.
type NewsProvider interface {
	MacroNews(ctx context.Context) (string, error)
}

// SentimentProvider supplies crowd sentiment indicators.
type SentimentProvider interface {
	SentimentData(ctx context.Context) (models.SentimentSnapshot, error)
}

// Collector gathers the three signal categories into one bundle.
type Collector struct {
	market    MarketProvider
	news      NewsProvider
	sentiment SentimentProvider
	logger    zerolog.Logger
}

// NewCollector creates a collector over the given providers.
func NewCollector(market MarketProvider, news NewsProvider, sentiment SentimentProvider, logger zerolog.Logger) *Collector {
	return &Collector{
		market:    market,
		news:      news,
		sentiment: sentiment,
		logger:    logger,
	}
}

// Collect gathers one immutable SignalBundle. Each provider failure aborts
// collection: a run without a complete bundle has nothing to synthesize.
func (c *Collector) Collect(ctx context.Context) (*models.SignalBundle, error) {
	c.logger.Info().Msg("Collecting market data")
	market, err := c.market.MarketData(ctx)
	if err != nil {
		return nil, fmt.Errorf("collecting market data: %w", err)
	}

	c.logger.Info().Msg("Collecting macro news")
	news, err := c.news.MacroNews(ctx)
	if err != nil {
		return nil, fmt.Errorf("collecting macro news: %w", err)
	}

	c.logger.Info().Msg("Collecting sentiment data")
	sentiment, err := c.sentiment.SentimentData(ctx)
	if err != nil {
		return nil, fmt.Errorf("collecting sentiment data: %w", err)
	}

	return &models.SignalBundle{
		Market:    market,
		News:      news,
		Sentiment: sentiment,
	}, nil
}
