package signals

import (
	"context"

	"alphagpt/internal/models"
)

// StaticProvider serves fixed signal data. Production data sources are not
// wired yet; the pipeline treats them as pluggable collaborators, so the
// static provider stands in for all three categories.
type StaticProvider struct {
	Market    models.MarketSnapshot
	News      string
	Sentiment models.SentimentSnapshot
}

// NewStaticProvider returns a provider with the default placeholder data.
func NewStaticProvider() *StaticProvider {
	return &StaticProvider{
		Market: models.MarketSnapshot{
			"BTC": {Open: 65000, Close: 65500, Volume: 1250},
		},
		News: "US inflation above expectations. Fed reaction anticipated.",
		Sentiment: models.SentimentSnapshot{
			FearGreedIndex: 34,
			MentionCounts:  map[string]int{"BTC": 1500},
		},
	}
}

// MarketData returns the configured market snapshot.
func (p *StaticProvider) MarketData(ctx context.Context) (models.MarketSnapshot, error) {
	return p.Market, nil
}

// MacroNews returns the configured news digest.
func (p *StaticProvider) MacroNews(ctx context.Context) (string, error) {
	return p.News, nil
}

// SentimentData returns the configured sentiment snapshot.
func (p *StaticProvider) SentimentData(ctx context.Context) (models.SentimentSnapshot, error) {
	return p.Sentiment, nil
}
