// Package models defines the core data types shared across the pipeline.
package models

// OHLCV holds a single market snapshot entry for one asset.
type OHLCV struct {
	Open   float64
	Close  float64
	Volume float64
}

// MarketSnapshot maps asset symbols to their latest OHLCV data.
type MarketSnapshot map[string]OHLCV

// SentimentSnapshot holds crowd sentiment indicators.
type SentimentSnapshot struct {
	FearGreedIndex int            `json:"fear_greed"`
	MentionCounts  map[string]int `json:"mentions"`
}

// SignalBundle groups the three raw signal categories collected for one run.
// A bundle is built once per run and read-only downstream.
type SignalBundle struct {
	Market    MarketSnapshot
	News      string
	Sentiment SentimentSnapshot
}
