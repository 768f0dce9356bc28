package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Action is the structured interpretation of a strategist response.
type Action string

const (
	ActionBuy          Action = "BUY"
	ActionSell         Action = "SELL"
	ActionHold         Action = "HOLD"
	ActionUnrecognized Action = "UNRECOGNIZED"
)

// IsTradable reports whether the action can produce a trade intent.
func (a Action) IsTradable() bool {
	return a == ActionBuy || a == ActionSell
}

// Decision is the parsed form of the strategist's free-text output.
// Immutable once created; it is the unit persisted to the decision log.
type Decision struct {
	Action    Action
	Asset     string // empty when the response named no asset
	RawText   string // strategist output preserved verbatim for audit
	Timestamp time.Time
}

// TradeIntent is a risk-checked order request. It is only constructed for
// BUY or SELL decisions whose sizing passed the risk guard.
type TradeIntent struct {
	Action   Action
	Symbol   string // BASE/QUOTE, e.g. BTC/USDT
	Quantity decimal.Decimal
}

// ExecutionMode distinguishes how (or whether) an intent was executed.
type ExecutionMode string

const (
	ModeLive      ExecutionMode = "LIVE"
	ModeSimulated ExecutionMode = "SIMULATED"
	ModeSkipped   ExecutionMode = "SKIPPED"
)

// ExecutionOutcome describes the single execution result of a run.
type ExecutionOutcome struct {
	Mode    ExecutionMode
	OrderID string // empty unless a live order was accepted
	Err     error  // exchange or balance failure, nil otherwise
}

// DecisionRecord is one row of the append-only decision log consumed by the
// external dashboard.
type DecisionRecord struct {
	ID        int64
	Timestamp time.Time
	Action    Action
	Asset     string
	RawText   string
	Mode      ExecutionMode
	OrderID   string
	Error     string
	PnL       *float64
}

// DecisionStats aggregates the log for the decisions CLI and the dashboard.
type DecisionStats struct {
	Total    int
	ByAction map[Action]int
	Executed int
}
