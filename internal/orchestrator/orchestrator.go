// Package orchestrator composes one pipeline run: collect, synthesize,
// parse, risk-check, execute, record.
package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"alphagpt/internal/agents"
	"alphagpt/internal/config"
	"alphagpt/internal/decision"
	apperrors "alphagpt/internal/errors"
	"alphagpt/internal/exchange"
	"alphagpt/internal/logging"
	"alphagpt/internal/models"
	"alphagpt/internal/risk"
	"alphagpt/internal/signals"
	"alphagpt/internal/store"
	"alphagpt/internal/trading"
)

// State is a pipeline run state. Transitions are strictly forward; no state
// is revisited within a run.
type State string

const (
	StateCollecting   State = "COLLECTING"
	StateSynthesizing State = "SYNTHESIZING"
	StateParsing      State = "PARSING"
	StateRiskCheck    State = "RISK_CHECK"
	StateExecuting    State = "EXECUTING"
	StateRecording    State = "RECORDING"
	StateDone         State = "DONE"
	StateAborted      State = "ABORTED"
)

// RunReport is the single final status of one run.
type RunReport struct {
	State    State
	Decision *models.Decision
	Outcome  *models.ExecutionOutcome
	Err      error
}

// Orchestrator owns the sequencing of one pipeline pass.
type Orchestrator struct {
	cfg       *config.Config
	collector *signals.Collector
	synth     *agents.Coordinator
	guard     *risk.Guard
	executor  *trading.Executor
	exchange  exchange.Exchange
	store     store.DecisionStore
	logger    zerolog.Logger

	now func() time.Time
}

// New creates an orchestrator from its collaborators. Configuration is
// passed explicitly; the orchestrator holds no ambient global state.
func New(
	cfg *config.Config,
	collector *signals.Collector,
	synth *agents.Coordinator,
	guard *risk.Guard,
	executor *trading.Executor,
	ex exchange.Exchange,
	decisionStore store.DecisionStore,
	logger zerolog.Logger,
) *Orchestrator {
	return &Orchestrator{
		cfg:       cfg,
		collector: collector,
		synth:     synth,
		guard:     guard,
		executor:  executor,
		exchange:  ex,
		store:     decisionStore,
		logger:    logger,
		now:       time.Now,
	}
}

// Run performs exactly one pipeline pass. Every run terminates in DONE or
// ABORTED and produces one final report; no error escapes uncaught. Callers
// wanting a timeout wrap ctx; expiry before EXECUTING aborts the run, and a
// live order already submitted is never cancelled mid-flight.
func (o *Orchestrator) Run(ctx context.Context) RunReport {
	o.logStage(StateCollecting)
	bundle, err := o.collector.Collect(ctx)
	if err != nil {
		return o.abort(nil, nil, err)
	}

	o.logStage(StateSynthesizing)
	rawDecision, err := o.synth.Synthesize(ctx, bundle)
	if err != nil {
		// Strategist exhaustion: no decision exists, nothing to record.
		return o.abort(nil, nil, err)
	}

	o.logStage(StateParsing)
	d := decision.Parse(rawDecision, o.now())
	logging.LogDecision(o.logger, string(d.Action), d.Asset, d.RawText)

	o.logStage(StateRiskCheck)
	intent, outcome := o.riskCheck(ctx, bundle, d)

	if intent != nil && ctx.Err() != nil {
		// Caller timeout expired before execution started; never begin a
		// live submission on a dead context. The decision is still durably
		// recorded, then the run aborts.
		outcome = &models.ExecutionOutcome{Mode: models.ModeSkipped, Err: ctx.Err()}
		o.logStage(StateRecording)
		if err := o.record(context.WithoutCancel(ctx), d, *outcome); err != nil {
			return o.abort(&d, outcome, err)
		}
		return o.abort(&d, outcome, ctx.Err())
	}

	if intent != nil {
		o.logStage(StateExecuting)
		executed := o.executor.Execute(ctx, *intent, o.mode())
		outcome = &executed
	}

	o.logStage(StateRecording)
	if err := o.record(ctx, d, *outcome); err != nil {
		return o.abort(&d, outcome, err)
	}

	if outcome.Err != nil && apperrors.Is(outcome.Err, apperrors.ErrBalanceUnavailable) {
		// Balance failure is fatal for the run even though the decision
		// itself was durably recorded.
		return o.abort(&d, outcome, outcome.Err)
	}

	o.logger.Info().
		Str("state", string(StateDone)).
		Str("action", string(d.Action)).
		Str("mode", string(outcome.Mode)).
		Msg("Run complete")

	return RunReport{State: StateDone, Decision: &d, Outcome: outcome}
}

// riskCheck sizes the decision into a trade intent, or explains why no
// trade happens. The balance read here is the single snapshot used for
// sizing; execution does not re-query it.
func (o *Orchestrator) riskCheck(ctx context.Context, bundle *models.SignalBundle, d models.Decision) (*models.TradeIntent, *models.ExecutionOutcome) {
	if !d.Action.IsTradable() {
		o.logger.Info().Str("action", string(d.Action)).Msg("No trade executed")
		return nil, &models.ExecutionOutcome{Mode: models.ModeSkipped}
	}
	if d.Asset == "" {
		o.logger.Warn().Str("raw", d.RawText).Msg("Tradable action without asset, skipping")
		return nil, &models.ExecutionOutcome{Mode: models.ModeSkipped}
	}

	quote := o.cfg.Trading.QuoteAsset
	symbol := exchange.Pair(d.Asset, quote)

	var available decimal.Decimal
	var holdings *decimal.Decimal

	switch d.Action {
	case models.ActionBuy:
		balance, err := o.exchange.GetBalance(ctx, quote)
		if err != nil {
			o.logger.Error().Err(err).Msg("Balance unavailable, aborting run")
			return nil, &models.ExecutionOutcome{
				Mode: models.ModeSkipped,
				Err:  fmt.Errorf("%w: %v", apperrors.ErrBalanceUnavailable, err),
			}
		}
		available = balance
	case models.ActionSell:
		held, err := o.exchange.GetBalance(ctx, d.Asset)
		if err != nil {
			// Holdings are advisory for SELL sizing; fall back to the
			// configured default quantity.
			o.logger.Warn().Err(err).Msg("Holdings unavailable, using default SELL quantity")
		} else {
			holdings = &held
		}
	}

	quantity, ok := o.guard.SizeTrade(d.Action, available, o.referencePrice(bundle, d.Asset), holdings)
	if !ok {
		return nil, &models.ExecutionOutcome{Mode: models.ModeSkipped}
	}

	return &models.TradeIntent{
		Action:   d.Action,
		Symbol:   symbol,
		Quantity: quantity,
	}, nil
}

// referencePrice prefers the collected close price for the asset and falls
// back to the configured reference.
func (o *Orchestrator) referencePrice(bundle *models.SignalBundle, asset string) decimal.Decimal {
	if snapshot, ok := bundle.Market[asset]; ok && snapshot.Close > 0 {
		return decimal.NewFromFloat(snapshot.Close)
	}
	return decimal.NewFromFloat(o.cfg.Risk.ReferencePrice)
}

// record appends the decision with its execution outcome to the durable
// log. Execution failure is recorded alongside the decision, not instead
// of it.
func (o *Orchestrator) record(ctx context.Context, d models.Decision, outcome models.ExecutionOutcome) error {
	record := &models.DecisionRecord{
		Timestamp: d.Timestamp,
		Action:    d.Action,
		Asset:     d.Asset,
		RawText:   d.RawText,
		Mode:      outcome.Mode,
		OrderID:   outcome.OrderID,
	}
	if outcome.Err != nil {
		record.Error = outcome.Err.Error()
	}

	if err := o.store.AppendDecision(ctx, record); err != nil {
		return apperrors.Wrap(err, "recording decision")
	}
	return nil
}

func (o *Orchestrator) mode() models.ExecutionMode {
	if o.cfg.IsSimulation() {
		return models.ModeSimulated
	}
	return models.ModeLive
}

func (o *Orchestrator) logStage(state State) {
	stageLogger := logging.WithStage(o.logger, string(state))
	stageLogger.Debug().Msg("Stage")
}

func (o *Orchestrator) abort(d *models.Decision, outcome *models.ExecutionOutcome, err error) RunReport {
	o.logger.Error().Err(err).Str("state", string(StateAborted)).Msg("Run aborted")
	return RunReport{State: StateAborted, Decision: d, Outcome: outcome, Err: err}
}
