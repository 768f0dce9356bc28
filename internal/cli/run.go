package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"alphagpt/internal/agents"
	"alphagpt/internal/exchange"
	"alphagpt/internal/orchestrator"
	"alphagpt/internal/risk"
	"alphagpt/internal/signals"
	"alphagpt/internal/store"
	"alphagpt/internal/trading"
)

func newRunCmd(app *App) *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Perform one pipeline pass",
		Long: `Run collects signals, queries the analyst and strategist agents, parses
the decision, applies the risk guard, executes (or simulates) the trade and
appends the decision to the durable log. Exit status is 0 when the run
completes and non-zero when it aborts.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			if app.Config.Credentials.OpenAI.APIKey == "" {
				return fmt.Errorf("OPENAI_API_KEY is not configured")
			}

			decisionStore, err := store.NewSQLiteStore(defaultDBPath())
			if err != nil {
				return fmt.Errorf("opening decision log: %w", err)
			}
			defer decisionStore.Close()

			orch := buildPipeline(app, decisionStore)

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			report := orch.Run(ctx)

			if output.IsJSON() {
				output.JSON(reportView(report))
			} else {
				printReport(output, report)
			}

			if report.State != orchestrator.StateDone {
				return fmt.Errorf("run aborted: %v", report.Err)
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "overall run timeout")

	return cmd
}

// buildPipeline wires the orchestrator from configuration. The exchange is
// live Binance when credentials are present, otherwise a paper exchange
// seeded with the trade cap so simulated runs can size trades.
func buildPipeline(app *App, decisionStore store.DecisionStore) *orchestrator.Orchestrator {
	cfg := app.Config
	logger := app.Logger

	var ex exchange.Exchange
	if cfg.Credentials.Binance.APIKey != "" {
		ex = exchange.NewBinanceExchange(cfg.Credentials.Binance.APIKey, cfg.Credentials.Binance.APISecret)
		logger.Debug().Msg("Binance exchange client initialized")
	} else {
		ex = exchange.NewPaperExchange(map[string]float64{
			cfg.Trading.QuoteAsset: cfg.Risk.CapPerTrade * 2,
		})
		logger.Debug().Msg("Paper exchange initialized")
	}

	provider := signals.NewStaticProvider()
	collector := signals.NewCollector(provider, provider, provider, logger)

	gateway := agents.NewGateway(agents.NewOpenAIClient(cfg.Credentials.OpenAI.APIKey), logger)
	synth := agents.NewCoordinator(gateway, cfg.Agents.Model, cfg.Agents.MaxRetries, cfg.Agents.RetryDelay, logger)

	guard := risk.NewGuard(cfg.Risk, logger)
	executor := trading.NewExecutor(ex, logger)

	return orchestrator.New(cfg, collector, synth, guard, executor, ex, decisionStore, logger)
}

type runView struct {
	State    string `json:"state"`
	Action   string `json:"action,omitempty"`
	Asset    string `json:"asset,omitempty"`
	Mode     string `json:"mode,omitempty"`
	OrderID  string `json:"order_id,omitempty"`
	Error    string `json:"error,omitempty"`
	Decision string `json:"decision,omitempty"`
}

func reportView(report orchestrator.RunReport) runView {
	view := runView{State: string(report.State)}
	if report.Decision != nil {
		view.Action = string(report.Decision.Action)
		view.Asset = report.Decision.Asset
		view.Decision = report.Decision.RawText
	}
	if report.Outcome != nil {
		view.Mode = string(report.Outcome.Mode)
		view.OrderID = report.Outcome.OrderID
		if report.Outcome.Err != nil {
			view.Error = report.Outcome.Err.Error()
		}
	}
	if report.Err != nil {
		view.Error = report.Err.Error()
	}
	return view
}

func printReport(output *Output, report orchestrator.RunReport) {
	if report.State == orchestrator.StateDone {
		output.Success("Run complete")
	} else {
		output.Error("Run aborted: %v", report.Err)
	}

	if report.Decision != nil {
		output.Printf("  Decision: %s", report.Decision.Action)
		if report.Decision.Asset != "" {
			output.Printf(" %s", report.Decision.Asset)
		}
		output.Println()
	}
	if report.Outcome != nil {
		output.Printf("  Mode:     %s\n", report.Outcome.Mode)
		if report.Outcome.OrderID != "" {
			output.Printf("  Order:    %s\n", report.Outcome.OrderID)
		}
		if report.Outcome.Err != nil {
			output.Warning("  Execution error: %v", report.Outcome.Err)
		}
	}
}
