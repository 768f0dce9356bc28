package cli

import (
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"alphagpt/internal/config"
	"alphagpt/internal/logging"
)

// Version information
const Version = "0.1.0"

// App holds the application dependencies shared by the commands.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
}

// NewRootCmd creates the root command for the CLI. Configuration and the
// logger are built in PersistentPreRunE so the --config flag is parsed by
// cobra exactly once.
func NewRootCmd() *cobra.Command {
	app := &App{}

	rootCmd := &cobra.Command{
		Use:   "alphagpt",
		Short: "Alpha GPT - AI-driven crypto trading pipeline",
		Long: `Alpha GPT runs an automated decision-and-execution pipeline: it collects
market, news and sentiment signals, asks four specialized LLM agents for a
trading decision, and executes that decision against the exchange unless
simulation mode is enabled.

Use 'alphagpt run' to perform one pipeline pass.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			configDir, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(configDir)
			if err != nil {
				return fmt.Errorf("loading configuration: %w", err)
			}
			app.Config = cfg
			app.Logger = logging.NewLogger()

			if debug, _ := cmd.Flags().GetBool("debug"); debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/alphagpt)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(newRunCmd(app))
	rootCmd.AddCommand(newDecisionsCmd(app))
	rootCmd.AddCommand(newConfigCmd(app))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// defaultDBPath returns the decision log location inside the config dir.
func defaultDBPath() string {
	return filepath.Join(config.DefaultConfigDir(), "decisions.db")
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"version": Version})
			} else {
				output.Printf("Alpha GPT v%s\n", Version)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and manage application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			showConfig(output, app.Config)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"path": config.DefaultConfigDir()})
			} else {
				output.Println(config.DefaultConfigDir())
			}
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration files",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				output.JSON(map[string]bool{"valid": true})
			} else {
				output.Success("Configuration is valid")
			}
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) {
	output.Bold("Trading Configuration")
	output.Printf("  Simulation Mode: %v\n", cfg.Trading.SimulationMode)
	output.Printf("  Quote Asset:     %s\n", cfg.Trading.QuoteAsset)
	output.Println()

	output.Bold("Risk Configuration")
	output.Printf("  Cap Per Trade:   %.2f\n", cfg.Risk.CapPerTrade)
	output.Printf("  Min Viable:      %.2f\n", cfg.Risk.MinViable)
	output.Printf("  Reference Price: %.2f\n", cfg.Risk.ReferencePrice)
	output.Printf("  Sell Default:    %.5f\n", cfg.Risk.SellDefaultQty)
	output.Println()

	output.Bold("Agent Configuration")
	output.Printf("  Model:           %s\n", cfg.Agents.Model)
	output.Printf("  Max Retries:     %d\n", cfg.Agents.MaxRetries)
	output.Printf("  Retry Delay:     %s\n", cfg.Agents.RetryDelay)
}
