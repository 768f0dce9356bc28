// Package config provides configuration management for the trading pipeline.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	apperrors "alphagpt/internal/errors"
)

// Config holds all application configuration. It is constructed once at
// process start and passed explicitly into the orchestrator; nothing reads
// it from package globals.
type Config struct {
	Trading     TradingConfig `mapstructure:"trading"`
	Risk        RiskConfig    `mapstructure:"risk"`
	Agents      AgentConfig   `mapstructure:"agents"`
	Credentials Credentials   `mapstructure:"-"` // Loaded separately
}

// TradingConfig holds trading-related configuration.
type TradingConfig struct {
	SimulationMode bool   `mapstructure:"simulation_mode"`
	QuoteAsset     string `mapstructure:"quote_asset"` // trades are sized in this asset
}

// RiskConfig holds the risk guard parameters.
type RiskConfig struct {
	CapPerTrade     float64 `mapstructure:"cap_per_trade"`     // max notional per BUY, in quote asset
	MinViable       float64 `mapstructure:"min_viable"`        // below this notional the trade is skipped
	ReferencePrice  float64 `mapstructure:"reference_price"`   // fallback price used for BUY sizing
	SellDefaultQty  float64 `mapstructure:"sell_default_qty"`  // base-asset quantity sold per SELL
	QuantityStep    float64 `mapstructure:"quantity_step"`     // minimum tradable increment
}

// AgentConfig holds LLM agent configuration.
type AgentConfig struct {
	Model      string        `mapstructure:"model"`
	MaxRetries int           `mapstructure:"max_retries"`
	RetryDelay time.Duration `mapstructure:"retry_delay"`
}

// Credentials holds API credentials.
type Credentials struct {
	OpenAI  OpenAICredentials  `mapstructure:"openai"`
	Binance BinanceCredentials `mapstructure:"binance"`
}

// OpenAICredentials holds OpenAI API credentials.
type OpenAICredentials struct {
	APIKey string `mapstructure:"api_key"`
}

// BinanceCredentials holds Binance API credentials.
type BinanceCredentials struct {
	APIKey    string `mapstructure:"api_key"`
	APISecret string `mapstructure:"api_secret"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/alphagpt"
	}
	return filepath.Join(home, ".config", "alphagpt")
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := &Config{}

	if err := loadConfigFile(configDir, cfg); err != nil {
		return nil, fmt.Errorf("loading config.toml: %w", err)
	}

	if err := loadCredentials(configDir, &cfg.Credentials); err != nil {
		return nil, fmt.Errorf("loading credentials.toml: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func loadConfigFile(configDir string, target *Config) error {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	v.SetDefault("trading.simulation_mode", true)
	v.SetDefault("trading.quote_asset", "USDT")
	v.SetDefault("risk.cap_per_trade", 50.0)
	v.SetDefault("risk.min_viable", 10.0)
	v.SetDefault("risk.reference_price", 50000.0)
	v.SetDefault("risk.sell_default_qty", 0.001)
	v.SetDefault("risk.quantity_step", 0.00001)
	v.SetDefault("agents.model", "gpt-4")
	v.SetDefault("agents.max_retries", 3)
	v.SetDefault("agents.retry_delay", 2*time.Second)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
		// First run: write a template and continue with defaults.
		if err := createTemplateConfig(configDir); err != nil {
			return err
		}
	}

	return v.Unmarshal(target)
}

func loadCredentials(configDir string, creds *Credentials) error {
	v := viper.New()
	v.SetConfigName("credentials")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return createTemplateCredentials(configDir)
		}
		return err
	}

	return v.Unmarshal(creds)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.Credentials.OpenAI.APIKey = v
	}
	if v := os.Getenv("BINANCE_API_KEY"); v != "" {
		cfg.Credentials.Binance.APIKey = v
	}
	if v := os.Getenv("BINANCE_API_SECRET"); v != "" {
		cfg.Credentials.Binance.APISecret = v
	}
	if v := os.Getenv("SIMULATION_MODE"); v != "" {
		cfg.Trading.SimulationMode = strings.EqualFold(v, "true") || v == "1"
	}
}

// Validate validates the configuration. All violations wrap ErrConfigInvalid.
func (c *Config) Validate() error {
	if c.Trading.QuoteAsset == "" {
		return fmt.Errorf("%w: quote_asset must not be empty", apperrors.ErrConfigInvalid)
	}
	if c.Risk.CapPerTrade <= 0 {
		return fmt.Errorf("%w: cap_per_trade must be positive", apperrors.ErrConfigInvalid)
	}
	if c.Risk.MinViable < 0 {
		return fmt.Errorf("%w: min_viable must be non-negative", apperrors.ErrConfigInvalid)
	}
	if c.Risk.ReferencePrice <= 0 {
		return fmt.Errorf("%w: reference_price must be positive", apperrors.ErrConfigInvalid)
	}
	if c.Risk.SellDefaultQty < 0 {
		return fmt.Errorf("%w: sell_default_qty must be non-negative", apperrors.ErrConfigInvalid)
	}
	if c.Risk.QuantityStep <= 0 {
		return fmt.Errorf("%w: quantity_step must be positive", apperrors.ErrConfigInvalid)
	}
	if c.Agents.MaxRetries < 1 {
		return fmt.Errorf("%w: max_retries must be at least 1", apperrors.ErrConfigInvalid)
	}
	if c.Agents.RetryDelay < 0 {
		return fmt.Errorf("%w: retry_delay must be non-negative", apperrors.ErrConfigInvalid)
	}
	return nil
}

// IsSimulation returns true when live execution is suppressed.
func (c *Config) IsSimulation() bool {
	return c.Trading.SimulationMode
}
