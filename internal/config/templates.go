package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# alphagpt configuration

[trading]
# When true, orders are logged instead of sent to the exchange.
simulation_mode = true
quote_asset = "USDT"

[risk]
cap_per_trade = 50.0
min_viable = 10.0
reference_price = 50000.0
sell_default_qty = 0.001
quantity_step = 0.00001

[agents]
model = "gpt-4"
max_retries = 3
retry_delay = "2s"
`

const credentialsTemplate = `# alphagpt credentials
# Environment variables OPENAI_API_KEY, BINANCE_API_KEY and
# BINANCE_API_SECRET override these values.

[openai]
api_key = ""

[binance]
api_key = ""
api_secret = ""
`

func createTemplateConfig(configDir string) error {
	return writeTemplate(configDir, "config.toml", configTemplate, 0644)
}

func createTemplateCredentials(configDir string) error {
	// Credentials are secrets; restrict to the owner.
	return writeTemplate(configDir, "credentials.toml", credentialsTemplate, 0600)
}

func writeTemplate(configDir, name, content string, perm os.FileMode) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, name)
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	return os.WriteFile(path, []byte(content), perm)
}
