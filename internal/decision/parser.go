// Package decision interprets strategist free text into structured decisions.
package decision

import (
	"strings"
	"time"

	"alphagpt/internal/models"
)

// Parse interprets the strategist's raw output. It is total: any input,
// including garbage, yields a Decision with a valid action. LLM output is
// free text and must never crash the pipeline.
//
// The first whitespace-delimited token selects the action (case-insensitive
// BUY, SELL or HOLD; anything else is UNRECOGNIZED). The second token, if
// present, is the asset symbol, uppercased. The raw text is preserved
// verbatim for audit.
func Parse(rawText string, now time.Time) models.Decision {
	d := models.Decision{
		Action:    models.ActionUnrecognized,
		RawText:   rawText,
		Timestamp: now,
	}

	tokens := strings.Fields(rawText)
	if len(tokens) == 0 {
		return d
	}

	switch strings.ToUpper(tokens[0]) {
	case string(models.ActionBuy):
		d.Action = models.ActionBuy
	case string(models.ActionSell):
		d.Action = models.ActionSell
	case string(models.ActionHold):
		// Kept distinct from UNRECOGNIZED so the log can tell deliberate
		// holds from noise, even though neither produces a trade.
		d.Action = models.ActionHold
	default:
		return d
	}

	if len(tokens) > 1 {
		d.Asset = strings.ToUpper(tokens[1])
	}

	return d
}
