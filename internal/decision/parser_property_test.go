package decision

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"alphagpt/internal/models"
)

// Property: the parser is total. For any string input a decision with a
// valid action is returned; the raw text survives verbatim.
func TestProperty_ParserIsTotal(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	validActions := map[models.Action]bool{
		models.ActionBuy:          true,
		models.ActionSell:         true,
		models.ActionHold:         true,
		models.ActionUnrecognized: true,
	}

	properties.Property("any input yields a valid action and preserves raw text", prop.ForAll(
		func(raw string) bool {
			d := Parse(raw, time.Now())
			return validActions[d.Action] && d.RawText == raw
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}

// Property: parsing is idempotent. Two parses of the same text agree on
// everything but the timestamp.
func TestProperty_ParserIsIdempotent(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("same text parses identically", prop.ForAll(
		func(raw string) bool {
			now := time.Now()
			first := Parse(raw, now)
			second := Parse(raw, now)
			return first == second
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}

// Property: any text starting with "buy" (any case) followed by a token
// parses to a BUY of that token uppercased.
func TestProperty_BuyPrefixYieldsBuyDecision(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	assetGen := gen.RegexMatch(`[A-Za-z]{2,6}`)
	buyGen := gen.OneConstOf("buy", "BUY", "Buy", "bUy")

	properties.Property("buy prefix with asset", prop.ForAll(
		func(verb, asset string) bool {
			d := Parse(verb+" "+asset, time.Now())
			return d.Action == models.ActionBuy && d.Asset == upper(asset)
		},
		buyGen,
		assetGen,
	))

	properties.TestingRun(t)
}

func upper(s string) string {
	out := []rune(s)
	for i, r := range out {
		if r >= 'a' && r <= 'z' {
			out[i] = r - 32
		}
	}
	return string(out)
}

func TestParseTable(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name   string
		raw    string
		action models.Action
		asset  string
	}{
		{"buy with asset", "BUY BTC", models.ActionBuy, "BTC"},
		{"lowercase buy", "buy btc", models.ActionBuy, "BTC"},
		{"sell with asset", "SELL BTC", models.ActionSell, "BTC"},
		{"sell with commentary", "sell eth because momentum faded", models.ActionSell, "ETH"},
		{"hold", "HOLD", models.ActionHold, ""},
		{"hold with asset", "hold btc", models.ActionHold, "BTC"},
		{"empty", "", models.ActionUnrecognized, ""},
		{"whitespace only", "   \n\t ", models.ActionUnrecognized, ""},
		{"free text", "The market looks uncertain today.", models.ActionUnrecognized, ""},
		{"buy without asset", "BUY", models.ActionBuy, ""},
		{"leading whitespace", "  buy BTC", models.ActionBuy, "BTC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Parse(tt.raw, now)
			if d.Action != tt.action {
				t.Errorf("action = %s, want %s", d.Action, tt.action)
			}
			if d.Asset != tt.asset {
				t.Errorf("asset = %q, want %q", d.Asset, tt.asset)
			}
			if d.RawText != tt.raw {
				t.Errorf("raw text not preserved: %q", d.RawText)
			}
			if !d.Timestamp.Equal(now) {
				t.Errorf("timestamp not set from now")
			}
		})
	}
}
