package agents

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "alphagpt/internal/errors"
	"alphagpt/internal/models"
)

func testBundle() *models.SignalBundle {
	return &models.SignalBundle{
		Market: models.MarketSnapshot{
			"BTC": {Open: 65000, Close: 65500, Volume: 1250},
		},
		News: "US inflation above expectations.",
		Sentiment: models.SentimentSnapshot{
			FearGreedIndex: 34,
			MentionCounts:  map[string]int{"BTC": 1500},
		},
	}
}

// recordingLLM tracks the prompts each agent received.
type recordingLLM struct {
	fakeLLM
	promptsMu sync.Mutex
	prompts   map[string][]string
}

func newRecordingLLM() *recordingLLM {
	return &recordingLLM{
		fakeLLM: *newFakeLLM(),
		prompts: make(map[string][]string),
	}
}

func (r *recordingLLM) CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt, model string) (string, error) {
	name := agentFromSystemPrompt(systemPrompt)
	r.promptsMu.Lock()
	r.prompts[name] = append(r.prompts[name], userPrompt)
	r.promptsMu.Unlock()
	return r.fakeLLM.CompleteWithSystem(ctx, systemPrompt, userPrompt, model)
}

func (r *recordingLLM) promptsFor(name string) []string {
	r.promptsMu.Lock()
	defer r.promptsMu.Unlock()
	return r.prompts[name]
}

func newTestCoordinator(llm LLMClient) *Coordinator {
	gateway := NewGateway(llm, zerolog.Nop())
	return NewCoordinator(gateway, "gpt-4", 3, time.Millisecond, zerolog.Nop())
}

func TestSynthesizeHappyPath(t *testing.T) {
	llm := newRecordingLLM()
	llm.responses[AgentStrategist] = "SELL BTC"

	coordinator := newTestCoordinator(llm)

	decision, err := coordinator.Synthesize(context.Background(), testBundle())
	require.NoError(t, err)
	assert.Equal(t, "SELL BTC", decision)

	// The strategist sees all three analyst sections.
	strategistPrompts := llm.promptsFor(AgentStrategist)
	require.Len(t, strategistPrompts, 1)
	doc := strategistPrompts[0]
	assert.Contains(t, doc, "NEWS:\n")
	assert.Contains(t, doc, "SENTIMENT:\n")
	assert.Contains(t, doc, "TECH:\n")
	assert.Contains(t, doc, "news-macro analysis")
	assert.Contains(t, doc, "sentiment analysis")
	assert.Contains(t, doc, "technical analysis")
}

func TestSynthesizeDegradedAnalyst(t *testing.T) {
	llm := newRecordingLLM()
	llm.failAll[AgentSentiment] = true
	llm.responses[AgentStrategist] = "HOLD"

	coordinator := newTestCoordinator(llm)

	decision, err := coordinator.Synthesize(context.Background(), testBundle())
	require.NoError(t, err)
	assert.Equal(t, "HOLD", decision)

	// Strategist was still called exactly once, with a placeholder section
	// for the failed analyst and real text for the other two.
	strategistPrompts := llm.promptsFor(AgentStrategist)
	require.Len(t, strategistPrompts, 1)
	doc := strategistPrompts[0]
	assert.Contains(t, doc, unavailablePlaceholder)
	assert.Contains(t, doc, "news-macro analysis")
	assert.Contains(t, doc, "technical analysis")
	assert.NotContains(t, doc, "sentiment analysis")
}

func TestSynthesizeAllAnalystsDegraded(t *testing.T) {
	llm := newRecordingLLM()
	llm.failAll[AgentNewsMacro] = true
	llm.failAll[AgentSentiment] = true
	llm.failAll[AgentTechnical] = true
	llm.responses[AgentStrategist] = "HOLD"

	coordinator := newTestCoordinator(llm)

	decision, err := coordinator.Synthesize(context.Background(), testBundle())
	require.NoError(t, err)
	assert.Equal(t, "HOLD", decision)

	doc := llm.promptsFor(AgentStrategist)[0]
	assert.Equal(t, 3, strings.Count(doc, unavailablePlaceholder))
}

func TestSynthesizeStrategistUnavailable(t *testing.T) {
	llm := newRecordingLLM()
	llm.failAll[AgentStrategist] = true

	coordinator := newTestCoordinator(llm)

	_, err := coordinator.Synthesize(context.Background(), testBundle())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrStrategistUnavailable)
}

func TestAnalystPromptsDeriveFromBundle(t *testing.T) {
	llm := newRecordingLLM()
	llm.responses[AgentStrategist] = "HOLD"

	coordinator := newTestCoordinator(llm)

	_, err := coordinator.Synthesize(context.Background(), testBundle())
	require.NoError(t, err)

	newsPrompts := llm.promptsFor(AgentNewsMacro)
	require.Len(t, newsPrompts, 1)
	assert.Equal(t, "US inflation above expectations.", newsPrompts[0])

	sentimentPrompts := llm.promptsFor(AgentSentiment)
	require.Len(t, sentimentPrompts, 1)
	assert.Contains(t, sentimentPrompts[0], `"fear_greed":34`)

	technicalPrompts := llm.promptsFor(AgentTechnical)
	require.Len(t, technicalPrompts, 1)
	assert.Contains(t, technicalPrompts[0], `"BTC"`)
}
