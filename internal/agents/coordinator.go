package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	apperrors "alphagpt/internal/errors"
	"alphagpt/internal/models"
)

// Analyst agent names. Each analyzes one slice of the signal bundle.
const (
	AgentNewsMacro  = "news-macro"
	AgentSentiment  = "sentiment"
	AgentTechnical  = "technical"
	AgentStrategist = "strategist"
)

// unavailablePlaceholder substitutes a failed analyst's section so a single
// agent outage never aborts synthesis.
const unavailablePlaceholder = "[agent unavailable]"

// Coordinator drives the gateway across the three analysts and the
// strategist to produce one raw decision string.
type Coordinator struct {
	gateway    *Gateway
	model      string
	maxRetries int
	retryDelay time.Duration
	logger     zerolog.Logger
}

// NewCoordinator creates a synthesis coordinator.
func NewCoordinator(gateway *Gateway, model string, maxRetries int, retryDelay time.Duration, logger zerolog.Logger) *Coordinator {
	return &Coordinator{
		gateway:    gateway,
		model:      model,
		maxRetries: maxRetries,
		retryDelay: retryDelay,
		logger:     logger,
	}
}

// Synthesize queries the three analysts in parallel, joins their outputs
// (or placeholders) into one synthesis document and asks the strategist for
// the final decision text. It fails only when the strategist itself
// exhausts its retries.
func (c *Coordinator) Synthesize(ctx context.Context, bundle *models.SignalBundle) (string, error) {
	prompts, err := analystPrompts(bundle)
	if err != nil {
		return "", fmt.Errorf("building analyst prompts: %w", err)
	}

	// The analyst calls are mutually independent; issue them in parallel
	// and join before building the strategist prompt. A failed analyst
	// degrades to a placeholder, never a propagated error.
	sections := make([]string, len(prompts))
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range prompts {
		i, p := i, p
		g.Go(func() error {
			text, err := c.gateway.Call(gctx, Query{
				AgentName:  p.agent,
				Prompt:     p.prompt,
				Model:      c.model,
				MaxRetries: c.maxRetries,
				RetryDelay: c.retryDelay,
			})
			if err != nil {
				c.logger.Warn().Str("agent", p.agent).Err(err).Msg("Analyst degraded to placeholder")
				text = unavailablePlaceholder
			}
			sections[i] = text
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	synthesis := fmt.Sprintf("NEWS:\n%s\n\nSENTIMENT:\n%s\n\nTECH:\n%s", sections[0], sections[1], sections[2])

	decision, err := c.gateway.Call(ctx, Query{
		AgentName:  AgentStrategist,
		Prompt:     synthesis,
		Model:      c.model,
		MaxRetries: c.maxRetries,
		RetryDelay: c.retryDelay,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrStrategistUnavailable, err)
	}

	c.logger.Info().Str("decision", decision).Msg("Strategic decision received")
	return decision, nil
}

type analystPrompt struct {
	agent  string
	prompt string
}

// analystPrompts derives one prompt per analyst from its slice of the
// bundle. Order is fixed: news, sentiment, technical.
func analystPrompts(bundle *models.SignalBundle) ([]analystPrompt, error) {
	sentimentJSON, err := json.Marshal(bundle.Sentiment)
	if err != nil {
		return nil, err
	}
	marketJSON, err := json.Marshal(bundle.Market)
	if err != nil {
		return nil, err
	}

	return []analystPrompt{
		{agent: AgentNewsMacro, prompt: bundle.News},
		{agent: AgentSentiment, prompt: string(sentimentJSON)},
		{agent: AgentTechnical, prompt: string(marketJSON)},
	}, nil
}
