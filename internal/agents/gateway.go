package agents

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	apperrors "alphagpt/internal/errors"
	"alphagpt/internal/logging"
	"alphagpt/pkg/retry"
)

// Query describes one call to a named agent. Constructed per call; never
// persisted.
type Query struct {
	AgentName  string
	Prompt     string
	Model      string
	MaxRetries int
	RetryDelay time.Duration
}

// Gateway sends prompts to named agents with bounded retries.
type Gateway struct {
	client LLMClient
	logger zerolog.Logger
}

// NewGateway creates an agent gateway over the given LLM client.
func NewGateway(client LLMClient, logger zerolog.Logger) *Gateway {
	return &Gateway{
		client: client,
		logger: logger,
	}
}

// Call sends the query to its agent. Transient service errors are retried
// up to MaxRetries attempts total, waiting RetryDelay between attempts.
// On exhaustion it returns ErrAgentExhausted wrapped in an AgentError; the
// caller decides whether to degrade or abort.
func (g *Gateway) Call(ctx context.Context, q Query) (string, error) {
	if q.Prompt == "" {
		return "", apperrors.ErrEmptyPrompt
	}
	if q.MaxRetries < 1 {
		return "", fmt.Errorf("max retries must be at least 1, got %d", q.MaxRetries)
	}

	logger := logging.WithAgent(g.logger, q.AgentName)
	systemPrompt := fmt.Sprintf("You are %s, an expert structured AI agent.", q.AgentName)

	cfg := retry.Config{
		MaxAttempts:  q.MaxRetries,
		InitialDelay: q.RetryDelay,
		OnAttempt: func(attempt int, err error) {
			entry := logger.Info().Int("attempt", attempt).Int("max_attempts", q.MaxRetries)
			if err != nil {
				entry = logger.Warn().Int("attempt", attempt).Int("max_attempts", q.MaxRetries).Err(err)
			}
			entry.Msg("Agent call attempt")
		},
	}

	text, err := retry.DoWithResult(ctx, cfg, func() (string, error) {
		return g.client.CompleteWithSystem(ctx, systemPrompt, q.Prompt, q.Model)
	})
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", apperrors.NewAgentError(q.AgentName, q.MaxRetries, fmt.Errorf("%w: %v", apperrors.ErrAgentExhausted, err))
	}

	return text, nil
}
