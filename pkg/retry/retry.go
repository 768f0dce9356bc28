// Package retry provides a bounded retry combinator for transient external calls.
package retry

import (
	"context"
	"math"
	"time"
)

// Config holds retry configuration.
type Config struct {
	MaxAttempts   int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64

	// Retryable decides whether an error is worth another attempt. A nil
	// predicate treats every error as transient.
	Retryable func(error) bool

	// OnAttempt, if set, is invoked after every attempt with the 1-based
	// attempt index and its outcome.
	OnAttempt func(attempt int, err error)
}

// Do executes fn with bounded retries and backoff between attempts.
func Do(ctx context.Context, cfg Config, fn func() error) error {
	_, err := DoWithResult(ctx, cfg, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

// DoWithResult executes fn with bounded retries and returns its result.
// The last error is returned after MaxAttempts failures, or earlier when the
// error is not retryable or the context is cancelled during a backoff wait.
func DoWithResult[T any](ctx context.Context, cfg Config, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	attempts := cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	delay := cfg.InitialDelay

	for attempt := 1; attempt <= attempts; attempt++ {
		result, err := fn()
		if cfg.OnAttempt != nil {
			cfg.OnAttempt(attempt, err)
		}
		if err == nil {
			return result, nil
		}
		lastErr = err

		if cfg.Retryable != nil && !cfg.Retryable(err) {
			return zero, err
		}
		if attempt == attempts {
			break
		}

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(delay):
		}

		if cfg.BackoffFactor > 1 {
			delay = time.Duration(float64(delay) * cfg.BackoffFactor)
			if cfg.MaxDelay > 0 && delay > cfg.MaxDelay {
				delay = cfg.MaxDelay
			}
		}
	}

	return zero, lastErr
}

// Backoff calculates the backoff duration for a given 0-based attempt.
func Backoff(attempt int, initialDelay, maxDelay time.Duration, factor float64) time.Duration {
	delay := float64(initialDelay) * math.Pow(factor, float64(attempt))
	if maxDelay > 0 && delay > float64(maxDelay) {
		delay = float64(maxDelay)
	}
	return time.Duration(delay)
}
