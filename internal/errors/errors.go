// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	// ErrAgentExhausted marks an agent call that failed on every retry
	// attempt. Per-analyst exhaustion is degraded to a placeholder by the
	// coordinator; only the strategist escalates it.
	ErrAgentExhausted = errors.New("agent retries exhausted")

	// ErrStrategistUnavailable is fatal for a run: no decision is produced.
	ErrStrategistUnavailable = errors.New("strategist unavailable")

	// ErrBalanceUnavailable aborts a run before any execution attempt.
	ErrBalanceUnavailable = errors.New("balance unavailable")

	// ErrInsufficientFunds is a normal SKIPPED outcome, not a fault.
	ErrInsufficientFunds = errors.New("insufficient funds")

	ErrEmptyPrompt   = errors.New("prompt must not be empty")
	ErrConfigInvalid = errors.New("invalid configuration")
)

// AgentError wraps a failure from a named LLM agent.
type AgentError struct {
	AgentName string
	Attempts  int
	Err       error
}

func (e *AgentError) Error() string {
	return fmt.Sprintf("agent error [%s] after %d attempts: %v", e.AgentName, e.Attempts, e.Err)
}

func (e *AgentError) Unwrap() error {
	return e.Err
}

// NewAgentError creates a new AgentError.
func NewAgentError(agentName string, attempts int, err error) *AgentError {
	return &AgentError{
		AgentName: agentName,
		Attempts:  attempts,
		Err:       err,
	}
}

// ExchangeError wraps a failure returned by the exchange boundary.
type ExchangeError struct {
	Op     string // place_order, get_balance, get_holdings
	Symbol string
	Err    error
}

func (e *ExchangeError) Error() string {
	if e.Symbol != "" {
		return fmt.Sprintf("exchange error [%s] %s: %v", e.Op, e.Symbol, e.Err)
	}
	return fmt.Sprintf("exchange error [%s]: %v", e.Op, e.Err)
}

func (e *ExchangeError) Unwrap() error {
	return e.Err
}

// NewExchangeError creates a new ExchangeError.
func NewExchangeError(op, symbol string, err error) *ExchangeError {
	return &ExchangeError{
		Op:     op,
		Symbol: symbol,
		Err:    err,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}
