// Package store provides the durable, append-only decision log.
package store

import (
	"context"

	"alphagpt/internal/models"
)

// DecisionStore defines the decision log boundary. The pipeline only
// appends; reads serve the decisions CLI and the external dashboard.
type DecisionStore interface {
	// AppendDecision appends one record. Each append is atomic with
	// respect to other appends.
	AppendDecision(ctx context.Context, record *models.DecisionRecord) error

	// ListDecisions returns the most recent records, newest first.
	ListDecisions(ctx context.Context, limit int) ([]models.DecisionRecord, error)

	// DecisionStats aggregates the log by action.
	DecisionStats(ctx context.Context) (*models.DecisionStats, error)

	// Lifecycle
	Close() error
}
