// Package eventstore records build history: one event per lifecycle step,
// persisted in SQLite and folded into per-build summaries.
package eventstore

import (
	"context"
	"time"
)

// Store persists and retrieves events.
type Store interface {
	// Append adds a new event to the store.
	Append(ctx context.Context, buildID, eventType string, payload []byte, metadata map[string]string) error

	// GetByBuildID retrieves all events for a specific build.
	GetByBuildID(ctx context.Context, buildID string) ([]Event, error)

	// GetRange retrieves events within a time range.
	GetRange(ctx context.Context, start, end time.Time) ([]Event, error)

	Close() error
}
