// Package store persists tool lifecycle events so the dashboard can show
// history across hub restarts. The supervisor writes fire-and-forget; a
// store failure never blocks or fails a start/stop.
package store

import (
	"context"
	"time"
)

// Event types recorded per tool.
const (
	EventStart     = "start"
	EventStop      = "stop"
	EventSpawnFail = "spawn_fail"
	EventAdopted   = "adopted"
	EventLost      = "lost"
)

// Event is one lifecycle transition of a tool.
type Event struct {
	Tool       string
	Type       string
	PID        int
	OccurredAt time.Time
	Detail     string // diagnostic text for spawn_fail, empty otherwise
}

// Store is the persistence interface for lifecycle events.
type Store interface {
	EnsureSchema(ctx context.Context) error
	RecordEvent(ctx context.Context, ev Event) error
	// RecentEvents returns up to limit events for tool (all tools when
	// tool is empty), newest first.
	RecentEvents(ctx context.Context, tool string, limit int) ([]Event, error)
	Close() error
}

// Config selects and parameterizes a backend.
type Config struct {
	Type string `toml:"type" mapstructure:"type"` // "sqlite" or "postgres"

	// SQLite
	Path string `toml:"path" mapstructure:"path"` // empty means in-memory

	// PostgreSQL
	DSN string `toml:"dsn" mapstructure:"dsn"`
}
