package store

import (
	"context"
	"database/sql"
	"strings"

	_ "modernc.org/sqlite"
)

// SQLite stores lifecycle events in a local database file. An empty path
// means in-memory, which is what tests use.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (and creates if needed) the events database at path.
func NewSQLite(path string) (*SQLite, error) {
	dsn := strings.TrimSpace(path)
	if dsn == "" {
		dsn = ":memory:"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// SQLite works best with a single writer connection.
	db.SetMaxOpenConns(1)
	s := &SQLite{db: db}
	if err := s.EnsureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLite) EnsureSchema(ctx context.Context) error {
	stmt := `CREATE TABLE IF NOT EXISTS tool_events(
		occurred_at TIMESTAMP NOT NULL DEFAULT (CURRENT_TIMESTAMP),
		tool TEXT NOT NULL,
		event TEXT NOT NULL,
		pid INTEGER NOT NULL,
		detail TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_tool_events_tool ON tool_events(tool, occurred_at);`
	_, err := s.db.ExecContext(ctx, stmt)
	return err
}

func (s *SQLite) RecordEvent(ctx context.Context, ev Event) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tool_events(occurred_at, tool, event, pid, detail)
		VALUES(?, ?, ?, ?, ?);`,
		ev.OccurredAt.UTC(), ev.Tool, ev.Type, ev.PID, ev.Detail)
	return err
}

func (s *SQLite) RecentEvents(ctx context.Context, tool string, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 50
	}
	q := `SELECT occurred_at, tool, event, pid, detail FROM tool_events`
	args := []any{}
	if tool != "" {
		q += ` WHERE tool = ?`
		args = append(args, tool)
	}
	q += ` ORDER BY occurred_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []Event
	for rows.Next() {
		var ev Event
		if err := rows.Scan(&ev.OccurredAt, &ev.Tool, &ev.Type, &ev.PID, &ev.Detail); err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

func (s *SQLite) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
