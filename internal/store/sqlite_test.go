package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func TestSQLiteRoundTrip(t *testing.T) {
	s, err := NewSQLite("") // in-memory
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = s.Close() }()

	ctx := context.Background()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	events := []Event{
		{Tool: "desk-talk", Type: EventStart, PID: 100, OccurredAt: base},
		{Tool: "desk-talk", Type: EventStop, PID: 100, OccurredAt: base.Add(time.Minute)},
		{Tool: "ocr-paste", Type: EventSpawnFail, PID: 0, OccurredAt: base.Add(2 * time.Minute), Detail: "boom"},
	}
	for _, ev := range events {
		if err := s.RecordEvent(ctx, ev); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	got, err := s.RecentEvents(ctx, "desk-talk", 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 desk-talk events, got %d", len(got))
	}
	if got[0].Type != EventStop {
		t.Fatalf("newest first expected, got %+v", got[0])
	}

	all, err := s.RecentEvents(ctx, "", 10)
	if err != nil || len(all) != 3 {
		t.Fatalf("all events: n=%d err=%v", len(all), err)
	}
	if all[0].Detail != "boom" {
		t.Fatalf("detail lost: %+v", all[0])
	}
}

func TestSQLiteFileBacked(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.db")
	s, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("open file db: %v", err)
	}
	if err := s.RecordEvent(context.Background(), Event{Tool: "typo-fix", Type: EventAdopted, PID: 42, OccurredAt: time.Now()}); err != nil {
		t.Fatalf("record: %v", err)
	}
	_ = s.Close()

	// Reopen and verify persistence.
	s2, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = s2.Close() }()
	got, err := s2.RecentEvents(context.Background(), "typo-fix", 1)
	if err != nil || len(got) != 1 || got[0].PID != 42 {
		t.Fatalf("persisted event missing: %+v err=%v", got, err)
	}
}

func TestFactory(t *testing.T) {
	st, err := New(Config{})
	if err != nil || st != nil {
		t.Fatalf("empty config should yield nil store, got %v err=%v", st, err)
	}
	st, err = New(Config{Type: "sqlite"})
	if err != nil || st == nil {
		t.Fatalf("sqlite factory: %v", err)
	}
	_ = st.Close()
	if _, err := New(Config{Type: "mongodb"}); err == nil {
		t.Fatalf("expected error for unsupported type")
	}
}
