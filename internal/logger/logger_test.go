package logger

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewWithFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "hub.log")
	log := New(Config{Level: "debug", File: file, NoColor: true})
	log.Info("hello", "k", "v")
	// lumberjack creates the file lazily on first write
	if _, err := os.Stat(file); err != nil {
		t.Fatalf("log file not created: %v", err)
	}
}

func TestStderrWriterDiscard(t *testing.T) {
	w := StderrWriter("", "desk-talk")
	if _, err := w.Write([]byte("boom")); err != nil {
		t.Fatalf("discard write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestParseLevel(t *testing.T) {
	if parseLevel("warn") <= parseLevel("info") {
		t.Fatalf("warn should rank above info")
	}
	if parseLevel("unknown") != parseLevel("info") {
		t.Fatalf("unknown level should default to info")
	}
}
