package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "interview.log")

	log, err := New(true, true, path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	log.Debug("stage finished")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}

	if !strings.Contains(string(data), `"step":"stage finished"`) {
		t.Fatalf("expected json entry with step key, got %q", data)
	}
}
