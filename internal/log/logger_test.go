package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"sync"
	"testing"
)

func TestSetupParsesLevels(t *testing.T) {
	for _, level := range []string{"DEBUG", "INFO", "WARN", "ERROR", "garbage"} {
		logger = nil
		once = *new(sync.Once)

		Setup(level)
		if logger == nil {
			t.Fatalf("Setup(%q) left logger nil", level)
		}
	}
}

func TestNewLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, "WARN")

	l.Info("dropped")
	l.Warn("kept")

	var out map[string]any
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}
	if out["msg"] != "kept" {
		t.Fatalf("expected only the WARN record, got %v", out)
	}
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	logger = slog.New(slog.NewJSONHandler(&buf, nil))

	WithComponent("classifier").Info("hello")

	var out map[string]any
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}
	if out["component"] != "classifier" {
		t.Fatalf("expected component field, got %v", out)
	}
}
