package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"WARN":  slog.LevelWarn,
		"error": slog.LevelError,
		"info":  slog.LevelInfo,
		"":      slog.LevelInfo,
		"bogus": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewProductionWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, Options{Level: "warn"})

	log.Info("dropped")
	log.Warn("kept", "client", "ana")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1: %q", len(lines), buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if rec["msg"] != "kept" || rec["client"] != "ana" {
		t.Errorf("unexpected record %v", rec)
	}
}

func TestNewDevelopmentLogsDebug(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, Options{Dev: true, Level: "error"})

	log.Debug("builder state", "exercises", 3)

	if !strings.Contains(buf.String(), "builder state") {
		t.Errorf("debug record missing from dev output: %q", buf.String())
	}
}

func TestNewWarnsWhenSentryRejectsDSN(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, Options{Level: "info", SentryDSN: "not-a-dsn"})

	if !strings.Contains(buf.String(), "Sentry disabled") {
		t.Fatalf("missing sentry warning: %q", buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &rec); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if rec["level"] != "WARN" || rec["error"] == nil {
		t.Errorf("unexpected record %v", rec)
	}

	buf.Reset()
	log.Error("still logged")
	if !strings.Contains(buf.String(), "still logged") {
		t.Errorf("primary handler lost after sentry failure: %q", buf.String())
	}
}
