package logging_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"flightsummary/internal/config"
	"flightsummary/internal/logging"
	"flightsummary/internal/services"
)

func TestNewFromConfigWritesLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.Dir = t.TempDir()

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("hello file")

	content, err := os.ReadFile(filepath.Join(cfg.Logging.Dir, "flightsummary.log"))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), "hello file") {
		t.Fatalf("expected message in log file, got %q", content)
	}
}

func TestConsoleLoggerOmitsCallerForInfo(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console-info.log")

	logger, err := logging.New(logging.Options{
		Format: "console",
		Level:  "info",
		File:   logPath,
		Output: io.Discard,
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("message without caller")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if strings.Contains(string(content), ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", content)
	}
}

func TestConsoleLoggerIncludesCallerForDebug(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console-debug.log")

	logger, err := logging.New(logging.Options{
		Format: "console",
		Level:  "debug",
		File:   logPath,
		Output: io.Discard,
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("message with caller")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), ".go:") {
		t.Fatalf("expected caller information in debug logs, got %q", content)
	}
}

func TestConsoleLoggerFormatsComponentAndFields(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", File: logPath, Output: io.Discard})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logging.NewComponentLogger(logger, "summary").Info("batch written",
		logging.String("frames", "100-110"),
		logging.Path("/tmp/out dir/batchInfoSummary.csv"),
		logging.Error(errors.New("none")),
	)

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	line := string(content)
	for _, want := range []string{"INFO summary: batch written", "frames=100-110", `path="/tmp/out dir/batchInfoSummary.csv"`, "error=none"} {
		if !strings.Contains(line, want) {
			t.Fatalf("expected %q in %q", want, line)
		}
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestWithContextAddsFields(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "json.log")
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", File: logPath, Output: io.Discard})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx := context.Background()
	ctx = services.WithRun(ctx, "GR", "20150325")
	ctx = services.WithFrames(ctx, "100-110")
	ctx = services.WithRequestID(ctx, "req-xyz")

	logging.WithContext(ctx, logger).Info("contextual log")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var record map[string]any
	if err := json.Unmarshal(content, &record); err != nil {
		t.Fatalf("decode json log %q: %v", content, err)
	}
	want := map[string]string{
		logging.FieldSite:          "GR",
		logging.FieldDate:          "20150325",
		logging.FieldFrames:        "100-110",
		logging.FieldCorrelationID: "req-xyz",
		"msg":                      "contextual log",
		"level":                    "info",
	}
	for key, value := range want {
		if got, _ := record[key].(string); got != value {
			t.Fatalf("field %s = %q, want %q", key, got, value)
		}
	}
}

func TestErrorWithContextFillsDefaults(t *testing.T) {
	var buf strings.Builder
	logger, err := logging.New(logging.Options{Format: "console", Output: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logging.ErrorWithContext(logger.WithGroup("batch"), "gather failed", "not_found",
		logging.String(logging.FieldErrorHint, "inspect the batch folder"),
	)

	line := buf.String()
	for _, want := range []string{"ERROR gather failed", "batch.event_type=not_found", `batch.error_hint="inspect the batch folder"`} {
		if !strings.Contains(line, want) {
			t.Fatalf("expected %q in %q", want, line)
		}
	}
	if strings.Count(line, "error_hint=") != 1 {
		t.Fatalf("hint should not be duplicated: %q", line)
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := logging.NewNop()
	if logger.Enabled(context.Background(), 12) {
		t.Fatal("expected no-op logger to be disabled")
	}
	logging.ErrorWithContext(nil, "ignored", "test")
}
