package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mediasort/internal/config"
	"mediasort/internal/logging"
	"mediasort/internal/services"
)

func TestNewFromConfigWritesLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("hello from test")

	content, err := os.ReadFile(filepath.Join(cfg.Paths.LogDir, "mediasort.log"))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), "hello from test") {
		t.Fatalf("expected message in log file, got %q", content)
	}
}

func TestConsoleLoggerOmitsCallerForInfo(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console-info.log")
	logger, err := logging.New(logging.Options{
		Format:      "console",
		Level:       "info",
		OutputPaths: []string{logPath},
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
		Format:      "console",
		Level:       "debug",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Debug("message with caller", logging.String("category", "details"))

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	text := string(content)
	if !strings.Contains(text, "logger_test.go:") {
		t.Fatalf("expected caller information in debug logs, got %q", text)
	}
	if !strings.Contains(text, "category: details") {
		t.Fatalf("expected raw debug field, got %q", text)
	}
}

func TestConsoleLoggerRendersSubjectAndFields(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "subject.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx := services.WithEntity(context.Background(), "T10pro-2rd")
	ctx = services.WithStage(ctx, "organize")
	ctx = services.WithRunID(ctx, "run-1")
	logger = logging.NewComponentLogger(logger, "organizer")
	logging.WithContext(ctx, logger).Info(
		"file organized",
		logging.String("category", "components"),
		logging.Int64("size_bytes", 2048),
		logging.Bool("unchanged", false),
	)

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	text := string(content)
	for _, want := range []string{"INFO [organizer] T10pro-2rd (organize) – file organized", "- Category: components", "- Size bytes: 2.0 KiB", "- Unchanged: no"} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in %q", want, text)
		}
	}
	if strings.Contains(text, "run-1") {
		t.Fatalf("expected run id to stay out of info output, got %q", text)
	}
}

func TestJSONLoggerEmitsContextFields(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "json.log")
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx := services.WithRunID(context.Background(), "run-42")
	logging.WarnWithContext(logging.WithContext(ctx, logger), "copy failed", "copy_failed", logging.Error(errors.New("boom")))

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var record map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(content), &record); err != nil {
		t.Fatalf("decode json log: %v (%q)", err, content)
	}
	if record["run_id"] != "run-42" {
		t.Fatalf("expected run_id field, got %v", record)
	}
	if record["level"] != "warn" {
		t.Fatalf("expected lowercase level, got %v", record["level"])
	}
	for _, key := range []string{"event_type", "error_hint", "impact", "ts"} {
		if _, ok := record[key]; !ok {
			t.Fatalf("expected %s in json record %v", key, record)
		}
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := logging.NewNop()
	if logger.Enabled(context.Background(), 12) {
		t.Fatal("expected nop logger to be disabled")
	}
	logging.WarnWithContext(nil, "ignored", "noop")
}
