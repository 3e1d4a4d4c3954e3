package logging_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"barrel/internal/config"
	"barrel/internal/logging"
)

func TestConsoleLoggerFormatsComponentAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger, closeFn, err := logging.New(logging.Options{Format: "console", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	defer closeFn()

	log := logging.NewComponentLogger(logger, "workflow")
	log.Info("merged day", logging.String(logging.FieldDay, "20150826"), logging.Int("rows", 1440))
	log.Debug("hidden")

	out := buf.String()
	if !strings.Contains(out, "INFO  workflow: merged day day=20150826 rows=1440") {
		t.Fatalf("unexpected console line %q", out)
	}
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug line emitted at info level: %q", out)
	}
	if strings.Contains(out, ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("expected no colour codes for non-terminal writer, got %q", out)
	}
}

func TestConsoleLoggerQuotesAndGroups(t *testing.T) {
	var buf bytes.Buffer
	logger, _, err := logging.New(logging.Options{Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.WithGroup("merge").Warn("gap", logging.String("note", "two words"), logging.Error(errors.New("boom")))

	out := buf.String()
	if !strings.Contains(out, `merge.note="two words"`) || !strings.Contains(out, "merge.error=boom") {
		t.Fatalf("unexpected grouped output %q", out)
	}
	if !strings.Contains(out, "WARN") {
		t.Fatalf("missing level label: %q", out)
	}
}

func TestJSONLoggerWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "barrel.log")
	logger, closeFn, err := logging.New(logging.Options{Format: "json", Level: "debug", OutputPaths: []string{path}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logging.NewComponentLogger(logger, "detect").Debug("windows", logging.Int("correlation", 20))
	if err := closeFn(); err != nil {
		t.Fatalf("close: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(content), &entry); err != nil {
		t.Fatalf("decode log line %q: %v", content, err)
	}
	if entry["level"] != "debug" || entry["component"] != "detect" || entry["msg"] != "windows" {
		t.Fatalf("unexpected entry %v", entry)
	}
	if _, ok := entry["ts"]; !ok {
		t.Fatalf("expected ts key, got %v", entry)
	}
	if _, ok := entry["source"]; !ok {
		t.Fatalf("expected source at debug level, got %v", entry)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, _, err := logging.New(logging.Options{Format: "xml", Writer: &bytes.Buffer{}}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewFromConfigLevelOverride(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.File = filepath.Join(t.TempDir(), "barrel.log")
	var console bytes.Buffer
	logger, closeFn, err := logging.NewFromConfig(&cfg, "error", &console)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	defer closeFn()
	logger.Warn("suppressed")
	logger.Error("kept")

	content, err := os.ReadFile(cfg.Logging.File)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if strings.Contains(string(content), "suppressed") || !strings.Contains(string(content), "kept") {
		t.Fatalf("expected only the error record in the log file, got %q", content)
	}
	if !strings.Contains(console.String(), "kept") {
		t.Fatalf("expected console writer to receive the record, got %q", console.String())
	}
}

func TestNopLogger(t *testing.T) {
	logging.NewNop().Error("dropped")
	logging.NewComponentLogger(nil, "catalog").Info("dropped")
}
