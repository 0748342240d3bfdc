package gocallerx_test

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/muhammadluth/gocallerx"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		entry := map[string]any{}
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("malformed log line %q: %v", line, err)
		}
		out = append(out, entry)
	}
	return out
}

func TestLoggerAttributesCaller(t *testing.T) {
	var buf bytes.Buffer
	logger, err := gocallerx.New(
		gocallerx.WithServiceName("attribution-test"),
		gocallerx.WithOutput(&buf),
	)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	logger.Info("request received", zap.String("trace_id", "trace-001"))

	entries := decodeLines(t, &buf)
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	entry := entries[0]
	if entry["caller"] != "gocallerx_test.go" {
		t.Errorf("caller = %v, want gocallerx_test.go", entry["caller"])
	}
	if entry["application_name"] != "attribution-test" {
		t.Errorf("application_name = %v, want attribution-test", entry["application_name"])
	}
	if entry["trace_id"] != "trace-001" {
		t.Errorf("trace_id = %v, want trace-001", entry["trace_id"])
	}
}

func TestLoggerCustomCallerField(t *testing.T) {
	var buf bytes.Buffer
	logger, err := gocallerx.New(
		gocallerx.WithOutput(&buf),
		gocallerx.WithCallerField("script_name"),
	)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	logger.Info("hello")

	entries := decodeLines(t, &buf)
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0]["script_name"] != "gocallerx_test.go" {
		t.Errorf("script_name = %v, want gocallerx_test.go", entries[0]["script_name"])
	}
	if _, ok := entries[0]["caller"]; ok {
		t.Error("default caller field present alongside the custom one")
	}
}

func TestLoggerLevelRange(t *testing.T) {
	var buf bytes.Buffer
	logger, err := gocallerx.New(
		gocallerx.WithOutput(&buf),
		gocallerx.WithDebug(true),
		gocallerx.WithLevelRange(zapcore.InfoLevel, zapcore.WarnLevel),
	)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	logger.Debug("below range")
	logger.Info("inside range")
	logger.Warn("inside range")
	logger.Error("above range", errors.New("boom"))

	entries := decodeLines(t, &buf)
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	for _, e := range entries {
		if e["msg"] != "inside range" {
			t.Errorf("unexpected entry %v", e["msg"])
		}
	}
}

func TestLoggerErrorField(t *testing.T) {
	var buf bytes.Buffer
	logger, err := gocallerx.New(gocallerx.WithOutput(&buf))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	logger.Error("query failed", errors.Wrap(errors.New("timeout"), "select users"))

	entries := decodeLines(t, &buf)
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	errVal, _ := entries[0]["error"].(string)
	if !strings.Contains(errVal, "timeout") {
		t.Errorf("error = %q, want wrapped cause", errVal)
	}
}

func TestLoggerFileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")
	logger, err := gocallerx.New(
		gocallerx.WithOutput(io.Discard),
		gocallerx.WithLogFile(path),
		gocallerx.WithRotation(gocallerx.RotationConfig{MaxSizeMB: 1, MaxBackups: 2}),
	)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	logger.Info("written to file")
	if err := logger.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), "written to file") {
		t.Errorf("log file %q does not contain the record", path)
	}
	if !strings.Contains(string(data), "gocallerx_test.go") {
		t.Errorf("log file %q lacks caller attribution", path)
	}
}

func TestLoggerWithAndNamed(t *testing.T) {
	var buf bytes.Buffer
	logger, err := gocallerx.New(gocallerx.WithOutput(&buf))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	logger.With(zap.String("component", "worker")).Named("jobs").Info("started")

	entries := decodeLines(t, &buf)
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0]["component"] != "worker" {
		t.Errorf("component = %v, want worker", entries[0]["component"])
	}
	if entries[0]["logger"] != "jobs" {
		t.Errorf("logger = %v, want jobs", entries[0]["logger"])
	}
}

func TestInitConfiguresOnce(t *testing.T) {
	first, err := gocallerx.Init(gocallerx.WithServiceName("once"))
	if err != nil {
		t.Fatalf("Init() error: %v", err)
	}
	second, err := gocallerx.Init(gocallerx.WithServiceName("twice"))
	if err != nil {
		t.Fatalf("Init() error: %v", err)
	}
	if first != second {
		t.Error("Init() reconfigured the package-level logger")
	}
}

func TestPackageLevelLogging(t *testing.T) {
	// The package-level logger is always ready; these must not panic.
	gocallerx.Debug("debug message")
	gocallerx.Info("info message")
	gocallerx.Warn("warn message")
	gocallerx.Error("error message", errors.New("boom"))
}
