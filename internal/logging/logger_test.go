package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewLevels(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "warn")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Info("hidden")
	logger.Warn("shown", "count", 3)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message should be filtered at warn level: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "count=3") {
		t.Errorf("warn message missing: %q", out)
	}
}

func TestNewDefaultAndInvalid(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "")
	if err != nil {
		t.Fatal(err)
	}
	logger.Debug("quiet")
	logger.Info("loud")
	if strings.Contains(buf.String(), "quiet") || !strings.Contains(buf.String(), "loud") {
		t.Errorf("default level should be info: %q", buf.String())
	}

	if _, err := New(&buf, "chatty"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestTeeWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "collector.log")
	logger, closeFn, err := Tee(path, "info")
	if err != nil {
		t.Fatalf("Tee: %v", err)
	}
	logger.Info("cycle complete", "added", 2)
	if err := closeFn(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "cycle complete") {
		t.Errorf("log file missing entry: %q", data)
	}
}
