package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"sync"
	"testing"
)

func resetLogger(t *testing.T, w *bytes.Buffer) {
	t.Helper()
	once = sync.Once{}
	logger = nil
	sugar = nil
	output = w
	t.Cleanup(func() {
		once = sync.Once{}
		logger = nil
		sugar = nil
		output = os.Stderr
	})
}

func TestInit_WritesJSONToOutput(t *testing.T) {
	var buf bytes.Buffer
	resetLogger(t, &buf)

	Init("warn")
	Info("hidden")
	Infow("hidden too", "key", "value")
	Warnf("dispatch %d returned no text", 1)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("Expected a single entry at warn level, got %q", buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("Expected a JSON entry, got %q: %v", lines[0], err)
	}
	if entry["level"] != "WARN" {
		t.Errorf("Expected level WARN, got %v", entry["level"])
	}
	if entry["msg"] != "dispatch 1 returned no text" {
		t.Errorf("Unexpected message %v", entry["msg"])
	}
	if caller, ok := entry["caller"].(string); !ok || !strings.HasPrefix(caller, "logger/logger_test.go") {
		t.Errorf("Expected caller to point at the call site, got %v", entry["caller"])
	}
}

func TestSugar_InitializesAtInfoLevel(t *testing.T) {
	var buf bytes.Buffer
	resetLogger(t, &buf)

	Debug("hidden")
	Infow("Using LLM provider", "provider", "vertexai")

	if !strings.Contains(buf.String(), `"provider":"vertexai"`) {
		t.Errorf("Expected structured field in output, got %q", buf.String())
	}
	if strings.Contains(buf.String(), "hidden") {
		t.Errorf("Expected debug entry to be filtered, got %q", buf.String())
	}
}

func TestInit_InvalidLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	resetLogger(t, &buf)

	Init("verbose")
	Debug("hidden")
	Info("shown")

	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Errorf("Expected info level, got %q", buf.String())
	}
}
