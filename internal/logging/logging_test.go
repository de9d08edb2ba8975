package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, Options{Level: "warn"})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	logger.Info("hidden")
	logger.Warn("shown", "count", 3)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info record leaked past warn level: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "count=3") || !strings.Contains(out, Prefix) {
		t.Fatalf("unexpected warn record: %q", out)
	}
}

func TestNewJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, Options{Level: "info", JSON: true})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	logger.Info("task added", "kind", "todo")

	var record map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &record); err != nil {
		t.Fatalf("record is not JSON: %v (%q)", err, buf.String())
	}
	if record["msg"] != "task added" || record["kind"] != "todo" {
		t.Fatalf("unexpected JSON record: %#v", record)
	}
}

func TestNewInvalidLevel(t *testing.T) {
	if _, err := New(&bytes.Buffer{}, Options{Level: "chatty"}); err == nil {
		t.Fatal("expected error for invalid level")
	}
}

func TestOpenFileCreatesDirectoryAndAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "nested", "taskline.log")
	for i := 0; i < 2; i++ {
		logger, closer, err := OpenFile(path, Options{Level: "info"})
		if err != nil {
			t.Fatalf("open file #%d: %v", i+1, err)
		}
		logger.Info("session started")
		if err := closer.Close(); err != nil {
			t.Fatalf("close: %v", err)
		}
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if got := strings.Count(string(raw), "session started"); got != 2 {
		t.Fatalf("expected 2 appended records, got %d: %q", got, raw)
	}
}
