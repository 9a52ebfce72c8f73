package log

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	for _, lvl := range []string{"debug", "info", "warn", "error", "", "WARN"} {
		if _, err := ParseLevel(lvl); err != nil {
			t.Errorf("ParseLevel(%q) error = %v", lvl, err)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Errorf("ParseLevel(loud) expected an error")
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("warn", &buf)
	l.Info("dropped")
	l.Warn("kept", "source", "places.json")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d records, want 1: %q", len(lines), buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("record is not JSON: %v", err)
	}
	if rec["msg"] != "kept" || rec["source"] != "places.json" {
		t.Errorf("record = %v", rec)
	}
}

func TestWith(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("debug", &buf).With("component", "loader")
	l.Debug("fetched", "bytes", 12)
	if !strings.Contains(buf.String(), `"component":"loader"`) || !strings.Contains(buf.String(), `"bytes":12`) {
		t.Errorf("output = %q", buf.String())
	}
}

func TestNilLogger(t *testing.T) {
	var l *Logger
	l.Debug("x")
	l.Info("x", "n", 1)
	if l.With("a", 1) != nil {
		t.Errorf("With on nil logger should stay nil")
	}
}

func TestNewWritesFile(t *testing.T) {
	dir := t.TempDir()
	l := New("info", dir)
	l.Info("hello")
	if l.Path != filepath.Join(dir, "placemap.slog") {
		t.Errorf("Path = %s", l.Path)
	}
	b, err := os.ReadFile(l.Path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(b), `"msg":"hello"`) {
		t.Errorf("log file missing record: %s", b)
	}
}
