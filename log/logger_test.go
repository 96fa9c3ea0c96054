package log

import (
	"bytes"
	"strings"
	"testing"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	SetSink(&buf)
	defer SetSink(nopWriter{})

	prev := GetLevel()
	defer SetLevel(prev)

	logger := New("test")

	SetLevel(Warning)
	logger.Info("hidden")
	logger.Warning("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message should be filtered at warning level: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "[test]") {
		t.Errorf("expected warning message tagged with module, got %q", out)
	}

	buf.Reset()
	SetLevel(Debug)
	logger.Debugf("value=%d", 42)
	if !strings.Contains(buf.String(), "value=42") {
		t.Errorf("expected debug message at debug level, got %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	for _, lvl := range []Level{Debug, Info, Notice, Warning, Error} {
		got, err := ParseLevel(lvl.String())
		if err != nil {
			t.Fatalf("ParseLevel(%q): %v", lvl.String(), err)
		}
		if got != lvl {
			t.Errorf("ParseLevel(%q): expected %v, got %v", lvl.String(), lvl, got)
		}
	}

	if _, err := ParseLevel("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }
