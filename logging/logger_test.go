package logging

import (
	"bytes"
	"strings"
	"sync"
	"testing"
)

func withLevel(t *testing.T, l Level) {
	t.Helper()
	prev := CurrentLevel()
	SetLevel(l)
	t.Cleanup(func() { SetLevel(prev) })
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name string
		want Level
	}{
		{"silent", LevelSilent},
		{"error", LevelError},
		{"warn", LevelWarn},
		{"warning", LevelWarn},
		{"info", LevelInfo},
		{"bogus", LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseLevel(tt.name); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestLoggerGate(t *testing.T) {
	withLevel(t, LevelWarn)

	var buf bytes.Buffer
	l := New(&buf)
	l.Infof("hidden %d", 1)
	l.Warnf("shown %s", "warning")
	l.Errorf("shown %s", "error")

	out := buf.String()
	if strings.Contains(out, "hidden 1") {
		t.Errorf("info message passed a warn gate: %q", out)
	}
	if !strings.Contains(out, "shown warning") || !strings.Contains(out, "shown error") {
		t.Errorf("expected warning and error in output, got %q", out)
	}
	if l.ErrorCount() != 1 || l.WarningCount() != 1 {
		t.Errorf("counts = %d errors, %d warnings, want 1 and 1", l.ErrorCount(), l.WarningCount())
	}
}

func TestLoggerSilentStillCounts(t *testing.T) {
	withLevel(t, LevelSilent)

	var buf bytes.Buffer
	l := New(&buf)
	l.Errorf("dropped")

	if buf.Len() != 0 {
		t.Errorf("silent logger wrote %q", buf.String())
	}
	if l.ErrorCount() != 1 {
		t.Errorf("ErrorCount() = %d, want 1", l.ErrorCount())
	}
}

func TestLoggerConcurrent(t *testing.T) {
	withLevel(t, LevelError)

	l := Discard()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Errorf("e")
		}()
	}
	wg.Wait()

	if l.ErrorCount() != 16 {
		t.Errorf("ErrorCount() = %d, want 16", l.ErrorCount())
	}
}
