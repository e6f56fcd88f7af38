package logger

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"
)

func fixedClock() time.Time {
	return time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)
}

// TestNewConsoleLogger verifies the constructor normalizes the level.
func TestNewConsoleLogger(t *testing.T) {
	t.Run("with valid writer", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger := NewConsoleLogger(buf, "DEBUG")

		if logger.w != buf {
			t.Error("writer not set correctly")
		}
		if logger.Level() != "debug" {
			t.Errorf("expected log level %q, got %q", "debug", logger.Level())
		}
		if logger.colorOutput {
			t.Error("color must be disabled for non-terminal writers")
		}
	})

	t.Run("with nil writer", func(t *testing.T) {
		logger := NewConsoleLogger(nil, "info")
		// Must not panic
		logger.LogInfo("dropped")
	})

	t.Run("invalid level defaults to info", func(t *testing.T) {
		logger := NewConsoleLogger(&bytes.Buffer{}, "loud")
		if logger.Level() != "info" {
			t.Errorf("expected info, got %q", logger.Level())
		}
	})
}

// TestLogLevelFiltering verifies that messages are filtered based on log level
func TestLogLevelFiltering(t *testing.T) {
	levels := []string{"trace", "debug", "info", "warn", "error"}

	for ci, configured := range levels {
		for mi, message := range levels {
			name := configured + " vs " + message
			t.Run(name, func(t *testing.T) {
				buf := &bytes.Buffer{}
				logger := NewConsoleLogger(buf, configured)

				switch message {
				case "trace":
					logger.LogTrace("msg")
				case "debug":
					logger.LogDebug("msg")
				case "info":
					logger.LogInfo("msg")
				case "warn":
					logger.LogWarn("msg")
				case "error":
					logger.LogError("msg")
				}

				shouldAppear := mi >= ci
				if appeared := buf.Len() > 0; appeared != shouldAppear {
					t.Errorf("configured %s, message %s: appeared=%v, want %v", configured, message, appeared, shouldAppear)
				}
			})
		}
	}
}

func TestConsoleLoggerFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewConsoleLogger(buf, "trace")
	logger.now = fixedClock

	logger.LogWarn("Could not clean previous output file")

	want := "[14:05:07] [WARN] Could not clean previous output file\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestColoredTagKeepsMessage(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewConsoleLogger(buf, "info")
	logger.now = fixedClock
	logger.colorOutput = true

	logger.LogError("boom")

	out := buf.String()
	if !strings.HasPrefix(out, "[14:05:07] [") || !strings.HasSuffix(out, "] boom\n") {
		t.Errorf("unexpected colored line %q", out)
	}
	if !strings.Contains(out, "ERROR") {
		t.Errorf("level missing from %q", out)
	}
}

func TestConsoleLoggerConcurrentWrites(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewConsoleLogger(buf, "info")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			logger.LogInfo("line")
		}()
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 50 {
		t.Fatalf("expected 50 lines, got %d", len(lines))
	}
	for _, l := range lines {
		if !strings.HasSuffix(l, "[INFO] line") {
			t.Errorf("interleaved output: %q", l)
		}
	}
}

func TestNormalizeLevel(t *testing.T) {
	tests := map[string]string{
		"":        "info",
		"TRACE":   "trace",
		" debug ": "debug",
		"Warning": "warn",
		"error":   "error",
		"verbose": "info",
	}

	for in, want := range tests {
		if got := NormalizeLevel(in); got != want {
			t.Errorf("NormalizeLevel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseLevelOrdering(t *testing.T) {
	warn, ok := ParseLevel("WARNING")
	if !ok || warn != LevelWarn {
		t.Fatalf("ParseLevel(WARNING) = %v, %v", warn, ok)
	}
	if !(LevelTrace < LevelDebug && LevelDebug < LevelInfo && LevelInfo < warn && warn < LevelError) {
		t.Error("levels must be ordered by severity")
	}
	if Level(42).String() != "info" {
		t.Errorf("out of range level should print as info, got %q", Level(42))
	}
}

func TestIsValidLevel(t *testing.T) {
	for _, level := range []string{"trace", "DEBUG", "info", "warn", "warning", "error"} {
		if !IsValidLevel(level) {
			t.Errorf("%q should be valid", level)
		}
	}
	for _, level := range []string{"", "verbose", "fatal"} {
		if IsValidLevel(level) {
			t.Errorf("%q should be invalid", level)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{250 * time.Millisecond, "250ms"},
		{0, "0ms"},
		{5 * time.Second, "5s"},
		{90 * time.Second, "1m30s"},
		{2 * time.Minute, "2m"},
		{2*time.Hour + 15*time.Minute, "2h15m"},
		{time.Hour + 2*time.Second, "1h0m2s"},
		{3 * time.Hour, "3h"},
	}

	for _, tt := range tests {
		if got := FormatDuration(tt.d); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

type recordingSink struct {
	lines []string
}

func (r *recordingSink) LogTrace(m string) { r.lines = append(r.lines, "trace:"+m) }
func (r *recordingSink) LogDebug(m string) { r.lines = append(r.lines, "debug:"+m) }
func (r *recordingSink) LogInfo(m string)  { r.lines = append(r.lines, "info:"+m) }
func (r *recordingSink) LogWarn(m string)  { r.lines = append(r.lines, "warn:"+m) }
func (r *recordingSink) LogError(m string) { r.lines = append(r.lines, "error:"+m) }

func TestMultiLogger(t *testing.T) {
	a, b := &recordingSink{}, &recordingSink{}
	m := NewMultiLogger(a, nil, b)

	m.LogTrace("t")
	m.LogDebug("d")
	m.LogInfo("i")
	m.LogWarn("w")
	m.LogError("e")

	want := []string{"trace:t", "debug:d", "info:i", "warn:w", "error:e"}
	for _, sink := range []*recordingSink{a, b} {
		if strings.Join(sink.lines, ",") != strings.Join(want, ",") {
			t.Errorf("got %v, want %v", sink.lines, want)
		}
	}
}

func TestLoggersSatisfySink(t *testing.T) {
	var _ Sink = (*ConsoleLogger)(nil)
	var _ Sink = (*FileLogger)(nil)
	var _ Sink = (*MultiLogger)(nil)
}
