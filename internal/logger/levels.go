package logger

import (
	"fmt"
	"strings"
	"time"
)

// Level orders log messages by severity.
type Level int

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = [...]string{"trace", "debug", "info", "warn", "error"}

func (l Level) String() string {
	if l < LevelTrace || l > LevelError {
		return "info"
	}
	return levelNames[l]
}

// ParseLevel maps a level name (case-insensitive, "warning" accepted) to a
// Level. Unknown names return LevelInfo and false.
func ParseLevel(name string) (Level, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "trace":
		return LevelTrace, true
	case "debug":
		return LevelDebug, true
	case "info":
		return LevelInfo, true
	case "warn", "warning":
		return LevelWarn, true
	case "error":
		return LevelError, true
	}
	return LevelInfo, false
}

// NormalizeLevel returns the canonical name of level, "info" when unknown.
func NormalizeLevel(level string) string {
	l, _ := ParseLevel(level)
	return l.String()
}

// IsValidLevel reports whether level names one of the supported log levels.
func IsValidLevel(level string) bool {
	_, ok := ParseLevel(level)
	return ok
}

// FormatDuration renders d compactly: "250ms", "5s", "1m30s", "2h15m".
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}

	h := d / time.Hour
	m := d % time.Hour / time.Minute
	s := d % time.Minute / time.Second

	var b strings.Builder
	if h > 0 {
		fmt.Fprintf(&b, "%dh", h)
	}
	if m > 0 || (h > 0 && s > 0) {
		fmt.Fprintf(&b, "%dm", m)
	}
	if s > 0 || b.Len() == 0 {
		fmt.Fprintf(&b, "%ds", s)
	}
	return b.String()
}
