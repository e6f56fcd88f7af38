// Package logger provides logging implementations for export runs.
//
// ConsoleLogger prints level-filtered, timestamped lines for humans.
// FileLogger appends structured JSON records to a per-run log file.
// MultiLogger fans one message out to several loggers. All implementations
// are safe for concurrent use.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

var levelColors = map[Level]*color.Color{
	LevelTrace: color.New(color.FgHiBlack),
	LevelDebug: color.New(color.FgCyan),
	LevelInfo:  color.New(color.FgBlue),
	LevelWarn:  color.New(color.FgYellow),
	LevelError: color.New(color.FgRed),
}

// ConsoleLogger writes "[HH:MM:SS] [LEVEL] message" lines. The level tag is
// colored when the writer is the process's stdout or stderr and NO_COLOR is
// unset.
type ConsoleLogger struct {
	mu          sync.Mutex
	w           io.Writer
	threshold   Level
	colorOutput bool
	now         func() time.Time
}

// NewConsoleLogger creates a ConsoleLogger that drops messages below level.
// A nil writer discards everything; an unknown level means "info".
func NewConsoleLogger(w io.Writer, level string) *ConsoleLogger {
	threshold, _ := ParseLevel(level)
	return &ConsoleLogger{
		w:           w,
		threshold:   threshold,
		colorOutput: (w == os.Stdout || w == os.Stderr) && !color.NoColor,
		now:         time.Now,
	}
}

// Level returns the configured minimum level name.
func (cl *ConsoleLogger) Level() string {
	return cl.threshold.String()
}

func (cl *ConsoleLogger) LogTrace(message string) { cl.write(LevelTrace, message) }
func (cl *ConsoleLogger) LogDebug(message string) { cl.write(LevelDebug, message) }
func (cl *ConsoleLogger) LogInfo(message string)  { cl.write(LevelInfo, message) }
func (cl *ConsoleLogger) LogWarn(message string)  { cl.write(LevelWarn, message) }
func (cl *ConsoleLogger) LogError(message string) { cl.write(LevelError, message) }

func (cl *ConsoleLogger) write(level Level, message string) {
	if cl.w == nil || level < cl.threshold {
		return
	}

	tag := strings.ToUpper(level.String())
	if cl.colorOutput {
		tag = levelColors[level].Sprint(tag)
	}

	cl.mu.Lock()
	defer cl.mu.Unlock()
	fmt.Fprintf(cl.w, "[%s] [%s] %s\n", cl.now().Format("15:04:05"), tag, message)
}
