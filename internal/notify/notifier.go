// Package notify shows user-facing export messages.
//
// Messages are filtered by verbosity before they reach the terminal: silent
// shows nothing, minimal shows successes and errors, all shows everything.
// Every message is also forwarded to the run logger regardless of verbosity.
package notify

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Level is the notification verbosity.
type Level string

const (
	LevelSilent  Level = "silent"
	LevelMinimal Level = "minimal"
	LevelAll     Level = "all"
)

// ParseLevel converts a configuration value into a Level. Unknown values
// behave like LevelAll.
func ParseLevel(s string) Level {
	switch Level(strings.ToLower(strings.TrimSpace(s))) {
	case LevelSilent:
		return LevelSilent
	case LevelMinimal:
		return LevelMinimal
	default:
		return LevelAll
	}
}

// Kind classifies a message.
type Kind int

const (
	KindInfo Kind = iota
	KindSuccess
	KindWarning
	KindError
)

// String returns the console log label of the kind
func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "SUCCESS"
	case KindWarning:
		return "WARNING"
	case KindError:
		return "ERROR"
	default:
		return "INFO"
	}
}

// Allows reports whether a message of kind k is shown at this level.
func (l Level) Allows(k Kind) bool {
	switch l {
	case LevelSilent:
		return false
	case LevelMinimal:
		return k == KindSuccess || k == KindError
	default:
		return true
	}
}

// logSink receives every message regardless of level.
type logSink interface {
	LogInfo(message string)
	LogWarn(message string)
	LogError(message string)
}

// Notifier prints filtered, optionally colored messages.
type Notifier struct {
	out       io.Writer
	level     Level
	localizer *Localizer
	log       logSink
	mu        sync.Mutex

	info    *color.Color
	success *color.Color
	warning *color.Color
	failure *color.Color
}

// New creates a Notifier writing to out. Color is enabled only when out is a
// terminal and NO_COLOR is not set. log may be nil.
func New(out io.Writer, level Level, localizer *Localizer, log logSink) *Notifier {
	if localizer == nil {
		localizer = NewLocalizer(DefaultLanguage)
	}

	n := &Notifier{
		out:       out,
		level:     level,
		localizer: localizer,
		log:       log,
		info:      color.New(color.FgBlue),
		success:   color.New(color.FgGreen),
		warning:   color.New(color.FgYellow),
		failure:   color.New(color.FgRed),
	}
	n.SetColor(isTerminal(out))
	return n
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// SetColor forces colored output on or off.
func (n *Notifier) SetColor(enabled bool) {
	for _, c := range []*color.Color{n.info, n.success, n.warning, n.failure} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
}

// Level returns the configured verbosity.
func (n *Notifier) Level() Level {
	return n.level
}

// Localizer returns the message catalog used by the localized variants.
func (n *Notifier) Localizer() *Localizer {
	return n.localizer
}

// Notify shows message if the level allows kind and always forwards it to
// the logger.
func (n *Notifier) Notify(kind Kind, message string) {
	if n.log != nil {
		line := kind.String() + ": " + message
		switch kind {
		case KindWarning:
			n.log.LogWarn(line)
		case KindError:
			n.log.LogError(line)
		default:
			n.log.LogInfo(line)
		}
	}

	if n.out == nil || !n.level.Allows(kind) {
		return
	}

	var line string
	switch kind {
	case KindSuccess:
		line = n.success.Sprint("✓ ") + message
	case KindWarning:
		line = n.warning.Sprint("⚠ " + message)
	case KindError:
		line = n.failure.Sprint("✗ " + message)
	default:
		line = n.info.Sprint("ℹ ") + message
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintln(n.out, line)
}

func (n *Notifier) Info(message string)    { n.Notify(KindInfo, message) }
func (n *Notifier) Success(message string) { n.Notify(KindSuccess, message) }
func (n *Notifier) Warning(message string) { n.Notify(KindWarning, message) }
func (n *Notifier) Error(message string)   { n.Notify(KindError, message) }

// InfoKey shows the localized message for key.
func (n *Notifier) InfoKey(key string, args ...string) {
	n.Info(n.localizer.Format(key, args...))
}

// SuccessKey shows the localized message for key.
func (n *Notifier) SuccessKey(key string, args ...string) {
	n.Success(n.localizer.Format(key, args...))
}

// WarningKey shows the localized message for key.
func (n *Notifier) WarningKey(key string, args ...string) {
	n.Warning(n.localizer.Format(key, args...))
}

// ErrorKey shows the localized message for key.
func (n *Notifier) ErrorKey(key string, args ...string) {
	n.Error(n.localizer.Format(key, args...))
}
