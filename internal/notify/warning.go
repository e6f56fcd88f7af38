package notify

import (
	"fmt"
	"strings"
)

// Warning is a multi-line warning block listing affected paths.
type Warning struct {
	Title      string   // Main warning title
	Message    string   // Detailed explanation (optional)
	Files      []string // Related files (optional)
	Suggestion string   // Action to take (optional)
}

// MaxListedFiles caps the paths listed in a warning block.
const MaxListedFiles = 10

// Render formats the block without color.
func (w Warning) Render() string {
	var b strings.Builder

	b.WriteString("⚠️  Warning: ")
	b.WriteString(w.Title)
	b.WriteString("\n")

	if w.Message != "" {
		b.WriteString("    ")
		b.WriteString(w.Message)
		b.WriteString("\n")
	}

	if len(w.Files) > 0 {
		b.WriteString("    ")
		if len(w.Files) == 1 {
			b.WriteString("Affected file:\n")
		} else {
			b.WriteString("Affected files:\n")
		}

		for i, file := range w.Files {
			if i == MaxListedFiles {
				b.WriteString(fmt.Sprintf("      ... and %d more\n", len(w.Files)-MaxListedFiles))
				break
			}
			b.WriteString(fmt.Sprintf("      %d. %s\n", i+1, file))
		}
	}

	if w.Suggestion != "" {
		b.WriteString("    Suggestion:\n")
		b.WriteString("    ")
		b.WriteString(w.Suggestion)
		b.WriteString("\n")
	}

	return strings.TrimSuffix(b.String(), "\n")
}

// ShowWarning prints a warning block. Blocks count as warnings for level
// filtering.
func (n *Notifier) ShowWarning(w Warning) {
	if n.log != nil {
		n.log.LogWarn("WARNING: " + w.Title)
	}
	if n.out == nil || !n.level.Allows(KindWarning) {
		return
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintln(n.out, n.warning.Sprint(w.Render()))
}
