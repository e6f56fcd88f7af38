// Package output owns the report files of an export run: their names, the
// self-exclusion rules that keep a report out of its own tree, removal of stale
// reports, and the final locked atomic write.
package output

import (
	"path/filepath"
	"regexp"
	"strings"
)

// WorkspacePlaceholder is replaced by the project directory name in templates.
const WorkspacePlaceholder = "{workspaceName}"

// DefaultTemplate is used when no file name template is configured.
const DefaultTemplate = WorkspacePlaceholder + "-output"

// Report file extensions, in the order formats are written.
const (
	ExtText     = "txt"
	ExtMarkdown = "md"
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	illegalChars  = regexp.MustCompile(`[<>:"/\\|?*]`)
	reportSuffix  = regexp.MustCompile(`(?i)\.(txt|md)$`)
)

// likelyOutputPatterns recognize reports written under current and historical
// naming conventions, whatever the template in use today.
var likelyOutputPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)-ESTRUTURA-E-ARQUIVOS-DO-PROJETO\.(txt|md)$`),
	regexp.MustCompile(`(?i)-output\.(txt|md)$`),
	regexp.MustCompile(`(?i)-project-export\.(txt|md)$`),
	regexp.MustCompile(`(?i)-full-project\.(txt|md)$`),
}

// Formats expands an output format setting into file extensions. Unknown
// values fall back to both formats.
func Formats(format string) []string {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "txt", "text":
		return []string{ExtText}
	case "md", "markdown":
		return []string{ExtMarkdown}
	default:
		return []string{ExtText, ExtMarkdown}
	}
}

// WorkspaceName returns the base name of root with whitespace runs replaced by
// hyphens.
func WorkspaceName(root string) string {
	name := strings.TrimSpace(filepath.Base(filepath.Clean(root)))
	return whitespaceRun.ReplaceAllString(name, "-")
}

// ExpectedFileName derives the report file name for root and ext from template.
func ExpectedFileName(template, root, ext string) string {
	name := template
	if strings.TrimSpace(name) == "" {
		name = DefaultTemplate
	}

	name = strings.ReplaceAll(name, WorkspacePlaceholder, WorkspaceName(root))
	name = whitespaceRun.ReplaceAllString(name, "-")
	name = illegalChars.ReplaceAllString(name, "-")
	name = reportSuffix.ReplaceAllString(name, "")

	return name + "." + ext
}

// LockFileName is the hidden lock file guarding writes to a report.
func LockFileName(name string) string {
	return "." + name + ".lock"
}

// IsLikelyOutput reports whether name follows a known report naming convention.
func IsLikelyOutput(name string) bool {
	for _, p := range likelyOutputPatterns {
		if p.MatchString(name) {
			return true
		}
	}
	return false
}
