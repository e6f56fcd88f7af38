package report

import "strings"

// anchorPrefix is prepended to every file anchor id in the Markdown report.
const anchorPrefix = "📄-"

// Anchor turns a relative path into a link fragment: lowercase, every run of
// characters outside [a-z0-9] collapsed to one hyphen, hyphens trimmed.
func Anchor(relPath string) string {
	var sb strings.Builder
	sb.Grow(len(relPath))
	dash := false

	for _, r := range strings.ToLower(relPath) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
			dash = false
			continue
		}
		if !dash {
			sb.WriteByte('-')
			dash = true
		}
	}

	return strings.Trim(sb.String(), "-")
}

// AnchorID is the id attribute used for a file's heading.
func AnchorID(relPath string) string {
	return anchorPrefix + Anchor(relPath)
}
