package pattern

import (
	"strings"
)

// Warning describes a pattern that was skipped because it failed to compile.
// The pattern stays in the set but never matches.
type Warning struct {
	Pattern string // The problematic pattern
	Index   int    // Position in the configured list (0-indexed)
	Err     error  // Underlying *CompileError
}

// Message returns a human-readable description of the warning.
func (w Warning) Message() string {
	return w.Err.Error()
}

type entry struct {
	pattern string
	matcher Matcher // nil when the pattern failed to compile
}

// Set is an ordered, compiled list of exclusion patterns for a single run.
// Set is read-only after NewSet returns and is safe for concurrent Match calls.
type Set struct {
	entries  []entry
	warnings []Warning
}

// NewSet compiles the given patterns in order. Each distinct pattern string is
// compiled once. Blank patterns are ignored. NewSet never fails.
func NewSet(patterns []string) *Set {
	s := &Set{
		entries:  make([]entry, 0, len(patterns)),
		warnings: make([]Warning, 0),
	}

	cache := make(map[string]Matcher, len(patterns))
	failed := make(map[string]bool)

	for i, p := range patterns {
		if strings.TrimSpace(p) == "" {
			continue
		}

		if m, ok := cache[p]; ok {
			s.entries = append(s.entries, entry{pattern: p, matcher: m})
			continue
		}
		if failed[p] {
			s.entries = append(s.entries, entry{pattern: p})
			continue
		}

		m, err := Compile(p)
		if err != nil {
			failed[p] = true
			s.warnings = append(s.warnings, Warning{Pattern: p, Index: i, Err: err})
			s.entries = append(s.entries, entry{pattern: p})
			continue
		}
		cache[p] = m
		s.entries = append(s.entries, entry{pattern: p, matcher: m})
	}

	return s
}

// Match tests relPath against every pattern in order and returns the first
// pattern that matched. relPath is normalized before matching.
func (s *Set) Match(relPath string) (string, bool) {
	if s == nil {
		return "", false
	}
	p := NormalizePath(relPath)
	for _, e := range s.entries {
		if e.matcher != nil && e.matcher.Match(p) {
			return e.pattern, true
		}
	}
	return "", false
}

// Warnings returns one entry per distinct pattern that failed to compile.
func (s *Set) Warnings() []Warning {
	if s == nil {
		return nil
	}
	return s.warnings
}

// Len returns the number of non-blank patterns in the set.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

// NormalizePath converts a relative path to the form patterns are matched against:
// forward slashes, no duplicate slashes, no leading "./" and no trailing "/".
func NormalizePath(p string) string {
	p = strings.ReplaceAll(p, `\`, "/")

	if strings.Contains(p, "//") {
		var b strings.Builder
		b.Grow(len(p))
		prevSlash := false
		for i := 0; i < len(p); i++ {
			if p[i] == '/' {
				if !prevSlash {
					b.WriteByte('/')
				}
				prevSlash = true
			} else {
				b.WriteByte(p[i])
				prevSlash = false
			}
		}
		p = b.String()
	}

	for strings.HasPrefix(p, "./") {
		p = p[2:]
	}

	return strings.TrimSuffix(p, "/")
}
