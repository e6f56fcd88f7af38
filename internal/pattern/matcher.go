// Package pattern compiles exclusion patterns into path predicates.
//
// The grammar is a small glob subset:
//
//   - "dir/**" matches "dir" itself and everything nested under "dir/"
//   - "prefix**" matches any path starting with "prefix"
//   - otherwise the whole relative path must match, where "**" matches any
//     characters, "*" matches any characters except "/", and "?" matches a
//     single character except "/"
//
// Paths are root-relative and use forward slashes. A pattern that cannot be
// compiled never matches; NewSet reports it as a Warning instead of failing.
package pattern

import (
	"fmt"
	"regexp"
	"strings"
)

// MaxPatternLength caps the size of a single exclusion pattern.
const MaxPatternLength = 1024

// Matcher reports whether a root-relative path matches one pattern.
type Matcher interface {
	Match(relPath string) bool
	Pattern() string
}

// CompileError is returned when a pattern cannot be turned into a Matcher.
type CompileError struct {
	Pattern string
	Reason  string
	Err     error
}

// Error implements the error interface for CompileError.
func (e *CompileError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid pattern %q: %s: %v", e.Pattern, e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid pattern %q: %s", e.Pattern, e.Reason)
}

// Unwrap returns the underlying error.
func (e *CompileError) Unwrap() error {
	return e.Err
}

// treeMatcher handles "prefix/**".
type treeMatcher struct {
	pattern string
	base    string
}

func (m treeMatcher) Match(relPath string) bool {
	return relPath == m.base || strings.HasPrefix(relPath, m.base+"/")
}

func (m treeMatcher) Pattern() string { return m.pattern }

// prefixMatcher handles "prefix**".
type prefixMatcher struct {
	pattern string
	prefix  string
}

func (m prefixMatcher) Match(relPath string) bool {
	return strings.HasPrefix(relPath, m.prefix)
}

func (m prefixMatcher) Pattern() string { return m.pattern }

type regexMatcher struct {
	pattern string
	re      *regexp.Regexp
}

func (m regexMatcher) Match(relPath string) bool {
	return m.re.MatchString(relPath)
}

func (m regexMatcher) Pattern() string { return m.pattern }

// Compile translates a single exclusion pattern into a Matcher.
func Compile(pattern string) (Matcher, error) {
	if len(pattern) > MaxPatternLength {
		return nil, &CompileError{
			Pattern: pattern,
			Reason:  fmt.Sprintf("longer than %d bytes", MaxPatternLength),
		}
	}

	normalized := strings.ReplaceAll(pattern, `\`, "/")

	if strings.HasSuffix(normalized, "/**") {
		return treeMatcher{pattern: pattern, base: strings.TrimSuffix(normalized, "/**")}, nil
	}
	if strings.HasSuffix(normalized, "**") {
		return prefixMatcher{pattern: pattern, prefix: strings.TrimSuffix(normalized, "**")}, nil
	}

	expr := translate(normalized)
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, &CompileError{Pattern: pattern, Reason: "cannot compile " + expr, Err: err}
	}
	return regexMatcher{pattern: pattern, re: re}, nil
}

// translate converts the glob body to an anchored regular expression.
// Only '.', '*' and '?' are rewritten; every other byte is passed through.
func translate(glob string) string {
	var b strings.Builder
	b.Grow(len(glob) + 8)
	b.WriteByte('^')
	for i := 0; i < len(glob); i++ {
		switch c := glob[i]; c {
		case '*':
			if i+1 < len(glob) && glob[i+1] == '*' {
				b.WriteString(".*")
				i++
			} else {
				b.WriteString("[^/]*")
			}
		case '?':
			b.WriteString("[^/]")
		case '.':
			b.WriteString(`\.`)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('$')
	return b.String()
}
