package exporter

import (
	"errors"
	"fmt"
	"strings"
)

// NoRootError is returned when no export root is available. No files are
// written.
type NoRootError struct {
	Root string // Empty when no root was given
	Err  error  // Underlying stat error (optional)
}

// Error implements the error interface for NoRootError.
func (e *NoRootError) Error() string {
	if e.Root == "" {
		return "no export root given"
	}
	if e.Err != nil {
		return fmt.Sprintf("export root %s is not available: %v", e.Root, e.Err)
	}
	return fmt.Sprintf("export root %s is not a directory", e.Root)
}

// Unwrap returns the underlying error for error wrapping support.
func (e *NoRootError) Unwrap() error {
	return e.Err
}

// ExportError is returned when no requested report could be written.
type ExportError struct {
	Root   string
	Errors []error // One *output.WriteError per requested format
}

// Error implements the error interface for ExportError.
func (e *ExportError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, err := range e.Errors {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("export of %s failed: %s", e.Root, strings.Join(msgs, "; "))
}

// Unwrap returns every write error so errors.As can reach each of them.
func (e *ExportError) Unwrap() []error {
	return e.Errors
}

// IsNoRoot reports whether err is (or wraps) a NoRootError.
func IsNoRoot(err error) bool {
	var target *NoRootError
	return errors.As(err, &target)
}
