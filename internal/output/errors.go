package output

import "fmt"

// CleanupError reports a stale report that could not be deleted. Callers treat
// it as a warning: the new report is still written.
type CleanupError struct {
	Path string
	Err  error
}

// Error implements the error interface for CleanupError.
func (e *CleanupError) Error() string {
	return fmt.Sprintf("could not clean previous output file %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error for error wrapping support.
func (e *CleanupError) Unwrap() error {
	return e.Err
}

// WriteError reports a report file that could not be written. It is fatal for
// that format only.
type WriteError struct {
	Path   string
	Format string
	Err    error
}

// Error implements the error interface for WriteError.
func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write %s report %s: %v", e.Format, e.Path, e.Err)
}

// Unwrap returns the underlying error for error wrapping support.
func (e *WriteError) Unwrap() error {
	return e.Err
}
