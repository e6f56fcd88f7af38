package fileutil

import "fmt"

// SubtreeAccessError reports a directory (or a single entry) that could not be
// read during traversal. The affected node keeps zero children and the walk
// continues with its siblings.
type SubtreeAccessError struct {
	Path string // Root-relative path ("." for the root itself)
	Op   string // "read directory" or "stat"
	Err  error
}

// Error implements the error interface for SubtreeAccessError.
func (e *SubtreeAccessError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error for error wrapping support.
func (e *SubtreeAccessError) Unwrap() error {
	return e.Err
}
