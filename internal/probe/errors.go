package probe

import "fmt"

// FileReadError reports a text file whose content could not be read for
// embedding. The file is listed with the binary/excluded files instead.
type FileReadError struct {
	Path string
	Err  error
}

// Error implements the error interface for FileReadError.
func (e *FileReadError) Error() string {
	return fmt.Sprintf("failed to read %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error for error wrapping support.
func (e *FileReadError) Unwrap() error {
	return e.Err
}

// DigestError reports a file that could not be hashed. The digests are rendered
// as DigestSentinel and the file stays in the report.
type DigestError struct {
	Path string
	Err  error
}

// Error implements the error interface for DigestError.
func (e *DigestError) Error() string {
	return fmt.Sprintf("failed to hash %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error for error wrapping support.
func (e *DigestError) Unwrap() error {
	return e.Err
}
