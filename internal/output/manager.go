package output

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/harrison/projexport/internal/filelock"
)

// Manager resolves and manages the report files of one run.
type Manager struct {
	root       string
	template   string
	extensions []string
	names      map[string]bool // expected names and their lock files
}

// NewManager creates a manager for the reports of root. extensions are the
// formats requested for the run (see Formats).
func NewManager(root, template string, extensions []string) *Manager {
	m := &Manager{
		root:       root,
		template:   template,
		extensions: extensions,
		names:      make(map[string]bool, 2*len(extensions)),
	}
	for _, ext := range extensions {
		name := m.FileName(ext)
		m.names[name] = true
		m.names[LockFileName(name)] = true
	}
	return m
}

// Extensions returns the requested formats in write order.
func (m *Manager) Extensions() []string {
	return m.extensions
}

// FileName returns the report file name for ext.
func (m *Manager) FileName(ext string) string {
	return ExpectedFileName(m.template, m.root, ext)
}

// Path returns the absolute report path for ext.
func (m *Manager) Path(ext string) string {
	return filepath.Join(m.root, m.FileName(ext))
}

// IsSelfOutput reports whether a base name belongs to this run's output: a
// report for one of the requested formats, its lock file, or an in-flight temp
// file.
func (m *Manager) IsSelfOutput(name string) bool {
	return m.names[name] || filelock.IsTempFile(name)
}

// ReclaimPrevious deletes a report left by a previous run for ext. A missing
// file is not an error. Any other failure is returned as *CleanupError.
func (m *Manager) ReclaimPrevious(ext string) (bool, error) {
	path := m.Path(ext)

	info, err := os.Lstat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, &CleanupError{Path: path, Err: err}
	}
	if info.IsDir() {
		return false, &CleanupError{Path: path, Err: fmt.Errorf("path is a directory")}
	}

	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, &CleanupError{Path: path, Err: err}
	}
	return true, nil
}

// Write stores the report for ext under its lock file and returns the file name
// written. Failures are returned as *WriteError.
func (m *Manager) Write(ctx context.Context, ext string, data []byte) (string, error) {
	name := m.FileName(ext)
	path := filepath.Join(m.root, name)
	lockPath := filepath.Join(m.root, LockFileName(name))

	if err := filelock.LockAndWrite(ctx, path, lockPath, data); err != nil {
		return "", &WriteError{Path: path, Format: ext, Err: err}
	}
	return name, nil
}
