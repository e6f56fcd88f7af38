// Package watch re-runs exports when files of the project change.
//
// Watcher turns fsnotify events under the project root into Events, skipping
// everything the export itself would ignore (hidden and excluded entries, its
// own reports, lock and temp files). Debouncer coalesces bursts of events into
// one call and never lets two calls overlap. Runner ties both to an export
// function and reloads the project configuration before every run.
package watch

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/harrison/projexport/internal/config"
	"github.com/harrison/projexport/internal/filelock"
	"github.com/harrison/projexport/internal/output"
	"github.com/harrison/projexport/internal/pattern"
)

// Op represents the type of file operation
type Op int

const (
	// OpCreated indicates a new file or directory was created
	OpCreated Op = iota
	// OpWritten indicates a file was written to
	OpWritten
	// OpRemoved indicates a file was removed or renamed away
	OpRemoved
)

// String returns a human-readable representation of the operation
func (op Op) String() string {
	switch op {
	case OpCreated:
		return "created"
	case OpWritten:
		return "written"
	case OpRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// Event is a change to a path the export cares about.
type Event struct {
	Path      string // Absolute path
	RelPath   string // Root-relative path with forward slashes
	Op        Op
	Timestamp time.Time
}

// IgnoreFunc reports whether a root-relative path should not trigger exports.
// name is the base name and isDir is true for directories.
type IgnoreFunc func(relPath, name string, isDir bool) bool

// NewIgnore builds the IgnoreFunc matching the export of root with cfg: hidden
// entries (unless included), exclude patterns, current and legacy reports, and
// lock or temp files written next to them.
func NewIgnore(root string, cfg *config.Config) IgnoreFunc {
	patterns := pattern.NewSet(cfg.ExcludePatterns)
	mgr := output.NewManager(root, cfg.OutputFileName, cfg.OutputExtensions())
	includeHidden := cfg.IncludeHiddenFiles

	return func(relPath, name string, isDir bool) bool {
		if !isDir && (mgr.IsSelfOutput(name) || output.IsLikelyOutput(name) || filelock.IsTempFile(name)) {
			return true
		}
		if !includeHidden && len(name) > 0 && name[0] == '.' {
			return true
		}
		_, excluded := patterns.Match(relPath)
		return excluded
	}
}

// Watcher watches a project tree for changes.
type Watcher struct {
	watcher *fsnotify.Watcher
	events  chan Event
	errors  chan error
	done    chan struct{}
	root    string

	mu     sync.Mutex
	ignore IgnoreFunc
	closed bool
}

// NewWatcher watches root and every directory below it that ignore does not
// skip. ignore may be nil.
func NewWatcher(root string, ignore IgnoreFunc) (*Watcher, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		watcher: watcher,
		events:  make(chan Event, 100),
		errors:  make(chan error, 10),
		done:    make(chan struct{}),
		root:    root,
		ignore:  ignore,
	}

	if err := w.addRecursive(root); err != nil {
		watcher.Close()
		return nil, err
	}

	go w.processEvents()

	return w, nil
}

// SetIgnore replaces the ignore rules. Directories already watched stay
// watched; their events are filtered by the new rules.
func (w *Watcher) SetIgnore(ignore IgnoreFunc) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.ignore = ignore
}

func (w *Watcher) ignored(path string, isDir bool) bool {
	rel, err := filepath.Rel(w.root, path)
	if err != nil || rel == "." {
		return false
	}

	w.mu.Lock()
	ignore := w.ignore
	w.mu.Unlock()

	if ignore == nil {
		return false
	}
	return ignore(filepath.ToSlash(rel), filepath.Base(path), isDir)
}

// addRecursive adds dir and every directory below it that is not ignored.
func (w *Watcher) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Vanished or unreadable directories are skipped
			if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			return err
		}

		if !d.IsDir() {
			return nil
		}
		if path != dir && w.ignored(path, true) {
			return filepath.SkipDir
		}

		if err := w.watcher.Add(path); err != nil {
			if errors.Is(err, fs.ErrPermission) || errors.Is(err, fs.ErrNotExist) {
				return filepath.SkipDir
			}
			return err
		}
		return nil
	})
}

func (w *Watcher) processEvents() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.sendError(err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	path := event.Name

	isDir := false
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			isDir = true
		}
	}

	if w.ignored(path, isDir) {
		return
	}

	if isDir {
		if err := w.addRecursive(path); err != nil {
			w.sendError(err)
		}
	}

	var op Op
	switch {
	case event.Has(fsnotify.Create):
		op = OpCreated
	case event.Has(fsnotify.Write):
		op = OpWritten
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		op = OpRemoved
	default:
		// Ignore chmod events
		return
	}

	rel, _ := filepath.Rel(w.root, path)
	w.sendEvent(Event{
		Path:      path,
		RelPath:   filepath.ToSlash(rel),
		Op:        op,
		Timestamp: time.Now(),
	})
}

func (w *Watcher) sendEvent(event Event) {
	select {
	case w.events <- event:
	case <-w.done:
	default:
		// Events channel full; a pending event already guarantees a run
	}
}

func (w *Watcher) sendError(err error) {
	select {
	case w.errors <- err:
	default:
	}
}

// Events returns the channel for receiving file events
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Errors returns the channel for receiving errors
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Root returns the absolute directory being watched
func (w *Watcher) Root() string {
	return w.root
}

// Close stops the watcher and releases resources
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()

	close(w.done)
	return w.watcher.Close()
}
