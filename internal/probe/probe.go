// Package probe inspects the files selected by the tree builder: type and
// language detection, encoding classification, content digests, timestamps, and
// the content itself for files that are embedded in a report.
package probe

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/harrison/projexport/internal/fileutil"
)

// FileMetadata is everything a report needs to know about one file node.
// It is derived per run and never cached.
type FileMetadata struct {
	RelPath   string
	AbsPath   string
	Extension string
	Language  string
	Size      int64 // Bytes at probe time (falls back to traversal size when stat fails)
	IsText    bool

	// Embeddable is IsText && Size <= maxSize for regular files. Only embeddable
	// files are read.
	Embeddable bool
	Content    []byte
	Encoding   Encoding
	Digests    Digests

	Created  time.Time
	Modified time.Time

	StatErr   error // Timestamps unavailable
	ReadErr   error // *FileReadError, file is demoted to the excluded listing
	DigestErr error // *DigestError, digests hold DigestSentinel
}

// Embedded reports whether the file's content goes into the report.
func (m *FileMetadata) Embedded() bool {
	return m.Embeddable && m.ReadErr == nil
}

// HasTimes reports whether Created and Modified were retrieved.
func (m *FileMetadata) HasTimes() bool {
	return m.StatErr == nil
}

// Probe inspects a single file node. maxSize is the inclusive ceiling for
// embedding. Probe never fails: problems are recorded on the returned metadata.
func Probe(node *fileutil.Node, maxSize int64) FileMetadata {
	m := FileMetadata{
		RelPath:   node.RelPath,
		AbsPath:   node.AbsPath,
		Extension: node.Extension,
		Language:  LanguageOf(node.Extension),
		Size:      node.Size,
		IsText:    IsTextFile(node.Name),
		Encoding:  EncodingUnknown,
		Digests:   failedDigests(),
	}

	info, err := os.Stat(node.AbsPath)
	if err != nil {
		m.StatErr = err
		m.Embeddable = m.IsText && m.Size <= maxSize
		if m.Embeddable {
			m.ReadErr = &FileReadError{Path: node.RelPath, Err: err}
		}
		return m
	}

	m.Modified = info.ModTime()
	m.Created = birthTime(node.AbsPath, info)

	// FIFOs, sockets, devices and links to directories are listed, never opened.
	if !info.Mode().IsRegular() {
		m.Size = 0
		return m
	}

	m.Size = info.Size()
	m.Embeddable = m.IsText && m.Size <= maxSize
	if !m.Embeddable {
		return m
	}

	content, err := os.ReadFile(node.AbsPath)
	if err != nil {
		m.ReadErr = &FileReadError{Path: node.RelPath, Err: err}
		return m
	}

	// The file may have grown between stat and read.
	m.Size = int64(len(content))
	if m.Size > maxSize {
		m.Embeddable = false
		return m
	}

	m.Content = content
	m.Encoding = DetectEncoding(content)

	digests, err := hashNode(node)
	m.Digests = digests
	if err != nil {
		m.DigestErr = err
	}

	return m
}

// hashNode hashes the node's file. A failure names the file by its relative
// path, like every other probe diagnostic.
func hashNode(node *fileutil.Node) (Digests, error) {
	d, err := HashFile(node.AbsPath)
	if err != nil {
		return d, &DigestError{Path: node.RelPath, Err: errors.Unwrap(err)}
	}
	return d, nil
}

// ProbeAll probes nodes on a bounded worker pool. The result is index-aligned
// with nodes, so the tree order is preserved for rendering. workers <= 0 uses
// one worker per CPU.
func ProbeAll(ctx context.Context, nodes []*fileutil.Node, maxSize int64, workers int) ([]FileMetadata, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, fmt.Errorf("create probe pool failed: %w", err)
	}
	defer pool.Release()

	results := make([]FileMetadata, len(nodes))
	var wg sync.WaitGroup

	for i, node := range nodes {
		i, node := i, node
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return nil, err
		}

		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			results[i] = Probe(node, maxSize)
		}); err != nil {
			// Pool refused the task; probe inline so no file is lost.
			wg.Done()
			results[i] = Probe(node, maxSize)
		}
	}

	wg.Wait()
	return results, nil
}
