package fileutil

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/harrison/projexport/internal/pattern"
)

// NodeKind distinguishes files from directories in the tree.
type NodeKind int

const (
	// KindFile is a regular file (or anything that is not a directory)
	KindFile NodeKind = iota
	// KindDirectory is a directory whose children are fully resolved
	KindDirectory
)

// String returns a human-readable representation of the node kind
func (k NodeKind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDirectory:
		return "directory"
	default:
		return "unknown"
	}
}

// Node is one entry of the export tree.
type Node struct {
	Name      string   // Path segment
	Kind      NodeKind // File or directory
	AbsPath   string   // Absolute path on disk
	RelPath   string   // Root-relative path with forward slashes
	Children  []*Node  // Directory only, sorted directories first then by name
	Size      int64    // File only, bytes at traversal time
	Extension string   // File only, lowercase with leading dot, or empty
}

// IsDir reports whether the node is a directory.
func (n *Node) IsDir() bool {
	return n.Kind == KindDirectory
}

// ExclusionReason records why an entry was left out of the tree.
type ExclusionReason string

const (
	ReasonSelfOutput   ExclusionReason = "self-output"
	ReasonLikelyOutput ExclusionReason = "likely-output"
	ReasonHidden       ExclusionReason = "hidden"
	ReasonPattern      ExclusionReason = "pattern"
)

// Exclusion describes one entry skipped during traversal.
type Exclusion struct {
	RelPath string
	Reason  ExclusionReason
	Pattern string // Set only for ReasonPattern
}

// TreeOptions configures BuildTree.
type TreeOptions struct {
	// IncludeHidden keeps entries whose name starts with "."
	IncludeHidden bool
	// Patterns holds the compiled exclusion patterns (nil = none)
	Patterns *pattern.Set
	// IsSelfOutput reports whether a base name is one of this run's output files
	IsSelfOutput func(name string) bool
	// IsLikelyOutput reports whether a base name follows a known output naming convention
	IsLikelyOutput func(name string) bool
	// Concurrency caps the number of subtrees built in parallel (0 = runtime.NumCPU)
	Concurrency int
}

// Tree is the result of BuildTree.
type Tree struct {
	// Root is the absolute path of the exported directory
	Root string
	// Nodes are the root's children
	Nodes []*Node
	// Errors contains non-fatal traversal errors (one per unreadable directory or entry)
	Errors []error
	// Excluded lists every entry skipped by the exclusion rules, in traversal order
	Excluded []Exclusion
}

// subtree is the value returned for every directory; parents merge children's
// results in order so nothing is shared between goroutines.
type subtree struct {
	nodes    []*Node
	errs     []error
	excluded []Exclusion
}

type builder struct {
	opts TreeOptions
	sem  chan struct{}
}

// BuildTree enumerates root into an ordered tree of nodes.
// It fails only when root cannot be used as a directory; every other problem is
// collected in Tree.Errors and traversal continues with the next sibling.
func BuildTree(root string, opts TreeOptions) (*Tree, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root %s: %w", root, err)
	}

	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to access directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", absRoot)
	}

	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}

	b := &builder{
		opts: opts,
		sem:  make(chan struct{}, concurrency),
	}

	st := b.buildDir(absRoot, "")

	return &Tree{
		Root:     absRoot,
		Nodes:    st.nodes,
		Errors:   st.errs,
		Excluded: st.excluded,
	}, nil
}

func (b *builder) buildDir(absDir, relDir string) subtree {
	entries, err := os.ReadDir(absDir)
	if err != nil {
		return subtree{errs: []error{&SubtreeAccessError{Path: displayPath(relDir), Op: "read directory", Err: err}}}
	}

	var st subtree
	nodes := make([]*Node, 0, len(entries))
	var dirs []*Node

	for _, entry := range entries {
		name := entry.Name()
		rel := joinRel(relDir, name)

		if reason, pat, excluded := b.exclude(name, rel); excluded {
			st.excluded = append(st.excluded, Exclusion{RelPath: rel, Reason: reason, Pattern: pat})
			continue
		}

		abs := filepath.Join(absDir, name)

		if entry.IsDir() {
			node := &Node{
				Name:     name,
				Kind:     KindDirectory,
				AbsPath:  abs,
				RelPath:  rel,
				Children: []*Node{},
			}
			nodes = append(nodes, node)
			dirs = append(dirs, node)
			continue
		}

		info, err := entry.Info()
		if err != nil {
			st.errs = append(st.errs, &SubtreeAccessError{Path: rel, Op: "stat", Err: err})
			continue
		}

		nodes = append(nodes, &Node{
			Name:      name,
			Kind:      KindFile,
			AbsPath:   abs,
			RelPath:   rel,
			Size:      leafSize(abs, info),
			Extension: strings.ToLower(filepath.Ext(name)),
		})
	}

	results := make([]subtree, len(dirs))
	var wg sync.WaitGroup
	for i, dir := range dirs {
		i, dir := i, dir
		select {
		case b.sem <- struct{}{}:
			wg.Add(1)
			go func() {
				defer wg.Done()
				defer func() { <-b.sem }()
				results[i] = b.buildDir(dir.AbsPath, dir.RelPath)
			}()
		default:
			// Semaphore full: build inline rather than wait, so nested levels never deadlock.
			results[i] = b.buildDir(dir.AbsPath, dir.RelPath)
		}
	}
	wg.Wait()

	for i, dir := range dirs {
		dir.Children = results[i].nodes
		st.errs = append(st.errs, results[i].errs...)
		st.excluded = append(st.excluded, results[i].excluded...)
	}

	SortNodes(nodes)
	st.nodes = nodes
	return st
}

// leafSize is the byte size a leaf contributes to the report. Symlinks are never
// followed into: a link counts its target's size only when the target is a
// regular file, and dangling links, FIFOs, sockets and devices count zero.
func leafSize(abs string, info fs.FileInfo) int64 {
	mode := info.Mode()
	if mode&fs.ModeSymlink != 0 {
		target, err := os.Stat(abs)
		if err != nil {
			return 0
		}
		mode, info = target.Mode(), target
	}
	if !mode.IsRegular() {
		return 0
	}
	return info.Size()
}

// exclude applies the exclusion rules in order; the first match wins.
func (b *builder) exclude(name, rel string) (ExclusionReason, string, bool) {
	if b.opts.IsSelfOutput != nil && b.opts.IsSelfOutput(name) {
		return ReasonSelfOutput, "", true
	}
	if b.opts.IsLikelyOutput != nil && b.opts.IsLikelyOutput(name) {
		return ReasonLikelyOutput, "", true
	}
	if !b.opts.IncludeHidden && strings.HasPrefix(name, ".") {
		return ReasonHidden, "", true
	}
	if p, ok := b.opts.Patterns.Match(rel); ok {
		return ReasonPattern, p, true
	}
	return "", "", false
}

// SortNodes orders siblings: directories before files, then by name (byte order).
func SortNodes(nodes []*Node) {
	sort.SliceStable(nodes, func(i, j int) bool {
		if nodes[i].Kind != nodes[j].Kind {
			return nodes[i].Kind == KindDirectory
		}
		return nodes[i].Name < nodes[j].Name
	})
}

// Walk visits nodes depth-first in pre-order. Returning false from fn skips the
// node's children.
func Walk(nodes []*Node, fn func(n *Node) bool) {
	for _, n := range nodes {
		if fn(n) && n.Kind == KindDirectory {
			Walk(n.Children, fn)
		}
	}
}

// Files returns every file node in render order.
func (t *Tree) Files() []*Node {
	var files []*Node
	Walk(t.Nodes, func(n *Node) bool {
		if n.Kind == KindFile {
			files = append(files, n)
		}
		return true
	})
	return files
}

// Directories returns every directory node in render order.
func (t *Tree) Directories() []*Node {
	var dirs []*Node
	Walk(t.Nodes, func(n *Node) bool {
		if n.Kind == KindDirectory {
			dirs = append(dirs, n)
		}
		return true
	})
	return dirs
}

func joinRel(dir, name string) string {
	if dir == "" {
		return name
	}
	return dir + "/" + name
}

func displayPath(rel string) string {
	if rel == "" {
		return "."
	}
	return rel
}
