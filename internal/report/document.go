// Package report serializes an export tree and its probed files into the plain
// text and Markdown report formats.
package report

import (
	"path"
	"strings"
	"time"

	"github.com/harrison/projexport/internal/fileutil"
	"github.com/harrison/projexport/internal/probe"
)

// ToolInfo identifies the program that generated a report.
type ToolInfo struct {
	Name    string
	Version string
}

// String renders the tool as "name vX.Y.Z".
func (t ToolInfo) String() string {
	return t.Name + " v" + strings.TrimPrefix(t.Version, "v")
}

// Settings is the configuration snapshot echoed in the report header.
type Settings struct {
	Language          string
	MaxFileSize       int64
	IncludeHidden     bool
	OutputFormat      string
	NotificationLevel string
	FileNameTemplate  string
}

// Document is the complete input of both renderers.
type Document struct {
	ProjectName string
	GeneratedAt time.Time
	Location    *time.Location // Zone used for every timestamp; nil = time.Local
	Tool        ToolInfo
	Settings    Settings
	Nodes       []*fileutil.Node
	Stats       Stats
	// Files holds one entry per file node, in tree order
	Files []probe.FileMetadata
}

// Embedded returns the files whose content goes into the report, in tree order.
func (d *Document) Embedded() []*probe.FileMetadata {
	var out []*probe.FileMetadata
	for i := range d.Files {
		if d.Files[i].Embedded() {
			out = append(out, &d.Files[i])
		}
	}
	return out
}

// Excluded returns the relative paths listed under binary/excluded files: every
// file that is not embedded, whether for type, size, or a read failure.
func (d *Document) Excluded() []string {
	var out []string
	for i := range d.Files {
		if !d.Files[i].Embedded() {
			out = append(out, d.Files[i].RelPath)
		}
	}
	return out
}

func (d *Document) timestamp(t time.Time) string {
	return FormatTimestamp(t, d.Location)
}

// fileInfo holds the rendered metadata fields shared by both formats.
type fileInfo struct {
	Size      string
	Extension string
	Language  string
	Location  string
	Directory string
	Created   string
	Modified  string
	MD5       string
	SHA256    string
	Encoding  string
}

const unavailable = "Unable to retrieve"

func (d *Document) fileInfo(m *probe.FileMetadata) fileInfo {
	fi := fileInfo{
		Size:      FormatSize(m.Size),
		Extension: m.Extension,
		Language:  m.Language,
		Location:  m.RelPath,
		Directory: path.Dir(m.RelPath),
		Created:   unavailable,
		Modified:  unavailable,
		MD5:       m.Digests.MD5,
		SHA256:    m.Digests.SHA256,
		Encoding:  string(m.Encoding),
	}
	if fi.Extension == "" {
		fi.Extension = "none"
	}
	if fi.Directory == "." {
		fi.Directory = "root"
	}
	if m.HasTimes() {
		fi.Created = d.timestamp(m.Created)
		fi.Modified = d.timestamp(m.Modified)
	}
	return fi
}
