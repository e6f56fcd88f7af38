package report

import (
	"sort"

	"github.com/harrison/projexport/internal/fileutil"
	"github.com/harrison/projexport/internal/probe"
)

// NoExtensionLabel stands in for an empty extension in the distribution table.
const NoExtensionLabel = "no extension"

// ExtensionCount is one row of the file type distribution.
type ExtensionCount struct {
	Extension string
	Count     int
}

// Label returns the extension as rendered in a report.
func (e ExtensionCount) Label() string {
	if e.Extension == "" {
		return NoExtensionLabel
	}
	return e.Extension
}

// Stats aggregates the tree for the statistics section.
type Stats struct {
	TotalFiles       int
	TotalDirectories int
	TextFiles        int
	BinaryFiles      int
	TotalSize        int64
	// FileTypes is sorted by descending count; ties keep first-seen order
	FileTypes []ExtensionCount
}

// ComputeStats walks the tree once. Text and binary counts follow the text
// allow-list only, regardless of the embedding size ceiling.
func ComputeStats(nodes []*fileutil.Node) Stats {
	var s Stats
	index := make(map[string]int)

	fileutil.Walk(nodes, func(n *fileutil.Node) bool {
		if n.IsDir() {
			s.TotalDirectories++
			return true
		}

		s.TotalFiles++
		s.TotalSize += n.Size
		if probe.IsTextFile(n.Name) {
			s.TextFiles++
		} else {
			s.BinaryFiles++
		}

		if i, ok := index[n.Extension]; ok {
			s.FileTypes[i].Count++
		} else {
			index[n.Extension] = len(s.FileTypes)
			s.FileTypes = append(s.FileTypes, ExtensionCount{Extension: n.Extension, Count: 1})
		}
		return true
	})

	sort.SliceStable(s.FileTypes, func(i, j int) bool {
		return s.FileTypes[i].Count > s.FileTypes[j].Count
	})

	return s
}
