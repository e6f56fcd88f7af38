package report

import (
	"strings"

	"github.com/harrison/projexport/internal/fileutil"
)

const (
	connectorMid  = "├── "
	connectorLast = "└── "
	indentMid     = "│   "
	indentLast    = "    "
)

// RenderTree draws nodes depth-first with box-drawing connectors. Directories
// end with "/"; files carry their size in parentheses when it is non-zero.
func RenderTree(nodes []*fileutil.Node) string {
	var sb strings.Builder
	renderTree(&sb, nodes, "")
	return sb.String()
}

func renderTree(sb *strings.Builder, nodes []*fileutil.Node, indent string) {
	for i, n := range nodes {
		last := i == len(nodes)-1
		connector, next := connectorMid, indent+indentMid
		if last {
			connector, next = connectorLast, indent+indentLast
		}

		sb.WriteString(indent)
		sb.WriteString(connector)

		if n.IsDir() {
			sb.WriteString("📁 ")
			sb.WriteString(n.Name)
			sb.WriteString("/\n")
			renderTree(sb, n.Children, next)
			continue
		}

		sb.WriteString("📄 ")
		sb.WriteString(n.Name)
		if n.Size > 0 {
			sb.WriteString(" (")
			sb.WriteString(FormatSize(n.Size))
			sb.WriteString(")")
		}
		sb.WriteString("\n")
	}
}
