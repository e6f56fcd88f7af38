package report

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Heading is one heading found in a Markdown report.
type Heading struct {
	Level int
	Text  string
}

// Outline is the structure of a Markdown report as seen by a CommonMark parser.
type Outline struct {
	Headings     []Heading
	FencedBlocks int
	Anchors      []string // ids of inline <a id="..."> tags
	Links        []string // link destinations in document order
}

// Sections returns the level-2 headings, the top-level sections of a report.
func (o *Outline) Sections() []string {
	var out []string
	for _, h := range o.Headings {
		if h.Level == 2 {
			out = append(out, h.Text)
		}
	}
	return out
}

// Title returns the first level-1 heading, or "".
func (o *Outline) Title() string {
	for _, h := range o.Headings {
		if h.Level == 1 {
			return h.Text
		}
	}
	return ""
}

// BrokenLinks returns fragment links ("#...") with no matching anchor.
func (o *Outline) BrokenLinks() []string {
	known := make(map[string]bool, len(o.Anchors))
	for _, a := range o.Anchors {
		known[a] = true
	}

	var broken []string
	for _, l := range o.Links {
		if frag, ok := strings.CutPrefix(l, "#"); ok && !known[frag] {
			broken = append(broken, l)
		}
	}
	return broken
}

var anchorIDPattern = regexp.MustCompile(`<a\s+id="([^"]+)"\s*>`)

// InspectMarkdown parses a Markdown report and extracts its outline.
func InspectMarkdown(source []byte) (*Outline, error) {
	doc := goldmark.New().Parser().Parse(text.NewReader(source))
	outline := &Outline{}

	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading:
			outline.Headings = append(outline.Headings, Heading{
				Level: node.Level,
				Text:  strings.TrimSpace(extractText(node, source)),
			})
		case *ast.FencedCodeBlock:
			outline.FencedBlocks++
			return ast.WalkSkipChildren, nil
		case *ast.RawHTML:
			var raw bytes.Buffer
			for i := 0; i < node.Segments.Len(); i++ {
				seg := node.Segments.At(i)
				raw.Write(seg.Value(source))
			}
			for _, m := range anchorIDPattern.FindAllSubmatch(raw.Bytes(), -1) {
				outline.Anchors = append(outline.Anchors, string(m[1]))
			}
		case *ast.Link:
			outline.Links = append(outline.Links, string(node.Destination))
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk markdown: %w", err)
	}

	return outline, nil
}

// extractText concatenates the text and code span content under n.
func extractText(n ast.Node, source []byte) string {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			buf.Write(t.Segment.Value(source))
		case *ast.String:
			buf.Write(t.Value)
		default:
			buf.WriteString(extractText(c, source))
		}
	}
	return buf.String()
}
