package report

import (
	"fmt"
	"strings"

	"github.com/harrison/projexport/internal/probe"
)

// markdownEscape replaces every run of three backticks in an embedded Markdown
// file so the content cannot close the surrounding fence.
const markdownEscape = "~~~~"

// RenderMarkdown produces the Markdown report: the same sections as the text
// format plus a table of contents with one link per embedded file.
func RenderMarkdown(doc *Document) []byte {
	var sb strings.Builder
	embedded := doc.Embedded()

	sb.WriteString("# 📁 PROJECT EXPORT FOR LLMs\n\n")

	sb.WriteString("## 📊 Project Information\n\n")
	fmt.Fprintf(&sb, "- **Project Name**: %s\n", codeSpan(doc.ProjectName))
	fmt.Fprintf(&sb, "- **Generated On**: %s\n", doc.timestamp(doc.GeneratedAt))
	fmt.Fprintf(&sb, "- **Total Files Processed**: %d\n", doc.Stats.TotalFiles)
	fmt.Fprintf(&sb, "- **Export Tool**: %s\n\n", doc.Tool)

	sb.WriteString("### ⚙️ Export Configuration\n\n")
	sb.WriteString("| Setting | Value |\n")
	sb.WriteString("|---------|-------|\n")
	fmt.Fprintf(&sb, "| Language | `%s` |\n", doc.Settings.Language)
	fmt.Fprintf(&sb, "| Max File Size | `%s` |\n", FormatSize(doc.Settings.MaxFileSize))
	fmt.Fprintf(&sb, "| Include Hidden Files | `%t` |\n", doc.Settings.IncludeHidden)
	fmt.Fprintf(&sb, "| Output Format | `%s` |\n\n", doc.Settings.OutputFormat)

	tree := RenderTree(doc.Nodes)
	treeFence := fence("`", tree, 3)
	sb.WriteString("## 🌳 Project Structure\n\n")
	sb.WriteString(treeFence + "\n")
	sb.WriteString(tree)
	sb.WriteString(treeFence + "\n\n")

	writeTableOfContents(&sb, embedded)

	s := doc.Stats
	sb.WriteString("## 📈 Project Statistics\n\n")
	sb.WriteString("| Metric | Count |\n")
	sb.WriteString("|--------|-------|\n")
	fmt.Fprintf(&sb, "| Total Files | %d |\n", s.TotalFiles)
	fmt.Fprintf(&sb, "| Total Directories | %d |\n", s.TotalDirectories)
	fmt.Fprintf(&sb, "| Text Files | %d |\n", s.TextFiles)
	fmt.Fprintf(&sb, "| Binary Files | %d |\n", s.BinaryFiles)
	fmt.Fprintf(&sb, "| Total Size | %s |\n\n", FormatSize(s.TotalSize))

	if len(s.FileTypes) > 0 {
		sb.WriteString("### 📄 File Types Distribution\n\n")
		sb.WriteString("| Extension | Count |\n")
		sb.WriteString("|-----------|-------|\n")
		for _, ft := range s.FileTypes {
			fmt.Fprintf(&sb, "| `%s` | %d |\n", ft.Label(), ft.Count)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## 💻 File Code Contents\n\n")
	for _, m := range embedded {
		writeMarkdownFile(&sb, doc, m)
	}

	if excluded := doc.Excluded(); len(excluded) > 0 {
		sb.WriteString("## 🚫 Binary/Excluded Files\n\n")
		sb.WriteString("The following files were not included in the text content:\n\n")
		for _, rel := range excluded {
			fmt.Fprintf(&sb, "- %s\n", codeSpan(rel))
		}
		sb.WriteString("\n")
	}

	return []byte(sb.String())
}

func writeTableOfContents(sb *strings.Builder, embedded []*probe.FileMetadata) {
	sb.WriteString("## 📑 Table of Contents\n\n")
	if len(embedded) == 0 {
		sb.WriteString("*No text files found to display.*\n")
	} else {
		sb.WriteString("**Project Files:**\n\n")
		for _, m := range embedded {
			fmt.Fprintf(sb, "- [📄 %s](#%s)\n", linkText(m.RelPath), AnchorID(m.RelPath))
		}
	}
	sb.WriteString("\n---\n\n")
}

func writeMarkdownFile(sb *strings.Builder, doc *Document, m *probe.FileMetadata) {
	fi := doc.fileInfo(m)

	fmt.Fprintf(sb, "### <a id=\"%s\"></a>📄 %s\n\n", AnchorID(m.RelPath), codeSpan(m.RelPath))

	sb.WriteString("**File Info:**\n")
	fmt.Fprintf(sb, "- **Size**: %s\n", fi.Size)
	fmt.Fprintf(sb, "- **Extension**: `%s`\n", fi.Extension)
	fmt.Fprintf(sb, "- **Language**: `%s`\n", fi.Language)
	fmt.Fprintf(sb, "- **Location**: %s\n", codeSpan(fi.Location))
	fmt.Fprintf(sb, "- **Relative Path**: %s\n", codeSpan(fi.Directory))
	fmt.Fprintf(sb, "- **Created**: %s\n", fi.Created)
	fmt.Fprintf(sb, "- **Modified**: %s\n", fi.Modified)
	fmt.Fprintf(sb, "- **MD5**: `%s`\n", fi.MD5)
	fmt.Fprintf(sb, "- **SHA256**: `%s`\n", fi.SHA256)
	fmt.Fprintf(sb, "- **Encoding**: %s\n", fi.Encoding)
	sb.WriteString("\n")

	sb.WriteString("**File code content:**\n\n")

	content := string(m.Content)
	if probe.IsMarkdown(m.Extension) {
		sb.WriteString(EscapeMarkdown(content))
	} else {
		f := fence("`", content, 3)
		sb.WriteString(f + m.Language + "\n")
		sb.WriteString(content)
		sb.WriteString("\n" + f + "\n\n")
	}

	sb.WriteString("---\n\n")
}

// EscapeMarkdown prepares the content of an embedded .md file: every "```"
// becomes "~~~~" and the result is wrapped in a four-backtick markdown fence.
func EscapeMarkdown(content string) string {
	escaped := strings.ReplaceAll(content, "```", markdownEscape)
	return "````markdown\n" + escaped + "\n````\n\n"
}

// codeSpan wraps s in inline code whose backtick delimiter is longer than any
// backtick run inside s. Content starting or ending with a backtick is padded
// with one space on each side, which CommonMark strips.
func codeSpan(s string) string {
	d := fence("`", s, 1)
	if strings.HasPrefix(s, "`") || strings.HasSuffix(s, "`") {
		return d + " " + s + " " + d
	}
	return d + s + d
}

var linkTextEscaper = strings.NewReplacer(`\`, `\\`, "[", `\[`, "]", `\]`, "`", "\\`")

// linkText escapes the characters that would end or restructure link text.
func linkText(s string) string {
	return linkTextEscaper.Replace(s)
}

// fence returns a run of ch one longer than the longest run inside content,
// and at least minLen long.
func fence(ch, content string, minLen int) string {
	longest, run := 0, 0
	for i := 0; i < len(content); i++ {
		if content[i] == ch[0] {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 0
		}
	}
	n := longest + 1
	if n < minLen {
		n = minLen
	}
	return strings.Repeat(ch, n)
}
