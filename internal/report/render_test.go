package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/projexport/internal/fileutil"
	"github.com/harrison/projexport/internal/probe"
)

var (
	testLoc  = time.FixedZone("America/Sao_Paulo", -3*3600)
	testTime = time.Date(2025, 3, 4, 15, 16, 17, 0, time.UTC)
)

func embedded(node *fileutil.Node, content string) probe.FileMetadata {
	return probe.FileMetadata{
		RelPath:    node.RelPath,
		Extension:  node.Extension,
		Language:   probe.LanguageOf(node.Extension),
		Size:       int64(len(content)),
		IsText:     true,
		Embeddable: true,
		Content:    []byte(content),
		Encoding:   probe.DetectEncoding([]byte(content)),
		Digests:    probe.Digests{MD5: "md5sum", SHA256: "shasum"},
		Created:    testTime,
		Modified:   testTime,
	}
}

func excluded(node *fileutil.Node) probe.FileMetadata {
	return probe.FileMetadata{
		RelPath:   node.RelPath,
		Extension: node.Extension,
		Language:  probe.LanguageOf(node.Extension),
		Size:      node.Size,
	}
}

func fixture(extra ...string) *Document {
	aTS := file("a.ts", 10, ".ts")
	png := file("b.png", 4, ".png")
	nodes := []*fileutil.Node{aTS, png}
	files := []probe.FileMetadata{embedded(aTS, "let a = 1;"), excluded(png)}

	if len(extra) == 2 {
		n := file(extra[0], int64(len(extra[1])), probe.Extension(extra[0]))
		nodes = append([]*fileutil.Node{n}, nodes...)
		files = append([]probe.FileMetadata{embedded(n, extra[1])}, files...)
	}

	return &Document{
		ProjectName: "demo",
		GeneratedAt: testTime,
		Location:    testLoc,
		Tool:        ToolInfo{Name: "projexport", Version: "1.2.0"},
		Settings: Settings{
			Language:          "en",
			MaxFileSize:       1024,
			OutputFormat:      "both",
			NotificationLevel: "minimal",
			FileNameTemplate:  "{workspaceName}-output",
		},
		Nodes: nodes,
		Stats: ComputeStats(nodes),
		Files: files,
	}
}

func TestRenderText(t *testing.T) {
	out := string(RenderText(fixture()))

	eq100 := strings.Repeat("=", 100)
	eq80 := strings.Repeat("=", 80)

	assert.True(t, strings.HasPrefix(out, eq100+"\nPROJECT EXPORT FOR LLMs\n"+eq100+"\n\n"))
	assert.Contains(t, out, "Project Name: demo\n")
	assert.Contains(t, out, "Generated On: 2025-03-04 15:16:17 (America/Sao_Paulo / GMT-03:00)\n")
	assert.Contains(t, out, "Total Files Processed: 2\n")
	assert.Contains(t, out, "Export Tool: projexport v1.2.0\n")
	assert.Contains(t, out, "Max File Size: 1 KB\n")
	assert.Contains(t, out, "Include Hidden Files: false\n")
	assert.Contains(t, out, "Custom File Name Pattern: {workspaceName}-output\n")
	assert.Contains(t, out, "PROJECT STRUCTURE\n"+eq80+"\n├── 📄 a.ts (10 B)\n└── 📄 b.png (4 B)\n")
	assert.Contains(t, out, ".ts             : 1\n")

	assert.Contains(t, out, "\n\n"+eq80+"\nFILE: a.ts\n"+eq80+"\n")
	assert.Contains(t, out, "\nFILE INFORMATION:\n"+strings.Repeat("-", 40)+"\nSize: 10 B\nExtension: .ts\nLanguage: typescript\nLocation: a.ts\nRelative Path: root\n")
	assert.Contains(t, out, "MD5: md5sum\nSHA256: shasum\nEncoding: ASCII\n")
	assert.Contains(t, out, "\nFILE CONTENT:\n"+strings.Repeat("-", 40)+"\nlet a = 1;\n"+eq80+"\n")

	assert.True(t, strings.HasSuffix(out, "BINARY/EXCLUDED FILES (not included in text content)\n"+eq80+"\n- b.png\n"))
	assert.NotContains(t, out, "FILE: b.png")
	assert.NotContains(t, out, "📑")
}

func TestRenderTextNoExcludedSection(t *testing.T) {
	doc := fixture()
	doc.Nodes = doc.Nodes[:1]
	doc.Files = doc.Files[:1]
	doc.Stats = ComputeStats(doc.Nodes)

	out := string(RenderText(doc))
	assert.NotContains(t, out, "BINARY/EXCLUDED FILES")
}

func TestRenderTextUnavailableTimes(t *testing.T) {
	doc := fixture()
	doc.Files[0].StatErr = assert.AnError

	out := string(RenderText(doc))
	assert.Contains(t, out, "Created: Unable to retrieve\nModified: Unable to retrieve\n")
}

func TestRenderMarkdown(t *testing.T) {
	out := string(RenderMarkdown(fixture()))

	assert.True(t, strings.HasPrefix(out, "# 📁 PROJECT EXPORT FOR LLMs\n\n## 📊 Project Information\n\n"))
	assert.Contains(t, out, "- **Project Name**: `demo`\n")
	assert.Contains(t, out, "| Max File Size | `1 KB` |\n")
	assert.Contains(t, out, "## 🌳 Project Structure\n\n```\n├── 📄 a.ts (10 B)\n└── 📄 b.png (4 B)\n```\n\n")
	assert.Contains(t, out, "## 📑 Table of Contents\n\n**Project Files:**\n\n- [📄 a.ts](#📄-a-ts)\n\n---\n\n")
	assert.Contains(t, out, "| Total Files | 2 |\n")
	assert.Contains(t, out, "| `.png` | 1 |\n")
	assert.Contains(t, out, "### <a id=\"📄-a-ts\"></a>📄 `a.ts`\n\n**File Info:**\n- **Size**: 10 B\n")
	assert.Contains(t, out, "- **Relative Path**: `root`\n")
	assert.Contains(t, out, "**File code content:**\n\n```typescript\nlet a = 1;\n```\n\n---\n\n")
	assert.True(t, strings.HasSuffix(out, "## 🚫 Binary/Excluded Files\n\nThe following files were not included in the text content:\n\n- `b.png`\n\n"))

	// The binary file has no TOC entry and no section.
	assert.NotContains(t, out, "#📄-b-png")
}

func TestRenderMarkdownEmptyTOC(t *testing.T) {
	png := file("b.png", 4, ".png")
	doc := fixture()
	doc.Nodes = []*fileutil.Node{png}
	doc.Files = []probe.FileMetadata{excluded(png)}

	out := string(RenderMarkdown(doc))
	assert.Contains(t, out, "## 📑 Table of Contents\n\n*No text files found to display.*\n\n---\n\n")
}

func TestRenderMarkdownEscapesEmbeddedMarkdown(t *testing.T) {
	md := "# Notes\n\n```go\nfmt.Println(1)\n```\n\n## Not a report section\n"
	out := string(RenderMarkdown(fixture("docs/notes.md", md)))

	assert.Contains(t, out, "````markdown\n# Notes\n\n~~~~go\nfmt.Println(1)\n~~~~\n\n## Not a report section\n\n````\n\n")
	assert.NotContains(t, out, "```go")
}

func TestRenderMarkdownWidensFenceForBackticks(t *testing.T) {
	src := "const s = `a` + \"```\";"
	out := string(RenderMarkdown(fixture("s.js", src)))
	assert.Contains(t, out, "````javascript\n"+src+"\n````\n\n")
}

func TestEmbeddedMarkdownKeepsDocumentStructure(t *testing.T) {
	plain, err := InspectMarkdown(RenderMarkdown(fixture()))
	require.NoError(t, err)

	md := "# Title\n\n```\n## Injected\n```\n\n## Another\n\n````\nquad\n````\n"
	withMD, err := InspectMarkdown(RenderMarkdown(fixture("README.md", md)))
	require.NoError(t, err)

	assert.Equal(t, plain.Sections(), withMD.Sections())
	assert.Equal(t, "📁 PROJECT EXPORT FOR LLMs", withMD.Title())
	assert.Empty(t, withMD.BrokenLinks())

	// Tree block plus one block per embedded file.
	assert.Equal(t, 2, plain.FencedBlocks)
	assert.Equal(t, 3, withMD.FencedBlocks)
}

func TestRenderMarkdownPathsWithMarkupCharacters(t *testing.T) {
	out := RenderMarkdown(fixture("we`ird].go", "package weird"))

	assert.Contains(t, string(out), "- [📄 we\\`ird\\].go](#📄-we-ird-go)\n")
	assert.Contains(t, string(out), "### <a id=\"📄-we-ird-go\"></a>📄 ``we`ird].go``\n")

	outline, err := InspectMarkdown(out)
	require.NoError(t, err)
	assert.Equal(t, []string{"#📄-we-ird-go", "#📄-a-ts"}, outline.Links)
	assert.Empty(t, outline.BrokenLinks())
}

func TestCodeSpan(t *testing.T) {
	assert.Equal(t, "`a.go`", codeSpan("a.go"))
	assert.Equal(t, "``a`b``", codeSpan("a`b"))
	assert.Equal(t, "`` `x ``", codeSpan("`x"))
	assert.Equal(t, `a\[1\]\\b`, linkText(`a[1]\b`))
}

func TestEscapeMarkdown(t *testing.T) {
	assert.Equal(t, "````markdown\n~~~~\n~~~~``\n````\n\n", EscapeMarkdown("```\n`````"))
}

func TestFence(t *testing.T) {
	assert.Equal(t, "```", fence("`", "no ticks", 3))
	assert.Equal(t, "```", fence("`", "``", 3))
	assert.Equal(t, "````", fence("`", "a```b", 3))
	assert.Equal(t, "``````", fence("`", "`````", 3))
}
