package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspectMarkdown(t *testing.T) {
	src := []byte("# Title\n\n" +
		"## One\n\n" +
		"- [📄 a.go](#📄-a-go)\n" +
		"- [missing](#nowhere)\n" +
		"- [site](https://example.com)\n\n" +
		"### <a id=\"📄-a-go\"></a>📄 `a.go`\n\n" +
		"```go\npackage a\n```\n\n" +
		"## Two\n")

	outline, err := InspectMarkdown(src)
	require.NoError(t, err)

	assert.Equal(t, "Title", outline.Title())
	assert.Equal(t, []string{"One", "Two"}, outline.Sections())
	assert.Equal(t, Heading{Level: 3, Text: "📄 a.go"}, outline.Headings[2])
	assert.Equal(t, 1, outline.FencedBlocks)
	assert.Equal(t, []string{"📄-a-go"}, outline.Anchors)
	assert.Equal(t, []string{"#📄-a-go", "#nowhere", "https://example.com"}, outline.Links)
	assert.Equal(t, []string{"#nowhere"}, outline.BrokenLinks())
}

func TestInspectMarkdownIgnoresFencedHeadings(t *testing.T) {
	outline, err := InspectMarkdown([]byte("## Real\n\n````markdown\n## Fake\n````\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Real"}, outline.Sections())
	assert.Equal(t, 1, outline.FencedBlocks)
}
