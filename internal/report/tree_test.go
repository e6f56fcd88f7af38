package report

import (
	"path"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/harrison/projexport/internal/fileutil"
)

func dir(rel string, children ...*fileutil.Node) *fileutil.Node {
	return &fileutil.Node{Name: path.Base(rel), Kind: fileutil.KindDirectory, RelPath: rel, Children: children}
}

func file(rel string, size int64, ext string) *fileutil.Node {
	return &fileutil.Node{Name: path.Base(rel), Kind: fileutil.KindFile, RelPath: rel, Size: size, Extension: ext}
}

func TestRenderTree(t *testing.T) {
	nodes := []*fileutil.Node{
		dir("src",
			dir("src/lib", file("src/lib/util.go", 2048, ".go")),
			file("src/main.go", 100, ".go"),
		),
		dir("empty"),
		file("README.md", 1536, ".md"),
		file("zero.txt", 0, ".txt"),
	}

	want := "├── 📁 src/\n" +
		"│   ├── 📁 lib/\n" +
		"│   │   └── 📄 util.go (2 KB)\n" +
		"│   └── 📄 main.go (100 B)\n" +
		"├── 📁 empty/\n" +
		"├── 📄 README.md (1.5 KB)\n" +
		"└── 📄 zero.txt\n"

	assert.Equal(t, want, RenderTree(nodes))
}

func TestRenderTreeLastDirectoryIndent(t *testing.T) {
	nodes := []*fileutil.Node{
		dir("a", file("a/x.txt", 1, ".txt")),
	}
	assert.Equal(t, "└── 📁 a/\n    └── 📄 x.txt (1 B)\n", RenderTree(nodes))
	assert.Equal(t, "", RenderTree(nil))
}

func TestComputeStats(t *testing.T) {
	nodes := []*fileutil.Node{
		dir("src",
			file("src/a.go", 10, ".go"),
			file("src/b.go", 20, ".go"),
			file("src/c.ts", 30, ".ts"),
		),
		dir("assets", file("assets/logo.png", 100, ".png")),
		file("Makefile", 5, ""),
		file("notes.ts", 1, ".ts"),
		file("run.go", 1, ".go"),
	}

	s := ComputeStats(nodes)
	assert.Equal(t, 7, s.TotalFiles)
	assert.Equal(t, 2, s.TotalDirectories)
	assert.Equal(t, 5, s.TextFiles)
	assert.Equal(t, 2, s.BinaryFiles)
	assert.Equal(t, int64(167), s.TotalSize)

	assert.Equal(t, []ExtensionCount{
		{".go", 3},
		{".ts", 2},
		{".png", 1},
		{"", 1},
	}, s.FileTypes)
	assert.Equal(t, NoExtensionLabel, s.FileTypes[3].Label())
}

func TestAnchor(t *testing.T) {
	tests := map[string]string{
		"src/App.tsx":      "src-app-tsx",
		"README.md":        "readme-md",
		"--a__b--":         "a-b",
		"docs/Über uns.md": "docs-ber-uns-md",
		"a//b":             "a-b",
		"":                 "",
	}
	for in, want := range tests {
		assert.Equal(t, want, Anchor(in), "Anchor(%q)", in)
	}
	assert.Equal(t, "📄-src-app-tsx", AnchorID("src/App.tsx"))
}
