package output

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpectedFileName(t *testing.T) {
	tests := []struct {
		name     string
		template string
		root     string
		ext      string
		want     string
	}{
		{"default template", "", "/work/demo", "txt", "demo-output.txt"},
		{"workspace with spaces", "{workspaceName}-report", "/work/My Project", "txt", "My-Project-report.txt"},
		{"markdown", "{workspaceName}-report", "/work/My Project", "md", "My-Project-report.md"},
		{"template whitespace", "  my  export  ", "/work/demo", "txt", "-my-export-.txt"},
		{"surrounding whitespace", " x ", "/work/demo", "txt", "-x-.txt"},
		{"blank template", " \t ", "/work/demo", "md", "demo-output.md"},
		{"illegal characters", `a<b>c:d"e/f\g|h?i*j`, "/work/demo", "md", "a-b-c-d-e-f-g-h-i-j.md"},
		{"strips report suffix", "{workspaceName}.TXT", "/work/demo", "md", "demo.md"},
		{"strips only one suffix", "notes.md.txt", "/work/demo", "txt", "notes.md.txt"},
		{"placeholder repeated", "{workspaceName}-{workspaceName}", "/w/x", "txt", "x-x.txt"},
		{"trailing slash root", "", "/work/demo/", "txt", "demo-output.txt"},
		{"tabs in workspace", "", "/work/a\tb", "txt", "a-b-output.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpectedFileName(tt.template, tt.root, tt.ext))
		})
	}
}

func TestFormats(t *testing.T) {
	assert.Equal(t, []string{"txt"}, Formats("txt"))
	assert.Equal(t, []string{"txt"}, Formats("Text"))
	assert.Equal(t, []string{"md"}, Formats("md"))
	assert.Equal(t, []string{"md"}, Formats("markdown"))
	assert.Equal(t, []string{"txt", "md"}, Formats("both"))
	assert.Equal(t, []string{"txt", "md"}, Formats(""))
}

func TestIsLikelyOutput(t *testing.T) {
	tests := map[string]bool{
		"demo-output.txt":                          true,
		"demo-OUTPUT.MD":                           true,
		"demo-project-export.md":                   true,
		"demo-full-project.txt":                    true,
		"demo-ESTRUTURA-E-ARQUIVOS-DO-PROJETO.txt": true,
		"demo-estrutura-e-arquivos-do-projeto.md":  true,
		"output.txt":                               false,
		"demo-output.json":                         false,
		"demo-output.txt.bak":                      false,
		"main.go":                                  false,
	}
	for name, want := range tests {
		assert.Equal(t, want, IsLikelyOutput(name), name)
	}
}

func TestLockFileName(t *testing.T) {
	assert.Equal(t, ".demo-output.txt.lock", LockFileName("demo-output.txt"))
}
