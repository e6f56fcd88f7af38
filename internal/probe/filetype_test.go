package probe

import "testing"

func TestIsTextFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"main.go", true},
		{"src/App.TSX", true},
		{"README.md", true},
		{".env", true},
		{".gitignore", true},
		{"analysis.R", true},
		{"build.Makefile", true},
		{"logo.png", false},
		{"archive.tar.gz", false},
		{"Makefile", false},
		{"Dockerfile", false},
		{"noext", false},
	}

	for _, tt := range tests {
		if got := IsTextFile(tt.path); got != tt.want {
			t.Errorf("IsTextFile(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestLanguageOf(t *testing.T) {
	tests := map[string]string{
		".go":   "go",
		".TS":   "typescript",
		".tsx":  "typescript",
		".yml":  "yaml",
		".sh":   "bash",
		".cmd":  "batch",
		".toml": DefaultLanguage,
		"":      DefaultLanguage,
	}

	for ext, want := range tests {
		if got := LanguageOf(ext); got != want {
			t.Errorf("LanguageOf(%q) = %q, want %q", ext, got, want)
		}
	}
}

func TestIsMarkdown(t *testing.T) {
	if !IsMarkdown(".md") || !IsMarkdown(".MD") {
		t.Error("expected .md to be markdown")
	}
	if IsMarkdown(".markdown") || IsMarkdown("") {
		t.Error("only .md is treated as markdown")
	}
}
