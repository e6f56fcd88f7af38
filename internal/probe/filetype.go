package probe

import (
	"path/filepath"
	"strings"
)

// textExtensions is the closed allow-list of extensions whose content is embedded.
var textExtensions = map[string]struct{}{
	".html": {}, ".htm": {}, ".css": {}, ".js": {}, ".jsx": {}, ".ts": {}, ".tsx": {}, ".htaccess": {},
	".json": {}, ".xml": {}, ".txt": {}, ".md": {}, ".yml": {}, ".yaml": {},
	".php": {}, ".py": {}, ".cs": {}, ".java": {}, ".cpp": {}, ".c": {}, ".h": {},
	".sql": {}, ".ps1": {}, ".bat": {}, ".cmd": {}, ".sh": {}, ".vue": {},
	".svelte": {}, ".scss": {}, ".sass": {}, ".less": {}, ".ini": {},
	".conf": {}, ".config": {}, ".log": {}, ".gitignore": {}, ".env": {},
	".dockerfile": {}, ".makefile": {},
	".go": {}, ".rs": {}, ".rb": {}, ".swift": {}, ".kt": {}, ".scala": {},
	".r": {}, ".m": {}, ".mm": {}, ".pl": {}, ".pm": {}, ".lua": {},
	".tcl": {}, ".vb": {}, ".vbs": {}, ".asm": {}, ".s": {}, ".f": {}, ".f90": {},
	".pro": {}, ".cmake": {}, ".gradle": {}, ".properties": {}, ".toml": {},
	".lock": {}, ".cfg": {}, ".cnf": {}, ".inf": {}, ".reg": {}, ".manifest": {},
}

var languages = map[string]string{
	".js":         "javascript",
	".jsx":        "jsx",
	".ts":         "typescript",
	".tsx":        "typescript",
	".py":         "python",
	".java":       "java",
	".cpp":        "cpp",
	".c":          "c",
	".cs":         "csharp",
	".php":        "php",
	".rb":         "ruby",
	".go":         "go",
	".rs":         "rust",
	".swift":      "swift",
	".kt":         "kotlin",
	".scala":      "scala",
	".html":       "html",
	".css":        "css",
	".scss":       "scss",
	".sass":       "sass",
	".less":       "less",
	".xml":        "xml",
	".json":       "json",
	".yaml":       "yaml",
	".yml":        "yaml",
	".sql":        "sql",
	".sh":         "bash",
	".ps1":        "powershell",
	".bat":        "batch",
	".cmd":        "batch",
	".dockerfile": "dockerfile",
	".vue":        "vue",
	".svelte":     "svelte",
}

// DefaultLanguage labels every extension without a dedicated mapping.
const DefaultLanguage = "text"

// Extension returns the lowercased extension of path, including the leading dot.
// A dotfile such as ".env" has extension ".env".
func Extension(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

// IsTextFile reports whether the file's extension is in the text allow-list.
func IsTextFile(path string) bool {
	_, ok := textExtensions[Extension(path)]
	return ok
}

// LanguageOf maps an extension (any case, with leading dot) to a code fence label.
func LanguageOf(ext string) string {
	if lang, ok := languages[strings.ToLower(ext)]; ok {
		return lang
	}
	return DefaultLanguage
}

// IsMarkdown reports whether ext is the Markdown extension. Markdown content is
// escaped before being embedded in a Markdown report.
func IsMarkdown(ext string) bool {
	return strings.EqualFold(ext, ".md")
}
