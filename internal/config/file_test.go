package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetAutoExportCreatesYAML(t *testing.T) {
	dir := t.TempDir()
	path := FindConfigFile(dir)

	require.NoError(t, SetAutoExport(path, false))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.False(t, cfg.AutoExportOnSave)

	require.NoError(t, SetAutoExport(path, true))
	cfg, err = LoadConfig(path)
	require.NoError(t, err)
	assert.True(t, cfg.AutoExportOnSave)
}

func TestSetAutoExportPreservesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".projexport.yaml")
	original := "# project settings\nlanguage: pt-BR\nauto_export_on_save: true\nexclude_patterns:\n  - dist/**\n"
	require.NoError(t, os.WriteFile(path, []byte(original), 0644))

	require.NoError(t, SetAutoExport(path, false))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)

	assert.Contains(t, text, "# project settings")
	assert.Contains(t, text, "auto_export_on_save: false")
	assert.Less(t, strings.Index(text, "language"), strings.Index(text, "auto_export_on_save"))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "pt-BR", cfg.Language)
	assert.Equal(t, []string{"dist/**"}, cfg.ExcludePatterns)
	assert.False(t, cfg.AutoExportOnSave)
}

func TestSetAutoExportINI(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".projexport.ini")
	require.NoError(t, os.WriteFile(path, []byte("language = pt-BR\n\n[history]\nenabled = true\n"), 0644))

	require.NoError(t, SetAutoExport(path, false))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.False(t, cfg.AutoExportOnSave)
	assert.Equal(t, "pt-BR", cfg.Language)
	assert.True(t, cfg.History.Enabled)
}

func TestSetAutoExportRejectsNonMapping(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".projexport.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- just\n- a list\n"), 0644))

	err := SetAutoExport(path, true)
	require.Error(t, err)

	data, _ := os.ReadFile(path)
	assert.Equal(t, "- just\n- a list\n", string(data), "file must be left untouched on error")
}
