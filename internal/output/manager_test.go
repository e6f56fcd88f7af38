package output

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProject(t *testing.T, name string) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.Mkdir(root, 0755))
	return root
}

func TestManagerIsSelfOutput(t *testing.T) {
	root := newProject(t, "demo")

	both := NewManager(root, "", Formats("both"))
	assert.True(t, both.IsSelfOutput("demo-output.txt"))
	assert.True(t, both.IsSelfOutput("demo-output.md"))
	assert.True(t, both.IsSelfOutput(".demo-output.md.lock"))
	assert.True(t, both.IsSelfOutput(".projexport-42.tmp"))
	assert.False(t, both.IsSelfOutput("other-output.txt"))

	txtOnly := NewManager(root, "", Formats("txt"))
	assert.True(t, txtOnly.IsSelfOutput("demo-output.txt"))
	assert.False(t, txtOnly.IsSelfOutput("demo-output.md"))
	assert.Equal(t, []string{"txt"}, txtOnly.Extensions())
}

func TestManagerReclaimPrevious(t *testing.T) {
	root := newProject(t, "demo")
	m := NewManager(root, "", Formats("both"))

	removed, err := m.ReclaimPrevious("txt")
	require.NoError(t, err)
	assert.False(t, removed, "absence is not an error")

	require.NoError(t, os.WriteFile(m.Path("txt"), []byte("stale"), 0644))
	removed, err = m.ReclaimPrevious("txt")
	require.NoError(t, err)
	assert.True(t, removed)
	assert.NoFileExists(t, m.Path("txt"))
}

func TestManagerReclaimPreviousDirectory(t *testing.T) {
	root := newProject(t, "demo")
	m := NewManager(root, "", Formats("md"))
	require.NoError(t, os.MkdirAll(filepath.Join(m.Path("md"), "nested"), 0755))

	removed, err := m.ReclaimPrevious("md")
	assert.False(t, removed)

	var cleanupErr *CleanupError
	require.True(t, errors.As(err, &cleanupErr))
	assert.Equal(t, m.Path("md"), cleanupErr.Path)
	assert.DirExists(t, m.Path("md"))
}

func TestManagerWrite(t *testing.T) {
	root := newProject(t, "My Project")
	m := NewManager(root, "{workspaceName}-report", Formats("txt"))

	name, err := m.Write(context.Background(), "txt", []byte("report"))
	require.NoError(t, err)
	assert.Equal(t, "My-Project-report.txt", name)

	data, err := os.ReadFile(filepath.Join(root, name))
	require.NoError(t, err)
	assert.Equal(t, "report", string(data))
}

func TestManagerWriteFailure(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("rename semantics differ on windows")
	}

	root := newProject(t, "demo")
	m := NewManager(root, "", Formats("both"))
	require.NoError(t, os.MkdirAll(filepath.Join(m.Path("md"), "nested"), 0755))

	_, err := m.Write(context.Background(), "md", []byte("x"))
	var writeErr *WriteError
	require.True(t, errors.As(err, &writeErr))
	assert.Equal(t, "md", writeErr.Format)

	// The other format is unaffected.
	name, err := m.Write(context.Background(), "txt", []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, "demo-output.txt", name)
}
