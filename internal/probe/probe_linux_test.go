//go:build linux

package probe

import (
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/projexport/internal/fileutil"
)

func TestNamedPipeIsListedNotOpened(t *testing.T) {
	pipe := filepath.Join(t.TempDir(), "pipe.log")
	require.NoError(t, syscall.Mkfifo(pipe, 0644))

	node := &fileutil.Node{
		Name:      "pipe.log",
		Kind:      fileutil.KindFile,
		AbsPath:   pipe,
		RelPath:   "pipe.log",
		Extension: ".log",
	}

	done := make(chan FileMetadata, 1)
	go func() { done <- Probe(node, 1024) }()

	select {
	case m := <-done:
		assert.True(t, m.IsText)
		assert.False(t, m.Embeddable)
		assert.False(t, m.Embedded())
		assert.Nil(t, m.Content)
		assert.NoError(t, m.ReadErr)
		assert.Equal(t, int64(0), m.Size)
		assert.Equal(t, DigestSentinel, m.Digests.MD5)
	case <-time.After(3 * time.Second):
		t.Fatal("Probe blocked on a named pipe")
	}
}
