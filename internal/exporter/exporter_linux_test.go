//go:build linux

package exporter

import (
	"context"
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/projexport/internal/config"
)

func TestRun_NamedPipeIsListedWithoutBlocking(t *testing.T) {
	root := scenarioRoot(t)
	require.NoError(t, syscall.Mkfifo(filepath.Join(root, "pipe.log"), 0644))

	type outcome struct {
		res *Result
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := newTestExporter(&recordingNotifier{}).Run(context.Background(), root, testConfig(config.FormatText))
		done <- outcome{res, err}
	}()

	var got outcome
	select {
	case got = <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("Run blocked on a named pipe")
	}
	require.NoError(t, got.err)
	assert.Equal(t, 1, got.res.Embedded)
	assert.Equal(t, 2, got.res.Listed)
	assert.Empty(t, got.res.DiagnosticsOf(DiagRead))

	data, err := os.ReadFile(filepath.Join(root, "demo-output.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "- pipe.log\n")
}
