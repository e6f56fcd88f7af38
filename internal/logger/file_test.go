package logger

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func readRecords(t *testing.T, path string) []map[string]any {
	t.Helper()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var records []map[string]any
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var rec map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &rec), "line %q", scanner.Text())
		records = append(records, rec)
	}
	require.NoError(t, scanner.Err())
	return records
}

func TestFileLoggerWritesJSON(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")

	fl, err := NewFileLogger(dir, "debug", zap.String("run_id", "abc"))
	require.NoError(t, err)

	fl.LogTrace("not written at debug")
	fl.LogDebug("walking tree")
	fl.LogInfo("export finished")
	fl.LogError("write failed")
	require.NoError(t, fl.Close())

	assert.True(t, strings.HasPrefix(filepath.Base(fl.Path()), "run-"))
	assert.True(t, strings.HasSuffix(fl.Path(), ".log"))

	records := readRecords(t, fl.Path())
	require.Len(t, records, 4)

	assert.Equal(t, "debug", records[0]["level"])
	assert.Equal(t, true, records[0]["trace"])
	assert.Equal(t, "walking tree", records[1]["msg"])
	assert.Equal(t, "info", records[2]["level"])
	assert.Equal(t, "error", records[3]["level"])
	for _, rec := range records {
		assert.Equal(t, "abc", rec["run_id"])
		assert.Contains(t, rec, "time")
	}
	assert.Contains(t, records[3], "stacktrace")
}

func TestFileLoggerLevelFiltering(t *testing.T) {
	fl, err := NewFileLogger(t.TempDir(), "warn")
	require.NoError(t, err)

	fl.LogDebug("hidden")
	fl.LogInfo("hidden")
	fl.LogWarn("shown")
	require.NoError(t, fl.Close())

	records := readRecords(t, fl.Path())
	require.Len(t, records, 1)
	assert.Equal(t, "shown", records[0]["msg"])
}

func TestFileLoggerLatestSymlink(t *testing.T) {
	dir := t.TempDir()

	fl, err := NewFileLogger(dir, "info")
	require.NoError(t, err)
	defer fl.Close()

	target, err := os.Readlink(filepath.Join(dir, LatestLogName))
	require.NoError(t, err)
	assert.Equal(t, filepath.Base(fl.Path()), target)

	// A second logger in the same directory repoints the link.
	require.NoError(t, os.Remove(filepath.Join(dir, LatestLogName)))
	require.NoError(t, os.Symlink("stale.log", filepath.Join(dir, LatestLogName)))

	fl2, err := NewFileLogger(dir, "info")
	require.NoError(t, err)
	defer fl2.Close()

	target, err = os.Readlink(filepath.Join(dir, LatestLogName))
	require.NoError(t, err)
	assert.Equal(t, filepath.Base(fl2.Path()), target)
}

func TestFileLoggerCloseIsIdempotent(t *testing.T) {
	fl, err := NewFileLogger(t.TempDir(), "info")
	require.NoError(t, err)

	require.NoError(t, fl.Close())
	require.NoError(t, fl.Close())

	// Dropped silently after close.
	fl.LogInfo("late")
}

func TestNewFileLoggerBadDirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	_, err := NewFileLogger(filepath.Join(file, "logs"), "info")
	assert.Error(t, err)
}
