package server

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileWatcherTriggersOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aliases.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sections: {}\n"), 0o600))

	var calls atomic.Int32
	fw := NewFileWatcher([]string{path}, 20*time.Millisecond, func() { calls.Add(1) }, nil)
	require.NoError(t, fw.Start())
	defer func() { _ = fw.Stop() }()
	assert.True(t, fw.IsRunning())
	assert.Equal(t, []string{path}, fw.GetWatchedFiles())

	require.NoError(t, os.WriteFile(path, []byte("sections:\n  skills: [toolbox]\n"), 0o600))
	future := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(path, future, future))

	require.Eventually(t, func() bool { return calls.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestFileWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "aliases.yaml")
	fw := NewFileWatcher([]string{path, ""}, 0, func() {}, nil)

	assert.Equal(t, []string{path}, fw.GetWatchedFiles())
	assert.True(t, fw.shouldProcessEvent(fsnotify.Event{Name: path, Op: fsnotify.Write}))
	assert.True(t, fw.shouldProcessEvent(fsnotify.Event{Name: path, Op: fsnotify.Rename}))
	assert.False(t, fw.shouldProcessEvent(fsnotify.Event{Name: path, Op: fsnotify.Chmod}))
	assert.False(t, fw.shouldProcessEvent(fsnotify.Event{Name: filepath.Join(dir, "other.yaml"), Op: fsnotify.Write}))
}

func TestFileWatcherStopIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aliases.yaml")
	fw := NewFileWatcher([]string{path}, 0, func() {}, nil)

	require.NoError(t, fw.Start())
	require.Error(t, fw.Start())
	require.NoError(t, fw.Stop())
	require.NoError(t, fw.Stop())
	assert.False(t, fw.IsRunning())
}
