package config

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileWatcher_DetectsWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "reference.yaml")
	require.NoError(t, os.WriteFile(path, []byte("a: 1\n"), 0o600))

	w, err := NewFileWatcher([]string{path},
		WithPollInterval(10*time.Millisecond),
		WithDebounceDelay(10*time.Millisecond),
	)
	require.NoError(t, err)

	var mu sync.Mutex
	var events []FileEvent
	w.OnChange(func(e FileEvent) {
		mu.Lock()
		events = append(events, e)
		mu.Unlock()
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer w.Stop()

	// mtime granularity on some filesystems is one second
	future := time.Now().Add(2 * time.Second)
	require.NoError(t, os.WriteFile(path, []byte("a: 2\n"), 0o600))
	require.NoError(t, os.Chtimes(path, future, future))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		for _, e := range events {
			if e.Op == FileOpWrite && e.Path == path {
				return true
			}
		}
		return false
	}, 3*time.Second, 20*time.Millisecond)
}

func TestFileWatcher_DetectsCreateAndRemove(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "late.yaml")

	w, err := NewFileWatcher([]string{path},
		WithPollInterval(10*time.Millisecond),
		WithDebounceDelay(10*time.Millisecond),
	)
	require.NoError(t, err)

	var mu sync.Mutex
	ops := make(map[FileOp]int)
	w.OnChange(func(e FileEvent) {
		mu.Lock()
		ops[e.Op]++
		mu.Unlock()
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer w.Stop()

	require.NoError(t, os.WriteFile(path, []byte("x: 1\n"), 0o600))
	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return ops[FileOpCreate] > 0
	}, 3*time.Second, 20*time.Millisecond)

	require.NoError(t, os.Remove(path))
	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return ops[FileOpRemove] > 0
	}, 3*time.Second, 20*time.Millisecond)
}

func TestFileWatcher_StartStop(t *testing.T) {
	w, err := NewFileWatcher(nil)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, w.Start(ctx))
	assert.True(t, w.IsRunning())
	assert.Error(t, w.Start(ctx), "second start should fail")
	require.NoError(t, w.Stop())
	assert.False(t, w.IsRunning())
	assert.NoError(t, w.Stop(), "stop is idempotent")
}
