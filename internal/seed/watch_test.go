package seed

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestWatchDebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	other := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("brands: []\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	var calls atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, zap.NewNop(), func() { calls.Add(1) })
	}()
	// let the watcher register
	time.Sleep(200 * time.Millisecond)

	require.NoError(t, os.WriteFile(other, []byte("x"), 0o644))
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(path, []byte("brands: []\n"), 0o644))
	}

	require.Eventually(t, func() bool { return calls.Load() == 1 }, 3*time.Second, 50*time.Millisecond)
	time.Sleep(2 * debounce)
	assert.Equal(t, int32(1), calls.Load())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestWatchRunsChangesOneAtATime(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("brands: []\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	var calls, running, overlapped atomic.Int32
	started := make(chan struct{}, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, zap.NewNop(), func() {
			if running.Add(1) > 1 {
				overlapped.Store(1)
			}
			started <- struct{}{}
			time.Sleep(3 * debounce)
			calls.Add(1)
			running.Add(-1)
		})
	}()
	time.Sleep(200 * time.Millisecond)

	require.NoError(t, os.WriteFile(path, []byte("brands: []\n"), 0o644))
	select {
	case <-started:
	case <-time.After(3 * time.Second):
		t.Fatal("first change not applied")
	}
	// a write while the first apply is still running
	require.NoError(t, os.WriteFile(path, []byte("brands: []\n"), 0o644))

	require.Eventually(t, func() bool { return calls.Load() == 2 }, 5*time.Second, 50*time.Millisecond)
	assert.Zero(t, overlapped.Load())

	// a pending change is dropped once Watch returns
	require.NoError(t, os.WriteFile(path, []byte("brands: []\n"), 0o644))
	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
	after := calls.Load()
	time.Sleep(2 * debounce)
	assert.Equal(t, after, calls.Load())
	assert.Zero(t, running.Load())
}
