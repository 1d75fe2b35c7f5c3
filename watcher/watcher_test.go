// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/danielhkuo/barcode-trace/ingest"
)

func countingIngest(calls *atomic.Int32, err error) IngestFunc {
	return func(ctx context.Context) (ingest.Report, error) {
		calls.Add(1)
		return ingest.Report{PassID: "test"}, err
	}
}

func TestWatcher_IngestsOnCSVChange(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	dir := t.TempDir()
	var calls atomic.Int32
	w, err := New(dir, 50*time.Millisecond, countingIngest(&calls, nil), nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.csv"), []byte("BARCODE\n1\n"), 0o644))

	assert.Eventually(t, func() bool { return calls.Load() >= 1 }, 3*time.Second, 20*time.Millisecond)

	require.NoError(t, w.Stop())
	stats := w.Stats()
	assert.GreaterOrEqual(t, stats.Events, 1)
	assert.GreaterOrEqual(t, stats.Passes, 1)
	assert.False(t, stats.LastAt.IsZero())
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	dir := t.TempDir()
	var calls atomic.Int32
	w, err := New(dir, 20*time.Millisecond, countingIngest(&calls, nil), nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hello"), 0o644))
	time.Sleep(200 * time.Millisecond)

	require.NoError(t, w.Stop())
	assert.Zero(t, calls.Load())
	assert.Zero(t, w.Stats().Events)
}

func TestWatcher_DebouncesBurst(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	dir := t.TempDir()
	var calls atomic.Int32
	w, err := New(dir, 300*time.Millisecond, countingIngest(&calls, nil), nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))

	for _, name := range []string{"a.csv", "b.csv", "c.csv"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("BARCODE\n1\n"), 0o644))
	}

	assert.Eventually(t, func() bool { return calls.Load() == 1 }, 3*time.Second, 20*time.Millisecond)
	require.NoError(t, w.Stop())
	assert.Equal(t, int32(1), calls.Load())
}

func TestWatcher_CountsIngestErrors(t *testing.T) {
	dir := t.TempDir()
	var calls atomic.Int32
	w, err := New(dir, 10*time.Millisecond, countingIngest(&calls, errors.New("boom")), nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.csv"), []byte("BARCODE\n"), 0o644))
	assert.Eventually(t, func() bool { return w.Stats().Errors >= 1 }, 3*time.Second, 20*time.Millisecond)
	require.NoError(t, w.Stop())
}

func TestWatcher_RunStopsWithContext(t *testing.T) {
	var calls atomic.Int32
	w, err := New(t.TempDir(), 10*time.Millisecond, countingIngest(&calls, nil), nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestWatcher_StartMissingDir(t *testing.T) {
	var calls atomic.Int32
	w, err := New(filepath.Join(t.TempDir(), "absent"), time.Millisecond, countingIngest(&calls, nil), nil)
	require.NoError(t, err)
	defer w.Stop()

	assert.Error(t, w.Start(context.Background()))
}

func TestRelevant(t *testing.T) {
	tests := []struct {
		event fsnotify.Event
		want  bool
	}{
		{fsnotify.Event{Name: "/d/a.csv", Op: fsnotify.Create}, true},
		{fsnotify.Event{Name: "/d/a.csv", Op: fsnotify.Write}, true},
		{fsnotify.Event{Name: "/d/a.csv", Op: fsnotify.Rename}, true},
		{fsnotify.Event{Name: "/d/a.csv", Op: fsnotify.Remove}, false},
		{fsnotify.Event{Name: "/d/a.csv", Op: fsnotify.Chmod}, false},
		{fsnotify.Event{Name: "/d/a.txt", Op: fsnotify.Write}, false},
	}

	for _, tt := range tests {
		t.Run(tt.event.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, relevant(tt.event))
		})
	}
}

func TestWatcher_RunMissingDirReleasesWatcher(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	var calls atomic.Int32
	w, err := New(filepath.Join(t.TempDir(), "absent"), 50*time.Millisecond, countingIngest(&calls, nil), nil)
	require.NoError(t, err)

	err = w.Run(context.Background())
	require.Error(t, err)
	assert.Zero(t, calls.Load())
}
