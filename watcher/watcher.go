// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/danielhkuo/barcode-trace/csvsource"
	"github.com/danielhkuo/barcode-trace/ingest"
)

// IngestFunc runs one ingest pass.
type IngestFunc func(ctx context.Context) (ingest.Report, error)

// Stats are point-in-time counters.
type Stats struct {
	Events int
	Passes int
	Errors int
	LastAt time.Time
}

// Watcher runs an ingest pass after CSV files in a folder are created or
// written, once the folder has been quiet for the debounce window.
type Watcher struct {
	mu       sync.Mutex
	fsw      *fsnotify.Watcher
	dir      string
	debounce time.Duration
	ingest   IngestFunc
	logger   *slog.Logger
	stats    Stats
	running  bool
	stopCh   chan struct{}
	doneCh   chan struct{}
}

func New(dir string, debounce time.Duration, fn IngestFunc, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	return &Watcher{
		fsw:      fsw,
		dir:      dir,
		debounce: debounce,
		ingest:   fn,
		logger:   logger.With("dir", dir),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start begins watching. It does not block.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}

	if err := w.fsw.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}
	w.running = true

	go w.run(ctx)
	w.logger.Info("watcher started", "debounce", w.debounce)
	return nil
}

// Stop stops the loop, waits for it to exit and releases the watcher.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	running := w.running
	w.running = false
	w.mu.Unlock()

	if running {
		close(w.stopCh)
		<-w.doneCh
	}
	return w.fsw.Close()
}

// Run starts the watcher and blocks until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	if err := w.Start(ctx); err != nil {
		w.fsw.Close()
		return err
	}
	<-ctx.Done()
	return w.Stop()
}

// Stats returns a copy of the counters.
func (w *Watcher) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	var debounceTimer *time.Timer
	var debounceCh <-chan time.Time
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("watcher stopped", "reason", "context cancelled")
			return

		case <-w.stopCh:
			w.logger.Info("watcher stopped")
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !relevant(event) {
				continue
			}
			w.mu.Lock()
			w.stats.Events++
			w.mu.Unlock()
			w.logger.Debug("csv change", "file", event.Name, "op", event.Op.String())

			// Restart the quiet period on every change
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.NewTimer(w.debounce)
			debounceCh = debounceTimer.C

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.mu.Lock()
			w.stats.Errors++
			w.mu.Unlock()
			w.logger.Error("watcher error", "error", err)

		case <-debounceCh:
			debounceCh = nil
			w.fire(ctx)
		}
	}
}

func (w *Watcher) fire(ctx context.Context) {
	report, err := w.ingest(ctx)

	w.mu.Lock()
	w.stats.Passes++
	w.stats.LastAt = time.Now()
	if err != nil {
		w.stats.Errors++
	}
	w.mu.Unlock()

	if err != nil {
		w.logger.Error("watched ingest failed", "error", err, "inserted", report.Inserted())
		return
	}
	w.logger.Info("watched ingest complete", "pass_id", report.PassID, "inserted", report.Inserted())
}

func relevant(event fsnotify.Event) bool {
	if !csvsource.IsCSV(event.Name) {
		return false
	}
	return event.Has(fsnotify.Create) || event.Has(fsnotify.Write) || event.Has(fsnotify.Rename)
}
