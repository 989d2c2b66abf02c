package engine

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"
)

// DefaultDebounce collapses editor save bursts into one re-trace.
const DefaultDebounce = 300 * time.Millisecond

// Watch traces every path once, then re-traces a file whenever it
// changes on disk, reporting each outcome through onTrace. File events
// are debounced. Watch blocks until ctx is canceled; cancellation is a
// clean shutdown, not an error.
func (e *Engine) Watch(ctx context.Context, paths []string, debounce time.Duration, onTrace func(*Result, error)) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Watch parent directories rather than the files themselves:
	// editors that write-rename would otherwise drop the watch.
	watched := make(map[string]bool, len(paths))
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", p, err)
		}
		watched[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}
	e.logger.Info("watching for changes", "files", len(watched), "debounce", debounce)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		for _, p := range paths {
			res, err := e.Trace(ctx, p)
			onTrace(res, err)
		}
		return nil
	})

	g.Go(func() error {
		return e.watchLoop(ctx, watcher, watched, debounce, onTrace)
	})

	return g.Wait()
}

// watchLoop dispatches file system events until the context ends.
func (e *Engine) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, watched map[string]bool, debounce time.Duration, onTrace func(*Result, error)) error {
	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || !watched[abs] {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			path := abs
			debounceTimer = time.AfterFunc(debounce, func() {
				e.logger.Info("change detected", "source", filepath.Base(path))
				res, err := e.Trace(ctx, path)
				onTrace(res, err)
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			e.logger.Error("watch error", "error", err)
		}
	}
}
