package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/fsnotify/fsnotify"
)

// watchDebounce coalesces the burst of events an editor save produces.
const watchDebounce = 300 * time.Millisecond

// watch renders once, then again after every change to the input file,
// until ctx is cancelled. Render failures are logged and watching goes on.
func watch(ctx context.Context, opts *options, stdout io.Writer) error {
	target, err := filepath.Abs(opts.input)
	if err != nil {
		return fmt.Errorf("resolve input: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// Editors often replace the file instead of writing it, so watch the
	// directory and filter by name.
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(target), err)
	}

	var mu sync.Mutex
	render := func() {
		mu.Lock()
		defer mu.Unlock()
		if err := runOnce(opts, nil, stdout); err != nil {
			slog.Error("render failed", "input", opts.input, "error", err)
			return
		}
		slog.Info("rendered", "input", opts.input, "format", opts.format)
	}

	render()
	slog.Info("watching for changes", "input", target)

	debounced := debounce.New(watchDebounce)
	watchLoop(ctx, watcher.Events, watcher.Errors, target, func() { debounced(render) })
	return nil
}

// watchLoop calls changed for every write or create of target until ctx is
// done or the channels close.
func watchLoop(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error, target string, changed func()) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if name, err := filepath.Abs(event.Name); err != nil || name != target {
				continue
			}
			changed()
		case err, ok := <-errs:
			if !ok {
				return
			}
			slog.Warn("watcher error", "error", err)
		}
	}
}
