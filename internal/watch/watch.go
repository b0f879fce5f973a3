// Package watch re-runs a callback when any of a set of files changes.
package watch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Handler is called with the changed paths after each quiet period.
type Handler func(changed []string) error

// Watcher watches individual files. It watches their directories so that
// editors which save by renaming are still seen.
type Watcher struct {
	fs     *fsnotify.Watcher
	files  map[string]bool
	delay  time.Duration
	logger *slog.Logger
}

// New creates a watcher for paths. Changes closer together than delay are
// grouped into one call.
func New(paths []string, delay time.Duration, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fs:     fsw,
		files:  make(map[string]bool, len(paths)),
		delay:  delay,
		logger: logger,
	}
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fsw.Close()
			return nil, fmt.Errorf("watch: %s: %w", p, err)
		}
		w.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("watch: %s: %w", dir, err)
		}
	}
	return w, nil
}

// Run delivers changes to handler until ctx is done. Handler errors are
// logged and watching continues.
func (w *Watcher) Run(ctx context.Context, handler Handler) error {
	timer := time.NewTimer(w.delay)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	pending := make(map[string]bool)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			abs, _ := filepath.Abs(event.Name)
			pending[abs] = true
			timer.Reset(w.delay)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("file watcher error", "error", err)

		case <-timer.C:
			changed := make([]string, 0, len(pending))
			for p := range pending {
				changed = append(changed, p)
			}
			sort.Strings(changed)
			clear(pending)

			w.logger.Debug("files changed", "paths", changed)
			if err := handler(changed); err != nil {
				w.logger.Error("change handler failed", "error", err)
			}
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fs.Close()
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	return w.files[abs]
}
