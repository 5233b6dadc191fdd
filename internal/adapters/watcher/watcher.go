// Package watcher implements configuration file watching.
package watcher

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.trai.ch/rig/internal/core/ports"
	"go.trai.ch/zerr"
)

// DefaultDebounceWindow is the default time window for debouncing file events.
const DefaultDebounceWindow = 100 * time.Millisecond

var _ ports.Watcher = (*Watcher)(nil)

// Watcher implements ports.Watcher using fsnotify.
//
// The parent directory is watched rather than the file itself, since editors
// commonly save by writing a temporary file and renaming it over the original.
type Watcher struct {
	Logger ports.Logger
	Window time.Duration
}

// NewWatcher creates a new Watcher with the default debounce window.
func NewWatcher(logger ports.Logger) *Watcher {
	return &Watcher{Logger: logger, Window: DefaultDebounceWindow}
}

// Watch blocks until ctx is cancelled, calling onChange after path is modified.
// Calls to onChange never overlap.
func (w *Watcher) Watch(ctx context.Context, path string, onChange func()) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to resolve watched path"), "path", path)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return zerr.Wrap(err, "failed to create file watcher")
	}
	defer fsWatcher.Close() //nolint:errcheck // Best effort close in defer

	dir := filepath.Dir(abs)
	if err := fsWatcher.Add(dir); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to watch directory"), "path", dir)
	}

	var mu sync.Mutex
	debouncer := NewDebouncer(w.window(), func([]string) {
		mu.Lock()
		defer mu.Unlock()
		if ctx.Err() == nil {
			onChange()
		}
	})
	defer debouncer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fsWatcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs || !relevant(event.Op) {
				continue
			}
			debouncer.Add(event.Name)
		case err, ok := <-fsWatcher.Errors:
			if !ok {
				return nil
			}
			w.Logger.Error(zerr.With(zerr.Wrap(err, "file system error"), "path", dir))
		}
	}
}

func (w *Watcher) window() time.Duration {
	if w.Window <= 0 {
		return DefaultDebounceWindow
	}
	return w.Window
}

// relevant reports whether op can change the file contents. Chmod-only events are ignored.
func relevant(op fsnotify.Op) bool {
	return op.Has(fsnotify.Write) || op.Has(fsnotify.Create) || op.Has(fsnotify.Rename) || op.Has(fsnotify.Remove)
}
