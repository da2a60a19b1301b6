// Package watcher re-runs a callback when a file changes on disk.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is how long the file must stay quiet before the callback
// runs.
const DefaultDebounce = 200 * time.Millisecond

// Handler is called once per burst of changes.
type Handler func(ctx context.Context) error

// Watcher watches a single file. It watches the parent directory so the
// file may be replaced by an editor's write-and-rename save.
type Watcher struct {
	fs       *fsnotify.Watcher
	path     string
	debounce time.Duration
	onChange Handler
	logger   *zap.Logger
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(w *Watcher) { w.logger = l }
}

// New starts watching path. Changes made after New returns are seen by
// Run, even if Run starts later.
func New(path string, onChange Handler, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w := &Watcher{path: abs, debounce: DefaultDebounce, onChange: onChange, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(w)
	}
	if w.debounce <= 0 {
		w.debounce = DefaultDebounce
	}

	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(abs)
	if err := fs.Add(dir); err != nil {
		fs.Close()
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}
	w.fs = fs
	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Run delivers debounced changes until ctx is cancelled, then closes the
// watcher. Callback errors are logged and do not stop the loop.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fs.Close()

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			w.logger.Debug("file changed", zap.String("path", w.path), zap.Stringer("op", ev.Op))
			timer.Reset(w.debounce)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", zap.Error(err))

		case <-timer.C:
			if err := w.onChange(ctx); err != nil {
				w.logger.Error("change handler failed", zap.String("path", w.path), zap.Error(err))
			}
		}
	}
}

// Watch is New followed by Run.
func Watch(ctx context.Context, path string, debounce time.Duration, onChange Handler, opts ...Option) error {
	w, err := New(path, onChange, append(opts, WithDebounce(debounce))...)
	if err != nil {
		return err
	}
	return w.Run(ctx)
}
