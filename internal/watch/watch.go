// Package watch re-runs an action when any of a set of files changes.
//
// Files are watched through their parent directories so that editors which
// save by writing a new file and renaming it over the old one are still
// seen. Bursts of events are coalesced: the action runs once the watched
// files have been quiet for the debounce interval.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period used when none is configured.
const DefaultDebounce = 100 * time.Millisecond

// ErrClosed is returned by Run when the underlying watcher stops delivering
// events.
var ErrClosed = errors.New("watch: watcher closed")

// Func is called with the path of the last file that changed. A non-nil
// error stops Run.
type Func func(ctx context.Context, path string) error

// Watcher calls a Func whenever one of its files changes.
type Watcher struct {
	fs       *fsnotify.Watcher
	targets  map[string]bool
	onChange Func
	debounce time.Duration
	logger   *slog.Logger
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before the action runs.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the logger. Nil is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// New starts watching paths. Events are not delivered to onChange until Run
// is called.
func New(paths []string, onChange Func, opts ...Option) (*Watcher, error) {
	if onChange == nil {
		return nil, errors.New("watch: change function is required")
	}
	if len(paths) == 0 {
		return nil, errors.New("watch: no paths to watch")
	}

	w := &Watcher{
		targets:  make(map[string]bool, len(paths)),
		onChange: onChange,
		debounce: DefaultDebounce,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(w)
	}

	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	w.fs = fs

	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fs.Close()
			return nil, err
		}
		w.targets[abs] = true

		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := fs.Add(dir); err != nil {
			fs.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		dirs[dir] = true
		w.logger.Debug("watching directory", "dir", dir)
	}
	return w, nil
}

// Run delivers changes until ctx is canceled, the change function fails, or
// the watcher breaks. It closes the watcher before returning.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fs.Close()

	var (
		timer   *time.Timer
		fire    <-chan time.Time
		pending string
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fs.Events:
			if !ok {
				return ErrClosed
			}
			name := filepath.Clean(event.Name)
			if !w.targets[name] || !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create)) {
				continue
			}

			w.logger.Debug("file changed", "path", name, "op", event.Op.String())
			pending = name
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			if err := w.onChange(ctx, pending); err != nil {
				return err
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return ErrClosed
			}
			return fmt.Errorf("watcher error: %w", err)
		}
	}
}

// Close stops watching without running. It is not needed after Run.
func (w *Watcher) Close() error {
	return w.fs.Close()
}
