// Package watcher provides live-reload notification for the two
// configuration layer files.
//
// Both layer files (and their parent directories, so first creation is
// seen) are watched with fsnotify. Rapid bursts of events, as editors
// produce on save, are debounced into a single callback.
package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is the quiet period required before a change fires.
const DefaultDebounce = 250 * time.Millisecond

// Handler is called after the watched configuration changed and the
// debounce window elapsed.
type Handler func()

// Watcher monitors the configuration layer files for changes.
type Watcher struct {
	paths    []string
	debounce time.Duration
	logger   *zap.Logger

	mu      sync.Mutex
	handler Handler
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the debounce duration for rapid changes.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// New creates a watcher over the given configuration file paths.
func New(logger *zap.Logger, paths []string, opts ...Option) *Watcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &Watcher{
		paths:    paths,
		debounce: DefaultDebounce,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// OnChange sets the handler invoked after a debounced change.
func (w *Watcher) OnChange(handler Handler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handler = handler
}

// Start begins watching. It returns once the underlying watches are
// established; events are delivered until the context is cancelled or
// Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		w.mu.Unlock()
		return err
	}

	// Watch parent directories: the layer file may not exist yet, and
	// many editors replace files by rename, which drops a file watch.
	watched := make(map[string]bool)
	for _, path := range w.paths {
		dir := filepath.Dir(path)
		if watched[dir] {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			w.logger.Warn("config watch dir", zap.String("dir", dir), zap.Error(err))
			continue
		}
		if err := fw.Add(dir); err != nil {
			w.logger.Warn("config watch add", zap.String("dir", dir), zap.Error(err))
			continue
		}
		watched[dir] = true
	}

	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.done = make(chan struct{})
	w.running = true
	w.mu.Unlock()

	go w.loop(runCtx, fw)
	return nil
}

// Stop stops watching and waits for the event loop to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	cancel := w.cancel
	done := w.done
	w.mu.Unlock()

	cancel()
	<-done
}

// loop consumes fsnotify events, filters to the watched files, and
// fires the handler after the debounce window.
func (w *Watcher) loop(ctx context.Context, fw *fsnotify.Watcher) {
	defer close(w.done)
	defer fw.Close()

	relevant := make(map[string]bool, len(w.paths))
	for _, path := range w.paths {
		if abs, err := filepath.Abs(path); err == nil {
			relevant[abs] = true
		}
	}

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-fw.Events:
			if !ok {
				return
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || !relevant[abs] {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("config watch error", zap.Error(err))
		case <-timerC:
			timer = nil
			timerC = nil
			w.fire()
		}
	}
}

// fire invokes the handler with panic recovery so a bad handler cannot
// kill the watch loop.
func (w *Watcher) fire() {
	w.mu.Lock()
	handler := w.handler
	w.mu.Unlock()
	if handler == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			w.logger.Warn("config change handler panicked", zap.Any("panic", r))
		}
	}()
	handler()
}
