// Package watcher reloads guide content when files in a content
// directory change.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/vanderheijden86/apiguide/pkg/debug"
)

// DefaultDebounce coalesces editor save bursts into one reload.
const DefaultDebounce = 200 * time.Millisecond

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before onChange fires.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithErrorHandler receives fsnotify errors. They never stop the watcher.
func WithErrorHandler(fn func(error)) Option {
	return func(w *Watcher) {
		w.onError = fn
	}
}

// Watcher calls onChange after YAML files in dir are written, created,
// renamed or removed.
type Watcher struct {
	dir      string
	fsw      *fsnotify.Watcher
	onChange func()
	onError  func(error)
	debounce time.Duration

	mu      sync.Mutex
	pending *time.Timer
	done    chan struct{}
}

// New creates a watcher for dir. Call Start to begin delivering events.
func New(dir string, onChange func(), opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	w := &Watcher{
		dir:      dir,
		fsw:      fsw,
		onChange: onChange,
		debounce: DefaultDebounce,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Start watches the directory until ctx is cancelled. It returns once the
// watch is registered; events are processed on a background goroutine.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.fsw.Add(w.dir); err != nil {
		w.fsw.Close()
		close(w.done)
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	debug.Log("watcher: watching %s", w.dir)
	go w.loop(ctx)
	return nil
}

// Close releases the underlying fsnotify watcher of a watcher that was
// never started. Started watchers close themselves when ctx ends.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// Done is closed when the watcher has stopped.
func (w *Watcher) Done() <-chan struct{} {
	return w.done
}

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.done)
	defer w.fsw.Close()
	defer w.stopPending()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !relevant(event) {
				continue
			}
			debug.Log("watcher: %s %s", event.Op, event.Name)
			w.schedule()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			debug.Log("watcher: error %v", err)
			if w.onError != nil {
				w.onError(err)
			}
		}
	}
}

// schedule restarts the debounce timer so onChange fires once the
// directory has been quiet for the debounce period.
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.pending != nil {
		w.pending.Stop()
	}
	w.pending = time.AfterFunc(w.debounce, w.fire)
}

func (w *Watcher) fire() {
	w.mu.Lock()
	w.pending = nil
	w.mu.Unlock()
	if w.onChange != nil {
		w.onChange()
	}
}

func (w *Watcher) stopPending() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.pending != nil {
		w.pending.Stop()
		w.pending = nil
	}
}

// relevant ignores chmod noise and non-YAML files (editor swap files).
func relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	switch strings.ToLower(filepath.Ext(event.Name)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
