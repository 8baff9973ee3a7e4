// Package ui provides the terminal user interface for apiguide.
// This file implements the BackgroundWorker that reloads guide content off
// the UI thread when the content directory changes.
package ui

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/apiguide/pkg/content"
	dbg "github.com/vanderheijden86/apiguide/pkg/debug"
	"github.com/vanderheijden86/apiguide/pkg/watcher"
)

// WorkerState represents the current state of the background worker.
type WorkerState int

const (
	// WorkerIdle means the worker is waiting for file changes.
	WorkerIdle WorkerState = iota
	// WorkerProcessing means the worker is loading content.
	WorkerProcessing
	// WorkerStopped means the worker has been stopped.
	WorkerStopped
)

// WorkerError wraps errors with phase and retry context.
type WorkerError struct {
	Phase   string    // "load" or "hash"
	Cause   error     // The underlying error
	Time    time.Time // When the error occurred
	Retries int       // Number of consecutive failures
}

func (e WorkerError) Error() string {
	return fmt.Sprintf("%s failed: %v (retries: %d)", e.Phase, e.Cause, e.Retries)
}

func (e WorkerError) Unwrap() error {
	return e.Cause
}

// ContentReloadedMsg carries a freshly loaded library to the UI.
type ContentReloadedMsg struct {
	Library *content.Library
}

// ContentErrorMsg is sent when reloading fails. The previous library stays
// in use.
type ContentErrorMsg struct {
	Err         error
	Recoverable bool // True if the next file change may fix it
}

// WorkerConfig configures the BackgroundWorker.
type WorkerConfig struct {
	ContentDir    string
	DebounceDelay time.Duration
	// Send delivers messages to the UI, normally tea.Program.Send.
	Send func(tea.Msg)
}

// BackgroundWorker watches a content directory and reloads it. Changes
// arriving during a reload are coalesced into one more reload.
type BackgroundWorker struct {
	contentDir    string
	debounceDelay time.Duration

	mu         sync.RWMutex
	state      WorkerState
	dirty      bool
	library    *content.Library
	started    bool
	lastHash   string
	lastError  *WorkerError
	errorCount int

	watcher *watcher.Watcher
	send    func(tea.Msg)

	ctx    context.Context
	cancel context.CancelFunc
	done   <-chan struct{}
}

// NewBackgroundWorker creates a worker. An empty ContentDir yields a
// worker that never reloads.
func NewBackgroundWorker(cfg WorkerConfig) (*BackgroundWorker, error) {
	ctx, cancel := context.WithCancel(context.Background())

	if cfg.DebounceDelay == 0 {
		cfg.DebounceDelay = watcher.DefaultDebounce
	}

	w := &BackgroundWorker{
		contentDir:    cfg.ContentDir,
		debounceDelay: cfg.DebounceDelay,
		send:          cfg.Send,
		state:         WorkerIdle,
		ctx:           ctx,
		cancel:        cancel,
	}

	if cfg.ContentDir != "" {
		fw, err := watcher.New(cfg.ContentDir, w.TriggerRefresh,
			watcher.WithDebounce(cfg.DebounceDelay),
			watcher.WithErrorHandler(func(err error) {
				w.notify(ContentErrorMsg{Err: fmt.Errorf("watch: %w", err), Recoverable: true})
			}),
		)
		if err != nil {
			cancel()
			return nil, err
		}
		w.watcher = fw
	}

	return w, nil
}

// Start begins watching for file changes.
// Start is idempotent - calling it multiple times has no effect.
func (w *BackgroundWorker) Start() error {
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return nil
	}
	w.started = true
	w.mu.Unlock()

	if w.watcher == nil {
		return nil
	}
	if err := w.watcher.Start(w.ctx); err != nil {
		return err
	}
	w.mu.Lock()
	w.done = w.watcher.Done()
	w.mu.Unlock()
	return nil
}

// Stop halts the worker.
// Stop is idempotent - calling it multiple times has no effect.
func (w *BackgroundWorker) Stop() {
	w.mu.Lock()
	if w.state == WorkerStopped {
		w.mu.Unlock()
		return
	}
	w.state = WorkerStopped
	done := w.done
	started := w.started
	w.mu.Unlock()

	w.cancel()

	if !started && w.watcher != nil {
		w.watcher.Close()
	}

	if done != nil {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			// Timeout waiting for graceful shutdown
		}
	}
}

// TriggerRefresh reloads the content directory in the background.
// Has no effect if the worker is stopped; marks dirty while processing.
func (w *BackgroundWorker) TriggerRefresh() {
	w.mu.Lock()
	if w.state == WorkerStopped {
		w.mu.Unlock()
		return
	}
	if w.state == WorkerProcessing {
		w.dirty = true
		w.mu.Unlock()
		return
	}
	w.mu.Unlock()

	go w.process()
}

// Library returns the last successfully loaded library (may be nil).
func (w *BackgroundWorker) Library() *content.Library {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.library
}

// State returns the current worker state.
func (w *BackgroundWorker) State() WorkerState {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.state
}

func (w *BackgroundWorker) process() {
	w.mu.Lock()
	if w.state != WorkerIdle {
		if w.state == WorkerProcessing {
			w.dirty = true
		}
		w.mu.Unlock()
		return
	}
	w.state = WorkerProcessing
	w.dirty = false
	w.mu.Unlock()

	lib := w.buildLibrary()

	w.mu.Lock()
	if w.state == WorkerStopped {
		w.mu.Unlock()
		return
	}
	if lib != nil {
		w.library = lib
	}
	wasDirty := w.dirty
	w.state = WorkerIdle
	w.mu.Unlock()

	if lib != nil {
		w.notify(ContentReloadedMsg{Library: lib})
	}

	if wasDirty {
		go w.process()
	}
}

func (w *BackgroundWorker) notify(msg tea.Msg) {
	if w.send != nil {
		w.send(msg)
	}
}

// safeCompute executes fn and recovers from any panics.
func (w *BackgroundWorker) safeCompute(phase string, fn func() error) *WorkerError {
	var result *WorkerError
	func() {
		defer func() {
			if r := recover(); r != nil {
				result = &WorkerError{
					Phase: phase,
					Cause: fmt.Errorf("panic: %v\n%s", r, debug.Stack()),
					Time:  time.Now(),
				}
			}
		}()
		if err := fn(); err != nil {
			result = &WorkerError{
				Phase: phase,
				Cause: err,
				Time:  time.Now(),
			}
		}
	}()
	return result
}

// recordError tracks an error and updates error state.
func (w *BackgroundWorker) recordError(err *WorkerError) {
	w.mu.Lock()
	w.lastError = err
	if err != nil {
		w.errorCount++
		err.Retries = w.errorCount
	} else {
		w.errorCount = 0
	}
	w.mu.Unlock()
}

// LastError returns the most recent error (nil if last operation succeeded).
func (w *BackgroundWorker) LastError() *WorkerError {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.lastError
}

// buildLibrary loads the content directory. It returns nil when loading
// fails or the content is unchanged since the last reload.
func (w *BackgroundWorker) buildLibrary() *content.Library {
	if w.contentDir == "" {
		return nil
	}

	start := time.Now()
	var lib *content.Library
	if werr := w.safeCompute("load", func() error {
		var err error
		lib, err = content.LoadDir(w.ctx, w.contentDir)
		return err
	}); werr != nil {
		dbg.Log("reload: loading %s: %v", w.contentDir, werr)
		w.recordError(werr)
		w.notify(ContentErrorMsg{Err: werr, Recoverable: true})
		return nil
	}

	var hash string
	if werr := w.safeCompute("hash", func() error {
		var err error
		hash, err = ComputeContentHash(lib)
		return err
	}); werr != nil {
		w.recordError(werr)
		w.notify(ContentErrorMsg{Err: werr, Recoverable: true})
		return nil
	}

	w.mu.RLock()
	lastHash := w.lastHash
	w.mu.RUnlock()

	w.recordError(nil)
	if hash == lastHash && lastHash != "" {
		dbg.Log("reload: content unchanged (hash=%s), skipping", hashPrefix(hash))
		return nil
	}

	w.mu.Lock()
	w.lastHash = hash
	w.mu.Unlock()

	dbg.Log("reload: loaded %d guides in %v (hash=%s)", lib.Len(), time.Since(start), hashPrefix(hash))
	return lib
}

// ComputeContentHash fingerprints a library so reloads triggered by
// no-op writes can be skipped.
func ComputeContentHash(lib *content.Library) (string, error) {
	data, err := json.Marshal(lib.Guides())
	if err != nil {
		return "", fmt.Errorf("hash content: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// LastHash returns the content hash from the last successful reload.
func (w *BackgroundWorker) LastHash() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.lastHash
}

// hashPrefix returns up to 16 characters of hash for logging.
func hashPrefix(hash string) string {
	if len(hash) > 16 {
		return hash[:16]
	}
	return hash
}

// ResetHash clears the stored content hash, forcing the next reload to
// be delivered even if content is unchanged.
func (w *BackgroundWorker) ResetHash() {
	w.mu.Lock()
	w.lastHash = ""
	w.mu.Unlock()
}
