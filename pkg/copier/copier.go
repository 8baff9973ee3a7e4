// Package copier copies code samples to the system clipboard and keeps a
// short-lived acknowledgment of which sample was copied last.
package copier

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/atotto/clipboard"

	"github.com/vanderheijden86/apiguide/pkg/debug"
)

// DefaultWindow is how long a copy acknowledgment stays visible.
const DefaultWindow = 2000 * time.Millisecond

// ErrClipboard wraps every failed clipboard write.
var ErrClipboard = errors.New("clipboard write failed")

// Writer is the single clipboard capability the copier needs.
type Writer interface {
	WriteText(text string) error
}

// WriterFunc adapts a function to Writer.
type WriterFunc func(text string) error

// WriteText calls f(text).
func (f WriterFunc) WriteText(text string) error {
	return f(text)
}

// SystemWriter writes to the OS clipboard (pbcopy, xclip/xsel/wl-copy,
// or the Windows API, depending on the platform).
var SystemWriter Writer = WriterFunc(clipboard.WriteAll)

// Timer is a scheduled callback that can be cancelled.
type Timer interface {
	Stop() bool
}

// Clock schedules the acknowledgment reversion.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Option configures a Copier.
type Option func(*Copier)

// WithClock replaces the wall clock, mainly for tests.
func WithClock(c Clock) Option {
	return func(cp *Copier) {
		cp.clock = c
	}
}

// WithWindow overrides the acknowledgment window. Non-positive values keep
// the default.
func WithWindow(d time.Duration) Option {
	return func(cp *Copier) {
		if d > 0 {
			cp.window = d
		}
	}
}

// WithOnExpire registers a callback invoked (from the timer goroutine)
// when an acknowledgment reverts. The UI uses it to schedule a redraw.
func WithOnExpire(fn func(id string)) Option {
	return func(cp *Copier) {
		cp.onExpire = fn
	}
}

// Copier tracks the most recently copied block. Only one reversion timer
// is ever outstanding: each successful copy cancels the previous timer and
// arms a new one.
type Copier struct {
	writer   Writer
	clock    Clock
	window   time.Duration
	onExpire func(id string)

	mu        sync.Mutex
	lastID    string
	copiedAt  time.Time
	timer     Timer
	gen       uint64
	writeErrs int
}

// New creates a Copier writing through w. A nil writer uses SystemWriter.
func New(w Writer, opts ...Option) *Copier {
	if w == nil {
		w = SystemWriter
	}
	c := &Copier{
		writer: w,
		clock:  systemClock{},
		window: DefaultWindow,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Copy writes text to the clipboard and, on success, acknowledges id for
// the configured window. On failure the previous acknowledgment and its
// timer are left untouched, the failure is logged, and an error wrapping
// ErrClipboard is returned for the caller to surface as a soft status.
func (c *Copier) Copy(text, id string) error {
	if err := c.writer.WriteText(text); err != nil {
		c.mu.Lock()
		c.writeErrs++
		c.mu.Unlock()
		debug.Log("copier: write for %q failed: %v", id, err)
		return fmt.Errorf("%w: %w", ErrClipboard, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.timer != nil {
		c.timer.Stop()
	}
	c.gen++
	gen := c.gen
	c.lastID = id
	c.copiedAt = c.clock.Now()
	c.timer = c.clock.AfterFunc(c.window, func() { c.expire(gen) })

	debug.Log("copier: copied %q (%d bytes)", id, len(text))
	return nil
}

// expire clears the acknowledgment armed by generation gen. A timer that
// already fired before it could be stopped carries an old generation and
// is ignored.
func (c *Copier) expire(gen uint64) {
	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		return
	}
	id := c.lastID
	c.lastID = ""
	c.timer = nil
	cb := c.onExpire
	c.mu.Unlock()

	if cb != nil {
		cb(id)
	}
}

// LastCopiedID returns the id of the acknowledged block, or "" when none.
func (c *Copier) LastCopiedID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastID
}

// IsCopied reports whether id is currently acknowledged.
func (c *Copier) IsCopied(id string) bool {
	if id == "" {
		return false
	}
	return c.LastCopiedID() == id
}

// Remaining returns how long the current acknowledgment has left, or zero.
func (c *Copier) Remaining() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lastID == "" {
		return 0
	}
	left := c.window - c.clock.Now().Sub(c.copiedAt)
	if left < 0 {
		return 0
	}
	return left
}

// Failures returns the number of failed clipboard writes.
func (c *Copier) Failures() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.writeErrs
}

// Close cancels any pending reversion and clears the acknowledgment.
func (c *Copier) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.gen++
	c.lastID = ""
}
