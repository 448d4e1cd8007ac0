package ads

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"fyne.io/fyne/v2"

	"github.com/edward-ap/radiostream/internal/config"
)

// CopiedHold is how long a snippet stays flagged as copied.
const CopiedHold = 3 * time.Second

// ErrClipboardUnavailable reports that the system clipboard rejected a write.
var ErrClipboardUnavailable = errors.New("clipboard unavailable")

// Clipboard is a fallible text sink.
type Clipboard interface {
	Copy(text string) error
}

// FyneClipboard writes through a fyne clipboard. fyne does not report write
// failures, so the content is read back to confirm it.
type FyneClipboard struct {
	Clip fyne.Clipboard
}

// Copy implements Clipboard.
func (f FyneClipboard) Copy(text string) (err error) {
	if f.Clip == nil {
		return ErrClipboardUnavailable
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrClipboardUnavailable, r)
		}
	}()
	f.Clip.SetContent(text)
	if f.Clip.Content() != text {
		return ErrClipboardUnavailable
	}
	return nil
}

// Pauser is anything that can be stopped before a copy, usually a Rotator.
type Pauser interface {
	Stop()
}

// afterFunc schedules f and returns a cancel function.
type afterFunc func(d time.Duration, f func()) func() bool

func realAfter(d time.Duration, f func()) func() bool {
	return time.AfterFunc(d, f).Stop
}

// Copier copies snippet markup and tracks which snippet was copied last.
// At most one snippet is flagged at a time.
type Copier struct {
	clip  Clipboard
	pause Pauser
	hold  time.Duration
	after afterFunc

	mu       sync.Mutex
	copied   string
	seq      uint64
	cancel   func() bool
	onChange func(copiedID string)
}

// NewCopier returns a Copier writing to clip. pause may be nil.
func NewCopier(clip Clipboard, pause Pauser) *Copier {
	return &Copier{clip: clip, pause: pause, hold: CopiedHold, after: realAfter}
}

// OnChange registers a callback receiving the copied snippet ID, or "" when
// the flag clears. It may run on a timer goroutine.
func (c *Copier) OnChange(fn func(string)) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

// Copied returns the ID of the flagged snippet, or "".
func (c *Copier) Copied() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.copied
}

// Copy pauses rotation and writes snippet.Code to the clipboard. On success
// the snippet replaces any previous flag and clears itself after CopiedHold.
func (c *Copier) Copy(snippet config.AdSnippet) error {
	if c.pause != nil {
		c.pause.Stop()
	}
	if err := c.clip.Copy(snippet.Code); err != nil {
		if errors.Is(err, ErrClipboardUnavailable) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrClipboardUnavailable, err)
	}

	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	c.seq++
	seq := c.seq
	c.copied = snippet.ID
	c.cancel = c.after(c.hold, func() { c.revert(seq) })
	fn := c.onChange
	c.mu.Unlock()
	if fn != nil {
		fn(snippet.ID)
	}
	return nil
}

func (c *Copier) revert(seq uint64) {
	c.mu.Lock()
	if seq != c.seq {
		c.mu.Unlock()
		return
	}
	c.copied = ""
	c.cancel = nil
	fn := c.onChange
	c.mu.Unlock()
	if fn != nil {
		fn("")
	}
}

// Close cancels a pending revert.
func (c *Copier) Close() {
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.seq++
	c.mu.Unlock()
}
