package ui

import (
	"context"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/widget"
)

// Marquee shows a single line of text and scrolls it sideways when it does
// not fit its parent. SetText is safe from any goroutine.
type Marquee struct {
	lbl    *widget.Label
	parent fyne.CanvasObject
	bind   binding.String

	mu     sync.Mutex
	cancel context.CancelFunc
	text   string

	step time.Duration
	gap  string
}

// NewMarquee binds lbl to a marquee measured against parent.
func NewMarquee(lbl *widget.Label, parent fyne.CanvasObject) *Marquee {
	b := binding.NewString()
	lbl.Bind(b)
	return &Marquee{
		lbl:    lbl,
		parent: parent,
		bind:   b,
		step:   150 * time.Millisecond,
		gap:    "   •   ",
	}
}

// Text returns the last text set, unscrolled.
func (m *Marquee) Text() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text
}

// SetText replaces the text and restarts scrolling if needed. Setting the
// current text again keeps the running animation.
func (m *Marquee) SetText(text string) {
	m.mu.Lock()
	if text == m.text && m.cancel != nil {
		m.mu.Unlock()
		return
	}
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.text = text
	m.mu.Unlock()

	_ = m.bind.Set(text)

	if m.parent == nil {
		return
	}
	textW := measureLabel(m.lbl, text)
	if !needsScroll(textW, m.parent.Size().Width) {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.mu.Lock()
	m.cancel = cancel
	m.mu.Unlock()
	go m.scroll(ctx, text, textW)
}

func (m *Marquee) scroll(ctx context.Context, text string, textW float32) {
	runes := []rune(text + m.gap)
	t := time.NewTicker(m.step)
	defer t.Stop()
	offset := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
		if !needsScroll(textW, m.parent.Size().Width) {
			_ = m.bind.Set(text)
			return
		}
		offset = (offset + 1) % len(runes)
		_ = m.bind.Set(rotateRunes(runes, offset))
	}
}

// Close stops any running animation.
func (m *Marquee) Close() {
	m.mu.Lock()
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.mu.Unlock()
}

// rotateRunes returns runes shifted left by offset positions.
func rotateRunes(runes []rune, offset int) string {
	if len(runes) == 0 {
		return ""
	}
	offset %= len(runes)
	if offset < 0 {
		offset += len(runes)
	}
	return string(runes[offset:]) + string(runes[:offset])
}

func measureLabel(lbl *widget.Label, text string) float32 {
	if lbl == nil {
		return 0
	}
	tmp := widget.NewLabel(text)
	tmp.TextStyle = lbl.TextStyle
	tmp.Importance = lbl.Importance
	return tmp.MinSize().Width
}
