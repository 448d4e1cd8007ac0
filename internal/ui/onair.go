package ui

import (
	"image/color"
	"math"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

var (
	liveRed    = color.NRGBA{R: 0xEF, G: 0x44, B: 0x44, A: 0xFF}
	offlineDim = color.NRGBA{R: 0x94, G: 0xA3, B: 0xB8, A: 0xFF}
)

// pulsePeriod is one full fade out and back in of the live dot.
const pulsePeriod = 1200 * time.Millisecond

// OnAirIndicator is the "ON AIR" / "OFFLINE" status pill: a dot that pulses
// red while live next to a bold caption.
type OnAirIndicator struct {
	wrap    *fyne.Container
	dot     *canvas.Circle
	caption *widget.Label

	mu   sync.Mutex
	live bool
	stop chan struct{}
}

// NewOnAirIndicator builds an indicator in the offline state.
func NewOnAirIndicator(diameter float32) *OnAirIndicator {
	dot := canvas.NewCircle(offlineDim)
	holder := container.New(layout.NewGridWrapLayout(fyne.NewSize(diameter, diameter)), dot)
	caption := widget.NewLabelWithStyle("OFFLINE", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	return &OnAirIndicator{
		wrap:    container.NewHBox(container.NewCenter(holder), caption),
		dot:     dot,
		caption: caption,
	}
}

// CanvasObject returns the widget tree for layouts.
func (o *OnAirIndicator) CanvasObject() fyne.CanvasObject { return o.wrap }

// Live reports the current state.
func (o *OnAirIndicator) Live() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.live
}

// SetLive switches between the pulsing live look and the static offline one.
func (o *OnAirIndicator) SetLive(live bool) {
	o.mu.Lock()
	if live == o.live {
		o.mu.Unlock()
		return
	}
	o.live = live
	if o.stop != nil {
		close(o.stop)
		o.stop = nil
	}
	var stop chan struct{}
	if live {
		stop = make(chan struct{})
		o.stop = stop
	}
	o.mu.Unlock()

	if live {
		CallOnMain(func() { o.caption.SetText("ON AIR") })
		go o.pulse(stop)
		return
	}
	CallOnMain(func() {
		o.caption.SetText("OFFLINE")
		o.dot.FillColor = offlineDim
		o.dot.Refresh()
	})
}

// Close stops the pulse goroutine.
func (o *OnAirIndicator) Close() {
	o.mu.Lock()
	if o.stop != nil {
		close(o.stop)
		o.stop = nil
	}
	o.mu.Unlock()
}

func (o *OnAirIndicator) pulse(stop chan struct{}) {
	t := time.NewTicker(60 * time.Millisecond)
	defer t.Stop()
	start := time.Now()
	for {
		select {
		case <-stop:
			return
		case now := <-t.C:
			col := pulseColor(liveRed, now.Sub(start))
			CallOnMain(func() {
				o.dot.FillColor = col
				o.dot.Refresh()
			})
		}
	}
}

// pulseColor fades base between full and 35% opacity over pulsePeriod.
func pulseColor(base color.NRGBA, elapsed time.Duration) color.NRGBA {
	phase := float64(elapsed%pulsePeriod) / float64(pulsePeriod)
	level := 0.35 + 0.65*(0.5+0.5*math.Cos(2*math.Pi*phase))
	base.A = uint8(level*255 + 0.5)
	return base
}
