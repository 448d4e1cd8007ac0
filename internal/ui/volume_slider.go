package ui

import (
	"image/color"
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// VolumeStep is the slider granularity, one percent.
const VolumeStep = 0.01

// VolumeSlider is a compact horizontal slider over [0,1] with a small thumb.
// SetLevel updates it from outside without firing OnChanged, so state pushed
// from the player never loops back into it.
type VolumeSlider struct {
	widget.BaseWidget
	Value     float64
	Muted     bool
	OnChanged func(float64)
}

// NewVolumeSlider creates a slider at v.
func NewVolumeSlider(v float64) *VolumeSlider {
	s := &VolumeSlider{Value: normalizeVolume(v)}
	s.ExtendBaseWidget(s)
	return s
}

func normalizeVolume(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	v = clampFloat64(v, 0, 1)
	return math.Round(v*100) / 100
}

// SetValue applies v as user input and notifies OnChanged.
func (s *VolumeSlider) SetValue(v float64) {
	v = normalizeVolume(v)
	if v == s.Value {
		return
	}
	s.Value = v
	s.Refresh()
	if s.OnChanged != nil {
		s.OnChanged(v)
	}
}

// SetLevel mirrors the player state without notifying.
func (s *VolumeSlider) SetLevel(v float64, muted bool) {
	v = normalizeVolume(v)
	if v == s.Value && muted == s.Muted {
		return
	}
	s.Value = v
	s.Muted = muted
	s.Refresh()
}

// Shown reports the level drawn on the track; zero while muted.
func (s *VolumeSlider) Shown() float64 {
	if s.Muted {
		return 0
	}
	return s.Value
}

func (s *VolumeSlider) Dragged(e *fyne.DragEvent) { s.setFromX(e.Position.X) }

func (s *VolumeSlider) DragEnd() {}

func (s *VolumeSlider) Tapped(e *fyne.PointEvent) { s.setFromX(e.Position.X) }

// Scrolled moves the level five steps per wheel notch.
func (s *VolumeSlider) Scrolled(ev *fyne.ScrollEvent) {
	if ev == nil {
		return
	}
	switch {
	case ev.Scrolled.DY > 0:
		s.SetValue(s.Value + 5*VolumeStep)
	case ev.Scrolled.DY < 0:
		s.SetValue(s.Value - 5*VolumeStep)
	}
}

func (s *VolumeSlider) setFromX(px float32) {
	w := s.Size().Width
	if w <= 0 {
		return
	}
	s.SetValue(float64(px / w))
}

func (s *VolumeSlider) MinSize() fyne.Size {
	return fyne.NewSize(140, theme.IconInlineSize())
}

func (s *VolumeSlider) CreateRenderer() fyne.WidgetRenderer {
	r := &volumeRenderer{
		s:     s,
		track: canvas.NewRectangle(theme.ShadowColor()),
		fill:  canvas.NewRectangle(theme.PrimaryColor()),
		thumb: canvas.NewCircle(theme.ForegroundColor()),
	}
	r.track.CornerRadius = 2
	r.fill.CornerRadius = 2
	r.objs = []fyne.CanvasObject{r.track, r.fill, r.thumb}
	return r
}

type volumeRenderer struct {
	s     *VolumeSlider
	track *canvas.Rectangle
	fill  *canvas.Rectangle
	thumb *canvas.Circle
	objs  []fyne.CanvasObject
}

func (r *volumeRenderer) Layout(sz fyne.Size) {
	trackH := float32(4)
	y := (sz.Height - trackH) / 2
	r.track.Move(fyne.NewPos(0, y))
	r.track.Resize(fyne.NewSize(sz.Width, trackH))

	fillW := sz.Width * float32(r.s.Shown())
	r.fill.Move(fyne.NewPos(0, y))
	r.fill.Resize(fyne.NewSize(fillW, trackH))

	radius := theme.IconInlineSize() / 4
	cx := fillW
	if cx < radius {
		cx = radius
	}
	if cx > sz.Width-radius {
		cx = sz.Width - radius
	}
	r.thumb.Resize(fyne.NewSize(radius*2, radius*2))
	r.thumb.Move(fyne.NewPos(cx-radius, sz.Height/2-radius))
}

func (r *volumeRenderer) MinSize() fyne.Size { return r.s.MinSize() }

func (r *volumeRenderer) Refresh() {
	var fill color.Color = theme.PrimaryColor()
	if r.s.Muted {
		fill = theme.DisabledColor()
	}
	r.fill.FillColor = fill
	r.Layout(r.s.Size())
	canvas.Refresh(r.track)
	canvas.Refresh(r.fill)
	canvas.Refresh(r.thumb)
}

func (r *volumeRenderer) Destroy() {}

func (r *volumeRenderer) Objects() []fyne.CanvasObject { return r.objs }
