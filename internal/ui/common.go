// Package ui contains the small fyne widgets shared by the RadioStream views.
package ui

import "fyne.io/fyne/v2"

type runOnMainDriver interface {
	RunOnMain(func())
}

type callOnMainDriver interface {
	CallOnMain(func())
}

// CallOnMain runs f on the UI thread when the driver exposes a way to do so
// and inline otherwise. Player and rotation callbacks arrive on background
// goroutines and must go through here before touching widgets.
func CallOnMain(f func()) {
	if f == nil {
		return
	}
	app := fyne.CurrentApp()
	if app == nil {
		f()
		return
	}
	switch drv := app.Driver().(type) {
	case runOnMainDriver:
		drv.RunOnMain(f)
	case callOnMainDriver:
		drv.CallOnMain(f)
	default:
		f()
	}
}

// currentScale returns the UI scale, 1 when unknown.
func currentScale() float64 {
	app := fyne.CurrentApp()
	if app == nil || app.Settings() == nil {
		return 1
	}
	if sc := app.Settings().Scale(); sc > 0 {
		return float64(sc)
	}
	return 1
}

func clampFloat64(v, min, max float64) float64 {
	if max <= min {
		return min
	}
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// Percent renders a [0,1] level as the integer percentage shown next to the
// volume slider.
func Percent(v float64) int {
	return int(clampFloat64(v, 0, 1)*100 + 0.5)
}

const marqueeWidthEpsilon float32 = 0.5

// needsScroll decides whether text of textWidth overflows the viewport.
func needsScroll(textWidth, viewportWidth float32) bool {
	if textWidth <= 0 {
		return false
	}
	if viewportWidth < 0 {
		viewportWidth = 0
	}
	return textWidth-viewportWidth > marqueeWidthEpsilon
}
