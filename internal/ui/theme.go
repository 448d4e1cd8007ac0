package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// Brand colors.
var (
	Indigo = color.NRGBA{R: 0x4F, G: 0x46, B: 0xE5, A: 0xFF}
	Amber  = color.NRGBA{R: 0xD9, G: 0x77, B: 0x06, A: 0xFF}
	Green  = color.NRGBA{R: 0x16, G: 0xA3, B: 0x4A, A: 0xFF}
	White  = color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
)

// radioTheme tints the primary color indigo.
type radioTheme struct{ fyne.Theme }

func (t radioTheme) Color(n fyne.ThemeColorName, v fyne.ThemeVariant) color.Color {
	if n == theme.ColorNamePrimary {
		return Indigo
	}
	return t.Theme.Color(n, v)
}

// UseRadioTheme wraps the current app theme.
func UseRadioTheme(a fyne.App) {
	if a == nil {
		return
	}
	a.Settings().SetTheme(radioTheme{Theme: a.Settings().Theme()})
}
