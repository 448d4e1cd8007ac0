package ui

import (
	"image"
	"image/color"
	"image/draw"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/theme"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Badge is a small pill with rasterized text, used for short static captions
// such as "COPIED" or a snippet's format. The bitmap is rendered once.
type Badge struct {
	text string
	fg   color.Color
	bg   color.Color
	img  *canvas.Image
}

// NewBadge renders text in fg over a rounded bg pill.
func NewBadge(text string, fg, bg color.Color) *Badge {
	b := &Badge{text: text, fg: fg, bg: bg}
	face := badgeFace()
	if c, ok := face.(interface{ Close() error }); ok {
		defer c.Close()
	}
	out := renderBadge(text, fg, bg, face)
	img := canvas.NewImageFromImage(out)
	img.FillMode = canvas.ImageFillContain
	sc := float32(currentScale())
	img.SetMinSize(fyne.NewSize(float32(out.Bounds().Dx())/sc, float32(out.Bounds().Dy())/sc))
	b.img = img
	return b
}

// CanvasObject exposes the image for layouts.
func (b *Badge) CanvasObject() fyne.CanvasObject { return b.img }

// Text returns the caption.
func (b *Badge) Text() string { return b.text }

// renderBadge draws text centered in a pill whose corner radius is half its
// height.
func renderBadge(text string, fg, bg color.Color, face font.Face) *image.RGBA {
	d := &font.Drawer{Face: face}
	adv := d.MeasureString(text).Ceil()
	m := face.Metrics()
	textH := (m.Ascent + m.Descent).Ceil()
	padX, padY := textH/2+2, 3
	w, h := adv+2*padX, textH+2*padY
	if w < h {
		w = h
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	fillPill(dst, bg)

	d.Dst = dst
	d.Src = image.NewUniform(fg)
	d.Dot = fixed.P((w-adv)/2, padY+m.Ascent.Ceil())
	d.DrawString(text)
	return dst
}

// fillPill paints a horizontal capsule covering dst.
func fillPill(dst *image.RGBA, bg color.Color) {
	b := dst.Bounds()
	w, h := b.Dx(), b.Dy()
	r := h / 2
	src := image.NewUniform(bg)
	draw.Draw(dst, image.Rect(r, 0, w-r, h), src, image.Point{}, draw.Src)
	cy := float64(h) / 2
	for y := 0; y < h; y++ {
		for x := 0; x < r; x++ {
			dx := float64(r-x) - 0.5
			dy := float64(y) + 0.5 - cy
			if dx*dx+dy*dy <= float64(r*r) {
				dst.Set(x, y, bg)
				dst.Set(w-1-x, y, bg)
			}
		}
	}
}

// badgeFace loads the theme's bold font at a caption size, falling back to
// the built-in bitmap face.
func badgeFace() font.Face {
	size := float64(theme.CaptionTextSize())
	if size <= 0 {
		size = 11
	}
	size *= currentScale() * 0.75
	if size < 6 {
		size = 6
	}
	if res := theme.TextBoldFont(); res != nil {
		if data := res.Content(); len(data) > 0 {
			if ttf, err := opentype.Parse(data); err == nil {
				if face, err := opentype.NewFace(ttf, &opentype.FaceOptions{Size: size, DPI: 96, Hinting: font.HintingFull}); err == nil {
					return face
				}
			}
		}
	}
	return basicfont.Face7x13
}
