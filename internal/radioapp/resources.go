package radioapp

import (
	"bytes"
	"image"
	"image/color"
	"image/png"

	"fyne.io/fyne/v2"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/edward-ap/radiostream/internal/ui"
)

const iconSize = 128

// AppIcon is the window and application icon, drawn at start-up.
var AppIcon = fyne.NewStaticResource("radiostream.png", renderIcon(iconSize))

// renderIcon draws a rounded indigo tile with a white "R" monogram.
func renderIcon(size int) []byte {
	dst := image.NewNRGBA(image.Rect(0, 0, size, size))
	radius := size / 5
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if insideRounded(x, y, size, radius) {
				dst.SetNRGBA(x, y, ui.Indigo)
			}
		}
	}

	// draw the glyph small with the bitmap face, then scale it up
	face := basicfont.Face7x13
	glyph := image.NewNRGBA(image.Rect(0, 0, 9, 15))
	d := &font.Drawer{
		Dst:  glyph,
		Src:  image.NewUniform(color.White),
		Face: face,
		Dot:  fixed.P(1, 12),
	}
	d.DrawString("R")
	inner := size * 3 / 5
	off := (size - inner) / 2
	draw.CatmullRom.Scale(dst, image.Rect(off, off, off+inner, off+inner), glyph, glyph.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil
	}
	return buf.Bytes()
}

func insideRounded(x, y, size, r int) bool {
	cx, cy := x, y
	switch {
	case x < r:
		cx = r
	case x >= size-r:
		cx = size - r - 1
	}
	switch {
	case y < r:
		cy = r
	case y >= size-r:
		cy = size - r - 1
	}
	dx, dy := x-cx, y-cy
	return dx*dx+dy*dy <= r*r
}
