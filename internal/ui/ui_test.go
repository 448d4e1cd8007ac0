package ui

import (
	"image/color"
	"math"
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
	"golang.org/x/image/font/basicfont"
)

func TestNeedsScroll(t *testing.T) {
	tests := []struct {
		name          string
		textWidth     float32
		viewportWidth float32
		want          bool
	}{
		{name: "fits exactly", textWidth: 120, viewportWidth: 120, want: false},
		{name: "within epsilon", textWidth: 100.3, viewportWidth: 100, want: false},
		{name: "overflows", textWidth: 150, viewportWidth: 120, want: true},
		{name: "negative viewport", textWidth: 1, viewportWidth: -5, want: true},
		{name: "empty text", textWidth: 0, viewportWidth: 200, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := needsScroll(tt.textWidth, tt.viewportWidth); got != tt.want {
				t.Fatalf("needsScroll(%v, %v) = %v, want %v", tt.textWidth, tt.viewportWidth, got, tt.want)
			}
		})
	}
}

func TestRotateRunes(t *testing.T) {
	r := []rune("Olá!")
	tests := map[int]string{0: "Olá!", 1: "lá!O", 3: "!Olá", 4: "Olá!", -1: "!Olá"}
	for off, want := range tests {
		if got := rotateRunes(r, off); got != want {
			t.Errorf("rotateRunes(%d) = %q, want %q", off, got, want)
		}
	}
	if rotateRunes(nil, 3) != "" {
		t.Fatal("empty input should stay empty")
	}
}

func TestPercent(t *testing.T) {
	tests := map[float64]int{0: 0, 0.8: 80, 0.005: 1, 1: 100, 1.7: 100, -2: 0}
	for in, want := range tests {
		if got := Percent(in); got != want {
			t.Errorf("Percent(%v) = %d, want %d", in, got, want)
		}
	}
}

func TestNormalizeVolume(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{in: -1, want: 0},
		{in: 2, want: 1},
		{in: 0.333, want: 0.33},
		{in: 0.996, want: 1},
		{in: math.NaN(), want: 0},
	}
	for _, tt := range tests {
		if got := normalizeVolume(tt.in); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("normalizeVolume(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestVolumeSliderSetLevelIsQuiet(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()
	s := NewVolumeSlider(0.5)
	calls := 0
	s.OnChanged = func(float64) { calls++ }

	s.SetLevel(0.2, true)
	if calls != 0 {
		t.Fatal("SetLevel must not notify")
	}
	if s.Shown() != 0 {
		t.Fatalf("muted slider shows %v", s.Shown())
	}
	s.SetValue(0.7)
	if calls != 1 || s.Value != 0.7 {
		t.Fatalf("SetValue: calls %d value %v", calls, s.Value)
	}
	s.SetValue(0.7)
	if calls != 1 {
		t.Fatal("unchanged value should not notify")
	}
}

func TestPulseColor(t *testing.T) {
	base := color.NRGBA{R: 10, G: 20, B: 30, A: 0xFF}
	if c := pulseColor(base, 0); c.A != 0xFF {
		t.Fatalf("start alpha = %d", c.A)
	}
	mid := pulseColor(base, pulsePeriod/2)
	if mid.A > 0x5A || mid.A < 0x58 {
		t.Fatalf("half period alpha = %d, want about 35%%", mid.A)
	}
	if c := pulseColor(base, pulsePeriod+10*time.Millisecond); c.R != base.R || c.G != base.G || c.B != base.B {
		t.Fatalf("hue changed: %+v", c)
	}
}

func TestRenderBadge(t *testing.T) {
	fg := color.NRGBA{A: 0xFF}
	bg := color.NRGBA{R: 0xFF, A: 0xFF}
	img := renderBadge("COPIED", fg, bg, basicfont.Face7x13)
	b := img.Bounds()
	if b.Dx() <= 6*7 || b.Dy() < 13 {
		t.Fatalf("badge too small: %v", b)
	}
	// corners stay transparent, the center carries the pill color or text
	if _, _, _, a := img.At(0, 0).RGBA(); a != 0 {
		t.Fatal("corner should be transparent")
	}
	if _, _, _, a := img.At(b.Dx()/2, 1).RGBA(); a == 0 {
		t.Fatal("pill body should be opaque")
	}
}
