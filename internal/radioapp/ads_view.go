package radioapp

import (
	"image/color"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/edward-ap/radiostream/internal/ads"
	"github.com/edward-ap/radiostream/internal/config"
	"github.com/edward-ap/radiostream/internal/ui"
)

var (
	highlightTint = color.NRGBA{R: 0xD9, G: 0x77, B: 0x06, A: 0x40}
	clearTint     = color.NRGBA{}
)

const scrollAnimation = 350 * time.Millisecond

type snippetCard struct {
	snippet config.AdSnippet
	root    fyne.CanvasObject
	bg      *canvas.Rectangle
	copyBtn *widget.Button
	badge   fyne.CanvasObject
}

// adsView shows each snippet's markup as plain monospace text with a copy
// button, plus the rotation toggle that walks through them.
type adsView struct {
	rotator *ads.Rotator
	copier  *ads.Copier
	parent  fyne.Window

	root      fyne.CanvasObject
	scroll    *container.Scroll
	list      *fyne.Container
	cards     []*snippetCard
	toggleBtn *widget.Button
	anim      *fyne.Animation
}

func newAdsView(snippets []config.AdSnippet, rot *ads.Rotator, cp *ads.Copier, parent fyne.Window) *adsView {
	v := &adsView{rotator: rot, copier: cp, parent: parent}

	v.list = container.NewVBox()
	for _, s := range snippets {
		c := v.newCard(s)
		v.cards = append(v.cards, c)
		v.list.Add(c.root)
	}
	v.list.Add(hintCard())
	v.scroll = container.NewVScroll(v.list)

	v.toggleBtn = widget.NewButtonWithIcon("Start rotation", theme.MediaPlayIcon(), v.toggleRotation)
	if len(snippets) == 0 {
		v.toggleBtn.Disable()
	}
	header := container.NewVBox(
		widget.NewLabelWithStyle("Ad codes", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		v.toggleBtn,
	)
	v.root = container.NewBorder(header, nil, nil, nil, v.scroll)

	rot.OnAdvance(func(i int) {
		ui.CallOnMain(func() { v.highlight(i, true) })
	})
	cp.OnChange(func(id string) {
		ui.CallOnMain(func() { v.renderCopied(id) })
	})
	v.renderToggle()
	return v
}

func (v *adsView) newCard(s config.AdSnippet) *snippetCard {
	c := &snippetCard{snippet: s}
	title := widget.NewLabelWithStyle(s.Title, fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	code := widget.NewLabelWithStyle(s.Code, fyne.TextAlignLeading, fyne.TextStyle{Monospace: true})
	code.Wrapping = fyne.TextWrapBreak
	badge := ui.NewBadge("COPIED", ui.White, ui.Green)
	c.badge = badge.CanvasObject()
	c.badge.Hide()
	c.copyBtn = widget.NewButtonWithIcon("Copy code", theme.ContentCopyIcon(), func() { v.copy(c) })

	c.bg = canvas.NewRectangle(clearTint)
	c.bg.CornerRadius = 10
	body := container.NewBorder(
		container.NewHBox(title, c.badge), c.copyBtn, nil, nil,
		code,
	)
	c.root = container.NewStack(c.bg, container.NewPadded(body))
	return c
}

func hintCard() fyne.CanvasObject {
	text := widget.NewLabel("Copy a snippet and paste it into your site's HTML where the ad should appear. " +
		"Start rotation to preview each placement in turn.")
	text.Wrapping = fyne.TextWrapWord
	return widget.NewCard("How to use", "", container.NewBorder(nil, nil, widget.NewIcon(theme.InfoIcon()), nil, text))
}

func (v *adsView) object() fyne.CanvasObject { return v.root }

func (v *adsView) toggleRotation() {
	v.rotator.Toggle()
	v.renderToggle()
}

func (v *adsView) renderToggle() {
	if v.rotator.Running() {
		v.toggleBtn.SetText("Stop rotation")
		v.toggleBtn.SetIcon(theme.MediaPauseIcon())
		v.toggleBtn.Importance = widget.WarningImportance
	} else {
		v.toggleBtn.SetText("Start rotation")
		v.toggleBtn.SetIcon(theme.MediaPlayIcon())
		v.toggleBtn.Importance = widget.MediumImportance
	}
	v.toggleBtn.Refresh()
	v.highlight(v.rotator.Index(), false)
}

func (v *adsView) copy(c *snippetCard) {
	err := v.copier.Copy(c.snippet)
	v.renderToggle()
	if err != nil {
		dialog.ShowInformation("Copy failed",
			"The code could not be copied automatically. Select it and copy it manually.", v.parent)
	}
}

func (v *adsView) renderCopied(id string) {
	for _, c := range v.cards {
		if c.snippet.ID == id {
			c.badge.Show()
			c.copyBtn.SetText("Copied!")
			c.copyBtn.SetIcon(theme.ConfirmIcon())
		} else {
			c.badge.Hide()
			c.copyBtn.SetText("Copy code")
			c.copyBtn.SetIcon(theme.ContentCopyIcon())
		}
	}
}

// highlight emphasizes card i and optionally scrolls it into view.
func (v *adsView) highlight(i int, animate bool) {
	for j, c := range v.cards {
		if j == i && v.rotator.Running() {
			c.bg.FillColor = highlightTint
		} else {
			c.bg.FillColor = clearTint
		}
		c.bg.Refresh()
	}
	if !animate || i < 0 || i >= len(v.cards) {
		return
	}
	v.scrollTo(v.cards[i].root.Position().Y)
}

func (v *adsView) scrollTo(target float32) {
	maxY := v.list.MinSize().Height - v.scroll.Size().Height
	if maxY < 0 {
		maxY = 0
	}
	if target > maxY {
		target = maxY
	}
	from := v.scroll.Offset.Y
	if v.anim != nil {
		v.anim.Stop()
	}
	v.anim = fyne.NewAnimation(scrollAnimation, func(f float32) {
		v.scroll.Offset.Y = from + (target-from)*f
		v.scroll.Refresh()
	})
	v.anim.Curve = fyne.AnimationEaseInOut
	v.anim.Start()
}

func (v *adsView) close() {
	if v.anim != nil {
		v.anim.Stop()
	}
}
