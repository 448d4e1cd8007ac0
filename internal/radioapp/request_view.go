package radioapp

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/edward-ap/radiostream/internal/config"
	"github.com/edward-ap/radiostream/internal/request"
)

// requestView lists the song request deep links. It holds no state of its
// own; every button opens a precomputed link.
type requestView struct {
	root    fyne.CanvasObject
	links   []request.Link
	buttons []*widget.Button
}

func newRequestView(contact config.Contact, opener request.Opener, parent fyne.Window) *requestView {
	v := &requestView{links: request.Links(contact)}

	intro := widget.NewLabel("Want to hear your favorite song? Send your request straight to our studio on WhatsApp.")
	intro.Wrapping = fyne.TextWrapWord

	open := func(l request.Link) {
		if err := request.Open(opener, l.URL); err != nil {
			dialog.ShowError(fmt.Errorf("could not open the messaging app: %w", err), parent)
		}
	}

	items := []fyne.CanvasObject{intro}
	for i, l := range v.links {
		l := l
		var b *widget.Button
		if i == 0 {
			b = widget.NewButtonWithIcon(l.Label, theme.MailSendIcon(), func() { open(l) })
			b.Importance = widget.SuccessImportance
			items = append(items, b, widget.NewSeparator(),
				widget.NewLabelWithStyle("Quick requests", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}))
		} else {
			b = widget.NewButtonWithIcon(l.Label, theme.MediaMusicIcon(), func() { open(l) })
			b.Alignment = widget.ButtonAlignLeading
			items = append(items, b)
		}
		v.buttons = append(v.buttons, b)
	}

	v.root = widget.NewCard("Request a song", "We play what you want to hear", container.NewVBox(items...))
	return v
}

func (v *requestView) object() fyne.CanvasObject { return v.root }
