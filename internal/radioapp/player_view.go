package radioapp

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/edward-ap/radiostream/internal/config"
	"github.com/edward-ap/radiostream/internal/player"
	"github.com/edward-ap/radiostream/internal/ui"
)

var errorTint = color.NRGBA{R: 0xEF, G: 0x44, B: 0x44, A: 0x30}

// playerView renders a player.State and forwards user input to the
// controller. render must run on the UI thread.
type playerView struct {
	ctrl    *player.Controller
	streams []config.Stream

	root fyne.CanvasObject

	onAir       *ui.OnAirIndicator
	streamName  *canvas.Text
	streamDesc  *widget.Label
	trackTitle  *widget.Label
	trackArtist *widget.Label
	marquee     *ui.Marquee

	errorBox   *fyne.Container
	errorLabel *widget.Label

	playBtn  *widget.Button
	stopBtn  *widget.Button
	muteBtn  *widget.Button
	spinner  *widget.Activity
	volIcon  *widget.Icon
	volume   *ui.VolumeSlider
	volLabel *widget.Label

	stationBtns map[int]*widget.Button
}

func newPlayerView(ctrl *player.Controller, streams []config.Stream, onSelect func(config.Stream)) *playerView {
	v := &playerView{ctrl: ctrl, streams: streams, stationBtns: map[int]*widget.Button{}}

	v.onAir = ui.NewOnAirIndicator(10)
	v.streamName = canvas.NewText("", ui.White)
	v.streamName.TextSize = theme.TextHeadingSize() * 1.2
	v.streamName.TextStyle = fyne.TextStyle{Bold: true}
	v.streamDesc = widget.NewLabel("")
	v.streamDesc.Truncation = fyne.TextTruncateEllipsis

	caption := widget.NewLabelWithStyle("NOW PLAYING", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	caption.Importance = widget.LowImportance
	v.trackTitle = widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	v.trackArtist = widget.NewLabel("")
	v.trackArtist.Truncation = fyne.TextTruncateEllipsis
	titleHolder := container.NewHScroll(v.trackTitle)
	v.marquee = ui.NewMarquee(v.trackTitle, titleHolder)
	nowCard := widget.NewCard("", "", container.NewBorder(nil, nil,
		widget.NewIcon(theme.MediaMusicIcon()), nil,
		container.NewVBox(caption, titleHolder, v.trackArtist)))

	heroBg := canvas.NewLinearGradient(ui.Indigo, color.NRGBA{R: 0x7C, G: 0x3A, B: 0xED, A: 0xFF}, 90)
	hero := container.NewStack(heroBg, container.NewPadded(container.NewVBox(
		v.onAir.CanvasObject(), v.streamName, v.streamDesc, nowCard,
	)))

	v.errorLabel = widget.NewLabel("")
	v.errorLabel.Wrapping = fyne.TextWrapWord
	v.errorLabel.Importance = widget.DangerImportance
	errBg := canvas.NewRectangle(errorTint)
	errBg.CornerRadius = 8
	v.errorBox = container.NewStack(errBg, container.NewBorder(nil, nil,
		widget.NewIcon(theme.WarningIcon()), nil, v.errorLabel))
	v.errorBox.Hide()

	v.stopBtn = widget.NewButtonWithIcon("", theme.MediaStopIcon(), ctrl.Stop)
	v.playBtn = widget.NewButtonWithIcon("", theme.MediaPlayIcon(), ctrl.TogglePlayback)
	v.playBtn.Importance = widget.HighImportance
	v.spinner = widget.NewActivity()
	v.spinner.Hide()
	v.muteBtn = widget.NewButtonWithIcon("", theme.VolumeUpIcon(), ctrl.ToggleMute)
	transport := container.NewHBox(layout.NewSpacer(), v.stopBtn,
		container.NewStack(v.playBtn, container.NewCenter(v.spinner)), v.muteBtn, layout.NewSpacer())

	st := ctrl.State()
	v.volIcon = widget.NewIcon(theme.VolumeUpIcon())
	v.volume = ui.NewVolumeSlider(st.Volume)
	v.volume.OnChanged = ctrl.SetVolume
	v.volLabel = widget.NewLabel("")
	volRow := container.NewBorder(nil, nil, v.volIcon, v.volLabel, v.volume)

	controls := container.NewVBox(v.errorBox, transport, volRow)
	parts := []fyne.CanvasObject{hero, container.NewPadded(controls)}

	if len(streams) > 1 {
		list := container.NewVBox(widget.NewLabelWithStyle("OTHER STATIONS", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}))
		for _, s := range streams {
			s := s
			label := s.Name
			if s.Description != "" {
				label += "\n" + s.Description
			}
			b := widget.NewButtonWithIcon(label, theme.MediaMusicIcon(), func() { onSelect(s) })
			b.Alignment = widget.ButtonAlignLeading
			v.stationBtns[s.ID] = b
			list.Add(b)
		}
		parts = append(parts, container.NewPadded(list))
	}

	v.root = container.NewVBox(parts...)
	v.render(st)
	ctrl.OnChange(func(s player.State) {
		ui.CallOnMain(func() { v.render(s) })
	})
	return v
}

func (v *playerView) object() fyne.CanvasObject { return v.root }

func (v *playerView) render(s player.State) {
	v.onAir.SetLive(s.IsPlaying)

	v.streamName.Text = s.Stream.Name
	v.streamName.Refresh()
	desc := s.Stream.Description
	if desc == "" {
		desc = "Live web radio"
	}
	v.streamDesc.SetText(desc)

	v.marquee.SetText(s.NowPlaying.Title)
	v.trackArtist.SetText(s.NowPlaying.Artist)

	if s.Error != "" {
		v.errorLabel.SetText(s.Error)
		v.errorBox.Show()
	} else {
		v.errorBox.Hide()
	}

	switch {
	case s.IsLoading:
		v.playBtn.Disable()
		v.playBtn.SetIcon(nil)
		v.spinner.Show()
		v.spinner.Start()
	case s.IsPlaying:
		v.playBtn.Enable()
		v.playBtn.SetIcon(theme.MediaPauseIcon())
		v.spinner.Stop()
		v.spinner.Hide()
	default:
		v.playBtn.Enable()
		v.playBtn.SetIcon(theme.MediaPlayIcon())
		v.spinner.Stop()
		v.spinner.Hide()
	}

	if s.IsMuted {
		v.muteBtn.SetIcon(theme.VolumeMuteIcon())
		v.muteBtn.Importance = widget.DangerImportance
	} else {
		v.muteBtn.SetIcon(theme.VolumeUpIcon())
		v.muteBtn.Importance = widget.MediumImportance
	}
	v.muteBtn.Refresh()

	if s.Silent() {
		v.volIcon.SetResource(theme.VolumeMuteIcon())
	} else {
		v.volIcon.SetResource(theme.VolumeUpIcon())
	}
	v.volume.SetLevel(s.Volume, s.IsMuted)
	v.volLabel.SetText(fmt.Sprintf("%d%%", ui.Percent(s.EffectiveVolume())))

	for id, b := range v.stationBtns {
		if id == s.Stream.ID {
			b.Importance = widget.HighImportance
		} else {
			b.Importance = widget.MediumImportance
		}
		b.Refresh()
	}
}

func (v *playerView) close() {
	v.marquee.Close()
	v.onAir.Close()
}
