// Package radioapp wires configuration, playback and the three panels into
// the RadioStream desktop window.
package radioapp

import (
	"fmt"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"

	"github.com/edward-ap/radiostream/internal/ads"
	"github.com/edward-ap/radiostream/internal/config"
	"github.com/edward-ap/radiostream/internal/nowplaying"
	"github.com/edward-ap/radiostream/internal/player"
	"github.com/edward-ap/radiostream/internal/ui"
)

// Tab identifies one of the sidebar panels.
type Tab int

const (
	// TabRequests shows the song request panel.
	TabRequests Tab = iota
	// TabAds shows the ad snippet panel.
	TabAds
)

func (t Tab) String() string {
	if t == TabAds {
		return "ads"
	}
	return "requests"
}

// UIState is the shell's own view state.
type UIState struct {
	ActiveStream int
	ActiveTab    Tab
}

// Options configure New. Zero values select production implementations.
type Options struct {
	Config *config.Config
	Logger zerolog.Logger
	// FyneApp defaults to app.NewWithID(config.AppID).
	FyneApp fyne.App
	// Engine defaults to a libVLC engine initialized in the background.
	Engine player.Engine
	// Source defaults to a Dispatcher honoring each stream's metadata hint.
	Source nowplaying.Source
	// Clipboard defaults to the window clipboard.
	Clipboard ads.Clipboard
}

// App owns the window and every long-lived component behind it.
type App struct {
	fa  fyne.App
	w   fyne.Window
	cfg *config.Config
	log zerolog.Logger

	engine  player.Engine
	ctrl    *player.Controller
	rotator *ads.Rotator
	copier  *ads.Copier

	mu      sync.Mutex
	uiState UIState

	playerView  *playerView
	requestView *requestView
	adsView     *adsView

	tabRequests *widget.Button
	tabAds      *widget.Button

	shortcutCatcher *shortcutCatcher
	closeOnce       sync.Once
}

// New builds the window. Nothing is shown until Run.
func New(opts Options) (*App, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	lg := opts.Logger

	fa := opts.FyneApp
	if fa == nil {
		fa = app.NewWithID(config.AppID)
	}
	ui.UseRadioTheme(fa)
	fa.SetIcon(AppIcon)

	w := fa.NewWindow(cfg.Brand.Name)
	w.SetMaster()
	w.SetIcon(AppIcon)
	w.Resize(fyne.NewSize(float32(cfg.Window.Width), float32(cfg.Window.Height)))

	a := &App{
		fa:      fa,
		w:       w,
		cfg:     cfg,
		log:     lg.With().Str("component", "app").Logger(),
		uiState: UIState{ActiveStream: cfg.Streams[0].ID, ActiveTab: TabRequests},
	}

	var vlcEngine *player.VLCEngine
	a.engine = opts.Engine
	if a.engine == nil {
		vlcEngine = player.NewVLCEngine(lg, cfg.Player.NetworkCachingMs)
		a.engine = vlcEngine
	}
	src := opts.Source
	if src == nil {
		src = nowplaying.NewDispatcher(nil, lg, nil)
	}
	a.ctrl = player.NewController(a.engine, src, cfg.Streams[0], player.Options{
		Volume:       cfg.Player.Volume,
		StartTimeout: time.Duration(cfg.Player.StartTimeoutSec) * time.Second,
		Logger:       &lg,
	})

	clip := opts.Clipboard
	if clip == nil {
		clip = ads.FyneClipboard{Clip: w.Clipboard()}
	}
	a.rotator = ads.NewRotator(len(cfg.Ads), ads.RotationInterval)
	a.copier = ads.NewCopier(clip, a.rotator)

	a.buildUI()

	if vlcEngine != nil {
		go func() {
			if err := vlcEngine.Init(); err != nil {
				a.log.Error().Err(err).Msg("libvlc unavailable")
				ui.CallOnMain(func() {
					dialog.ShowError(fmt.Errorf("cannot initialize VLC: %w\n\nInstall VLC or place libvlc and its plugins folder next to the executable. Playback stays unavailable until then.", err), w)
				})
			}
		}()
	}

	w.SetCloseIntercept(func() {
		a.Close()
		w.Close()
	})
	w.Canvas().SetOnTypedKey(a.handleKey)
	return a, nil
}

// Run shows the window and enters the fyne event loop.
func (a *App) Run() {
	a.w.ShowAndRun()
}

// Window returns the main window.
func (a *App) Window() fyne.Window { return a.w }

// Controller returns the playback controller.
func (a *App) Controller() *player.Controller { return a.ctrl }

// UIState returns the current shell state.
func (a *App) UIState() UIState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.uiState
}

// Close releases every resource exactly once: timers, watchers, the engine.
func (a *App) Close() {
	a.closeOnce.Do(func() {
		a.log.Info().Msg("shutting down")
		a.ctrl.Stop()
		a.ctrl.Close()
		a.rotator.Close()
		a.copier.Close()
		a.playerView.close()
		a.adsView.close()
		a.engine.Release()
	})
}

func (a *App) buildUI() {
	header := a.buildHeader()

	a.playerView = newPlayerView(a.ctrl, a.cfg.Streams, a.selectStream)
	about := a.buildAbout()

	a.requestView = newRequestView(a.cfg.Contact, a.fa, a.w)
	a.adsView = newAdsView(a.cfg.Ads, a.rotator, a.copier, a.w)

	a.tabRequests = widget.NewButtonWithIcon("Request a song", theme.MailComposeIcon(), func() { a.SelectTab(TabRequests) })
	a.tabAds = widget.NewButtonWithIcon("Ad codes", theme.DocumentIcon(), func() { a.SelectTab(TabAds) })
	tabs := container.NewGridWithColumns(2, a.tabRequests, a.tabAds)

	// both panels stay mounted so their state survives tab switches
	panels := container.NewStack(a.requestView.object(), a.adsView.object())
	sidebar := container.NewBorder(tabs, placeholderSlot("Advertising space (sidebar)"), nil, nil, panels)

	main := container.NewVBox(a.playerView.object(), about)
	body := container.NewHSplit(container.NewVScroll(main), sidebar)
	body.Offset = 0.6

	adSlot := placeholderSlot("Advertising space (top)")
	footer := a.buildFooter()

	a.shortcutCatcher = newShortcutCatcher(a.handleKey)
	top := container.NewVBox(header, adSlot)
	root := container.NewBorder(top, container.NewHBox(footer, layout.NewSpacer(), a.shortcutCatcher), nil, nil, body)
	a.w.SetContent(root)
	a.SelectTab(TabRequests)
	a.w.Canvas().Focus(a.shortcutCatcher)
}

func (a *App) buildHeader() fyne.CanvasObject {
	logo := canvas.NewImageFromResource(AppIcon)
	logo.FillMode = canvas.ImageFillContain
	logo.SetMinSize(fyne.NewSize(48, 48))
	title := canvas.NewText(a.cfg.Brand.Name, ui.Indigo)
	title.TextSize = theme.TextHeadingSize() * 1.4
	title.TextStyle = fyne.TextStyle{Bold: true}
	tagline := widget.NewLabel(a.cfg.Brand.Tagline)
	tagline.Importance = widget.LowImportance
	return container.NewPadded(container.NewHBox(logo, container.NewVBox(title, tagline)))
}

func (a *App) buildAbout() fyne.CanvasObject {
	body := widget.NewLabel(a.cfg.Brand.About)
	body.Wrapping = fyne.TextWrapWord
	return widget.NewCard("About the station", "", body)
}

func (a *App) buildFooter() fyne.CanvasObject {
	made := widget.NewLabel("Made with ♥ for passionate listeners.")
	year := time.Now().Year()
	lbl := widget.NewLabel(fmt.Sprintf("© %d %s. All rights reserved.", year, a.cfg.Brand.Name))
	lbl.Importance = widget.LowImportance
	return container.NewVBox(made, lbl)
}

// placeholderSlot is the dashed banner marking where a site would place an ad.
func placeholderSlot(text string) fyne.CanvasObject {
	bg := canvas.NewRectangle(theme.InputBackgroundColor())
	bg.StrokeColor = theme.DisabledColor()
	bg.StrokeWidth = 1
	bg.CornerRadius = 8
	bg.SetMinSize(fyne.NewSize(0, 56))
	lbl := widget.NewLabelWithStyle(text, fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	lbl.Importance = widget.LowImportance
	return container.NewPadded(container.NewStack(bg, container.NewCenter(lbl)))
}

// SelectTab shows the chosen panel and hides the other one.
func (a *App) SelectTab(t Tab) {
	a.mu.Lock()
	a.uiState.ActiveTab = t
	a.mu.Unlock()

	req, ad := a.requestView.object(), a.adsView.object()
	if t == TabAds {
		req.Hide()
		ad.Show()
		a.tabRequests.Importance = widget.MediumImportance
		a.tabAds.Importance = widget.WarningImportance
	} else {
		ad.Hide()
		req.Show()
		a.tabRequests.Importance = widget.HighImportance
		a.tabAds.Importance = widget.MediumImportance
	}
	a.tabRequests.Refresh()
	a.tabAds.Refresh()
}

func (a *App) selectStream(s config.Stream) {
	a.mu.Lock()
	a.uiState.ActiveStream = s.ID
	a.mu.Unlock()
	a.ctrl.SelectStream(s)
}

// handleKey implements the global shortcuts.
func (a *App) handleKey(ke *fyne.KeyEvent) {
	if ke == nil {
		return
	}
	switch ke.Name {
	case fyne.KeySpace:
		a.ctrl.TogglePlayback()
	case fyne.KeyS:
		a.ctrl.Stop()
	case fyne.KeyM:
		a.ctrl.ToggleMute()
	case fyne.KeyUp:
		a.ctrl.ChangeVolume(0.1)
	case fyne.KeyDown:
		a.ctrl.ChangeVolume(-0.1)
	default:
		if idx := keyToStreamIndex(ke.Name); idx >= 0 && idx < len(a.cfg.Streams) {
			a.selectStream(a.cfg.Streams[idx])
		}
	}
}

func keyToStreamIndex(key fyne.KeyName) int {
	switch key {
	case fyne.Key1:
		return 0
	case fyne.Key2:
		return 1
	case fyne.Key3:
		return 2
	case fyne.Key4:
		return 3
	case fyne.Key5:
		return 4
	case fyne.Key6:
		return 5
	case fyne.Key7:
		return 6
	case fyne.Key8:
		return 7
	case fyne.Key9:
		return 8
	}
	return -1
}

// shortcutCatcher is an invisible focusable widget that keeps key events
// flowing to handleKey while no other widget holds focus.
type shortcutCatcher struct {
	widget.BaseWidget
	onKey func(*fyne.KeyEvent)
}

func newShortcutCatcher(handler func(*fyne.KeyEvent)) *shortcutCatcher {
	c := &shortcutCatcher{onKey: handler}
	c.ExtendBaseWidget(c)
	return c
}

func (s *shortcutCatcher) CreateRenderer() fyne.WidgetRenderer {
	rect := canvas.NewRectangle(theme.BackgroundColor())
	rect.SetMinSize(fyne.NewSize(1, 1))
	return widget.NewSimpleRenderer(rect)
}

func (s *shortcutCatcher) MinSize() fyne.Size { return fyne.NewSize(1, 1) }

func (s *shortcutCatcher) FocusGained() {}

func (s *shortcutCatcher) FocusLost() {}

func (s *shortcutCatcher) TypedKey(ev *fyne.KeyEvent) {
	if s.onKey != nil {
		s.onKey(ev)
	}
}

func (s *shortcutCatcher) TypedRune(rune) {}
