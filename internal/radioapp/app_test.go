package radioapp

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"sync"
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"

	"github.com/edward-ap/radiostream/internal/config"
	"github.com/edward-ap/radiostream/internal/nowplaying"
	"github.com/edward-ap/radiostream/internal/player"
)

type stubEngine struct {
	mu       sync.Mutex
	startErr error
	releases int
	url      string
}

func (e *stubEngine) Load(url string) error {
	e.mu.Lock()
	e.url = url
	e.mu.Unlock()
	return nil
}

func (e *stubEngine) Start(context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.startErr
}

func (e *stubEngine) Pause() error { return nil }
func (e *stubEngine) Stop() error { return nil }
func (e *stubEngine) SetVolume(float64) error { return nil }
func (e *stubEngine) SetEventHandler(func(player.Event)) {}

func (e *stubEngine) Release() {
	e.mu.Lock()
	e.releases++
	e.mu.Unlock()
}

type failingClipboard struct{}

func (failingClipboard) Copy(string) error { return errors.New("denied") }

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Streams = append(cfg.Streams, config.Stream{ID: 2, Name: "Rock", URL: "http://radio.example/rock"})
	return cfg
}

func newTestApp(t *testing.T, eng *stubEngine, opts Options) *App {
	t.Helper()
	fa := test.NewApp()
	t.Cleanup(fa.Quit)
	opts.FyneApp = fa
	opts.Engine = eng
	opts.Logger = zerolog.Nop()
	if opts.Config == nil {
		opts.Config = testConfig()
	}
	if opts.Source == nil {
		opts.Source = nowplaying.SourceFunc(func(ctx context.Context, _ config.Stream, _ func(nowplaying.Track)) error {
			<-ctx.Done()
			return ctx.Err()
		})
	}
	a, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(a.Close)
	return a
}

func eventually(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Streams = nil
	fa := test.NewApp()
	defer fa.Quit()
	_, err := New(Options{Config: cfg, FyneApp: fa, Engine: &stubEngine{}})
	if !errors.Is(err, config.ErrNoStreams) {
		t.Fatalf("New error = %v, want ErrNoStreams", err)
	}
}

func TestTabsStayMounted(t *testing.T) {
	a := newTestApp(t, &stubEngine{}, Options{})

	if a.UIState().ActiveTab != TabRequests {
		t.Fatalf("initial tab = %v", a.UIState().ActiveTab)
	}
	if !a.requestView.object().Visible() || a.adsView.object().Visible() {
		t.Fatal("requests panel should be the visible one")
	}

	a.SelectTab(TabAds)
	if a.UIState().ActiveTab != TabAds {
		t.Fatalf("tab = %v", a.UIState().ActiveTab)
	}
	if a.requestView.object().Visible() || !a.adsView.object().Visible() {
		t.Fatal("ads panel should be the visible one")
	}

	// the hidden panel keeps its rotation state
	a.adsView.toggleRotation()
	a.SelectTab(TabRequests)
	if !a.rotator.Running() {
		t.Fatal("switching tabs must not reset the ads panel")
	}
}

func TestShortcuts(t *testing.T) {
	eng := &stubEngine{}
	a := newTestApp(t, eng, Options{})
	ctrl := a.Controller()

	a.handleKey(&fyne.KeyEvent{Name: fyne.Key2})
	if got := ctrl.State().Stream.ID; got != 2 {
		t.Fatalf("stream after key 2 = %d", got)
	}
	if a.UIState().ActiveStream != 2 {
		t.Fatalf("ui state stream = %d", a.UIState().ActiveStream)
	}
	a.handleKey(&fyne.KeyEvent{Name: fyne.Key9})
	if got := ctrl.State().Stream.ID; got != 2 {
		t.Fatalf("out of range key changed stream to %d", got)
	}

	a.handleKey(&fyne.KeyEvent{Name: fyne.KeyM})
	if !ctrl.State().IsMuted {
		t.Fatal("M should mute")
	}
	a.handleKey(&fyne.KeyEvent{Name: fyne.KeyDown})
	if v := ctrl.State().Volume; v < 0.69 || v > 0.71 {
		t.Fatalf("volume after Down = %v", v)
	}

	a.handleKey(&fyne.KeyEvent{Name: fyne.KeySpace})
	eventually(t, func() bool { return ctrl.State().IsPlaying })
	a.handleKey(&fyne.KeyEvent{Name: fyne.KeyS})
	if s := ctrl.State(); s.IsPlaying || s.IsLoading {
		t.Fatalf("S should stop: %+v", s)
	}
}

func TestPlayerViewShowsStartFailure(t *testing.T) {
	eng := &stubEngine{startErr: errors.New("blocked")}
	a := newTestApp(t, eng, Options{})

	if a.playerView.errorBox.Visible() {
		t.Fatal("error banner visible before any failure")
	}
	if err := a.Controller().Play(context.Background()); !errors.Is(err, player.ErrStartFailed) {
		t.Fatalf("Play = %v", err)
	}
	if !a.playerView.errorBox.Visible() {
		t.Fatal("error banner hidden after failure")
	}
	if got := a.playerView.errorLabel.Text; got != player.MsgStartFailed {
		t.Fatalf("banner text = %q", got)
	}
	if a.playerView.volLabel.Text != "80%" {
		t.Fatalf("volume label = %q", a.playerView.volLabel.Text)
	}
}

func TestCopyFailureLeavesNothingFlagged(t *testing.T) {
	a := newTestApp(t, &stubEngine{}, Options{Clipboard: failingClipboard{}})
	a.adsView.copy(a.adsView.cards[0])
	if a.copier.Copied() != "" {
		t.Fatalf("copied = %q after failure", a.copier.Copied())
	}
	if a.adsView.cards[0].badge.Visible() {
		t.Fatal("copied badge shown after failure")
	}
}

func TestCloseReleasesOnce(t *testing.T) {
	eng := &stubEngine{}
	a := newTestApp(t, eng, Options{})
	a.Close()
	a.Close()
	if eng.releases != 1 {
		t.Fatalf("engine released %d times", eng.releases)
	}
}

func TestRotationAllowedWithSingleSnippet(t *testing.T) {
	cfg := testConfig()
	cfg.Ads = cfg.Ads[:1]
	a := newTestApp(t, &stubEngine{}, Options{Config: cfg})

	if a.adsView.toggleBtn.Disabled() {
		t.Fatal("rotation toggle disabled with one snippet")
	}
	a.adsView.toggleRotation()
	if !a.rotator.Running() {
		t.Fatal("rotation did not start with one snippet")
	}
}

func TestLayoutShowsSidebarSlotAndFooter(t *testing.T) {
	a := newTestApp(t, &stubEngine{}, Options{})
	texts := map[string]bool{}
	collectLabels(a.Window().Content(), texts)
	for _, want := range []string{
		"Advertising space (top)",
		"Advertising space (sidebar)",
		"Made with ♥ for passionate listeners.",
	} {
		if !texts[want] {
			t.Errorf("label %q not found in window", want)
		}
	}
}

func collectLabels(o fyne.CanvasObject, out map[string]bool) {
	switch v := o.(type) {
	case *widget.Label:
		out[v.Text] = true
	case *fyne.Container:
		for _, c := range v.Objects {
			collectLabels(c, out)
		}
	case *container.Split:
		collectLabels(v.Leading, out)
		collectLabels(v.Trailing, out)
	case *container.Scroll:
		collectLabels(v.Content, out)
	}
}

func TestRenderIcon(t *testing.T) {
	img, err := png.Decode(bytes.NewReader(renderIcon(iconSize)))
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != iconSize || b.Dy() != iconSize {
		t.Fatalf("icon bounds %v", b)
	}
	if _, _, _, a := img.At(0, 0).RGBA(); a != 0 {
		t.Fatal("rounded corner should be transparent")
	}
	if _, _, _, a := img.At(iconSize/2, 2).RGBA(); a == 0 {
		t.Fatal("tile body should be opaque")
	}
}
