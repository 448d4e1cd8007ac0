package player

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/edward-ap/radiostream/internal/config"
	"github.com/edward-ap/radiostream/internal/nowplaying"
)

// Banner texts surfaced to the listener.
const (
	MsgStartFailed = "Playback could not start for this stream."
	MsgMediaError  = "Audio failed to load. Check your connection."
)

var (
	// ErrStartFailed wraps every failed play attempt.
	ErrStartFailed = errors.New("playback could not start")
	// ErrSuperseded is returned by Play when a newer transport action made
	// the attempt's result irrelevant.
	ErrSuperseded = errors.New("play attempt superseded")
	// ErrClosed is returned once the controller has been closed.
	ErrClosed = errors.New("player controller closed")
)

// State is a snapshot of the playback state shown by the player view.
type State struct {
	Stream     config.Stream
	IsPlaying  bool
	IsLoading  bool
	IsMuted    bool
	Volume     float64
	Error      string
	NowPlaying nowplaying.Track
}

// EffectiveVolume is the level actually sent to the engine.
func (s State) EffectiveVolume() float64 {
	if s.IsMuted {
		return 0
	}
	return s.Volume
}

// Silent reports whether the volume icon should show the silent state.
func (s State) Silent() bool { return s.EffectiveVolume() <= 0 }

// Options tune a Controller.
type Options struct {
	// Volume is the initial level in [0,1].
	Volume float64
	// StartTimeout bounds a single play attempt; zero means 10 seconds.
	StartTimeout time.Duration
	// Logger defaults to the global zerolog logger.
	Logger *zerolog.Logger
}

// Controller owns the playback state for one audio engine. All methods are
// safe to call from any goroutine. Every transport action bumps a generation
// counter; a play attempt whose generation is no longer current when the
// engine answers is discarded.
type Controller struct {
	engine  Engine
	source  nowplaying.Source
	timeout time.Duration
	log     zerolog.Logger

	mu        sync.Mutex
	state     State
	gen       uint64
	npCancel  context.CancelFunc
	closed    bool
	listeners []func(State)

	// startCancel aborts the engine start of the current generation.
	startCancel context.CancelFunc

	// notifyMu serializes deliveries so the last one always carries the
	// latest state. Listeners must not call back into the Controller
	// synchronously.
	notifyMu sync.Mutex
}

// NewController binds engine to the initial stream. source may be nil, in
// which case the now playing text stays on the placeholder.
func NewController(engine Engine, source nowplaying.Source, initial config.Stream, opts Options) *Controller {
	lg := log.Logger
	if opts.Logger != nil {
		lg = *opts.Logger
	}
	timeout := opts.StartTimeout
	if timeout <= 0 {
		timeout = time.Duration(config.DefaultStartTimeoutSec) * time.Second
	}
	c := &Controller{
		engine:  engine,
		source:  source,
		timeout: timeout,
		log:     lg.With().Str("component", "player").Logger(),
		state: State{
			Stream:     initial,
			Volume:     clamp01(opts.Volume),
			NowPlaying: nowplaying.Placeholder,
		},
	}
	engine.SetEventHandler(c.handleEvent)
	if err := engine.Load(initial.URL); err != nil {
		c.log.Warn().Err(err).Str("url", initial.URL).Msg("initial stream load failed")
	}
	_ = engine.SetVolume(c.state.EffectiveVolume())
	return c
}

// OnChange registers a listener that receives every state change.
func (c *Controller) OnChange(fn func(State)) {
	if fn == nil {
		return
	}
	c.mu.Lock()
	c.listeners = append(c.listeners, fn)
	c.mu.Unlock()
}

// State returns the current snapshot.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SelectStream switches to stream. Selecting the active stream (same ID) is a
// no-op. Playback resumes on the new source only if it was playing before.
func (c *Controller) SelectStream(stream config.Stream) {
	c.mu.Lock()
	if c.closed || stream.ID == c.state.Stream.ID {
		c.mu.Unlock()
		return
	}
	wasPlaying := c.state.IsPlaying
	c.bumpLocked()
	c.state.Stream = stream
	c.state.IsPlaying = false
	c.state.IsLoading = false
	c.state.Error = ""
	c.stopNowPlayingLocked()
	c.mu.Unlock()

	if err := c.engine.Stop(); err != nil {
		c.log.Debug().Err(err).Msg("stop before switch")
	}
	if err := c.engine.Load(stream.URL); err != nil {
		c.log.Warn().Err(err).Str("url", stream.URL).Msg("stream load failed")
	}
	c.log.Info().Int("stream", stream.ID).Str("name", stream.Name).Bool("resume", wasPlaying).Msg("stream selected")
	c.notify()

	if wasPlaying {
		go func() { _ = c.Play(context.Background()) }()
	}
}

// TogglePlayback pauses when playing and starts an asynchronous play attempt
// when paused. It does nothing while a start is already loading.
func (c *Controller) TogglePlayback() {
	c.mu.Lock()
	playing, loading, closed := c.state.IsPlaying, c.state.IsLoading, c.closed
	c.mu.Unlock()
	switch {
	case closed, loading:
		return
	case playing:
		c.Pause()
	default:
		go func() { _ = c.Play(context.Background()) }()
	}
}

// Play runs one start attempt synchronously. On failure the state carries
// MsgStartFailed and the returned error wraps ErrStartFailed.
func (c *Controller) Play(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.bumpLocked()
	gen := c.gen
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	c.startCancel = cancel
	c.state.IsLoading = true
	c.state.Error = ""
	c.mu.Unlock()
	c.notify()

	sctx, stop := context.WithTimeout(ctx, c.timeout)
	defer stop()
	err := c.engine.Start(sctx)

	c.mu.Lock()
	if c.closed || gen != c.gen {
		c.mu.Unlock()
		c.log.Debug().Err(err).Msg("discarding superseded play result")
		return ErrSuperseded
	}
	c.state.IsLoading = false
	c.startCancel = nil
	if err != nil {
		c.state.IsPlaying = false
		c.state.Error = MsgStartFailed
		c.mu.Unlock()
		c.log.Warn().Err(err).Str("url", c.State().Stream.URL).Msg("playback start failed")
		c.notify()
		return fmt.Errorf("%w: %w", ErrStartFailed, err)
	}
	c.state.IsPlaying = true
	c.startNowPlayingLocked()
	c.mu.Unlock()
	c.notify()
	return nil
}

// Pause halts playback; it always succeeds from the listener's point of view.
func (c *Controller) Pause() {
	c.halt(c.engine.Pause, "pause")
}

// Stop pauses and rewinds, clearing playing and loading regardless of the
// prior state.
func (c *Controller) Stop() {
	c.halt(c.engine.Stop, "stop")
}

func (c *Controller) halt(op func() error, name string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.bumpLocked()
	c.state.IsPlaying = false
	c.state.IsLoading = false
	c.stopNowPlayingLocked()
	c.mu.Unlock()
	if err := op(); err != nil {
		c.log.Debug().Err(err).Msg(name)
	}
	c.notify()
}

// SetVolume stores v clamped to [0,1]. Raising the volume above zero while
// muted unmutes, so dragging the slider up always makes sound audible.
func (c *Controller) SetVolume(v float64) {
	c.mu.Lock()
	c.state.Volume = clamp01(v)
	if c.state.Volume > 0 && c.state.IsMuted {
		c.state.IsMuted = false
	}
	eff := c.state.EffectiveVolume()
	c.mu.Unlock()
	if err := c.engine.SetVolume(eff); err != nil {
		c.log.Debug().Err(err).Msg("set volume")
	}
	c.notify()
}

// ChangeVolume adjusts the stored volume by delta.
func (c *Controller) ChangeVolume(delta float64) {
	c.SetVolume(c.State().Volume + delta)
}

// ToggleMute flips the muted flag without altering the stored volume.
func (c *Controller) ToggleMute() {
	c.mu.Lock()
	c.state.IsMuted = !c.state.IsMuted
	eff := c.state.EffectiveVolume()
	c.mu.Unlock()
	if err := c.engine.SetVolume(eff); err != nil {
		c.log.Debug().Err(err).Msg("set volume")
	}
	c.notify()
}

// Close stops the now playing watcher and ignores every later call. The
// engine itself is released by its owner.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.bumpLocked()
	c.stopNowPlayingLocked()
	c.mu.Unlock()
}

// handleEvent applies asynchronous engine notifications.
func (c *Controller) handleEvent(ev Event) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	switch ev {
	case EventBuffering:
		if !c.state.IsPlaying || c.state.IsLoading {
			c.mu.Unlock()
			return
		}
		c.state.IsLoading = true
	case EventPlaying:
		if !c.state.IsPlaying || !c.state.IsLoading {
			c.mu.Unlock()
			return
		}
		c.state.IsLoading = false
	case EventError:
		c.bumpLocked()
		c.state.IsPlaying = false
		c.state.IsLoading = false
		c.state.Error = MsgMediaError
		c.stopNowPlayingLocked()
	default:
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()
	if ev == EventError {
		c.log.Warn().Msg("media error reported by engine")
	}
	c.notify()
}

// bumpLocked invalidates the in-flight play attempt, if any, and cancels
// its engine start so it cannot act on the player after being superseded.
func (c *Controller) bumpLocked() {
	c.gen++
	if c.startCancel != nil {
		c.startCancel()
		c.startCancel = nil
	}
}

func (c *Controller) startNowPlayingLocked() {
	c.stopNowPlayingLocked()
	if c.source == nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.npCancel = cancel
	c.state.NowPlaying = nowplaying.Connecting
	stream := c.state.Stream
	go func() {
		err := c.source.Watch(ctx, stream, func(t nowplaying.Track) {
			c.mu.Lock()
			if ctx.Err() != nil {
				c.mu.Unlock()
				return
			}
			c.state.NowPlaying = t
			c.mu.Unlock()
			c.notify()
		})
		if err != nil && ctx.Err() == nil {
			c.log.Warn().Err(err).Int("stream", stream.ID).Msg("now playing source stopped")
		}
	}()
}

func (c *Controller) stopNowPlayingLocked() {
	if c.npCancel != nil {
		c.npCancel()
		c.npCancel = nil
	}
	c.state.NowPlaying = nowplaying.Placeholder
}

func (c *Controller) notify() {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()
	c.mu.Lock()
	s := c.state
	ls := make([]func(State), len(c.listeners))
	copy(ls, c.listeners)
	c.mu.Unlock()
	for _, fn := range ls {
		fn(s)
	}
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
