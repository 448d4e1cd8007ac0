// Package player drives audio playback for a single live stream. The
// Controller holds the listener-visible state; the Engine interface hides the
// libVLC backend so the state machine can be exercised without native code.
package player

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	vlc "github.com/adrg/libvlc-go/v3"
	"github.com/rs/zerolog"
)

const startPollInterval = 100 * time.Millisecond

// VLCEngine is the libVLC-backed Engine. A single lock serializes every C call.
type VLCEngine struct {
	log       zerolog.Logger
	cachingMs int

	vlcMu   sync.Mutex
	p       *vlc.Player
	media   *vlc.Media
	events  []vlc.EventID
	pending string
	volume  int

	mu      sync.Mutex
	handler func(Event)

	vlcMajor int
}

// NewVLCEngine constructs an engine but does not initialize libVLC. Call Init
// before Start; Load and SetVolume calls made earlier are applied by Init.
func NewVLCEngine(log zerolog.Logger, networkCachingMs int) *VLCEngine {
	if networkCachingMs <= 0 {
		networkCachingMs = 1500
	}
	return &VLCEngine{
		log:       log.With().Str("component", "vlc").Logger(),
		cachingMs: networkCachingMs,
		volume:    80,
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func parseVlcMajor(ver string) int {
	ver = strings.TrimSpace(ver)
	if ver == "" {
		return 0
	}
	cut := ver
	if i := strings.IndexAny(ver, ". "); i >= 0 {
		cut = ver[:i]
	}
	m, _ := strconv.Atoi(cut)
	return m
}

// Init loads libVLC, creates the media player and subscribes to its events.
func (e *VLCEngine) Init() error {
	// bundled plugins next to the executable take precedence
	if exe, err := os.Executable(); err == nil {
		plugins := filepath.Join(filepath.Dir(exe), "plugins")
		if st, err := os.Stat(plugins); err == nil && st.IsDir() {
			_ = os.Setenv("VLC_PLUGIN_PATH", plugins)
		}
	}

	caching := strconv.Itoa(e.cachingMs)
	args := []string{
		"--no-video",
		"--no-color",
		"--network-caching=" + caching,
		"--live-caching=" + caching,
		"--http-reconnect",
	}
	if traceLogEnabled.Load() {
		args = append(args,
			"--verbose=2",
			"--file-logging",
			"--log-verbose=2",
			"--logfile=vlc.log",
		)
	}

	e.vlcMu.Lock()
	defer e.vlcMu.Unlock()
	if err := vlc.Init(args...); err != nil {
		return fmt.Errorf("libvlc init failed: %w", err)
	}
	ver := vlc.Version().String()
	e.vlcMajor = parseVlcMajor(ver)
	e.log.Info().Str("version", ver).Int("major", e.vlcMajor).Msg("libvlc initialized")

	p, err := vlc.NewPlayer()
	if err != nil {
		_ = vlc.Release()
		return fmt.Errorf("new vlc player failed: %w", err)
	}
	e.p = p

	if em, err := p.EventManager(); err == nil {
		for _, ev := range []vlc.Event{vlc.MediaPlayerBuffering, vlc.MediaPlayerPlaying, vlc.MediaPlayerEncounteredError} {
			id, err := em.Attach(ev, e.onVLCEvent, nil)
			if err != nil {
				e.log.Warn().Err(err).Msg("attach vlc event")
				continue
			}
			e.events = append(e.events, id)
		}
	} else {
		e.log.Warn().Err(err).Msg("vlc event manager unavailable")
	}

	_ = e.p.SetVolume(e.volume)
	if e.pending != "" {
		if err := e.setMediaLocked(e.pending); err != nil {
			return err
		}
	}
	return nil
}

// onVLCEvent runs on a libVLC thread; calling back into libVLC from here
// deadlocks, so the handler is dispatched on its own goroutine.
func (e *VLCEngine) onVLCEvent(ev vlc.Event, _ interface{}) {
	var out Event
	switch ev {
	case vlc.MediaPlayerBuffering:
		out = EventBuffering
	case vlc.MediaPlayerPlaying:
		out = EventPlaying
	case vlc.MediaPlayerEncounteredError:
		out = EventError
	default:
		return
	}
	e.mu.Lock()
	fn := e.handler
	e.mu.Unlock()
	if fn == nil {
		return
	}
	if isTraceLoggingEnabled() {
		e.log.Trace().Stringer("event", out).Msg("vlc event")
	}
	go fn(out)
}

// SetEventHandler implements Engine.
func (e *VLCEngine) SetEventHandler(fn func(Event)) {
	e.mu.Lock()
	e.handler = fn
	e.mu.Unlock()
}

// Load implements Engine. Before Init the URL is kept and applied later.
func (e *VLCEngine) Load(url string) error {
	u := strings.Trim(url, "\r\n\t ")
	e.vlcMu.Lock()
	defer e.vlcMu.Unlock()
	e.pending = u
	if e.p == nil {
		return nil
	}
	return e.setMediaLocked(u)
}

func (e *VLCEngine) setMediaLocked(u string) error {
	if e.media != nil {
		_ = e.media.Release()
		e.media = nil
	}
	m, err := vlc.NewMediaFromURL(u)
	if err != nil {
		return fmt.Errorf("new media from url failed: %w", err)
	}
	caching := strconv.Itoa(e.cachingMs)
	_ = m.AddOptions(
		":metadata-network-access=1",
		":icy-metadata=1",
		":demux=any",
		":network-caching="+caching,
		":live-caching="+caching,
		":http-reconnect",
	)
	if err := e.p.SetMedia(m); err != nil {
		_ = m.Release()
		return fmt.Errorf("set media failed: %w", err)
	}
	e.media = m
	return nil
}

// Start implements Engine. It issues Play and polls the media state until
// audio is flowing, the media fails, or ctx expires.
func (e *VLCEngine) Start(ctx context.Context) error {
	e.vlcMu.Lock()
	if e.p == nil {
		e.vlcMu.Unlock()
		return ErrNotInitialized
	}
	if e.media == nil {
		e.vlcMu.Unlock()
		return fmt.Errorf("no stream loaded")
	}
	err := e.p.Play()
	e.vlcMu.Unlock()
	if err != nil {
		return fmt.Errorf("play failed: %w", err)
	}

	t := time.NewTicker(startPollInterval)
	defer t.Stop()
	started := false
	for {
		select {
		case <-ctx.Done():
			// a cancelled attempt was superseded and the player now belongs
			// to whoever replaced it; only a timed out one is stopped here
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				e.vlcMu.Lock()
				if e.p != nil {
					_ = e.p.Stop()
				}
				e.vlcMu.Unlock()
			}
			return fmt.Errorf("stream did not start: %w", ctx.Err())
		case <-t.C:
		}
		e.vlcMu.Lock()
		if e.p == nil {
			e.vlcMu.Unlock()
			return ErrNotInitialized
		}
		st, err := e.p.MediaState()
		e.vlcMu.Unlock()
		if err != nil {
			return fmt.Errorf("media state: %w", err)
		}
		switch st {
		case vlc.MediaPlaying:
			return nil
		case vlc.MediaError:
			return fmt.Errorf("media error")
		case vlc.MediaEnded:
			return fmt.Errorf("stream ended before playback")
		case vlc.MediaPaused:
			return fmt.Errorf("paused before playback")
		case vlc.MediaStopped:
			if started {
				return fmt.Errorf("stream stopped before playback")
			}
		case vlc.MediaOpening, vlc.MediaBuffering:
			started = true
		}
	}
}

// Pause implements Engine.
func (e *VLCEngine) Pause() error {
	e.vlcMu.Lock()
	defer e.vlcMu.Unlock()
	if e.p == nil {
		return ErrNotInitialized
	}
	return e.p.SetPause(true)
}

// Stop implements Engine. Stopping a live stream drops its buffer, so the next
// Start reconnects from the live edge.
func (e *VLCEngine) Stop() error {
	e.vlcMu.Lock()
	defer e.vlcMu.Unlock()
	if e.p == nil {
		return ErrNotInitialized
	}
	return e.p.Stop()
}

// SetVolume implements Engine.
func (e *VLCEngine) SetVolume(v float64) error {
	level := clamp(int(v*100+0.5), 0, 100)
	e.vlcMu.Lock()
	defer e.vlcMu.Unlock()
	e.volume = level
	if e.p == nil {
		return nil
	}
	return e.p.SetVolume(level)
}

// Release frees every libVLC resource. The engine is unusable afterwards.
func (e *VLCEngine) Release() {
	e.SetEventHandler(nil)
	e.vlcMu.Lock()
	defer e.vlcMu.Unlock()
	if e.p != nil {
		if em, err := e.p.EventManager(); err == nil && len(e.events) > 0 {
			em.Detach(e.events...)
		}
		e.events = nil
		_ = e.p.Stop()
		_ = e.p.Release()
		e.p = nil
	}
	if e.media != nil {
		_ = e.media.Release()
		e.media = nil
	}
	_ = vlc.Release()
}
