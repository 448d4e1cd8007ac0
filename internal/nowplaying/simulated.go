package nowplaying

import (
	"context"
	"sync"
	"time"

	"github.com/edward-ap/radiostream/internal/config"
)

// SimulatedInterval is how long each simulated track "plays".
const SimulatedInterval = 15 * time.Second

// DefaultPlaylist is the demo rotation shown for stations without a feed.
var DefaultPlaylist = []Track{
	{Title: "Blinding Lights", Artist: "The Weeknd"},
	{Title: "As It Was", Artist: "Harry Styles"},
	{Title: "Flowers", Artist: "Miley Cyrus"},
	{Title: "Stay", Artist: "The Kid LAROI & Justin Bieber"},
}

// tickFunc returns a tick channel and its stop function.
type tickFunc func(d time.Duration) (<-chan time.Time, func())

func realTicker(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(d)
	return t.C, t.Stop
}

// Simulated cycles through a fixed playlist. The position survives between
// Watch calls, so pausing and resuming continues where the rotation stopped.
type Simulated struct {
	playlist []Track
	interval time.Duration
	tick     tickFunc

	mu    sync.Mutex
	index int
}

// NewSimulated returns a simulated source over playlist (DefaultPlaylist when
// empty) advancing every interval (SimulatedInterval when zero).
func NewSimulated(playlist []Track, interval time.Duration) *Simulated {
	if len(playlist) == 0 {
		playlist = DefaultPlaylist
	}
	if interval <= 0 {
		interval = SimulatedInterval
	}
	pl := make([]Track, len(playlist))
	copy(pl, playlist)
	return &Simulated{playlist: pl, interval: interval, tick: realTicker}
}

// Index returns the current playlist position.
func (s *Simulated) Index() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index
}

// Watch emits the current entry immediately and the next one every interval,
// wrapping at the end of the playlist.
func (s *Simulated) Watch(ctx context.Context, _ config.Stream, onTrack func(Track)) error {
	if onTrack == nil {
		return nil
	}
	s.mu.Lock()
	cur := s.playlist[s.index]
	s.mu.Unlock()
	onTrack(cur)

	c, stop := s.tick(s.interval)
	defer stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c:
			s.mu.Lock()
			s.index = (s.index + 1) % len(s.playlist)
			next := s.playlist[s.index]
			s.mu.Unlock()
			onTrack(next)
		}
	}
}
