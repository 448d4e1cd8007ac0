// Package nowplaying supplies the "currently playing" (title, artist) pair for
// a stream. Sources are interchangeable: a simulated playlist for stations
// without a metadata feed, inline ICY titles, or Icecast status-json polling.
package nowplaying

import (
	"context"
	"html"
	"strings"

	"github.com/edward-ap/radiostream/internal/config"
)

// Track is the reported (title, artist) pair.
type Track struct {
	Title  string
	Artist string
}

// IsZero reports whether the track carries no text at all.
func (t Track) IsZero() bool {
	return strings.TrimSpace(t.Title) == "" && strings.TrimSpace(t.Artist) == ""
}

// String renders the track as "Artist - Title", or whichever half exists.
func (t Track) String() string {
	a, ti := strings.TrimSpace(t.Artist), strings.TrimSpace(t.Title)
	switch {
	case a != "" && ti != "":
		return a + " - " + ti
	case ti != "":
		return ti
	default:
		return a
	}
}

// Placeholder is displayed while nothing is playing.
var Placeholder = Track{Title: "Online radio", Artist: "Press play to start"}

// Connecting is displayed between pressing play and the first track.
var Connecting = Track{Title: "Connecting…", Artist: "Please wait"}

// Source watches track information for a stream. Watch blocks, invoking
// onTrack for every update, until ctx is cancelled or the source fails.
type Source interface {
	Watch(ctx context.Context, stream config.Stream, onTrack func(Track)) error
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context, stream config.Stream, onTrack func(Track)) error

// Watch calls f.
func (f SourceFunc) Watch(ctx context.Context, stream config.Stream, onTrack func(Track)) error {
	return f(ctx, stream, onTrack)
}

// ParseTrack splits a combined "Artist - Title" string as most stations send
// it. Strings without a separator become the title.
func ParseTrack(raw string) Track {
	s := strings.TrimSpace(html.UnescapeString(raw))
	if s == "" {
		return Track{}
	}
	if i := strings.Index(s, " - "); i > 0 {
		artist := strings.TrimSpace(s[:i])
		title := strings.TrimSpace(s[i+3:])
		if title != "" {
			return Track{Title: title, Artist: artist}
		}
		return Track{Title: artist}
	}
	return Track{Title: s}
}
