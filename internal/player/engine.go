package player

import (
	"context"
	"errors"
)

// Event is an asynchronous notification from the audio engine.
type Event int

const (
	// EventBuffering reports that the media is waiting for data.
	EventBuffering Event = iota + 1
	// EventPlaying reports that audio is flowing again.
	EventPlaying
	// EventError reports a decode or network failure mid-stream.
	EventError
)

func (e Event) String() string {
	switch e {
	case EventBuffering:
		return "buffering"
	case EventPlaying:
		return "playing"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}

// ErrNotInitialized is returned by engines used before Init succeeded.
var ErrNotInitialized = errors.New("audio engine not initialized")

// Engine is the audio backend the Controller drives. Implementations must be
// safe for concurrent use; the handler set with SetEventHandler may be
// invoked from any goroutine.
type Engine interface {
	// Load binds the engine to a new stream URL without starting it.
	Load(url string) error
	// Start begins playback and blocks until audio flows or the attempt fails.
	Start(ctx context.Context) error
	// Pause halts output, keeping the source bound.
	Pause() error
	// Stop halts output and rewinds the source to its start.
	Stop() error
	// SetVolume applies an output level in [0,1].
	SetVolume(v float64) error
	SetEventHandler(fn func(Event))
	Release()
}
