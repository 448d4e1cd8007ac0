package nowplaying

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/edward-ap/radiostream/internal/config"
)

// Dispatcher implements Source by choosing a strategy from the stream's
// metadata hint.
type Dispatcher struct {
	simulated *Simulated
	icy       *icyStrategy
	status    *statusJSONStrategy
	log       zerolog.Logger
}

// NewDispatcher builds the root source. A nil client uses library defaults;
// a nil simulated source uses DefaultPlaylist.
func NewDispatcher(client *http.Client, log zerolog.Logger, simulated *Simulated) *Dispatcher {
	if simulated == nil {
		simulated = NewSimulated(nil, 0)
	}
	return &Dispatcher{
		simulated: simulated,
		icy:       newICYStrategy(client, log),
		status:    newStatusJSONStrategy(client, log),
		log:       log,
	}
}

// Watch blocks until ctx is cancelled or the selected strategy gives up.
func (d *Dispatcher) Watch(ctx context.Context, stream config.Stream, onTrack func(Track)) error {
	if onTrack == nil {
		return nil
	}
	hint := stream.Metadata
	switch hint.Type {
	case config.MetadataICY:
		target := hint.URL
		if target == "" {
			target = stream.URL
		}
		return d.icy.Watch(ctx, target, onTrack)
	case config.MetadataJSON:
		return d.status.Watch(ctx, stream.URL, hint.URL, onTrack)
	case config.MetadataAuto:
		return d.autoWatch(ctx, stream, onTrack)
	default:
		return d.simulated.Watch(ctx, stream, onTrack)
	}
}

// autoWatch tries inline ICY metadata first, then the status-json endpoint.
// When neither exists it falls back to the simulated playlist.
func (d *Dispatcher) autoWatch(ctx context.Context, stream config.Stream, onTrack func(Track)) error {
	err := d.icy.Watch(ctx, stream.URL, onTrack)
	if err == nil || !errors.Is(err, errNoICY) {
		return err
	}
	err = d.status.Watch(ctx, stream.URL, stream.Metadata.URL, onTrack)
	if err == nil || !errors.Is(err, errNoStatus) {
		return err
	}
	d.log.Info().Str("stream", stream.Name).Msg("no metadata feed found; using simulated playlist")
	return d.simulated.Watch(ctx, stream, onTrack)
}
