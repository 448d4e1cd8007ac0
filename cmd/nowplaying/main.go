// Command nowplaying prints the track updates RadioStream would show for a
// stream, without playing any audio.
//
//	nowplaying [-type auto|icy|json|simulated] [-meta URL] <stream-url>
//	nowplaying -config config.yaml -station 2
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/edward-ap/radiostream/internal/config"
	"github.com/edward-ap/radiostream/internal/logging"
	"github.com/edward-ap/radiostream/internal/nowplaying"
)

func main() {
	cfgPath := flag.String("config", "", "config file to read stations from")
	station := flag.Int("station", 0, "station id from the config file")
	kind := flag.String("type", config.MetadataAuto, "metadata source: auto, icy, json, simulated")
	metaURL := flag.String("meta", "", "explicit metadata endpoint")
	timeout := flag.Duration("timeout", 0, "stop after this long (0 runs until interrupted)")
	level := flag.String("logLevel", "info", "log level")
	flag.Parse()

	if _, err := logging.Setup(os.Stderr, *level, false); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	stream, err := pickStream(*cfgPath, *station, flag.Arg(0), *kind, *metaURL)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if *timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *timeout)
		defer cancel()
	}

	log.Info().Str("url", stream.URL).Str("type", stream.Metadata.Type).Msg("watching")
	d := nowplaying.NewDispatcher(nil, log.Logger, nil)
	err = d.Watch(ctx, stream, func(t nowplaying.Track) {
		fmt.Printf("%s  %s\n", time.Now().Format(time.TimeOnly), t)
	})
	if err != nil && ctx.Err() == nil {
		log.Error().Err(err).Msg("metadata source stopped")
		os.Exit(1)
	}
}

func pickStream(cfgPath string, id int, rawURL, kind, metaURL string) (config.Stream, error) {
	if id > 0 {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return config.Stream{}, err
		}
		s, ok := cfg.StreamByID(id)
		if !ok {
			return config.Stream{}, fmt.Errorf("no station with id %d", id)
		}
		return s, nil
	}
	if rawURL == "" {
		return config.Stream{}, fmt.Errorf("usage: nowplaying [flags] <stream-url>")
	}
	return config.Stream{
		ID:       1,
		Name:     rawURL,
		URL:      rawURL,
		Metadata: config.MetadataHint{Type: kind, URL: metaURL},
	}, nil
}
