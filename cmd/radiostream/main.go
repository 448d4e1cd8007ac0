package main

import (
	"flag"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/edward-ap/radiostream/internal/config"
	"github.com/edward-ap/radiostream/internal/logging"
	"github.com/edward-ap/radiostream/internal/radioapp"
)

func main() {
	cfgPath := flag.String("config", "", "path to config.yaml (default: user config dir)")
	level := flag.String("logLevel", "", "log level override: trace, debug, info, warn, error")
	trace := flag.Bool("traceLog", false, "enable verbose libVLC logging to vlc.log")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Error().Err(err).Msg("config load failed, using defaults")
		cfg = config.Default()
	}
	lvl := cfg.Logging.Level
	if *level != "" {
		lvl = *level
	}
	if _, err := logging.Setup(os.Stderr, lvl, cfg.Logging.JSON); err != nil {
		log.Fatal().Err(err).Msg("logging setup")
	}
	radioapp.SetTraceLogEnabled(*trace)

	app, err := radioapp.New(radioapp.Options{Config: cfg, Logger: log.Logger})
	if err != nil {
		log.Fatal().Err(err).Msg("cannot start")
	}
	log.Info().Int("streams", len(cfg.Streams)).Msg("radiostream started")
	app.Run()
}
