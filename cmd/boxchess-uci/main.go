package main

import (
	"flag"
	"os"
	"runtime/pprof"
	"time"

	"github.com/rs/zerolog"

	"github.com/hailam/boxchess/internal/engine"
	"github.com/hailam/boxchess/internal/storage"
	"github.com/hailam/boxchess/internal/uci"
)

var (
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
	logLevel   = flag.String("log-level", "info", "log level for stderr diagnostics")
	dbDir      = flag.String("db", "", "load engine settings from this database directory")
	pvEntries  = flag.Int("pv-entries", engine.DefaultPVEntries, "best-move cache slots")
)

func main() {
	flag.Parse()

	// stdout carries the protocol; diagnostics go to stderr.
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		With().Timestamp().Logger()
	level, err := zerolog.ParseLevel(*logLevel)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid -log-level")
	}
	logger = logger.Level(level)

	// Start CPU profiling if requested (via flag or environment variable)
	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			logger.Fatal().Err(err).Msg("could not create CPU profile")
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			logger.Fatal().Err(err).Msg("could not start CPU profile")
		}
		defer pprof.StopCPUProfile()
		logger.Info().Str("file", profilePath).Msg("CPU profiling enabled")
	}

	settings := loadSettings(logger)

	eng := engine.NewEngine(*pvEntries, engine.WithLogger(logger))
	protocol := uci.New(eng, os.Stdin, os.Stdout,
		uci.WithLogger(logger),
		uci.WithMoveTime(settings.MoveTime),
		uci.WithMaxDepth(settings.MaxDepth),
	)
	if err := protocol.Run(); err != nil {
		logger.Error().Err(err).Msg("reading commands")
	}
}

// loadSettings reads saved engine settings, falling back to defaults when no
// database is configured or it cannot be opened.
func loadSettings(logger zerolog.Logger) *storage.Settings {
	if *dbDir == "" {
		return storage.DefaultSettings()
	}
	store, err := storage.Open(*dbDir)
	if err != nil {
		logger.Warn().Err(err).Msg("settings not loaded")
		return storage.DefaultSettings()
	}
	defer store.Close()

	settings, err := store.LoadSettings()
	if err != nil {
		logger.Warn().Err(err).Msg("settings not loaded")
		return storage.DefaultSettings()
	}
	logger.Debug().Dur("movetime", settings.MoveTime).Int("depth", settings.MaxDepth).Msg("settings loaded")
	return settings
}
