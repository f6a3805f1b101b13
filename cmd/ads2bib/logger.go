package main

import (
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/matsen/ads2bib/internal/config"
)

// newLogger builds the console + file logger. The log file sits beside
// the preference file; failing to open it degrades to console only.
func newLogger(cfg *config.Config) (zerolog.Logger, func()) {
	level := zerolog.InfoLevel
	if cfg.Options.Debug {
		level = zerolog.DebugLevel
	}

	console := zerolog.ConsoleWriter{Out: os.Stderr}
	writers := []io.Writer{console}
	closeLog := func() {}

	if path := config.LogPath(); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err == nil {
			writers = append(writers, f)
			closeLog = func() { f.Close() }
		}
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().Timestamp().Logger()
	return logger, closeLog
}
