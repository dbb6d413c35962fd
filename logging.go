package main

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/milk9111/helmet/prefabs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// setupLogging points the global zerolog logger at the console and, when
// configured, a rotating log file. The returned func closes the file.
func setupLogging(spec prefabs.LogSpec) func() error {
	level, err := zerolog.ParseLevel(strings.ToLower(spec.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	writers := []io.Writer{
		zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339},
	}
	var file *lumberjack.Logger
	if spec.File != "" {
		file = &lumberjack.Logger{
			Filename:   spec.File,
			MaxSize:    spec.MaxSizeMB,
			MaxBackups: spec.MaxBackups,
		}
		writers = append(writers, zerolog.ConsoleWriter{Out: file, TimeFormat: time.RFC3339, NoColor: true})
	}

	log.Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).With().Timestamp().Logger()
	log.Debug().Str("level", level.String()).Msg("logging set up")

	return func() error {
		if file == nil {
			return nil
		}
		return file.Close()
	}
}
