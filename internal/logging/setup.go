package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/prunekit/prunekit/internal/config"
)

// LevelForVerbosity maps the CLI verbosity 0-3 to a log level.
// Verbosity is diagnostic only and never changes behavior:
// 0 silences everything below errors, 1 adds per-tier summaries,
// 2 adds phase markers, 3 adds per-artifact decisions.
func LevelForVerbosity(verbosity int) zerolog.Level {
	switch {
	case verbosity <= 0:
		return zerolog.ErrorLevel
	case verbosity == 1:
		return zerolog.InfoLevel
	case verbosity == 2:
		return zerolog.DebugLevel
	default:
		return zerolog.TraceLevel
	}
}

// New builds the tool logger: console output on stderr, optionally
// teeing into a rotated log file.
func New(verbosity int, cfg config.LoggingConfig) zerolog.Logger {
	var w io.Writer = zerolog.ConsoleWriter{Out: os.Stderr}

	if cfg.File != "" {
		fileWriter := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		}
		w = zerolog.MultiLevelWriter(w, fileWriter)
	}

	return zerolog.New(w).
		Level(LevelForVerbosity(verbosity)).
		With().
		Timestamp().
		Logger()
}
