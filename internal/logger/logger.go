package logger

import (
	"io"
	stdlog "log"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"entradalert/internal/common"
)

// New builds a zerolog logger from the given configuration.
// Console output is on unless disabled; file output is added when a log file
// path is configured, with size-based rotation.
func New(cfg LogConfig) (zerolog.Logger, error) {
	level, err := parseLevel(cfg.LogLevel)
	if err != nil {
		return zerolog.Logger{}, err
	}

	var writers []io.Writer
	if !cfg.DisableConsole {
		writers = append(writers, consoleWriter(cfg.LogFormat))
	}
	if cfg.LogFile != "" {
		writers = append(writers, fileWriter(cfg))
	}
	if len(writers) == 0 {
		return zerolog.Logger{}, common.NewValidationError("log_config", cfg, "no log outputs configured")
	}

	multi := zerolog.MultiLevelWriter(writers...)
	logger := zerolog.New(multi).
		Level(level).
		With().
		Timestamp().
		Logger()

	zerolog.SetGlobalLevel(level)

	// Route the standard log package through zerolog so library noise is captured.
	stdlog.SetOutput(logger)
	stdlog.SetFlags(0)

	return logger, nil
}

// parseLevel maps the configured level string to a zerolog level.
func parseLevel(level string) (zerolog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "", "info":
		return zerolog.InfoLevel, nil
	case "debug":
		return zerolog.DebugLevel, nil
	case "warn":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	case "fatal":
		return zerolog.FatalLevel, nil
	default:
		return zerolog.NoLevel, common.NewValidationError("log_level", level, "unknown log level")
	}
}

func consoleWriter(format string) io.Writer {
	if strings.EqualFold(format, "json") {
		return os.Stderr
	}
	return zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}
}
