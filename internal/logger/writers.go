package logger

import (
	"io"

	"gopkg.in/natefinch/lumberjack.v2"
)

// fileWriter creates a size-rotated file writer for the configured log path.
func fileWriter(cfg LogConfig) io.Writer {
	maxSize := cfg.MaxLogSizeMB
	if maxSize <= 0 {
		maxSize = 100
	}
	return &lumberjack.Logger{
		Filename:   cfg.LogFile,
		MaxSize:    maxSize,
		MaxBackups: cfg.MaxLogBackups,
		Compress:   true,
	}
}
