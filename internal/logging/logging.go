// Package logging builds the zerolog loggers used by fomu.
//
// The player owns the terminal, so it logs to a rotating file. Headless
// commands log to stderr with a console writer.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Rotation limits for the log file.
const (
	MaxSizeMB  = 5
	MaxBackups = 3
	MaxAgeDays = 28
)

// ParseLevel maps a config level name to a zerolog level. Unknown names
// mean info.
func ParseLevel(level string, debug bool) zerolog.Level {
	if debug {
		return zerolog.DebugLevel
	}
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// FileWriter returns a rotating writer for path, creating its directory.
func FileWriter(path string) (io.WriteCloser, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    MaxSizeMB,
		MaxBackups: MaxBackups,
		MaxAge:     MaxAgeDays,
	}, nil
}

// New returns a JSON logger writing to w.
func New(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// NewFile returns a logger writing to a rotating file at path. The returned
// closer flushes and closes the file.
func NewFile(path string, level zerolog.Level) (zerolog.Logger, io.Closer, error) {
	w, err := FileWriter(path)
	if err != nil {
		return zerolog.Nop(), nil, err
	}
	return New(w, level), w, nil
}

// NewConsole returns a human readable logger on w, normally os.Stderr.
func NewConsole(w io.Writer, level zerolog.Level) zerolog.Logger {
	output := zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}

// Component returns a sub-logger tagged with the component name.
func Component(logger zerolog.Logger, name string) zerolog.Logger {
	return logger.With().Str("component", name).Logger()
}
