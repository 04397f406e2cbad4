// Package logging provides leveled logging helpers backed by zerolog.
//
// Log lines go to the console, and additionally to a rotating-free plain log
// file once SetupLogging has run. Helpers are printf-style so call sites stay
// terse.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// LogFileName is the log file created inside the configured log directory.
const LogFileName = "musicarr.log"

// Level gates debug output. D calls with a level above this are dropped.
var Level int

var (
	mu      sync.RWMutex
	logger  = newConsoleLogger()
	logFile *os.File
)

func newConsoleLogger() zerolog.Logger {
	cw := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	return zerolog.New(cw).With().Timestamp().Logger()
}

// SetupLogging creates and/or opens the log file inside dir and routes all
// subsequent log output to both the console and the file.
func SetupLogging(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create log directory %q: %w", dir, err)
	}

	path := filepath.Join(dir, LogFileName)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file %q: %w", path, err)
	}

	cw := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	multi := zerolog.MultiLevelWriter(cw, f)

	mu.Lock()
	if logFile != nil {
		logFile.Close()
	}
	logFile = f
	logger = zerolog.New(multi).With().Timestamp().Logger()
	mu.Unlock()

	return nil
}

// Close flushes and closes the log file, if one is open.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
}

func get() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// I logs at info level.
func I(format string, args ...any) {
	l := get()
	l.Info().Msgf(format, args...)
}

// S logs a success at info level.
func S(format string, args ...any) {
	l := get()
	l.Info().Bool("success", true).Msgf(format, args...)
}

// W logs at warn level.
func W(format string, args ...any) {
	l := get()
	l.Warn().Msgf(format, args...)
}

// E logs at error level.
func E(format string, args ...any) {
	l := get()
	l.Error().Msgf(format, args...)
}

// D logs at debug level when l is within the configured verbosity.
func D(lvl int, format string, args ...any) {
	if lvl > Level {
		return
	}
	l := get()
	l.Debug().Msgf(format, args...)
}
