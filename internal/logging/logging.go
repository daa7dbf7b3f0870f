// Package logging configures the process-wide zerolog logger. The terminal
// is owned by the UI, so console output goes to stderr and is normally
// redirected to a file while the demo runs.
package logging

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	logger  = zerolog.Nop()
	logFile *os.File
	mu      sync.RWMutex
)

// Init configures the logger at level. When path is non-empty logs are
// appended to that file, otherwise they go to stderr. An unparsable level
// falls back to info.
func Init(level, path string) error {
	mu.Lock()
	defer mu.Unlock()

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	closeFileLocked()

	var out io.Writer = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	if path != "" {
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
		if err != nil {
			return err
		}
		logFile = f
		out = f
	}

	logger = zerolog.New(out).
		Level(lvl).
		With().
		Timestamp().
		Logger()
	return nil
}

// New returns a logger writing to w, for tests and embedding
func New(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// Logger returns the process logger
func Logger() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Component returns the process logger tagged with a component name
func Component(name string) zerolog.Logger {
	return Logger().With().Str("component", name).Logger()
}

// Close releases the log file, if any, and silences the logger
func Close() {
	mu.Lock()
	defer mu.Unlock()
	closeFileLocked()
	logger = zerolog.Nop()
}

func closeFileLocked() {
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
}
