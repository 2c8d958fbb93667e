// Package logging provides process-wide structured logging for webhost
// services using zerolog.
//
// Logging is configured once by the process entry point, normally with
// ConfigureFromEnv, and the resulting loggers are handed to the packages
// that need them:
//
//	if err := logging.ConfigureFromEnv("orders"); err != nil {
//	    logging.Default().Warn().Err(err).Msg("Falling back to default log levels")
//	}
//	httpLog := logging.Component("http")
//	host := webhost.New("orders", router, webhost.WithLogger(&httpLog))
//
// Verbosity is selected per component by a Filter such as
// "orders=debug,http=info,warn".
package logging

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	mu            sync.RWMutex
	defaultLogger zerolog.Logger
	activeFilter  Filter

	// Nop logger for discarding output.
	Nop = zerolog.Nop()
)

func init() {
	logger, filter, _ := build(DefaultConfig())
	setState(logger, filter)
}

func setState(logger zerolog.Logger, filter Filter) {
	mu.Lock()
	defer mu.Unlock()
	defaultLogger = logger
	activeFilter = filter
	log.Logger = logger
}

// Default returns a copy of the default process logger.
func Default() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	l := defaultLogger
	return &l
}

// SetDefault replaces the default process logger, keeping the active filter.
func SetDefault(logger zerolog.Logger) {
	setState(logger, ActiveFilter())
}

// ActiveFilter returns the filter installed by the last Configure call.
func ActiveFilter() Filter {
	mu.RLock()
	defer mu.RUnlock()
	return activeFilter
}

// Component returns a child of the default logger tagged with the component
// name and levelled according to the active filter.
func Component(name string) zerolog.Logger {
	mu.RLock()
	base, filter := defaultLogger, activeFilter
	mu.RUnlock()

	return base.Level(filter.Level(name)).
		With().
		Str("component", name).
		Logger()
}

// New creates a new JSON logger with the given writer.
func New(w io.Writer) zerolog.Logger {
	return zerolog.New(w).
		Level(zerolog.GlobalLevel()).
		With().
		Timestamp().
		Logger()
}

// NewConsole creates a new console logger for human-readable output.
func NewConsole() zerolog.Logger {
	return New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.Kitchen,
		NoColor:    os.Getenv("NO_COLOR") != "",
	})
}

// isTerminal reports whether f is attached to a character device.
func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
