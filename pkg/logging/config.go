package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/webhost/pkg/errors"
)

const logFilePermissions = 0o644

// Config holds logger configuration options
type Config struct {
	// Level is the level for components the filter does not name
	Level string

	// Filter holds per-component directives, see Filter
	Filter string

	// Format is the output format (json, console, pretty, auto)
	Format string

	// Output is where to write logs (stderr, stdout, discard, or file path)
	Output string

	// TimeFormat for timestamps (kitchen, rfc3339, unix, etc.)
	TimeFormat string

	// NoColor disables color output in console mode
	NoColor bool

	// AddCaller includes file:line in log output
	AddCaller bool
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Level:      "info",
		Format:     "auto",
		Output:     "stderr",
		TimeFormat: "rfc3339",
		NoColor:    os.Getenv("NO_COLOR") != "",
	}
}

// NewLoggerFromConfig creates a new logger from configuration. An unparsable
// filter is ignored in favour of Level; use Configure to see the error.
func NewLoggerFromConfig(cfg *Config) zerolog.Logger {
	logger, _, _ := build(cfg)
	return logger
}

// Configure installs a logger built from cfg as the process default and
// makes its filter the one used by Component.
func Configure(cfg *Config) error {
	logger, filter, err := build(cfg)
	setState(logger, filter)
	return err
}

// ConfigureFromEnv configures process logging from the environment. The
// filter comes from FilterEnv and defaults to DefaultFilter(service).
func ConfigureFromEnv(service string) error {
	return Configure(&Config{
		Level:      getEnvOrDefault("LOG_LEVEL", "info"),
		Filter:     getEnvOrDefault(FilterEnv, DefaultFilter(service)),
		Format:     getEnvOrDefault("LOG_FORMAT", "auto"),
		Output:     getEnvOrDefault("LOG_OUTPUT", "stderr"),
		TimeFormat: getEnvOrDefault("LOG_TIME_FORMAT", "rfc3339"),
		NoColor:    os.Getenv("NO_COLOR") != "",
		AddCaller:  os.Getenv("LOG_CALLER") == "true",
	})
}

func build(cfg *Config) (zerolog.Logger, Filter, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	fallback := parseLevel(cfg.Level)
	filter, err := ParseFilter(cfg.Filter, fallback)
	if err != nil {
		filter = Filter{Default: fallback, Components: map[string]zerolog.Level{}}
		err = errors.NewConfigError("logging", "cannot parse "+FilterEnv, err)
	}

	// The global level gates every logger, so it must admit the most
	// verbose component.
	zerolog.SetGlobalLevel(filter.Min())

	logger := zerolog.New(getWriter(cfg)).
		Level(filter.Default).
		With().
		Timestamp().
		Logger()

	if cfg.AddCaller || filter.Min() <= zerolog.DebugLevel {
		logger = logger.With().Caller().Logger()
	}

	return logger, filter, err
}

// getWriter creates the appropriate writer based on configuration
func getWriter(cfg *Config) io.Writer {
	var output io.Writer
	switch strings.ToLower(cfg.Output) {
	case "", "stderr":
		output = os.Stderr
	case "stdout":
		output = os.Stdout
	case "discard", "none":
		output = io.Discard
	default:
		file, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, logFilePermissions)
		if err != nil {
			output = os.Stderr
		} else {
			output = file
		}
	}

	format := strings.ToLower(cfg.Format)
	if format == "auto" {
		format = "json"
		if f, ok := output.(*os.File); ok && isTerminal(f) {
			format = "console"
		}
	}

	switch format {
	case "console", "pretty":
		return zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: parseTimeFormat(cfg.TimeFormat),
			NoColor:    cfg.NoColor,
		}
	default:
		return output
	}
}

// parseLevel parses a log level string, defaulting to info
func parseLevel(level string) zerolog.Level {
	l, err := parseDirectiveLevel(level)
	if err != nil {
		return zerolog.InfoLevel
	}
	return l
}

// parseTimeFormat parses time format configuration
func parseTimeFormat(format string) string {
	switch strings.ToLower(format) {
	case "kitchen":
		return time.Kitchen
	case "rfc3339":
		return time.RFC3339
	case "rfc3339nano":
		return time.RFC3339Nano
	case "unix", "epoch":
		return ""
	case "stampmilli":
		return time.StampMilli
	default:
		if strings.Contains(format, "2006") || strings.Contains(format, "15:04") {
			return format
		}
		return time.RFC3339
	}
}

// getEnvOrDefault returns an environment variable value or default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
