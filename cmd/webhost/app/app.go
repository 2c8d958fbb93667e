// Package app wires the webhost CLI: settings, process logging and the
// commands that build and run the sample host.
package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"github.com/agentstation/webhost/internal/config"
	"github.com/agentstation/webhost/pkg/logging"
)

// App holds what the commands share.
type App struct {
	// Version information
	version string
	commit  string
	date    string

	options  config.Options
	settings *config.Settings
	logger   zerolog.Logger

	// registry backs the /metrics route.
	registry *prometheus.Registry
}

// New creates an App. Settings are loaded when a command runs.
func New(version, commit, date string) *App {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return &App{
		version:  version,
		commit:   commit,
		date:     date,
		options:  config.DefaultOptions(),
		logger:   logging.Component("webhost"),
		registry: reg,
	}
}

// Version returns the version string.
func (a *App) Version() string {
	return a.version
}

// Settings returns the loaded settings, or nil before a command has run.
func (a *App) Settings() *config.Settings {
	return a.settings
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return &a.logger
}

// load reads settings and configures process logging for the service.
func (a *App) load() error {
	s, err := config.Load(a.options)
	if err != nil {
		return err
	}
	a.settings = s

	filterErr := logging.ConfigureFromEnv(s.ServiceName)
	a.logger = logging.Component(s.ServiceName)
	if filterErr != nil {
		a.logger.Warn().Err(filterErr).Msg("Falling back to default log levels")
	}
	if s.ConfigFile != "" {
		a.logger.Debug().Str("file", s.ConfigFile).Msg("Loaded config file")
	}
	return nil
}
