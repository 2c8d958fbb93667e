// Package config loads the settings of the webhost binary.
package config

import (
	stderrors "errors"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/webhost/pkg/errors"
)

// EnvPrefix prefixes every environment variable the binary reads.
const EnvPrefix = "WEBHOST"

// Settings holds the binary's configuration. Handlers can read it through
// the settings handle registered on the host.
type Settings struct {
	ServiceName        string   `mapstructure:"service_name" json:"service_name"`
	InstrumentationKey string   `mapstructure:"instrumentation_key" json:"-"`
	DatabaseURL        string   `mapstructure:"database_url" json:"-"`
	CORSOrigins        []string `mapstructure:"cors_origins" json:"cors_origins"`
	Compression        bool     `mapstructure:"compression" json:"compression"`
	Metrics            bool     `mapstructure:"metrics" json:"metrics"`
	RateLimit          int      `mapstructure:"rate_limit" json:"rate_limit"`
	APIKey             string   `mapstructure:"api_key" json:"-"`
	TraceStdout        bool     `mapstructure:"trace_stdout" json:"trace_stdout"`

	// ConfigFile is the file the settings were read from, if any.
	ConfigFile string `mapstructure:"-" json:"config_file,omitempty"`
}

// Options controls where Load looks.
type Options struct {
	// ConfigFile is an explicit YAML file. When empty, webhost.yaml is
	// looked up in the working directory and a missing file is not an
	// error.
	ConfigFile string
	// EnvFiles are loaded into the environment before reading it. Later
	// files do not override variables that are already set.
	EnvFiles []string
}

// DefaultOptions reads .env and .env.local from the working directory.
func DefaultOptions() Options {
	return Options{EnvFiles: []string{".env", ".env.local"}}
}

// Load reads settings in order of precedence: environment variables, .env
// files, the config file, then defaults. Command flags are applied on top
// by the caller.
func Load(opts Options) (*Settings, error) {
	for _, f := range opts.EnvFiles {
		// Missing env files are expected.
		_ = godotenv.Load(f)
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("webhost")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.ConfigFile != "" || !stderrors.As(err, &notFound) {
			return nil, errors.NewConfigError("config", "cannot read config file", err)
		}
	}

	s := &Settings{
		ServiceName:        v.GetString("service_name"),
		InstrumentationKey: v.GetString("instrumentation_key"),
		DatabaseURL:        v.GetString("database_url"),
		CORSOrigins:        splitList(v.GetStringSlice("cors_origins")),
		Compression:        v.GetBool("compression"),
		Metrics:            v.GetBool("metrics"),
		RateLimit:          v.GetInt("rate_limit"),
		APIKey:             v.GetString("api_key"),
		TraceStdout:        v.GetBool("trace_stdout"),
		ConfigFile:         v.ConfigFileUsed(),
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("service_name", "webhost")
	v.SetDefault("instrumentation_key", "")
	v.SetDefault("database_url", "")
	v.SetDefault("cors_origins", []string{})
	v.SetDefault("compression", true)
	v.SetDefault("metrics", true)
	v.SetDefault("rate_limit", 0)
	v.SetDefault("api_key", "")
	v.SetDefault("trace_stdout", false)
}

// Validate reports settings the binary cannot start with.
func (s *Settings) Validate() error {
	if strings.TrimSpace(s.ServiceName) == "" {
		return errors.NewValidationError("service_name", s.ServiceName, "must not be empty")
	}
	if s.RateLimit < 0 {
		return errors.NewValidationError("rate_limit", s.RateLimit, "must not be negative")
	}
	return nil
}

// splitList accepts both YAML lists and comma-separated env values.
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
