package logging_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/agentstation/webhost/pkg/errors"
	"github.com/agentstation/webhost/pkg/logging"
)

func restoreDefaults(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		_ = logging.Configure(logging.DefaultConfig())
	})
}

func TestDefaultConfig(t *testing.T) {
	cfg := logging.DefaultConfig()
	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, "auto", cfg.Format)
	assert.Equal(t, "stderr", cfg.Output)
	assert.Empty(t, cfg.Filter)
	assert.False(t, cfg.AddCaller)
}

func TestConfigureComponentLevels(t *testing.T) {
	restoreDefaults(t)
	out := filepath.Join(t.TempDir(), "log.json")

	err := logging.Configure(&logging.Config{
		Level:  "warn",
		Filter: "orders=debug",
		Format: "json",
		Output: out,
	})
	require.NoError(t, err)

	orders := logging.Component("orders")
	orders.Debug().Msg("orders debug line")

	other := logging.Component("billing")
	other.Info().Msg("billing info line")
	other.Warn().Msg("billing warn line")

	logging.Default().Info().Msg("default info line")
	logging.Default().Error().Msg("default error line")

	content, err := os.ReadFile(out)
	require.NoError(t, err)
	output := string(content)

	assert.Contains(t, output, "orders debug line")
	assert.Contains(t, output, `"component":"orders"`)
	assert.NotContains(t, output, "billing info line")
	assert.Contains(t, output, "billing warn line")
	assert.NotContains(t, output, "default info line")
	assert.Contains(t, output, "default error line")
}

func TestConfigureInvalidFilter(t *testing.T) {
	restoreDefaults(t)

	err := logging.Configure(&logging.Config{
		Level:  "info",
		Filter: "http=loud",
		Output: "discard",
	})
	require.Error(t, err)

	var cfgErr *pkgerrors.ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "logging", cfgErr.Component)

	// The fallback level still applies.
	assert.Equal(t, "info", logging.ActiveFilter().Default.String())
}

func TestConfigureFromEnv(t *testing.T) {
	restoreDefaults(t)
	t.Setenv(logging.FilterEnv, "")
	t.Setenv("LOG_OUTPUT", "discard")

	require.NoError(t, logging.ConfigureFromEnv("orders"))
	f := logging.ActiveFilter()
	assert.Equal(t, "debug", f.Level("orders").String())
	assert.Equal(t, "debug", f.Level("http").String())

	t.Setenv(logging.FilterEnv, "orders=error")
	require.NoError(t, logging.ConfigureFromEnv("orders"))
	assert.Equal(t, "error", logging.ActiveFilter().Level("orders").String())
}

func TestConsoleFormat(t *testing.T) {
	restoreDefaults(t)
	out := filepath.Join(t.TempDir(), "console.log")
	logger := logging.NewLoggerFromConfig(&logging.Config{
		Level:  "info",
		Format: "console",
		Output: out,
	})
	logger.Info().Str("key", "value").Msg("console test")

	content, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(content), "console test")
	assert.Contains(t, string(content), "INF")
}
