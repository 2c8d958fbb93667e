package app

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentstation/webhost/internal/middleware"
	"github.com/agentstation/webhost/internal/todo"
	"github.com/agentstation/webhost/internal/tracing"
	"github.com/agentstation/webhost/pkg/data"
	"github.com/agentstation/webhost/pkg/errors"
	"github.com/agentstation/webhost/pkg/logger"
	"github.com/agentstation/webhost/pkg/logging"
	"github.com/agentstation/webhost/pkg/mediator"
	"github.com/agentstation/webhost/pkg/webhost"
)

// cleanupTimeout bounds flushing telemetry and closing the database after
// the server stops.
const cleanupTimeout = 5 * time.Second

// todoTable stores todos when a database is configured.
const todoTable = "todos"

func (a *App) newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"server"},
		Short:   "Start the sample API on " + webhost.ListenAddress,
		Long: `Start the sample todo API on ` + webhost.ListenAddress + `.

Endpoints:
  - /api/v1/todos        todo CRUD through the mediator
  - /api/v1/info         service name and version
  - /health              liveness probe
  - /swagger/swagger.json and /swagger-ui/  API documentation
  - /metrics             Prometheus metrics (unless --metrics=false)

Todos are kept in memory unless WEBHOST_DATABASE_URL points at PostgreSQL.
Traces go to Application Insights when WEBHOST_INSTRUMENTATION_KEY is set.`,
		Example: `  # Defaults from the environment
  webhost serve

  # Restrict CORS and require an API key
  webhost serve --cors-origins https://app.example.com --api-key s3cret

  # Rate limit and print spans
  webhost serve --rate-limit 120 --trace-stdout`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a.applyServeFlags(cmd)
			return a.serve(cmd.Context())
		},
	}

	cmd.Flags().String("name", "", "service name (overrides WEBHOST_SERVICE_NAME)")
	cmd.Flags().StringSlice("cors-origins", nil, "allowed CORS origins (comma-separated, default any)")
	cmd.Flags().Bool("compression", true, "compress responses")
	cmd.Flags().Bool("metrics", true, "serve Prometheus metrics on "+webhost.MetricsPath)
	cmd.Flags().Int("rate-limit", 0, "requests per minute per client IP (0 to disable)")
	cmd.Flags().String("api-key", "", "require this API key on the todo routes")
	cmd.Flags().Bool("trace-stdout", false, "print finished spans to stdout")
	return cmd
}

// applyServeFlags lets explicitly set flags override loaded settings.
func (a *App) applyServeFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	s := a.settings
	if flags.Changed("name") {
		s.ServiceName, _ = flags.GetString("name")
	}
	if flags.Changed("cors-origins") {
		s.CORSOrigins, _ = flags.GetStringSlice("cors-origins")
	}
	if flags.Changed("compression") {
		s.Compression, _ = flags.GetBool("compression")
	}
	if flags.Changed("metrics") {
		s.Metrics, _ = flags.GetBool("metrics")
	}
	if flags.Changed("rate-limit") {
		s.RateLimit, _ = flags.GetInt("rate-limit")
	}
	if flags.Changed("api-key") {
		s.APIKey, _ = flags.GetString("api-key")
	}
	if flags.Changed("trace-stdout") {
		s.TraceStdout, _ = flags.GetBool("trace-stdout")
	}
}

func (a *App) serve(ctx context.Context) error {
	if err := a.settings.Validate(); err != nil {
		return err
	}

	host, cleanup, err := a.buildHost(ctx)
	if err != nil {
		return err
	}
	defer func() {
		cleanupCtx, cancel := context.WithTimeout(context.Background(), cleanupTimeout)
		defer cancel()
		if err := cleanup(cleanupCtx); err != nil {
			a.logger.Warn().Err(err).Msg("Cleanup did not complete")
		}
	}()

	a.logger.Info().
		Str("service", a.settings.ServiceName).
		Str("address", webhost.ListenAddress).
		Bool("compression", a.settings.Compression).
		Bool("metrics", a.settings.Metrics).
		Int("rate_limit", a.settings.RateLimit).
		Bool("auth", a.settings.APIKey != "").
		Msg("Starting API server")

	return host.Start(ctx)
}

// buildHost assembles the host from the settings. The returned cleanup
// flushes telemetry and releases storage; it is safe to call when the host
// never started.
func (a *App) buildHost(ctx context.Context) (*webhost.Host, func(context.Context) error, error) {
	s := a.settings
	var closers []func(context.Context) error
	cleanup := func(ctx context.Context) error {
		var errs []error
		for i := len(closers) - 1; i >= 0; i-- {
			errs = append(errs, closers[i](ctx))
		}
		return stderrors.Join(errs...)
	}

	tp, err := tracing.NewProvider(tracing.Config{ServiceName: s.ServiceName, Stdout: s.TraceStdout})
	if err != nil {
		return nil, nil, err
	}
	closers = append(closers, tracing.Install(tp))

	appLog := logging.Component(s.ServiceName)
	var log logger.Logger = logger.NewZerolog(&appLog)
	if s.InstrumentationKey != "" {
		ai := logger.NewAppInsights(s.InstrumentationKey, logger.WithRole(s.ServiceName))
		closers = append(closers, ai.Close)
		log = logger.Multi(ai, log)
	}

	m := mediator.New()
	if err := todo.Register(m); err != nil {
		_ = cleanup(ctx)
		return nil, nil, err
	}

	repo, closeRepo, err := a.repository(ctx)
	if err != nil {
		_ = cleanup(ctx)
		return nil, nil, err
	}
	closers = append(closers, closeRepo)

	httpLog := logging.Component("http")
	b := webhost.New(s.ServiceName, todo.Routes(),
		webhost.WithLogger(&httpLog),
		webhost.WithTracerProvider(tp),
	).
		AddLogger(webhost.NewShared(log)).
		AddMediator(webhost.NewShared(m)).
		AddSettings(webhost.NewShared(todo.Info{Service: s.ServiceName, Version: a.version}))
	webhost.AddRepository(b, repo)

	b.AddAPIKey("X-API-Key", s.APIKey, "/health").
		AddAPIDocs(todo.Document(a.version))
	if s.Metrics {
		b.AddMetrics(a.registry, a.registry)
	}
	if s.RateLimit > 0 {
		b.AddRateLimit(s.RateLimit)
	}
	if s.Compression {
		b.AddCompression()
	}

	cors := middleware.DefaultCORSConfig()
	if origins := middleware.ParseOrigins(strings.Join(s.CORSOrigins, ",")); len(origins) > 0 {
		cors.AllowedOrigins = origins
	}
	b.AddCORS(middleware.CORS(cors))

	return b.Build(), cleanup, nil
}

// repository returns PostgreSQL storage when a database URL is set and
// memory otherwise.
func (a *App) repository(ctx context.Context) (data.Repository[todo.Todo], func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }
	if a.settings.DatabaseURL == "" {
		a.logger.Info().Msg("Storing todos in memory")
		return data.NewMemory[todo.Todo]("todo"), noop, nil
	}

	pool, err := data.NewPool(ctx, a.settings.DatabaseURL)
	if err != nil {
		return nil, nil, errors.NewConfigError("database", "cannot connect to PostgreSQL", err)
	}
	repo, err := data.NewPostgres[todo.Todo](pool, todoTable)
	if err == nil {
		err = repo.EnsureSchema(ctx)
	}
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("prepare %s table: %w", todoTable, err)
	}
	a.logger.Info().Str("table", todoTable).Msg("Storing todos in PostgreSQL")
	return repo, func(context.Context) error {
		pool.Close()
		return nil
	}, nil
}
