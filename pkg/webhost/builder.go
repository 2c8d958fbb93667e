// Package webhost assembles an HTTP server from a router and a sequence of
// layers.
//
// Layers apply in call order: each one wraps everything added before it,
// routes included, and nothing added after it.
//
//	host := webhost.New("orders", router, webhost.WithLogger(&log)).
//		AddCORS(nil).
//		AddCompression().
//		AddLogger(webhost.NewShared[logger.Logger](ai)).
//		AddMediator(webhost.NewShared(m)).
//		AddAPIDocs(doc)
//	webhost.AddRepository[todo.Todo](host, repo)
//	err := host.Start(ctx)
package webhost

import (
	"context"
	"io/fs"
	"net/http"
	"time"

	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"

	"github.com/agentstation/webhost/internal/middleware"
	"github.com/agentstation/webhost/internal/swaggerui"
	"github.com/agentstation/webhost/pkg/data"
	"github.com/agentstation/webhost/pkg/logger"
	"github.com/agentstation/webhost/pkg/logging"
	"github.com/agentstation/webhost/pkg/mediator"
)

// ListenAddress is the address Start binds.
const ListenAddress = "0.0.0.0:8080"

// DefaultShutdownTimeout bounds connection draining after the start
// context is cancelled.
const DefaultShutdownTimeout = 10 * time.Second

// Builder accumulates layers around a router. It is not safe for concurrent
// use and may not be used once Build has been called.
type Builder struct {
	name    string
	handler http.Handler
	logger  *zerolog.Logger
	tracer  trace.TracerProvider
	docs    *swaggerui.UI
	timeout time.Duration

	// lifetime ends when the host stops; background work started by layers
	// is tied to it.
	lifetime context.Context
	stop     context.CancelFunc

	built bool
}

// Option configures a Builder at construction.
type Option func(*Builder)

// WithLogger sets the logger used for the host's own diagnostics and the
// request log. It defaults to logging.Component("http").
func WithLogger(l *zerolog.Logger) Option {
	return func(b *Builder) {
		b.logger = l
	}
}

// WithTracerProvider selects the provider for request spans. It defaults to
// the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(b *Builder) {
		b.tracer = tp
	}
}

// WithDocsAssets serves the Swagger UI from assets instead of the bundled
// distribution.
func WithDocsAssets(assets fs.FS) Option {
	return func(b *Builder) {
		b.docs = swaggerui.New(assets)
	}
}

// WithShutdownTimeout bounds connection draining on shutdown.
func WithShutdownTimeout(d time.Duration) Option {
	return func(b *Builder) {
		b.timeout = d
	}
}

// New starts a builder for the service name around router. A nil router
// answers every request with 404.
func New(name string, router http.Handler, opts ...Option) *Builder {
	if router == nil {
		router = http.NotFoundHandler()
	}
	lifetime, stop := context.WithCancel(context.Background())
	b := &Builder{
		name:     name,
		handler:  router,
		timeout:  DefaultShutdownTimeout,
		lifetime: lifetime,
		stop:     stop,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		l := logging.Component("http")
		b.logger = &l
	}
	if b.docs == nil {
		b.docs = swaggerui.New(nil)
	}
	return b
}

// Name returns the service name.
func (b *Builder) Name() string {
	return b.name
}

func (b *Builder) mustConfigure(op string) {
	if b.built {
		panic("programming error: webhost.Builder." + op + " called after Build")
	}
}

// Layer wraps everything added so far in mw.
func (b *Builder) Layer(mw func(http.Handler) http.Handler) *Builder {
	b.mustConfigure("Layer")
	b.handler = mw(b.handler)
	return b
}

// AddCORS applies a cross-origin policy. A nil policy allows any origin.
func (b *Builder) AddCORS(policy *cors.Cors) *Builder {
	b.mustConfigure("AddCORS")
	if policy == nil {
		policy = middleware.CORS(middleware.DefaultCORSConfig())
	}
	b.handler = policy.Handler(b.handler)
	return b
}

// AddCompression compresses responses for clients that accept gzip or
// deflate.
func (b *Builder) AddCompression() *Builder {
	b.mustConfigure("AddCompression")
	b.handler = middleware.Compress()(b.handler)
	return b
}

// AddExtension injects v into every request; handlers read it back with
// Extension using v's dynamic type.
func (b *Builder) AddExtension(v any) *Builder {
	b.mustConfigure("AddExtension")
	if v == nil {
		panic("programming error: webhost.Builder.AddExtension called with nil")
	}
	b.handler = injectExtension(v)(b.handler)
	return b
}

// AddLogger injects a logger handle; see LoggerFrom.
func (b *Builder) AddLogger(handle *Shared[logger.Logger]) *Builder {
	return b.AddExtension(handle)
}

// AddMediator injects a mediator handle; see MediatorFrom.
func (b *Builder) AddMediator(handle *Shared[*mediator.Mediator]) *Builder {
	return b.AddExtension(handle)
}

// AddSettings injects a settings object, normally a *Shared[S]; see
// SettingsFrom.
func (b *Builder) AddSettings(handle any) *Builder {
	return b.AddExtension(handle)
}

// AddRepository injects repo behind a new shared handle; see
// RepositoryFrom. It is a function because methods cannot have type
// parameters.
func AddRepository[E any](b *Builder, repo data.Repository[E]) *Builder {
	return b.AddExtension(NewShared(repo))
}

// AddRateLimit allows each client IP requestsPerMinute requests and answers
// the rest with 429.
func (b *Builder) AddRateLimit(requestsPerMinute int) *Builder {
	b.mustConfigure("AddRateLimit")
	rl := middleware.NewRateLimiter(b.lifetime, requestsPerMinute, b.logger)
	b.handler = middleware.RateLimit(rl)(b.handler)
	return b
}

// AddAPIKey rejects requests without key, except on the public paths. A
// path ending in a slash is a prefix.
func (b *Builder) AddAPIKey(header, key string, publicPaths ...string) *Builder {
	b.mustConfigure("AddAPIKey")
	b.handler = middleware.APIKey(middleware.AuthConfig{
		APIKey:      key,
		HeaderName:  header,
		PublicPaths: publicPaths,
	}, b.logger)(b.handler)
	return b
}

// Build finishes the builder. The tracing layer, with the request log and
// panic recovery, wraps everything.
func (b *Builder) Build() *Host {
	b.mustConfigure("Build")
	b.built = true

	handler := middleware.Tracing(b.tracer, b.name, b.logger)(b.handler)
	return &Host{
		name:     b.name,
		handler:  handler,
		logger:   b.logger,
		timeout:  b.timeout,
		stopBase: b.stop,
	}
}

// Start builds the host and serves on ListenAddress until ctx is done.
func (b *Builder) Start(ctx context.Context) error {
	return b.Build().Start(ctx)
}
