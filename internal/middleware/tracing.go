package middleware

import (
	"net/http"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// Trace starts a server span per request on tp, or on the global provider
// when tp is nil.
func Trace(tp trace.TracerProvider, service string) Middleware {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return func(next http.Handler) http.Handler {
		return otelhttp.NewHandler(next, service,
			otelhttp.WithTracerProvider(tp),
			otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
				return r.Method + " " + r.URL.Path
			}),
		)
	}
}

// Tracing is the finishing layer of a host: span, then request log, then
// panic recovery closest to the handler.
func Tracing(tp trace.TracerProvider, service string, logger *zerolog.Logger) Middleware {
	return Chain(
		Trace(tp, service),
		Logger(logger),
		Recovery(logger),
	)
}
