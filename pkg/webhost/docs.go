package webhost

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agentstation/webhost/internal/middleware"
	"github.com/agentstation/webhost/internal/swaggerui"
)

const (
	// DocsJSONPath serves the OpenAPI document.
	DocsJSONPath = "/swagger/swagger.json"
	// DocsUIPrefix serves the Swagger UI.
	DocsUIPrefix = "/swagger-ui/"
	// MetricsPath serves Prometheus metrics.
	MetricsPath = "/metrics"
)

// mount adds routes in front of everything built so far. Requests that no
// new route matches fall through to the previous handler.
func (b *Builder) mount(register func(r *mux.Router)) {
	r := mux.NewRouter().SkipClean(true)
	register(r)
	r.NotFoundHandler = b.handler
	b.handler = r
}

// AddAPIDocs serves doc at DocsJSONPath and the Swagger UI under
// DocsUIPrefix. Layers added before this call do not apply to these routes.
func (b *Builder) AddAPIDocs(doc *openapi3.T) *Builder {
	b.mustConfigure("AddAPIDocs")
	if doc == nil {
		panic("programming error: webhost.Builder.AddAPIDocs called with nil document")
	}

	ui := b.docs
	cfg := swaggerui.DefaultConfig()
	cfg.URL = DocsJSONPath

	b.mount(func(r *mux.Router) {
		r.HandleFunc(DocsJSONPath, func(w http.ResponseWriter, _ *http.Request) {
			body, err := json.Marshal(doc)
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write(body)
		}).Methods(http.MethodGet)

		r.PathPrefix(DocsUIPrefix).HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			file, err := ui.Serve(strings.TrimPrefix(req.URL.Path, DocsUIPrefix), cfg)
			switch {
			case err != nil:
				w.Header().Set("Content-Type", "text/plain; charset=utf-8")
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(err.Error()))
			case file == nil:
				w.WriteHeader(http.StatusNotFound)
			default:
				w.Header().Set("Content-Type", file.ContentType)
				_, _ = w.Write(file.Bytes)
			}
		}).Methods(http.MethodGet)
	})
	return b
}

// AddMetrics records request metrics for everything added so far and serves
// gatherer at MetricsPath. Nil arguments select the Prometheus defaults.
func (b *Builder) AddMetrics(reg prometheus.Registerer, gatherer prometheus.Gatherer) *Builder {
	b.mustConfigure("AddMetrics")
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	m, err := middleware.NewMetrics(reg, b.name)
	if err != nil {
		panic("programming error: webhost.Builder.AddMetrics: " + err.Error())
	}
	b.handler = m.Middleware()(b.handler)
	b.mount(func(r *mux.Router) {
		r.Handle(MetricsPath, promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	})
	return b
}
