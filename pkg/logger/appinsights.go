package logger

import (
	"context"
	"time"

	"github.com/microsoft/ApplicationInsights-Go/appinsights"
	"github.com/microsoft/ApplicationInsights-Go/appinsights/contracts"
)

// FlushInterval is how long the telemetry channel buffers traces before
// submitting a batch.
const FlushInterval = 5 * time.Second

// traceTracker is the part of the telemetry client the adapter calls.
type traceTracker interface {
	TrackTrace(message string, severity contracts.SeverityLevel)
}

// AppInsights forwards messages to Azure Application Insights as trace
// telemetry. Submission is batched and asynchronous; failures are never
// reported to the caller.
type AppInsights struct {
	tracker traceTracker
	client  appinsights.TelemetryClient
}

// AppInsightsOption customizes the telemetry client.
type AppInsightsOption func(*appInsightsOptions)

type appInsightsOptions struct {
	endpoint string
	role     string
}

// WithEndpoint overrides the ingestion endpoint URL.
func WithEndpoint(url string) AppInsightsOption {
	return func(o *appInsightsOptions) {
		o.endpoint = url
	}
}

// WithRole sets the cloud role name attached to every trace.
func WithRole(name string) AppInsightsOption {
	return func(o *appInsightsOptions) {
		o.role = name
	}
}

// NewAppInsights creates an adapter for the given instrumentation key. The
// key is not validated; an empty or unknown key is the backend's concern.
func NewAppInsights(instrumentationKey string, opts ...AppInsightsOption) *AppInsights {
	var o appInsightsOptions
	for _, opt := range opts {
		opt(&o)
	}

	cfg := appinsights.NewTelemetryConfiguration(instrumentationKey)
	cfg.MaxBatchInterval = FlushInterval
	if o.endpoint != "" {
		cfg.EndpointUrl = o.endpoint
	}

	client := appinsights.NewTelemetryClientFromConfig(cfg)
	if o.role != "" {
		client.Context().Tags.Cloud().SetRole(o.role)
	}

	return &AppInsights{tracker: client, client: client}
}

// Information implements Logger.
func (a *AppInsights) Information(message string) {
	a.track(Information, message)
}

// Warning implements Logger.
func (a *AppInsights) Warning(message string) {
	a.track(Warning, message)
}

// Error implements Logger.
func (a *AppInsights) Error(message string) {
	a.track(Error, message)
}

func (a *AppInsights) track(severity Severity, message string) {
	a.tracker.TrackTrace(message, severity.SeverityLevel())
}

// Flush submits buffered traces without waiting for the interval.
func (a *AppInsights) Flush() {
	if a.client != nil {
		a.client.Channel().Flush()
	}
}

// Close flushes buffered traces and stops the channel. It returns when the
// final submission has been attempted or ctx is done.
func (a *AppInsights) Close(ctx context.Context) error {
	if a.client == nil {
		return nil
	}
	select {
	case <-a.client.Channel().Close():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
