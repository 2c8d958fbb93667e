// Package logger defines the severity-tagged logging capability that
// application code and request handlers depend on, together with its
// adapters.
//
// Calls are fire-and-forget and carry no structured fields. Use pkg/logging
// for the process's own structured diagnostics.
//
//	ai := logger.NewAppInsights(os.Getenv("WEBHOST_INSTRUMENTATION_KEY"))
//	defer ai.Close(context.Background())
//
//	ai.Information("todo created")
//	ai.Warning("cache miss")
//	ai.Error("payment provider unreachable")
package logger

import (
	"fmt"

	"github.com/microsoft/ApplicationInsights-Go/appinsights/contracts"
)

// Logger is the logging capability handed to application code.
type Logger interface {
	Information(message string)
	Warning(message string)
	Error(message string)
}

// Severity classifies a message.
type Severity int

const (
	// Information is routine operational output.
	Information Severity = iota
	// Warning marks a recoverable problem.
	Warning
	// Error marks a failed operation.
	Error
)

// String returns the severity name.
func (s Severity) String() string {
	switch s {
	case Information:
		return "information"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// SeverityLevel maps the severity onto the telemetry contract level.
func (s Severity) SeverityLevel() contracts.SeverityLevel {
	switch s {
	case Warning:
		return contracts.Warning
	case Error:
		return contracts.Error
	default:
		return contracts.Information
	}
}

// dispatch calls the Logger method that matches severity.
func dispatch(l Logger, severity Severity, message string) {
	switch severity {
	case Warning:
		l.Warning(message)
	case Error:
		l.Error(message)
	default:
		l.Information(message)
	}
}
