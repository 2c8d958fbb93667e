package logger

import (
	"sync"

	"github.com/rs/zerolog"
)

// Zerolog forwards messages to a zerolog logger.
type Zerolog struct {
	log *zerolog.Logger
}

// NewZerolog wraps l. A nil logger discards everything.
func NewZerolog(l *zerolog.Logger) *Zerolog {
	if l == nil {
		nop := zerolog.Nop()
		l = &nop
	}
	return &Zerolog{log: l}
}

// Information implements Logger.
func (z *Zerolog) Information(message string) { z.log.Info().Msg(message) }

// Warning implements Logger.
func (z *Zerolog) Warning(message string) { z.log.Warn().Msg(message) }

// Error implements Logger.
func (z *Zerolog) Error(message string) { z.log.Error().Msg(message) }

// Nop discards every message.
type Nop struct{}

func (Nop) Information(string) {}
func (Nop) Warning(string)     {}
func (Nop) Error(string)       {}

// Entry is one recorded message.
type Entry struct {
	Severity Severity
	Message  string
}

// Recorder keeps every message in memory. It is safe for concurrent use.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Information implements Logger.
func (r *Recorder) Information(message string) { r.record(Information, message) }

// Warning implements Logger.
func (r *Recorder) Warning(message string) { r.record(Warning, message) }

// Error implements Logger.
func (r *Recorder) Error(message string) { r.record(Error, message) }

func (r *Recorder) record(severity Severity, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, Entry{Severity: severity, Message: message})
}

// Entries returns a copy of the recorded messages in call order.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Len returns the number of recorded messages.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Reset discards the recorded messages.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = nil
}

type multi []Logger

// Multi fans each message out to every non-nil logger in order.
func Multi(loggers ...Logger) Logger {
	out := make(multi, 0, len(loggers))
	for _, l := range loggers {
		if l != nil {
			out = append(out, l)
		}
	}
	return out
}

func (m multi) Information(message string) { m.send(Information, message) }
func (m multi) Warning(message string)     { m.send(Warning, message) }
func (m multi) Error(message string)       { m.send(Error, message) }

func (m multi) send(severity Severity, message string) {
	for _, l := range m {
		dispatch(l, severity, message)
	}
}

var (
	_ Logger = (*AppInsights)(nil)
	_ Logger = (*Zerolog)(nil)
	_ Logger = Nop{}
	_ Logger = (*Recorder)(nil)
)
