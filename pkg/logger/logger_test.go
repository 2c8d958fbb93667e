package logger_test

import (
	"sync"
	"testing"

	"github.com/microsoft/ApplicationInsights-Go/appinsights/contracts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/webhost/pkg/logger"
	"github.com/agentstation/webhost/pkg/logging"
)

func TestSeverity(t *testing.T) {
	tests := []struct {
		severity logger.Severity
		name     string
		level    contracts.SeverityLevel
	}{
		{logger.Information, "information", contracts.Information},
		{logger.Warning, "warning", contracts.Warning},
		{logger.Error, "error", contracts.Error},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name, tt.severity.String())
			assert.Equal(t, tt.level, tt.severity.SeverityLevel())
		})
	}
	assert.Equal(t, "severity(7)", logger.Severity(7).String())
}

func TestRecorder(t *testing.T) {
	rec := logger.NewRecorder()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec.Warning("concurrent")
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, rec.Len())

	rec.Reset()
	rec.Information("a")
	rec.Error("b")
	assert.Equal(t, []logger.Entry{
		{Severity: logger.Information, Message: "a"},
		{Severity: logger.Error, Message: "b"},
	}, rec.Entries())
}

func TestZerolog(t *testing.T) {
	tl := logging.NewTestLogger(t)
	l := logger.NewZerolog(tl.Logger)

	l.Information("hello")
	l.Warning("careful")
	l.Error("broken")

	lines := tl.Lines()
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], `"level":"info"`)
	assert.Contains(t, lines[0], `"message":"hello"`)
	assert.Contains(t, lines[1], `"level":"warn"`)
	assert.Contains(t, lines[2], `"level":"error"`)

	assert.NotPanics(t, func() { logger.NewZerolog(nil).Error("dropped") })
}

func TestMulti(t *testing.T) {
	a, b := logger.NewRecorder(), logger.NewRecorder()
	m := logger.Multi(a, nil, logger.Nop{}, b)

	m.Information("one")
	m.Warning("two")
	m.Error("three")

	want := []logger.Entry{
		{Severity: logger.Information, Message: "one"},
		{Severity: logger.Warning, Message: "two"},
		{Severity: logger.Error, Message: "three"},
	}
	assert.Equal(t, want, a.Entries())
	assert.Equal(t, want, b.Entries())
}
