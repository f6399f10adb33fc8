package calendar_tools

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/calfewer/internal/instrumentation"
	"github.com/teemow/calfewer/internal/server"
	"github.com/teemow/calfewer/internal/store"
)

func newAuditedRegistry(t *testing.T, includePII bool) (*Registry, *bytes.Buffer) {
	t.Helper()

	mem := store.NewMemory()
	mem.AddCalendar(store.Calendar{
		Name:     "Work",
		Account:  "Exchange",
		Kind:     store.SourceExchange,
		Writable: true,
	})

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	audit := instrumentation.NewAuditLoggerWithConfig(logger, instrumentation.AuditLoggingConfig{
		Enabled:    true,
		IncludePII: includePII,
	})

	sc := server.NewServerContext(context.Background(), server.Options{Store: mem})
	t.Cleanup(func() { _ = sc.Shutdown() })
	return NewRegistry(sc, audit), &buf
}

func TestCallWritesAuditRecord(t *testing.T) {
	reg, buf := newAuditedRegistry(t, false)

	_, err := reg.Call(context.Background(), ToolListCalendars, map[string]any{})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `"msg":"tool_executed"`)
	assert.Contains(t, out, `"tool":"list_calendars"`)
	assert.Contains(t, out, `"operation":"list_calendars"`)
	assert.Contains(t, out, `"success":true`)
}

func TestCallAuditsFailures(t *testing.T) {
	reg, buf := newAuditedRegistry(t, false)

	_, err := reg.Call(context.Background(), ToolCreateEvent, map[string]any{})
	require.Error(t, err)

	out := buf.String()
	assert.Contains(t, out, `"msg":"tool_failed"`)
	assert.Contains(t, out, `"success":false`)
	assert.Contains(t, out, "missing required parameter: title")
}

func TestCallAuditRedactsScheduleDetails(t *testing.T) {
	start := time.Now().AddDate(0, 0, 7).Truncate(time.Hour)
	args := map[string]any{
		"title":          "Dentist",
		"start_datetime": start.Format("2006-01-02T15:04:05"),
		"end_datetime":   start.Add(time.Hour).Format("2006-01-02T15:04:05"),
		"calendar":       "Work",
	}

	reg, buf := newAuditedRegistry(t, false)
	_, err := reg.Call(context.Background(), ToolCreateEvent, args)
	require.NoError(t, err)
	assert.NotContains(t, buf.String(), "Dentist")
	assert.Contains(t, buf.String(), `"operation":"create_event"`)

	// With PII enabled the same call records the calendar and title.
	reg, buf = newAuditedRegistry(t, true)
	_, err = reg.Call(context.Background(), ToolCreateEvent, args)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"title":"Dentist"`)
	assert.Contains(t, buf.String(), `"calendar":"Work"`)
}
