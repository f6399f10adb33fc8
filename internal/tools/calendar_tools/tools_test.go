package calendar_tools

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/calfewer/internal/availability"
	"github.com/teemow/calfewer/internal/rpc"
	"github.com/teemow/calfewer/internal/server"
	"github.com/teemow/calfewer/internal/store"
)

// testDate is a weekday inside the supported horizon relative to the tests'
// runtime, kept close to today so the horizon check never trips.
func testDate(t *testing.T) string {
	t.Helper()
	return time.Now().AddDate(0, 0, 7).Format("2006-01-02")
}

func newTestRegistry(t *testing.T) (*Registry, *store.Memory) {
	t.Helper()

	mem := store.NewMemory()
	work := mem.AddCalendar(store.Calendar{
		Name:     "Work",
		Account:  "Exchange",
		Kind:     store.SourceExchange,
		Writable: true,
	})
	mem.AddCalendar(store.Calendar{
		Name:     "US Holidays",
		Account:  "iCloud",
		Kind:     store.SourceSubscribed,
		Writable: false,
	})

	day, err := time.ParseInLocation("2006-01-02", testDate(t), time.Local)
	require.NoError(t, err)
	mem.AddEvent(store.Appointment{
		CalendarID:   work.ID,
		CalendarName: work.Name,
		Title:        "Sprint planning",
		Start:        day.Add(10 * time.Hour),
		End:          day.Add(11 * time.Hour),
		Availability: store.AvailabilityBusy,
	})

	sc := server.NewServerContext(context.Background(), server.Options{Store: mem})
	t.Cleanup(func() { _ = sc.Shutdown() })
	return NewRegistry(sc, nil), mem
}

func invalidParamsCode(t *testing.T, err error) {
	t.Helper()
	var rpcErr *rpc.Error
	require.True(t, errors.As(err, &rpcErr), "expected an rpc error, got %v", err)
	assert.Equal(t, rpc.CodeInvalidParams, rpcErr.Code)
}

func TestCatalog(t *testing.T) {
	reg, _ := newTestRegistry(t)

	tools := reg.Catalog()
	require.Len(t, tools, 7)

	names := make([]string, len(tools))
	for i, tool := range tools {
		names[i] = tool.Name
		assert.NotEmpty(t, tool.Description, "tool %s has no description", tool.Name)
	}
	assert.Equal(t, []string{
		ToolCheckConflicts,
		ToolGetEvents,
		ToolFindSlots,
		ToolListCalendars,
		ToolCreateEvent,
		ToolModifyEvent,
		ToolDeleteEvent,
	}, names)
}

func TestCallUnknownTool(t *testing.T) {
	reg, _ := newTestRegistry(t)

	_, err := reg.Call(context.Background(), "bogus_tool", map[string]any{})
	invalidParamsCode(t, err)
}

func TestCheckConflicts(t *testing.T) {
	reg, _ := newTestRegistry(t)
	date := testDate(t)

	result, err := reg.Call(context.Background(), ToolCheckConflicts, map[string]any{
		"dates": []any{date},
	})
	require.NoError(t, err)

	days, ok := result.(map[string]availability.DayConflicts)
	require.True(t, ok)
	require.Contains(t, days, date)
	assert.Equal(t, availability.StatusConflict, days[date].Status)

	free, err := reg.Call(context.Background(), ToolCheckConflicts, map[string]any{
		"dates":     []any{date},
		"time_type": "evening",
	})
	require.NoError(t, err)
	freeDays := free.(map[string]availability.DayConflicts)
	assert.Equal(t, availability.StatusAvailable, freeDays[date].Status)
}

func TestCheckConflictsBadArgs(t *testing.T) {
	reg, _ := newTestRegistry(t)

	tests := []struct {
		name string
		args map[string]any
	}{
		{"missing dates", map[string]any{}},
		{"empty dates", map[string]any{"dates": []any{}}},
		{"bad date format", map[string]any{"dates": []any{"03/10/2026"}}},
		{"date too far out", map[string]any{"dates": []any{time.Now().AddDate(3, 0, 0).Format("2006-01-02")}}},
		{"bad time_type", map[string]any{"dates": []any{testDate(t)}, "time_type": "mornings"}},
		{"bad evening hours", map[string]any{
			"dates":         []any{testDate(t)},
			"evening_hours": map[string]any{"start": "25:00", "end": "21:00"},
		}},
		{"unknown calendar", map[string]any{
			"dates":          []any{testDate(t)},
			"calendar_names": []any{"Nope"},
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := reg.Call(context.Background(), ToolCheckConflicts, tc.args)
			require.Error(t, err)
		})
	}
}

func TestGetEvents(t *testing.T) {
	reg, _ := newTestRegistry(t)
	date := testDate(t)

	result, err := reg.Call(context.Background(), ToolGetEvents, map[string]any{
		"start_date": date,
		"end_date":   date,
	})
	require.NoError(t, err)

	payload, ok := result.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 1, payload["count"])

	views, ok := payload["events"].([]eventView)
	require.True(t, ok)
	require.Len(t, views, 1)
	assert.Equal(t, "Sprint planning", views[0].Title)
	assert.Equal(t, "Work", views[0].Calendar)
}

func TestGetEventsMissingBounds(t *testing.T) {
	reg, _ := newTestRegistry(t)

	_, err := reg.Call(context.Background(), ToolGetEvents, map[string]any{
		"end_date": testDate(t),
	})
	invalidParamsCode(t, err)

	_, err = reg.Call(context.Background(), ToolGetEvents, map[string]any{
		"start_date": testDate(t),
	})
	invalidParamsCode(t, err)
}

func TestFindSlots(t *testing.T) {
	reg, _ := newTestRegistry(t)
	date := testDate(t)

	result, err := reg.Call(context.Background(), ToolFindSlots, map[string]any{
		"date_range":       map[string]any{"start": date, "end": date},
		"duration_minutes": float64(60),
	})
	require.NoError(t, err)
	require.NotNil(t, result)
}

func TestFindSlotsDurationBounds(t *testing.T) {
	reg, _ := newTestRegistry(t)
	date := testDate(t)

	for _, minutes := range []float64{0, -5, 1441} {
		_, err := reg.Call(context.Background(), ToolFindSlots, map[string]any{
			"date_range":       map[string]any{"start": date, "end": date},
			"duration_minutes": minutes,
		})
		invalidParamsCode(t, err)
	}
}

func TestListCalendars(t *testing.T) {
	reg, _ := newTestRegistry(t)

	result, err := reg.Call(context.Background(), ToolListCalendars, map[string]any{})
	require.NoError(t, err)

	payload, ok := result.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 2, payload["count"])
}

func TestCreateAndModifyAndDelete(t *testing.T) {
	reg, mem := newTestRegistry(t)
	date := testDate(t)

	result, err := reg.Call(context.Background(), ToolCreateEvent, map[string]any{
		"title":          "Dentist",
		"start_datetime": date + "T09:00:00",
		"end_datetime":   date + "T09:30:00",
		"calendar":       "Work",
	})
	require.NoError(t, err)

	payload := result.(map[string]any)
	assert.Equal(t, true, payload["success"])
	created := payload["event"].(eventView)
	require.NotEmpty(t, created.ID)

	_, err = reg.Call(context.Background(), ToolModifyEvent, map[string]any{
		"event_id": created.ID,
		"title":    "Dentist (moved)",
	})
	require.NoError(t, err)

	appt, err := mem.GetEvent(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dentist (moved)", appt.Title)

	_, err = reg.Call(context.Background(), ToolDeleteEvent, map[string]any{
		"event_id": created.ID,
	})
	require.NoError(t, err)

	_, err = mem.GetEvent(context.Background(), created.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCreateEventMissingFields(t *testing.T) {
	reg, _ := newTestRegistry(t)
	date := testDate(t)

	tests := []struct {
		name string
		args map[string]any
	}{
		{"missing title", map[string]any{
			"start_datetime": date + "T09:00:00",
			"end_datetime":   date + "T10:00:00",
		}},
		{"missing start", map[string]any{
			"title":        "Dentist",
			"end_datetime": date + "T10:00:00",
		}},
		{"missing end", map[string]any{
			"title":          "Dentist",
			"start_datetime": date + "T09:00:00",
		}},
		{"bad recurrence frequency", map[string]any{
			"title":          "Standup",
			"start_datetime": date + "T09:00:00",
			"end_datetime":   date + "T09:15:00",
			"recurrence":     map[string]any{"frequency": "hourly"},
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := reg.Call(context.Background(), ToolCreateEvent, tc.args)
			invalidParamsCode(t, err)
		})
	}
}

func TestCreateEventReadOnlyCalendar(t *testing.T) {
	reg, _ := newTestRegistry(t)
	date := testDate(t)

	_, err := reg.Call(context.Background(), ToolCreateEvent, map[string]any{
		"title":          "Oops",
		"start_datetime": date + "T09:00:00",
		"end_datetime":   date + "T10:00:00",
		"calendar":       "US Holidays",
	})
	assert.ErrorIs(t, err, store.ErrReadOnly)
}

func TestDeleteEventBadScope(t *testing.T) {
	reg, _ := newTestRegistry(t)

	_, err := reg.Call(context.Background(), ToolDeleteEvent, map[string]any{
		"event_id":         "whatever",
		"delete_recurring": "some_of_them",
	})
	invalidParamsCode(t, err)
}
