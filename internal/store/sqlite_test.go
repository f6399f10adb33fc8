package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openSQLite(t *testing.T) (*SQLite, Calendar) {
	t.Helper()
	s := NewSQLite(filepath.Join(t.TempDir(), "cal.db"))
	require.NoError(t, s.Open())
	t.Cleanup(func() { _ = s.Close() })

	cal, err := s.AddCalendar(context.Background(),
		Calendar{Name: "Work", Account: "Exchange", Kind: SourceExchange, Writable: true})
	require.NoError(t, err)
	return s, cal
}

func TestSQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, cal := openSQLite(t)

	until := time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)
	start := time.Date(2025, 8, 15, 9, 0, 0, 0, time.UTC)
	created, err := s.CreateEvent(ctx, Appointment{
		CalendarID:   cal.ID,
		Title:        "Weekly sync",
		Start:        start,
		End:          start.Add(time.Hour),
		Location:     "Room 4",
		Notes:        "agenda in doc",
		Availability: AvailabilityBusy,
		Alarms:       []time.Duration{10 * time.Minute, time.Hour},
		Recurrence: &Recurrence{
			Frequency:  "weekly",
			Interval:   1,
			Until:      &until,
			DaysOfWeek: []string{"friday"},
		},
	})
	require.NoError(t, err)

	got, err := s.GetEvent(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Weekly sync", got.Title)
	assert.Equal(t, "Work", got.CalendarName)
	assert.True(t, got.Start.Equal(start))
	assert.Equal(t, []time.Duration{10 * time.Minute, time.Hour}, got.Alarms)
	require.NotNil(t, got.Recurrence)
	assert.Equal(t, "weekly", got.Recurrence.Frequency)

	got.Title = "Weekly sync (moved)"
	_, err = s.UpdateEvent(ctx, got)
	require.NoError(t, err)

	events, err := s.QueryEvents(ctx, start.Add(-time.Hour), start.Add(2*time.Hour), []string{cal.ID})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Weekly sync (moved)", events[0].Title)

	require.NoError(t, s.DeleteEvent(ctx, created.ID, SpanFutureEvents))
	_, err = s.GetEvent(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteReadOnlyCalendar(t *testing.T) {
	ctx := context.Background()
	s, _ := openSQLite(t)

	ro, err := s.AddCalendar(ctx, Calendar{Name: "US Holidays", Account: "Subscribed", Kind: SourceSubscribed})
	require.NoError(t, err)

	start := time.Date(2025, 8, 15, 9, 0, 0, 0, time.UTC)
	_, err = s.CreateEvent(ctx, Appointment{CalendarID: ro.ID, Title: "x", Start: start, End: start.Add(time.Hour)})
	assert.ErrorIs(t, err, ErrReadOnly)
}

func TestSQLiteQueryBoundaryExclusive(t *testing.T) {
	ctx := context.Background()
	s, cal := openSQLite(t)

	windowStart := time.Date(2025, 8, 15, 17, 0, 0, 0, time.UTC)
	_, err := s.CreateEvent(ctx, Appointment{
		CalendarID: cal.ID, Title: "before",
		Start: windowStart.Add(-time.Hour), End: windowStart,
	})
	require.NoError(t, err)

	events, err := s.QueryEvents(ctx, windowStart, windowStart.Add(4*time.Hour), nil)
	require.NoError(t, err)
	assert.Empty(t, events)
}
