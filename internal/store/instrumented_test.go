package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/calfewer/internal/instrumentation"
)

func newInstrumentedMemory(t *testing.T) (*Instrumented, *Memory) {
	t.Helper()
	m := NewMemory()
	m.AddCalendar(Calendar{Name: "Work", Account: "Exchange", Kind: SourceExchange, Writable: true})
	return NewInstrumented(m, &instrumentation.Metrics{}), m
}

func TestInstrumentedPassesThrough(t *testing.T) {
	s, _ := newInstrumentedMemory(t)
	ctx := context.Background()

	cals, err := s.ListCalendars(ctx)
	require.NoError(t, err)
	require.Len(t, cals, 1)

	start := time.Date(2026, 4, 1, 10, 0, 0, 0, time.Local)
	created, err := s.CreateEvent(ctx, Appointment{
		CalendarID: cals[0].ID,
		Title:      "Review",
		Start:      start,
		End:        start.Add(time.Hour),
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	got, err := s.GetEvent(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Review", got.Title)

	got.Title = "Design review"
	updated, err := s.UpdateEvent(ctx, got)
	require.NoError(t, err)
	assert.Equal(t, "Design review", updated.Title)

	appts, err := s.QueryEvents(ctx, start.Add(-time.Hour), start.Add(2*time.Hour), nil)
	require.NoError(t, err)
	assert.Len(t, appts, 1)

	require.NoError(t, s.DeleteEvent(ctx, created.ID, SpanThisEvent))
	_, err = s.GetEvent(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInstrumentedPropagatesErrors(t *testing.T) {
	s, _ := newInstrumentedMemory(t)
	ctx := context.Background()

	_, err := s.GetEvent(ctx, "no-such-event")
	assert.ErrorIs(t, err, ErrNotFound)

	err = s.DeleteEvent(ctx, "no-such-event", SpanThisEvent)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInstrumentedNilMetrics(t *testing.T) {
	s := NewInstrumented(NewMemory(), nil)

	// Without a metrics recorder the wrapper still works and still emits
	// spans through the global tracer provider.
	cals, err := s.ListCalendars(context.Background())
	require.NoError(t, err)
	assert.Empty(t, cals)
}
