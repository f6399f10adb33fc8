package calendar_tools

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/calfewer/internal/availability"
	"github.com/teemow/calfewer/internal/filter"
	"github.com/teemow/calfewer/internal/server"
	"github.com/teemow/calfewer/internal/store"
)

func TestParseDateHorizon(t *testing.T) {
	today := time.Now().Format(dateLayout)
	if _, err := parseDate(today); err != nil {
		t.Fatalf("today should parse: %v", err)
	}

	tooOld := time.Now().AddDate(-1, 0, -2).Format(dateLayout)
	_, err := parseDate(tooOld)
	assert.Error(t, err)

	tooFar := time.Now().AddDate(2, 0, 2).Format(dateLayout)
	_, err = parseDate(tooFar)
	assert.Error(t, err)
}

func TestParseDatesLimit(t *testing.T) {
	_, err := parseDates(nil)
	require.Error(t, err)

	values := make([]string, maxDatesPerCall+1)
	for i := range values {
		values[i] = time.Now().AddDate(0, 0, i).Format(dateLayout)
	}
	_, err = parseDates(values)
	require.Error(t, err)

	dates, err := parseDates(values[:3])
	require.NoError(t, err)
	assert.Len(t, dates, 3)
}

func TestDateRangeExpand(t *testing.T) {
	start := time.Now().AddDate(0, 0, 1)
	end := start.AddDate(0, 0, 4)

	days, err := dateRange{
		Start: start.Format(dateLayout),
		End:   end.Format(dateLayout),
	}.expand()
	require.NoError(t, err)
	assert.Len(t, days, 5)

	_, err = dateRange{Start: end.Format(dateLayout), End: start.Format(dateLayout)}.expand()
	assert.Error(t, err)

	_, err = dateRange{Start: start.Format(dateLayout)}.expand()
	assert.Error(t, err)

	wide := start.AddDate(0, 0, maxDatesPerCall)
	_, err = dateRange{Start: start.Format(dateLayout), End: wide.Format(dateLayout)}.expand()
	assert.Error(t, err)
}

func TestParseDatetimeLayouts(t *testing.T) {
	for _, value := range []string{
		"2026-03-10T14:30:00Z",
		"2026-03-10T14:30:00",
		"2026-03-10 14:30:00",
		"2026-03-10 14:30",
	} {
		if _, err := parseDatetime(value); err != nil {
			t.Errorf("parseDatetime(%q) = %v", value, err)
		}
	}

	_, err := parseDatetime("next tuesday")
	assert.Error(t, err)
}

func TestResolveEveningHoursDefault(t *testing.T) {
	eh, err := resolveEveningHours(nil)
	require.NoError(t, err)
	assert.Equal(t, availability.DefaultEveningHours(), eh)

	eh, err = resolveEveningHours(&eveningHoursArg{Start: "18:30", End: "22:00"})
	require.NoError(t, err)
	assert.Equal(t, 18, eh.StartHour)
	assert.Equal(t, 30, eh.StartMinute)

	_, err = resolveEveningHours(&eveningHoursArg{Start: "24:00", End: "22:00"})
	assert.Error(t, err)
}

func TestSelectCalendars(t *testing.T) {
	mem := store.NewMemory()
	work := mem.AddCalendar(store.Calendar{Name: "Work", Account: "Exchange", Kind: store.SourceExchange, Writable: true})
	home := mem.AddCalendar(store.Calendar{Name: "Home", Account: "iCloud", Kind: store.SourceCalDAV, Writable: true})
	mem.AddCalendar(store.Calendar{Name: "Birthdays", Account: "iCloud", Kind: store.SourceBirthdays, Writable: false})

	sc := server.NewServerContext(context.Background(), server.Options{Store: mem})
	t.Cleanup(func() { _ = sc.Shutdown() })
	ctx := context.Background()

	// Explicit names win and match case-insensitively.
	selected, err := selectCalendars(ctx, sc, []string{"work", "HOME"}, nil)
	require.NoError(t, err)
	require.Len(t, selected, 2)
	assert.Equal(t, work.ID, selected[0].ID)
	assert.Equal(t, home.ID, selected[1].ID)

	_, err = selectCalendars(ctx, sc, []string{"Nope"}, nil)
	assert.ErrorIs(t, err, store.ErrNotFound)

	// The main preset is the default and drops the birthday calendar.
	selected, err = selectCalendars(ctx, sc, nil, nil)
	require.NoError(t, err)
	for _, cal := range selected {
		assert.NotEqual(t, store.SourceBirthdays, cal.Kind)
	}

	// An explicit filter replaces the default preset.
	selected, err = selectCalendars(ctx, sc, nil, &filter.CalendarFilter{Preset: filter.PresetAll})
	require.NoError(t, err)
	assert.Len(t, selected, 3)
}
