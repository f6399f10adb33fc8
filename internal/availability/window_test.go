package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/calfewer/internal/store"
)

func TestParseTimeType(t *testing.T) {
	tt, err := ParseTimeType("")
	require.NoError(t, err)
	assert.Equal(t, TimeTypeAllDay, tt)

	tt, err = ParseTimeType("weekend")
	require.NoError(t, err)
	assert.Equal(t, TimeTypeWeekend, tt)

	_, err = ParseTimeType("afternoon")
	assert.Error(t, err)
}

func TestParseEveningHours(t *testing.T) {
	eh, err := ParseEveningHours("18:30", "22:00")
	require.NoError(t, err)
	assert.Equal(t, EveningHours{StartHour: 18, StartMinute: 30, EndHour: 22}, eh)

	// Inverted ranges are accepted; each bound is validated on its own.
	_, err = ParseEveningHours("21:00", "17:00")
	assert.NoError(t, err)

	for _, bad := range []string{"24:00", "17:60", "1700", "", "ab:cd"} {
		_, err = ParseEveningHours(bad, "21:00")
		assert.Error(t, err, bad)
	}
}

func TestResolveWindow(t *testing.T) {
	evening := DefaultEveningHours()
	tuesday := time.Date(2026, 3, 10, 0, 0, 0, 0, time.Local)
	saturday := time.Date(2026, 3, 14, 0, 0, 0, 0, time.Local)

	allDay := ResolveWindow(tuesday, TimeTypeAllDay, evening)
	assert.Equal(t, TimeTypeAllDay, allDay.Effective)
	assert.Equal(t, tuesday, allDay.Start)
	assert.Equal(t, tuesday.AddDate(0, 0, 1), allDay.End)
	assert.Equal(t, 24*time.Hour, allDay.Duration())

	// Weekend on a Tuesday means the evening range, but the window still
	// remembers what was asked for.
	weekday := ResolveWindow(tuesday, TimeTypeWeekend, evening)
	assert.Equal(t, TimeTypeEvening, weekday.Effective)
	assert.Equal(t, TimeTypeWeekend, weekday.Requested)
	assert.Equal(t, 17, weekday.Start.Hour())
	assert.Equal(t, 21, weekday.End.Hour())

	// Weekend on a Saturday means the whole day.
	sat := ResolveWindow(saturday, TimeTypeWeekend, evening)
	assert.Equal(t, TimeTypeAllDay, sat.Effective)
	assert.Equal(t, saturday, sat.Start)
	assert.Equal(t, saturday.AddDate(0, 0, 1), sat.End)
}

func TestIsConflicting(t *testing.T) {
	evening := DefaultEveningHours()
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.Local)
	window := ResolveWindow(date, TimeTypeEvening, evening)

	at := func(h, m int, dur time.Duration) store.Appointment {
		start := time.Date(2026, 3, 10, h, m, 0, 0, time.Local)
		return store.Appointment{Start: start, End: start.Add(dur)}
	}

	tests := []struct {
		name string
		appt store.Appointment
		want bool
	}{
		{"inside", at(18, 0, time.Hour), true},
		{"spans window", at(12, 0, 12*time.Hour), true},
		{"ends at window start", at(16, 0, time.Hour), false},
		{"starts at window end", at(21, 0, time.Hour), false},
		{"crosses window start", at(16, 30, time.Hour), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsConflicting(tt.appt, window))
		})
	}
}

func TestIsConflictingAllDayEvents(t *testing.T) {
	evening := DefaultEveningHours()
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.Local)

	allDay := store.Appointment{
		Start:  date,
		End:    date.AddDate(0, 0, 1),
		AllDay: true,
	}

	// All-day events block full days but not evenings.
	assert.False(t, IsConflicting(allDay, ResolveWindow(date, TimeTypeEvening, evening)))
	assert.True(t, IsConflicting(allDay, ResolveWindow(date, TimeTypeAllDay, evening)))

	// A weekend query counts all-day events even on weekdays, where the
	// resolved window is the evening range. March 10th is a Tuesday.
	weekday := ResolveWindow(date, TimeTypeWeekend, evening)
	assert.Equal(t, TimeTypeEvening, weekday.Effective)
	assert.True(t, IsConflicting(allDay, weekday))

	saturday := time.Date(2026, 3, 14, 0, 0, 0, 0, time.Local)
	satAllDay := store.Appointment{Start: saturday, End: saturday.AddDate(0, 0, 1), AllDay: true}
	assert.True(t, IsConflicting(satAllDay, ResolveWindow(saturday, TimeTypeWeekend, evening)))
}
