package availability

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/teemow/calfewer/internal/store"
)

// TimeType selects which part of a day a query is about.
type TimeType string

const (
	TimeTypeAllDay  TimeType = "all_day"
	TimeTypeEvening TimeType = "evening"
	TimeTypeWeekend TimeType = "weekend"
)

// ParseTimeType validates a wire value, defaulting empty to all_day.
func ParseTimeType(s string) (TimeType, error) {
	switch TimeType(s) {
	case "":
		return TimeTypeAllDay, nil
	case TimeTypeAllDay, TimeTypeEvening, TimeTypeWeekend:
		return TimeType(s), nil
	default:
		return "", fmt.Errorf("unknown time_type %q", s)
	}
}

// EveningHours is the clock range used for evening windows.
type EveningHours struct {
	StartHour   int
	StartMinute int
	EndHour     int
	EndMinute   int
}

// DefaultEveningHours spans 17:00 to 21:00.
func DefaultEveningHours() EveningHours {
	return EveningHours{StartHour: 17, EndHour: 21}
}

// ParseEveningHours parses two "HH:MM" values. Start and end are validated
// independently; an inverted range is the caller's business.
func ParseEveningHours(start, end string) (EveningHours, error) {
	sh, sm, err := parseClock(start)
	if err != nil {
		return EveningHours{}, fmt.Errorf("evening_hours start: %w", err)
	}
	eh, em, err := parseClock(end)
	if err != nil {
		return EveningHours{}, fmt.Errorf("evening_hours end: %w", err)
	}
	return EveningHours{StartHour: sh, StartMinute: sm, EndHour: eh, EndMinute: em}, nil
}

func parseClock(s string) (hour, minute int, err error) {
	h, m, ok := strings.Cut(s, ":")
	if !ok {
		return 0, 0, fmt.Errorf("invalid clock value %q, want HH:MM", s)
	}
	hour, err = strconv.Atoi(h)
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid hour in %q", s)
	}
	minute, err = strconv.Atoi(m)
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid minute in %q", s)
	}
	return hour, minute, nil
}

// Window is a concrete half-open time range on one date.
type Window struct {
	Start time.Time
	End   time.Time
	// Requested is the time type the caller asked for, before weekend
	// resolution. All-day handling depends on it, not on the resolved
	// range.
	Requested TimeType
	// Effective is the time type after weekend resolution, either
	// all_day or evening.
	Effective TimeType
}

// Duration returns the window length.
func (w Window) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

// ResolveWindow turns a date and time type into a concrete window. Weekend
// resolves to a full day on Friday through Sunday and to the evening range
// on other weekdays.
func ResolveWindow(date time.Time, timeType TimeType, evening EveningHours) Window {
	year, month, day := date.Date()
	loc := date.Location()

	effective := timeType
	if timeType == TimeTypeWeekend {
		switch date.Weekday() {
		case time.Friday, time.Saturday, time.Sunday:
			effective = TimeTypeAllDay
		default:
			effective = TimeTypeEvening
		}
	}

	if effective == TimeTypeEvening {
		return Window{
			Start:     time.Date(year, month, day, evening.StartHour, evening.StartMinute, 0, 0, loc),
			End:       time.Date(year, month, day, evening.EndHour, evening.EndMinute, 0, 0, loc),
			Requested: timeType,
			Effective: TimeTypeEvening,
		}
	}

	midnight := time.Date(year, month, day, 0, 0, 0, 0, loc)
	return Window{
		Start:     midnight,
		End:       midnight.AddDate(0, 0, 1),
		Requested: timeType,
		Effective: TimeTypeAllDay,
	}
}

// IsConflicting reports whether an event collides with the window. All-day
// events never conflict with evening queries; they block full days, not
// specific hours. Weekend queries count them on every day, including the
// weekdays whose window narrows to the evening range.
func IsConflicting(appt store.Appointment, w Window) bool {
	if appt.AllDay && w.Requested == TimeTypeEvening {
		return false
	}
	return appt.Start.Before(w.End) && appt.End.After(w.Start)
}
