package calendar_tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/teemow/calfewer/internal/availability"
	"github.com/teemow/calfewer/internal/filter"
	"github.com/teemow/calfewer/internal/rpc"
	"github.com/teemow/calfewer/internal/server"
	"github.com/teemow/calfewer/internal/store"
)

const (
	dateLayout = "2006-01-02"

	// maxDatesPerCall bounds both explicit date lists and expanded date
	// ranges.
	maxDatesPerCall = 50

	// Dates are accepted from one year in the past to two years ahead.
	datePastHorizon   = -1
	dateFutureHorizon = 2
)

// datetime layouts accepted for event start/end values, tried in order.
var datetimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// decodeArgs round-trips a loosely typed argument map into a typed struct
// using its JSON tags.
func decodeArgs(args map[string]any, dst any) error {
	raw, err := json.Marshal(args)
	if err != nil {
		return rpc.InvalidParams("invalid arguments: %v", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return rpc.InvalidParams("invalid arguments: %v", err)
	}
	return nil
}

// parseDate parses an ISO date in the local timezone and enforces the
// supported horizon.
func parseDate(value string) (time.Time, error) {
	parsed, err := time.ParseInLocation(dateLayout, value, time.Local)
	if err != nil {
		return time.Time{}, rpc.InvalidParams("invalid date %q, want YYYY-MM-DD", value)
	}

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	if parsed.Before(today.AddDate(datePastHorizon, 0, 0)) || parsed.After(today.AddDate(dateFutureHorizon, 0, 0)) {
		return time.Time{}, rpc.InvalidParams("date %q is outside the supported range (1 year back to 2 years ahead)", value)
	}
	return parsed, nil
}

// parseDates parses and validates an explicit date list.
func parseDates(values []string) ([]time.Time, error) {
	if len(values) == 0 {
		return nil, rpc.InvalidParams("missing required parameter: dates")
	}
	if len(values) > maxDatesPerCall {
		return nil, rpc.InvalidParams("too many dates: %d exceeds the limit of %d", len(values), maxDatesPerCall)
	}

	dates := make([]time.Time, 0, len(values))
	for _, v := range values {
		parsed, err := parseDate(v)
		if err != nil {
			return nil, err
		}
		dates = append(dates, parsed)
	}
	return dates, nil
}

// dateRange is the {start, end} object used by range-based tools.
type dateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// expand turns an inclusive date range into the list of days it covers.
func (r dateRange) expand() ([]time.Time, error) {
	if r.Start == "" || r.End == "" {
		return nil, rpc.InvalidParams("date_range requires both start and end")
	}
	start, err := parseDate(r.Start)
	if err != nil {
		return nil, err
	}
	end, err := parseDate(r.End)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, rpc.InvalidParams("date_range end %q precedes start %q", r.End, r.Start)
	}

	var dates []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if len(dates) >= maxDatesPerCall {
			return nil, rpc.InvalidParams("date_range covers more than %d days", maxDatesPerCall)
		}
		dates = append(dates, d)
	}
	return dates, nil
}

// parseDatetime parses an event timestamp, trying the accepted layouts.
func parseDatetime(value string) (time.Time, error) {
	for _, layout := range datetimeLayouts {
		if parsed, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, rpc.InvalidParams("invalid datetime %q", value)
}

// eveningHoursArg is the {start: "HH:MM", end: "HH:MM"} wire object.
type eveningHoursArg struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// resolveEveningHours returns the configured or default evening range.
func resolveEveningHours(arg *eveningHoursArg) (availability.EveningHours, error) {
	if arg == nil {
		return availability.DefaultEveningHours(), nil
	}
	eh, err := availability.ParseEveningHours(arg.Start, arg.End)
	if err != nil {
		return availability.EveningHours{}, rpc.InvalidParams("%v", err)
	}
	return eh, nil
}

// selectCalendars resolves the calendars a query targets. Explicit names
// win; otherwise the calendar filter applies, defaulting to the main preset
// when neither is given.
func selectCalendars(ctx context.Context, sc *server.ServerContext, names []string, cf *filter.CalendarFilter) ([]store.Calendar, error) {
	calendars, err := sc.Store().ListCalendars(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing calendars: %w", err)
	}

	if len(names) > 0 {
		byName := make(map[string]store.Calendar, len(calendars))
		for _, cal := range calendars {
			byName[normalizeName(cal.Name)] = cal
		}
		selected := make([]store.Calendar, 0, len(names))
		for _, name := range names {
			cal, ok := byName[normalizeName(name)]
			if !ok {
				return nil, fmt.Errorf("calendar %q: %w", name, store.ErrNotFound)
			}
			selected = append(selected, cal)
		}
		return selected, nil
	}

	resolved, err := filter.Resolve(cf, sc.Presets())
	if err != nil {
		return nil, rpc.InvalidParams("%v", err)
	}
	return resolved.Apply(calendars), nil
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func calendarIDs(calendars []store.Calendar) []string {
	ids := make([]string, len(calendars))
	for i, cal := range calendars {
		ids[i] = cal.ID
	}
	return ids
}
