package filter

import (
	"strings"

	"github.com/teemow/calfewer/internal/store"
)

// holidayMarkers are matched case-insensitively against calendar names.
var holidayMarkers = []string{"holiday", "birthdays"}

// sportsMarkers are matched case-insensitively against calendar names.
var sportsMarkers = []string{"hurricanes", "orange", "ncaa", "football", "sports"}

// CalendarFilter selects calendars. When Preset is non-empty it fully
// replaces every other field; see Resolve.
type CalendarFilter struct {
	IncludeNames    []string `json:"include_names,omitempty"`
	ExcludeNames    []string `json:"exclude_names,omitempty"`
	IncludeAccounts []string `json:"include_accounts,omitempty"`
	ExcludeAccounts []string `json:"exclude_accounts,omitempty"`
	ExcludeReadOnly bool     `json:"exclude_read_only,omitempty"`
	ExcludeSubs     bool     `json:"exclude_subscribed,omitempty"`
	ExcludeHolidays bool     `json:"exclude_holidays,omitempty"`
	ExcludeSports   bool     `json:"exclude_sports,omitempty"`
	Preset          string   `json:"preset,omitempty"`
}

// Matches reports whether the calendar survives the filter.
// Preset must already have been resolved; Matches ignores the Preset field.
func (f CalendarFilter) Matches(cal store.Calendar) bool {
	if len(f.IncludeNames) > 0 && !containsFold(f.IncludeNames, cal.Name) {
		return false
	}
	if containsFold(f.ExcludeNames, cal.Name) {
		return false
	}
	if len(f.IncludeAccounts) > 0 && !containsFold(f.IncludeAccounts, cal.Account) {
		return false
	}
	if containsFold(f.ExcludeAccounts, cal.Account) {
		return false
	}
	if f.ExcludeReadOnly && !cal.Writable {
		return false
	}
	if f.ExcludeSubs && cal.Kind == store.SourceSubscribed {
		return false
	}
	if f.ExcludeHolidays && containsAnyMarker(cal.Name, holidayMarkers) {
		return false
	}
	if f.ExcludeSports && containsAnyMarker(cal.Name, sportsMarkers) {
		return false
	}
	return true
}

// Apply returns the calendars surviving the filter, preserving order.
func (f CalendarFilter) Apply(cals []store.Calendar) []store.Calendar {
	out := make([]store.Calendar, 0, len(cals))
	for _, cal := range cals {
		if f.Matches(cal) {
			out = append(out, cal)
		}
	}
	return out
}

func containsFold(list []string, s string) bool {
	for _, item := range list {
		if strings.EqualFold(item, s) {
			return true
		}
	}
	return false
}

func containsAnyMarker(name string, markers []string) bool {
	lower := strings.ToLower(name)
	for _, marker := range markers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
