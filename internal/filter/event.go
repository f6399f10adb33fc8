package filter

import (
	"strings"
	"time"

	"github.com/teemow/calfewer/internal/store"
)

// Business hours bound the "business_hours_only" predicate: start hour in
// [8, 18).
const (
	businessHoursStart = 8
	businessHoursEnd   = 18
)

// EventFilter prunes individual appointments after the calendar selection.
type EventFilter struct {
	ExcludeAllDay    bool     `json:"exclude_all_day,omitempty"`
	ExcludeBusy      bool     `json:"exclude_busy,omitempty"`
	ExcludeTentative bool     `json:"exclude_tentative,omitempty"`
	TitleContains    []string `json:"title_contains,omitempty"`
	TitleExcludes    []string `json:"title_excludes,omitempty"`
	MinDurationMin   int      `json:"minimum_duration_minutes,omitempty"`
	MaxDurationMin   int      `json:"maximum_duration_minutes,omitempty"`
	BusinessHours    bool     `json:"business_hours_only,omitempty"`
	WorkMeetingsOnly bool     `json:"work_meetings_only,omitempty"`
}

// Matches reports whether the appointment survives the filter.
//
// When WorkMeetingsOnly is set the TitleContains list is ignored entirely:
// the scored heuristic replaces keyword matching rather than refining it.
func (f EventFilter) Matches(appt store.Appointment) bool {
	if f.ExcludeAllDay && appt.AllDay {
		return false
	}
	if f.ExcludeBusy && appt.Availability == store.AvailabilityBusy {
		return false
	}
	if f.ExcludeTentative && appt.Availability == store.AvailabilityTentative {
		return false
	}

	title := strings.ToLower(appt.Title)
	for _, kw := range f.TitleExcludes {
		if strings.Contains(title, strings.ToLower(kw)) {
			return false
		}
	}
	if !f.WorkMeetingsOnly && len(f.TitleContains) > 0 {
		found := false
		for _, kw := range f.TitleContains {
			if strings.Contains(title, strings.ToLower(kw)) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if f.MinDurationMin > 0 && appt.Duration() < time.Duration(f.MinDurationMin)*time.Minute {
		return false
	}
	if f.MaxDurationMin > 0 && appt.Duration() > time.Duration(f.MaxDurationMin)*time.Minute {
		return false
	}

	if f.BusinessHours {
		hour := appt.Start.Hour()
		if hour < businessHoursStart || hour >= businessHoursEnd {
			return false
		}
	}

	if f.WorkMeetingsOnly && !IsWorkMeeting(appt) {
		return false
	}
	return true
}

// Apply returns the appointments surviving the filter, preserving order.
func (f EventFilter) Apply(appts []store.Appointment) []store.Appointment {
	out := make([]store.Appointment, 0, len(appts))
	for _, appt := range appts {
		if f.Matches(appt) {
			out = append(out, appt)
		}
	}
	return out
}
