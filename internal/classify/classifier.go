package classify

import (
	"strings"

	"github.com/teemow/calfewer/internal/store"
)

// ConflictType buckets a conflicting event.
type ConflictType string

const (
	TypeMedical     ConflictType = "medical"
	TypeTravel      ConflictType = "travel"
	TypeFamily      ConflictType = "family"
	TypeWork        ConflictType = "work"
	TypeSocial      ConflictType = "social"
	TypeAppointment ConflictType = "appointment"
	TypeAllDay      ConflictType = "allDay"
	TypeRecurring   ConflictType = "recurring"
	TypeMeeting     ConflictType = "meeting"
	TypeUnknown     ConflictType = "unknown"
)

// typeRule is one row of the classification cascade.
type typeRule struct {
	conflictType ConflictType
	keywords     []string
}

// typeRules is checked in order; the first hit wins. The order is the
// compatibility contract: medical outranks family, keyword categories
// outrank the allDay/recurring fallbacks.
var typeRules = []typeRule{
	{TypeMedical, []string{"doctor", "dentist", "appointment", "medical", "therapy", "checkup", "surgery", "clinic", "hospital"}},
	{TypeTravel, []string{"flight", "travel", "trip", "airport", "hotel", "departure", "arrival"}},
	{TypeFamily, []string{"family", "kids", "school", "parent", "mom", "dad", "son", "daughter"}},
	{TypeWork, []string{"meeting", "standup", "sync", "review", "presentation", "interview", "client", "project", "demo", "sprint"}},
	{TypeSocial, []string{"party", "dinner", "drinks", "bbq", "concert", "birthday", "wedding", "hangout"}},
	{TypeAppointment, []string{"haircut", "salon", "barber", "bank", "consultation", "inspection"}},
}

// Classify assigns a conflict type to an event. Keyword categories are tried
// first, then the all-day and recurring fallbacks, then the generic meeting
// bucket.
func Classify(appt store.Appointment) ConflictType {
	title := strings.ToLower(appt.Title)
	for _, rule := range typeRules {
		for _, kw := range rule.keywords {
			if strings.Contains(title, kw) {
				return rule.conflictType
			}
		}
	}
	if appt.AllDay {
		return TypeAllDay
	}
	if appt.Recurrence != nil {
		return TypeRecurring
	}
	for _, kw := range []string{"call", "chat", "catch-up", "zoom", "1:1"} {
		if strings.Contains(title, kw) {
			return TypeMeeting
		}
	}
	return TypeUnknown
}
