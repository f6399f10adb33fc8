package classify

import (
	"fmt"
	"sort"
	"time"

	"github.com/teemow/calfewer/internal/store"
)

// Detail is the classified view of one conflicting event, shaped for the
// tool response.
type Detail struct {
	Title        string       `json:"title"`
	StartTime    string       `json:"start_time"`
	EndTime      string       `json:"end_time"`
	AllDay       bool         `json:"all_day,omitempty"`
	Calendar     string       `json:"calendar,omitempty"`
	ConflictType ConflictType `json:"conflictType"`
	Severity     Severity     `json:"severity"`
	Reason       string       `json:"reason"`
	Suggestion   string       `json:"suggestion,omitempty"`
}

var typeLabels = map[ConflictType]string{
	TypeMedical:     "Medical appointment",
	TypeTravel:      "Travel",
	TypeFamily:      "Family commitment",
	TypeWork:        "Work commitment",
	TypeSocial:      "Social event",
	TypeAppointment: "Appointment",
	TypeAllDay:      "All-day event",
	TypeRecurring:   "Recurring event",
	TypeMeeting:     "Meeting",
	TypeUnknown:     "Busy",
}

var suggestions = map[Severity]string{
	SeverityCritical: "Do not schedule over this; pick a different date",
	SeverityHigh:     "Avoid double-booking; reschedule only with confirmation",
	SeverityMedium:   "Could be moved if the new commitment matters more",
	SeverityLow:      "Flexible; safe to schedule over if necessary",
}

// Describe classifies an event and renders the detail clients display.
func Describe(appt store.Appointment) Detail {
	conflictType := Classify(appt)
	severity := ClassifySeverity(appt, conflictType)

	return Detail{
		Title:        appt.Title,
		StartTime:    appt.Start.Format(time.RFC3339),
		EndTime:      appt.End.Format(time.RFC3339),
		AllDay:       appt.AllDay,
		Calendar:     appt.CalendarName,
		ConflictType: conflictType,
		Severity:     severity,
		Reason:       fmt.Sprintf("%s: %s", typeLabels[conflictType], appt.Title),
		Suggestion:   suggestions[severity],
	}
}

var severityRank = map[Severity]int{
	SeverityCritical: 0,
	SeverityHigh:     1,
	SeverityMedium:   2,
	SeverityLow:      3,
}

// SortBySeverity orders details most severe first, then by start time.
func SortBySeverity(details []Detail) {
	sort.SliceStable(details, func(i, j int) bool {
		if severityRank[details[i].Severity] != severityRank[details[j].Severity] {
			return severityRank[details[i].Severity] < severityRank[details[j].Severity]
		}
		return details[i].StartTime < details[j].StartTime
	})
}

// CountByType tallies details per conflict type.
func CountByType(details []Detail) map[string]int {
	if len(details) == 0 {
		return nil
	}
	out := make(map[string]int)
	for _, d := range details {
		out[string(d.ConflictType)]++
	}
	return out
}

// Summarize renders the one-line summary for a day's conflicts.
func Summarize(details []Detail) string {
	if len(details) == 0 {
		return "No conflicts found"
	}

	var critical, high int
	for _, d := range details {
		switch d.Severity {
		case SeverityCritical:
			critical++
		case SeverityHigh:
			high++
		}
	}

	n := len(details)
	switch {
	case critical > 0:
		if rest := n - critical; rest > 0 {
			return fmt.Sprintf("%d conflict(s) (%d critical, %d others)", n, critical, rest)
		}
		return fmt.Sprintf("%d conflict(s) (%d critical)", n, critical)
	case high > 0:
		if rest := n - high; rest > 0 {
			return fmt.Sprintf("%d conflict(s) (%d high priority, %d moderate)", n, high, rest)
		}
		return fmt.Sprintf("%d conflict(s) (%d high priority)", n, high)
	default:
		return fmt.Sprintf("%d conflict(s) (all moderate/low priority)", n)
	}
}
