package filter

import (
	"strings"
	"time"

	"github.com/teemow/calfewer/internal/store"
)

// workMeetingThreshold is the minimum additive score for an appointment to
// classify as a work meeting.
const workMeetingThreshold = 4

// workTitleKeywords earn the title-keyword points.
var workTitleKeywords = []string{
	"meeting", "call", "sync", "standup", "review", "demo", "planning",
	"team", "project", "discussion", "interview", "presentation",
	"workshop", "training",
}

// workTitlePatterns earn the title-pattern points.
var workTitlePatterns = []string{" - ", "team", "devops", "windows"}

// personalKeywords subtract points; personal events rarely need a work slot.
var personalKeywords = []string{
	"birthday", "anniversary", "vacation", "holiday", "personal",
	"doctor", "dentist", "lunch", "dinner", "breakfast",
}

// workMeetingRule is one row of the score table. The rules are ordered data
// so the scoring contract can be audited and tested in isolation.
type workMeetingRule struct {
	name   string
	points int
	match  func(appt store.Appointment) bool
}

// workMeetingRules is the scoring contract. Do not reorder or retune: the
// exact points and conditions are relied on by existing clients.
var workMeetingRules = []workMeetingRule{
	{
		name:   "core working hours",
		points: 3,
		match: func(a store.Appointment) bool {
			h := a.Start.Hour()
			return h >= 8 && h <= 17
		},
	},
	{
		name:   "extended working hours",
		points: 1,
		match: func(a store.Appointment) bool {
			h := a.Start.Hour()
			// Only when the core-hours rule did not already score.
			return (h == 7 || (h > 17 && h <= 19)) && !(h >= 8 && h <= 17)
		},
	},
	{
		name:   "meeting-length duration",
		points: 2,
		match:  func(a store.Appointment) bool { return a.Duration() >= 30*time.Minute },
	},
	{
		name:   "short-meeting duration",
		points: 1,
		match: func(a store.Appointment) bool {
			d := a.Duration()
			return d >= 15*time.Minute && d < 30*time.Minute
		},
	},
	{
		name:   "work calendar",
		points: 2,
		match: func(a store.Appointment) bool {
			name := strings.ToLower(a.CalendarName)
			return strings.Contains(name, "work") || strings.Contains(name, "office") || name == "calendar"
		},
	},
	{
		name:   "work title keyword",
		points: 2,
		match: func(a store.Appointment) bool {
			return titleContainsAny(a.Title, workTitleKeywords)
		},
	},
	{
		name:   "work title pattern",
		points: 2,
		match: func(a store.Appointment) bool {
			return titleContainsAny(a.Title, workTitlePatterns)
		},
	},
	{
		name:   "personal keyword",
		points: -3,
		match: func(a store.Appointment) bool {
			return titleContainsAny(a.Title, personalKeywords)
		},
	},
	{
		name:   "weekday",
		points: 1,
		match: func(a store.Appointment) bool {
			wd := a.Start.Weekday()
			return wd >= time.Monday && wd <= time.Friday
		},
	},
}

// WorkMeetingScore computes the additive heuristic score for an appointment.
// The score is a pure function of start time, duration, owning-calendar name,
// title, and weekday.
func WorkMeetingScore(appt store.Appointment) int {
	score := 0
	for _, rule := range workMeetingRules {
		if rule.match(appt) {
			score += rule.points
		}
	}
	return score
}

// IsWorkMeeting reports whether the appointment scores at or above the
// work-meeting threshold.
func IsWorkMeeting(appt store.Appointment) bool {
	return WorkMeetingScore(appt) >= workMeetingThreshold
}

func titleContainsAny(title string, keywords []string) bool {
	lower := strings.ToLower(title)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
