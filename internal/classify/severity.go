package classify

import (
	"strings"

	"github.com/teemow/calfewer/internal/store"
)

// Severity ranks how disruptive a conflict is to scheduling around.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// ClassifySeverity runs the severity cascade. First match wins:
// critical, then high, then medium, then low, defaulting to medium.
func ClassifySeverity(appt store.Appointment, conflictType ConflictType) Severity {
	title := strings.ToLower(appt.Title)

	switch {
	case conflictType == TypeMedical && (strings.Contains(title, "surgery") || strings.Contains(title, "procedure")):
		return SeverityCritical
	case conflictType == TypeTravel:
		return SeverityCritical
	case strings.Contains(title, "interview") || strings.Contains(title, "important") || strings.Contains(title, "urgent"):
		return SeverityCritical
	}

	switch {
	case conflictType == TypeMedical || conflictType == TypeFamily:
		return SeverityHigh
	case strings.Contains(title, "client") || strings.Contains(title, "presentation") || strings.Contains(title, "demo"):
		return SeverityHigh
	case appt.AllDay:
		return SeverityHigh
	}

	switch {
	case conflictType == TypeWork || conflictType == TypeAppointment:
		return SeverityMedium
	case appt.Recurrence != nil:
		return SeverityMedium
	}

	if conflictType == TypeSocial {
		return SeverityLow
	}
	return SeverityMedium
}
