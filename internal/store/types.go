package store

import (
	"time"
)

// SourceKind identifies the kind of account a calendar belongs to.
type SourceKind string

const (
	SourceLocal      SourceKind = "local"
	SourceExchange   SourceKind = "exchange"
	SourceCalDAV     SourceKind = "caldav"
	SourceSubscribed SourceKind = "subscribed"
	SourceBirthdays  SourceKind = "birthdays"
	SourceOther      SourceKind = "other"
)

// Availability mirrors the busy/free/tentative marker calendar stores attach
// to an appointment.
type Availability string

const (
	AvailabilityBusy      Availability = "busy"
	AvailabilityFree      Availability = "free"
	AvailabilityTentative Availability = "tentative"
)

// Calendar describes one calendar within an account source.
// Names are unique within a source but not globally.
type Calendar struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Account  string     `json:"account"`
	Kind     SourceKind `json:"kind"`
	Writable bool       `json:"writable"`
}

// Recurrence describes a repeat rule attached to an appointment.
type Recurrence struct {
	Frequency  string     `json:"frequency"` // daily, weekly, monthly, yearly
	Interval   int        `json:"interval,omitempty"`
	Count      int        `json:"count,omitempty"`
	Until      *time.Time `json:"until,omitempty"`
	DaysOfWeek []string   `json:"days_of_week,omitempty"`
}

// Appointment is a single calendar event as the store sees it.
type Appointment struct {
	ID           string          `json:"id"`
	CalendarID   string          `json:"calendar_id"`
	CalendarName string          `json:"calendar_name"`
	Title        string          `json:"title"`
	Start        time.Time       `json:"start"`
	End          time.Time       `json:"end"`
	AllDay       bool            `json:"all_day"`
	Location     string          `json:"location,omitempty"`
	Notes        string          `json:"notes,omitempty"`
	Availability Availability    `json:"availability,omitempty"`
	Alarms       []time.Duration `json:"alarms,omitempty"` // lead times before start, ascending
	Recurrence   *Recurrence     `json:"recurrence,omitempty"`
}

// Duration returns the event length.
func (a Appointment) Duration() time.Duration {
	return a.End.Sub(a.Start)
}

// Span selects how much of a recurring series a delete affects.
type Span string

const (
	// SpanThisEvent deletes only the addressed occurrence.
	SpanThisEvent Span = "this_event"
	// SpanFutureEvents deletes the addressed occurrence and everything after it.
	SpanFutureEvents Span = "future_events"
)
