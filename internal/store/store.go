package store

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors a backend may return. Callers match with errors.Is.
var (
	ErrAccessDenied = errors.New("calendar store: access denied")
	ErrNotFound     = errors.New("calendar store: not found")
	ErrReadOnly     = errors.New("calendar store: calendar is read-only")
	ErrInvalidRange = errors.New("calendar store: start must be before end")
)

// Store is the narrow interface the server consumes. Implementations are the
// external collaborator here; the core never assumes anything about how
// calendars are persisted.
type Store interface {
	// ListCalendars enumerates every calendar across all accounts.
	ListCalendars(ctx context.Context) ([]Calendar, error)

	// QueryEvents returns appointments overlapping the half-open window
	// [start, end) in the given calendars. An empty calendarIDs slice means
	// all calendars.
	QueryEvents(ctx context.Context, start, end time.Time, calendarIDs []string) ([]Appointment, error)

	// GetEvent resolves a single appointment by id.
	GetEvent(ctx context.Context, id string) (Appointment, error)

	// CreateEvent persists a new appointment and returns it with its id set.
	CreateEvent(ctx context.Context, appt Appointment) (Appointment, error)

	// UpdateEvent replaces the stored appointment with the same id.
	UpdateEvent(ctx context.Context, appt Appointment) (Appointment, error)

	// DeleteEvent removes an appointment, with span semantics for recurring
	// series.
	DeleteEvent(ctx context.Context, id string, span Span) error
}
