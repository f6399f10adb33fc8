package availability

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/teemow/calfewer/internal/classify"
	"github.com/teemow/calfewer/internal/filter"
	"github.com/teemow/calfewer/internal/logging"
	"github.com/teemow/calfewer/internal/store"
)

const (
	// MinSlotMinutes and MaxSlotMinutes bound minimum_duration_minutes.
	MinSlotMinutes = 1
	MaxSlotMinutes = 1440

	dateKeyFormat = "2006-01-02"
)

const (
	StatusAvailable = "AVAILABLE"
	StatusConflict  = "CONFLICT"
)

// Query carries the shared knobs of every availability request.
type Query struct {
	Dates        []time.Time
	TimeType     TimeType
	EveningHours EveningHours
	CalendarIDs  []string
	EventFilter  *filter.EventFilter
}

// DayConflicts is the per-date result of a conflict check.
type DayConflicts struct {
	Status          string            `json:"status"`
	Summary         string            `json:"summary"`
	ConflictsByType map[string]int    `json:"conflictsByType,omitempty"`
	Events          []classify.Detail `json:"events,omitempty"`
}

// Slot is one free gap inside a resolved window.
type Slot struct {
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	DurationMinutes int    `json:"duration_minutes"`
}

// DaySlots is the per-date result of a free-slot search.
type DaySlots struct {
	Date           string `json:"date"`
	WindowStart    string `json:"window_start"`
	WindowEnd      string `json:"window_end"`
	AvailableSlots []Slot `json:"available_slots"`
}

// Engine answers conflict and free-slot queries against a store.
type Engine struct {
	store  store.Store
	logger *slog.Logger
}

// NewEngine wires an engine to its event source.
func NewEngine(s store.Store, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{store: s, logger: logger}
}

// CheckConflicts resolves each date into a window and classifies every
// event that collides with it. Results are keyed by date.
func (e *Engine) CheckConflicts(ctx context.Context, q Query) (map[string]DayConflicts, error) {
	out := make(map[string]DayConflicts, len(q.Dates))

	for _, date := range q.Dates {
		window := ResolveWindow(date, q.TimeType, q.EveningHours)

		conflicts, err := e.conflictingEvents(ctx, window, q)
		if err != nil {
			return nil, err
		}

		details := make([]classify.Detail, 0, len(conflicts))
		for _, appt := range conflicts {
			details = append(details, classify.Describe(appt))
		}
		classify.SortBySeverity(details)

		status := StatusAvailable
		if len(details) > 0 {
			status = StatusConflict
		}

		key := date.Format(dateKeyFormat)
		out[key] = DayConflicts{
			Status:          status,
			Summary:         classify.Summarize(details),
			ConflictsByType: classify.CountByType(details),
			Events:          details,
		}

		e.logger.Debug("checked conflicts",
			logging.Operation("check_conflicts"),
			slog.String("date", key),
			slog.Int("conflicts", len(details)))
	}

	return out, nil
}

// FindAvailableSlots sweeps each resolved window and reports every gap of
// at least minDuration minutes between conflicting events.
func (e *Engine) FindAvailableSlots(ctx context.Context, q Query, minDuration int) (map[string]DaySlots, error) {
	if minDuration < MinSlotMinutes || minDuration > MaxSlotMinutes {
		return nil, fmt.Errorf("minimum_duration_minutes must be between %d and %d, got %d",
			MinSlotMinutes, MaxSlotMinutes, minDuration)
	}

	out := make(map[string]DaySlots, len(q.Dates))

	for _, date := range q.Dates {
		window := ResolveWindow(date, q.TimeType, q.EveningHours)

		conflicts, err := e.conflictingEvents(ctx, window, q)
		if err != nil {
			return nil, err
		}
		sort.Slice(conflicts, func(i, j int) bool {
			return conflicts[i].Start.Before(conflicts[j].Start)
		})

		slots := sweep(window, conflicts, time.Duration(minDuration)*time.Minute)

		key := date.Format(dateKeyFormat)
		out[key] = DaySlots{
			Date:           key,
			WindowStart:    window.Start.Format(time.RFC3339),
			WindowEnd:      window.End.Format(time.RFC3339),
			AvailableSlots: slots,
		}

		e.logger.Debug("found slots",
			logging.Operation("find_available_slots"),
			slog.String("date", key),
			slog.Int("slots", len(slots)))
	}

	return out, nil
}

func (e *Engine) conflictingEvents(ctx context.Context, window Window, q Query) ([]store.Appointment, error) {
	// All-day events sit outside evening windows but still have to be
	// fetched, so query the full day and filter against the window.
	dayStart := time.Date(window.Start.Year(), window.Start.Month(), window.Start.Day(), 0, 0, 0, 0, window.Start.Location())
	events, err := e.store.QueryEvents(ctx, dayStart, dayStart.AddDate(0, 0, 1), q.CalendarIDs)
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}

	var conflicts []store.Appointment
	for _, appt := range events {
		if !IsConflicting(appt, window) {
			continue
		}
		if q.EventFilter != nil && !q.EventFilter.Matches(appt) {
			continue
		}
		conflicts = append(conflicts, appt)
	}
	return conflicts, nil
}

// sweep walks the sorted conflicts once, emitting the gaps between a moving
// cursor and the next event start.
func sweep(window Window, conflicts []store.Appointment, minDuration time.Duration) []Slot {
	slots := []Slot{}
	cursor := window.Start

	emit := func(start, end time.Time) {
		if gap := end.Sub(start); gap >= minDuration {
			slots = append(slots, Slot{
				StartTime:       start.Format(time.RFC3339),
				EndTime:         end.Format(time.RFC3339),
				DurationMinutes: int(gap / time.Minute),
			})
		}
	}

	for _, appt := range conflicts {
		if appt.Start.After(cursor) {
			emit(cursor, minTime(appt.Start, window.End))
		}
		if appt.End.After(cursor) {
			cursor = appt.End
		}
	}
	if cursor.Before(window.End) {
		emit(cursor, window.End)
	}

	return slots
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
