package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/teemow/calfewer/internal/logging"
	"github.com/teemow/calfewer/internal/store"
)

// Gateway validates and executes event mutations.
type Gateway struct {
	store  store.Store
	logger *slog.Logger
}

// New wires a gateway to a store.
func New(s store.Store, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{store: s, logger: logger}
}

// CreateRequest describes a new event. Pointer fields distinguish "not
// provided" from zero values so inheritance can fill them.
type CreateRequest struct {
	Title string
	Start time.Time
	End   time.Time

	// Calendar is a calendar name, not an id.
	Calendar string

	Location     *string
	Notes        *string
	AllDay       *bool
	AlarmMinutes *[]int
	Availability *store.Availability
	Recurrence   *store.Recurrence

	// CopyFormatFrom names an existing event whose properties seed the
	// inherited values.
	CopyFormatFrom string
	// Inherit lists which properties to take from the source event. Nil
	// means the default set.
	Inherit []string
}

// Create resolves inheritance and writes the new event.
func (g *Gateway) Create(ctx context.Context, req CreateRequest) (store.Appointment, error) {
	var source *store.Appointment
	if req.CopyFormatFrom != "" {
		src, err := g.store.GetEvent(ctx, req.CopyFormatFrom)
		if err != nil {
			return store.Appointment{}, fmt.Errorf("resolving copy_format_from event %q: %w", req.CopyFormatFrom, err)
		}
		source = &src
	}

	set := newInheritSet(req.Inherit)

	cal, err := g.resolveCalendar(ctx, req.Calendar, set, source)
	if err != nil {
		return store.Appointment{}, err
	}
	if !cal.Writable {
		return store.Appointment{}, fmt.Errorf("calendar %q: %w", cal.Name, store.ErrReadOnly)
	}

	start, end := req.Start, req.End
	if set[InheritDuration] && source != nil {
		end = start.Add(source.Duration())
	}
	if !start.Before(end) {
		return store.Appointment{}, fmt.Errorf("event start must precede end: %w", store.ErrInvalidRange)
	}

	appt := store.Appointment{
		CalendarID:   cal.ID,
		CalendarName: cal.Name,
		Title:        req.Title,
		Start:        start,
		End:          end,
		Location:     resolve(req.Location, InheritLocation, set, sourceField(source, func(a store.Appointment) string { return a.Location }), ""),
		Notes:        resolve(req.Notes, InheritNotes, set, sourceField(source, func(a store.Appointment) string { return a.Notes }), ""),
		AllDay:       resolve(req.AllDay, InheritAllDaySetting, set, sourceField(source, func(a store.Appointment) bool { return a.AllDay }), false),
		Availability: resolve(req.Availability, InheritAvailability, set, sourceField(source, func(a store.Appointment) store.Availability { return a.Availability }), store.AvailabilityBusy),
	}

	minutes := resolve(req.AlarmMinutes, InheritAlarmSettings, set, sourceAlarms(source), nil)
	appt.Alarms = alarmsFromMinutes(minutes)

	// Recurrence comes from the request alone.
	appt.Recurrence = req.Recurrence

	created, err := g.store.CreateEvent(ctx, appt)
	if err != nil {
		return store.Appointment{}, fmt.Errorf("creating event: %w", err)
	}

	g.logger.Info("event created",
		logging.Operation("create_event"),
		logging.Calendar(cal.Name),
		slog.String("event_id", created.ID))
	return created, nil
}

// ModifyRequest is a partial update; nil fields are left untouched.
type ModifyRequest struct {
	EventID string

	Title        *string
	Start        *time.Time
	End          *time.Time
	Location     *string
	Notes        *string
	AllDay       *bool
	AlarmMinutes *[]int
	Availability *store.Availability

	// MoveToCalendar moves the event to another calendar by name, after
	// revalidating the destination is writable.
	MoveToCalendar string
}

// Modify applies the provided fields to an existing event.
func (g *Gateway) Modify(ctx context.Context, req ModifyRequest) (store.Appointment, error) {
	appt, err := g.store.GetEvent(ctx, req.EventID)
	if err != nil {
		return store.Appointment{}, fmt.Errorf("resolving event %q: %w", req.EventID, err)
	}

	if req.Title != nil {
		appt.Title = *req.Title
	}
	if req.Start != nil {
		appt.Start = *req.Start
	}
	if req.End != nil {
		appt.End = *req.End
	}
	if req.Location != nil {
		appt.Location = *req.Location
	}
	if req.Notes != nil {
		appt.Notes = *req.Notes
	}
	if req.AllDay != nil {
		appt.AllDay = *req.AllDay
	}
	if req.AlarmMinutes != nil {
		appt.Alarms = alarmsFromMinutes(*req.AlarmMinutes)
	}
	if req.Availability != nil {
		appt.Availability = *req.Availability
	}

	if req.MoveToCalendar != "" {
		cal, err := g.calendarByName(ctx, req.MoveToCalendar)
		if err != nil {
			return store.Appointment{}, err
		}
		if !cal.Writable {
			return store.Appointment{}, fmt.Errorf("calendar %q: %w", cal.Name, store.ErrReadOnly)
		}
		appt.CalendarID = cal.ID
		appt.CalendarName = cal.Name
	}

	if !appt.Start.Before(appt.End) {
		return store.Appointment{}, fmt.Errorf("event start must precede end: %w", store.ErrInvalidRange)
	}

	updated, err := g.store.UpdateEvent(ctx, appt)
	if err != nil {
		return store.Appointment{}, fmt.Errorf("updating event: %w", err)
	}

	g.logger.Info("event updated",
		logging.Operation("modify_event"),
		slog.String("event_id", updated.ID))
	return updated, nil
}

// Recurring-delete scopes accepted on the wire.
const (
	DeleteThisOnly      = "this_only"
	DeleteThisAndFuture = "this_and_future"
	DeleteAll           = "all"
)

// Delete removes an event. The scope maps onto the store's span semantics;
// this_and_future and all both resolve to the forward span.
func (g *Gateway) Delete(ctx context.Context, eventID, scope string) error {
	var span store.Span
	switch scope {
	case "", DeleteThisOnly:
		span = store.SpanThisEvent
	case DeleteThisAndFuture, DeleteAll:
		span = store.SpanFutureEvents
	default:
		return fmt.Errorf("unknown delete_recurring value %q", scope)
	}

	if err := g.store.DeleteEvent(ctx, eventID, span); err != nil {
		return fmt.Errorf("deleting event %q: %w", eventID, err)
	}

	g.logger.Info("event deleted",
		logging.Operation("delete_event"),
		slog.String("event_id", eventID),
		slog.String("span", string(span)))
	return nil
}

// resolveCalendar picks the target calendar for a create: an explicit name
// wins, then the source event's calendar when inherited, then the first
// writable calendar.
func (g *Gateway) resolveCalendar(ctx context.Context, name string, set inheritSet, source *store.Appointment) (store.Calendar, error) {
	if name != "" {
		return g.calendarByName(ctx, name)
	}
	if set[InheritCalendar] && source != nil {
		return g.calendarByName(ctx, source.CalendarName)
	}

	cals, err := g.store.ListCalendars(ctx)
	if err != nil {
		return store.Calendar{}, fmt.Errorf("listing calendars: %w", err)
	}
	for _, cal := range cals {
		if cal.Writable {
			return cal, nil
		}
	}
	return store.Calendar{}, fmt.Errorf("no writable calendar available: %w", store.ErrNotFound)
}

func (g *Gateway) calendarByName(ctx context.Context, name string) (store.Calendar, error) {
	cals, err := g.store.ListCalendars(ctx)
	if err != nil {
		return store.Calendar{}, fmt.Errorf("listing calendars: %w", err)
	}
	for _, cal := range cals {
		if strings.EqualFold(cal.Name, name) {
			return cal, nil
		}
	}
	return store.Calendar{}, fmt.Errorf("calendar %q: %w", name, store.ErrNotFound)
}

func sourceField[T any](source *store.Appointment, get func(store.Appointment) T) *T {
	if source == nil {
		return nil
	}
	v := get(*source)
	return &v
}

func sourceAlarms(source *store.Appointment) *[]int {
	if source == nil {
		return nil
	}
	minutes := make([]int, len(source.Alarms))
	for i, d := range source.Alarms {
		minutes[i] = int(d / time.Minute)
	}
	return &minutes
}

func alarmsFromMinutes(minutes []int) []time.Duration {
	if minutes == nil {
		return nil
	}
	alarms := make([]time.Duration, len(minutes))
	for i, m := range minutes {
		alarms[i] = time.Duration(m) * time.Minute
	}
	return alarms
}
