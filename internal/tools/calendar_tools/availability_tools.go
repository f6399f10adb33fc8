package calendar_tools

import (
	"context"
	"sort"
	"time"

	"github.com/teemow/calfewer/internal/availability"
	"github.com/teemow/calfewer/internal/filter"
	"github.com/teemow/calfewer/internal/instrumentation"
	"github.com/teemow/calfewer/internal/rpc"
	"github.com/teemow/calfewer/internal/server"
	"github.com/teemow/calfewer/internal/store"
)

type checkConflictsArgs struct {
	Dates          []string               `json:"dates"`
	TimeType       string                 `json:"time_type"`
	CalendarNames  []string               `json:"calendar_names"`
	CalendarFilter *filter.CalendarFilter `json:"calendar_filter"`
	EventFilter    *filter.EventFilter    `json:"event_filter"`
	EveningHours   *eveningHoursArg       `json:"evening_hours"`
}

func handleCheckConflicts(ctx context.Context, sc *server.ServerContext, args map[string]any) (any, error) {
	var in checkConflictsArgs
	if err := decodeArgs(args, &in); err != nil {
		return nil, err
	}
	if inv := invocationFrom(ctx); inv != nil {
		inv.WithOperation(instrumentation.OpQueryEvents)
	}

	dates, err := parseDates(in.Dates)
	if err != nil {
		return nil, err
	}
	timeType, err := availability.ParseTimeType(in.TimeType)
	if err != nil {
		return nil, rpc.InvalidParams("%v", err)
	}
	evening, err := resolveEveningHours(in.EveningHours)
	if err != nil {
		return nil, err
	}
	calendars, err := selectCalendars(ctx, sc, in.CalendarNames, in.CalendarFilter)
	if err != nil {
		return nil, err
	}

	results, err := sc.Engine().CheckConflicts(ctx, availability.Query{
		Dates:        dates,
		TimeType:     timeType,
		EveningHours: evening,
		CalendarIDs:  calendarIDs(calendars),
		EventFilter:  in.EventFilter,
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

type getEventsArgs struct {
	StartDate      string                 `json:"start_date"`
	EndDate        string                 `json:"end_date"`
	CalendarNames  []string               `json:"calendar_names"`
	CalendarFilter *filter.CalendarFilter `json:"calendar_filter"`
	EventFilter    *filter.EventFilter    `json:"event_filter"`
}

// eventView is the wire shape of a single event in list results.
type eventView struct {
	ID           string             `json:"id"`
	Title        string             `json:"title"`
	Calendar     string             `json:"calendar"`
	StartTime    string             `json:"start_time"`
	EndTime      string             `json:"end_time"`
	AllDay       bool               `json:"all_day,omitempty"`
	Location     string             `json:"location,omitempty"`
	Notes        string             `json:"notes,omitempty"`
	Availability store.Availability `json:"availability,omitempty"`
	Recurring    bool               `json:"recurring,omitempty"`
}

func newEventView(appt store.Appointment) eventView {
	return eventView{
		ID:           appt.ID,
		Title:        appt.Title,
		Calendar:     appt.CalendarName,
		StartTime:    appt.Start.Format(time.RFC3339),
		EndTime:      appt.End.Format(time.RFC3339),
		AllDay:       appt.AllDay,
		Location:     appt.Location,
		Notes:        appt.Notes,
		Availability: appt.Availability,
		Recurring:    appt.Recurrence != nil,
	}
}

func handleGetEvents(ctx context.Context, sc *server.ServerContext, args map[string]any) (any, error) {
	var in getEventsArgs
	if err := decodeArgs(args, &in); err != nil {
		return nil, err
	}
	if inv := invocationFrom(ctx); inv != nil {
		inv.WithOperation(instrumentation.OpQueryEvents)
	}
	if in.StartDate == "" {
		return nil, rpc.InvalidParams("missing required parameter: start_date")
	}
	if in.EndDate == "" {
		return nil, rpc.InvalidParams("missing required parameter: end_date")
	}

	days, err := dateRange{Start: in.StartDate, End: in.EndDate}.expand()
	if err != nil {
		return nil, err
	}
	calendars, err := selectCalendars(ctx, sc, in.CalendarNames, in.CalendarFilter)
	if err != nil {
		return nil, err
	}

	// The range is inclusive on both ends, so query up to the start of the
	// day after the last one.
	start := days[0]
	end := days[len(days)-1].AddDate(0, 0, 1)

	events, err := sc.Store().QueryEvents(ctx, start, end, calendarIDs(calendars))
	if err != nil {
		return nil, err
	}
	if in.EventFilter != nil {
		events = in.EventFilter.Apply(events)
	}
	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].Start.Equal(events[j].Start) {
			return events[i].Start.Before(events[j].Start)
		}
		return events[i].Title < events[j].Title
	})

	views := make([]eventView, len(events))
	for i, appt := range events {
		views[i] = newEventView(appt)
	}
	return map[string]any{
		"events": views,
		"count":  len(views),
	}, nil
}

type findSlotsArgs struct {
	DateRange       dateRange              `json:"date_range"`
	DurationMinutes int                    `json:"duration_minutes"`
	TimePreferences string                 `json:"time_preferences"`
	CalendarNames   []string               `json:"calendar_names"`
	CalendarFilter  *filter.CalendarFilter `json:"calendar_filter"`
	EventFilter     *filter.EventFilter    `json:"event_filter"`
	EveningHours    *eveningHoursArg       `json:"evening_hours"`
}

func handleFindSlots(ctx context.Context, sc *server.ServerContext, args map[string]any) (any, error) {
	var in findSlotsArgs
	if err := decodeArgs(args, &in); err != nil {
		return nil, err
	}
	if inv := invocationFrom(ctx); inv != nil {
		inv.WithOperation(instrumentation.OpQueryEvents)
	}

	dates, err := in.DateRange.expand()
	if err != nil {
		return nil, err
	}
	if in.DurationMinutes < availability.MinSlotMinutes || in.DurationMinutes > availability.MaxSlotMinutes {
		return nil, rpc.InvalidParams("duration_minutes must be between %d and %d, got %d",
			availability.MinSlotMinutes, availability.MaxSlotMinutes, in.DurationMinutes)
	}
	timeType, err := availability.ParseTimeType(in.TimePreferences)
	if err != nil {
		return nil, rpc.InvalidParams("%v", err)
	}
	evening, err := resolveEveningHours(in.EveningHours)
	if err != nil {
		return nil, err
	}
	calendars, err := selectCalendars(ctx, sc, in.CalendarNames, in.CalendarFilter)
	if err != nil {
		return nil, err
	}

	results, err := sc.Engine().FindAvailableSlots(ctx, availability.Query{
		Dates:        dates,
		TimeType:     timeType,
		EveningHours: evening,
		CalendarIDs:  calendarIDs(calendars),
		EventFilter:  in.EventFilter,
	}, in.DurationMinutes)
	if err != nil {
		return nil, err
	}
	return results, nil
}
