package calendar_tools

import (
	"context"
	"time"

	"github.com/teemow/calfewer/internal/gateway"
	"github.com/teemow/calfewer/internal/instrumentation"
	"github.com/teemow/calfewer/internal/rpc"
	"github.com/teemow/calfewer/internal/server"
	"github.com/teemow/calfewer/internal/store"
)

// recurrenceArg is the wire shape of a recurrence rule.
type recurrenceArg struct {
	Frequency  string   `json:"frequency"`
	Interval   int      `json:"interval"`
	Count      int      `json:"count"`
	Until      string   `json:"until"`
	DaysOfWeek []string `json:"days_of_week"`
}

var recurrenceFrequencies = map[string]bool{
	"daily":   true,
	"weekly":  true,
	"monthly": true,
	"yearly":  true,
}

func (r *recurrenceArg) toRecurrence() (*store.Recurrence, error) {
	if r == nil {
		return nil, nil
	}
	if !recurrenceFrequencies[r.Frequency] {
		return nil, rpc.InvalidParams("invalid recurrence frequency %q", r.Frequency)
	}
	rec := &store.Recurrence{
		Frequency:  r.Frequency,
		Interval:   r.Interval,
		Count:      r.Count,
		DaysOfWeek: r.DaysOfWeek,
	}
	if r.Until != "" {
		until, err := parseDatetime(r.Until)
		if err != nil {
			// Recurrence end dates are commonly bare dates.
			day, dayErr := time.ParseInLocation(dateLayout, r.Until, time.Local)
			if dayErr != nil {
				return nil, err
			}
			until = day
		}
		rec.Until = &until
	}
	return rec, nil
}

type createEventArgs struct {
	Title          string         `json:"title"`
	StartDatetime  string         `json:"start_datetime"`
	EndDatetime    string         `json:"end_datetime"`
	Calendar       string         `json:"calendar"`
	Location       *string        `json:"location"`
	Notes          *string        `json:"notes"`
	IsAllDay       *bool          `json:"is_all_day"`
	AlarmMinutes   *[]int         `json:"alarm_minutes"`
	Recurrence     *recurrenceArg `json:"recurrence"`
	CopyFormatFrom string         `json:"copy_format_from"`
	Inherit        []string       `json:"inherit"`
}

func handleCreateEvent(ctx context.Context, sc *server.ServerContext, args map[string]any) (any, error) {
	var in createEventArgs
	if err := decodeArgs(args, &in); err != nil {
		return nil, err
	}
	if in.Title == "" {
		return nil, rpc.InvalidParams("missing required parameter: title")
	}
	if in.StartDatetime == "" {
		return nil, rpc.InvalidParams("missing required parameter: start_datetime")
	}
	if in.EndDatetime == "" {
		return nil, rpc.InvalidParams("missing required parameter: end_datetime")
	}

	start, err := parseDatetime(in.StartDatetime)
	if err != nil {
		return nil, err
	}
	end, err := parseDatetime(in.EndDatetime)
	if err != nil {
		return nil, err
	}
	recurrence, err := in.Recurrence.toRecurrence()
	if err != nil {
		return nil, err
	}

	// Distinguish an omitted inherit list (default set) from an explicitly
	// empty one (inherit nothing).
	inherit := in.Inherit
	if _, present := args["inherit"]; present && inherit == nil {
		inherit = []string{}
	}

	created, err := sc.Gateway().Create(ctx, gateway.CreateRequest{
		Title:          in.Title,
		Start:          start,
		End:            end,
		Calendar:       in.Calendar,
		Location:       in.Location,
		Notes:          in.Notes,
		AllDay:         in.IsAllDay,
		AlarmMinutes:   in.AlarmMinutes,
		Recurrence:     recurrence,
		CopyFormatFrom: in.CopyFormatFrom,
		Inherit:        inherit,
	})
	if err != nil {
		return nil, err
	}
	if inv := invocationFrom(ctx); inv != nil {
		inv.WithOperation(instrumentation.OpCreateEvent).
			WithCalendar("", created.CalendarName).
			WithEvent(created.ID, created.Title)
	}
	return map[string]any{
		"success": true,
		"event":   newEventView(created),
	}, nil
}

type modifyEventArgs struct {
	EventID        string  `json:"event_id"`
	Title          *string `json:"title"`
	StartDatetime  *string `json:"start_datetime"`
	EndDatetime    *string `json:"end_datetime"`
	Location       *string `json:"location"`
	Notes          *string `json:"notes"`
	IsAllDay       *bool   `json:"is_all_day"`
	AlarmMinutes   *[]int  `json:"alarm_minutes"`
	MoveToCalendar string  `json:"move_to_calendar"`
}

func handleModifyEvent(ctx context.Context, sc *server.ServerContext, args map[string]any) (any, error) {
	var in modifyEventArgs
	if err := decodeArgs(args, &in); err != nil {
		return nil, err
	}
	if in.EventID == "" {
		return nil, rpc.InvalidParams("missing required parameter: event_id")
	}

	req := gateway.ModifyRequest{
		EventID:        in.EventID,
		Title:          in.Title,
		Location:       in.Location,
		Notes:          in.Notes,
		AllDay:         in.IsAllDay,
		AlarmMinutes:   in.AlarmMinutes,
		MoveToCalendar: in.MoveToCalendar,
	}
	if in.StartDatetime != nil {
		start, err := parseDatetime(*in.StartDatetime)
		if err != nil {
			return nil, err
		}
		req.Start = &start
	}
	if in.EndDatetime != nil {
		end, err := parseDatetime(*in.EndDatetime)
		if err != nil {
			return nil, err
		}
		req.End = &end
	}

	updated, err := sc.Gateway().Modify(ctx, req)
	if err != nil {
		return nil, err
	}
	if inv := invocationFrom(ctx); inv != nil {
		inv.WithOperation(instrumentation.OpUpdateEvent).
			WithCalendar("", updated.CalendarName).
			WithEvent(updated.ID, updated.Title)
	}
	return map[string]any{
		"success": true,
		"event":   newEventView(updated),
	}, nil
}

type deleteEventArgs struct {
	EventID         string `json:"event_id"`
	DeleteRecurring string `json:"delete_recurring"`
}

func handleDeleteEvent(ctx context.Context, sc *server.ServerContext, args map[string]any) (any, error) {
	var in deleteEventArgs
	if err := decodeArgs(args, &in); err != nil {
		return nil, err
	}
	if in.EventID == "" {
		return nil, rpc.InvalidParams("missing required parameter: event_id")
	}
	switch in.DeleteRecurring {
	case "", gateway.DeleteThisOnly, gateway.DeleteThisAndFuture, gateway.DeleteAll:
	default:
		return nil, rpc.InvalidParams("invalid delete_recurring value %q", in.DeleteRecurring)
	}

	if err := sc.Gateway().Delete(ctx, in.EventID, in.DeleteRecurring); err != nil {
		return nil, err
	}
	if inv := invocationFrom(ctx); inv != nil {
		inv.WithOperation(instrumentation.OpDeleteEvent).WithEvent(in.EventID, "")
	}
	return map[string]any{
		"success":  true,
		"event_id": in.EventID,
	}, nil
}
