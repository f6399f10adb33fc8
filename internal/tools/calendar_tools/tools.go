package calendar_tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/calfewer/internal/instrumentation"
	"github.com/teemow/calfewer/internal/rpc"
	"github.com/teemow/calfewer/internal/server"
)

// Tool names exposed through tools/list.
const (
	ToolCheckConflicts = "check_calendar_conflicts"
	ToolGetEvents      = "get_calendar_events"
	ToolFindSlots      = "find_available_slots"
	ToolListCalendars  = "list_calendars"
	ToolCreateEvent    = "create_event"
	ToolModifyEvent    = "modify_event"
	ToolDeleteEvent    = "delete_event"
)

type handlerFunc func(ctx context.Context, sc *server.ServerContext, args map[string]any) (any, error)

// invocationKey carries the audit record for the running tool call so
// handlers can annotate it with the calendar and event they touched.
type invocationKey struct{}

func withInvocation(ctx context.Context, inv *instrumentation.ToolInvocation) context.Context {
	return context.WithValue(ctx, invocationKey{}, inv)
}

func invocationFrom(ctx context.Context) *instrumentation.ToolInvocation {
	inv, _ := ctx.Value(invocationKey{}).(*instrumentation.ToolInvocation)
	return inv
}

// Registry holds the fixed tool table and executes calls against the
// server context. It satisfies the dispatcher's ToolBackend.
type Registry struct {
	sc       *server.ServerContext
	audit    *instrumentation.AuditLogger
	handlers map[string]handlerFunc
}

// NewRegistry builds the registry for a server context. A nil audit logger
// falls back to one on the context's logger with schedule details redacted.
func NewRegistry(sc *server.ServerContext, audit *instrumentation.AuditLogger) *Registry {
	if audit == nil {
		audit = instrumentation.NewAuditLogger(sc.Logger())
	}
	return &Registry{
		sc:    sc,
		audit: audit,
		handlers: map[string]handlerFunc{
			ToolCheckConflicts: handleCheckConflicts,
			ToolGetEvents:      handleGetEvents,
			ToolFindSlots:      handleFindSlots,
			ToolListCalendars:  handleListCalendars,
			ToolCreateEvent:    handleCreateEvent,
			ToolModifyEvent:    handleModifyEvent,
			ToolDeleteEvent:    handleDeleteEvent,
		},
	}
}

// Catalog returns the static tool descriptions.
func (r *Registry) Catalog() []mcp.Tool {
	return []mcp.Tool{
		mcp.NewTool(ToolCheckConflicts,
			mcp.WithDescription("Check one or more dates for calendar conflicts. Returns per-date status (AVAILABLE/CONFLICT) with classified conflicting events."),
			mcp.WithArray("dates",
				mcp.Required(),
				mcp.Description("Dates to check (YYYY-MM-DD), at most 50"),
			),
			mcp.WithString("time_type",
				mcp.Description("Part of the day to check: all_day, evening, or weekend (default: all_day)"),
			),
			mcp.WithArray("calendar_names",
				mcp.Description("Explicit calendar names to check; overrides calendar_filter"),
			),
			mcp.WithObject("calendar_filter",
				mcp.Description("Calendar selection filter; the preset field replaces all other fields (work, personal, main, all, debug, clean). Default: main"),
			),
			mcp.WithObject("event_filter",
				mcp.Description("Event-level filter (exclude_all_day, work_meetings_only, title filters, duration bounds, business_hours_only)"),
			),
			mcp.WithObject("evening_hours",
				mcp.Description("Evening range as {start: \"HH:MM\", end: \"HH:MM\"} (default 17:00-21:00)"),
			),
		),
		mcp.NewTool(ToolGetEvents,
			mcp.WithDescription("List events between two dates, inclusive, after applying calendar and event filters."),
			mcp.WithString("start_date",
				mcp.Required(),
				mcp.Description("First day to include (YYYY-MM-DD)"),
			),
			mcp.WithString("end_date",
				mcp.Required(),
				mcp.Description("Last day to include (YYYY-MM-DD)"),
			),
			mcp.WithArray("calendar_names",
				mcp.Description("Explicit calendar names; overrides calendar_filter"),
			),
			mcp.WithObject("calendar_filter",
				mcp.Description("Calendar selection filter (default: main preset)"),
			),
			mcp.WithObject("event_filter",
				mcp.Description("Event-level filter"),
			),
		),
		mcp.NewTool(ToolFindSlots,
			mcp.WithDescription("Find free slots of at least a given duration within each day of a date range."),
			mcp.WithObject("date_range",
				mcp.Required(),
				mcp.Description("Inclusive range as {start: \"YYYY-MM-DD\", end: \"YYYY-MM-DD\"}, at most 50 days"),
			),
			mcp.WithNumber("duration_minutes",
				mcp.Required(),
				mcp.Description("Minimum slot length in minutes (1-1440)"),
			),
			mcp.WithString("time_preferences",
				mcp.Description("Part of the day to search: all_day, evening, or weekend (default: all_day)"),
			),
			mcp.WithArray("calendar_names",
				mcp.Description("Explicit calendar names; overrides calendar_filter"),
			),
			mcp.WithObject("calendar_filter",
				mcp.Description("Calendar selection filter (default: main preset)"),
			),
			mcp.WithObject("event_filter",
				mcp.Description("Event-level filter applied before gap-finding"),
			),
			mcp.WithObject("evening_hours",
				mcp.Description("Evening range as {start: \"HH:MM\", end: \"HH:MM\"} (default 17:00-21:00)"),
			),
		),
		mcp.NewTool(ToolListCalendars,
			mcp.WithDescription("List calendars visible to the server, optionally filtered."),
			mcp.WithObject("calendar_filter",
				mcp.Description("Calendar selection filter; omit for all calendars"),
			),
		),
		mcp.NewTool(ToolCreateEvent,
			mcp.WithDescription("Create a calendar event, optionally inheriting formatting from an existing event."),
			mcp.WithString("title",
				mcp.Required(),
				mcp.Description("Event title"),
			),
			mcp.WithString("start_datetime",
				mcp.Required(),
				mcp.Description("Event start (ISO datetime, local time)"),
			),
			mcp.WithString("end_datetime",
				mcp.Required(),
				mcp.Description("Event end (ISO datetime, local time)"),
			),
			mcp.WithString("calendar",
				mcp.Description("Target calendar name; defaults to the source event's calendar or the first writable one"),
			),
			mcp.WithString("location", mcp.Description("Event location")),
			mcp.WithString("notes", mcp.Description("Event notes")),
			mcp.WithBoolean("is_all_day", mcp.Description("Whether the event is all-day")),
			mcp.WithArray("alarm_minutes",
				mcp.Description("Alarm lead times in minutes before the event start"),
			),
			mcp.WithObject("recurrence",
				mcp.Description("Recurrence rule: {frequency, interval?, count?, until?, days_of_week?}. Never inherited."),
			),
			mcp.WithString("copy_format_from",
				mcp.Description("Event id to inherit properties from"),
			),
			mcp.WithArray("inherit",
				mcp.Description("Properties to inherit from the source event (calendar, duration, location, notes, all_day_setting, alarm_settings, availability). Default: calendar, all_day_setting, alarm_settings"),
			),
		),
		mcp.NewTool(ToolModifyEvent,
			mcp.WithDescription("Modify an existing event. Only the provided fields change."),
			mcp.WithString("event_id",
				mcp.Required(),
				mcp.Description("Id of the event to modify"),
			),
			mcp.WithString("title", mcp.Description("New title")),
			mcp.WithString("start_datetime", mcp.Description("New start (ISO datetime)")),
			mcp.WithString("end_datetime", mcp.Description("New end (ISO datetime)")),
			mcp.WithString("location", mcp.Description("New location")),
			mcp.WithString("notes", mcp.Description("New notes")),
			mcp.WithBoolean("is_all_day", mcp.Description("New all-day setting")),
			mcp.WithArray("alarm_minutes",
				mcp.Description("Replacement alarm lead times in minutes"),
			),
			mcp.WithString("move_to_calendar",
				mcp.Description("Move the event to this calendar; the destination must be writable"),
			),
		),
		mcp.NewTool(ToolDeleteEvent,
			mcp.WithDescription("Delete an event. For recurring events, delete_recurring picks the scope."),
			mcp.WithString("event_id",
				mcp.Required(),
				mcp.Description("Id of the event to delete"),
			),
			mcp.WithString("delete_recurring",
				mcp.Description("Scope for recurring events: this_only (default), this_and_future, or all"),
			),
		),
	}
}

// Call executes a tool by name. An unknown name is an invalid-params error,
// distinct from an unknown method.
func (r *Registry) Call(ctx context.Context, name string, args map[string]any) (any, error) {
	handler, ok := r.handlers[name]
	if !ok {
		return nil, rpc.InvalidParams("unknown tool %q", name)
	}

	ctx, span := instrumentation.StartToolSpan(ctx, name)
	defer span.End()

	inv := instrumentation.NewToolInvocation(name).WithSpanContext(ctx)
	ctx = withInvocation(ctx, inv)

	payload, err := handler(ctx, r.sc, args)
	inv.Complete(err == nil, err)
	r.audit.LogToolInvocation(inv)
	if m := r.sc.Metrics(); m != nil {
		m.RecordToolInvocationWithCalendar(ctx, name, inv.Status(), inv.Calendar, inv.Duration)
	}

	if err != nil {
		instrumentation.SetSpanError(span, err)
		return nil, err
	}
	instrumentation.SetSpanSuccess(span)
	return payload, nil
}
