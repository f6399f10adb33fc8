package calendar_tools

import (
	"context"

	"github.com/teemow/calfewer/internal/filter"
	"github.com/teemow/calfewer/internal/instrumentation"
	"github.com/teemow/calfewer/internal/rpc"
	"github.com/teemow/calfewer/internal/server"
	"github.com/teemow/calfewer/internal/store"
)

type listCalendarsArgs struct {
	CalendarFilter *filter.CalendarFilter `json:"calendar_filter"`
}

// calendarView is the wire shape of one calendar in list results.
type calendarView struct {
	Name     string           `json:"name"`
	Account  string           `json:"account"`
	Kind     store.SourceKind `json:"kind"`
	Writable bool             `json:"writable"`
}

func handleListCalendars(ctx context.Context, sc *server.ServerContext, args map[string]any) (any, error) {
	var in listCalendarsArgs
	if err := decodeArgs(args, &in); err != nil {
		return nil, err
	}
	if inv := invocationFrom(ctx); inv != nil {
		inv.WithOperation(instrumentation.OpListCalendars)
	}

	calendars, err := sc.Store().ListCalendars(ctx)
	if err != nil {
		return nil, err
	}
	// Unlike the query tools, an omitted filter here means every calendar,
	// not the main preset.
	if in.CalendarFilter != nil {
		resolved, err := filter.Resolve(in.CalendarFilter, sc.Presets())
		if err != nil {
			return nil, rpc.InvalidParams("%v", err)
		}
		calendars = resolved.Apply(calendars)
	}

	views := make([]calendarView, len(calendars))
	for i, cal := range calendars {
		views[i] = calendarView{
			Name:     cal.Name,
			Account:  cal.Account,
			Kind:     cal.Kind,
			Writable: cal.Writable,
		}
	}
	return map[string]any{
		"calendars": views,
		"count":     len(views),
	}, nil
}
