package store

import (
	"context"
	"time"

	"github.com/teemow/calfewer/internal/instrumentation"
)

// Instrumented wraps a Store and records a span plus an operation metric for
// every call. It sits outside the rate gate so the recorded durations include
// the time spent waiting for a slot.
type Instrumented struct {
	inner   Store
	metrics *instrumentation.Metrics
}

// NewInstrumented wraps inner. metrics may be nil; spans are still emitted.
func NewInstrumented(inner Store, metrics *instrumentation.Metrics) *Instrumented {
	return &Instrumented{inner: inner, metrics: metrics}
}

func (s *Instrumented) ListCalendars(ctx context.Context) ([]Calendar, error) {
	ctx, finish := s.begin(ctx, instrumentation.OpListCalendars)
	cals, err := s.inner.ListCalendars(ctx)
	finish(err)
	return cals, err
}

func (s *Instrumented) QueryEvents(ctx context.Context, start, end time.Time, calendarIDs []string) ([]Appointment, error) {
	ctx, finish := s.begin(ctx, instrumentation.OpQueryEvents)
	appts, err := s.inner.QueryEvents(ctx, start, end, calendarIDs)
	finish(err)
	return appts, err
}

func (s *Instrumented) GetEvent(ctx context.Context, id string) (Appointment, error) {
	ctx, finish := s.begin(ctx, instrumentation.OpGetEvent)
	appt, err := s.inner.GetEvent(ctx, id)
	finish(err)
	return appt, err
}

func (s *Instrumented) CreateEvent(ctx context.Context, appt Appointment) (Appointment, error) {
	ctx, finish := s.begin(ctx, instrumentation.OpCreateEvent)
	created, err := s.inner.CreateEvent(ctx, appt)
	finish(err)
	return created, err
}

func (s *Instrumented) UpdateEvent(ctx context.Context, appt Appointment) (Appointment, error) {
	ctx, finish := s.begin(ctx, instrumentation.OpUpdateEvent)
	updated, err := s.inner.UpdateEvent(ctx, appt)
	finish(err)
	return updated, err
}

func (s *Instrumented) DeleteEvent(ctx context.Context, id string, span Span) error {
	ctx, finish := s.begin(ctx, instrumentation.OpDeleteEvent)
	err := s.inner.DeleteEvent(ctx, id, span)
	finish(err)
	return err
}

// begin opens the span and returns a finish func that closes it and records
// the operation metric once the inner call comes back.
func (s *Instrumented) begin(ctx context.Context, operation string) (context.Context, func(error)) {
	start := time.Now()
	ctx, span := instrumentation.StartStoreSpan(ctx, operation)

	return ctx, func(err error) {
		status := instrumentation.StatusSuccess
		if err != nil {
			status = instrumentation.StatusError
			instrumentation.SetSpanError(span, err)
		} else {
			instrumentation.SetSpanSuccess(span)
		}
		span.End()

		if s.metrics != nil {
			s.metrics.RecordStoreOperation(ctx, operation, status, time.Since(start))
		}
	}
}
