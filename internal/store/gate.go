package store

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// DefaultMinSpacing is the minimum gap enforced between consecutive store
// calls. Native calendar stores misbehave under bursts; 100ms keeps us well
// inside what they tolerate.
const DefaultMinSpacing = 100 * time.Millisecond

// Gated wraps a Store so that all calls pass through a single serializing
// rate gate. Callers block (honoring ctx) until their turn.
type Gated struct {
	inner   Store
	limiter *rate.Limiter
}

// NewGated wraps inner with the given minimum spacing between calls.
// A non-positive spacing falls back to DefaultMinSpacing.
func NewGated(inner Store, minSpacing time.Duration) *Gated {
	if minSpacing <= 0 {
		minSpacing = DefaultMinSpacing
	}
	return &Gated{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Every(minSpacing), 1),
	}
}

func (g *Gated) ListCalendars(ctx context.Context) ([]Calendar, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return g.inner.ListCalendars(ctx)
}

func (g *Gated) QueryEvents(ctx context.Context, start, end time.Time, calendarIDs []string) ([]Appointment, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return g.inner.QueryEvents(ctx, start, end, calendarIDs)
}

func (g *Gated) GetEvent(ctx context.Context, id string) (Appointment, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return Appointment{}, err
	}
	return g.inner.GetEvent(ctx, id)
}

func (g *Gated) CreateEvent(ctx context.Context, appt Appointment) (Appointment, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return Appointment{}, err
	}
	return g.inner.CreateEvent(ctx, appt)
}

func (g *Gated) UpdateEvent(ctx context.Context, appt Appointment) (Appointment, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return Appointment{}, err
	}
	return g.inner.UpdateEvent(ctx, appt)
}

func (g *Gated) DeleteEvent(ctx context.Context, id string, span Span) error {
	if err := g.limiter.Wait(ctx); err != nil {
		return err
	}
	return g.inner.DeleteEvent(ctx, id, span)
}
