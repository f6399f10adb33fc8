package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGatedEnforcesSpacing(t *testing.T) {
	m := NewMemory()
	m.AddCalendar(Calendar{Name: "Calendar", Account: "iCloud", Kind: SourceLocal, Writable: true})
	g := NewGated(m, 40*time.Millisecond)

	ctx := context.Background()
	start := time.Now()
	for i := 0; i < 3; i++ {
		_, err := g.ListCalendars(ctx)
		require.NoError(t, err)
	}
	// First call passes immediately, the next two wait one interval each.
	assert.GreaterOrEqual(t, time.Since(start), 80*time.Millisecond)
}

func TestGatedHonorsContextCancellation(t *testing.T) {
	m := NewMemory()
	g := NewGated(m, 500*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	_, err := g.ListCalendars(ctx)
	require.NoError(t, err)

	cancel()
	_, err = g.ListCalendars(ctx)
	assert.Error(t, err)
}

func TestGatedDefaultSpacing(t *testing.T) {
	g := NewGated(NewMemory(), 0)
	assert.NotNil(t, g.limiter)
}
