package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAllowWithinBudget(t *testing.T) {
	l := New(3, time.Minute)

	require.True(t, l.Allow("a"))
	require.True(t, l.Allow("a"))
	require.True(t, l.Allow("a"))
	require.False(t, l.Allow("a"))

	// Keys are independent
	require.True(t, l.Allow("b"))
}

func TestWindowSlides(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	l := New(2, time.Minute)
	l.now = func() time.Time { return now }

	require.True(t, l.Allow("a"))
	require.True(t, l.Allow("a"))
	require.False(t, l.Allow("a"))

	now = now.Add(61 * time.Second)
	require.True(t, l.Allow("a"))
}

func TestPruneDropsIdleKeys(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	l := New(2, time.Minute)
	l.now = func() time.Time { return now }

	l.Allow("a")
	l.Allow("b")
	require.Len(t, l.hits, 2)

	now = now.Add(2 * time.Minute)
	l.Prune()
	require.Empty(t, l.hits)
}
