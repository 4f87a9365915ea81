package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"fitness-backend/internal/timeutil"
)

func TestNextRun(t *testing.T) {
	// Before today's slot: fires today
	now := time.Date(2024, 5, 10, 8, 30, 0, 0, timeutil.CST)
	next := NextRun(now, 9, 0)
	require.Equal(t, time.Date(2024, 5, 10, 9, 0, 0, 0, timeutil.CST), next)

	// Past today's slot: fires tomorrow
	now = time.Date(2024, 5, 10, 9, 0, 1, 0, timeutil.CST)
	next = NextRun(now, 9, 0)
	require.Equal(t, time.Date(2024, 5, 11, 9, 0, 0, 0, timeutil.CST), next)

	// Exactly at the slot: fires tomorrow, never immediately again
	now = time.Date(2024, 5, 10, 0, 1, 0, 0, timeutil.CST)
	next = NextRun(now, 0, 1)
	require.Equal(t, time.Date(2024, 5, 11, 0, 1, 0, 0, timeutil.CST), next)

	// UTC input lands on the CST wall clock
	now = time.Date(2024, 5, 10, 20, 0, 0, 0, time.UTC) // 04:00 May 11 CST
	next = NextRun(now, 0, 1)
	require.Equal(t, time.Date(2024, 5, 12, 0, 1, 0, 0, timeutil.CST), next)
}
