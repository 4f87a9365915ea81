package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGapDayHour(t *testing.T) {
	from := time.Date(2024, 3, 1, 10, 0, 0, 0, CST)

	require.Equal(t, "0d0h", GapDayHour(from, from))
	require.Equal(t, "0d5h", GapDayHour(from, from.Add(5*time.Hour)))
	require.Equal(t, "3d2h", GapDayHour(from, from.Add(74*time.Hour)))

	// A negative gap clamps to zero
	require.Equal(t, "0d0h", GapDayHour(from, from.Add(-time.Hour)))
}

func TestStartOfDay(t *testing.T) {
	late := time.Date(2024, 3, 1, 23, 59, 0, 0, CST)
	start := StartOfDay(late)
	require.Equal(t, 0, start.Hour())
	require.Equal(t, 1, start.Day())

	// A UTC instant is shifted into the CST calendar first
	utc := time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC) // 04:00 Mar 2 CST
	require.Equal(t, 2, StartOfDay(utc).Day())
}

func TestDateString(t *testing.T) {
	d := time.Date(2024, 12, 31, 23, 0, 0, 0, CST)
	require.Equal(t, "2024-12-31", DateString(d))
}
