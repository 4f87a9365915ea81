package models

import (
	"testing"

	"github.com/stretchr/testify/require"

	"fitness-backend/internal/apperrors"
)

func TestCourseNormalizeByDay(t *testing.T) {
	req := &CourseCreateRequest{Name: "Yoga", BillType: BillTypeDay, LimitDays: 90}
	course, err := req.Normalize()
	require.NoError(t, err)
	require.Equal(t, "quarterly", course.BillDesc)
	require.Equal(t, 270, course.LimitCounts) // 3 visits per day latent cap
	require.Equal(t, 90, course.LimitDays)
}

func TestCourseNormalizeByCount(t *testing.T) {
	req := &CourseCreateRequest{Name: "PT", BillType: BillTypeCount, LimitCounts: 12}
	course, err := req.Normalize()
	require.NoError(t, err)
	require.Equal(t, "12 sessions", course.BillDesc)
	require.Equal(t, 365, course.LimitDays) // latent one-year validity
}

func TestCourseNormalizeRejectsBadInput(t *testing.T) {
	cases := []struct {
		name string
		req  CourseCreateRequest
	}{
		{"missing name", CourseCreateRequest{BillType: BillTypeDay, LimitDays: 30}},
		{"unknown bill type", CourseCreateRequest{Name: "x", BillType: "weekly"}},
		{"odd day count", CourseCreateRequest{Name: "x", BillType: BillTypeDay, LimitDays: 45}},
		{"zero days", CourseCreateRequest{Name: "x", BillType: BillTypeDay}},
		{"zero counts", CourseCreateRequest{Name: "x", BillType: BillTypeCount}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.req.Normalize()
			require.Error(t, err)
			require.True(t, apperrors.IsInvalid(err))
		})
	}
}

func TestDayBillDescription(t *testing.T) {
	for days, want := range map[int]string{30: "monthly", 90: "quarterly", 180: "half-year", 365: "annual"} {
		desc, err := DayBillDescription(days)
		require.NoError(t, err)
		require.Equal(t, want, desc)
	}
	_, err := DayBillDescription(60)
	require.Error(t, err)
}

func TestCourseUpdateRevalidatesBilling(t *testing.T) {
	course := &Course{Name: "Yoga", BillType: BillTypeDay, BillDesc: "monthly", LimitDays: 30, LimitCounts: 90}

	days := 365
	req := &CourseUpdateRequest{LimitDays: &days}
	require.NoError(t, req.Apply(course))
	require.Equal(t, "annual", course.BillDesc)

	bad := 45
	req = &CourseUpdateRequest{LimitDays: &bad}
	require.Error(t, req.Apply(course))

	// Non-billing edits leave the billing description alone
	name := "Hot Yoga"
	req = &CourseUpdateRequest{Name: &name}
	course.BillDesc = "annual"
	require.NoError(t, req.Apply(course))
	require.Equal(t, "annual", course.BillDesc)
	require.Equal(t, "Hot Yoga", course.Name)
}
