package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReviewDelta(t *testing.T) {
	cases := []struct {
		prior, next string
		delta       int
	}{
		// Voiding or comping a counted scan hands the session back
		{ExpenseStatusPending, ExpenseStatusReject, -1},
		{ExpenseStatusPending, ExpenseStatusFree, -1},
		{ExpenseStatusActivated, ExpenseStatusReject, -1},
		{ExpenseStatusActivated, ExpenseStatusFree, -1},

		// Confirming a counted scan changes nothing
		{ExpenseStatusPending, ExpenseStatusActivated, 0},
		{ExpenseStatusActivated, ExpenseStatusActivated, 0},

		// Re-activating a voided scan deducts again
		{ExpenseStatusReject, ExpenseStatusActivated, 1},
		{ExpenseStatusFree, ExpenseStatusActivated, 1},

		// Re-applying the same verdict is a no-op
		{ExpenseStatusReject, ExpenseStatusReject, 0},
		{ExpenseStatusFree, ExpenseStatusFree, 0},
		{ExpenseStatusReject, ExpenseStatusFree, 0},
		{ExpenseStatusFree, ExpenseStatusReject, 0},
	}
	for _, tc := range cases {
		delta, err := ReviewDelta(tc.prior, tc.next)
		require.NoError(t, err, "%s -> %s", tc.prior, tc.next)
		require.Equal(t, tc.delta, delta, "%s -> %s", tc.prior, tc.next)
	}
}

func TestReviewDeltaRejectsBadStatuses(t *testing.T) {
	_, err := ReviewDelta(ExpenseStatusActivated, ExpenseStatusPending)
	require.Error(t, err)

	_, err = ReviewDelta("unknown", ExpenseStatusReject)
	require.Error(t, err)

	_, err = ReviewDelta(ExpenseStatusPending, "unknown")
	require.Error(t, err)
}

func TestExpenseReviewRequestValidate(t *testing.T) {
	ok := &ExpenseReviewRequest{ID: 1, Status: ExpenseStatusFree}
	require.NoError(t, ok.Validate())

	// A rejection needs a reason
	reject := &ExpenseReviewRequest{ID: 1, Status: ExpenseStatusReject}
	require.Error(t, reject.Validate())
	reject.Reason = "wrong member"
	require.NoError(t, reject.Validate())

	pending := &ExpenseReviewRequest{ID: 1, Status: ExpenseStatusPending}
	require.Error(t, pending.Validate())
}
