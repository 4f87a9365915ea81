package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"fitness-backend/internal/apperrors"
)

func activeOrder() *Order {
	return &Order{
		OrderNo:     "ORD-TEST",
		BillType:    BillTypeCount,
		Status:      OrderStatusActivated,
		UsedCounts:  3,
		LimitCounts: 10,
		ExpireTime:  time.Now().Add(24 * time.Hour),
	}
}

func TestCanRedeem(t *testing.T) {
	now := time.Now()

	order := activeOrder()
	require.NoError(t, order.CanRedeem(now))

	expired := activeOrder()
	expired.ExpireTime = now.Add(-time.Hour)
	err := expired.CanRedeem(now)
	require.Error(t, err)
	require.True(t, apperrors.IsConflict(err))

	spent := activeOrder()
	spent.UsedCounts = spent.LimitCounts
	require.Error(t, spent.CanRedeem(now))

	refunded := activeOrder()
	refunded.Status = OrderStatusRefund
	require.Error(t, refunded.CanRedeem(now))
}

// A by-day pass carries a latent session count, but only by-count passes may
// be redeemed by scan.
func TestCanRedeemRejectsByDayOrders(t *testing.T) {
	byDay := activeOrder()
	byDay.BillType = BillTypeDay

	err := byDay.CanRedeem(time.Now())
	require.Error(t, err)
	require.True(t, apperrors.IsConflict(err))
}

func TestShouldExpire(t *testing.T) {
	now := time.Now()

	overdue := activeOrder()
	overdue.ExpireTime = now.Add(-time.Minute)
	require.True(t, overdue.ShouldExpire(now))

	// Refunds never flip to expired
	refunded := activeOrder()
	refunded.Status = OrderStatusRefund
	refunded.ExpireTime = now.Add(-time.Minute)
	require.False(t, refunded.ShouldExpire(now))

	current := activeOrder()
	require.False(t, current.ShouldExpire(now))
}

func TestOrderUpdateGuards(t *testing.T) {
	order := activeOrder()

	// limit_counts cannot drop below used_counts
	low := 2
	req := &OrderUpdateRequest{LimitCounts: &low}
	err := req.Apply(order)
	require.Error(t, err)
	require.True(t, apperrors.IsConflict(err))

	bad := "paused"
	req = &OrderUpdateRequest{Status: &bad}
	require.Error(t, req.Apply(order))

	ok := 20
	comment := "extended after complaint"
	req = &OrderUpdateRequest{LimitCounts: &ok, Comment: &comment}
	require.NoError(t, req.Apply(order))
	require.Equal(t, 20, order.LimitCounts)
	require.Equal(t, []string{"extended after complaint"}, order.Comments)
}

func TestOrderExpiryOnlyMovesForward(t *testing.T) {
	order := activeOrder()

	back := order.ExpireTime.Add(-48 * time.Hour)
	req := &OrderUpdateRequest{ExpireTime: &back}
	err := req.Apply(order)
	require.Error(t, err)
	require.True(t, apperrors.IsInvalid(err))

	forward := order.ExpireTime.Add(72 * time.Hour)
	req = &OrderUpdateRequest{ExpireTime: &forward}
	require.NoError(t, req.Apply(order))
	require.Equal(t, forward, order.ExpireTime)
}

func TestOrderCommentRequest(t *testing.T) {
	require.Error(t, (&OrderCommentRequest{Content: "   "}).Validate())
	require.NoError(t, (&OrderCommentRequest{Content: "prefers evening slots"}).Validate())
}

func TestRemaining(t *testing.T) {
	order := activeOrder()
	require.Equal(t, 7, order.Remaining())
	order.UsedCounts = 15
	require.Equal(t, 0, order.Remaining())
}
