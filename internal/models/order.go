package models

import (
	"strings"
	"time"

	"fitness-backend/internal/apperrors"
)

// Order lifecycle statuses.
const (
	OrderStatusActivated = "activated"
	OrderStatusExpired   = "expired"
	OrderStatusRefund    = "refund"
)

// Order is a purchased pass. Counts and expire_time are snapshotted from the
// course at purchase time so later course edits never touch sold passes; the
// member's name and phone are denormalized the same way and refreshed by the
// privileged user edit cascade.
type Order struct {
	ID          int       `json:"id"`
	OrderNo     string    `json:"order_no"`
	UserID      int       `json:"u_id"`
	UserName    string    `json:"u_name"`
	Phone       string    `json:"phone"`
	CourseID    int       `json:"course_id"`
	CourseName  string    `json:"course_name"`
	BillType    string    `json:"bill_type"`
	BillDesc    string    `json:"bill_desc"`
	Amount      int64     `json:"amount"` // cents
	Status      string    `json:"status"`
	UsedCounts  int       `json:"used_counts"`
	LimitCounts int       `json:"limit_counts"`
	ExpireTime  time.Time `json:"expire_time"`
	Comments    []string  `json:"comments"`
	Receipt     string    `json:"receipt"`
	Contract    string    `json:"contract"`
	Notified    bool      `json:"notified"`
	CreateTime  time.Time `json:"create_time"`
	UpdateTime  time.Time `json:"update_time"`
}

func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusActivated, OrderStatusExpired, OrderStatusRefund:
		return true
	}
	return false
}

// Remaining returns how many redemptions the order still carries.
func (o *Order) Remaining() int {
	r := o.LimitCounts - o.UsedCounts
	if r < 0 {
		return 0
	}
	return r
}

// CanRedeem decides whether one visit may be deducted from the order at the
// given instant. Every rejection is a Conflict so the scan endpoint can
// surface the reason verbatim.
func (o *Order) CanRedeem(now time.Time) error {
	if o.BillType != BillTypeCount {
		return apperrors.Conflict("order %s is a by-day pass, not redeemable by scan", o.OrderNo)
	}
	if o.Status != OrderStatusActivated {
		return apperrors.Conflict("order %s is %s, not redeemable", o.OrderNo, o.Status)
	}
	if !o.ExpireTime.IsZero() && now.After(o.ExpireTime) {
		return apperrors.Conflict("order %s expired at %s", o.OrderNo, o.ExpireTime.Format("2006-01-02"))
	}
	if o.UsedCounts >= o.LimitCounts {
		return apperrors.Conflict("order %s has no sessions left", o.OrderNo)
	}
	return nil
}

// ShouldExpire reports whether the nightly sweep must flip the order to
// expired: still activated but past its validity window.
func (o *Order) ShouldExpire(now time.Time) bool {
	if o.Status != OrderStatusActivated {
		return false
	}
	return !o.ExpireTime.IsZero() && now.After(o.ExpireTime)
}

type OrderCreateRequest struct {
	UserID   int   `json:"u_id"`
	CourseID int   `json:"course_id"`
	Amount   int64 `json:"amount"`
}

func (r *OrderCreateRequest) Validate() error {
	if r.UserID <= 0 {
		return apperrors.Invalid("u_id is required")
	}
	if r.CourseID <= 0 {
		return apperrors.Invalid("course_id is required")
	}
	if r.Amount < 0 {
		return apperrors.Invalid("amount must not be negative")
	}
	return nil
}

// OrderCommentRequest appends a staff note to an order.
type OrderCommentRequest struct {
	Content string `json:"content"`
}

func (r *OrderCommentRequest) Validate() error {
	if strings.TrimSpace(r.Content) == "" {
		return apperrors.Invalid("content is required")
	}
	return nil
}

// OrderUpdateRequest is a staff-side patch. Status changes are restricted to
// the three lifecycle values; expire_time may only move, never clear.
type OrderUpdateRequest struct {
	ID          int        `json:"id"`
	Status      *string    `json:"status,omitempty"`
	ExpireTime  *time.Time `json:"expire_time,omitempty"`
	LimitCounts *int       `json:"limit_counts,omitempty"`
	Receipt     *string    `json:"receipt,omitempty"`
	Contract    *string    `json:"contract,omitempty"`
	Comment     *string    `json:"comment,omitempty"`
}

func (r *OrderUpdateRequest) Empty() bool {
	return r.Status == nil && r.ExpireTime == nil && r.LimitCounts == nil &&
		r.Receipt == nil && r.Contract == nil && r.Comment == nil
}

// Apply merges the patch into the order. Shrinking limit_counts below
// used_counts is rejected, as is an unknown status.
func (r *OrderUpdateRequest) Apply(o *Order) error {
	if r.Status != nil {
		if !ValidOrderStatus(*r.Status) {
			return apperrors.Invalid("unknown order status %q", *r.Status)
		}
		o.Status = *r.Status
	}
	if r.ExpireTime != nil {
		if !o.ExpireTime.IsZero() && r.ExpireTime.Before(o.ExpireTime) {
			return apperrors.Invalid("expire_time may only move forward")
		}
		o.ExpireTime = *r.ExpireTime
	}
	if r.LimitCounts != nil {
		if *r.LimitCounts < o.UsedCounts {
			return apperrors.Conflict("limit_counts %d below used_counts %d", *r.LimitCounts, o.UsedCounts)
		}
		o.LimitCounts = *r.LimitCounts
	}
	if r.Receipt != nil {
		o.Receipt = *r.Receipt
	}
	if r.Contract != nil {
		o.Contract = *r.Contract
	}
	if r.Comment != nil && *r.Comment != "" {
		o.Comments = append(o.Comments, *r.Comment)
	}
	return nil
}
