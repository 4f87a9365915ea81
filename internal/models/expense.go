package models

import (
	"time"

	"fitness-backend/internal/apperrors"
)

// Expense (redemption) statuses.
const (
	ExpenseStatusPending   = "pending"   // scanned, awaiting review
	ExpenseStatusActivated = "activated" // counted against the order
	ExpenseStatusReject    = "reject"    // reviewer voided it
	ExpenseStatusFree      = "free"      // reviewer comped it
)

// QR scan scenes.
const (
	SceneExpense = "expense" // member shows a pass QR, staff scans to deduct
	SceneSignin  = "signin"  // attendance check-in, no deduction
)

// Expense records one redemption attempt against an order. Member, coach and
// course identity are snapshotted at scan time; the privileged user edit
// cascade keeps the name fields in step with the directory.
type Expense struct {
	ID           int       `json:"id"`
	OrderID      int       `json:"order_id"`
	OrderNo      string    `json:"order_no"`
	UserID       int       `json:"u_id"`
	UserName     string    `json:"u_name"`
	Phone        string    `json:"phone"`
	OperatorID   int       `json:"operator_id"`
	OperatorName string    `json:"operator_name"`
	CourseID     int       `json:"course_id"`
	CourseName   string    `json:"course_name"`
	ReviewerID   int       `json:"reviewer_id"`
	Status       string    `json:"status"`
	Reason       string    `json:"reason"`
	CreateTime   time.Time `json:"create_time"`
	UpdateTime   time.Time `json:"update_time"`
}

func ValidExpenseStatus(s string) bool {
	switch s {
	case ExpenseStatusPending, ExpenseStatusActivated, ExpenseStatusReject, ExpenseStatusFree:
		return true
	}
	return false
}

// countsAgainstOrder reports whether a status holds a deducted session.
// A pending scan deducts immediately so the member cannot overdraw while
// review lags; reject and free both hand the session back.
func countsAgainstOrder(status string) bool {
	return status == ExpenseStatusPending || status == ExpenseStatusActivated
}

// ReviewDelta returns the used_counts adjustment when a reviewer moves an
// expense from prior to next. The transition table is idempotent: reviewing
// to the same effective state twice applies no further delta.
//
//	pending/activated -> reject/free : order gets the session back (-1 used)
//	reject/free       -> activated   : session deducted again (+1 used)
//	anything          -> same bucket : no change
func ReviewDelta(prior, next string) (int, error) {
	if !ValidExpenseStatus(prior) {
		return 0, apperrors.Invalid("unknown expense status %q", prior)
	}
	switch next {
	case ExpenseStatusReject, ExpenseStatusFree:
		if countsAgainstOrder(prior) {
			return -1, nil
		}
		return 0, nil
	case ExpenseStatusActivated:
		if countsAgainstOrder(prior) {
			return 0, nil
		}
		return 1, nil
	case ExpenseStatusPending:
		return 0, apperrors.Invalid("cannot review an expense back to pending")
	}
	return 0, apperrors.Invalid("unknown expense status %q", next)
}

type ExpenseReviewRequest struct {
	ID     int    `json:"id"`
	Status string `json:"status"`
	Reason string `json:"reason"`
}

func (r *ExpenseReviewRequest) Validate() error {
	if r.ID <= 0 {
		return apperrors.Invalid("id is required")
	}
	if r.Status == ExpenseStatusPending || !ValidExpenseStatus(r.Status) {
		return apperrors.Invalid("status must be one of activated/reject/free")
	}
	if r.Status == ExpenseStatusReject && r.Reason == "" {
		return apperrors.Invalid("a rejection needs a reason")
	}
	return nil
}
