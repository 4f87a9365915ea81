package models

import "time"

// Signin is an attendance check-in produced by scanning a signin-scene QR.
// At most one per user per calendar day; repeats are answered idempotently.
type Signin struct {
	ID         int       `json:"id"`
	UserID     int       `json:"u_id"`
	CoachID    int       `json:"coach_id"` // staff member who scanned the first check-in
	Date       string    `json:"date"`     // CST calendar day, "2006-01-02"
	CreateTime time.Time `json:"create_time"`
}
