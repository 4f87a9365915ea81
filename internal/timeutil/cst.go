package timeutil

import (
	"fmt"
	"time"
)

// CST is China Standard Time (UTC+8). All business day boundaries (order
// expiry, sign-in dates) are computed in this zone.
var CST *time.Location

func init() {
	var err error
	CST, err = time.LoadLocation("Asia/Shanghai")
	if err != nil {
		// Fallback: fixed zone if tzdata is unavailable
		CST = time.FixedZone("CST", 8*60*60)
	}
}

// Now returns the current time in CST.
func Now() time.Time {
	return time.Now().In(CST)
}

// StartOfDay returns midnight of the given time's day in CST.
func StartOfDay(t time.Time) time.Time {
	cst := t.In(CST)
	return time.Date(cst.Year(), cst.Month(), cst.Day(), 0, 0, 0, 0, CST)
}

// DateString formats a time as its CST calendar date.
func DateString(t time.Time) string {
	return t.In(CST).Format(DateLayout)
}

// GapDayHour formats the elapsed time between from and to as "{days}d{hours}h".
func GapDayHour(from, to time.Time) string {
	d := to.Sub(from)
	if d < 0 {
		d = 0
	}
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	return fmt.Sprintf("%dd%dh", days, hours)
}

// Common layouts.
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
)
