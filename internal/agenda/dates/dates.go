// Package dates holds the calendar arithmetic behind the agenda timeline.
//
// All comparisons operate on local calendar days, never UTC instants. Source
// records store plain "YYYY-MM-DD" dates; parsing them as UTC and converting
// back shifts items across midnight in any timezone east or west of UTC,
// which is exactly the off-by-one-day bug this package exists to prevent.
package dates

import (
	"fmt"
	"math"
	"time"
)

// DateLayout is the wire format for due dates.
const DateLayout = "2006-01-02"

// ParseLocalDate parses a YYYY-MM-DD string as local midnight.
func ParseLocalDate(raw string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, raw, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", raw, err)
	}
	return t, nil
}

// AsLocalDay re-anchors a date-only value on the local calendar day carrying
// the same year, month and day. Database drivers decode DATE columns as
// midnight UTC; comparing that instant against local midnights shifts the
// item by a day in every zone other than UTC.
func AsLocalDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

// StartOfDay returns local midnight of t's calendar day.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// AtHour anchors t's calendar day at a fixed local hour. Policies anchor at
// noon and reminders at 09:00 so a date-only record never sits on a timezone
// boundary when compared against "now".
func AtHour(t time.Time, hour int) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, hour, 0, 0, 0, t.Location())
}

// SameCalendarDay reports whether a and b fall on the same local calendar day.
func SameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// WithinRollingWindow reports whether date falls inside the rolling window of
// [now, now + days]. Day distance is the ceiling of the exact difference:
// a date 6.5 days out counts as day 7, not day 6. The ceiling changes
// boundary membership for the 7- and 30-day windows and must be preserved.
func WithinRollingWindow(date, now time.Time, days int) bool {
	diff := date.Sub(now)
	d := math.Ceil(diff.Hours() / 24)
	return d >= 0 && d <= float64(days)
}
