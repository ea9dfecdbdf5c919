// Package dates holds the day-granularity countdown arithmetic shared by the
// API handlers and the reminder worker. Keeping one implementation here is
// what stops the two paths from disagreeing about "days remaining".
package dates

import (
	"math"
	"time"
)

// DaysRemainingAt returns the calendar-day distance from now to end. Both
// instants are truncated to midnight in now's location before subtracting, so
// the time-of-day component never influences the result: a trial ending at
// 23:59:59.999 today and one ending at 00:00 today both report 0. Past dates
// go negative.
//
// Truncation uses the viewer's wall clock, while stored expiry thresholds are
// UTC end-of-day; near midnight a viewer in another timezone can disagree
// with the worker by one day. That asymmetry is intentional and relied on by
// the worker's threshold re-check, so don't "fix" it here.
func DaysRemainingAt(end, now time.Time) int {
	endDay := startOfDay(end.In(now.Location()))
	nowDay := startOfDay(now)
	diff := endDay.Sub(nowDay)
	// ceil absorbs DST days that are 23 or 25 hours long
	return int(math.Ceil(diff.Hours() / 24))
}

// DaysRemaining is DaysRemainingAt against the current local time.
func DaysRemaining(end time.Time) int {
	return DaysRemainingAt(end, time.Now())
}

// IsExpiredAt reports whether end is strictly before now, comparing full
// instants rather than truncated days. The UI counts by day but expiry gating
// works on exact instants: a trial ending 23:59:59.999 today is not expired
// at 23:59:59.998 and is expired at midnight. Preserve the granularity
// difference with DaysRemainingAt.
func IsExpiredAt(end, now time.Time) bool {
	return end.Before(now)
}

// IsExpired is IsExpiredAt against the current time.
func IsExpired(end time.Time) bool {
	return IsExpiredAt(end, time.Now())
}

// EndOfDay returns the 23:59:59.999 instant of the given calendar date in
// loc. This is the canonical form trials store their end date in (converted
// to UTC by the store layer).
func EndOfDay(year int, month time.Month, day int, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.Date(year, month, day, 23, 59, 59, int(999*time.Millisecond), loc)
}

// EndOfDayFrom truncates t to its calendar date and returns that date's
// end-of-day instant in t's location.
func EndOfDayFrom(t time.Time) time.Time {
	return EndOfDay(t.Year(), t.Month(), t.Day(), t.Location())
}

// UTCEndOfDayAfter returns the UTC end-of-day instant daysAhead calendar days
// from now. The reminder worker queries trials whose stored end date equals
// this value exactly.
func UTCEndOfDayAfter(now time.Time, daysAhead int) time.Time {
	utc := now.UTC().AddDate(0, 0, daysAhead)
	return EndOfDay(utc.Year(), utc.Month(), utc.Day(), time.UTC)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
