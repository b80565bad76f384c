package engine

import "time"

// Clock abstracts time.Now() to allow deterministic testing.
// "Today" is read from it once per computation.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the standard time package.
type RealClock struct{}

// Now returns the current local time.
func (RealClock) Now() time.Time {
	return time.Now()
}

// Today returns the local calendar date of c.Now().
func Today(c Clock) CalendarDate {
	return FromTime(c.Now())
}
