package engine

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tartampluch/go-milestone/internal/config"
	"golang.org/x/text/width"
)

// CalendarDate is a local calendar date without time of day.
// The zero value is not a valid date; use IsZero to detect it.
type CalendarDate struct {
	year  int
	month time.Month
	day   int
}

// NewCalendarDate builds a date from its components.
// Out-of-range components are normalized the way time.Date does.
func NewCalendarDate(year int, month time.Month, day int) CalendarDate {
	return FromTime(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// FromTime extracts the calendar date of t in t's own location.
func FromTime(t time.Time) CalendarDate {
	y, m, d := t.Date()
	return CalendarDate{year: y, month: m, day: d}
}

// ParseISODate parses the ISO-8601 calendar date forms accepted in the birth
// date field. Full-width digits and dashes are narrowed before parsing.
func ParseISODate(text string) (CalendarDate, error) {
	value := strings.TrimSpace(width.Narrow.String(text))
	if value == "" {
		return CalendarDate{}, errors.New(config.ErrDateEmpty)
	}

	for _, layout := range isoLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			// The date part is taken as written, ignoring any offset.
			return FromTime(t), nil
		}
	}
	return CalendarDate{}, fmt.Errorf("%s: %q", config.ErrDateParse, value)
}

var isoLayouts = []string{
	config.DateFormatFullDash,
	config.DateFormatFullBasic,
	config.DateFormatRFC3339,
	config.DateFormatLocalT,
	config.DateFormatLocalTMin,
}

func (d CalendarDate) Year() int { return d.year }

func (d CalendarDate) Month() time.Month { return d.month }

func (d CalendarDate) Day() int { return d.day }

// IsZero reports whether d is the zero value, which no parser produces.
func (d CalendarDate) IsZero() bool { return d == CalendarDate{} }

func (d CalendarDate) Weekday() time.Weekday { return d.Time(time.UTC).Weekday() }

// Time returns midnight of d in loc.
func (d CalendarDate) Time(loc *time.Location) time.Time {
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, loc)
}

// String formats d as YYYY-MM-DD.
func (d CalendarDate) String() string {
	return fmt.Sprintf(config.FormatISODate, d.year, int(d.month), d.day)
}

// Compare returns -1, 0 or +1 depending on whether d is before, equal to,
// or after other.
func (d CalendarDate) Compare(other CalendarDate) int {
	switch {
	case d.year != other.year:
		return sign(d.year - other.year)
	case d.month != other.month:
		return sign(int(d.month) - int(other.month))
	default:
		return sign(d.day - other.day)
	}
}

func (d CalendarDate) Before(other CalendarDate) bool { return d.Compare(other) < 0 }

func (d CalendarDate) After(other CalendarDate) bool { return d.Compare(other) > 0 }

func (d CalendarDate) Equal(other CalendarDate) bool { return d == other }

// AddYears shifts d by n years. When the target month is shorter than d's day
// (Feb 29 in a common year) the day is clamped to the month's last day, so
// 2000-02-29 plus one year is 2001-02-28.
func (d CalendarDate) AddYears(n int) CalendarDate {
	return d.AddMonths(n * 12)
}

// AddMonths shifts d by n months, clamping the day to the target month's length.
func (d CalendarDate) AddMonths(n int) CalendarDate {
	// Month arithmetic on a day-1 date never overflows into the next month.
	first := time.Date(d.year, d.month+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	y, m, _ := first.Date()
	return CalendarDate{year: y, month: m, day: clampDay(y, m, d.day)}
}

// AddDays shifts d by n days.
func (d CalendarDate) AddDays(n int) CalendarDate {
	return FromTime(d.Time(time.UTC).AddDate(0, 0, n))
}

// DaysUntil returns the exact number of calendar days from d to other.
// It is negative when other lies before d.
func (d CalendarDate) DaysUntil(other CalendarDate) int {
	// UTC midnights are exactly one day of seconds apart, with no DST gaps.
	// Unix seconds avoid the ~292 year range limit of time.Duration.
	secs := other.Time(time.UTC).Unix() - d.Time(time.UTC).Unix()
	return int(secs / config.SecondsPerDay)
}

func daysInMonth(y int, m time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func clampDay(y int, m time.Month, d int) int {
	if d < 1 {
		return 1
	}
	if last := daysInMonth(y, m); d > last {
		return last
	}
	return d
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	default:
		return 0
	}
}
