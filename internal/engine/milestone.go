package engine

import (
	"strconv"
	"strings"

	"github.com/tartampluch/go-milestone/internal/config"
)

// Duration is the calendar-aware gap from today to a milestone date.
// When Past is true every field is zero or negative; otherwise every field
// is zero or positive. Adding Years, then Months, then Days to today (with
// clamped month arithmetic) lands exactly on the milestone.
type Duration struct {
	Past      bool
	Years     int
	Months    int
	Days      int
	TotalDays int
}

// Result pairs a milestone date with its duration from today.
// Both are produced together or not at all.
type Result struct {
	Birth     CalendarDate
	AgeYears  int
	Milestone CalendarDate
	Duration  Duration
}

// Compute derives the milestone birthday for ageYears and its distance from
// today. An empty or malformed birthDateText, or a negative age, yields
// ok == false; this is the normal state while the user is still typing.
func Compute(birthDateText string, ageYears int, today CalendarDate) (Result, bool) {
	if ageYears < 0 {
		return Result{}, false
	}
	birth, err := ParseISODate(birthDateText)
	if err != nil {
		return Result{}, false
	}

	milestone := birth.AddYears(ageYears)
	return Result{
		Birth:     birth,
		AgeYears:  ageYears,
		Milestone: milestone,
		Duration:  Between(today, milestone),
	}, true
}

// Between decomposes the gap from today to target into whole years, then
// whole months, then remaining days, each signed toward target.
func Between(today, target CalendarDate) Duration {
	dir := target.Compare(today)
	if dir == 0 {
		return Duration{}
	}

	years := wholeSteps(today, target, dir, target.Year()-today.Year(), CalendarDate.AddYears)
	anchor := today.AddYears(years)

	calendarMonths := (target.Year()-anchor.Year())*12 + int(target.Month()) - int(anchor.Month())
	months := wholeSteps(anchor, target, dir, calendarMonths, CalendarDate.AddMonths)
	anchor = anchor.AddMonths(months)

	return Duration{
		Past:      dir < 0,
		Years:     years,
		Months:    months,
		Days:      anchor.DaysUntil(target),
		TotalDays: today.DaysUntil(target),
	}
}

// wholeSteps starts from the calendar difference guess and backs off toward
// zero until shifting from by that many units no longer passes target.
// The guess overshoots by at most one unit.
func wholeSteps(from, target CalendarDate, dir, guess int, shift func(CalendarDate, int) CalendarDate) int {
	n := guess
	for n != 0 && passes(shift(from, n), target, dir) {
		n -= dir
	}
	return n
}

// passes reports whether d lies strictly beyond target in direction dir.
func passes(d, target CalendarDate, dir int) bool {
	return d.Compare(target) == dir
}

// ParseAgeYears reads the "years old" route parameter. Empty, non-numeric,
// negative or implausibly large values fall back to the default age.
func ParseAgeYears(text string) int {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || n < 0 || n > config.MaxAgeYears {
		return config.DefaultAgeYears
	}
	return n
}
