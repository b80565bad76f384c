package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-milestone/internal/engine"
)

func TestCompute_FutureMilestone(t *testing.T) {
	today := date(2024, time.June, 1)

	res, ok := engine.Compute("1990-01-01", 37, today)

	require.True(t, ok)
	assert.Equal(t, date(1990, time.January, 1), res.Birth)
	assert.Equal(t, 37, res.AgeYears)
	assert.Equal(t, date(2027, time.January, 1), res.Milestone)
	assert.Equal(t, engine.Duration{Years: 2, Months: 7, Days: 0, TotalDays: 944}, res.Duration)
}

func TestCompute_PastMilestone(t *testing.T) {
	today := date(2024, time.June, 1)

	res, ok := engine.Compute("1950-03-15", 37, today)

	require.True(t, ok)
	assert.Equal(t, date(1987, time.March, 15), res.Milestone)
	assert.Equal(t, engine.Duration{Past: true, Years: -37, Months: -2, Days: -17, TotalDays: -13593}, res.Duration)
}

func TestCompute_MilestoneIsToday(t *testing.T) {
	today := date(2024, time.June, 1)

	res, ok := engine.Compute("1987-06-01", 37, today)

	require.True(t, ok)
	assert.Equal(t, today, res.Milestone)
	assert.Equal(t, engine.Duration{}, res.Duration)
	assert.False(t, res.Duration.Past)
}

func TestCompute_LeapDayBirth(t *testing.T) {
	today := date(2024, time.June, 1)

	res, ok := engine.Compute("2000-02-29", 37, today)
	require.True(t, ok)
	assert.Equal(t, date(2037, time.February, 28), res.Milestone)

	res, ok = engine.Compute("2000-02-29", 4, today)
	require.True(t, ok)
	assert.Equal(t, date(2004, time.February, 29), res.Milestone)
}

func TestCompute_AgeZeroIsBirthDate(t *testing.T) {
	res, ok := engine.Compute("2020-05-05", 0, date(2024, time.June, 1))

	require.True(t, ok)
	assert.Equal(t, res.Birth, res.Milestone)
	assert.True(t, res.Duration.Past)
}

func TestCompute_NoResult(t *testing.T) {
	today := date(2024, time.June, 1)
	tests := []struct {
		name  string
		input string
		age   int
	}{
		{"Empty", "", 37},
		{"Partial", "1990-0", 37},
		{"Garbage", "abc", 37},
		{"ImpossibleDay", "1990-02-30", 37},
		{"NegativeAge", "1990-01-01", -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, ok := engine.Compute(tt.input, tt.age, today)
			assert.False(t, ok)
			assert.Equal(t, engine.Result{}, res)
		})
	}
}

func TestBetween_ClampedMonths(t *testing.T) {
	tests := []struct {
		name          string
		today, target engine.CalendarDate
		want          engine.Duration
	}{
		{
			"EndOfJanuary",
			date(2024, time.January, 31), date(2024, time.March, 1),
			engine.Duration{Months: 1, Days: 1, TotalDays: 30},
		},
		{
			"LeapDayToCommonYear",
			date(2024, time.February, 29), date(2025, time.February, 28),
			engine.Duration{Years: 1, TotalDays: 365},
		},
		{
			"BackwardToLeapDay",
			date(2025, time.March, 31), date(2024, time.February, 29),
			engine.Duration{Past: true, Years: -1, Months: -1, TotalDays: -396},
		},
		{
			"LeapDayClampNeedsTwelveMonths",
			date(2024, time.February, 29), date(2028, time.February, 28),
			engine.Duration{Years: 3, Months: 12, TotalDays: 1460},
		},
		{
			"Tomorrow",
			date(2024, time.June, 1), date(2024, time.June, 2),
			engine.Duration{Days: 1, TotalDays: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, engine.Between(tt.today, tt.target))
		})
	}
}

// TestBetween_Reconstruction walks a grid of dates and checks that the
// breakdown always adds back up to the target with consistent signs.
func TestBetween_Reconstruction(t *testing.T) {
	var targets []engine.CalendarDate
	for y := 2020; y <= 2028; y += 2 {
		for m := time.January; m <= time.December; m++ {
			for _, d := range []int{1, 15, 28, 29, 30, 31} {
				targets = append(targets, date(y, m, d))
			}
		}
	}
	todays := []engine.CalendarDate{
		date(2024, time.January, 31),
		date(2024, time.February, 29),
		date(2024, time.March, 31),
		date(2024, time.June, 1),
		date(2023, time.December, 31),
	}

	for _, today := range todays {
		for _, target := range targets {
			d := engine.Between(today, target)

			got := today.AddYears(d.Years).AddMonths(d.Months).AddDays(d.Days)
			require.Equal(t, target, got, "today=%s target=%s duration=%+v", today, target, d)
			require.Equal(t, today.DaysUntil(target), d.TotalDays)
			require.Equal(t, target.Before(today), d.Past)

			if d.Past {
				assert.True(t, d.Years <= 0 && d.Months <= 0 && d.Days <= 0, "%+v", d)
			} else {
				assert.True(t, d.Years >= 0 && d.Months >= 0 && d.Days >= 0, "%+v", d)
			}
			// Twelve months only appears after a leap day clamp, e.g.
			// 2024-02-29 to 2028-02-28 is 3 years, 12 months.
			assert.LessOrEqual(t, abs(d.Months), 12)
			assert.LessOrEqual(t, abs(d.Days), 31)

			if d.TotalDays == 0 {
				assert.Equal(t, engine.Duration{}, d)
			}
		}
	}
}

func TestParseAgeYears(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"", 37},
		{"40", 40},
		{" 42 ", 42},
		{"0", 0},
		{"999", 999},
		{"1000", 37},
		{"-1", 37},
		{"abc", 37},
		{"12abc", 37},
		{"3.5", 37},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, engine.ParseAgeYears(tt.input))
		})
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
