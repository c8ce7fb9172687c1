package timecard

import (
	"testing"

	"github.com/cmlabs-hris/timecard-backend-go/internal/pkg/punchtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func punchesFrom(t *testing.T, raw string) []punchtime.Punch {
	t.Helper()
	return punchtime.Normalize(punchtime.Parse(raw))
}

func TestDailyHours_AbsentDayIsValid(t *testing.T) {
	result := DailyHours(nil)
	assert.True(t, result.Valid)
	assert.Zero(t, result.TotalHours)
	assert.Empty(t, result.Intervals)
}

func TestDailyHours_TwoIntervals(t *testing.T) {
	result := DailyHours(punchesFrom(t, "09:00\n12:00\n13:00\n18:00"))
	require.True(t, result.Valid)
	assert.Equal(t, 8.0, result.TotalHours)
	require.Len(t, result.Intervals, 2)
	assert.Equal(t, 3.0, result.Intervals[0].Hours)
	assert.Equal(t, 5.0, result.Intervals[1].Hours)
}

func TestDailyHours_SpaceDelimitedThreeQuarters(t *testing.T) {
	result := DailyHours(punchesFrom(t, "10:15  11:00"))
	require.True(t, result.Valid)
	assert.Equal(t, 0.75, result.TotalHours)
	require.Len(t, result.Intervals, 1)
}

func TestDailyHours_OddCountFailsClosed(t *testing.T) {
	result := DailyHours(punchesFrom(t, "09:00\n12:30\n17:45"))
	assert.False(t, result.Valid)
	assert.Zero(t, result.TotalHours)
	assert.Contains(t, result.ErrorReason, "odd punch count")
}

func TestDailyHours_BackwardsPairIsErrorNotClamp(t *testing.T) {
	result := DailyHours(punchesFrom(t, "8:00\n7:30"))
	assert.False(t, result.Valid)
	assert.Zero(t, result.TotalHours)
	assert.Contains(t, result.ErrorReason, "negative interval")
}

func TestDailyHours_RoundsToTwoDecimals(t *testing.T) {
	// 09:00-09:10 is a sixth of an hour.
	result := DailyHours(punchesFrom(t, "09:00\n09:10"))
	require.True(t, result.Valid)
	assert.Equal(t, 0.17, result.TotalHours)
}

func TestDailyHours_EvenIncreasingSequencesSumIntervals(t *testing.T) {
	cases := []struct {
		raw  string
		want float64
	}{
		{"00:00\n23:59", 23.98},
		{"06:30\n10:00\n10:30\n14:00\n15:00\n19:30", 11.5},
		{"09:05\n09:05", 0}, // zero-width interval still sums
	}
	for _, c := range cases {
		result := DailyHours(punchesFrom(t, c.raw))
		require.True(t, result.Valid, "raw=%q", c.raw)
		assert.Equal(t, c.want, result.TotalHours, "raw=%q", c.raw)
	}
}

func TestBiweeklyTotals_FortyHourSplit(t *testing.T) {
	daily := make([]float64, 14)
	// Week 1: 45h over five days; week 2: 38h.
	for i := 0; i < 5; i++ {
		daily[i] = 9
	}
	for i := 7; i < 12; i++ {
		daily[i] = 7.6
	}
	totals := BiweeklyTotals(daily, 40)
	assert.Equal(t, 45.0, totals.Week1Hours)
	assert.Equal(t, 40.0, totals.Week1Regular)
	assert.Equal(t, 5.0, totals.Week1Overtime)
	assert.Equal(t, 38.0, totals.Week2Hours)
	assert.Equal(t, 38.0, totals.Week2Regular)
	assert.Equal(t, 0.0, totals.Week2Overtime)
	assert.Equal(t, 78.0, totals.TotalRegular)
	assert.Equal(t, 5.0, totals.TotalOvertime)
}

func TestBiweeklyTotals_ShortWeekTwo(t *testing.T) {
	// Only ten day columns: week 2 sums the three that exist.
	daily := []float64{8, 8, 8, 8, 8, 0, 0, 8, 8, 8}
	totals := BiweeklyTotals(daily, 40)
	assert.Equal(t, 40.0, totals.Week1Hours)
	assert.Equal(t, 24.0, totals.Week2Hours)
	assert.Equal(t, 24.0, totals.Week2Regular)
}

func TestBiweeklyTotals_IgnoresColumnsPastSixteen(t *testing.T) {
	daily := make([]float64, 20)
	for i := range daily {
		daily[i] = 1
	}
	totals := BiweeklyTotals(daily, 40)
	assert.Equal(t, 7.0, totals.Week1Hours)
	assert.Equal(t, 9.0, totals.Week2Hours)
}

func TestBiweeklyTotals_Empty(t *testing.T) {
	totals := BiweeklyTotals(nil, 40)
	assert.Zero(t, totals.TotalRegular)
	assert.Zero(t, totals.TotalOvertime)
}
