package timecard

import (
	"github.com/cmlabs-hris/timecard-backend-go/internal/domain/timecard"
)

// Week 1 is the first seven day columns; week 2 the next nine at most,
// because pay-period exports carry 14 to 16 date columns depending on
// period length.
const (
	week1Days    = 7
	week2MaxDays = 9
)

// BiweeklyTotals rolls one employee's per-day hours into two weekly
// regular/overtime splits plus combined totals. Short inputs sum whatever
// days are present; missing week-2 columns count as zero.
func BiweeklyTotals(daily []float64, overtimeThreshold float64) timecard.EmployeeWeekTotals {
	week1 := sumRange(daily, 0, week1Days)
	week2 := sumRange(daily, week1Days, week1Days+week2MaxDays)

	reg1, ot1 := splitOvertime(week1, overtimeThreshold)
	reg2, ot2 := splitOvertime(week2, overtimeThreshold)

	return timecard.EmployeeWeekTotals{
		Week1Hours:    round2(week1),
		Week1Regular:  reg1,
		Week1Overtime: ot1,
		Week2Hours:    round2(week2),
		Week2Regular:  reg2,
		Week2Overtime: ot2,
		TotalRegular:  round2(reg1 + reg2),
		TotalOvertime: round2(ot1 + ot2),
	}
}

func splitOvertime(weekHours, threshold float64) (regular, overtime float64) {
	if weekHours <= 0 {
		return 0, 0
	}
	if weekHours > threshold {
		return round2(threshold), round2(weekHours - threshold)
	}
	return round2(weekHours), 0
}

func sumRange(values []float64, from, to int) float64 {
	total := 0.0
	for i := from; i < to && i < len(values); i++ {
		total += values[i]
	}
	return total
}
