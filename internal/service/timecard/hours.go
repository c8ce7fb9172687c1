package timecard

import (
	"fmt"
	"math"

	"github.com/cmlabs-hris/timecard-backend-go/internal/domain/timecard"
	"github.com/cmlabs-hris/timecard-backend-go/internal/pkg/punchtime"
)

// DailyHours pairs punches two at a time in source order and sums the
// interval durations. An absent day (zero punches) is valid with zero
// hours; an odd punch count or a pair that runs backwards fails closed with
// the reason recorded. A backwards pair is never clamped to zero: upstream
// sequence checking should have caught it, so it surfaces as an explicit
// failure instead of quietly shrinking a payroll total.
func DailyHours(punches []punchtime.Punch) timecard.DailyHoursResult {
	if len(punches) == 0 {
		return timecard.DailyHoursResult{Valid: true}
	}
	if len(punches)%2 == 1 {
		return timecard.DailyHoursResult{
			Valid:       false,
			ErrorReason: fmt.Sprintf("odd punch count (%d)", len(punches)),
		}
	}

	var intervals []timecard.WorkInterval
	total := 0.0
	for i := 0; i < len(punches); i += 2 {
		in, out := punches[i], punches[i+1]
		if out.Minutes() < in.Minutes() {
			return timecard.DailyHoursResult{
				Valid: false,
				ErrorReason: fmt.Sprintf("negative interval: out punch %s before in punch %s",
					out, in),
			}
		}
		hours := round2(float64(out.Minutes()-in.Minutes()) / 60)
		intervals = append(intervals, timecard.WorkInterval{Start: in, End: out, Hours: hours})
		total += hours
	}

	return timecard.DailyHoursResult{
		TotalHours: round2(total),
		Intervals:  intervals,
		Valid:      true,
	}
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
