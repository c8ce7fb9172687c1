package timecard

import (
	"fmt"

	"github.com/cmlabs-hris/timecard-backend-go/internal/domain/timecard"
	"github.com/cmlabs-hris/timecard-backend-go/internal/pkg/punchtime"
)

// AttendanceEvaluator applies the late / no-lunch / early-leave rules to a
// day's normalized punches. The three checks are independent; one day can
// trigger all of them.
type AttendanceEvaluator struct {
	rules Rules
}

func NewAttendanceEvaluator(rules Rules) *AttendanceEvaluator {
	return &AttendanceEvaluator{rules: rules}
}

// ShouldReview reports whether an employee's totals put them past the
// review threshold in either week.
func (e *AttendanceEvaluator) ShouldReview(totals timecard.EmployeeWeekTotals) bool {
	return totals.Week1Regular > e.rules.ReviewThresholdHours ||
		totals.Week2Regular > e.rules.ReviewThresholdHours
}

// EvaluateDay flags one employee-day. Days with no valid punches are
// skipped entirely; absence is handled elsewhere.
func (e *AttendanceEvaluator) EvaluateDay(employeeID string, dayIndex int, punches []punchtime.Punch) []timecard.AttendanceFlag {
	if len(punches) == 0 {
		return nil
	}

	first := punches[0]
	last := punches[len(punches)-1]

	var flags []timecard.AttendanceFlag
	flag := func(kind timecard.FlagKind, detail string) {
		flags = append(flags, timecard.AttendanceFlag{
			EmployeeID: employeeID,
			DayIndex:   dayIndex,
			Kind:       kind,
			Detail:     detail,
		})
	}

	if first.After(e.rules.MorningCutoff) {
		flag(timecard.FlagLate,
			fmt.Sprintf("clocked in %s, after %s", first, e.rules.MorningCutoff))
	}
	if len(punches) == 2 {
		flag(timecard.FlagNoLunch,
			"exactly two punches: no midday break pair")
	}
	if last.Before(e.rules.EveningCutoff) {
		flag(timecard.FlagEarlyLeave,
			fmt.Sprintf("clocked out %s, before %s", last, e.rules.EveningCutoff))
	}

	return flags
}
