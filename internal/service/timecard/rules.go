package timecard

import (
	"github.com/cmlabs-hris/timecard-backend-go/internal/pkg/punchtime"
)

// Rules are the tunable thresholds of the pipeline. They are configuration,
// not derived values; the defaults are the ones the payroll team has run
// with since the tool was a pair of scripts.
type Rules struct {
	// ReviewThresholdHours gates the attendance checks: only employees with
	// more regular hours than this in either week get late/early/no-lunch
	// flags, to keep part-time records out of the review queue.
	ReviewThresholdHours float64

	// MorningCutoff and EveningCutoff are the reference clock-in and
	// clock-out times for the late and early-leave checks.
	MorningCutoff punchtime.Punch
	EveningCutoff punchtime.Punch

	// LongSpanHours flags a first-to-last punch span longer than this.
	LongSpanHours float64

	// WeeklyOvertimeThreshold splits a week's hours into regular and
	// overtime.
	WeeklyOvertimeThreshold float64

	// ColonDistanceCheck toggles the legacy merged-token heuristic. It was
	// tuned against one historical corruption mode and can be switched off
	// without touching anything else.
	ColonDistanceCheck bool
}

func DefaultRules() Rules {
	return Rules{
		ReviewThresholdHours:    30,
		MorningCutoff:           punchtime.Punch{Hour: 10},
		EveningCutoff:           punchtime.Punch{Hour: 17},
		LongSpanHours:           16,
		WeeklyOvertimeThreshold: 40,
		ColonDistanceCheck:      true,
	}
}

// NewRules builds Rules from configured values. Cutoffs are "HH:MM"
// strings; an unparseable cutoff keeps its default.
func NewRules(review, overtime, longSpan float64, morningCutoff, eveningCutoff string, colonCheck bool) Rules {
	rules := DefaultRules()
	rules.ReviewThresholdHours = review
	rules.WeeklyOvertimeThreshold = overtime
	rules.LongSpanHours = longSpan
	rules.ColonDistanceCheck = colonCheck

	if p, ok := parseCutoff(morningCutoff); ok {
		rules.MorningCutoff = p
	}
	if p, ok := parseCutoff(eveningCutoff); ok {
		rules.EveningCutoff = p
	}
	return rules
}

func parseCutoff(s string) (punchtime.Punch, bool) {
	if !punchtime.IsValid(s) {
		return punchtime.Punch{}, false
	}
	punches := punchtime.Normalize([]string{s})
	if len(punches) != 1 {
		return punchtime.Punch{}, false
	}
	return punches[0], true
}
