package timecard

import (
	"fmt"
	"strings"

	"github.com/cmlabs-hris/timecard-backend-go/internal/domain/timecard"
	"github.com/cmlabs-hris/timecard-backend-go/internal/pkg/punchtime"
)

// AnomalyDetector runs the independent per-cell checks. It holds no state
// between calls; detecting the same cell twice yields the same findings.
type AnomalyDetector struct {
	rules Rules
}

func NewAnomalyDetector(rules Rules) *AnomalyDetector {
	return &AnomalyDetector{rules: rules}
}

// DetectCell inspects one raw cell and returns every anomaly it triggers.
// The checks are non-exclusive: a cell can be odd-count and mixed-delimiter
// at the same time. Empty cells trigger nothing.
func (d *AnomalyDetector) DetectCell(raw, employeeID string, dayIndex int) []timecard.Anomaly {
	if punchtime.IsEmptyCell(raw) {
		return nil
	}

	tokens := punchtime.Parse(raw)
	punches := punchtime.Normalize(tokens)

	var anomalies []timecard.Anomaly
	add := func(t timecard.AnomalyType, description string) {
		anomalies = append(anomalies, timecard.NewAnomaly(t, employeeID, dayIndex, description))
	}

	if d.rules.ColonDistanceCheck {
		if dist, ok := punchtime.MinColonDistance(raw); ok && dist == 3 {
			add(timecard.AnomalyColonDistance,
				"colon spacing suggests two punch tokens merged during import")
		}
	}

	if len(tokens) == 0 {
		add(timecard.AnomalyParseError,
			fmt.Sprintf("no punch tokens could be extracted from %q", raw))
	}

	if bad := invalidTokens(tokens); len(bad) > 0 {
		add(timecard.AnomalyInvalidFormat,
			fmt.Sprintf("not a valid HH:MM clock value: %s", strings.Join(bad, ", ")))
	}

	if len(punches)%2 == 1 {
		add(timecard.AnomalyOddTimeCount,
			fmt.Sprintf("%d punches cannot be paired into in/out intervals", len(punches)))
	}

	for i := 1; i < len(punches); i++ {
		if punches[i].Minutes() <= punches[i-1].Minutes() {
			add(timecard.AnomalyTimeSequence,
				fmt.Sprintf("punch %s is not after the preceding punch %s",
					punches[i], punches[i-1]))
			break
		}
	}

	if len(punches) >= 2 {
		span := float64(punches[len(punches)-1].Minutes()-punches[0].Minutes()) / 60
		if span > d.rules.LongSpanHours {
			add(timecard.AnomalyLongWorkSpan,
				fmt.Sprintf("first-to-last punch spans %.1f hours", span))
		}
	}

	if punchtime.CountDelimiters(raw) > 1 {
		add(timecard.AnomalyMixedSeparators,
			"more than one separator style in a single cell")
	}

	return anomalies
}

func invalidTokens(tokens []string) []string {
	var bad []string
	for _, t := range tokens {
		if !punchtime.IsValid(t) {
			bad = append(bad, t)
		}
	}
	return bad
}
