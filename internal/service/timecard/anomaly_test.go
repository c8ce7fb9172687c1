package timecard

import (
	"testing"

	"github.com/cmlabs-hris/timecard-backend-go/internal/domain/timecard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func detectTypes(t *testing.T, raw string) []timecard.AnomalyType {
	t.Helper()
	detector := NewAnomalyDetector(DefaultRules())
	var types []timecard.AnomalyType
	for _, a := range detector.DetectCell(raw, "emp", 1) {
		types = append(types, a.Type)
	}
	return types
}

func TestDetectCell_CleanCell(t *testing.T) {
	assert.Empty(t, detectTypes(t, "09:00\n12:00\n13:00\n18:00"))
}

func TestDetectCell_EmptyVariants(t *testing.T) {
	for _, raw := range []string{"", "  ", "nan", "None"} {
		assert.Empty(t, detectTypes(t, raw), "raw=%q", raw)
	}
}

func TestDetectCell_OddCount(t *testing.T) {
	types := detectTypes(t, "09:00\n12:30\n17:45")
	assert.Contains(t, types, timecard.AnomalyOddTimeCount)
	assert.NotContains(t, types, timecard.AnomalyTimeSequence)
}

func TestDetectCell_SequenceError(t *testing.T) {
	types := detectTypes(t, "8:00\n7:30")
	assert.Contains(t, types, timecard.AnomalyTimeSequence)
}

func TestDetectCell_DuplicatePunchIsSequenceError(t *testing.T) {
	types := detectTypes(t, "09:00\n09:00")
	assert.Contains(t, types, timecard.AnomalyTimeSequence)
}

func TestDetectCell_InvalidFormat(t *testing.T) {
	types := detectTypes(t, "25:00\n18:00")
	assert.Contains(t, types, timecard.AnomalyInvalidFormat)
	// One valid punch remains after dropping the bad token.
	assert.Contains(t, types, timecard.AnomalyOddTimeCount)
}

func TestDetectCell_ParseError(t *testing.T) {
	types := detectTypes(t, "vacation")
	assert.Contains(t, types, timecard.AnomalyParseError)
}

func TestDetectCell_DelimitedTextFallsBackToFormatCheck(t *testing.T) {
	// "sick day" splits on the space, so the tokens exist but fail
	// validation rather than vanishing into a parse error.
	types := detectTypes(t, "sick day")
	assert.Contains(t, types, timecard.AnomalyInvalidFormat)
	assert.NotContains(t, types, timecard.AnomalyParseError)
}

func TestDetectCell_LongSpan(t *testing.T) {
	types := detectTypes(t, "05:00\n22:30")
	assert.Contains(t, types, timecard.AnomalyLongWorkSpan)

	assert.NotContains(t, detectTypes(t, "06:00\n22:00"), timecard.AnomalyLongWorkSpan,
		"a span of exactly 16h is not long")
}

func TestDetectCell_MixedSeparators(t *testing.T) {
	types := detectTypes(t, "09:00 12:00\n13:00,18:00")
	assert.Contains(t, types, timecard.AnomalyMixedSeparators)

	assert.NotContains(t, detectTypes(t, "09:00\n18:00"), timecard.AnomalyMixedSeparators)
}

func TestDetectCell_ColonDistance(t *testing.T) {
	// "09:112:00" carries colons three characters apart, the signature of
	// two merged tokens.
	types := detectTypes(t, "09:112:00")
	assert.Contains(t, types, timecard.AnomalyColonDistance)
}

func TestDetectCell_ColonDistanceToggle(t *testing.T) {
	rules := DefaultRules()
	rules.ColonDistanceCheck = false
	detector := NewAnomalyDetector(rules)
	for _, a := range detector.DetectCell("09:112:00", "emp", 0) {
		assert.NotEqual(t, timecard.AnomalyColonDistance, a.Type)
	}
}

func TestDetectCell_AnomaliesAreNonExclusive(t *testing.T) {
	// Odd count and mixed separators can both fire on one cell.
	types := detectTypes(t, "09:00 12:00\n13:00")
	assert.Contains(t, types, timecard.AnomalyOddTimeCount)
	assert.Contains(t, types, timecard.AnomalyMixedSeparators)
}

func TestDetectCell_Idempotent(t *testing.T) {
	detector := NewAnomalyDetector(DefaultRules())
	raw := "8:00\n7:30 25:61\nlunch"
	first := detector.DetectCell(raw, "emp", 3)
	second := detector.DetectCell(raw, "emp", 3)
	assert.Equal(t, first, second)
}

func TestDetectCell_FixedSeverityAndColor(t *testing.T) {
	detector := NewAnomalyDetector(DefaultRules())
	anomalies := detector.DetectCell("09:00\n12:30\n17:45", "emp", 2)
	require.NotEmpty(t, anomalies)
	for _, a := range anomalies {
		if a.Type == timecard.AnomalyOddTimeCount {
			assert.Equal(t, timecard.SeverityError, a.Severity)
			assert.Equal(t, "FF0000", a.ColorHint)
			assert.Equal(t, "emp", a.EmployeeID)
			assert.Equal(t, 2, a.DayIndex)
		}
	}
}
