package timecard

import (
	"github.com/cmlabs-hris/timecard-backend-go/internal/pkg/punchtime"
)

// Severity classifies an anomaly for downstream aggregation: errors count
// toward the must-review total, warnings are informational.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

type AnomalyType string

const (
	AnomalyColonDistance   AnomalyType = "colon_distance"
	AnomalyOddTimeCount    AnomalyType = "odd_time_count"
	AnomalyLongWorkSpan    AnomalyType = "long_work_span"
	AnomalyTimeSequence    AnomalyType = "time_sequence_error"
	AnomalyInvalidFormat   AnomalyType = "invalid_time_format"
	AnomalyParseError      AnomalyType = "parse_error"
	AnomalyMixedSeparators AnomalyType = "mixed_separators"
	AnomalyStructural      AnomalyType = "structural"
)

// anomalyTraits fixes severity and report fill color per type. The colors
// are the palette the payroll team already reads in the highlighted
// spreadsheets, so they are part of the contract, not presentation.
var anomalyTraits = map[AnomalyType]struct {
	severity Severity
	color    string
}{
	AnomalyColonDistance:   {SeverityWarning, "FFC7CE"},
	AnomalyOddTimeCount:    {SeverityError, "FF0000"},
	AnomalyLongWorkSpan:    {SeverityWarning, "FFD700"},
	AnomalyTimeSequence:    {SeverityError, "FF8C00"},
	AnomalyInvalidFormat:   {SeverityError, "FF6B6B"},
	AnomalyParseError:      {SeverityError, "9932CC"},
	AnomalyMixedSeparators: {SeverityWarning, "87CEEB"},
	AnomalyStructural:      {SeverityWarning, "D9E1F2"},
}

func (t AnomalyType) Severity() Severity {
	if tr, ok := anomalyTraits[t]; ok {
		return tr.severity
	}
	return SeverityWarning
}

func (t AnomalyType) ColorHint() string {
	if tr, ok := anomalyTraits[t]; ok {
		return tr.color
	}
	return "FFC7CE"
}

// Anomaly is one data-quality finding on one cell or on the run as a whole
// (DayIndex -1 for structural findings). Several anomalies may attach to
// the same cell; they are non-exclusive.
type Anomaly struct {
	Type        AnomalyType
	Severity    Severity
	EmployeeID  string
	DayIndex    int
	ColorHint   string
	Description string
}

// NewAnomaly builds an anomaly with the severity and color fixed for its
// type.
func NewAnomaly(t AnomalyType, employeeID string, dayIndex int, description string) Anomaly {
	return Anomaly{
		Type:        t,
		Severity:    t.Severity(),
		EmployeeID:  employeeID,
		DayIndex:    dayIndex,
		ColorHint:   t.ColorHint(),
		Description: description,
	}
}

// PunchCell is the raw text one employee's clock produced on one calendar
// day. Read once from the source extract, never mutated.
type PunchCell struct {
	EmployeeID string
	DayIndex   int
	RawText    string
}

// WorkInterval is one (in, out) pairing of consecutive punches. Punches are
// consumed strictly two at a time in source order: punch 1 pairs with punch
// 2, punch 3 with punch 4.
type WorkInterval struct {
	Start punchtime.Punch
	End   punchtime.Punch
	Hours float64
}

// DailyHoursResult is the worked-hours outcome for one employee-day. Invalid
// cells fail closed: TotalHours is 0 and ErrorReason says why, but the run
// carries on.
type DailyHoursResult struct {
	TotalHours  float64
	Intervals   []WorkInterval
	Valid       bool
	ErrorReason string
}

// EmployeeWeekTotals splits a biweekly hours matrix into two 7-day
// regular/overtime pairs plus combined totals. Regular caps at the weekly
// overtime threshold; overtime is the excess.
type EmployeeWeekTotals struct {
	Week1Hours    float64
	Week1Regular  float64
	Week1Overtime float64
	Week2Hours    float64
	Week2Regular  float64
	Week2Overtime float64
	TotalRegular  float64
	TotalOvertime float64
}

type FlagKind string

const (
	FlagLate       FlagKind = "late"
	FlagNoLunch    FlagKind = "no_lunch"
	FlagEarlyLeave FlagKind = "early_leave"
)

// AttendanceFlag marks a late arrival, missing midday punch, or early
// departure on one employee-day. Flags are only raised for employees past
// the weekly review threshold.
type AttendanceFlag struct {
	EmployeeID string
	DayIndex   int
	Kind       FlagKind
	Detail     string
}

// EmployeeRow is one employee's reshaped timecard: a name plus one raw
// punch-text cell per calendar day. Empty string means no punches that day.
type EmployeeRow struct {
	Name  string
	Cells []string
}

// Table is the normalized input the upload layer hands the pipeline: one
// row per employee, one ordered column per calendar day.
type Table struct {
	DayLabels []string
	Rows      []EmployeeRow
}

// Cell returns the punch cell at (row, day); out-of-range days read as
// empty, matching exports whose employees have trailing blank columns.
func (t Table) Cell(row, day int) PunchCell {
	cell := PunchCell{EmployeeID: t.Rows[row].Name, DayIndex: day}
	if day < len(t.Rows[row].Cells) {
		cell.RawText = t.Rows[row].Cells[day]
	}
	return cell
}
