package timecard

import (
	"github.com/cmlabs-hris/timecard-backend-go/internal/pkg/validator"
)

// CellRef addresses one cell of the reshaped table.
type CellRef struct {
	Row int `json:"row"`
	Day int `json:"day"`
}

// DetectResult is the phase-1 output: every anomaly found, per-type counts,
// and the cells that must be reviewed before phase 2 runs.
type DetectResult struct {
	PeriodLabel   string
	EmployeeCount int
	Anomalies     []Anomaly
	AnomalyCounts map[AnomalyType]int
	ErrorCells    []CellRef
}

// ErrorCount returns how many anomalies carry error severity.
func (r DetectResult) ErrorCount() int {
	n := 0
	for _, a := range r.Anomalies {
		if a.Severity == SeverityError {
			n++
		}
	}
	return n
}

// ProcessingStats are the cell-level counters of a phase-2 run.
type ProcessingStats struct {
	TotalCells    int
	ValidCells    int
	InvalidCells  int
	ZeroHourCells int
}

// HolidayColumn marks a day column that falls on a recognized holiday.
type HolidayColumn struct {
	DayIndex int
	Name     string
}

// EmployeeReport is the full phase-2 outcome for one employee.
type EmployeeReport struct {
	Name   string
	Daily  []DailyHoursResult
	Totals EmployeeWeekTotals
	Flags  []AttendanceFlag
}

// ReportResult is the phase-2 output consumed by the report assembler.
type ReportResult struct {
	PeriodLabel   string
	Employees     []EmployeeReport
	Anomalies     []Anomaly
	AnomalyCounts map[AnomalyType]int
	FlagCounts    map[FlagKind]int
	Holidays      []HolidayColumn
	TotalRegular  float64
	TotalOvertime float64
	Stats         ProcessingStats
}

// ProcessRequest asks for one phase run over an uploaded file.
type ProcessRequest struct {
	FileName    string `json:"file_name"`
	PeriodLabel string `json:"period_label,omitempty"`
}

func (r *ProcessRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.FileName) {
		errs = append(errs, validator.ValidationError{
			Field:   "file_name",
			Message: "file_name is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// DetectResponse is the HTTP rendering of a phase-1 run.
type DetectResponse struct {
	PeriodLabel   string         `json:"period_label"`
	OutputFile    string         `json:"output_file"`
	EmployeeCount int            `json:"employee_count"`
	ErrorCount    int            `json:"error_count"`
	AnomalyCounts map[string]int `json:"anomaly_counts"`
	ErrorCells    []CellRef      `json:"error_cells"`
}

// ReportResponse is the HTTP rendering of a phase-2 run.
type ReportResponse struct {
	PeriodLabel     string         `json:"period_label"`
	OutputFile      string         `json:"output_file"`
	EmployeeCount   int            `json:"employee_count"`
	TotalRegular    float64        `json:"total_regular_hours"`
	TotalOvertime   float64        `json:"total_overtime_hours"`
	AnomalyCounts   map[string]int `json:"anomaly_counts"`
	LateCount       int            `json:"late_count"`
	NoLunchCount    int            `json:"no_lunch_count"`
	EarlyLeaveCount int            `json:"early_leave_count"`
}
