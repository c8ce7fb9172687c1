package run

import "time"

// Kind says which phase of the pipeline a run executed.
type Kind string

const (
	KindDetect Kind = "detect_errors"
	KindReport Kind = "report"
)

// Run is one recorded execution of a processing phase: which file went in,
// which file came out, and the headline counts the operator saw. History
// only; the pipeline itself never reads these back.
type Run struct {
	ID            string    `json:"id"`
	Kind          Kind      `json:"kind"`
	PeriodLabel   string    `json:"period_label"`
	InputFile     string    `json:"input_file"`
	OutputFile    string    `json:"output_file"`
	EmployeeCount int       `json:"employee_count"`
	AnomalyCount  int       `json:"anomaly_count"`
	ErrorCount    int       `json:"error_count"`
	FlagCount     int       `json:"flag_count"`
	TotalRegular  float64   `json:"total_regular"`
	TotalOvertime float64   `json:"total_overtime"`
	CreatedAt     time.Time `json:"created_at"`
}
