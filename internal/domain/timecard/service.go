package timecard

import "context"

// TimecardService is the two-phase punch pipeline. Phase 1 scans a reshaped
// table for anomalies so a human can correct the flagged cells; phase 2
// turns the (possibly corrected) table into hours, overtime and attendance
// flags. Both phases are pure batch transforms over their input.
type TimecardService interface {
	DetectErrors(ctx context.Context, table Table, periodLabel string) (DetectResult, error)
	BuildReport(ctx context.Context, table Table, periodLabel string) (ReportResult, error)
}

// ProcessingService drives one full phase over an uploaded workbook: read
// the file from storage, run the pipeline, write the styled result back,
// and record the run.
type ProcessingService interface {
	RunDetect(ctx context.Context, req ProcessRequest) (DetectResponse, error)
	RunReport(ctx context.Context, req ProcessRequest) (ReportResponse, error)
}
