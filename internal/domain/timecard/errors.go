package timecard

import "errors"

// Timecard domain errors. Cell-level problems are anomalies, not errors;
// only a wholly unusable input surfaces as an operation-level failure.
var (
	ErrEmptyTable     = errors.New("timecard table has no employee rows")
	ErrNoDayColumns   = errors.New("timecard table has no day columns")
	ErrExtractFailed  = errors.New("could not read a timecard table from the uploaded file")
	ErrFileNotFound   = errors.New("uploaded file not found")
	ErrPeriodRequired = errors.New("pay-period label is required and was not found in the file")
)
