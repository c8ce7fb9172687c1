package report

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"

	"github.com/xuri/excelize/v2"

	"github.com/cmlabs-hris/timecard-backend-go/internal/domain/run"
	"github.com/cmlabs-hris/timecard-backend-go/internal/domain/timecard"
	"github.com/cmlabs-hris/timecard-backend-go/internal/pkg/storage"
)

const (
	uploadsDir   = "uploads"
	processedDir = "processed"

	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type ReportServiceImpl struct {
	storage   storage.FileStorage
	pipeline  timecard.TimecardService
	runs      run.RunRepository
	assembler *Assembler
}

func NewReportService(st storage.FileStorage, pipeline timecard.TimecardService, runs run.RunRepository) timecard.ProcessingService {
	return &ReportServiceImpl{
		storage:   st,
		pipeline:  pipeline,
		runs:      runs,
		assembler: NewAssembler(),
	}
}

// RunDetect implements timecard.ProcessingService. Phase 1: reshape the raw
// clock export, scan it, and write the highlighted review copy.
func (s *ReportServiceImpl) RunDetect(ctx context.Context, req timecard.ProcessRequest) (timecard.DetectResponse, error) {
	rc, err := s.open(ctx, req.FileName)
	if err != nil {
		return timecard.DetectResponse{}, err
	}
	defer rc.Close()

	table, label, err := ReadRawExport(rc)
	if err != nil {
		return timecard.DetectResponse{}, err
	}
	if req.PeriodLabel != "" {
		label = req.PeriodLabel
	}

	result, err := s.pipeline.DetectErrors(ctx, table, label)
	if err != nil {
		return timecard.DetectResponse{}, err
	}

	outName := fmt.Sprintf("table_with_error_cells(%s).xlsx", label)
	f, err := s.assembler.BuildErrorWorkbook(table, result)
	if err != nil {
		return timecard.DetectResponse{}, fmt.Errorf("failed to build error workbook: %w", err)
	}
	if err := s.save(ctx, f, outName); err != nil {
		return timecard.DetectResponse{}, err
	}

	s.record(ctx, run.Run{
		Kind:          run.KindDetect,
		PeriodLabel:   label,
		InputFile:     req.FileName,
		OutputFile:    outName,
		EmployeeCount: result.EmployeeCount,
		AnomalyCount:  len(result.Anomalies),
		ErrorCount:    result.ErrorCount(),
	})

	return timecard.DetectResponse{
		PeriodLabel:   label,
		OutputFile:    outName,
		EmployeeCount: result.EmployeeCount,
		ErrorCount:    result.ErrorCount(),
		AnomalyCounts: countsByName(result.AnomalyCounts),
		ErrorCells:    result.ErrorCells,
	}, nil
}

// RunReport implements timecard.ProcessingService. Phase 2: read the
// corrected table and write the hours and attendance workbook.
func (s *ReportServiceImpl) RunReport(ctx context.Context, req timecard.ProcessRequest) (timecard.ReportResponse, error) {
	rc, err := s.open(ctx, req.FileName)
	if err != nil {
		return timecard.ReportResponse{}, err
	}
	defer rc.Close()

	table, err := ReadCorrected(rc)
	if err != nil {
		return timecard.ReportResponse{}, err
	}

	label := req.PeriodLabel
	if label == "" {
		label = PeriodFromFilename(req.FileName)
	}
	if label == "" {
		return timecard.ReportResponse{}, timecard.ErrPeriodRequired
	}

	result, err := s.pipeline.BuildReport(ctx, table, label)
	if err != nil {
		return timecard.ReportResponse{}, err
	}

	outName := fmt.Sprintf("work_attendance(%s).xlsx", label)
	f, err := s.assembler.BuildReportWorkbook(table, result)
	if err != nil {
		return timecard.ReportResponse{}, fmt.Errorf("failed to build report workbook: %w", err)
	}
	if err := s.save(ctx, f, outName); err != nil {
		return timecard.ReportResponse{}, err
	}

	flagTotal := 0
	for _, n := range result.FlagCounts {
		flagTotal += n
	}
	s.record(ctx, run.Run{
		Kind:          run.KindReport,
		PeriodLabel:   label,
		InputFile:     req.FileName,
		OutputFile:    outName,
		EmployeeCount: len(result.Employees),
		AnomalyCount:  len(result.Anomalies),
		FlagCount:     flagTotal,
		TotalRegular:  result.TotalRegular,
		TotalOvertime: result.TotalOvertime,
	})

	return timecard.ReportResponse{
		PeriodLabel:     label,
		OutputFile:      outName,
		EmployeeCount:   len(result.Employees),
		TotalRegular:    result.TotalRegular,
		TotalOvertime:   result.TotalOvertime,
		AnomalyCounts:   countsByName(result.AnomalyCounts),
		LateCount:       result.FlagCounts[timecard.FlagLate],
		NoLunchCount:    result.FlagCounts[timecard.FlagNoLunch],
		EarlyLeaveCount: result.FlagCounts[timecard.FlagEarlyLeave],
	}, nil
}

// open fetches an uploaded workbook by bare filename; path components are
// rejected before they ever reach storage.
func (s *ReportServiceImpl) open(ctx context.Context, name string) (io.ReadCloser, error) {
	if name == "" || name != path.Base(name) {
		return nil, timecard.ErrFileNotFound
	}
	key := path.Join(uploadsDir, name)
	exists, err := s.storage.Exists(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to check uploaded file: %w", err)
	}
	if !exists {
		return nil, timecard.ErrFileNotFound
	}
	return s.storage.Download(ctx, key)
}

func (s *ReportServiceImpl) save(ctx context.Context, f *excelize.File, name string) error {
	buf, err := f.WriteToBuffer()
	if err != nil {
		return fmt.Errorf("failed to serialize workbook: %w", err)
	}
	if _, err := s.storage.Upload(ctx, buf, path.Join(processedDir, name), xlsxContentType); err != nil {
		return fmt.Errorf("failed to store workbook: %w", err)
	}
	return nil
}

// record stores run history. History is a side record; a failed insert is
// logged, not surfaced, so a database hiccup cannot eat a finished report.
func (s *ReportServiceImpl) record(ctx context.Context, rec run.Run) {
	if s.runs == nil {
		return
	}
	if _, err := s.runs.Create(ctx, rec); err != nil {
		slog.ErrorContext(ctx, "failed to record processing run",
			"kind", rec.Kind,
			"period", rec.PeriodLabel,
			"error", err,
		)
	}
}

func countsByName(counts map[timecard.AnomalyType]int) map[string]int {
	out := make(map[string]int, len(counts))
	for t, n := range counts {
		out[string(t)] = n
	}
	return out
}
