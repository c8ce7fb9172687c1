package timecard

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/cmlabs-hris/timecard-backend-go/internal/domain/timecard"
	"github.com/cmlabs-hris/timecard-backend-go/internal/pkg/payperiod"
	"github.com/cmlabs-hris/timecard-backend-go/internal/pkg/punchtime"
)

type TimecardServiceImpl struct {
	rules     Rules
	detector  *AnomalyDetector
	evaluator *AttendanceEvaluator
}

func NewTimecardService(rules Rules) timecard.TimecardService {
	return &TimecardServiceImpl{
		rules:     rules,
		detector:  NewAnomalyDetector(rules),
		evaluator: NewAttendanceEvaluator(rules),
	}
}

// DetectErrors implements timecard.TimecardService. It is phase 1 of the
// batch: scan every cell, collect anomalies, and report which cells need a
// human before hours are computed. Cell problems never abort the scan.
func (s *TimecardServiceImpl) DetectErrors(ctx context.Context, table timecard.Table, periodLabel string) (timecard.DetectResult, error) {
	if err := checkShape(table); err != nil {
		return timecard.DetectResult{}, err
	}

	result := timecard.DetectResult{
		PeriodLabel:   periodLabel,
		EmployeeCount: len(table.Rows),
		AnomalyCounts: map[timecard.AnomalyType]int{},
	}

	result.Anomalies = append(result.Anomalies, s.structuralAnomalies(table, periodLabel)...)

	for i := range table.Rows {
		for j := range table.DayLabels {
			cell := table.Cell(i, j)
			anomalies := s.detector.DetectCell(cell.RawText, cell.EmployeeID, cell.DayIndex)
			if len(anomalies) == 0 {
				continue
			}
			result.Anomalies = append(result.Anomalies, anomalies...)
			if hasError(anomalies) {
				result.ErrorCells = append(result.ErrorCells, timecard.CellRef{Row: i, Day: j})
			}
		}
	}

	for _, a := range result.Anomalies {
		result.AnomalyCounts[a.Type]++
	}

	slog.InfoContext(ctx, "timecard error detection finished",
		"employees", result.EmployeeCount,
		"anomalies", len(result.Anomalies),
		"error_cells", len(result.ErrorCells),
	)
	return result, nil
}

// BuildReport implements timecard.TimecardService. Phase 2: per-cell hours,
// weekly totals, attendance flags for reviewable employees, and holiday
// columns. Cells that fail normalization contribute zero hours plus their
// anomalies; only an unusable table shape is a hard error.
func (s *TimecardServiceImpl) BuildReport(ctx context.Context, table timecard.Table, periodLabel string) (timecard.ReportResult, error) {
	if err := checkShape(table); err != nil {
		return timecard.ReportResult{}, err
	}

	result := timecard.ReportResult{
		PeriodLabel:   periodLabel,
		AnomalyCounts: map[timecard.AnomalyType]int{},
		FlagCounts:    map[timecard.FlagKind]int{},
	}
	result.Anomalies = append(result.Anomalies, s.structuralAnomalies(table, periodLabel)...)

	days := len(table.DayLabels)
	for i := range table.Rows {
		report := timecard.EmployeeReport{
			Name:  table.Rows[i].Name,
			Daily: make([]timecard.DailyHoursResult, days),
		}
		dailyHours := make([]float64, days)
		dayPunches := make([][]punchtime.Punch, days)

		for j := 0; j < days; j++ {
			cell := table.Cell(i, j)
			result.Stats.TotalCells++
			if punchtime.IsEmptyCell(cell.RawText) {
				report.Daily[j] = timecard.DailyHoursResult{Valid: true}
				continue
			}

			anomalies := s.detector.DetectCell(cell.RawText, cell.EmployeeID, cell.DayIndex)
			result.Anomalies = append(result.Anomalies, anomalies...)

			punches := punchtime.Normalize(punchtime.Parse(cell.RawText))
			dayPunches[j] = punches

			day := DailyHours(punches)
			// Unreadable or out-of-order punches invalidate the whole
			// cell, same as an odd count. Pairing only the punches that
			// survived normalization would fold a partial day into
			// payroll totals.
			if day.Valid {
				switch {
				case hasType(anomalies, timecard.AnomalyInvalidFormat),
					hasType(anomalies, timecard.AnomalyParseError):
					day = timecard.DailyHoursResult{
						Valid:       false,
						ErrorReason: "cell contains unreadable punch text",
					}
				case hasType(anomalies, timecard.AnomalyTimeSequence):
					day = timecard.DailyHoursResult{
						Valid:       false,
						ErrorReason: "punches out of order",
					}
				}
			}
			report.Daily[j] = day

			if day.Valid {
				result.Stats.ValidCells++
				dailyHours[j] = day.TotalHours
			} else {
				result.Stats.InvalidCells++
			}
			if day.TotalHours == 0 {
				result.Stats.ZeroHourCells++
			}
		}

		report.Totals = BiweeklyTotals(dailyHours, s.rules.WeeklyOvertimeThreshold)

		if s.evaluator.ShouldReview(report.Totals) {
			for j, punches := range dayPunches {
				report.Flags = append(report.Flags, s.evaluator.EvaluateDay(report.Name, j, punches)...)
			}
		}

		result.TotalRegular = round2(result.TotalRegular + report.Totals.TotalRegular)
		result.TotalOvertime = round2(result.TotalOvertime + report.Totals.TotalOvertime)
		result.Employees = append(result.Employees, report)
	}

	for _, a := range result.Anomalies {
		result.AnomalyCounts[a.Type]++
	}
	for _, e := range result.Employees {
		for _, f := range e.Flags {
			result.FlagCounts[f.Kind]++
		}
	}
	result.Holidays = resolveHolidays(table.DayLabels, periodLabel)

	slog.InfoContext(ctx, "timecard report built",
		"employees", len(result.Employees),
		"total_regular", result.TotalRegular,
		"total_overtime", result.TotalOvertime,
		"flags", len(result.FlagCounts),
	)
	return result, nil
}

func checkShape(table timecard.Table) error {
	if len(table.Rows) == 0 {
		return timecard.ErrEmptyTable
	}
	if len(table.DayLabels) == 0 {
		return timecard.ErrNoDayColumns
	}
	return nil
}

// structuralAnomalies records run-level problems that degrade the result
// without aborting it: an unparseable period label or a day-column count
// outside the expected 14-16 window.
func (s *TimecardServiceImpl) structuralAnomalies(table timecard.Table, periodLabel string) []timecard.Anomaly {
	var anomalies []timecard.Anomaly
	if periodLabel != "" {
		if _, err := payperiod.Parse(periodLabel); err != nil {
			anomalies = append(anomalies, timecard.NewAnomaly(
				timecard.AnomalyStructural, "", -1,
				fmt.Sprintf("pay-period label not parseable, holidays not resolved: %v", err)))
		}
	}
	days := len(table.DayLabels)
	if days < week1Days+week2MaxDays-2 { // fewer than 14 date columns
		anomalies = append(anomalies, timecard.NewAnomaly(
			timecard.AnomalyStructural, "", -1,
			fmt.Sprintf("only %d day columns; week 2 summed over the %d present", days, max(0, days-week1Days))))
	} else if days > week1Days+week2MaxDays {
		anomalies = append(anomalies, timecard.NewAnomaly(
			timecard.AnomalyStructural, "", -1,
			fmt.Sprintf("%d day columns; columns beyond %d are ignored in weekly totals", days, week1Days+week2MaxDays)))
	}
	return anomalies
}

// resolveHolidays maps recognized holidays inside the period onto day
// columns. Labels are day-of-month numbers as exported by the clock.
func resolveHolidays(dayLabels []string, periodLabel string) []timecard.HolidayColumn {
	if periodLabel == "" {
		return nil
	}
	period, err := payperiod.Parse(periodLabel)
	if err != nil {
		return nil
	}

	var cols []timecard.HolidayColumn
	for _, h := range payperiod.HolidaysWithin(period) {
		day := strconv.Itoa(h.Date.Day())
		padded := fmt.Sprintf("%02d", h.Date.Day())
		for j, label := range dayLabels {
			trimmed := strings.TrimSpace(label)
			if trimmed == day || trimmed == padded {
				cols = append(cols, timecard.HolidayColumn{DayIndex: j, Name: h.Name})
				break
			}
		}
	}
	return cols
}

func hasError(anomalies []timecard.Anomaly) bool {
	for _, a := range anomalies {
		if a.Severity == timecard.SeverityError {
			return true
		}
	}
	return false
}

func hasType(anomalies []timecard.Anomaly, t timecard.AnomalyType) bool {
	for _, a := range anomalies {
		if a.Type == t {
			return true
		}
	}
	return false
}
