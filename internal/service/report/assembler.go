package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/cmlabs-hris/timecard-backend-go/internal/domain/timecard"
)

// Report palette. The anomaly colors come from the anomaly types
// themselves; these are the fixed fills for everything else.
const (
	colorStatHeader = "FFEB9C" // yellow, totals column headers
	colorFlagged    = "FFC7CE" // red, flagged names and cells
	colorHoliday    = "C6EFCE" // green, holiday columns
)

const commentAuthor = "timecard"

// Assembler renders pipeline results as styled workbooks. One instance is
// safe for concurrent use; all state lives in the workbook being built.
type Assembler struct{}

func NewAssembler() *Assembler {
	return &Assembler{}
}

// BuildErrorWorkbook writes the phase-1 table: the reshaped punches with
// every anomalous cell filled in its anomaly color and a comment listing
// what was found. The operator corrects cells in place and feeds the same
// file to phase 2.
func (a *Assembler) BuildErrorWorkbook(table timecard.Table, res timecard.DetectResult) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	styles := newStyleCache(f)

	if err := writeTableSheet(f, sheet, table); err != nil {
		return nil, err
	}

	byCell := groupAnomalies(res.Anomalies)
	rowByName := rowIndex(table)
	for key, group := range byCell {
		rowIdx, ok := rowByName[key.name]
		if !ok {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(key.day+2, rowIdx+2)
		if err != nil {
			return nil, err
		}
		style, err := styles.fill(dominantColor(group))
		if err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(sheet, cell, cell, style); err != nil {
			return nil, err
		}
		if err := addCellComment(f, sheet, cell, describeAll(group)); err != nil {
			return nil, err
		}
	}

	return f, nil
}

// BuildReportWorkbook writes the phase-2 result: an hours summary with
// weekly totals, one sheet per attendance flag kind, and a processing log.
func (a *Assembler) BuildReportWorkbook(table timecard.Table, res timecard.ReportResult) (*excelize.File, error) {
	f := excelize.NewFile()
	styles := newStyleCache(f)

	summary := f.GetSheetName(0)
	if err := f.SetSheetName(summary, "Hours Summary"); err != nil {
		return nil, err
	}
	summary = "Hours Summary"

	if err := a.writeHoursSummary(f, summary, table, res, styles); err != nil {
		return nil, err
	}

	flagSheets := []struct {
		name string
		kind timecard.FlagKind
	}{
		{"Late", timecard.FlagLate},
		{"No Lunch", timecard.FlagNoLunch},
		{"Early Leave", timecard.FlagEarlyLeave},
	}
	for _, fs := range flagSheets {
		if _, err := f.NewSheet(fs.name); err != nil {
			return nil, err
		}
		if err := a.writeFlagSheet(f, fs.name, table, res, fs.kind, styles); err != nil {
			return nil, err
		}
	}

	if _, err := f.NewSheet("Processing Log"); err != nil {
		return nil, err
	}
	if err := a.writeProcessingLog(f, "Processing Log", table, res); err != nil {
		return nil, err
	}

	return f, nil
}

var totalHeaders = []string{
	"Week 1 Regular", "Week 1 OT",
	"Week 2 Regular", "Week 2 OT",
	"Total Regular", "Total OT",
}

func (a *Assembler) writeHoursSummary(f *excelize.File, sheet string, table timecard.Table, res timecard.ReportResult, styles *styleCache) error {
	header := append([]string{"Name"}, table.DayLabels...)
	header = append(header, totalHeaders...)
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	days := len(table.DayLabels)
	for i, emp := range res.Employees {
		row := i + 2
		values := make([]interface{}, 0, 1+days+len(totalHeaders))
		values = append(values, emp.Name)
		for j := 0; j < days; j++ {
			if j < len(emp.Daily) && emp.Daily[j].Valid {
				values = append(values, emp.Daily[j].TotalHours)
			} else {
				values = append(values, 0.0)
			}
		}
		t := emp.Totals
		values = append(values,
			t.Week1Regular, t.Week1Overtime,
			t.Week2Regular, t.Week2Overtime,
			t.TotalRegular, t.TotalOvertime,
		)
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}

		for j := 0; j < days && j < len(emp.Daily); j++ {
			if emp.Daily[j].Valid {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(j+2, row)
			if err != nil {
				return err
			}
			style, err := styles.fill(colorFlagged)
			if err != nil {
				return err
			}
			if err := f.SetCellStyle(sheet, cell, cell, style); err != nil {
				return err
			}
			if err := addCellComment(f, sheet, cell, emp.Daily[j].ErrorReason); err != nil {
				return err
			}
		}
	}

	// Totals headers in yellow so they stand out from the punch columns.
	statStyle, err := styles.fill(colorStatHeader)
	if err != nil {
		return err
	}
	first, err := excelize.CoordinatesToCellName(days+2, 1)
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(days+1+len(totalHeaders), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, first, last, statStyle); err != nil {
		return err
	}

	// Holiday columns in green, header through last employee row.
	holidayStyle, err := styles.fill(colorHoliday)
	if err != nil {
		return err
	}
	for _, h := range res.Holidays {
		top, err := excelize.CoordinatesToCellName(h.DayIndex+2, 1)
		if err != nil {
			return err
		}
		bottom, err := excelize.CoordinatesToCellName(h.DayIndex+2, len(res.Employees)+1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, top, bottom, holidayStyle); err != nil {
			return err
		}
		if err := addCellComment(f, sheet, top, h.Name); err != nil {
			return err
		}
	}

	return nil
}

// writeFlagSheet lists only the employees carrying the given flag kind,
// with their raw punches so the reviewer sees what tripped the rule.
func (a *Assembler) writeFlagSheet(f *excelize.File, sheet string, table timecard.Table, res timecard.ReportResult, kind timecard.FlagKind, styles *styleCache) error {
	header := append([]string{"Name"}, table.DayLabels...)
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	flagged, err := styles.fill(colorFlagged)
	if err != nil {
		return err
	}
	rowByName := rowIndex(table)

	row := 2
	for _, emp := range res.Employees {
		var flags []timecard.AttendanceFlag
		for _, fl := range emp.Flags {
			if fl.Kind == kind {
				flags = append(flags, fl)
			}
		}
		if len(flags) == 0 {
			continue
		}

		values := []interface{}{emp.Name}
		if src, ok := rowByName[emp.Name]; ok {
			for j := range table.DayLabels {
				values = append(values, table.Cell(src, j).RawText)
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cell, cell, flagged); err != nil {
			return err
		}

		for _, fl := range flags {
			cell, err := excelize.CoordinatesToCellName(fl.DayIndex+2, row)
			if err != nil {
				return err
			}
			if err := f.SetCellStyle(sheet, cell, cell, flagged); err != nil {
				return err
			}
			if err := addCellComment(f, sheet, cell, fl.Detail); err != nil {
				return err
			}
		}
		row++
	}

	return nil
}

func (a *Assembler) writeProcessingLog(f *excelize.File, sheet string, table timecard.Table, res timecard.ReportResult) error {
	lines := [][]interface{}{
		{"Pay period", res.PeriodLabel},
		{"Employees", len(res.Employees)},
		{"Total cells", res.Stats.TotalCells},
		{"Valid cells", res.Stats.ValidCells},
		{"Invalid cells", res.Stats.InvalidCells},
		{"Zero-hour cells", res.Stats.ZeroHourCells},
		{"Total regular hours", res.TotalRegular},
		{"Total overtime hours", res.TotalOvertime},
		{"Late flags", res.FlagCounts[timecard.FlagLate]},
		{"No-lunch flags", res.FlagCounts[timecard.FlagNoLunch]},
		{"Early-leave flags", res.FlagCounts[timecard.FlagEarlyLeave]},
	}
	for _, h := range res.Holidays {
		label := ""
		if h.DayIndex < len(table.DayLabels) {
			label = table.DayLabels[h.DayIndex]
		}
		lines = append(lines, []interface{}{"Holiday column", fmt.Sprintf("%s (day %s)", h.Name, label)})
	}
	types := make([]string, 0, len(res.AnomalyCounts))
	for t := range res.AnomalyCounts {
		types = append(types, string(t))
	}
	sort.Strings(types)
	for _, t := range types {
		lines = append(lines, []interface{}{fmt.Sprintf("Anomaly: %s", t), res.AnomalyCounts[timecard.AnomalyType(t)]})
	}

	for i, line := range lines {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		l := line
		if err := f.SetSheetRow(sheet, cell, &l); err != nil {
			return err
		}
	}
	return nil
}

// writeTableSheet writes the plain name + punches grid used as the base of
// the phase-1 output.
func writeTableSheet(f *excelize.File, sheet string, table timecard.Table) error {
	header := append([]string{"Name"}, table.DayLabels...)
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i := range table.Rows {
		values := []interface{}{table.Rows[i].Name}
		for j := range table.DayLabels {
			values = append(values, table.Cell(i, j).RawText)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(sheet, "A", "A", 18); err != nil {
		return err
	}
	last, err := excelize.ColumnNumberToName(len(table.DayLabels) + 1)
	if err != nil {
		return err
	}
	return f.SetColWidth(sheet, "B", last, 14)
}

type cellKey struct {
	name string
	day  int
}

// groupAnomalies collects cell-level anomalies per (employee, day);
// run-level anomalies (DayIndex -1) are excluded, they have no cell.
func groupAnomalies(anomalies []timecard.Anomaly) map[cellKey][]timecard.Anomaly {
	byCell := make(map[cellKey][]timecard.Anomaly)
	for _, a := range anomalies {
		if a.DayIndex < 0 {
			continue
		}
		key := cellKey{name: a.EmployeeID, day: a.DayIndex}
		byCell[key] = append(byCell[key], a)
	}
	return byCell
}

// dominantColor picks the fill when several anomalies share a cell: the
// first error-severity color wins, otherwise the first warning's.
func dominantColor(group []timecard.Anomaly) string {
	for _, a := range group {
		if a.Severity == timecard.SeverityError {
			return a.ColorHint
		}
	}
	return group[0].ColorHint
}

func describeAll(group []timecard.Anomaly) string {
	parts := make([]string, 0, len(group))
	for _, a := range group {
		parts = append(parts, a.Description)
	}
	return strings.Join(parts, "; ")
}

func rowIndex(table timecard.Table) map[string]int {
	byName := make(map[string]int, len(table.Rows))
	for i := range table.Rows {
		if _, ok := byName[table.Rows[i].Name]; !ok {
			byName[table.Rows[i].Name] = i
		}
	}
	return byName
}

func addCellComment(f *excelize.File, sheet, cell, text string) error {
	if text == "" {
		return nil
	}
	return f.AddComment(sheet, excelize.Comment{
		Cell:   cell,
		Author: commentAuthor,
		Paragraph: []excelize.RichTextRun{
			{Text: text},
		},
	})
}

// styleCache deduplicates fill styles within one workbook; excelize style
// IDs are per-file.
type styleCache struct {
	f   *excelize.File
	ids map[string]int
}

func newStyleCache(f *excelize.File) *styleCache {
	return &styleCache{f: f, ids: make(map[string]int)}
}

func (c *styleCache) fill(color string) (int, error) {
	if id, ok := c.ids[color]; ok {
		return id, nil
	}
	id, err := c.f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
	})
	if err != nil {
		return 0, err
	}
	c.ids[color] = id
	return id, nil
}
