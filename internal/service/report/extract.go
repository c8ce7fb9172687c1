package report

import (
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/cmlabs-hris/timecard-backend-go/internal/domain/timecard"
	"github.com/cmlabs-hris/timecard-backend-go/internal/pkg/punchtime"
)

// Raw device-export layout, 1-based sheet rows:
//
//	row 3, column C  pay-period text ("2022/06/20 ~ 2022/07/03")
//	row 4            day-of-month labels, one per column
//	row 3i+5, col K  employee i's name
//	row 3i+6         employee i's punch cells, aligned to the day labels
//
// Everything else on the sheet is device boilerplate and is ignored.
const (
	rawPeriodRow  = 2
	rawPeriodCol  = 2
	rawDateRow    = 3
	rawHeaderRows = 3
	rawNameCol    = 10
	rawGroupRows  = 3
)

// ReadRawExport reshapes a raw clock export into one row per employee and
// returns the pay-period label printed on the sheet. Rows are ordered by how
// complete they are, most complete first, so reviewers see the busy
// employees at the top.
func ReadRawExport(r io.Reader) (timecard.Table, string, error) {
	rows, err := readFirstSheet(r)
	if err != nil {
		return timecard.Table{}, "", err
	}
	if len(rows) < rawHeaderRows+rawGroupRows {
		return timecard.Table{}, "", fmt.Errorf("%w: sheet has %d rows, need at least %d",
			timecard.ErrExtractFailed, len(rows), rawHeaderRows+rawGroupRows)
	}

	label := cleanPeriodLabel(cellAt(rows[rawPeriodRow], rawPeriodCol))

	var dayLabels []string
	for _, c := range rows[rawDateRow] {
		if strings.TrimSpace(c) != "" {
			dayLabels = append(dayLabels, strings.TrimSpace(c))
		}
	}
	if len(dayLabels) == 0 {
		return timecard.Table{}, "", fmt.Errorf("%w: no day labels on row %d",
			timecard.ErrExtractFailed, rawDateRow+1)
	}

	type ranked struct {
		row     timecard.EmployeeRow
		empties int
	}
	var employees []ranked

	count := (len(rows) - rawHeaderRows) / rawGroupRows
	for i := 0; i < count; i++ {
		nameRow := rawHeaderRows + i*rawGroupRows + 1
		cellRow := nameRow + 1
		if cellRow >= len(rows) {
			break
		}

		name := strings.TrimSpace(cellAt(rows[nameRow], rawNameCol))
		if name == "" {
			name = fmt.Sprintf("Employee %d", i+1)
		}

		row := timecard.EmployeeRow{Name: name, Cells: make([]string, len(dayLabels))}
		empties := 0
		for j := range dayLabels {
			row.Cells[j] = cellAt(rows[cellRow], j)
			if punchtime.IsEmptyCell(row.Cells[j]) {
				empties++
			}
		}
		employees = append(employees, ranked{row: row, empties: empties})
	}
	if len(employees) == 0 {
		return timecard.Table{}, "", fmt.Errorf("%w: no employee blocks found", timecard.ErrExtractFailed)
	}

	sort.SliceStable(employees, func(i, j int) bool {
		return employees[i].empties < employees[j].empties
	})

	table := timecard.Table{DayLabels: dayLabels}
	for _, e := range employees {
		table.Rows = append(table.Rows, e.row)
	}
	return table, label, nil
}

// ReadCorrected reads a table that already went through phase 1: a header
// row of "Name" plus day labels, then one row per employee.
func ReadCorrected(r io.Reader) (timecard.Table, error) {
	rows, err := readFirstSheet(r)
	if err != nil {
		return timecard.Table{}, err
	}
	if len(rows) < 2 || len(rows[0]) < 2 {
		return timecard.Table{}, fmt.Errorf("%w: expected a header row plus employee rows",
			timecard.ErrExtractFailed)
	}

	dayLabels := make([]string, 0, len(rows[0])-1)
	for _, c := range rows[0][1:] {
		dayLabels = append(dayLabels, strings.TrimSpace(c))
	}

	table := timecard.Table{DayLabels: dayLabels}
	for _, raw := range rows[1:] {
		name := strings.TrimSpace(cellAt(raw, 0))
		if name == "" {
			continue
		}
		row := timecard.EmployeeRow{Name: name, Cells: make([]string, len(dayLabels))}
		for j := range dayLabels {
			row.Cells[j] = cellAt(raw, j+1)
		}
		table.Rows = append(table.Rows, row)
	}
	if len(table.Rows) == 0 {
		return timecard.Table{}, fmt.Errorf("%w: no employee rows", timecard.ErrExtractFailed)
	}
	return table, nil
}

var filenameLabelPattern = regexp.MustCompile(`\(([^)]+)\)`)

// PeriodFromFilename recovers the pay-period label from an output filename
// such as "table_with_error_cells(20220620-0703).xlsx".
func PeriodFromFilename(name string) string {
	m := filenameLabelPattern.FindStringSubmatch(name)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

func readFirstSheet(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", timecard.ErrExtractFailed, err)
	}
	defer func() { _ = f.Close() }()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("%w: no worksheet found", timecard.ErrExtractFailed)
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", timecard.ErrExtractFailed, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: worksheet is empty", timecard.ErrExtractFailed)
	}
	return rows, nil
}

// cleanPeriodLabel turns the device's "2022/06/20 ~ 2022/07/03" into the
// canonical "20220620-20220703" form.
func cleanPeriodLabel(raw string) string {
	s := strings.NewReplacer(" ", "", "/", "", "~", "-").Replace(raw)
	return strings.TrimSpace(s)
}

// cellAt reads a cell tolerating the short rows excelize returns when
// trailing cells are empty.
func cellAt(row []string, i int) string {
	if i >= 0 && i < len(row) {
		return row[i]
	}
	return ""
}
