package report

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/timecard-backend-go/internal/domain/timecard"
	timecardsvc "github.com/cmlabs-hris/timecard-backend-go/internal/service/timecard"
)

func reviewTable() timecard.Table {
	labels := []string{"20", "21", "22", "23", "24", "25", "26", "27", "28", "29", "30", "1", "2", "3"}
	cells := make([]string, len(labels))
	for j := range cells {
		cells[j] = "09:00 17:00"
	}
	cells[3] = "09:00 08:00" // out of order
	return timecard.Table{
		DayLabels: labels,
		Rows: []timecard.EmployeeRow{
			{Name: "Alice Johnson", Cells: cells},
		},
	}
}

func TestBuildErrorWorkbook(t *testing.T) {
	table := reviewTable()
	svc := timecardsvc.NewTimecardService(timecardsvc.DefaultRules())
	result, err := svc.DetectErrors(context.Background(), table, "20220620-0703")
	require.NoError(t, err)

	f, err := NewAssembler().BuildErrorWorkbook(table, result)
	require.NoError(t, err)
	defer f.Close()

	sheet := f.GetSheetName(0)

	name, err := f.GetCellValue(sheet, "A2")
	require.NoError(t, err)
	assert.Equal(t, "Alice Johnson", name)

	header, err := f.GetCellValue(sheet, "B1")
	require.NoError(t, err)
	assert.Equal(t, "20", header)

	// Day index 3 is column E; the out-of-order cell keeps its raw text and
	// gets an explanatory comment.
	raw, err := f.GetCellValue(sheet, "E2")
	require.NoError(t, err)
	assert.Equal(t, "09:00 08:00", raw)

	comments, err := f.GetComments(sheet)
	require.NoError(t, err)
	require.NotEmpty(t, comments)
	found := false
	for _, c := range comments {
		if c.Cell == "E2" {
			found = true
		}
	}
	assert.True(t, found, "expected a comment on the anomalous cell")

	style, err := f.GetCellStyle(sheet, "E2")
	require.NoError(t, err)
	assert.NotZero(t, style)
}

func TestBuildReportWorkbook(t *testing.T) {
	table := reviewTable()
	svc := timecardsvc.NewTimecardService(timecardsvc.DefaultRules())
	result, err := svc.BuildReport(context.Background(), table, "20220620-0703")
	require.NoError(t, err)

	f, err := NewAssembler().BuildReportWorkbook(table, result)
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t,
		[]string{"Hours Summary", "Late", "No Lunch", "Early Leave", "Processing Log"},
		f.GetSheetList(),
	)

	name, err := f.GetCellValue("Hours Summary", "A2")
	require.NoError(t, err)
	assert.Equal(t, "Alice Johnson", name)

	// 13 valid 8h days; the out-of-order cell contributes zero.
	hours, err := f.GetCellValue("Hours Summary", "B2")
	require.NoError(t, err)
	assert.Equal(t, "8", hours)

	// Totals columns start after the 14 day columns: column P is Week 1
	// Regular.
	w1, err := f.GetCellValue("Hours Summary", "P1")
	require.NoError(t, err)
	assert.Equal(t, "Week 1 Regular", w1)

	// 13 valid days of 8h: week 1 has 48h (one invalid day), week 2 56h.
	w1reg, err := f.GetCellValue("Hours Summary", "P2")
	require.NoError(t, err)
	assert.Equal(t, "40", w1reg)

	// Alice clears the review threshold, so her 09:00 punch-ins never flag
	// late but the two-punch days all flag no lunch.
	lunchName, err := f.GetCellValue("No Lunch", "A2")
	require.NoError(t, err)
	assert.Equal(t, "Alice Johnson", lunchName)

	lateName, err := f.GetCellValue("Late", "A2")
	require.NoError(t, err)
	assert.Equal(t, "", lateName)

	period, err := f.GetCellValue("Processing Log", "B1")
	require.NoError(t, err)
	assert.Equal(t, "20220620-0703", period)
}
