package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/cmlabs-hris/timecard-backend-go/internal/domain/timecard"
)

// rawExportFixture builds a workbook shaped like a real clock export: the
// period text on row 3, day labels on row 4, then three rows per employee
// with the name in column K and punches on the row below it.
func rawExportFixture(t *testing.T) []byte {
	t.Helper()

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	require.NoError(t, f.SetCellValue(sheet, "C3", "2022/06/20 ~ 2022/07/03"))

	labels := []string{"20", "21", "22", "23", "24", "25", "26", "27", "28", "29", "30", "1", "2", "3"}
	for j, label := range labels {
		cell, err := excelize.CoordinatesToCellName(j+1, 4)
		require.NoError(t, err)
		require.NoError(t, f.SetCellValue(sheet, cell, label))
	}

	// Employee 1: two worked days, the rest empty.
	require.NoError(t, f.SetCellValue(sheet, "K5", "Alice Johnson"))
	require.NoError(t, f.SetCellValue(sheet, "A6", "09:00\n12:00\n13:00\n18:00"))
	require.NoError(t, f.SetCellValue(sheet, "B6", "09:00 17:00"))

	// Employee 2: three worked days, so it sorts above employee 1.
	require.NoError(t, f.SetCellValue(sheet, "K8", "Bob Smith"))
	require.NoError(t, f.SetCellValue(sheet, "A9", "08:00 16:00"))
	require.NoError(t, f.SetCellValue(sheet, "B9", "08:00 16:00"))
	require.NoError(t, f.SetCellValue(sheet, "C9", "08:00 16:00"))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestReadRawExport(t *testing.T) {
	table, label, err := ReadRawExport(bytes.NewReader(rawExportFixture(t)))
	require.NoError(t, err)

	assert.Equal(t, "20220620-20220703", label)
	assert.Len(t, table.DayLabels, 14)
	assert.Equal(t, "20", table.DayLabels[0])
	assert.Equal(t, "3", table.DayLabels[13])

	require.Len(t, table.Rows, 2)
	// Fewer empty days sorts first.
	assert.Equal(t, "Bob Smith", table.Rows[0].Name)
	assert.Equal(t, "Alice Johnson", table.Rows[1].Name)
	assert.Equal(t, "08:00 16:00", table.Rows[0].Cells[2])
	assert.Equal(t, "09:00\n12:00\n13:00\n18:00", table.Rows[1].Cells[0])
	assert.Equal(t, "", table.Rows[1].Cells[5])
}

func TestReadRawExport_TooShort(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetCellValue(f.GetSheetName(0), "A1", "not an export"))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	_, _, err = ReadRawExport(bytes.NewReader(buf.Bytes()))
	assert.ErrorIs(t, err, timecard.ErrExtractFailed)
}

func TestReadRawExport_NotAWorkbook(t *testing.T) {
	_, _, err := ReadRawExport(bytes.NewReader([]byte("plain text, not xlsx")))
	assert.ErrorIs(t, err, timecard.ErrExtractFailed)
}

func correctedFixture(t *testing.T) []byte {
	t.Helper()

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	header := []interface{}{"Name", "20", "21", "22", "23", "24", "25", "26", "27", "28", "29", "30", "1", "2"}
	require.NoError(t, f.SetSheetRow(sheet, "A1", &header))

	row := []interface{}{"Alice Johnson", "09:00 17:00", "09:00 17:00"}
	require.NoError(t, f.SetSheetRow(sheet, "A2", &row))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestReadCorrected(t *testing.T) {
	table, err := ReadCorrected(bytes.NewReader(correctedFixture(t)))
	require.NoError(t, err)

	assert.Len(t, table.DayLabels, 13)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "Alice Johnson", table.Rows[0].Name)
	assert.Equal(t, "09:00 17:00", table.Rows[0].Cells[0])
	// Trailing columns the writer left blank read back as empty cells.
	assert.Equal(t, "", table.Rows[0].Cells[12])
}

func TestReadCorrected_Empty(t *testing.T) {
	f := excelize.NewFile()
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	_, err = ReadCorrected(bytes.NewReader(buf.Bytes()))
	assert.ErrorIs(t, err, timecard.ErrExtractFailed)
}

func TestPeriodFromFilename(t *testing.T) {
	tests := []struct {
		name     string
		expected string
	}{
		{"table_with_error_cells(20220620-0703).xlsx", "20220620-0703"},
		{"work_attendance(20220620-20220703).xlsx", "20220620-20220703"},
		{"timecards.xlsx", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, PeriodFromFilename(tt.name), tt.name)
	}
}

func TestCleanPeriodLabel(t *testing.T) {
	assert.Equal(t, "20220620-20220703", cleanPeriodLabel("2022/06/20 ~ 2022/07/03"))
	assert.Equal(t, "20220620-0703", cleanPeriodLabel("20220620-0703"))
	assert.Equal(t, "", cleanPeriodLabel("  "))
}
