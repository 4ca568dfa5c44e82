package dataprocessing

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, sheet string, rows [][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetName("Sheet1", sheet))
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	path := filepath.Join(t.TempDir(), "bars.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestParseWorkbook(t *testing.T) {
	path := writeWorkbook(t, "Bars", [][]interface{}{
		{"Ticker", "Date", "Open", "High", "Low", "Close", "Volume"},
		{"TASC", "2024-01-02", "10.0", "10.5", "9.8", "10.2", "1500"},
		{"TASC", "2024-01-03", "10.2", "10.4", "10.0", "10.1", "900"},
		{},
	})

	bars, err := ParseWorkbook(nil, path)
	require.NoError(t, err)
	require.Len(t, bars, 2)

	assert.Equal(t, "TASC", bars[0].Ticker)
	assert.Equal(t, time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC), bars[0].Date)
	assert.Equal(t, 10.2, bars[0].Close)
	assert.Equal(t, 1500.0, bars[0].Volume)
}

func TestParseWorkbookDetectsSheetByHeader(t *testing.T) {
	path := writeWorkbook(t, "Export 2024", [][]interface{}{
		{"generated by back office"},
		{"Symbol", "Date", "Close"},
		{"ACME", "2024-02-05", "3.25"},
	})

	bars, err := ParseWorkbook(nil, path)
	require.NoError(t, err)
	require.Len(t, bars, 1)
	assert.Equal(t, "ACME", bars[0].Ticker)
	assert.Equal(t, 3.25, bars[0].Close)
}

func TestParseWorkbookNoDataSheet(t *testing.T) {
	path := writeWorkbook(t, "Notes", [][]interface{}{
		{"nothing", "to", "see"},
		{"here", "either", ""},
	})

	_, err := ParseWorkbook(nil, path)
	require.Error(t, err)
}

func TestParseWorkbookMissingFile(t *testing.T) {
	_, err := ParseWorkbook(nil, filepath.Join(t.TempDir(), "absent.xlsx"))
	require.Error(t, err)
}
