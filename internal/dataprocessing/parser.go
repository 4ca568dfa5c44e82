package dataprocessing

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	"szncli/internal/errors"
	"szncli/pkg/contracts/domain"
)

// sheetNames are probed in order before falling back to header detection.
var sheetNames = []string{"Bars", "Daily", "Prices", "Sheet1"}

// ParseWorkbook reads an Excel workbook of daily bars and extracts one bar
// per data row. The data sheet is located by probing common names first and
// by header inspection otherwise.
func ParseWorkbook(logger *slog.Logger, path string) ([]domain.Bar, error) {
	if logger == nil {
		logger = slog.Default()
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.NewParsingError("failed to open workbook", err).WithContext("path", path)
	}
	defer f.Close()

	rows, sheetName, err := findBarSheet(f)
	if err != nil {
		return nil, err
	}
	logger.Info("found bar data sheet",
		slog.String("path", path),
		slog.String("sheet", sheetName),
		slog.Int("rows", len(rows)))

	headerIdx := -1
	var cols columnMap
	for i, row := range rows {
		if c, err := mapColumns(row); err == nil {
			headerIdx = i
			cols = c
			break
		}
	}
	if headerIdx < 0 {
		return nil, errors.NewParsingError("no bar header row in workbook", nil).WithContext("sheet", sheetName)
	}

	var bars []domain.Bar
	for i, row := range rows[headerIdx+1:] {
		if emptyRow(row) {
			continue
		}
		bar, err := parseRow(row, cols)
		if err != nil {
			return nil, errors.NewParsingError(
				fmt.Sprintf("bad workbook row %d", headerIdx+2+i), err).WithContext("sheet", sheetName)
		}
		bars = append(bars, bar)
	}
	return bars, nil
}

// findBarSheet locates the sheet holding bar rows.
func findBarSheet(f *excelize.File) ([][]string, string, error) {
	for _, name := range sheetNames {
		if rows, err := f.GetRows(name); err == nil && len(rows) > 1 {
			return rows, name, nil
		}
	}

	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil || len(rows) < 2 {
			continue
		}
		probe := rows
		if len(probe) > 5 {
			probe = probe[:5]
		}
		for _, row := range probe {
			text := strings.ToLower(strings.Join(row, " "))
			if strings.Contains(text, "date") && strings.Contains(text, "close") {
				return rows, name, nil
			}
		}
	}
	return nil, "", errors.NewParsingError("could not find a bar data sheet in workbook", nil)
}

func emptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
