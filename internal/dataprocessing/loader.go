package dataprocessing

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"szncli/internal/errors"
	"szncli/pkg/contracts/domain"
)

// dateLayouts are tried in order when parsing the Date column.
var dateLayouts = []string{"2006-01-02", "01/02/2006", "2006/01/02", "02-Jan-2006"}

// CSVLoader reads daily bar CSV files. Column order is detected from the
// header row; Ticker, Date and Close are required, the rest are optional.
type CSVLoader struct {
	logger *slog.Logger
}

// NewCSVLoader creates a CSV bar loader. A nil logger falls back to
// slog.Default().
func NewCSVLoader(logger *slog.Logger) *CSVLoader {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVLoader{logger: logger}
}

// LoadFile reads one CSV file into bars.
func (l *CSVLoader) LoadFile(path string) ([]domain.Bar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewParsingError("failed to open CSV file", err).WithContext("path", path)
	}
	defer f.Close()

	bars, err := l.Load(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	l.logger.Info("loaded bar file",
		slog.String("path", path),
		slog.Int("bars", len(bars)))
	return bars, nil
}

// Load reads CSV bar rows from r.
func (l *CSVLoader) Load(r io.Reader) ([]domain.Bar, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.NewParsingError("empty CSV input", nil)
	}
	if err != nil {
		return nil, errors.NewParsingError("failed to read CSV header", err)
	}

	cols, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	var bars []domain.Bar
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, errors.NewParsingError(fmt.Sprintf("failed to read CSV row %d", line), err)
		}

		bar, err := parseRow(row, cols)
		if err != nil {
			return nil, errors.NewParsingError(fmt.Sprintf("bad CSV row %d", line), err)
		}
		bars = append(bars, bar)
	}
	return bars, nil
}

// columnMap records the index of each recognized column, -1 when absent.
type columnMap struct {
	ticker, date, open, high, low, closeCol, volume, oi int
}

// mapColumns resolves header names to column indexes. Matching is
// case-insensitive and ignores a leading UTF-8 BOM.
func mapColumns(header []string) (columnMap, error) {
	cols := columnMap{ticker: -1, date: -1, open: -1, high: -1, low: -1, closeCol: -1, volume: -1, oi: -1}

	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		switch name {
		case "ticker", "symbol", "code":
			cols.ticker = i
		case "date", "trading_date":
			cols.date = i
		case "open", "open_price":
			cols.open = i
		case "high", "high_price":
			cols.high = i
		case "low", "low_price":
			cols.low = i
		case "close", "close_price", "last":
			cols.closeCol = i
		case "volume", "vol":
			cols.volume = i
		case "open_interest", "oi":
			cols.oi = i
		}
	}

	for _, required := range []struct {
		idx  int
		name string
	}{
		{cols.ticker, "ticker"},
		{cols.date, "date"},
		{cols.closeCol, "close"},
	} {
		if required.idx < 0 {
			return cols, errors.NewParsingError(
				fmt.Sprintf("CSV header is missing the %s column", required.name), nil)
		}
	}
	return cols, nil
}

func parseRow(row []string, cols columnMap) (domain.Bar, error) {
	var bar domain.Bar

	cell := func(idx int) string {
		if idx < 0 || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	bar.Ticker = cell(cols.ticker)
	if bar.Ticker == "" {
		return bar, fmt.Errorf("missing ticker")
	}

	date, err := parseDate(cell(cols.date))
	if err != nil {
		return bar, err
	}
	bar.Date = date

	if bar.Close, err = parsePrice(cell(cols.closeCol), "close"); err != nil {
		return bar, err
	}
	// Missing OHLC columns degrade to the close so the bar stays coherent.
	bar.Open = bar.Close
	bar.High = bar.Close
	bar.Low = bar.Close
	if v := cell(cols.open); v != "" {
		if bar.Open, err = parsePrice(v, "open"); err != nil {
			return bar, err
		}
	}
	if v := cell(cols.high); v != "" {
		if bar.High, err = parsePrice(v, "high"); err != nil {
			return bar, err
		}
	}
	if v := cell(cols.low); v != "" {
		if bar.Low, err = parsePrice(v, "low"); err != nil {
			return bar, err
		}
	}
	if v := cell(cols.volume); v != "" {
		if bar.Volume, err = strconv.ParseFloat(strings.ReplaceAll(v, ",", ""), 64); err != nil {
			return bar, fmt.Errorf("bad volume %q: %w", v, err)
		}
	}
	if v := cell(cols.oi); v != "" {
		oi, err := strconv.ParseFloat(strings.ReplaceAll(v, ",", ""), 64)
		if err != nil {
			return bar, fmt.Errorf("bad open interest %q: %w", v, err)
		}
		bar.OpenInterest = &oi
	}
	return bar, nil
}

func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("missing date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", value)
}

func parsePrice(value, field string) (float64, error) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(value, ",", ""), 64)
	if err != nil {
		return 0, fmt.Errorf("bad %s %q: %w", field, value, err)
	}
	return v, nil
}
