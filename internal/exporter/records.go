package exporter

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"szncli/internal/errors"
	"szncli/internal/seasonality"
	"szncli/pkg/contracts/domain"
)

// AnalysisExporter renders analysis results to CSV and JSON files under the
// output directory.
type AnalysisExporter struct {
	logger *slog.Logger
	csv    *CSVWriter
	outDir string
}

// NewAnalysisExporter creates an analysis exporter rooted at outputDir.
func NewAnalysisExporter(logger *slog.Logger, outputDir string) *AnalysisExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalysisExporter{
		logger: logger,
		csv:    NewCSVWriter(outputDir),
		outDir: outputDir,
	}
}

var dailyHeaders = []string{
	"Date", "Weekday", "Open", "High", "Low", "Close", "Volume", "OpenInterest",
	"TradingMonthDay", "TradingYearDay",
	"ReturnPoints", "ReturnPct", "Positive",
	"MondayWeekReturnPct", "ExpiryWeekReturnPct", "MonthReturnPct", "YearReturnPct",
}

var periodHeaders = []string{
	"StartDate", "Open", "High", "Low", "Close", "Volume", "OpenInterest", "TradingDays",
	"ReturnPoints", "ReturnPct", "Positive",
	"WeekNumberMonthly", "WeekNumberYearly",
}

// ExportResultCSV writes the record table of one analysis result.
func (e *AnalysisExporter) ExportResultCSV(res *seasonality.AnalysisResult, fileName string) error {
	var headers []string
	var rows [][]string

	if res.Timeframe == seasonality.TimeframeDaily {
		headers = dailyHeaders
		for _, d := range res.Daily {
			rows = append(rows, dailyRow(d))
		}
	} else {
		headers = periodHeaders
		for _, p := range res.Periods {
			rows = append(rows, periodRow(p))
		}
	}

	if err := e.csv.WriteSimpleCSV(fileName, headers, rows); err != nil {
		return errors.NewExportError("failed to write analysis CSV", err).WithContext("file", fileName)
	}

	e.logger.Info("exported analysis result",
		slog.String("ticker", res.Ticker),
		slog.String("timeframe", res.Timeframe.String()),
		slog.String("file", fileName),
		slog.Int("rows", len(rows)))
	return nil
}

// ExportResultJSON writes the full analysis result, statistics included.
func (e *AnalysisExporter) ExportResultJSON(res *seasonality.AnalysisResult, fileName string) error {
	return e.writeJSON(fileName, map[string]interface{}{
		"result":       res,
		"generated_at": time.Now().Format(time.RFC3339),
		"format":       "seasonality_analysis_v1",
	})
}

// ExportEventsJSON writes an event-window result.
func (e *AnalysisExporter) ExportEventsJSON(res *seasonality.EventResult, fileName string) error {
	return e.writeJSON(fileName, map[string]interface{}{
		"result":       res,
		"generated_at": time.Now().Format(time.RFC3339),
		"format":       "event_windows_v1",
	})
}

func (e *AnalysisExporter) writeJSON(fileName string, payload interface{}) error {
	fullPath := fileName
	if !filepath.IsAbs(fullPath) {
		fullPath = filepath.Join(e.outDir, fileName)
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return errors.NewExportError("failed to create output directory", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return errors.NewExportError("failed to create JSON file", err).WithContext("file", fullPath)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(payload); err != nil {
		return errors.NewExportError("failed to encode JSON", err).WithContext("file", fullPath)
	}

	e.logger.Info("exported JSON file", slog.String("file", fullPath))
	return nil
}

func dailyRow(d seasonality.DailyRecord) []string {
	linkPct := func(link *seasonality.PeriodLink) string {
		if link == nil {
			return ""
		}
		return formatFloatPtr(link.ReturnPercentage, 2)
	}
	return []string{
		d.Date.Format("2006-01-02"),
		d.WeekdayName,
		formatFloat(d.Open, 3),
		formatFloat(d.High, 3),
		formatFloat(d.Low, 3),
		formatFloat(d.Close, 3),
		formatFloat(d.Volume, 0),
		formatFloatPtr(d.OpenInterest, 0),
		formatIntPtr(d.TradingMonthDay),
		formatIntPtr(d.TradingYearDay),
		formatFloatPtr(d.ReturnPoints, 3),
		formatFloatPtr(d.ReturnPercentage, 2),
		formatBoolPtr(d.PositiveDay),
		linkPct(d.MondayWeek),
		linkPct(d.ExpiryWeek),
		linkPct(d.Month),
		linkPct(d.Year),
	}
}

func periodRow(p seasonality.PeriodRecord) []string {
	return []string{
		p.StartDate.Format("2006-01-02"),
		formatFloat(p.Open, 3),
		formatFloat(p.High, 3),
		formatFloat(p.Low, 3),
		formatFloat(p.Close, 3),
		formatFloat(p.Volume, 0),
		formatFloatPtr(p.OpenInterest, 0),
		strconv.Itoa(p.TradingDays),
		formatFloatPtr(p.ReturnPoints, 3),
		formatFloatPtr(p.ReturnPercentage, 2),
		formatBoolPtr(p.Positive),
		formatIntPtr(p.WeekNumberMonthly),
		formatIntPtr(p.WeekNumberYearly),
	}
}

// TickerExporter writes per-ticker overview files.
type TickerExporter struct {
	logger *slog.Logger
	csv    *CSVWriter
}

// NewTickerExporter creates a ticker exporter rooted at outputDir.
func NewTickerExporter(logger *slog.Logger, outputDir string) *TickerExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &TickerExporter{logger: logger, csv: NewCSVWriter(outputDir)}
}

var tickerHeaders = []string{
	"Ticker", "LastClose", "FirstDate", "LastDate", "TradingDays",
	"Change", "ChangePercent", "HighestPrice", "LowestPrice", "TotalVolume",
}

// ExportSummaries writes the ticker summary table.
func (e *TickerExporter) ExportSummaries(summaries []domain.TickerSummary, fileName string) error {
	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []string{
			s.Ticker,
			formatFloat(s.LastClose, 3),
			s.FirstDate,
			s.LastDate,
			strconv.Itoa(s.TradingDays),
			formatFloat(s.Change, 3),
			fmt.Sprintf("%.2f", s.ChangePercent),
			formatFloat(s.HighestPrice, 3),
			formatFloat(s.LowestPrice, 3),
			formatFloat(s.TotalVolume, 0),
		})
	}

	if err := e.csv.WriteSimpleCSV(fileName, tickerHeaders, rows); err != nil {
		return errors.NewExportError("failed to write ticker summary CSV", err).WithContext("file", fileName)
	}

	e.logger.Info("exported ticker summaries",
		slog.String("file", fileName),
		slog.Int("tickers", len(rows)))
	return nil
}
