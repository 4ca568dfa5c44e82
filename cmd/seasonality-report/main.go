// Command seasonality-report answers one ad-hoc question: how has a ticker
// behaved under a given timeframe and filter, or around a list of event
// anchors. The result is printed as JSON or written under the output dir.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"szncli/internal/config"
	"szncli/internal/exporter"
	"szncli/internal/infrastructure"
	"szncli/internal/seasonality"
	"szncli/internal/services"
)

func main() {
	dataDir := flag.String("data", "", "directory of bar files (defaults to the configured data dir)")
	ticker := flag.String("ticker", "", "ticker symbol to analyze (required)")
	timeframe := flag.String("timeframe", "daily", "daily, monday-week, expiry-week, month or year")
	years := flag.String("years", "", "comma-separated calendar years to retain")
	months := flag.String("months", "", "comma-separated months (1-12) to retain")
	weekdays := flag.String("weekdays", "", "comma-separated weekdays (mon..sun) to retain")
	direction := flag.String("direction", "", "retain only positive or negative records")
	outliers := flag.String("outliers", "", "outlier rejection: zscore or iqr")
	anchors := flag.String("anchors", "", "comma-separated event anchor dates (YYYY-MM-DD); switches to event-window mode")
	halfWidth := flag.Int("half-width", 0, "event window half-width in trading days (defaults to the configured value)")
	outFile := flag.String("o", "", "write the result to this file under the output dir instead of stdout")
	flag.Parse()

	if *ticker == "" {
		fmt.Fprintln(os.Stderr, "usage: seasonality-report -ticker SYMBOL [flags]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	if *dataDir == "" {
		*dataDir = cfg.GetDataDir()
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		logger = slog.Default()
	}

	filter, err := buildFilter(*years, *months, *weekdays, *direction, *outliers)
	if err != nil {
		logger.Error("Bad filter flags", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := infrastructure.ContextWithTraceID(context.Background())
	svc := services.NewAnalysisService(cfg, logger)
	if err := svc.LoadDirectory(ctx, *dataDir); err != nil {
		logger.Error("Failed to load bar data", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var payload interface{}
	if *anchors != "" {
		eventCfg, err := buildEventConfig(*anchors, *halfWidth, cfg)
		if err != nil {
			logger.Error("Bad event flags", slog.String("error", err.Error()))
			os.Exit(1)
		}
		res, err := svc.AnalyzeEvents(ctx, *ticker, filter, eventCfg)
		if err != nil {
			logger.Error("Event analysis failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if *outFile != "" {
			ex := exporter.NewAnalysisExporter(logger, cfg.GetOutputDir())
			if err := ex.ExportEventsJSON(res, *outFile); err != nil {
				logger.Error("Export failed", slog.String("error", err.Error()))
				os.Exit(1)
			}
			return
		}
		payload = res
	} else {
		res, err := svc.Analyze(ctx, seasonality.AnalysisRequest{
			Ticker:    *ticker,
			Timeframe: seasonality.Timeframe(*timeframe),
			Filter:    filter,
		})
		if err != nil {
			logger.Error("Analysis failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if *outFile != "" {
			ex := exporter.NewAnalysisExporter(logger, cfg.GetOutputDir())
			if err := ex.ExportResultJSON(res, *outFile); err != nil {
				logger.Error("Export failed", slog.String("error", err.Error()))
				os.Exit(1)
			}
			return
		}
		payload = res
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(payload); err != nil {
		logger.Error("Failed to encode result", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func buildFilter(years, months, weekdays, direction, outliers string) (seasonality.FilterConfig, error) {
	var cfg seasonality.FilterConfig

	for _, part := range splitList(years) {
		y, err := strconv.Atoi(part)
		if err != nil {
			return cfg, fmt.Errorf("bad year %q", part)
		}
		cfg.Years = append(cfg.Years, y)
	}

	for _, part := range splitList(months) {
		m, err := strconv.Atoi(part)
		if err != nil || m < 1 || m > 12 {
			return cfg, fmt.Errorf("bad month %q", part)
		}
		cfg.Months = append(cfg.Months, time.Month(m))
	}

	for _, part := range splitList(weekdays) {
		wd, err := parseWeekday(part)
		if err != nil {
			return cfg, err
		}
		cfg.Weekdays = append(cfg.Weekdays, wd)
	}

	switch strings.ToLower(direction) {
	case "":
	case "positive":
		cfg.Direction = seasonality.DirectionPositive
	case "negative":
		cfg.Direction = seasonality.DirectionNegative
	default:
		return cfg, fmt.Errorf("bad direction %q", direction)
	}

	switch strings.ToLower(outliers) {
	case "":
	case "zscore":
		cfg.Outlier = &seasonality.OutlierConfig{Method: seasonality.OutlierZScore}
	case "iqr":
		cfg.Outlier = &seasonality.OutlierConfig{Method: seasonality.OutlierIQR}
	default:
		return cfg, fmt.Errorf("bad outlier method %q", outliers)
	}

	return cfg, nil
}

func buildEventConfig(anchors string, halfWidth int, cfg *config.Config) (seasonality.EventConfig, error) {
	var eventCfg seasonality.EventConfig

	for _, part := range splitList(anchors) {
		d, err := time.Parse("2006-01-02", part)
		if err != nil {
			return eventCfg, fmt.Errorf("bad anchor date %q", part)
		}
		eventCfg.Anchors = append(eventCfg.Anchors, d)
	}

	eventCfg.HalfWidth = halfWidth
	if eventCfg.HalfWidth == 0 {
		eventCfg.HalfWidth = cfg.Analysis.EventHalfWidth
	}
	return eventCfg, nil
}

var weekdayNames = map[string]time.Weekday{
	"mon": time.Monday, "tue": time.Tuesday, "wed": time.Wednesday,
	"thu": time.Thursday, "fri": time.Friday, "sat": time.Saturday, "sun": time.Sunday,
}

func parseWeekday(raw string) (time.Weekday, error) {
	wd, ok := weekdayNames[strings.ToLower(raw)[:min(3, len(raw))]]
	if !ok {
		return 0, fmt.Errorf("bad weekday %q", raw)
	}
	return wd, nil
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
