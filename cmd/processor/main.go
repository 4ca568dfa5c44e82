// Command processor runs the batch seasonality pipeline: it ingests every
// bar file in the data directory, analyzes each ticker across all
// timeframes and writes the per-ticker CSV/JSON reports plus the ticker
// summary table.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"

	"szncli/internal/config"
	"szncli/internal/exporter"
	"szncli/internal/infrastructure"
	"szncli/internal/seasonality"
	"szncli/internal/services"
)

func main() {
	inDir := flag.String("in", "", "input directory for bar files (defaults to the configured data dir)")
	outDir := flag.String("out", "", "output directory for reports (defaults to the configured output dir)")
	timeframes := flag.String("timeframes", "daily,monday-week,expiry-week,month,year", "comma-separated timeframes to export")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	if *inDir == "" {
		*inDir = cfg.GetDataDir()
	}
	if *outDir == "" {
		*outDir = cfg.GetOutputDir()
	}
	if err := cfg.EnsureDirectories(); err != nil {
		slog.Error("Failed to create required directories", "error", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}

	selected, err := parseTimeframes(*timeframes)
	if err != nil {
		logger.Error("Bad timeframe selection", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Starting seasonality batch processing",
		slog.String("input_dir", *inDir),
		slog.String("output_dir", *outDir),
		slog.Int("workers", cfg.Analysis.Workers))

	ctx := infrastructure.ContextWithTraceID(context.Background())
	if err := run(ctx, cfg, logger, *inDir, *outDir, selected); err != nil {
		logger.Error("Batch processing failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Batch processing complete")
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, inDir, outDir string, timeframes []seasonality.Timeframe) error {
	svc := services.NewAnalysisService(cfg, logger)
	if err := svc.LoadDirectory(ctx, inDir); err != nil {
		return err
	}

	analysisExp := exporter.NewAnalysisExporter(logger, outDir)
	tickerExp := exporter.NewTickerExporter(logger, outDir)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Analysis.Workers)

	for _, ticker := range svc.Tickers() {
		ticker := ticker
		g.Go(func() error {
			for _, tf := range timeframes {
				res, err := svc.Analyze(ctx, seasonality.AnalysisRequest{
					Ticker:    ticker,
					Timeframe: tf,
				})
				if err != nil {
					return fmt.Errorf("%s %s: %w", ticker, tf, err)
				}

				base := fmt.Sprintf("%s_%s", strings.ToLower(ticker), tf)
				if err := analysisExp.ExportResultCSV(res, base+".csv"); err != nil {
					return err
				}
				if err := analysisExp.ExportResultJSON(res, base+".json"); err != nil {
					return err
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	summaries, err := svc.Summaries(ctx)
	if err != nil {
		return err
	}
	return tickerExp.ExportSummaries(summaries, "ticker_summary.csv")
}

func parseTimeframes(raw string) ([]seasonality.Timeframe, error) {
	var out []seasonality.Timeframe
	for _, part := range strings.Split(raw, ",") {
		tf := seasonality.Timeframe(strings.TrimSpace(part))
		if !tf.IsValid() {
			return nil, fmt.Errorf("unknown timeframe %q", part)
		}
		out = append(out, tf)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no timeframes selected")
	}
	return out, nil
}
