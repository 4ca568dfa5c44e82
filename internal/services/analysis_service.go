package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"

	"szncli/internal/config"
	"szncli/internal/dataprocessing"
	"szncli/internal/errors"
	"szncli/internal/infrastructure"
	"szncli/internal/seasonality"
	"szncli/internal/validation"
	"szncli/pkg/contracts/domain"
)

// AnalysisService owns the in-memory bar store and the memoized analysis
// results. It is safe for concurrent use.
type AnalysisService struct {
	cfg      *config.Config
	logger   *slog.Logger
	engine   *seasonality.Engine
	loader   *dataprocessing.CSVLoader
	files    *validation.FileValidator
	validate *validator.Validate

	mu    sync.RWMutex
	bars  map[string][]domain.Bar
	cache map[string]*seasonality.AnalysisResult
	// keys tracks cache insertion order for FIFO eviction.
	keys []string
}

// NewAnalysisService creates the analysis service.
func NewAnalysisService(cfg *config.Config, logger *slog.Logger) *AnalysisService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalysisService{
		cfg:      cfg,
		logger:   logger,
		engine:   seasonality.NewEngine(logger),
		loader:   dataprocessing.NewCSVLoader(logger),
		files:    validation.NewFileValidator(logger),
		validate: validator.New(),
		bars:     make(map[string][]domain.Bar),
		cache:    make(map[string]*seasonality.AnalysisResult),
	}
}

// LoadDirectory ingests every .csv and .xlsx file under dir, fanning out over
// the configured worker count. Bars are grouped by ticker; loading replaces
// any previously loaded data and invalidates the result cache.
func (s *AnalysisService) LoadDirectory(ctx context.Context, dir string) error {
	if err := s.files.ValidateInputDirectory(dir, "*"); err != nil {
		return errors.NewNotFoundError("data directory").WithContext("dir", dir)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return errors.NewNotFoundError("data directory").WithContext("dir", dir)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".csv", ".xlsx":
			if err := s.files.ValidateBarFile(path); err != nil {
				s.logger.Warn("skipping unreadable bar file",
					slog.String("file", path),
					slog.String("error", err.Error()))
				continue
			}
			files = append(files, path)
		}
	}
	if len(files) == 0 {
		return errors.NewNotFoundError("bar data files").WithContext("dir", dir)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Analysis.Workers)

	results := make([][]domain.Bar, len(files))
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			var bars []domain.Bar
			var err error
			if strings.HasSuffix(strings.ToLower(path), ".xlsx") {
				bars, err = dataprocessing.ParseWorkbook(s.logger, path)
			} else {
				bars, err = s.loader.LoadFile(path)
			}
			if err != nil {
				return err
			}
			results[i] = bars
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("load %s: %w", dir, err)
	}

	byTicker := make(map[string][]domain.Bar)
	total := 0
	for _, bars := range results {
		for _, bar := range bars {
			byTicker[bar.Ticker] = append(byTicker[bar.Ticker], bar)
			total++
		}
	}
	barsLoaded.Add(float64(total))

	s.mu.Lock()
	s.bars = byTicker
	s.cache = make(map[string]*seasonality.AnalysisResult)
	s.keys = nil
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "loaded bar directory",
		slog.String("dir", dir),
		slog.Int("files", len(files)),
		slog.Int("tickers", len(byTicker)),
		slog.Int("bars", total))
	return nil
}

// Tickers returns the loaded ticker symbols in sorted order.
func (s *AnalysisService) Tickers() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tickers := make([]string, 0, len(s.bars))
	for ticker := range s.bars {
		tickers = append(tickers, ticker)
	}
	sort.Strings(tickers)
	return tickers
}

// Bars returns the loaded bars of one ticker.
func (s *AnalysisService) Bars(ticker string) ([]domain.Bar, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bars, ok := s.bars[ticker]
	if !ok {
		return nil, errors.NewNotFoundError("ticker " + ticker)
	}
	return bars, nil
}

// Analyze validates and runs one analysis request, serving repeats from the
// cache. Identical (ticker, timeframe, filter) triples share a result.
func (s *AnalysisService) Analyze(ctx context.Context, req seasonality.AnalysisRequest) (*seasonality.AnalysisResult, error) {
	ctx = infrastructure.EnsureTraceID(ctx)
	logger := infrastructure.LoggerFromContext(ctx)

	if err := s.validate.Struct(req); err != nil {
		analysisRequests.WithLabelValues(req.Timeframe.String(), "invalid").Inc()
		return nil, errors.NewValidationError(err.Error())
	}
	if req.RiskFreeRate == 0 {
		req.RiskFreeRate = s.cfg.Analysis.RiskFreeRate
	}

	key, err := cacheKey(req)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	cached, hit := s.cache[key]
	bars, loaded := s.bars[req.Ticker]
	s.mu.RUnlock()

	if hit {
		analysisCacheHits.Inc()
		analysisRequests.WithLabelValues(req.Timeframe.String(), "cached").Inc()
		return cached, nil
	}
	if !loaded {
		analysisRequests.WithLabelValues(req.Timeframe.String(), "missing").Inc()
		return nil, errors.NewNotFoundError("ticker " + req.Ticker)
	}

	start := time.Now()
	res, err := s.engine.Analyze(bars, req)
	if err != nil {
		analysisRequests.WithLabelValues(req.Timeframe.String(), "error").Inc()
		return nil, errors.NewAnalysisError("analysis failed", err).WithContext("ticker", req.Ticker)
	}
	analysisDuration.Observe(time.Since(start).Seconds())
	analysisRequests.WithLabelValues(req.Timeframe.String(), "ok").Inc()

	s.storeCached(key, res)

	logger.InfoContext(ctx, "analysis served",
		slog.String("ticker", req.Ticker),
		slog.String("timeframe", req.Timeframe.String()),
		slog.Int("retained", res.Stats.Count),
		slog.Duration("elapsed", time.Since(start)))
	return res, nil
}

// AnalyzeEvents runs an event-window analysis for one ticker. Event results
// are not cached: anchor lists rarely repeat.
func (s *AnalysisService) AnalyzeEvents(ctx context.Context, ticker string, filter seasonality.FilterConfig, cfg seasonality.EventConfig) (*seasonality.EventResult, error) {
	ctx = infrastructure.EnsureTraceID(ctx)

	if err := s.validate.Struct(cfg); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	bars, err := s.Bars(ticker)
	if err != nil {
		return nil, err
	}

	res, err := s.engine.AnalyzeEvents(bars, filter, cfg)
	if err != nil {
		return nil, errors.NewAnalysisError("event analysis failed", err).WithContext("ticker", ticker)
	}

	infrastructure.LoggerFromContext(ctx).InfoContext(ctx, "event analysis served",
		slog.String("ticker", ticker),
		slog.Int("occurrences", len(res.Occurrences)))
	return res, nil
}

// Summaries builds the per-ticker overview across all loaded bars.
func (s *AnalysisService) Summaries(ctx context.Context) ([]domain.TickerSummary, error) {
	s.mu.RLock()
	var all []domain.Bar
	for _, bars := range s.bars {
		all = append(all, bars...)
	}
	s.mu.RUnlock()

	return dataprocessing.NewSummarizer(s.logger, dataprocessing.DefaultSummarizerConfig()).
		GenerateFromBars(ctx, all)
}

func (s *AnalysisService) storeCached(key string, res *seasonality.AnalysisResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.cache[key]; !exists {
		s.keys = append(s.keys, key)
	}
	s.cache[key] = res

	for len(s.keys) > s.cfg.Analysis.CacheSize {
		oldest := s.keys[0]
		s.keys = s.keys[1:]
		delete(s.cache, oldest)
	}
}

// cacheKey derives a stable key from the request triple. The filter is
// JSON-encoded so every predicate participates.
func cacheKey(req seasonality.AnalysisRequest) (string, error) {
	filter, err := json.Marshal(req.Filter)
	if err != nil {
		return "", fmt.Errorf("encode filter: %w", err)
	}
	return fmt.Sprintf("%s|%s|%.4f|%s", req.Ticker, req.Timeframe, req.RiskFreeRate, filter), nil
}
