package seasonality

import (
	"fmt"
	"log/slog"
	"time"

	"szncli/pkg/contracts/domain"
)

// Engine orchestrates the full pipeline: normalize, aggregate, annotate,
// link, filter, summarize. It is stateless apart from its logger and safe for
// concurrent use.
type Engine struct {
	logger *slog.Logger
}

// NewEngine creates an analysis engine. A nil logger falls back to
// slog.Default().
func NewEngine(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{logger: logger}
}

// AnalysisRequest selects the sequence and filters for one analysis.
type AnalysisRequest struct {
	Ticker    string       `json:"ticker" validate:"required"`
	Timeframe Timeframe    `json:"timeframe" validate:"required,oneof=daily monday-week expiry-week month year"`
	Filter    FilterConfig `json:"filter"`
	// RiskFreeRate is in percent per period, default 0.
	RiskFreeRate float64 `json:"risk_free_rate,omitempty"`
}

// AnalysisResult pairs the filtered, annotated record table with its summary
// statistics. Daily is populated for the daily timeframe, Periods otherwise.
type AnalysisResult struct {
	Ticker    string           `json:"ticker"`
	Timeframe Timeframe        `json:"timeframe"`
	Daily     []DailyRecord    `json:"daily,omitempty"`
	Periods   []PeriodRecord   `json:"periods,omitempty"`
	Stats     StatisticsResult `json:"stats"`
}

// Series is the fully derived, linked view of one ticker: the annotated daily
// sequence plus all four annotated period sequences. It is the shared input
// of filtered analyses and event-window requests.
type Series struct {
	Daily   []DailyRecord
	Periods map[Timeframe][]PeriodRecord
}

// Prepare runs normalization, aggregation, return annotation and
// cross-timeframe linking. Fatal input errors (InvalidBarError,
// DuplicateDateError, LinkageError) abort before any result is produced.
func (e *Engine) Prepare(bars []domain.Bar) (*Series, error) {
	daily, err := NormalizeDaily(bars)
	if err != nil {
		return nil, err
	}
	daily = AnnotateDailyReturns(daily)

	periods := make(map[Timeframe][]PeriodRecord, len(PeriodTimeframes))
	for _, tf := range PeriodTimeframes {
		periods[tf] = AnnotatePeriodReturns(AggregatePeriods(daily, tf))
	}

	daily, err = LinkTimeframes(daily, periods)
	if err != nil {
		return nil, err
	}
	return &Series{Daily: daily, Periods: periods}, nil
}

// Analyze runs the full pipeline for one request. A filter that eliminates
// every record is not an error: the result carries zero counts and an empty
// table.
func (e *Engine) Analyze(bars []domain.Bar, req AnalysisRequest) (*AnalysisResult, error) {
	if !req.Timeframe.IsValid() {
		return nil, fmt.Errorf("unknown timeframe %q", req.Timeframe)
	}

	series, err := e.Prepare(bars)
	if err != nil {
		return nil, err
	}

	res := &AnalysisResult{Ticker: req.Ticker, Timeframe: req.Timeframe}

	var returns []float64
	var firstDate, lastDate time.Time

	if req.Timeframe == TimeframeDaily {
		res.Daily = ApplyFilter(req.Filter, series.Daily)
		returns, firstDate, lastDate = returnSeries(res.Daily)
	} else {
		res.Periods = ApplyFilter(req.Filter, series.Periods[req.Timeframe])
		returns, firstDate, lastDate = returnSeries(res.Periods)
	}

	res.Stats = Summarize(returns, firstDate, lastDate, req.RiskFreeRate)

	e.logger.Debug("analysis complete",
		slog.String("ticker", req.Ticker),
		slog.String("timeframe", req.Timeframe.String()),
		slog.Int("retained", res.Stats.Count))
	return res, nil
}

// AnalyzeEvents prepares the daily sequence and runs the event-window
// analyzer, optionally restricted by the request filter first.
func (e *Engine) AnalyzeEvents(bars []domain.Bar, filter FilterConfig, cfg EventConfig) (*EventResult, error) {
	series, err := e.Prepare(bars)
	if err != nil {
		return nil, err
	}
	daily := series.Daily
	if !filter.IsZero() {
		daily = ApplyFilter(filter, daily)
	}
	return AnalyzeEventWindows(daily, cfg), nil
}

// returnSeries extracts the non-nil percentage returns of a filtered
// sequence together with the retained date bounds.
func returnSeries[T record](recs []T) (returns []float64, first, last time.Time) {
	for _, r := range recs {
		if first.IsZero() {
			first = r.recordDate()
		}
		last = r.recordDate()
		if pct := r.returnPct(); pct != nil {
			returns = append(returns, *pct)
		}
	}
	return returns, first, last
}
