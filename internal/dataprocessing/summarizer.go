package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"szncli/pkg/contracts/domain"
)

// Summarizer condenses per-ticker bar histories into overview rows. It is
// the single source of truth for the summary shape used by reports.
type Summarizer struct {
	logger     *slog.Logger
	maxRecent  int
	dateFormat string
}

// SummarizerConfig holds configuration options for the Summarizer.
type SummarizerConfig struct {
	MaxRecentCloses int    // number of trailing closes to keep, default 10
	DateFormat      string // format for date strings in output
}

// DefaultSummarizerConfig returns a default configuration for typical use.
func DefaultSummarizerConfig() SummarizerConfig {
	return SummarizerConfig{
		MaxRecentCloses: 10,
		DateFormat:      "2006-01-02",
	}
}

// NewSummarizer creates a ticker summarizer with the given configuration.
func NewSummarizer(logger *slog.Logger, cfg SummarizerConfig) *Summarizer {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxRecentCloses <= 0 {
		cfg.MaxRecentCloses = 10
	}
	if cfg.DateFormat == "" {
		cfg.DateFormat = "2006-01-02"
	}
	return &Summarizer{
		logger:     logger,
		maxRecent:  cfg.MaxRecentCloses,
		dateFormat: cfg.DateFormat,
	}
}

// GenerateFromBars builds one summary per ticker from a mixed bar slice.
// Output is sorted by ticker symbol for stable reports.
func (s *Summarizer) GenerateFromBars(ctx context.Context, bars []domain.Bar) ([]domain.TickerSummary, error) {
	s.logger.InfoContext(ctx, "generating ticker summaries",
		slog.Int("bar_count", len(bars)))

	if len(bars) == 0 {
		return []domain.TickerSummary{}, nil
	}

	byTicker := make(map[string][]domain.Bar)
	for _, bar := range bars {
		ticker := strings.TrimSpace(bar.Ticker)
		if ticker == "" {
			continue
		}
		byTicker[ticker] = append(byTicker[ticker], bar)
	}

	summaries := make([]domain.TickerSummary, 0, len(byTicker))
	for ticker, tickerBars := range byTicker {
		summary, err := s.summarizeTicker(ticker, tickerBars)
		if err != nil {
			return nil, fmt.Errorf("summarize ticker %s: %w", ticker, err)
		}
		summaries = append(summaries, summary)
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Ticker < summaries[j].Ticker
	})

	s.logger.InfoContext(ctx, "generated ticker summaries",
		slog.Int("ticker_count", len(summaries)))
	return summaries, nil
}

func (s *Summarizer) summarizeTicker(ticker string, bars []domain.Bar) (domain.TickerSummary, error) {
	if len(bars) == 0 {
		return domain.TickerSummary{}, fmt.Errorf("no bars provided")
	}

	sort.Slice(bars, func(i, j int) bool {
		return bars[i].Date.Before(bars[j].Date)
	})

	last := bars[len(bars)-1]
	summary := domain.TickerSummary{
		Ticker:      ticker,
		LastClose:   last.Close,
		LastDate:    last.Date.Format(s.dateFormat),
		FirstDate:   bars[0].Date.Format(s.dateFormat),
		TradingDays: len(bars),
	}

	if len(bars) >= 2 {
		prev := bars[len(bars)-2]
		summary.Change = last.Close - prev.Close
		if prev.Close != 0 {
			summary.ChangePercent = (last.Close - prev.Close) / prev.Close * 100
		}
	}

	high, low := bars[0].High, bars[0].Low
	var totalVolume float64
	for _, bar := range bars {
		if bar.High > high {
			high = bar.High
		}
		if bar.Low < low && bar.Low > 0 {
			low = bar.Low
		}
		totalVolume += bar.Volume
	}
	summary.HighestPrice = high
	summary.LowestPrice = low
	summary.TotalVolume = totalVolume

	start := len(bars) - s.maxRecent
	if start < 0 {
		start = 0
	}
	summary.RecentCloses = make([]float64, 0, len(bars)-start)
	for _, bar := range bars[start:] {
		summary.RecentCloses = append(summary.RecentCloses, bar.Close)
	}
	return summary, nil
}
