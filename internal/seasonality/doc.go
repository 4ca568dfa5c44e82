// Package seasonality implements the multi-timeframe seasonality aggregation
// and statistics engine.
//
// The engine takes one ticker's chronologically ordered daily OHLCV bars and
// produces derived daily, weekly (Monday- and expiry-anchored), monthly and
// yearly record sequences with calendar and return annotations, links every
// daily record to its enclosing periods, and computes portfolio-style
// statistics (CAGR, Sharpe, Sortino, Calmar, max drawdown, profit factor,
// win rate, streaks, percentile rank, z-score) over arbitrarily filtered
// subsets of those sequences. An event-window analyzer extracts fixed
// T-N..T+N return windows around anchor dates and averages them across
// occurrences.
//
// All computation is synchronous and pure: every entry point takes immutable
// inputs and returns freshly allocated structures, so concurrent analysis
// requests never share mutable state. The engine performs no I/O and holds no
// persistent state; bars arrive in memory from the caller and results are
// returned the same way.
//
// Missing values ("no prior bar to diff against") are represented with
// pointer fields that stay nil, never with zero or NaN sentinels.
//
// Typical usage:
//
//	engine := seasonality.NewEngine(slog.Default())
//	result, err := engine.Analyze(bars, seasonality.AnalysisRequest{
//		Ticker:    "TASC",
//		Timeframe: seasonality.TimeframeMonth,
//		Filter:    seasonality.FilterConfig{Months: []time.Month{time.January}},
//	})
package seasonality
