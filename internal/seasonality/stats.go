package seasonality

import (
	"math"
	"sort"
	"time"
)

// StatisticsResult is the scalar summary computed over a filtered return
// series. Metrics that cannot be computed for the given series are nil, with
// the reason recorded in Omissions; the response as a whole never aborts for
// an undefined metric.
type StatisticsResult struct {
	Count         int `json:"count"`
	PositiveCount int `json:"positive_count"`
	NegativeCount int `json:"negative_count"`

	WinRate float64 `json:"win_rate"`

	Mean   *float64 `json:"mean,omitempty"`
	Median *float64 `json:"median,omitempty"`
	StdDev *float64 `json:"std_dev,omitempty"`

	CAGR         *float64 `json:"cagr,omitempty"`
	Sharpe       *float64 `json:"sharpe,omitempty"`
	Sortino      *float64 `json:"sortino,omitempty"`
	Calmar       *float64 `json:"calmar,omitempty"`
	MaxDrawdown  *float64 `json:"max_drawdown,omitempty"`
	ProfitFactor *float64 `json:"profit_factor,omitempty"`

	LongestWinStreak  int `json:"longest_win_streak"`
	LongestLossStreak int `json:"longest_loss_streak"`

	Omissions []MetricOmission `json:"omissions,omitempty"`
}

// MetricOmission names a metric that was reported as nil and why.
type MetricOmission struct {
	Metric string `json:"metric"`
	Reason string `json:"reason"`
}

func (r *StatisticsResult) omit(err *InsufficientDataError) {
	r.Omissions = append(r.Omissions, MetricOmission{Metric: err.Metric, Reason: err.Reason})
}

// Summarize computes the full statistics battery over an ordered sequence of
// percentage returns. firstDate/lastDate bound the retained records and drive
// the CAGR exponent (calendar-day span, not record count, so filtered gaps do
// not inflate growth). riskFreeRate is in percent per period and defaults to
// zero.
func Summarize(returns []float64, firstDate, lastDate time.Time, riskFreeRate float64) StatisticsResult {
	var res StatisticsResult
	res.Count = len(returns)

	if len(returns) == 0 {
		res.omit(&InsufficientDataError{Metric: "all", Reason: "empty return series"})
		return res
	}

	for _, r := range returns {
		switch {
		case r > 0:
			res.PositiveCount++
		case r < 0:
			res.NegativeCount++
		}
	}
	res.WinRate = float64(res.PositiveCount) / float64(res.Count) * 100

	mean := meanOf(returns)
	res.Mean = floatPtr(mean)
	res.Median = floatPtr(medianOf(returns))

	if len(returns) < 2 {
		res.omit(&InsufficientDataError{Metric: "std_dev", Reason: "need at least 2 returns"})
		res.omit(&InsufficientDataError{Metric: "sharpe", Reason: "need at least 2 returns"})
	} else {
		sd := stdDevOf(returns, mean)
		res.StdDev = floatPtr(sd)
		if sd == 0 {
			res.omit(&InsufficientDataError{Metric: "sharpe", Reason: "zero standard deviation"})
		} else {
			res.Sharpe = floatPtr((mean - riskFreeRate) / sd)
		}
	}

	if dd := downsideDeviation(returns, riskFreeRate); dd == 0 {
		res.omit(&InsufficientDataError{Metric: "sortino", Reason: "no downside deviation"})
	} else {
		res.Sortino = floatPtr((mean - riskFreeRate) / dd)
	}

	res.MaxDrawdown = floatPtr(MaxDrawdown(returns))

	if cagr, err := CAGR(returns, firstDate, lastDate); err != nil {
		res.omit(err)
	} else {
		res.CAGR = floatPtr(cagr)
		if *res.MaxDrawdown == 0 {
			res.omit(&InsufficientDataError{Metric: "calmar", Reason: "zero max drawdown"})
		} else {
			res.Calmar = floatPtr(cagr / math.Abs(*res.MaxDrawdown))
		}
	}

	if pf, err := ProfitFactor(returns); err != nil {
		res.omit(err)
	} else {
		res.ProfitFactor = floatPtr(pf)
	}

	res.LongestWinStreak, res.LongestLossStreak = Streaks(returns)
	return res
}

// CAGR compounds the percentage returns and annualizes over the calendar-day
// span between the first and last retained record.
func CAGR(returns []float64, firstDate, lastDate time.Time) (float64, *InsufficientDataError) {
	if len(returns) < 2 {
		return 0, &InsufficientDataError{Metric: "cagr", Reason: "need at least 2 returns"}
	}
	spanDays := lastDate.Sub(firstDate).Hours() / 24
	if spanDays <= 0 {
		return 0, &InsufficientDataError{Metric: "cagr", Reason: "zero calendar-day span"}
	}
	cum := 1.0
	for _, r := range returns {
		cum *= 1 + r/100
	}
	if cum <= 0 {
		return 0, &InsufficientDataError{Metric: "cagr", Reason: "compounded equity is non-positive"}
	}
	return (math.Pow(cum, 365.25/spanDays) - 1) * 100, nil
}

// MaxDrawdown walks the compounded equity curve and returns the most negative
// peak-to-trough drawdown in percent. Always <= 0; exactly 0 for a
// monotonically non-decreasing curve. Deliberately not the single worst
// return: a bad day off an already-depressed base is not a peak-to-trough
// span.
func MaxDrawdown(returns []float64) float64 {
	cum, peak, maxDD := 1.0, 1.0, 0.0
	for _, r := range returns {
		cum *= 1 + r/100
		if cum > peak {
			peak = cum
		}
		if dd := (cum - peak) / peak * 100; dd < maxDD {
			maxDD = dd
		}
	}
	return maxDD
}

// ProfitFactor is |sum of positive returns| / |sum of negative returns|.
// Undefined when there are no losses.
func ProfitFactor(returns []float64) (float64, *InsufficientDataError) {
	var gains, losses float64
	for _, r := range returns {
		if r > 0 {
			gains += r
		} else if r < 0 {
			losses += r
		}
	}
	if losses == 0 {
		return 0, &InsufficientDataError{Metric: "profit_factor", Reason: "no losing periods"}
	}
	return math.Abs(gains) / math.Abs(losses), nil
}

// Streaks returns the longest run of consecutive strictly-positive and
// strictly-negative returns in sequence order.
func Streaks(returns []float64) (longestWin, longestLoss int) {
	var win, loss int
	for _, r := range returns {
		switch {
		case r > 0:
			win, loss = win+1, 0
		case r < 0:
			win, loss = 0, loss+1
		default:
			win, loss = 0, 0
		}
		if win > longestWin {
			longestWin = win
		}
		if loss > longestLoss {
			longestLoss = loss
		}
	}
	return longestWin, longestLoss
}

// PercentileRank is the share of values strictly below x, in percent.
func PercentileRank(values []float64, x float64) (float64, *InsufficientDataError) {
	if len(values) == 0 {
		return 0, &InsufficientDataError{Metric: "percentile_rank", Reason: "empty series"}
	}
	below := 0
	for _, v := range values {
		if v < x {
			below++
		}
	}
	return float64(below) / float64(len(values)) * 100, nil
}

// ZScore is (x - mean) / stdev over the series.
func ZScore(values []float64, x float64) (float64, *InsufficientDataError) {
	if len(values) < 2 {
		return 0, &InsufficientDataError{Metric: "z_score", Reason: "need at least 2 values"}
	}
	mean := meanOf(values)
	sd := stdDevOf(values, mean)
	if sd == 0 {
		return 0, &InsufficientDataError{Metric: "z_score", Reason: "zero standard deviation"}
	}
	return (x - mean) / sd, nil
}

func meanOf(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func medianOf(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// stdDevOf is the sample standard deviation (n-1 denominator).
func stdDevOf(values []float64, mean float64) float64 {
	if len(values) < 2 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)-1))
}

// downsideDeviation is sqrt(mean of min(r-target, 0)^2) over n, not n-1.
func downsideDeviation(returns []float64, target float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	sum := 0.0
	for _, r := range returns {
		if d := r - target; d < 0 {
			sum += d * d
		}
	}
	return math.Sqrt(sum / float64(len(returns)))
}
