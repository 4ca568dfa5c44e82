package seasonality

import (
	"math"
)

// roundPct rounds a percentage to two decimals, half away from zero. Both
// historical implementations of this engine disagreed on .5-boundary cases
// (banker's vs half-up); this one rule is authoritative now.
func roundPct(v float64) float64 {
	return math.Round(v*100) / 100
}

// AnnotateDailyReturns fills day-over-day returns in place on a freshly
// normalized sequence. The first record keeps nil returns: there is no prior
// bar to diff against, and nil signals "no trailing context" rather than a
// zero return.
func AnnotateDailyReturns(records []DailyRecord) []DailyRecord {
	for i := range records {
		if i == 0 {
			continue
		}
		prevClose := records[i-1].Close
		if prevClose == 0 {
			continue
		}
		points := records[i].Close - prevClose
		records[i].ReturnPoints = floatPtr(points)
		records[i].ReturnPercentage = floatPtr(roundPct(points / prevClose * 100))
		records[i].PositiveDay = boolPtr(points > 0)
	}
	return records
}

// AnnotatePeriodReturns fills period-over-period returns and, for weekly
// timeframes, the week-number counters. Counter semantics mirror the daily
// trading counters: the very first period stays nil, a month/year boundary
// between consecutive period keys resets to 1, and an unreset nil counter
// propagates until the first boundary.
func AnnotatePeriodReturns(periods []PeriodRecord) []PeriodRecord {
	weekly := len(periods) > 0 &&
		(periods[0].Timeframe == TimeframeMondayWeek || periods[0].Timeframe == TimeframeExpiryWeek)

	var weekMonthly, weekYearly *int

	for i := range periods {
		if i > 0 {
			prevClose := periods[i-1].Close
			if prevClose != 0 {
				points := periods[i].Close - prevClose
				periods[i].ReturnPoints = floatPtr(points)
				periods[i].ReturnPercentage = floatPtr(roundPct(points / prevClose * 100))
				periods[i].Positive = boolPtr(points > 0)
			}
		}

		if !weekly {
			continue
		}
		if i > 0 {
			key, prev := periods[i].StartDate, periods[i-1].StartDate
			switch {
			case key.Month() != prev.Month() || key.Year() != prev.Year():
				weekMonthly = intPtr(1)
			case weekMonthly != nil:
				weekMonthly = intPtr(*weekMonthly + 1)
			}
			switch {
			case key.Year() != prev.Year():
				weekYearly = intPtr(1)
			case weekYearly != nil:
				weekYearly = intPtr(*weekYearly + 1)
			}
		}
		if weekMonthly != nil {
			periods[i].WeekNumberMonthly = intPtr(*weekMonthly)
			periods[i].WeekNumberMonthlyEven = boolPtr(*weekMonthly%2 == 0)
		}
		if weekYearly != nil {
			periods[i].WeekNumberYearly = intPtr(*weekYearly)
			periods[i].WeekNumberYearlyEven = boolPtr(*weekYearly%2 == 0)
		}
	}
	return periods
}
