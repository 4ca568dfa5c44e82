package seasonality

import (
	"time"
)

// periodIndex is a key→record lookup built once per period sequence so the
// linker runs O(n) instead of re-scanning the sequence for every daily row.
type periodIndex map[time.Time]*PeriodRecord

func buildPeriodIndex(periods []PeriodRecord) periodIndex {
	idx := make(periodIndex, len(periods))
	for i := range periods {
		idx[periods[i].StartDate] = &periods[i]
	}
	return idx
}

// LinkTimeframes attaches to every daily record the return annotations of its
// enclosing Monday-week, expiry-week, month and year periods, by exact
// period-key lookup. A missing key means the aggregator and linker disagree
// on bucketing and is fatal for the request. Periods with nil returns (first
// of their sequence) propagate nil onto the daily record, never zero.
func LinkTimeframes(daily []DailyRecord, periods map[Timeframe][]PeriodRecord) ([]DailyRecord, error) {
	indexes := make(map[Timeframe]periodIndex, len(PeriodTimeframes))
	for _, tf := range PeriodTimeframes {
		indexes[tf] = buildPeriodIndex(periods[tf])
	}

	for i := range daily {
		for _, tf := range PeriodTimeframes {
			key := PeriodKey(tf, daily[i].Date)
			p, ok := indexes[tf][key]
			if !ok {
				return nil, &LinkageError{Timeframe: tf, Date: daily[i].Date, Key: key}
			}
			link := &PeriodLink{
				StartDate:         p.StartDate,
				ReturnPoints:      p.ReturnPoints,
				ReturnPercentage:  p.ReturnPercentage,
				Positive:          p.Positive,
				WeekNumberMonthly: p.WeekNumberMonthly,
				WeekNumberYearly:  p.WeekNumberYearly,
			}
			switch tf {
			case TimeframeMondayWeek:
				daily[i].MondayWeek = link
			case TimeframeExpiryWeek:
				daily[i].ExpiryWeek = link
			case TimeframeMonth:
				daily[i].Month = link
			case TimeframeYear:
				daily[i].Year = link
			}
		}
	}
	return daily, nil
}
