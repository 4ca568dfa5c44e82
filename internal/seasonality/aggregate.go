package seasonality

import (
	"time"
)

// PeriodKey returns the canonical start date identifying the period a daily
// record belongs to in the given timeframe.
//
// Monday-week: the Monday on/before the date (weeks run Mon-Sun).
// Expiry-week: the Friday strictly after the date for bars dated on a Friday,
// the Friday on/after the date otherwise. Buckets therefore run Friday
// through Thursday and are keyed by the expiry Friday that closes them; a
// Friday bar opens the next bucket rather than expiring into its own.
// Month: first day of the calendar month. Year: January 1st.
func PeriodKey(tf Timeframe, date time.Time) time.Time {
	switch tf {
	case TimeframeMondayWeek:
		return date.AddDate(0, 0, -mondayWeekday(date))
	case TimeframeExpiryWeek:
		const friday = 4 // Monday=0 convention
		offset := (friday - mondayWeekday(date) + 7) % 7
		if offset == 0 {
			offset = 7
		}
		return date.AddDate(0, 0, offset)
	case TimeframeMonth:
		return time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, time.UTC)
	case TimeframeYear:
		return time.Date(date.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	default:
		return date
	}
}

// AggregatePeriods collapses a date-ordered daily sequence into one
// PeriodRecord per period key, in ascending key order. OHLCV fields follow
// the fixed reduction: open=first, high=max, low=min, close=last, volume=sum,
// openInterest=last.
func AggregatePeriods(daily []DailyRecord, tf Timeframe) []PeriodRecord {
	if len(daily) == 0 {
		return nil
	}

	var periods []PeriodRecord
	index := make(map[time.Time]int, len(daily)/4+1)

	for _, d := range daily {
		key := PeriodKey(tf, d.Date)
		i, ok := index[key]
		if !ok {
			periods = append(periods, PeriodRecord{
				StartDate: key,
				Ticker:    d.Ticker,
				Timeframe: tf,
				Open:      d.Open,
				High:      d.High,
				Low:       d.Low,
				Close:     d.Close,
				Volume:    d.Volume,
				YearEven:  key.Year()%2 == 0,
				MonthEven: int(key.Month())%2 == 0,
			})
			i = len(periods) - 1
			index[key] = i
		} else {
			p := &periods[i]
			if d.High > p.High {
				p.High = d.High
			}
			if d.Low < p.Low {
				p.Low = d.Low
			}
			p.Close = d.Close
			p.Volume += d.Volume
		}
		p := &periods[i]
		p.TradingDays++
		if d.OpenInterest != nil {
			p.OpenInterest = floatPtr(*d.OpenInterest)
		}
	}

	// Insertion order equals chronological order for sorted input, and
	// every later bar of a period keeps updating the same record, so the
	// slice is already in ascending key order for the three calendar
	// timeframes. Expiry weeks are keyed ahead of their bars but grouping
	// preserves monotonicity there too.
	return periods
}
