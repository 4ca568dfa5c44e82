package seasonality

import (
	"math"
	"sort"
	"time"

	"szncli/pkg/contracts/domain"
)

// NormalizeDaily sorts one ticker's bars ascending by date, validates them and
// derives the calendar annotations of a DailyRecord. Returns and linkage
// fields are filled by later stages.
//
// The input slice is never mutated; bars may arrive unsorted. Validation is
// batch-fatal: the first malformed bar or duplicate date rejects the whole
// input.
func NormalizeDaily(bars []domain.Bar) ([]DailyRecord, error) {
	if len(bars) == 0 {
		return nil, nil
	}

	sorted := make([]domain.Bar, len(bars))
	copy(sorted, bars)
	for i := range sorted {
		sorted[i].NormalizeDate()
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	for i, b := range sorted {
		if err := validateBar(b); err != nil {
			return nil, err
		}
		if i > 0 && b.Date.Equal(sorted[i-1].Date) {
			return nil, &DuplicateDateError{Ticker: b.Ticker, Date: b.Date}
		}
	}

	records := make([]DailyRecord, len(sorted))
	var tradingMonthDay, tradingYearDay *int

	for i, b := range sorted {
		wd := mondayWeekday(b.Date)
		yearDay := b.Date.YearDay()

		// Trading counters anchor on the first month/year boundary after
		// the series start; the very first record has no trailing context
		// and stays nil.
		if i > 0 {
			prev := sorted[i-1].Date
			switch {
			case b.Date.Month() != prev.Month() || b.Date.Year() != prev.Year():
				tradingMonthDay = intPtr(1)
			case tradingMonthDay != nil:
				tradingMonthDay = intPtr(*tradingMonthDay + 1)
			}
			switch {
			case b.Date.Year() != prev.Year():
				tradingYearDay = intPtr(1)
			case tradingYearDay != nil:
				tradingYearDay = intPtr(*tradingYearDay + 1)
			}
		}

		rec := DailyRecord{
			Date:             b.Date,
			Ticker:           b.Ticker,
			Open:             b.Open,
			High:             b.High,
			Low:              b.Low,
			Close:            b.Close,
			Volume:           b.Volume,
			Weekday:          wd,
			WeekdayName:      b.Date.Weekday().String(),
			CalendarMonthDay: b.Date.Day(),
			CalendarYearDay:  yearDay,
			TradingMonthDay:  tradingMonthDay,
			TradingYearDay:   tradingYearDay,

			YearEven:             b.Date.Year()%2 == 0,
			MonthEven:            int(b.Date.Month())%2 == 0,
			CalendarMonthDayEven: b.Date.Day()%2 == 0,
			CalendarYearDayEven:  yearDay%2 == 0,
		}
		if b.OpenInterest != nil {
			rec.OpenInterest = floatPtr(*b.OpenInterest)
		}
		if tradingMonthDay != nil {
			rec.TradingMonthDayEven = boolPtr(*tradingMonthDay%2 == 0)
		}
		if tradingYearDay != nil {
			rec.TradingYearDayEven = boolPtr(*tradingYearDay%2 == 0)
		}
		records[i] = rec
	}

	return records, nil
}

func validateBar(b domain.Bar) error {
	switch {
	case b.Date.IsZero():
		return &InvalidBarError{Ticker: b.Ticker, Reason: "missing date"}
	case b.Ticker == "":
		return &InvalidBarError{Date: b.Date, Reason: "missing ticker"}
	case b.Close <= 0:
		return &InvalidBarError{Ticker: b.Ticker, Date: b.Date, Reason: "close must be positive"}
	case hasNaN(b.Open, b.High, b.Low, b.Close, b.Volume):
		return &InvalidBarError{Ticker: b.Ticker, Date: b.Date, Reason: "non-finite price field"}
	}
	return nil
}

func hasNaN(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return true
		}
	}
	return false
}

// mondayWeekday maps time.Weekday onto the Monday=0..Sunday=6 convention used
// throughout the engine.
func mondayWeekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}
