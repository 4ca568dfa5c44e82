package seasonality

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"szncli/pkg/contracts/domain"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func bar(date time.Time, close float64) domain.Bar {
	return domain.Bar{
		Date:   date,
		Ticker: "TASC",
		Open:   close - 0.5,
		High:   close + 1,
		Low:    close - 1,
		Close:  close,
		Volume: 1000,
	}
}

func TestNormalizeDailySortsUnsortedInput(t *testing.T) {
	bars := []domain.Bar{
		bar(day(2024, time.January, 3), 102),
		bar(day(2024, time.January, 1), 100),
		bar(day(2024, time.January, 2), 101),
	}

	records, err := NormalizeDaily(bars)
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, day(2024, time.January, 1), records[0].Date)
	assert.Equal(t, day(2024, time.January, 2), records[1].Date)
	assert.Equal(t, day(2024, time.January, 3), records[2].Date)

	// Input slice untouched.
	assert.Equal(t, day(2024, time.January, 3), bars[0].Date)
}

func TestNormalizeDailyRejectsDuplicates(t *testing.T) {
	bars := []domain.Bar{
		bar(day(2024, time.January, 1), 100),
		bar(day(2024, time.January, 1), 101),
	}

	_, err := NormalizeDaily(bars)
	var dup *DuplicateDateError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, day(2024, time.January, 1), dup.Date)
}

func TestNormalizeDailyRejectsInvalidBars(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.Bar)
	}{
		{"zero_close", func(b *domain.Bar) { b.Close = 0 }},
		{"negative_close", func(b *domain.Bar) { b.Close = -1 }},
		{"missing_date", func(b *domain.Bar) { b.Date = time.Time{} }},
		{"missing_ticker", func(b *domain.Bar) { b.Ticker = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := bar(day(2024, time.January, 1), 100)
			tt.mutate(&b)

			_, err := NormalizeDaily([]domain.Bar{b})
			var invalid *InvalidBarError
			assert.ErrorAs(t, err, &invalid)
		})
	}
}

func TestNormalizeDailyCalendarFields(t *testing.T) {
	// 2024 is a leap year: Dec 31 is ordinal day 366.
	records, err := NormalizeDaily([]domain.Bar{
		bar(day(2024, time.December, 30), 100), // Monday
		bar(day(2024, time.December, 31), 101), // Tuesday
	})
	require.NoError(t, err)

	assert.Equal(t, 0, records[0].Weekday) // Monday=0 convention
	assert.Equal(t, "Monday", records[0].WeekdayName)
	assert.Equal(t, 1, records[1].Weekday)
	assert.Equal(t, 31, records[1].CalendarMonthDay)
	assert.Equal(t, 366, records[1].CalendarYearDay)
	assert.True(t, records[1].CalendarYearDayEven)
	assert.True(t, records[1].YearEven)
	assert.True(t, records[1].MonthEven)
}

func TestNormalizeDailyTradingCounters(t *testing.T) {
	records, err := NormalizeDaily([]domain.Bar{
		bar(day(2023, time.December, 28), 100),
		bar(day(2023, time.December, 29), 101),
		bar(day(2024, time.January, 2), 102),
		bar(day(2024, time.January, 3), 103),
		bar(day(2024, time.February, 1), 104),
	})
	require.NoError(t, err)

	// First record of the series has no trailing context.
	assert.Nil(t, records[0].TradingMonthDay)
	assert.Nil(t, records[0].TradingYearDay)
	assert.Nil(t, records[0].TradingMonthDayEven)

	// Same month as an unanchored counter: still nil.
	assert.Nil(t, records[1].TradingMonthDay)
	assert.Nil(t, records[1].TradingYearDay)

	// New month and new year reset to 1 over trading days only.
	require.NotNil(t, records[2].TradingMonthDay)
	assert.Equal(t, 1, *records[2].TradingMonthDay)
	require.NotNil(t, records[2].TradingYearDay)
	assert.Equal(t, 1, *records[2].TradingYearDay)

	assert.Equal(t, 2, *records[3].TradingMonthDay)
	assert.Equal(t, 2, *records[3].TradingYearDay)
	require.NotNil(t, records[3].TradingMonthDayEven)
	assert.True(t, *records[3].TradingMonthDayEven)

	// February 1st resets the month counter but not the year counter.
	assert.Equal(t, 1, *records[4].TradingMonthDay)
	assert.Equal(t, 3, *records[4].TradingYearDay)
}

func TestNormalizeDailyEmptyInput(t *testing.T) {
	records, err := NormalizeDaily(nil)
	require.NoError(t, err)
	assert.Nil(t, records)
}
