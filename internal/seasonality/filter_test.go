package seasonality

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"szncli/pkg/contracts/domain"
)

func filterFixture(t *testing.T) []DailyRecord {
	t.Helper()
	bars := []domain.Bar{
		bar(day(2023, time.June, 5), 100),  // Mon
		bar(day(2023, time.June, 6), 102),  // Tue, +2%
		bar(day(2023, time.June, 7), 101),  // Wed, -0.98%
		bar(day(2024, time.June, 3), 105),  // Mon
		bar(day(2024, time.June, 4), 103),  // Tue
		bar(day(2024, time.July, 1), 110),  // Mon
	}
	daily, err := NormalizeDaily(bars)
	require.NoError(t, err)
	return AnnotateDailyReturns(daily)
}

func TestFilterYearMonthWeekday(t *testing.T) {
	daily := filterFixture(t)

	got := ApplyFilter(FilterConfig{Years: []int{2024}}, daily)
	require.Len(t, got, 3)
	for _, d := range got {
		assert.Equal(t, 2024, d.Date.Year())
	}

	got = ApplyFilter(FilterConfig{Months: []time.Month{time.July}}, daily)
	require.Len(t, got, 1)
	assert.Equal(t, day(2024, time.July, 1), got[0].Date)

	got = ApplyFilter(FilterConfig{Weekdays: []time.Weekday{time.Monday}}, daily)
	require.Len(t, got, 3)
}

func TestFilterDirection(t *testing.T) {
	daily := filterFixture(t)

	pos := ApplyFilter(FilterConfig{Direction: DirectionPositive}, daily)
	for _, d := range pos {
		require.NotNil(t, d.PositiveDay)
		assert.True(t, *d.PositiveDay)
	}

	neg := ApplyFilter(FilterConfig{Direction: DirectionNegative}, daily)
	for _, d := range neg {
		require.NotNil(t, d.PositiveDay)
		assert.False(t, *d.PositiveDay)
	}

	// Records without a return (series head) match neither direction.
	assert.Len(t, pos, 3)
	assert.Len(t, neg, 2)
}

func TestFilterParityAndLeapAndDecade(t *testing.T) {
	daily := filterFixture(t)

	even := ApplyFilter(FilterConfig{YearParity: ParityEven}, daily)
	for _, d := range even {
		assert.Equal(t, 0, d.Date.Year()%2)
	}
	require.Len(t, even, 3)

	leap := ApplyFilter(FilterConfig{LeapYearsOnly: true}, daily)
	require.Len(t, leap, 3) // 2024 only

	decade := ApplyFilter(FilterConfig{DecadeDigits: []int{3}}, daily)
	require.Len(t, decade, 3) // 2023 only

	dayParity := ApplyFilter(FilterConfig{DayParity: ParityOdd}, daily)
	for _, d := range dayParity {
		assert.Equal(t, 1, d.Date.Day()%2)
	}
}

func TestFilterPreservesOrderAndSource(t *testing.T) {
	daily := filterFixture(t)
	src := make([]DailyRecord, len(daily))
	copy(src, daily)

	got := ApplyFilter(FilterConfig{Weekdays: []time.Weekday{time.Monday, time.Tuesday}}, daily)
	for i := 1; i < len(got); i++ {
		assert.True(t, got[i-1].Date.Before(got[i].Date))
	}
	assert.Equal(t, src, daily, "filtering must not mutate the source")
}

func TestFilterIdempotent(t *testing.T) {
	daily := filterFixture(t)
	cfg := FilterConfig{
		Years:      []int{2023, 2024},
		Weekdays:   []time.Weekday{time.Monday, time.Tuesday},
		YearParity: ParityAny,
	}

	once := ApplyFilter(cfg, daily)
	twice := ApplyFilter(cfg, once)
	assert.Equal(t, once, twice)
}

func TestFilterOutlierRejectionIdempotent(t *testing.T) {
	// Returns: nil, 0, 0, 0, 0, +5, +10. A single rejection pass drops only
	// the +10 record; the recomputed bounds then exclude +5 as well, so the
	// fixed point must run the second round itself.
	closes := []float64{100, 100, 100, 100, 100, 105, 115.5}
	bars := make([]domain.Bar, len(closes))
	for i, c := range closes {
		bars[i] = bar(day(2024, time.April, 1+i), c)
	}
	daily, err := NormalizeDaily(bars)
	require.NoError(t, err)
	daily = AnnotateDailyReturns(daily)

	cfg := FilterConfig{
		Outlier: &OutlierConfig{Method: OutlierZScore, ZThreshold: 1.5},
	}

	once := ApplyFilter(cfg, daily)
	require.Len(t, once, 5)
	for _, d := range once {
		if d.ReturnPercentage != nil {
			assert.Zero(t, *d.ReturnPercentage)
		}
	}

	twice := ApplyFilter(cfg, once)
	assert.Equal(t, once, twice)
}

func TestFilterOutliersAfterSelection(t *testing.T) {
	// Returns: nil, +1, +1, -1, +1, +50 (the spike).
	closes := []float64{100, 101, 102.01, 100.99, 102, 153}
	bars := make([]domain.Bar, len(closes))
	for i, c := range closes {
		bars[i] = bar(day(2024, time.April, 1+i), c)
	}
	daily, err := NormalizeDaily(bars)
	require.NoError(t, err)
	daily = AnnotateDailyReturns(daily)

	got := ApplyFilter(FilterConfig{
		Outlier: &OutlierConfig{Method: OutlierZScore, ZThreshold: 1.5},
	}, daily)

	for _, d := range got {
		if d.ReturnPercentage != nil {
			assert.Less(t, *d.ReturnPercentage, 50.0)
		}
	}
	// The head record has no return and can never be an outlier.
	assert.Equal(t, daily[0].Date, got[0].Date)
	assert.Len(t, got, 5)
}

func TestFilterOutliersIQR(t *testing.T) {
	closes := []float64{100, 101, 102, 103, 104, 105, 106, 160}
	bars := make([]domain.Bar, len(closes))
	for i, c := range closes {
		bars[i] = bar(day(2024, time.April, 1+i), c)
	}
	daily, err := NormalizeDaily(bars)
	require.NoError(t, err)
	daily = AnnotateDailyReturns(daily)

	got := ApplyFilter(FilterConfig{
		Outlier: &OutlierConfig{Method: OutlierIQR},
	}, daily)

	require.Len(t, got, 7)
	for _, d := range got {
		if d.ReturnPercentage != nil {
			assert.Less(t, *d.ReturnPercentage, 50.0)
		}
	}
}

func TestQuartilesInterpolateBetweenRanks(t *testing.T) {
	q1, q3 := quartiles([]float64{1, 2, 3, 100})
	assert.InDelta(t, 1.75, q1, 1e-9)
	assert.InDelta(t, 27.25, q3, 1e-9)

	// Exact ranks need no interpolation.
	q1, q3 = quartiles([]float64{1, 2, 3, 4, 5})
	assert.InDelta(t, 2.0, q1, 1e-9)
	assert.InDelta(t, 4.0, q3, 1e-9)
}

func TestFilterZeroConfigSelectsAll(t *testing.T) {
	daily := filterFixture(t)
	var cfg FilterConfig
	assert.True(t, cfg.IsZero())
	assert.Len(t, ApplyFilter(cfg, daily), len(daily))
}
