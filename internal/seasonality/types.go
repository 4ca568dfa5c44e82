package seasonality

import (
	"time"
)

// Timeframe selects which derived sequence an analysis runs over.
type Timeframe string

const (
	// TimeframeDaily is the normalized daily sequence.
	TimeframeDaily Timeframe = "daily"
	// TimeframeMondayWeek is the Monday-anchored calendar week (Mon-Sun).
	TimeframeMondayWeek Timeframe = "monday-week"
	// TimeframeExpiryWeek is the Friday-anchored expiry week (Fri-Thu,
	// keyed by the expiry Friday that closes the bucket).
	TimeframeExpiryWeek Timeframe = "expiry-week"
	// TimeframeMonth is the calendar month.
	TimeframeMonth Timeframe = "month"
	// TimeframeYear is the calendar year.
	TimeframeYear Timeframe = "year"
)

// String returns the string representation of the timeframe.
func (tf Timeframe) String() string { return string(tf) }

// IsValid reports whether the timeframe is one of the five supported values.
func (tf Timeframe) IsValid() bool {
	switch tf {
	case TimeframeDaily, TimeframeMondayWeek, TimeframeExpiryWeek, TimeframeMonth, TimeframeYear:
		return true
	}
	return false
}

// PeriodTimeframes lists the four aggregate timeframes in linking order.
var PeriodTimeframes = []Timeframe{TimeframeMondayWeek, TimeframeExpiryWeek, TimeframeMonth, TimeframeYear}

// DailyRecord is one trading day with calendar annotations, period-over-period
// returns and, after linking, the enclosing period returns for every aggregate
// timeframe. Pointer fields stay nil when the value has no trailing context
// (first record of the series, first period of a sequence).
type DailyRecord struct {
	Date   time.Time `json:"date"`
	Ticker string    `json:"ticker"`

	Open         float64  `json:"open"`
	High         float64  `json:"high"`
	Low          float64  `json:"low"`
	Close        float64  `json:"close"`
	Volume       float64  `json:"volume"`
	OpenInterest *float64 `json:"open_interest,omitempty"`

	// Calendar position. Weekday uses the Monday=0 convention internally;
	// WeekdayName carries the display form.
	Weekday          int    `json:"weekday"`
	WeekdayName      string `json:"weekday_name"`
	CalendarMonthDay int    `json:"calendar_month_day"`
	CalendarYearDay  int    `json:"calendar_year_day"`

	// Trading-sequence counters, reset at calendar month/year boundaries
	// counted over trading days only. Nil until the first boundary after
	// the series start.
	TradingMonthDay *int `json:"trading_month_day,omitempty"`
	TradingYearDay  *int `json:"trading_year_day,omitempty"`

	// Parity flags over the integer fields they annotate.
	YearEven             bool  `json:"year_even"`
	MonthEven            bool  `json:"month_even"`
	CalendarMonthDayEven bool  `json:"calendar_month_day_even"`
	CalendarYearDayEven  bool  `json:"calendar_year_day_even"`
	TradingMonthDayEven  *bool `json:"trading_month_day_even,omitempty"`
	TradingYearDayEven   *bool `json:"trading_year_day_even,omitempty"`

	// Day-over-day returns. Nil on the first record of the series.
	ReturnPoints     *float64 `json:"return_points,omitempty"`
	ReturnPercentage *float64 `json:"return_percentage,omitempty"`
	PositiveDay      *bool    `json:"positive_day,omitempty"`

	// Enclosing-period annotations, populated by the linker.
	MondayWeek *PeriodLink `json:"monday_week,omitempty"`
	ExpiryWeek *PeriodLink `json:"expiry_week,omitempty"`
	Month      *PeriodLink `json:"month,omitempty"`
	Year       *PeriodLink `json:"year,omitempty"`
}

// PeriodLink carries the return annotations of a daily record's enclosing
// period. When the period itself is the first of its sequence the return
// fields are inherited as nil, not zero.
type PeriodLink struct {
	StartDate         time.Time `json:"start_date"`
	ReturnPoints      *float64  `json:"return_points,omitempty"`
	ReturnPercentage  *float64  `json:"return_percentage,omitempty"`
	Positive          *bool     `json:"positive,omitempty"`
	WeekNumberMonthly *int      `json:"week_number_monthly,omitempty"`
	WeekNumberYearly  *int      `json:"week_number_yearly,omitempty"`
}

// PeriodRecord is one aggregated week, month or year. OHLCV fields are reduced
// over the constituent daily bars: open=first, high=max, low=min, close=last,
// volume=sum, openInterest=last.
type PeriodRecord struct {
	StartDate time.Time `json:"start_date"`
	Ticker    string    `json:"ticker"`
	Timeframe Timeframe `json:"timeframe"`

	Open         float64  `json:"open"`
	High         float64  `json:"high"`
	Low          float64  `json:"low"`
	Close        float64  `json:"close"`
	Volume       float64  `json:"volume"`
	OpenInterest *float64 `json:"open_interest,omitempty"`

	TradingDays int `json:"trading_days"`

	// Period-over-period returns. Nil on the first period of the sequence.
	ReturnPoints     *float64 `json:"return_points,omitempty"`
	ReturnPercentage *float64 `json:"return_percentage,omitempty"`
	Positive         *bool    `json:"positive,omitempty"`

	YearEven  bool `json:"year_even"`
	MonthEven bool `json:"month_even"`

	// Week-number counters, weekly timeframes only. Reset at calendar
	// month/year boundaries of the period key; nil until the first
	// boundary after the sequence start.
	WeekNumberMonthly     *int  `json:"week_number_monthly,omitempty"`
	WeekNumberYearly      *int  `json:"week_number_yearly,omitempty"`
	WeekNumberMonthlyEven *bool `json:"week_number_monthly_even,omitempty"`
	WeekNumberYearlyEven  *bool `json:"week_number_yearly_even,omitempty"`
}

// record is the common view the filter engine needs from either sequence.
type record interface {
	recordDate() time.Time
	returnPct() *float64
	positive() *bool
	weekNumbers() (monthly, yearly *int)
}

func (r DailyRecord) recordDate() time.Time { return r.Date }
func (r DailyRecord) returnPct() *float64   { return r.ReturnPercentage }
func (r DailyRecord) positive() *bool       { return r.PositiveDay }
func (r DailyRecord) weekNumbers() (*int, *int) {
	return nil, nil
}

func (r PeriodRecord) recordDate() time.Time { return r.StartDate }
func (r PeriodRecord) returnPct() *float64   { return r.ReturnPercentage }
func (r PeriodRecord) positive() *bool       { return r.Positive }
func (r PeriodRecord) weekNumbers() (*int, *int) {
	return r.WeekNumberMonthly, r.WeekNumberYearly
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }
func boolPtr(v bool) *bool        { return &v }
