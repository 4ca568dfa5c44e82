package domain

import (
	"time"
)

// Bar is the input contract for one ticker's daily OHLCV bar as delivered by
// the storage tier. Date is a pure calendar date (UTC midnight, no time
// component); one bar per ticker per date.
type Bar struct {
	Date         time.Time `json:"date" validate:"required"`
	Ticker       string    `json:"ticker" validate:"required,min=1,max=12"`
	Open         float64   `json:"open" validate:"min=0"`
	High         float64   `json:"high" validate:"min=0"`
	Low          float64   `json:"low" validate:"min=0"`
	Close        float64   `json:"close" validate:"required,gt=0"`
	Volume       float64   `json:"volume" validate:"min=0"`
	OpenInterest *float64  `json:"open_interest,omitempty"`
}

// DateKey returns the canonical yyyy-mm-dd form of the bar date.
func (b Bar) DateKey() string {
	return b.Date.Format("2006-01-02")
}

// NormalizeDate strips any time-of-day component, anchoring the bar at UTC
// midnight.
func (b *Bar) NormalizeDate() {
	y, m, d := b.Date.Date()
	b.Date = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
