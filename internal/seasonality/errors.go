package seasonality

import (
	"fmt"
	"time"
)

// InvalidBarError rejects a whole input batch when a bar is malformed:
// missing required fields or a non-positive close. Fatal before any
// computation, since partial aggregation over invalid data would poison
// downstream periods.
type InvalidBarError struct {
	Ticker string
	Date   time.Time
	Reason string
}

func (e *InvalidBarError) Error() string {
	if e.Date.IsZero() {
		return fmt.Sprintf("invalid bar for %s: %s", e.Ticker, e.Reason)
	}
	return fmt.Sprintf("invalid bar for %s on %s: %s", e.Ticker, e.Date.Format("2006-01-02"), e.Reason)
}

// DuplicateDateError rejects an input batch containing two bars on the same
// calendar date. Fatal for the same reason as InvalidBarError.
type DuplicateDateError struct {
	Ticker string
	Date   time.Time
}

func (e *DuplicateDateError) Error() string {
	return fmt.Sprintf("duplicate bar for %s on %s", e.Ticker, e.Date.Format("2006-01-02"))
}

// LinkageError signals a cross-timeframe key that has no matching period
// record. The aggregator guarantees every daily bar maps to exactly one
// period, so this is a programming-error signal, not a user-facing condition.
type LinkageError struct {
	Timeframe Timeframe
	Date      time.Time
	Key       time.Time
}

func (e *LinkageError) Error() string {
	return fmt.Sprintf("no %s period found for daily record %s (key %s)",
		e.Timeframe, e.Date.Format("2006-01-02"), e.Key.Format("2006-01-02"))
}

// InsufficientDataError is the non-fatal reason a single metric could not be
// computed. It is surfaced inside StatisticsResult omissions rather than
// aborting the response.
type InsufficientDataError struct {
	Metric string
	Reason string
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("cannot compute %s: %s", e.Metric, e.Reason)
}
