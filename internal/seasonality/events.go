package seasonality

import (
	"sort"
	"time"
)

// EntryTiming picks the price an event trade enters at.
type EntryTiming string

const (
	// EntryCloseBeforeAnchor enters at the close of the trading day before
	// the anchor. Default.
	EntryCloseBeforeAnchor EntryTiming = "close-before-anchor"
	// EntryCloseAtAnchor enters at the anchor day's own close.
	EntryCloseAtAnchor EntryTiming = "close-at-anchor"
)

// ExitTiming picks the price an event trade exits at.
type ExitTiming string

const (
	// ExitCloseAfterWindow exits at the close HalfWidth trading days after
	// the anchor. Default and currently only policy.
	ExitCloseAfterWindow ExitTiming = "close-after-window"
)

// EventConfig drives an event-window analysis around recurring anchor dates
// (holidays, expiries, announcements).
type EventConfig struct {
	Anchors   []time.Time `json:"anchors" validate:"required,min=1"`
	HalfWidth int         `json:"half_width" validate:"required,min=1,max=60"`
	Entry     EntryTiming `json:"entry,omitempty" validate:"omitempty,oneof=close-before-anchor close-at-anchor"`
	Exit      ExitTiming  `json:"exit,omitempty" validate:"omitempty,oneof=close-after-window"`
}

// EventOccurrence is one anchor's resolved T-N..T+N window. Returns has
// 2N+1 entries for offsets -N..+N; entries stay nil where the series lacks
// history instead of being padded with zeros.
type EventOccurrence struct {
	Anchor      time.Time  `json:"anchor"`
	TradingDate time.Time  `json:"trading_date"`
	Returns     []*float64 `json:"returns"`
	EntryPrice  *float64   `json:"entry_price,omitempty"`
	ExitPrice   *float64   `json:"exit_price,omitempty"`
	// WindowReturn is the entry-to-exit percentage return, nil when either
	// leg falls outside the series.
	WindowReturn *float64 `json:"window_return,omitempty"`
}

// EventCurvePoint is the average return across occurrences at one relative
// offset, with the number of occurrences that had history at that offset.
// The count shrinks toward the window edges.
type EventCurvePoint struct {
	Offset      int     `json:"offset"`
	AvgReturn   float64 `json:"avg_return"`
	Occurrences int     `json:"occurrences"`
}

// EventResult is the full output of an event-window request.
type EventResult struct {
	Curve       []EventCurvePoint `json:"curve"`
	Occurrences []EventOccurrence `json:"occurrences"`
	Stats       StatisticsResult  `json:"stats"`
}

// AnalyzeEventWindows extracts a fixed window of daily returns around each
// anchor and averages across occurrences. Anchors falling on non-trading
// days resolve to the next trading day on/after the anchor; anchors beyond
// the series, and occurrences with no in-range offset at all, are dropped.
func AnalyzeEventWindows(daily []DailyRecord, cfg EventConfig) *EventResult {
	n := cfg.HalfWidth
	entry := cfg.Entry
	if entry == "" {
		entry = EntryCloseBeforeAnchor
	}

	anchors := make([]time.Time, len(cfg.Anchors))
	copy(anchors, cfg.Anchors)
	sort.Slice(anchors, func(i, j int) bool { return anchors[i].Before(anchors[j]) })

	var occurrences []EventOccurrence
	for _, anchor := range anchors {
		idx := searchTradingDay(daily, anchor)
		if idx < 0 {
			continue
		}

		occ := EventOccurrence{
			Anchor:      anchor,
			TradingDate: daily[idx].Date,
			Returns:     make([]*float64, 2*n+1),
		}
		available := 0
		for k := -n; k <= n; k++ {
			j := idx + k
			if j < 0 || j >= len(daily) || daily[j].ReturnPercentage == nil {
				continue
			}
			occ.Returns[k+n] = floatPtr(*daily[j].ReturnPercentage)
			available++
		}
		if available == 0 {
			continue
		}

		entryIdx := idx
		if entry == EntryCloseBeforeAnchor {
			entryIdx = idx - 1
		}
		exitIdx := idx + n
		if entryIdx >= 0 && entryIdx < len(daily) {
			occ.EntryPrice = floatPtr(daily[entryIdx].Close)
		}
		if exitIdx < len(daily) {
			occ.ExitPrice = floatPtr(daily[exitIdx].Close)
		}
		if occ.EntryPrice != nil && occ.ExitPrice != nil && *occ.EntryPrice != 0 {
			occ.WindowReturn = floatPtr(roundPct((*occ.ExitPrice - *occ.EntryPrice) / *occ.EntryPrice * 100))
		}

		occurrences = append(occurrences, occ)
	}

	curve := make([]EventCurvePoint, 2*n+1)
	for k := -n; k <= n; k++ {
		point := EventCurvePoint{Offset: k}
		sum := 0.0
		for _, occ := range occurrences {
			if r := occ.Returns[k+n]; r != nil {
				sum += *r
				point.Occurrences++
			}
		}
		if point.Occurrences > 0 {
			point.AvgReturn = sum / float64(point.Occurrences)
		}
		curve[k+n] = point
	}

	var windowReturns []float64
	var firstDate, lastDate time.Time
	for _, occ := range occurrences {
		if occ.WindowReturn == nil {
			continue
		}
		windowReturns = append(windowReturns, *occ.WindowReturn)
		if firstDate.IsZero() {
			firstDate = occ.TradingDate
		}
		lastDate = occ.TradingDate
	}

	return &EventResult{
		Curve:       curve,
		Occurrences: occurrences,
		Stats:       Summarize(windowReturns, firstDate, lastDate, 0),
	}
}

// searchTradingDay returns the index of the first record on/after date, or -1
// when the date falls after the series end.
func searchTradingDay(daily []DailyRecord, date time.Time) int {
	i := sort.Search(len(daily), func(i int) bool {
		return !daily[i].Date.Before(date)
	})
	if i == len(daily) {
		return -1
	}
	return i
}
