package seasonality

import (
	"math"
	"sort"
	"time"
)

// Parity selects even/odd membership on an integer calendar field.
type Parity string

const (
	ParityAny  Parity = ""
	ParityEven Parity = "even"
	ParityOdd  Parity = "odd"
)

func (p Parity) matches(v int) bool {
	switch p {
	case ParityEven:
		return v%2 == 0
	case ParityOdd:
		return v%2 != 0
	default:
		return true
	}
}

// Direction selects records by the sign of their return.
type Direction string

const (
	DirectionAny      Direction = ""
	DirectionPositive Direction = "positive"
	DirectionNegative Direction = "negative"
)

// OutlierMethod picks how outlier bounds are derived.
type OutlierMethod string

const (
	// OutlierZScore rejects |z| > ZThreshold where z is computed over the
	// retained series.
	OutlierZScore OutlierMethod = "zscore"
	// OutlierIQR rejects values outside Q1-k*IQR .. Q3+k*IQR.
	OutlierIQR OutlierMethod = "iqr"
)

// OutlierConfig trims extreme returns from the retained set. Bounds are
// always computed over the population that survived the selection predicates,
// not the raw series.
type OutlierConfig struct {
	Method        OutlierMethod `json:"method" yaml:"method" validate:"required,oneof=zscore iqr"`
	ZThreshold    float64       `json:"z_threshold,omitempty" yaml:"z_threshold" validate:"omitempty,gt=0"`
	IQRMultiplier float64       `json:"iqr_multiplier,omitempty" yaml:"iqr_multiplier" validate:"omitempty,gt=0"`
}

// FilterConfig is a set of independent, AND-composed predicates applied to an
// annotated sequence before statistics are computed. The zero value selects
// everything. Stateless; construct per request.
type FilterConfig struct {
	Years    []int          `json:"years,omitempty" yaml:"years"`
	Months   []time.Month   `json:"months,omitempty" yaml:"months" validate:"dive,min=1,max=12"`
	Weekdays []time.Weekday `json:"weekdays,omitempty" yaml:"weekdays" validate:"dive,min=0,max=6"`

	Direction Direction `json:"direction,omitempty" yaml:"direction" validate:"omitempty,oneof=positive negative"`

	YearParity       Parity `json:"year_parity,omitempty" yaml:"year_parity" validate:"omitempty,oneof=even odd"`
	MonthParity      Parity `json:"month_parity,omitempty" yaml:"month_parity" validate:"omitempty,oneof=even odd"`
	DayParity        Parity `json:"day_parity,omitempty" yaml:"day_parity" validate:"omitempty,oneof=even odd"`
	WeekNumberParity Parity `json:"week_number_parity,omitempty" yaml:"week_number_parity" validate:"omitempty,oneof=even odd"`

	LeapYearsOnly bool  `json:"leap_years_only,omitempty" yaml:"leap_years_only"`
	DecadeDigits  []int `json:"decade_digits,omitempty" yaml:"decade_digits" validate:"dive,min=0,max=9"`

	Outlier *OutlierConfig `json:"outlier,omitempty" yaml:"outlier"`
}

// IsZero reports whether the config selects every record unchanged.
func (c FilterConfig) IsZero() bool {
	return len(c.Years) == 0 && len(c.Months) == 0 && len(c.Weekdays) == 0 &&
		c.Direction == DirectionAny &&
		c.YearParity == ParityAny && c.MonthParity == ParityAny &&
		c.DayParity == ParityAny && c.WeekNumberParity == ParityAny &&
		!c.LeapYearsOnly && len(c.DecadeDigits) == 0 && c.Outlier == nil
}

// ApplyFilter evaluates the config against a sequence and returns the
// retained subsequence in original order. Source records are never mutated.
// Selection predicates run first; outlier rejection runs last, over the
// already-retained population, because its bounds are defined relative to the
// retained set.
func ApplyFilter[T record](cfg FilterConfig, recs []T) []T {
	selected := make([]T, 0, len(recs))
	for _, r := range recs {
		if cfg.selects(r) {
			selected = append(selected, r)
		}
	}
	if cfg.Outlier == nil {
		return selected
	}
	return rejectOutliers(*cfg.Outlier, selected)
}

func (c FilterConfig) selects(r record) bool {
	date := r.recordDate()

	if len(c.Years) > 0 && !containsInt(c.Years, date.Year()) {
		return false
	}
	if len(c.Months) > 0 && !containsMonth(c.Months, date.Month()) {
		return false
	}
	if len(c.Weekdays) > 0 && !containsWeekday(c.Weekdays, date.Weekday()) {
		return false
	}
	if c.Direction != DirectionAny {
		pos := r.positive()
		if pos == nil {
			return false
		}
		if c.Direction == DirectionPositive && !*pos {
			return false
		}
		if c.Direction == DirectionNegative && *pos {
			return false
		}
	}
	if !c.YearParity.matches(date.Year()) {
		return false
	}
	if !c.MonthParity.matches(int(date.Month())) {
		return false
	}
	if !c.DayParity.matches(date.Day()) {
		return false
	}
	if c.WeekNumberParity != ParityAny {
		monthly, _ := r.weekNumbers()
		if monthly == nil || !c.WeekNumberParity.matches(*monthly) {
			return false
		}
	}
	if c.LeapYearsOnly && !isLeapYear(date.Year()) {
		return false
	}
	if len(c.DecadeDigits) > 0 && !containsInt(c.DecadeDigits, date.Year()%10) {
		return false
	}
	return true
}

// rejectOutliers drops records whose return percentage falls outside the
// configured bounds. Bounds shift once extremes are removed, so rejection
// repeats over the survivors until no record falls outside them. The fixed
// point makes filtering idempotent: re-applying the same config to its own
// output drops nothing further.
func rejectOutliers[T record](cfg OutlierConfig, recs []T) []T {
	for {
		kept := rejectOutliersOnce(cfg, recs)
		if len(kept) == len(recs) {
			return kept
		}
		recs = kept
	}
}

// rejectOutliersOnce applies one round of bounds computed over recs. Records
// without a return (first of sequence) cannot be outliers and are always
// retained.
func rejectOutliersOnce[T record](cfg OutlierConfig, recs []T) []T {
	values := make([]float64, 0, len(recs))
	for _, r := range recs {
		if pct := r.returnPct(); pct != nil {
			values = append(values, *pct)
		}
	}
	if len(values) < 4 {
		return recs
	}

	var lower, upper float64
	switch cfg.Method {
	case OutlierIQR:
		mult := cfg.IQRMultiplier
		if mult <= 0 {
			mult = 1.5
		}
		q1, q3 := quartiles(values)
		iqr := q3 - q1
		lower, upper = q1-mult*iqr, q3+mult*iqr
	default:
		threshold := cfg.ZThreshold
		if threshold <= 0 {
			threshold = 3
		}
		mean := meanOf(values)
		sd := stdDevOf(values, mean)
		if sd == 0 {
			return recs
		}
		lower, upper = mean-threshold*sd, mean+threshold*sd
	}

	kept := make([]T, 0, len(recs))
	for _, r := range recs {
		pct := r.returnPct()
		if pct != nil && (*pct < lower || *pct > upper) {
			continue
		}
		kept = append(kept, r)
	}
	return kept
}

// quartiles returns Q1 and Q3 with linear interpolation between ranks, so
// small samples are not biased toward their extremes.
func quartiles(values []float64) (q1, q3 float64) {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return interpolatedRank(sorted, 0.25), interpolatedRank(sorted, 0.75)
}

// interpolatedRank reads the p-quantile from an ascending slice, blending the
// two neighboring ranks when p*(n-1) is fractional.
func interpolatedRank(sorted []float64, p float64) float64 {
	pos := p * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

func containsInt(set []int, v int) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func containsMonth(set []time.Month, v time.Month) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func containsWeekday(set []time.Weekday, v time.Weekday) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
