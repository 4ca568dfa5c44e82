package domain

// TickerSummary is the authoritative per-ticker overview row shared by
// exporters and report tooling. Fields carry both JSON and CSV mappings so
// every output format agrees on naming.
type TickerSummary struct {
	// Ticker is the instrument symbol (e.g., "TASC").
	Ticker string `json:"ticker" csv:"Ticker" validate:"required,min=1,max=12"`

	// LastClose is the closing price of the most recent bar.
	LastClose float64 `json:"last_close" csv:"LastClose" validate:"required,gt=0"`

	// FirstDate and LastDate bound the available history, formatted
	// "2006-01-02".
	FirstDate string `json:"first_date" csv:"FirstDate" validate:"required"`
	LastDate  string `json:"last_date" csv:"LastDate" validate:"required"`

	// TradingDays is the number of bars on record, not calendar days.
	TradingDays int `json:"trading_days" csv:"TradingDays" validate:"min=0"`

	// Change and ChangePercent compare the last two closes. Zero when the
	// history holds a single bar.
	Change        float64 `json:"change" csv:"Change"`
	ChangePercent float64 `json:"change_percent" csv:"ChangePercent"`

	// HighestPrice and LowestPrice span the full history.
	HighestPrice float64 `json:"highest_price" csv:"HighestPrice"`
	LowestPrice  float64 `json:"lowest_price" csv:"LowestPrice"`

	// TotalVolume sums volume over the full history.
	TotalVolume float64 `json:"total_volume" csv:"TotalVolume"`

	// RecentCloses holds the trailing closes in chronological order.
	RecentCloses []float64 `json:"recent_closes" csv:"RecentCloses"`
}
