package model

// MoverRecord is one row of the gainers or losers table.
type MoverRecord struct {
	Symbol        string  `json:"symbol"`
	LatestPrice   float64 `json:"latest_price"`
	PreviousPrice float64 `json:"previous_price"`
	PercentChange float64 `json:"percent_change"`
}
