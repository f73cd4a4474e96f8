package model

import "time"

// Dashboard is everything one render pass hands to the presentation layer.
type Dashboard struct {
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`
	Elapsed     string    `json:"elapsed"`

	UniverseSize int `json:"universe_size"`
	// ScanPeriod and ScanInterval are the trend scan; MoversPeriod and
	// MoversInterval the intraday scan behind Gainers and Losers.
	ScanPeriod     Period   `json:"scan_period"`
	ScanInterval   Interval `json:"scan_interval"`
	MoversPeriod   Period   `json:"movers_period"`
	MoversInterval Interval `json:"movers_interval"`

	Gainers []MoverRecord `json:"gainers"`
	Losers  []MoverRecord `json:"losers"`
	// InsufficientData is set when fewer than two symbols had enough bars to rank.
	InsufficientData bool `json:"insufficient_data"`

	Trending []string `json:"trending"`

	// Failed lists symbols whose fetch came back empty after all attempts in either scan.
	Failed []string `json:"failed,omitempty"`

	Selected *SelectedSymbol `json:"selected,omitempty"`
}

// SelectedSymbol is the chart payload for the user-selected symbol.
type SelectedSymbol struct {
	Symbol   string         `json:"symbol"`
	Period   Period         `json:"period"`
	Interval Interval       `json:"interval"`
	Summary  *Summary       `json:"summary,omitempty"`
	Raw      BarSeries      `json:"raw"`
	Enriched EnrichedSeries `json:"enriched"`
}
