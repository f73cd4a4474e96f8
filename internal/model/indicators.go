package model

// EnrichedBar is a bar with the chart indicators derived from its history.
type EnrichedBar struct {
	Bar
	SMA20 float64 `json:"sma20"`
	RSI14 float64 `json:"rsi14"`
}

// EnrichedSeries holds only the bars for which every indicator is defined.
type EnrichedSeries struct {
	Symbol   string        `json:"symbol"`
	Period   Period        `json:"period"`
	Interval Interval      `json:"interval"`
	Bars     []EnrichedBar `json:"bars"`
}

// Summary is the headline table for the selected symbol.
type Summary struct {
	Symbol     string  `json:"symbol"`
	Latest     Bar     `json:"latest"`
	PeriodHigh float64 `json:"period_high"`
	PeriodLow  float64 `json:"period_low"`
	Position   float64 `json:"position"` // 0.0 ~ 1.0 within [PeriodLow, PeriodHigh]
}
