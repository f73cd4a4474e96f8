package strategy

import (
	"github.com/Shirsha07/nifty-200-dashboard/internal/calculator"
	"github.com/Shirsha07/nifty-200-dashboard/internal/model"
)

// Trend heuristic windows.
const (
	TrendMinBars    = 20
	TrendRisingRun  = 5
	TrendFastPeriod = 5
	TrendSlowPeriod = 20
)

// IsStrongUptrend flags a series whose last five closes rise strictly
// and whose SMA5 sits above its SMA20. Short series are never trending.
func IsStrongUptrend(series model.BarSeries) bool {
	if series.Len() < TrendMinBars {
		return false
	}
	closes := series.Closes()

	// Step 1: strictly rising recent run
	n := len(closes)
	for i := n - TrendRisingRun + 1; i < n; i++ {
		if closes[i] <= closes[i-1] {
			return false
		}
	}

	// Step 2: fast average above slow average
	fast, err := calculator.CalculateSMA(closes, TrendFastPeriod)
	if err != nil {
		return false
	}
	slow, err := calculator.CalculateSMA(closes, TrendSlowPeriod)
	if err != nil {
		return false
	}
	return fast > slow
}

// TrendingSymbols returns the symbols of universe flagged by IsStrongUptrend, in universe order.
func TrendingSymbols(universe []string, series map[string]model.BarSeries) []string {
	trending := []string{}
	for _, symbol := range universe {
		s, ok := series[symbol]
		if !ok {
			continue
		}
		if IsStrongUptrend(s) {
			trending = append(trending, symbol)
		}
	}
	return trending
}
