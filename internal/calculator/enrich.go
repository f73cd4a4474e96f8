package calculator

import (
	"math"

	"github.com/Shirsha07/nifty-200-dashboard/internal/model"
)

// Chart indicator windows.
const (
	EnrichSMAPeriod = 20
	EnrichRSIPeriod = 14
)

// Enrich derives SMA20 and RSI14 for every bar and drops the leading bars
// that lack enough history for either. The input series is not modified.
func Enrich(series model.BarSeries) model.EnrichedSeries {
	out := model.EnrichedSeries{
		Symbol:   series.Symbol,
		Period:   series.Period,
		Interval: series.Interval,
		Bars:     []model.EnrichedBar{},
	}
	if series.Empty() {
		return out
	}

	closes := series.Closes()
	sma := SMASeries(closes, EnrichSMAPeriod)
	rsi := RSISeries(closes, EnrichRSIPeriod)

	for i, b := range series.Bars {
		if math.IsNaN(sma[i]) || math.IsNaN(rsi[i]) {
			continue
		}
		out.Bars = append(out.Bars, model.EnrichedBar{Bar: b, SMA20: sma[i], RSI14: rsi[i]})
	}
	return out
}
