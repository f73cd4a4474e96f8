package strategy

import (
	"math"
	"sort"

	"github.com/Shirsha07/nifty-200-dashboard/internal/model"
)

// MinMoversSymbols is the smallest number of comparable symbols worth ranking.
const MinMoversSymbols = 2

// MoversResult holds the ranked gainers and losers of one pass.
type MoversResult struct {
	Gainers []model.MoverRecord
	Losers  []model.MoverRecord
	// Insufficient is set when fewer than MinMoversSymbols symbols had valid prices.
	Insufficient bool
}

// PercentChange returns the percentage move from previous to latest.
func PercentChange(latest, previous float64) float64 {
	return (latest - previous) / previous * 100
}

// RankMovers ranks the symbols present in both price maps by percent change.
// Gainers are sorted descending, losers ascending; equal changes are ordered by symbol.
// Symbols with a non-finite price or a zero previous price are skipped.
func RankMovers(latest, previous map[string]float64, n int) MoversResult {
	records := make([]model.MoverRecord, 0, len(latest))
	for symbol, last := range latest {
		prev, ok := previous[symbol]
		if !ok || !validPrice(last) || !validPrice(prev) || prev == 0 {
			continue
		}
		records = append(records, model.MoverRecord{
			Symbol:        symbol,
			LatestPrice:   last,
			PreviousPrice: prev,
			PercentChange: PercentChange(last, prev),
		})
	}

	if len(records) < MinMoversSymbols {
		return MoversResult{Gainers: []model.MoverRecord{}, Losers: []model.MoverRecord{}, Insufficient: true}
	}
	if n < 0 {
		n = 0
	}

	gainers := append([]model.MoverRecord(nil), records...)
	sort.Slice(gainers, func(i, j int) bool {
		if gainers[i].PercentChange != gainers[j].PercentChange {
			return gainers[i].PercentChange > gainers[j].PercentChange
		}
		return gainers[i].Symbol < gainers[j].Symbol
	})

	losers := records
	sort.Slice(losers, func(i, j int) bool {
		if losers[i].PercentChange != losers[j].PercentChange {
			return losers[i].PercentChange < losers[j].PercentChange
		}
		return losers[i].Symbol < losers[j].Symbol
	})

	return MoversResult{Gainers: head(gainers, n), Losers: head(losers, n)}
}

// LastTwoCloses splits each series into its latest and previous close.
// Series with fewer than two bars appear in neither map.
func LastTwoCloses(series map[string]model.BarSeries) (latest, previous map[string]float64) {
	latest = make(map[string]float64, len(series))
	previous = make(map[string]float64, len(series))
	for symbol, s := range series {
		if s.Len() < 2 {
			continue
		}
		latest[symbol] = s.Bars[s.Len()-1].Close
		previous[symbol] = s.Bars[s.Len()-2].Close
	}
	return latest, previous
}

func validPrice(p float64) bool {
	return !math.IsNaN(p) && !math.IsInf(p, 0)
}

func head(records []model.MoverRecord, n int) []model.MoverRecord {
	if len(records) > n {
		records = records[:n]
	}
	out := make([]model.MoverRecord, len(records))
	copy(out, records)
	return out
}
