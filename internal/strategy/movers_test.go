package strategy

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/Shirsha07/nifty-200-dashboard/internal/model"
)

func TestRankMovers_Example(t *testing.T) {
	latest := map[string]float64{"A": 110, "B": 90}
	previous := map[string]float64{"A": 100, "B": 100}

	res := RankMovers(latest, previous, 1)
	if res.Insufficient {
		t.Fatal("expected sufficient data")
	}
	if len(res.Gainers) != 1 || res.Gainers[0].Symbol != "A" {
		t.Fatalf("expected top gainer A, got %+v", res.Gainers)
	}
	if len(res.Losers) != 1 || res.Losers[0].Symbol != "B" {
		t.Fatalf("expected top loser B, got %+v", res.Losers)
	}
	if math.Abs(res.Gainers[0].PercentChange-10.0) > 1e-9 {
		t.Errorf("expected +10.00%%, got %.4f", res.Gainers[0].PercentChange)
	}
	if math.Abs(res.Losers[0].PercentChange+10.0) > 1e-9 {
		t.Errorf("expected -10.00%%, got %.4f", res.Losers[0].PercentChange)
	}
	if res.Gainers[0].LatestPrice != 110 {
		t.Errorf("expected latest price 110, got %.2f", res.Gainers[0].LatestPrice)
	}
}

func TestRankMovers_OnlyCommonValidSymbols(t *testing.T) {
	latest := map[string]float64{"A": 105, "B": 95, "C": 120, "D": math.NaN(), "E": 50}
	previous := map[string]float64{"A": 100, "B": 100, "D": 100, "E": 0, "F": 10}

	res := RankMovers(latest, previous, 10)
	allowed := map[string]bool{"A": true, "B": true}
	for _, list := range [][]model.MoverRecord{res.Gainers, res.Losers} {
		if len(list) != 2 {
			t.Fatalf("expected 2 records, got %d: %+v", len(list), list)
		}
		for _, r := range list {
			if !allowed[r.Symbol] {
				t.Errorf("unexpected symbol %s in result", r.Symbol)
			}
		}
	}
}

func TestRankMovers_Insufficient(t *testing.T) {
	tests := []struct {
		name     string
		latest   map[string]float64
		previous map[string]float64
	}{
		{"empty", map[string]float64{}, map[string]float64{}},
		{"single common", map[string]float64{"A": 1, "B": 2}, map[string]float64{"A": 1}},
		{"nil maps", nil, nil},
	}
	for _, tt := range tests {
		res := RankMovers(tt.latest, tt.previous, 5)
		if !res.Insufficient {
			t.Errorf("%s: expected insufficient flag", tt.name)
		}
		if res.Gainers == nil || res.Losers == nil || len(res.Gainers) != 0 || len(res.Losers) != 0 {
			t.Errorf("%s: expected two empty lists, got %+v / %+v", tt.name, res.Gainers, res.Losers)
		}
	}
}

func TestRankMovers_TiesOrderedBySymbol(t *testing.T) {
	latest := map[string]float64{"ZEE": 110, "ABB": 110, "MRF": 90, "ITC": 90}
	previous := map[string]float64{"ZEE": 100, "ABB": 100, "MRF": 100, "ITC": 100}

	res := RankMovers(latest, previous, 4)
	wantGainers := []string{"ABB", "ZEE", "ITC", "MRF"}
	wantLosers := []string{"ITC", "MRF", "ABB", "ZEE"}
	for i, r := range res.Gainers {
		if r.Symbol != wantGainers[i] {
			t.Errorf("gainers[%d]: expected %s, got %s", i, wantGainers[i], r.Symbol)
		}
	}
	for i, r := range res.Losers {
		if r.Symbol != wantLosers[i] {
			t.Errorf("losers[%d]: expected %s, got %s", i, wantLosers[i], r.Symbol)
		}
	}
}

func TestRankMovers_OrderingProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for round := 0; round < 200; round++ {
		latest := map[string]float64{}
		previous := map[string]float64{}
		count := rng.Intn(30)
		for i := 0; i < count; i++ {
			sym := string(rune('A'+rng.Intn(26))) + string(rune('A'+rng.Intn(26)))
			if rng.Intn(4) > 0 {
				latest[sym] = 50 + rng.Float64()*100
			}
			if rng.Intn(4) > 0 {
				previous[sym] = 50 + float64(rng.Intn(5))*10
			}
		}
		n := rng.Intn(8)
		res := RankMovers(latest, previous, n)

		if len(res.Gainers) > n || len(res.Losers) > n {
			t.Fatalf("round %d: more than %d results", round, n)
		}
		for _, r := range append(append([]model.MoverRecord{}, res.Gainers...), res.Losers...) {
			if _, ok := latest[r.Symbol]; !ok {
				t.Fatalf("round %d: %s missing from latest", round, r.Symbol)
			}
			if _, ok := previous[r.Symbol]; !ok {
				t.Fatalf("round %d: %s missing from previous", round, r.Symbol)
			}
		}
		for i := 1; i < len(res.Gainers); i++ {
			if res.Gainers[i-1].PercentChange < res.Gainers[i].PercentChange {
				t.Fatalf("round %d: gainers not descending at %d", round, i)
			}
		}
		for i := 1; i < len(res.Losers); i++ {
			if res.Losers[i-1].PercentChange > res.Losers[i].PercentChange {
				t.Fatalf("round %d: losers not ascending at %d", round, i)
			}
		}
	}
}

func TestLastTwoCloses(t *testing.T) {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	series := map[string]model.BarSeries{
		"A": {Symbol: "A", Bars: []model.Bar{{Time: day, Close: 1}, {Time: day.AddDate(0, 0, 1), Close: 2}, {Time: day.AddDate(0, 0, 2), Close: 3}}},
		"B": {Symbol: "B", Bars: []model.Bar{{Time: day, Close: 7}}},
		"C": {Symbol: "C"},
	}
	latest, previous := LastTwoCloses(series)
	if latest["A"] != 3 || previous["A"] != 2 {
		t.Errorf("expected A latest=3 previous=2, got %.0f/%.0f", latest["A"], previous["A"])
	}
	if _, ok := latest["B"]; ok {
		t.Error("single-bar series should be excluded from latest")
	}
	if _, ok := previous["C"]; ok {
		t.Error("empty series should be excluded from previous")
	}
}
