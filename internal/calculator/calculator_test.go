package calculator

import (
	"math"
	"testing"
	"time"

	"github.com/Shirsha07/nifty-200-dashboard/internal/model"
)

func seriesFromCloses(closes ...float64) model.BarSeries {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]model.Bar, len(closes))
	for i, c := range closes {
		bars[i] = model.Bar{
			Time:   start.AddDate(0, 0, i),
			Open:   c,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: 1000,
		}
	}
	return model.BarSeries{Symbol: "TEST", Period: model.Period3mo, Interval: model.Interval1d, Bars: bars}
}

func rampCloses(n int, start, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCalculateSMA(t *testing.T) {
	got, err := CalculateSMA([]float64{1, 2, 3, 4, 5}, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 3 {
		t.Errorf("expected 3, got %.4f", got)
	}
	if _, err := CalculateSMA([]float64{1, 2}, 5); err == nil {
		t.Error("expected error for insufficient data")
	}
	if _, err := CalculateSMA([]float64{1, 2}, 0); err == nil {
		t.Error("expected error for non-positive period")
	}
}

func TestSMASeries_AlignedWithInput(t *testing.T) {
	prices := []float64{1, 2, 3, 4, 5, 6}
	sma := SMASeries(prices, 3)
	if len(sma) != len(prices) {
		t.Fatalf("expected %d values, got %d", len(prices), len(sma))
	}
	for i := 0; i < 2; i++ {
		if !math.IsNaN(sma[i]) {
			t.Errorf("index %d: expected NaN, got %.4f", i, sma[i])
		}
	}
	want := []float64{2, 3, 4, 5}
	for i, w := range want {
		if !almostEqual(sma[i+2], w) {
			t.Errorf("index %d: expected %.4f, got %.4f", i+2, w, sma[i+2])
		}
	}
	last, _ := CalculateSMA(prices, 3)
	if !almostEqual(sma[len(sma)-1], last) {
		t.Errorf("rolling SMA %.4f disagrees with CalculateSMA %.4f", sma[len(sma)-1], last)
	}
}

func TestRSISeries_Bounds(t *testing.T) {
	closes := []float64{44, 44.3, 44.1, 43.6, 44.3, 44.8, 45.1, 45.4, 45.8, 46, 45.9, 46.2, 45.6, 46.2, 46.3, 46, 46.4, 45.8, 46.1, 45.2}
	rsi := RSISeries(closes, 14)
	for i := 0; i < 14; i++ {
		if !math.IsNaN(rsi[i]) {
			t.Errorf("index %d: expected NaN before warm-up, got %.4f", i, rsi[i])
		}
	}
	for i := 14; i < len(closes); i++ {
		if rsi[i] < 0 || rsi[i] > 100 {
			t.Errorf("index %d: RSI %.4f out of [0,100]", i, rsi[i])
		}
	}
}

func TestRSISeries_MonotonicExtremes(t *testing.T) {
	up := RSISeries(rampCloses(30, 10, 1), 14)
	if up[29] != 100 {
		t.Errorf("expected RSI 100 for strictly rising closes, got %.4f", up[29])
	}
	down := RSISeries(rampCloses(30, 100, -1), 14)
	if down[29] != 0 {
		t.Errorf("expected RSI 0 for strictly falling closes, got %.4f", down[29])
	}
}

func TestRSISeries_SeedsWithFirstChange(t *testing.T) {
	// changes +2, -1, +3 with alpha 1/3:
	// gain 2 -> 4/3 -> 17/9, loss 0 -> 1/3 -> 2/9, so RS = 8.5 at index 3.
	rsi := RSISeries([]float64{10, 12, 11, 14}, 3)
	for i := 0; i < 3; i++ {
		if !math.IsNaN(rsi[i]) {
			t.Errorf("index %d: expected NaN, got %.4f", i, rsi[i])
		}
	}
	want := 100 - 100/9.5
	if !almostEqual(rsi[3], want) {
		t.Errorf("expected %.4f, got %.4f", want, rsi[3])
	}
}

func TestRSISeries_FlatIsHundred(t *testing.T) {
	rsi := RSISeries(rampCloses(20, 50, 0), 14)
	if rsi[19] != 100 {
		t.Errorf("expected 100 with no losses, got %.4f", rsi[19])
	}
}

func TestCalculateRSI_InsufficientIsNeutral(t *testing.T) {
	got, err := CalculateRSI([]float64{1, 2, 3}, 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 50 {
		t.Errorf("expected neutral 50, got %.2f", got)
	}
}

func TestEnrich_DropsWarmupBars(t *testing.T) {
	series := seriesFromCloses(rampCloses(40, 100, 0.5)...)
	enriched := Enrich(series)
	if len(enriched.Bars) != 40-(EnrichSMAPeriod-1) {
		t.Fatalf("expected %d enriched bars, got %d", 40-(EnrichSMAPeriod-1), len(enriched.Bars))
	}
	if !enriched.Bars[0].Time.Equal(series.Bars[EnrichSMAPeriod-1].Time) {
		t.Errorf("first enriched bar should be bar %d", EnrichSMAPeriod-1)
	}
	for i, b := range enriched.Bars {
		if math.IsNaN(b.SMA20) || math.IsNaN(b.RSI14) {
			t.Errorf("bar %d has undefined indicator", i)
		}
		if b.RSI14 < 0 || b.RSI14 > 100 {
			t.Errorf("bar %d RSI %.4f out of range", i, b.RSI14)
		}
	}
}

func TestEnrich_ShortSeriesIsEmpty(t *testing.T) {
	enriched := Enrich(seriesFromCloses(rampCloses(19, 100, 1)...))
	if len(enriched.Bars) != 0 {
		t.Errorf("expected no enriched bars for 19-bar series, got %d", len(enriched.Bars))
	}
	if enriched.Symbol != "TEST" {
		t.Errorf("expected symbol to carry over, got %q", enriched.Symbol)
	}
}

func TestEnrich_Idempotent(t *testing.T) {
	closes := []float64{}
	for i := 0; i < 60; i++ {
		closes = append(closes, 100+10*math.Sin(float64(i)/4))
	}
	series := seriesFromCloses(closes...)
	before := series.Closes()

	first := Enrich(series)
	second := Enrich(series)

	if len(first.Bars) != len(second.Bars) {
		t.Fatalf("length mismatch: %d vs %d", len(first.Bars), len(second.Bars))
	}
	for i := range first.Bars {
		if first.Bars[i].SMA20 != second.Bars[i].SMA20 || first.Bars[i].RSI14 != second.Bars[i].RSI14 {
			t.Errorf("bar %d differs between runs", i)
		}
	}
	for i, c := range series.Closes() {
		if c != before[i] {
			t.Fatalf("input series mutated at %d", i)
		}
	}
}

func TestSummarize(t *testing.T) {
	series := seriesFromCloses(10, 20, 15, 12)
	sum, err := Summarize(series)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sum.Latest.Close != 12 {
		t.Errorf("expected latest close 12, got %.2f", sum.Latest.Close)
	}
	if sum.PeriodHigh != 21 || sum.PeriodLow != 9 {
		t.Errorf("expected range [9, 21], got [%.2f, %.2f]", sum.PeriodLow, sum.PeriodHigh)
	}
	if !almostEqual(sum.Position, 0.25) {
		t.Errorf("expected position 0.25, got %.4f", sum.Position)
	}
	if _, err := Summarize(model.BarSeries{}); err == nil {
		t.Error("expected error for empty series")
	}
}

func TestRangePosition_Clamped(t *testing.T) {
	tests := []struct {
		current, high, low float64
		want               float64
	}{
		{50, 100, 0, 0.5},
		{150, 100, 0, 1},
		{-5, 100, 0, 0},
		{7, 7, 7, 0.5},
	}
	for _, tt := range tests {
		got, err := RangePosition(tt.current, tt.high, tt.low)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !almostEqual(got, tt.want) {
			t.Errorf("position(%.0f in [%.0f,%.0f]): expected %.2f, got %.2f", tt.current, tt.low, tt.high, tt.want, got)
		}
	}
	if _, err := RangePosition(1, 0, 10); err == nil {
		t.Error("expected error when high < low")
	}
}
