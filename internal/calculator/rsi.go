package calculator

import "math"

// Conventional RSI reference levels drawn on momentum charts.
const (
	RSIOverbought = 70.0
	RSIOversold   = 30.0
)

// CalculateRSI computes the RSI of the full close history.
// Requires at least period+1 closes. Returns 50.0 if data is insufficient.
func CalculateRSI(closes []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errNonPositivePeriod
	}
	if len(closes) < period+1 {
		return 50.0, nil // neutral when data insufficient
	}
	series := RSISeries(closes, period)
	return series[len(series)-1], nil
}

// RSISeries returns the RSI aligned with closes. Average gain and loss are
// exponential with alpha 1/period, seeded with the first change.
// The first value is defined at index `period`; earlier entries are NaN.
func RSISeries(closes []float64, period int) []float64 {
	out := make([]float64, len(closes))
	for i := range out {
		out[i] = math.NaN()
	}
	if period <= 0 || len(closes) < period+1 {
		return out
	}

	alpha := 1.0 / float64(period)
	var avgGain, avgLoss float64
	for i := 1; i < len(closes); i++ {
		gain, loss := splitChange(closes[i] - closes[i-1])
		if i == 1 {
			avgGain, avgLoss = gain, loss
		} else {
			avgGain = (1-alpha)*avgGain + alpha*gain
			avgLoss = (1-alpha)*avgLoss + alpha*loss
		}
		if i >= period {
			out[i] = rsiFrom(avgGain, avgLoss)
		}
	}
	return out
}

func splitChange(change float64) (gain, loss float64) {
	if change > 0 {
		return change, 0
	}
	return 0, -change
}

// rsiFrom treats zero average loss as 100, flat series included.
func rsiFrom(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100.0
	}
	rs := avgGain / avgLoss
	return 100.0 - 100.0/(1.0+rs)
}
