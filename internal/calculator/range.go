package calculator

import (
	"errors"
	"math"

	"github.com/Shirsha07/nifty-200-dashboard/internal/model"
)

// PeriodRange scans every bar and returns the highest high and lowest low.
func PeriodRange(bars []model.Bar) (high, low float64, err error) {
	if len(bars) == 0 {
		return 0, 0, errors.New("no bars provided")
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for _, b := range bars {
		if b.High > high {
			high = b.High
		}
		if b.Low < low {
			low = b.Low
		}
	}
	return high, low, nil
}

// RangePosition returns where the current price sits within [low, high] (0.0~1.0).
func RangePosition(current, high, low float64) (float64, error) {
	if high == low {
		return 0.5, nil
	}
	if high < low {
		return 0, errors.New("high must be >= low")
	}
	pos := (current - low) / (high - low)
	if pos < 0 {
		pos = 0
	}
	if pos > 1 {
		pos = 1
	}
	return pos, nil
}

// Summarize builds the latest-bar and period high/low table for a series.
func Summarize(series model.BarSeries) (model.Summary, error) {
	if series.Empty() {
		return model.Summary{}, errNotEnoughData
	}
	high, low, err := PeriodRange(series.Bars)
	if err != nil {
		return model.Summary{}, err
	}
	latest := series.Bars[len(series.Bars)-1]
	pos, err := RangePosition(latest.Close, high, low)
	if err != nil {
		return model.Summary{}, err
	}
	return model.Summary{
		Symbol:     series.Symbol,
		Latest:     latest,
		PeriodHigh: high,
		PeriodLow:  low,
		Position:   pos,
	}, nil
}
