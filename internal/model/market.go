package model

import (
	"fmt"
	"time"
)

// Bar represents a single OHLCV candlestick.
type Bar struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// BarSeries is an ascending run of bars for one symbol and one (period, interval) request.
type BarSeries struct {
	Symbol   string   `json:"symbol"`
	Period   Period   `json:"period"`
	Interval Interval `json:"interval"`
	Bars     []Bar    `json:"bars"`
}

// Len returns the number of bars.
func (s BarSeries) Len() int { return len(s.Bars) }

// Empty reports whether the series has no bars.
func (s BarSeries) Empty() bool { return len(s.Bars) == 0 }

// Closes extracts the close prices in order.
func (s BarSeries) Closes() []float64 {
	closes := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		closes[i] = b.Close
	}
	return closes
}

// Period is the lookback window of a history request.
type Period string

const (
	Period1d  Period = "1d"
	Period5d  Period = "5d"
	Period1mo Period = "1mo"
	Period3mo Period = "3mo"
	Period6mo Period = "6mo"
	Period1y  Period = "1y"
	Period2y  Period = "2y"
	Period5y  Period = "5y"
	PeriodMax Period = "max"
)

// Interval is the bar size of a history request.
type Interval string

const (
	Interval5m  Interval = "5m"
	Interval15m Interval = "15m"
	Interval1h  Interval = "1h"
	Interval1d  Interval = "1d"
	Interval1wk Interval = "1wk"
	Interval1mo Interval = "1mo"
)

// Periods lists the dashboard's selectable timeframes, in display order.
var Periods = []Period{Period1mo, Period3mo, Period6mo, Period1y, Period2y, Period5y, PeriodMax}

// Intervals lists the dashboard's selectable bar sizes, in display order.
var Intervals = []Interval{Interval1d, Interval1wk, Interval1mo}

var validPeriods = map[Period]bool{
	Period1d: true, Period5d: true, Period1mo: true, Period3mo: true, Period6mo: true,
	Period1y: true, Period2y: true, Period5y: true, PeriodMax: true,
}

var validIntervals = map[Interval]bool{
	Interval5m: true, Interval15m: true, Interval1h: true,
	Interval1d: true, Interval1wk: true, Interval1mo: true,
}

// ParsePeriod validates a period string.
func ParsePeriod(s string) (Period, error) {
	p := Period(s)
	if !validPeriods[p] {
		return "", fmt.Errorf("unknown period %q", s)
	}
	return p, nil
}

// ParseInterval validates an interval string.
func ParseInterval(s string) (Interval, error) {
	iv := Interval(s)
	if !validIntervals[iv] {
		return "", fmt.Errorf("unknown interval %q", s)
	}
	return iv, nil
}

// Valid reports whether p is a known period.
func (p Period) Valid() bool { return validPeriods[p] }

// Valid reports whether iv is a known interval.
func (iv Interval) Valid() bool { return validIntervals[iv] }

// Lookback returns how far back from now the period reaches. PeriodMax returns zero.
func (p Period) Lookback(now time.Time) time.Time {
	switch p {
	case Period1d:
		return now.AddDate(0, 0, -1)
	case Period5d:
		return now.AddDate(0, 0, -5)
	case Period1mo:
		return now.AddDate(0, -1, 0)
	case Period3mo:
		return now.AddDate(0, -3, 0)
	case Period6mo:
		return now.AddDate(0, -6, 0)
	case Period1y:
		return now.AddDate(-1, 0, 0)
	case Period2y:
		return now.AddDate(-2, 0, 0)
	case Period5y:
		return now.AddDate(-5, 0, 0)
	default:
		return time.Time{}
	}
}
