package collector

import (
	"context"
	"sync"
	"time"

	"github.com/Shirsha07/nifty-200-dashboard/internal/model"
)

// MockFeed returns controllable fixed data for development and testing.
type MockFeed struct {
	// Bars is keyed by the exchange-qualified ticker.
	Bars map[string][]model.Bar
	// Errs makes a ticker fail on every call.
	Errs map[string]error
	// FetchFunc, when set, overrides Bars and Errs.
	FetchFunc func(ctx context.Context, ticker string, period model.Period, interval model.Interval) ([]model.Bar, error)

	mu    sync.Mutex
	calls map[string]int
}

func (m *MockFeed) Name() string { return "mock" }

func (m *MockFeed) FetchBars(ctx context.Context, ticker string, period model.Period, interval model.Interval) ([]model.Bar, error) {
	m.mu.Lock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[ticker]++
	m.mu.Unlock()

	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, ticker, period, interval)
	}
	if err, ok := m.Errs[ticker]; ok {
		return nil, err
	}
	return append([]model.Bar(nil), m.Bars[ticker]...), nil
}

// Calls returns how many times ticker was requested.
func (m *MockFeed) Calls(ticker string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[ticker]
}

// TotalCalls returns the number of requests across all tickers.
func (m *MockFeed) TotalCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, n := range m.calls {
		total += n
	}
	return total
}

// GenerateBars builds count daily bars whose close moves by step from basePrice.
func GenerateBars(basePrice, step float64, count int) []model.Bar {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]model.Bar, count)
	for i := 0; i < count; i++ {
		p := basePrice + float64(i)*step
		bars[i] = model.Bar{
			Time:   start.AddDate(0, 0, i),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}
