package collector

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Shirsha07/nifty-200-dashboard/internal/model"
)

// ErrInvalidRequest is returned for an empty symbol or an unknown period or interval.
var ErrInvalidRequest = errors.New("invalid fetch request")

// Feed is the upstream source of historical bars.
// Implementations return bars in ascending time order; an empty slice means no data.
type Feed interface {
	FetchBars(ctx context.Context, ticker string, period model.Period, interval model.Interval) ([]model.Bar, error)
	Name() string
}

// Fetcher retrieves bar series from a Feed with bounded retry and a TTL cache.
type Fetcher struct {
	feed   Feed
	policy RetryPolicy
	cache  *Cache
	suffix string
}

// NewFetcher creates a Fetcher. cache may be nil to disable memoization;
// suffix is appended to plain symbols to form the exchange-qualified ticker.
func NewFetcher(feed Feed, policy RetryPolicy, cache *Cache, suffix string) *Fetcher {
	return &Fetcher{feed: feed, policy: policy, cache: cache, suffix: suffix}
}

// Feed returns the upstream feed.
func (f *Fetcher) Feed() Feed { return f.feed }

// Fetch returns the bar series for symbol. An error is returned only for an invalid
// request; when every attempt fails or comes back empty the series is empty and err is nil.
func (f *Fetcher) Fetch(ctx context.Context, symbol string, period model.Period, interval model.Interval) (model.BarSeries, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return model.BarSeries{}, fmt.Errorf("%w: empty symbol", ErrInvalidRequest)
	}
	if !period.Valid() {
		return model.BarSeries{}, fmt.Errorf("%w: unknown period %q", ErrInvalidRequest, period)
	}
	if !interval.Valid() {
		return model.BarSeries{}, fmt.Errorf("%w: unknown interval %q", ErrInvalidRequest, interval)
	}

	series := model.BarSeries{Symbol: symbol, Period: period, Interval: interval, Bars: []model.Bar{}}
	key := CacheKey{Symbol: symbol, Period: period, Interval: interval}
	if bars, ok := f.cache.Get(key); ok {
		series.Bars = bars
		return series, nil
	}

	ticker := f.qualify(symbol)
	attempts := f.policy.attempts()
	for attempt := 1; attempt <= attempts; attempt++ {
		bars, err := f.feed.FetchBars(ctx, ticker, period, interval)
		switch {
		case err != nil:
			zap.S().Warnf("fetch %s (%s/%s) attempt %d/%d failed: %v", ticker, period, interval, attempt, attempts, err)
		case len(bars) == 0:
			zap.S().Warnf("fetch %s (%s/%s) attempt %d/%d returned no bars", ticker, period, interval, attempt, attempts)
		default:
			f.cache.Put(key, bars)
			series.Bars = bars
			return series, nil
		}

		if attempt == attempts {
			break
		}
		if err := f.policy.wait(ctx, attempt); err != nil {
			zap.S().Warnf("fetch %s abandoned: %v", ticker, err)
			return series, nil
		}
	}

	zap.S().Errorf("fetch %s (%s/%s): no data after %d attempts", ticker, period, interval, attempts)
	return series, nil
}

// qualify maps a plain symbol to its exchange ticker, e.g. RELIANCE -> RELIANCE.NS.
// Index tickers (^NSEI) and already-qualified tickers are left alone.
func (f *Fetcher) qualify(symbol string) string {
	if f.suffix == "" || strings.HasPrefix(symbol, "^") || strings.Contains(symbol, ".") {
		return symbol
	}
	return symbol + f.suffix
}
