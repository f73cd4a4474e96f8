package collector

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Shirsha07/nifty-200-dashboard/internal/model"
)

// Batch is the outcome of fetching one request for a whole universe.
type Batch struct {
	Series map[string]model.BarSeries
	// Failed lists, in universe order, the symbols that came back without bars.
	Failed []string
}

// Collector fans a history request out over many symbols.
type Collector struct {
	Fetcher *Fetcher
	Workers int
}

// NewCollector creates a new Collector. workers < 1 fetches sequentially.
func NewCollector(fetcher *Fetcher, workers int) *Collector {
	if workers < 1 {
		workers = 1
	}
	return &Collector{Fetcher: fetcher, Workers: workers}
}

// CollectAll fetches every symbol with the same period and interval.
// A symbol that fails, even by panicking in the feed, never aborts the batch;
// once ctx is done the remaining symbols are reported as failed without being fetched.
func (c *Collector) CollectAll(ctx context.Context, symbols []string, period model.Period, interval model.Interval) Batch {
	started := time.Now()
	results := make([]model.BarSeries, len(symbols))

	var g errgroup.Group
	g.SetLimit(c.Workers)
	for i, symbol := range symbols {
		i, symbol := i, symbol
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					zap.S().Errorf("skip %s: feed panicked: %v", symbol, r)
				}
			}()
			if ctx.Err() != nil {
				return nil
			}
			series, err := c.Fetcher.Fetch(ctx, symbol, period, interval)
			if err != nil {
				zap.S().Warnf("skip %s: %v", symbol, err)
				return nil
			}
			results[i] = series
			return nil
		})
	}
	_ = g.Wait()

	batch := Batch{Series: make(map[string]model.BarSeries, len(symbols))}
	for i, symbol := range symbols {
		if results[i].Empty() {
			batch.Failed = append(batch.Failed, symbol)
			continue
		}
		batch.Series[symbol] = results[i]
	}

	zap.S().Infof("collected %d/%d symbols (%s/%s) in %s",
		len(batch.Series), len(symbols), period, interval, time.Since(started).Round(time.Millisecond))
	return batch
}
