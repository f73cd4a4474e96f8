package collector

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"

	"github.com/Shirsha07/nifty-200-dashboard/internal/model"
)

// FinanceGoFeed implements Feed with the piquette/finance-go chart client.
type FinanceGoFeed struct {
	now func() time.Time
}

// NewFinanceGoFeed creates a finance-go backed feed.
func NewFinanceGoFeed() *FinanceGoFeed {
	return &FinanceGoFeed{now: time.Now}
}

func (f *FinanceGoFeed) Name() string { return "finance-go" }

func (f *FinanceGoFeed) FetchBars(ctx context.Context, ticker string, period model.Period, interval model.Interval) ([]model.Bar, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	end := f.now()
	start := period.Lookback(end)
	if start.IsZero() {
		start = time.Unix(0, 0)
	}
	params := &chart.Params{
		Symbol:   ticker,
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Interval: datetime.Interval(interval),
	}

	iter := chart.Get(params)
	var bars []model.Bar
	for iter.Next() {
		b := iter.Bar()
		c, _ := b.Close.Float64()
		if c == 0 {
			continue
		}
		o, _ := b.Open.Float64()
		h, _ := b.High.Float64()
		l, _ := b.Low.Float64()
		bars = append(bars, model.Bar{
			Time:   time.Unix(int64(b.Timestamp), 0).UTC(),
			Open:   o,
			High:   h,
			Low:    l,
			Close:  c,
			Volume: float64(b.Volume),
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("finance-go chart %s: %w", ticker, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars, nil
}
