// Package dashboard runs one render pass: universe, fan-out fetch, signals
// and the selected symbol's chart data.
package dashboard

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Shirsha07/nifty-200-dashboard/internal/calculator"
	"github.com/Shirsha07/nifty-200-dashboard/internal/collector"
	"github.com/Shirsha07/nifty-200-dashboard/internal/model"
	"github.com/Shirsha07/nifty-200-dashboard/internal/strategy"
	"github.com/Shirsha07/nifty-200-dashboard/internal/universe"
)

// Options configures the scan half of a pass.
type Options struct {
	// ScanPeriod and ScanInterval drive the trend scan.
	ScanPeriod   model.Period
	ScanInterval model.Interval
	// MoversPeriod and MoversInterval drive the intraday scan that ranks gainers and losers.
	MoversPeriod   model.Period
	MoversInterval model.Interval
	TopN           int
	// Timeout bounds the whole pass. Zero means no limit beyond the caller's context.
	Timeout time.Duration
}

// Request is what the user picked for the chart.
// An empty Symbol selects the first symbol of the universe.
type Request struct {
	Symbol   string
	Period   model.Period
	Interval model.Interval
}

// Pipeline assembles dashboards.
type Pipeline struct {
	universe  universe.Provider
	collector *collector.Collector
	opts      Options
	now       func() time.Time
}

// NewPipeline creates a Pipeline.
func NewPipeline(u universe.Provider, c *collector.Collector, opts Options) *Pipeline {
	if opts.ScanPeriod == "" {
		opts.ScanPeriod = model.Period3mo
	}
	if opts.ScanInterval == "" {
		opts.ScanInterval = model.Interval1d
	}
	if opts.MoversPeriod == "" {
		opts.MoversPeriod = model.Period1d
	}
	if opts.MoversInterval == "" {
		opts.MoversInterval = model.Interval5m
	}
	if opts.TopN < 1 {
		opts.TopN = 5
	}
	return &Pipeline{universe: u, collector: c, opts: opts, now: time.Now}
}

// Universe returns the current symbol list. An empty list is reported as unavailable.
func (p *Pipeline) Universe(ctx context.Context) ([]string, error) {
	symbols, err := p.universe.Symbols(ctx)
	if err != nil {
		return nil, fmt.Errorf("load universe: %w", err)
	}
	if len(symbols) == 0 {
		return nil, fmt.Errorf("load universe: %w", universe.ErrUniverseUnavailable)
	}
	return symbols, nil
}

// Run executes one pass. The only errors are an unavailable universe and an
// invalid request; per-symbol fetch failures are reported in Dashboard.Failed.
func (p *Pipeline) Run(ctx context.Context, req Request) (*model.Dashboard, error) {
	req, err := normalizeRequest(req)
	if err != nil {
		return nil, err
	}

	started := p.now()
	if p.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.opts.Timeout)
		defer cancel()
	}

	symbols, err := p.Universe(ctx)
	if err != nil {
		return nil, err
	}
	if req.Symbol == "" {
		req.Symbol = symbols[0]
	}

	runID := uuid.NewString()
	zap.S().Infof("pass %s: scanning %d symbols (movers %s/%s, trend %s/%s), selected %s",
		runID[:8], len(symbols), p.opts.MoversPeriod, p.opts.MoversInterval,
		p.opts.ScanPeriod, p.opts.ScanInterval, req.Symbol)

	intraday := p.collector.CollectAll(ctx, symbols, p.opts.MoversPeriod, p.opts.MoversInterval)
	latest, previous := strategy.LastTwoCloses(intraday.Series)
	movers := strategy.RankMovers(latest, previous, p.opts.TopN)
	if movers.Insufficient {
		zap.S().Warnf("pass %s: not enough data to rank movers (%d comparable symbols)", runID[:8], len(latest))
	}

	daily := p.collector.CollectAll(ctx, symbols, p.opts.ScanPeriod, p.opts.ScanInterval)
	trending := strategy.TrendingSymbols(symbols, daily.Series)

	selected, err := p.selected(ctx, req)
	if err != nil {
		return nil, err
	}

	d := &model.Dashboard{
		RunID:            runID,
		GeneratedAt:      started.UTC(),
		UniverseSize:     len(symbols),
		ScanPeriod:       p.opts.ScanPeriod,
		ScanInterval:     p.opts.ScanInterval,
		MoversPeriod:     p.opts.MoversPeriod,
		MoversInterval:   p.opts.MoversInterval,
		Gainers:          movers.Gainers,
		Losers:           movers.Losers,
		InsufficientData: movers.Insufficient,
		Trending:         trending,
		Failed:           mergeFailed(symbols, intraday.Failed, daily.Failed),
		Selected:         selected,
	}
	d.Elapsed = p.now().Sub(started).Round(time.Millisecond).String()

	zap.S().Infof("pass %s done in %s: %d gainers, %d losers, %d trending, %d failed",
		runID[:8], d.Elapsed, len(d.Gainers), len(d.Losers), len(d.Trending), len(d.Failed))
	return d, nil
}

func (p *Pipeline) selected(ctx context.Context, req Request) (*model.SelectedSymbol, error) {
	raw, err := p.collector.Fetcher.Fetch(ctx, req.Symbol, req.Period, req.Interval)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", req.Symbol, err)
	}

	sel := &model.SelectedSymbol{
		Symbol:   raw.Symbol,
		Period:   req.Period,
		Interval: req.Interval,
		Raw:      raw,
		Enriched: calculator.Enrich(raw),
	}
	if raw.Empty() {
		zap.S().Warnf("no data for selected symbol %s", req.Symbol)
		return sel, nil
	}
	if summary, err := calculator.Summarize(raw); err == nil {
		sel.Summary = &summary
	} else {
		zap.S().Warnf("summarize %s: %v", req.Symbol, err)
	}
	return sel, nil
}

// mergeFailed returns, in universe order, every symbol missing from either scan.
func mergeFailed(symbols []string, lists ...[]string) []string {
	missing := make(map[string]bool)
	for _, list := range lists {
		for _, s := range list {
			missing[s] = true
		}
	}
	var out []string
	for _, s := range symbols {
		if missing[s] {
			out = append(out, s)
		}
	}
	return out
}

func normalizeRequest(req Request) (Request, error) {
	req.Symbol = strings.ToUpper(strings.TrimSpace(req.Symbol))
	if req.Period == "" {
		req.Period = model.Period1y
	}
	if req.Interval == "" {
		req.Interval = model.Interval1d
	}
	if !req.Period.Valid() {
		return req, fmt.Errorf("%w: unknown period %q", collector.ErrInvalidRequest, req.Period)
	}
	if !req.Interval.Valid() {
		return req, fmt.Errorf("%w: unknown interval %q", collector.ErrInvalidRequest, req.Interval)
	}
	return req, nil
}
