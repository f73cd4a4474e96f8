package cli

import (
	"context"
	"hash/fnv"

	"go.uber.org/zap"

	"github.com/Shirsha07/nifty-200-dashboard/internal/collector"
	"github.com/Shirsha07/nifty-200-dashboard/internal/config"
	"github.com/Shirsha07/nifty-200-dashboard/internal/dashboard"
	"github.com/Shirsha07/nifty-200-dashboard/internal/model"
	"github.com/Shirsha07/nifty-200-dashboard/internal/notifier"
	"github.com/Shirsha07/nifty-200-dashboard/internal/universe"
)

// cacheSize bounds the fetch cache; a full scan plus a handful of chart requests fit comfortably.
const cacheSize = 1024

type app struct {
	cfg      *config.Config
	feed     collector.Feed
	fetcher  *collector.Fetcher
	universe universe.Provider
	pipeline *dashboard.Pipeline
}

func newApp(cfg *config.Config) (*app, error) {
	feed := newFeed(cfg)
	zap.S().Infof("data source: %s", feed.Name())

	policy := collector.RetryPolicy{
		MaxAttempts: cfg.Fetch.Retries,
		Backoff:     collector.ConstantBackoff(cfg.Fetch.Delay),
	}
	fetcher := collector.NewFetcher(feed, policy, collector.NewCache(cacheSize, cfg.Cache.TTL), cfg.DataSource.Suffix)

	provider, err := universe.New(universe.Options{
		Source:  cfg.Universe.Source,
		URL:     cfg.Universe.URL,
		Column:  cfg.Universe.Column,
		Symbols: cfg.Universe.Symbols,
		Proxy:   cfg.DataSource.Proxy,
		Timeout: cfg.DataSource.Timeout,
	})
	if err != nil {
		return nil, err
	}

	pipeline := dashboard.NewPipeline(provider, collector.NewCollector(fetcher, cfg.Scan.Workers), dashboard.Options{
		ScanPeriod:     model.Period(cfg.Scan.Period),
		ScanInterval:   model.Interval(cfg.Scan.Interval),
		MoversPeriod:   model.Period(cfg.Movers.Period),
		MoversInterval: model.Interval(cfg.Movers.Interval),
		TopN:           cfg.Scan.TopN,
		Timeout:        cfg.Scan.Timeout,
	})

	return &app{cfg: cfg, feed: feed, fetcher: fetcher, universe: provider, pipeline: pipeline}, nil
}

func newFeed(cfg *config.Config) collector.Feed {
	switch cfg.DataSource.Provider {
	case "finance-go":
		return collector.NewFinanceGoFeed()
	case "mock":
		return demoFeed()
	default:
		return collector.NewYahooFeed("", cfg.DataSource.Proxy, cfg.DataSource.Timeout)
	}
}

// demoFeed serves deterministic synthetic bars so the dashboard runs offline.
func demoFeed() *collector.MockFeed {
	return &collector.MockFeed{FetchFunc: func(_ context.Context, ticker string, _ model.Period, _ model.Interval) ([]model.Bar, error) {
		h := fnv.New32a()
		h.Write([]byte(ticker))
		seed := h.Sum32()
		base := 100 + float64(seed%4900)
		step := base * (float64(seed%41) - 20) / 10000
		return collector.GenerateBars(base, step, 250), nil
	}}
}

// defaultRequest is the chart selection from configuration.
func (a *app) defaultRequest() dashboard.Request {
	return dashboard.Request{
		Symbol:   a.cfg.Dashboard.Symbol,
		Period:   model.Period(a.cfg.Dashboard.Period),
		Interval: model.Interval(a.cfg.Dashboard.Interval),
	}
}

// notifier returns the Telegram notifier, or nil when it is not configured.
func (a *app) notifier() *notifier.TelegramNotifier {
	if !a.cfg.TelegramEnabled() {
		return nil
	}
	return notifier.NewTelegramNotifier(a.cfg.Telegram.BotToken, a.cfg.Telegram.ChatID, a.cfg.DataSource.Proxy)
}
