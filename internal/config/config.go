package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/Shirsha07/nifty-200-dashboard/internal/model"
)

// DefaultPath is used when neither --config nor CONFIG_PATH is given.
const DefaultPath = "configs/config.yaml"

// Config holds all application configuration.
type Config struct {
	DataSource struct {
		Provider string        `yaml:"provider"`
		Suffix   string        `yaml:"suffix"`
		Proxy    string        `yaml:"proxy"`
		Timeout  time.Duration `yaml:"timeout"`
	} `yaml:"data_source"`
	Universe struct {
		Source  string   `yaml:"source"`
		URL     string   `yaml:"url"`
		Column  string   `yaml:"column"`
		Symbols []string `yaml:"symbols"`
	} `yaml:"universe"`
	Fetch struct {
		Retries int           `yaml:"retries"`
		Delay   time.Duration `yaml:"delay"`
	} `yaml:"fetch"`
	Cache struct {
		TTL time.Duration `yaml:"ttl"`
	} `yaml:"cache"`
	Scan struct {
		Period   string        `yaml:"period"`
		Interval string        `yaml:"interval"`
		Workers  int           `yaml:"workers"`
		Timeout  time.Duration `yaml:"timeout"`
		TopN     int           `yaml:"top_n"`
	} `yaml:"scan"`
	Movers struct {
		Period   string `yaml:"period"`
		Interval string `yaml:"interval"`
	} `yaml:"movers"`
	Dashboard struct {
		Symbol   string `yaml:"symbol"`
		Period   string `yaml:"period"`
		Interval string `yaml:"interval"`
	} `yaml:"dashboard"`
	Server struct {
		ListenAddr string `yaml:"listen_addr"`
	} `yaml:"server"`
	Schedule struct {
		RefreshCron string `yaml:"refresh_cron"`
	} `yaml:"schedule"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

// ResolvePath picks the config file: explicit flag, then CONFIG_PATH, then DefaultPath.
func ResolvePath(flag string) string {
	if flag != "" {
		return flag
	}
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v
	}
	return DefaultPath
}

// Load reads config from a YAML file, then .env, then applies environment variable overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	// Environment variable overrides
	if v := os.Getenv("DASHBOARD_PROVIDER"); v != "" {
		cfg.DataSource.Provider = v
	}
	if v := os.Getenv("UNIVERSE_SOURCE"); v != "" {
		cfg.Universe.Source = v
	}
	if v := os.Getenv("UNIVERSE_URL"); v != "" {
		cfg.Universe.URL = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.DataSource.Proxy = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("REFRESH_CRON"); v != "" {
		cfg.Schedule.RefreshCron = v
	}
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		cfg.Server.ListenAddr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("SCAN_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Scan.Workers = n
		}
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.DataSource.Provider == "" {
		c.DataSource.Provider = "yahoo"
	}
	if c.DataSource.Suffix == "" {
		c.DataSource.Suffix = ".NS"
	}
	if c.DataSource.Timeout == 0 {
		c.DataSource.Timeout = 30 * time.Second
	}
	if c.Universe.Source == "" {
		c.Universe.Source = "csv"
	}
	if c.Universe.Column == "" {
		c.Universe.Column = "Symbol"
	}
	if c.Fetch.Retries == 0 {
		c.Fetch.Retries = 3
	}
	if c.Fetch.Delay == 0 {
		c.Fetch.Delay = 5 * time.Second
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = 10 * time.Minute
	}
	if c.Scan.Period == "" {
		c.Scan.Period = string(model.Period3mo)
	}
	if c.Scan.Interval == "" {
		c.Scan.Interval = string(model.Interval1d)
	}
	if c.Movers.Period == "" {
		c.Movers.Period = string(model.Period1d)
	}
	if c.Movers.Interval == "" {
		c.Movers.Interval = string(model.Interval5m)
	}
	if c.Scan.Workers == 0 {
		c.Scan.Workers = 4
	}
	if c.Scan.Timeout == 0 {
		c.Scan.Timeout = 2 * time.Minute
	}
	if c.Scan.TopN == 0 {
		c.Scan.TopN = 5
	}
	if c.Dashboard.Period == "" {
		c.Dashboard.Period = string(model.Period1y)
	}
	if c.Dashboard.Interval == "" {
		c.Dashboard.Interval = string(model.Interval1d)
	}
	if c.Server.ListenAddr == "" {
		c.Server.ListenAddr = ":8080"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
	c.Dashboard.Symbol = strings.ToUpper(strings.TrimSpace(c.Dashboard.Symbol))
}

// Validate checks that every field holds a usable value.
func (c *Config) Validate() error {
	switch c.DataSource.Provider {
	case "yahoo", "finance-go", "mock":
	default:
		return fmt.Errorf("data_source.provider must be yahoo, finance-go or mock, got %q", c.DataSource.Provider)
	}
	switch c.Universe.Source {
	case "csv":
	case "html":
		if c.Universe.URL == "" {
			return fmt.Errorf("universe.url is required for the html source")
		}
	case "static":
		if len(c.Universe.Symbols) == 0 {
			return fmt.Errorf("universe.symbols is required for the static source")
		}
	default:
		return fmt.Errorf("universe.source must be csv, html or static, got %q", c.Universe.Source)
	}
	if c.Fetch.Retries < 1 {
		return fmt.Errorf("fetch.retries must be at least 1")
	}
	if c.Fetch.Delay < 0 {
		return fmt.Errorf("fetch.delay must not be negative")
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must not be negative")
	}
	if _, err := model.ParsePeriod(c.Scan.Period); err != nil {
		return fmt.Errorf("scan.period: %w", err)
	}
	if _, err := model.ParseInterval(c.Scan.Interval); err != nil {
		return fmt.Errorf("scan.interval: %w", err)
	}
	if _, err := model.ParsePeriod(c.Movers.Period); err != nil {
		return fmt.Errorf("movers.period: %w", err)
	}
	if _, err := model.ParseInterval(c.Movers.Interval); err != nil {
		return fmt.Errorf("movers.interval: %w", err)
	}
	if c.Scan.Workers < 1 {
		return fmt.Errorf("scan.workers must be at least 1")
	}
	if c.Scan.TopN < 1 {
		return fmt.Errorf("scan.top_n must be at least 1")
	}
	if _, err := model.ParsePeriod(c.Dashboard.Period); err != nil {
		return fmt.Errorf("dashboard.period: %w", err)
	}
	if _, err := model.ParseInterval(c.Dashboard.Interval); err != nil {
		return fmt.Errorf("dashboard.interval: %w", err)
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	return nil
}

// TelegramEnabled reports whether digests can be sent.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}
