package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("missing file should not fail: %v", err)
	}
	if cfg.DataSource.Provider != "yahoo" || cfg.DataSource.Suffix != ".NS" {
		t.Errorf("unexpected data source defaults: %+v", cfg.DataSource)
	}
	if cfg.Fetch.Retries != 3 || cfg.Fetch.Delay != 5*time.Second {
		t.Errorf("unexpected fetch defaults: %+v", cfg.Fetch)
	}
	if cfg.Cache.TTL != 10*time.Minute {
		t.Errorf("expected 10m cache ttl, got %s", cfg.Cache.TTL)
	}
	if cfg.Scan.Period != "3mo" || cfg.Scan.Interval != "1d" || cfg.Scan.TopN != 5 {
		t.Errorf("unexpected scan defaults: %+v", cfg.Scan)
	}
	if cfg.Movers.Period != "1d" || cfg.Movers.Interval != "5m" {
		t.Errorf("unexpected movers defaults: %+v", cfg.Movers)
	}
	if cfg.Dashboard.Period != "1y" || cfg.Dashboard.Interval != "1d" {
		t.Errorf("unexpected dashboard defaults: %+v", cfg.Dashboard)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := writeConfig(t, `
data_source:
  provider: finance-go
  timeout: 10s
universe:
  source: static
  symbols: [RELIANCE, TCS]
fetch:
  retries: 5
  delay: 250ms
dashboard:
  symbol: " tcs "
`)
	t.Setenv("LISTEN_ADDR", "127.0.0.1:9090")
	t.Setenv("REFRESH_CRON", "0 */15 9-15 * * 1-5")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DataSource.Provider != "finance-go" || cfg.DataSource.Timeout != 10*time.Second {
		t.Errorf("unexpected data source: %+v", cfg.DataSource)
	}
	if cfg.Fetch.Retries != 5 || cfg.Fetch.Delay != 250*time.Millisecond {
		t.Errorf("unexpected fetch: %+v", cfg.Fetch)
	}
	if strings.Join(cfg.Universe.Symbols, ",") != "RELIANCE,TCS" {
		t.Errorf("unexpected symbols: %v", cfg.Universe.Symbols)
	}
	if cfg.Dashboard.Symbol != "TCS" {
		t.Errorf("expected normalized symbol TCS, got %q", cfg.Dashboard.Symbol)
	}
	if cfg.Server.ListenAddr != "127.0.0.1:9090" {
		t.Errorf("env override not applied: %s", cfg.Server.ListenAddr)
	}
	if cfg.Schedule.RefreshCron != "0 */15 9-15 * * 1-5" {
		t.Errorf("env override not applied: %s", cfg.Schedule.RefreshCron)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected validation error: %v", err)
	}
}

func TestLoad_BadYAML(t *testing.T) {
	if _, err := Load(writeConfig(t, "fetch: [unterminated")); err == nil {
		t.Error("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad provider", func(c *Config) { c.DataSource.Provider = "bloomberg" }},
		{"static without symbols", func(c *Config) { c.Universe.Source = "static" }},
		{"html without url", func(c *Config) { c.Universe.Source = "html" }},
		{"bad scan period", func(c *Config) { c.Scan.Period = "2wk" }},
		{"bad movers interval", func(c *Config) { c.Movers.Interval = "2m" }},
		{"bad dashboard interval", func(c *Config) { c.Dashboard.Interval = "3m" }},
		{"negative retries", func(c *Config) { c.Fetch.Retries = -1 }},
		{"half telegram", func(c *Config) { c.Telegram.BotToken = "token" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			cfg.applyDefaults()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestResolvePath(t *testing.T) {
	t.Setenv("CONFIG_PATH", "/etc/dashboard.yaml")
	if got := ResolvePath("local.yaml"); got != "local.yaml" {
		t.Errorf("flag should win, got %s", got)
	}
	if got := ResolvePath(""); got != "/etc/dashboard.yaml" {
		t.Errorf("env should be used, got %s", got)
	}
	t.Setenv("CONFIG_PATH", "")
	if got := ResolvePath(""); got != DefaultPath {
		t.Errorf("expected default path, got %s", got)
	}
}
