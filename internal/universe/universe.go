// Package universe supplies the list of equity symbols a dashboard pass scans.
package universe

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// DefaultNifty200URL is the NSE constituents list for the Nifty 200 index.
const DefaultNifty200URL = "https://www.nseindia.com/content/indices/ind_nifty200list.csv"

// DefaultColumn is the header of the column holding ticker symbols.
const DefaultColumn = "Symbol"

// ErrUniverseUnavailable is returned when the symbol list cannot be obtained or is empty.
var ErrUniverseUnavailable = errors.New("symbol universe unavailable")

// Provider returns the ordered, de-duplicated universe for one pass.
type Provider interface {
	Symbols(ctx context.Context) ([]string, error)
}

// StaticProvider serves a fixed symbol list, typically from configuration.
type StaticProvider struct {
	List []string
}

func (p StaticProvider) Symbols(ctx context.Context) ([]string, error) {
	symbols := normalize(p.List)
	if len(symbols) == 0 {
		return nil, ErrUniverseUnavailable
	}
	return symbols, nil
}

func newClient(proxyURL string, timeout time.Duration) *resty.Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", "Mozilla/5.0").
		SetHeader("Accept", "text/csv,text/html,*/*")
	if proxyURL != "" {
		client.SetProxy(proxyURL)
	}
	return client
}

// normalize trims, upper-cases, drops blanks and duplicates, then sorts.
func normalize(raw []string) []string {
	seen := make(map[string]bool, len(raw))
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Options selects and configures a Provider.
type Options struct {
	Source  string // static, csv or html
	URL     string
	Column  string
	Symbols []string
	Proxy   string
	Timeout time.Duration
}

// New builds the provider named by opts.Source.
func New(opts Options) (Provider, error) {
	switch strings.ToLower(opts.Source) {
	case "", "csv":
		return NewCSVProvider(opts.URL, opts.Column, opts.Proxy, opts.Timeout), nil
	case "html":
		return NewHTMLProvider(opts.URL, opts.Column, opts.Proxy, opts.Timeout), nil
	case "static":
		return StaticProvider{List: opts.Symbols}, nil
	default:
		return nil, fmt.Errorf("unknown universe source %q", opts.Source)
	}
}
