package universe

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// CSVProvider downloads a constituents CSV and reads one column of it.
type CSVProvider struct {
	URL    string
	Column string
	client *resty.Client
}

// NewCSVProvider creates a CSV provider. Empty url and column fall back to the Nifty 200 list.
func NewCSVProvider(url, column, proxyURL string, timeout time.Duration) *CSVProvider {
	if url == "" {
		url = DefaultNifty200URL
	}
	if column == "" {
		column = DefaultColumn
	}
	return &CSVProvider{URL: url, Column: column, client: newClient(proxyURL, timeout)}
}

func (p *CSVProvider) Symbols(ctx context.Context) ([]string, error) {
	resp, err := p.client.R().SetContext(ctx).Get(p.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: download %s: %w", ErrUniverseUnavailable, p.URL, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: download %s: status %d", ErrUniverseUnavailable, p.URL, resp.StatusCode())
	}

	symbols, err := parseCSV(strings.NewReader(resp.String()), p.Column)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUniverseUnavailable, err)
	}
	if len(symbols) == 0 {
		return nil, fmt.Errorf("%w: no symbols in %s", ErrUniverseUnavailable, p.URL)
	}
	return symbols, nil
}

func parseCSV(r io.Reader, column string) ([]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	idx := -1
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")), column) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("column %q not found in csv header", column)
	}

	var raw []string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		if idx < len(record) {
			raw = append(raw, record[idx])
		}
	}
	return normalize(raw), nil
}
