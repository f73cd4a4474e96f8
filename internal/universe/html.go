package universe

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
)

// HTMLProvider scrapes the first table on a page whose header row has the symbol column.
type HTMLProvider struct {
	URL    string
	Column string
	client *resty.Client
}

// NewHTMLProvider creates an HTML table provider.
func NewHTMLProvider(url, column, proxyURL string, timeout time.Duration) *HTMLProvider {
	if column == "" {
		column = DefaultColumn
	}
	return &HTMLProvider{URL: url, Column: column, client: newClient(proxyURL, timeout)}
}

func (p *HTMLProvider) Symbols(ctx context.Context) ([]string, error) {
	if p.URL == "" {
		return nil, fmt.Errorf("%w: html source needs a url", ErrUniverseUnavailable)
	}
	resp, err := p.client.R().SetContext(ctx).Get(p.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: download %s: %w", ErrUniverseUnavailable, p.URL, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: download %s: status %d", ErrUniverseUnavailable, p.URL, resp.StatusCode())
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(resp.String()))
	if err != nil {
		return nil, fmt.Errorf("%w: parse html: %w", ErrUniverseUnavailable, err)
	}
	symbols := parseTable(doc, p.Column)
	if len(symbols) == 0 {
		return nil, fmt.Errorf("%w: no %q column in %s", ErrUniverseUnavailable, p.Column, p.URL)
	}
	return symbols, nil
}

func parseTable(doc *goquery.Document, column string) []string {
	var raw []string
	doc.Find("table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		idx := -1
		table.Find("tr").First().Find("th, td").Each(func(i int, cell *goquery.Selection) {
			if idx < 0 && strings.EqualFold(strings.TrimSpace(cell.Text()), column) {
				idx = i
			}
		})
		if idx < 0 {
			return true
		}
		table.Find("tr").Slice(1, goquery.ToEnd).Each(func(_ int, row *goquery.Selection) {
			cell := row.Find("td").Eq(idx)
			if cell.Length() > 0 {
				raw = append(raw, cell.Text())
			}
		})
		return false
	})
	return normalize(raw)
}
