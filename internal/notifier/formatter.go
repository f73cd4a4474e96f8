package notifier

import (
	"fmt"
	"html"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Shirsha07/nifty-200-dashboard/internal/model"
)

// maxListed caps long symbol lists so a digest stays under Telegram's message limit.
const maxListed = 25

// FormatDashboard formats one render pass into a Telegram HTML digest.
func FormatDashboard(d *model.Dashboard) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>Nifty 200 Dashboard</b> | %s\n", d.GeneratedAt.Format("2006-01-02 15:04 MST")))
	b.WriteString(fmt.Sprintf("Scanned %d symbols (%s/%s) in %s\n\n", d.UniverseSize, d.ScanPeriod, d.ScanInterval, d.Elapsed))

	if d.InsufficientData {
		b.WriteString("⚠️ Not enough data to rank movers.\n\n")
	} else {
		b.WriteString("🚀 <b>Top gainers</b>\n")
		writeMovers(&b, d.Gainers)
		b.WriteString("\n🔻 <b>Top losers</b>\n")
		writeMovers(&b, d.Losers)
		b.WriteString("\n")
	}

	b.WriteString(fmt.Sprintf("📈 <b>Strong uptrends</b> (%d)\n", len(d.Trending)))
	if len(d.Trending) == 0 {
		b.WriteString("  none\n")
	} else {
		b.WriteString("  " + joinCapped(d.Trending) + "\n")
	}

	if s := d.Selected; s != nil && s.Summary != nil {
		sum := s.Summary
		b.WriteString(fmt.Sprintf("\n🔎 <b>%s</b> (%s/%s)\n", html.EscapeString(s.Symbol), s.Period, s.Interval))
		b.WriteString(fmt.Sprintf("  Close: %s | High: %s | Low: %s\n",
			price(sum.Latest.Close), price(sum.PeriodHigh), price(sum.PeriodLow)))
		if n := len(s.Enriched.Bars); n > 0 {
			last := s.Enriched.Bars[n-1]
			b.WriteString(fmt.Sprintf("  SMA20: %s | RSI14: %s\n", price(last.SMA20), price(last.RSI14)))
		}
	}

	if len(d.Failed) > 0 {
		b.WriteString(fmt.Sprintf("\n❌ No data for %d symbols: %s\n", len(d.Failed), joinCapped(d.Failed)))
	}
	return b.String()
}

func writeMovers(b *strings.Builder, records []model.MoverRecord) {
	for i, m := range records {
		b.WriteString(fmt.Sprintf("  %d. %s %s (%s%%)\n",
			i+1, html.EscapeString(m.Symbol), price(m.LatestPrice), signed(m.PercentChange)))
	}
}

func price(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

func signed(v float64) string {
	d := decimal.NewFromFloat(v).Round(2)
	if d.IsPositive() {
		return "+" + d.StringFixed(2)
	}
	return d.StringFixed(2)
}

func joinCapped(symbols []string) string {
	if len(symbols) <= maxListed {
		return html.EscapeString(strings.Join(symbols, ", "))
	}
	return html.EscapeString(strings.Join(symbols[:maxListed], ", ")) +
		fmt.Sprintf(" … +%d more", len(symbols)-maxListed)
}
