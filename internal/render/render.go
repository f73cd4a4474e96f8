// Package render draws dashboards for the terminal.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/shopspring/decimal"
	"github.com/tidwall/pretty"

	"github.com/Shirsha07/nifty-200-dashboard/internal/calculator"
	"github.com/Shirsha07/nifty-200-dashboard/internal/model"
	"github.com/Shirsha07/nifty-200-dashboard/internal/recorder"
)

// TailBars is how many enriched bars the terminal view shows.
const TailBars = 10

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")).
			MarginBottom(1)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#3B82F6"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F59E0B")).
			Bold(true)

	upStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	downStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))

	headerCell = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cell       = lipgloss.NewStyle().Padding(0, 1)
)

// Dashboard writes the full terminal view of a pass.
func Dashboard(w io.Writer, d *model.Dashboard) error {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Nifty 200 Dashboard") + "\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("run %s | %s | %d symbols (movers %s/%s, trend %s/%s) in %s",
		shortID(d.RunID), d.GeneratedAt.Local().Format("2006-01-02 15:04:05"),
		d.UniverseSize, d.MoversPeriod, d.MoversInterval, d.ScanPeriod, d.ScanInterval, d.Elapsed)) + "\n\n")

	if d.InsufficientData {
		b.WriteString(warnStyle.Render("Not enough data to calculate gainers and losers.") + "\n\n")
	} else {
		b.WriteString(sectionStyle.Render("Top Gainers") + "\n")
		b.WriteString(Movers(d.Gainers) + "\n\n")
		b.WriteString(sectionStyle.Render("Top Losers") + "\n")
		b.WriteString(Movers(d.Losers) + "\n\n")
	}

	b.WriteString(sectionStyle.Render(fmt.Sprintf("Strong Uptrend (%d)", len(d.Trending))) + "\n")
	if len(d.Trending) == 0 {
		b.WriteString(mutedStyle.Render("No symbols in a strong uptrend.") + "\n\n")
	} else {
		b.WriteString(strings.Join(d.Trending, ", ") + "\n\n")
	}

	if s := d.Selected; s != nil {
		b.WriteString(sectionStyle.Render(fmt.Sprintf("%s (%s / %s)", s.Symbol, s.Period, s.Interval)) + "\n")
		if s.Summary == nil {
			b.WriteString(warnStyle.Render("No data available for the selected symbol.") + "\n\n")
		} else {
			b.WriteString(Summary(s.Summary) + "\n")
			if len(s.Enriched.Bars) > 0 {
				b.WriteString(Indicators(s.Enriched, TailBars) + "\n")
			}
			b.WriteString("\n")
		}
	}

	if len(d.Failed) > 0 {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("No data for %d symbols: %s", len(d.Failed), strings.Join(d.Failed, ", "))) + "\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// Movers renders a ranked gainers or losers table.
func Movers(records []model.MoverRecord) string {
	t := newTable("#", "Symbol", "Latest", "Previous", "Change %")
	for i, m := range records {
		t.Row(strconv.Itoa(i+1), m.Symbol, Price(m.LatestPrice), Price(m.PreviousPrice), Percent(m.PercentChange))
	}
	return t.Render()
}

// Summary renders the latest bar with the period range.
func Summary(s *model.Summary) string {
	t := newTable("Date", "Open", "High", "Low", "Close", "Period High", "Period Low", "Range Pos")
	t.Row(
		s.Latest.Time.Format("2006-01-02"),
		Price(s.Latest.Open), Price(s.Latest.High), Price(s.Latest.Low), Price(s.Latest.Close),
		Price(s.PeriodHigh), Price(s.PeriodLow),
		decimal.NewFromFloat(s.Position*100).StringFixed(1)+"%",
	)
	return t.Render()
}

// Indicators renders the last n enriched bars.
func Indicators(series model.EnrichedSeries, n int) string {
	bars := series.Bars
	if n > 0 && len(bars) > n {
		bars = bars[len(bars)-n:]
	}
	t := newTable("Date", "Close", "SMA20", "RSI14", "")
	for _, bar := range bars {
		t.Row(bar.Time.Format("2006-01-02"), Price(bar.Close), Price(bar.SMA20), Price(bar.RSI14), rsiZone(bar.RSI14))
	}
	return t.Render()
}

// History renders recorded passes.
func History(passes []recorder.PassRecord) string {
	t := newTable("Run", "When", "Trigger", "Symbols", "Failed", "Trending", "Top Gainer", "Top Loser")
	for _, p := range passes {
		t.Row(shortID(p.RunID), p.Timestamp.Local().Format("2006-01-02 15:04:05"), string(p.Trigger),
			strconv.Itoa(p.UniverseSize), strconv.Itoa(p.Failed), strconv.Itoa(p.Trending),
			topMover(p.Movers, "gainer"), topMover(p.Movers, "loser"))
	}
	return t.Render()
}

// Symbols renders the universe in fixed-width columns.
func Symbols(symbols []string, columns int) string {
	if columns < 1 {
		columns = 1
	}
	width := 0
	for _, s := range symbols {
		if len(s) > width {
			width = len(s)
		}
	}
	var b strings.Builder
	for i, s := range symbols {
		b.WriteString(fmt.Sprintf("%-*s", width+2, s))
		if (i+1)%columns == 0 || i == len(symbols)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// JSON writes v as indented, optionally colorized JSON.
func JSON(w io.Writer, v any, color bool) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	out := pretty.Pretty(data)
	if color {
		out = pretty.Color(out, nil)
	}
	_, err = w.Write(out)
	return err
}

// Price formats a price with two decimals.
func Price(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// Percent formats a signed, colored percentage with two decimals.
func Percent(v float64) string {
	d := decimal.NewFromFloat(v).Round(2)
	switch {
	case d.IsPositive():
		return upStyle.Render("+" + d.StringFixed(2))
	case d.IsNegative():
		return downStyle.Render(d.StringFixed(2))
	default:
		return d.StringFixed(2)
	}
}

func rsiZone(rsi float64) string {
	switch {
	case rsi >= calculator.RSIOverbought:
		return downStyle.Render("overbought")
	case rsi <= calculator.RSIOversold:
		return upStyle.Render("oversold")
	default:
		return ""
	}
}

func topMover(movers []recorder.MoverRecord, side string) string {
	for _, m := range movers {
		if m.Side == side && m.Rank == 1 {
			return m.Symbol + " " + decimal.NewFromFloat(m.PercentChange).StringFixed(2) + "%"
		}
	}
	return "-"
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(mutedStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerCell
			}
			return cell
		})
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
