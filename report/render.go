package report

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// Render serializes the report as the canonical text document.
func (r *Report) Render(w io.Writer) error {
	var b strings.Builder

	eq := strings.Repeat("=", ruleWidth)
	dash := strings.Repeat("-", ruleWidth)

	b.WriteString(eq + "\n")
	b.WriteString(Title + "\n")
	b.WriteString("Generated on: " + r.GeneratedAt.Format(generatedLayout) + "\n")
	b.WriteString(eq + "\n\n")

	m := r.Metrics

	b.WriteString(secOverall + "\n")
	b.WriteString(dash + "\n")
	fmt.Fprintf(&b, "Total Trades:      %d\n", m.TotalTrades)
	fmt.Fprintf(&b, "Winning Trades:    %d\n", m.WinningTrades)
	fmt.Fprintf(&b, "Losing Trades:     %d\n", m.LosingTrades)
	fmt.Fprintf(&b, "Win Rate:          %.1f%%\n", m.WinRate)
	fmt.Fprintf(&b, "Average Gain:      %.2f%%\n", m.AvgGainPct)
	fmt.Fprintf(&b, "Average Loss:      %.2f%%\n", m.AvgLossPct)
	fmt.Fprintf(&b, "Total P/L:         %s\n", money(m.TotalProfit))
	fmt.Fprintf(&b, "Profit Factor:     %s\n", factor(m.ProfitFactor))
	fmt.Fprintf(&b, "Average Size:      %.2f%% of capital\n", m.AvgSizePct)
	b.WriteString("\n")

	b.WriteString(secBreakdown + "\n")
	b.WriteString(dash + "\n")
	fmt.Fprintf(&b, "Long Trades:       %d\n", m.LongTrades)
	fmt.Fprintf(&b, "Short Trades:      %d\n", m.ShortTrades)
	fmt.Fprintf(&b, "Long P/L:          %s\n", money(m.LongProfit))
	fmt.Fprintf(&b, "Short P/L:         %s\n", money(m.ShortProfit))
	b.WriteString("\n")

	fmt.Fprintf(&b, "%s (%d)\n", secTrades, len(r.Trades))
	b.WriteString(dash + "\n")
	b.WriteString("  ID SYMBOL         TYPE   POSITION ENTRY                EXIT                   QTY     ENTRY      EXIT       PROFIT   GAIN%    SIZE%\n")
	for _, t := range r.Trades {
		fmt.Fprintf(&b, "%4d %-14s %-6s %-8s %s  %s %5.0f %9.2f %9.2f %12.2f %8.2f %8.2f\n",
			t.ID, t.Symbol, t.BaseSymbol, t.Side,
			t.EntryTime.Format(timeLayout), t.ExitTime.Format(timeLayout),
			t.Quantity, t.EntryPrice, t.ExitPrice, t.Profit, t.GainPct, t.SizePct)
	}
	b.WriteString("\n")

	if len(r.Open) > 0 {
		fmt.Fprintf(&b, "%s (%d)\n", secOpen, len(r.Open))
		b.WriteString(dash + "\n")
		b.WriteString("SYMBOL            QTY AVG_PRICE   COST_BASIS   SIZE% OPENED\n")
		for _, p := range r.Open {
			fmt.Fprintf(&b, "%-14s %6.0f %9.2f %12.2f %7.2f %s\n",
				p.Symbol, p.Quantity, p.AvgPrice, p.CostBasis, p.SizePct,
				p.OpenedAt.Format(timeLayout))
		}
		b.WriteString("\n")
	}

	b.WriteString(secByProduct + "\n")
	b.WriteString(dash + "\n")
	b.WriteString("PRODUCT  TRADES  WINS WIN_RATE    TOTAL P/L\n")
	for _, g := range r.ByProduct {
		fmt.Fprintf(&b, "%-8s %6d %5d %8.1f %12.2f\n",
			g.Key, g.Trades, g.Wins, g.WinRate, g.Profit)
	}
	b.WriteString("\n")

	b.WriteString(secBySide + "\n")
	b.WriteString(dash + "\n")
	b.WriteString("SIDE     TRADES  WINS WIN_RATE    TOTAL P/L\n")
	for _, g := range r.BySide {
		fmt.Fprintf(&b, "%-8s %6d %5d %8.1f %12.2f\n",
			g.Key, g.Trades, g.Wins, g.WinRate, g.Profit)
	}
	b.WriteString("\n")

	b.WriteString(dash + "\n")
	fmt.Fprintf(&b, "Source: %s\n", r.Source)
	fmt.Fprintf(&b, "Capital base: $%s\n", thousands(int64(math.Round(r.CapitalBase))))

	_, err := io.WriteString(w, b.String())
	return err
}

// String renders to a string, never failing.
func (r *Report) String() string {
	var b strings.Builder
	_ = r.Render(&b)
	return b.String()
}

// money formats a signed currency amount, minus sign ahead of the $.
func money(v float64) string {
	if v < 0 {
		return fmt.Sprintf("-$%.2f", -v)
	}
	return fmt.Sprintf("$%.2f", v)
}

// factor renders a profit factor; the wins-without-losses case prints
// as Inf.
func factor(v float64) string {
	if math.IsInf(v, 1) {
		return "Inf"
	}
	return fmt.Sprintf("%.2f", v)
}

// thousands renders an integer with comma grouping, e.g. 100,000.
func thousands(v int64) string {
	s := strconv.FormatInt(v, 10)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)

	out := strings.Join(parts, ",")
	if neg {
		out = "-" + out
	}
	return out
}
