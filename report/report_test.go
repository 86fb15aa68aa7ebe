package report

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/tradereport/market"
)

var t0 = time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

func order(sym string, minutes int, qty, price float64) market.Order {
	base := market.BaseSymbol(sym)
	return market.Order{
		Time:       t0.Add(time.Duration(minutes) * time.Minute),
		Symbol:     sym,
		BaseSymbol: base,
		Quantity:   qty,
		Price:      price,
		Multiplier: market.MultiplierFor(base),
	}
}

// fullReport builds a report containing winners, losers, both sides,
// two products and a leftover open position.
func fullReport(t *testing.T) *Report {
	t.Helper()

	orders := []market.Order{
		order("ES09-25", 0, 2, 5000),
		order("ES09-25", 30, -2, 5010),   // long win
		order("ES09-25", 60, -1, 5020),   // open short
		order("ES09-25", 90, 1, 5030),    // short loss
		order("NQ12-25", 120, 3, 20000),  //
		order("NQ12-25", 150, -1, 19950), // long loss, 2 left open
	}

	r, err := Build(orders, "orders.csv", market.CapitalBase, t0)
	require.NoError(t, err)
	require.Len(t, r.Trades, 3)
	require.Len(t, r.Open, 1)
	return r
}

func TestBuildRejectsEmptyInput(t *testing.T) {
	t.Parallel()

	_, err := Build(nil, "orders.csv", market.CapitalBase, t0)
	assert.ErrorIs(t, err, ErrNoOrders)
}

func TestRenderSections(t *testing.T) {
	t.Parallel()

	text := fullReport(t).String()

	for _, want := range []string{
		strings.Repeat("=", 80),
		Title,
		"Generated on: ",
		"OVERALL PERFORMANCE",
		"POSITION BREAKDOWN",
		"REALIZED TRADES (3)",
		"OPEN POSITIONS (1)",
		"PERFORMANCE BY PRODUCT",
		"PERFORMANCE BY POSITION TYPE",
		"Source: orders.csv",
		"Capital base: $100,000",
	} {
		assert.Contains(t, text, want)
	}
}

func TestRenderOmitsEmptyOpenPositions(t *testing.T) {
	t.Parallel()

	orders := []market.Order{
		order("ES09-25", 0, 1, 5000),
		order("ES09-25", 10, -1, 5010),
	}
	r, err := Build(orders, "flat.csv", market.CapitalBase, t0)
	require.NoError(t, err)
	require.Empty(t, r.Open)

	assert.NotContains(t, r.String(), "OPEN POSITIONS")
}

func TestRenderTradeRowsHaveFourteenFields(t *testing.T) {
	t.Parallel()

	text := fullReport(t).String()

	inTrades := false
	rows := 0
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, secTrades+" ("):
			inTrades = true
			continue
		case strings.HasPrefix(trimmed, secOpen+" ("):
			inTrades = false
		}
		if inTrades && trimmed != "" && !isRule(trimmed) {
			fields := strings.Fields(trimmed)
			if len(fields) == tradeRowFields {
				rows++
			}
		}
	}
	assert.Equal(t, 3, rows)
}

func TestRenderMoneyFormats(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "$123.45", money(123.45))
	assert.Equal(t, "-$123.45", money(-123.45))
	assert.Equal(t, "$0.00", money(0))
	assert.Equal(t, "Inf", factor(math.Inf(1)))
	assert.Equal(t, "2.50", factor(2.5))
	assert.Equal(t, "100,000", thousands(100000))
	assert.Equal(t, "999", thousands(999))
	assert.Equal(t, "1,234,567", thousands(1234567))
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	want := fullReport(t)
	got, err := Parse(strings.NewReader(want.String()))
	require.NoError(t, err)

	assert.Equal(t, want.GeneratedAt.Format(generatedLayout), got.GeneratedAt.Format(generatedLayout))
	assert.Equal(t, want.Source, got.Source)
	assert.InDelta(t, want.CapitalBase, got.CapitalBase, 0.5)

	// Metrics within formatting precision.
	assert.Equal(t, want.Metrics.TotalTrades, got.Metrics.TotalTrades)
	assert.Equal(t, want.Metrics.WinningTrades, got.Metrics.WinningTrades)
	assert.Equal(t, want.Metrics.LosingTrades, got.Metrics.LosingTrades)
	assert.Equal(t, want.Metrics.LongTrades, got.Metrics.LongTrades)
	assert.Equal(t, want.Metrics.ShortTrades, got.Metrics.ShortTrades)
	assert.InDelta(t, want.Metrics.WinRate, got.Metrics.WinRate, 0.05)
	assert.InDelta(t, want.Metrics.AvgGainPct, got.Metrics.AvgGainPct, 0.005)
	assert.InDelta(t, want.Metrics.AvgLossPct, got.Metrics.AvgLossPct, 0.005)
	assert.InDelta(t, want.Metrics.TotalProfit, got.Metrics.TotalProfit, 0.005)
	assert.InDelta(t, want.Metrics.ProfitFactor, got.Metrics.ProfitFactor, 0.005)
	assert.InDelta(t, want.Metrics.AvgSizePct, got.Metrics.AvgSizePct, 0.005)
	assert.InDelta(t, want.Metrics.LongProfit, got.Metrics.LongProfit, 0.005)
	assert.InDelta(t, want.Metrics.ShortProfit, got.Metrics.ShortProfit, 0.005)

	// Every trade row survives, no silent drops.
	require.Len(t, got.Trades, len(want.Trades))
	for i, w := range want.Trades {
		g := got.Trades[i]
		assert.Equal(t, w.ID, g.ID)
		assert.Equal(t, w.Symbol, g.Symbol)
		assert.Equal(t, w.BaseSymbol, g.BaseSymbol)
		assert.Equal(t, w.Side, g.Side)
		assert.Equal(t, w.EntryTime.Format(timeLayout), g.EntryTime.Format(timeLayout))
		assert.Equal(t, w.ExitTime.Format(timeLayout), g.ExitTime.Format(timeLayout))
		assert.InDelta(t, w.Quantity, g.Quantity, 0.5)
		assert.InDelta(t, w.EntryPrice, g.EntryPrice, 0.005)
		assert.InDelta(t, w.ExitPrice, g.ExitPrice, 0.005)
		assert.InDelta(t, w.Profit, g.Profit, 0.005)
		assert.InDelta(t, w.GainPct, g.GainPct, 0.005)
		assert.InDelta(t, w.SizePct, g.SizePct, 0.005)
	}

	require.Len(t, got.Open, len(want.Open))
	for i, w := range want.Open {
		g := got.Open[i]
		assert.Equal(t, w.Symbol, g.Symbol)
		assert.InDelta(t, w.Quantity, g.Quantity, 0.5)
		assert.InDelta(t, w.AvgPrice, g.AvgPrice, 0.005)
		assert.InDelta(t, w.CostBasis, g.CostBasis, 0.005)
		assert.InDelta(t, w.SizePct, g.SizePct, 0.005)
		assert.Equal(t, w.OpenedAt.Format(timeLayout), g.OpenedAt.Format(timeLayout))
	}

	require.Len(t, got.ByProduct, len(want.ByProduct))
	for i, w := range want.ByProduct {
		g := got.ByProduct[i]
		assert.Equal(t, w.Key, g.Key)
		assert.Equal(t, w.Trades, g.Trades)
		assert.Equal(t, w.Wins, g.Wins)
		assert.InDelta(t, w.WinRate, g.WinRate, 0.05)
		assert.InDelta(t, w.Profit, g.Profit, 0.005)
	}

	require.Len(t, got.BySide, len(want.BySide))
	for i, w := range want.BySide {
		g := got.BySide[i]
		assert.Equal(t, w.Key, g.Key)
		assert.Equal(t, w.Trades, g.Trades)
		assert.InDelta(t, w.Profit, g.Profit, 0.005)
	}
}

func TestParseInfiniteProfitFactor(t *testing.T) {
	t.Parallel()

	orders := []market.Order{
		order("ES09-25", 0, 1, 5000),
		order("ES09-25", 10, -1, 5010), // single winner, no losers
	}
	r, err := Build(orders, "wins.csv", market.CapitalBase, t0)
	require.NoError(t, err)
	require.True(t, math.IsInf(r.Metrics.ProfitFactor, 1))

	got, err := Parse(strings.NewReader(r.String()))
	require.NoError(t, err)
	assert.True(t, math.IsInf(got.Metrics.ProfitFactor, 1))
}
