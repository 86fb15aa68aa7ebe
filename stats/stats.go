// Package stats reduces a realized-trade sequence into summary
// performance statistics. All functions are pure; nothing is retained
// between calls.
package stats

import (
	"math"
	"sort"

	"github.com/rustyeddy/tradereport/ledger"
)

// Metrics is the aggregate over one report's realized trades.
type Metrics struct {
	TotalTrades   int
	WinningTrades int
	LosingTrades  int
	LongTrades    int
	ShortTrades   int

	WinRate    float64 // percent
	AvgGainPct float64 // mean GainPct among winners
	AvgLossPct float64 // mean |GainPct| among losers

	TotalProfit  float64
	ProfitFactor float64 // +Inf when wins exist and losses sum to zero
	AvgSizePct   float64

	LongProfit  float64
	ShortProfit float64
}

// Compute aggregates trades into Metrics. An empty slice returns the
// zero value: every ratio is 0, including the profit factor (infinity
// is reserved for the wins-without-losses case).
func Compute(trades []ledger.Trade) Metrics {
	var m Metrics
	if len(trades) == 0 {
		return m
	}

	var grossWin, grossLoss, gainSum, lossSum, sizeSum float64

	for _, t := range trades {
		m.TotalTrades++
		m.TotalProfit += t.Profit
		sizeSum += t.SizePct

		switch {
		case t.Profit > 0:
			m.WinningTrades++
			grossWin += t.Profit
			gainSum += t.GainPct
		case t.Profit < 0:
			m.LosingTrades++
			grossLoss += -t.Profit
			lossSum += math.Abs(t.GainPct)
		}

		if t.Side == ledger.Long {
			m.LongTrades++
			m.LongProfit += t.Profit
		} else {
			m.ShortTrades++
			m.ShortProfit += t.Profit
		}
	}

	m.WinRate = float64(m.WinningTrades) / float64(m.TotalTrades) * 100
	m.AvgSizePct = sizeSum / float64(m.TotalTrades)

	if m.WinningTrades > 0 {
		m.AvgGainPct = gainSum / float64(m.WinningTrades)
	}
	if m.LosingTrades > 0 {
		m.AvgLossPct = lossSum / float64(m.LosingTrades)
	}

	switch {
	case grossLoss > 0:
		m.ProfitFactor = grossWin / grossLoss
	case m.WinningTrades > 0:
		m.ProfitFactor = math.Inf(1)
	}

	return m
}

// GroupStats is one row of a report breakdown table.
type GroupStats struct {
	Key     string
	Trades  int
	Wins    int
	Profit  float64
	WinRate float64 // percent
}

// ByProduct groups trades by base symbol, rows in ascending key order.
func ByProduct(trades []ledger.Trade) []GroupStats {
	return groupBy(trades, func(t ledger.Trade) string { return t.BaseSymbol })
}

// BySide splits trades into long and short rows, long first.
func BySide(trades []ledger.Trade) []GroupStats {
	return groupBy(trades, func(t ledger.Trade) string { return string(t.Side) })
}

func groupBy(trades []ledger.Trade, key func(ledger.Trade) string) []GroupStats {
	groups := make(map[string]*GroupStats)
	for _, t := range trades {
		k := key(t)
		g, ok := groups[k]
		if !ok {
			g = &GroupStats{Key: k}
			groups[k] = g
		}
		g.Trades++
		g.Profit += t.Profit
		if t.Profit > 0 {
			g.Wins++
		}
	}

	out := make([]GroupStats, 0, len(groups))
	for _, g := range groups {
		g.WinRate = float64(g.Wins) / float64(g.Trades) * 100
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
