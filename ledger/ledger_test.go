package ledger

import (
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

func TestSameDirectionProducesNoTrades(t *testing.T) {
	t.Parallel()

	l := New(market.CapitalBase)

	assert.Empty(t, l.Apply(order("ES09-25", 0, 2, 5000)))
	assert.Empty(t, l.Apply(order("ES09-25", 5, 3, 5010)))
	assert.Empty(t, l.Apply(order("ES09-25", 10, 1, 5020)))

	open := l.OpenPositions()
	require.Len(t, open, 1)

	// VWAP of (2@5000, 3@5010, 1@5020)
	want := (2*5000.0 + 3*5010 + 1*5020) / 6
	assert.Equal(t, "ES09-25", open[0].Symbol)
	assert.Equal(t, 6.0, open[0].Quantity)
	assert.InDelta(t, want, open[0].AvgPrice, 1e-9)
	assert.Equal(t, t0, open[0].OpenedAt)
}

func TestFlattenLeavesNoOpenPositions(t *testing.T) {
	t.Parallel()

	l := New(market.CapitalBase)
	l.Apply(order("NQ12-25", 0, 4, 20000))
	trades := l.Apply(order("NQ12-25", 30, -4, 20100))

	require.Len(t, trades, 1)
	assert.Equal(t, 4.0, trades[0].Quantity)
	assert.Empty(t, l.OpenPositions())
	assert.Equal(t, 0.0, l.Net("NQ12-25"))
}

func TestFIFOPartialClose(t *testing.T) {
	t.Parallel()

	l := New(market.CapitalBase)
	l.Apply(order("ES09-25", 0, 3, 5000))
	l.Apply(order("ES09-25", 10, 5, 5005))

	trades := l.Apply(order("ES09-25", 20, -4, 5010))
	require.Len(t, trades, 2)

	// Oldest lot (3 @ 5000) closes first and fully.
	assert.Equal(t, 1, trades[0].ID)
	assert.Equal(t, 3.0, trades[0].Quantity)
	assert.Equal(t, 5000.0, trades[0].EntryPrice)

	// Then one unit of the 5-lot.
	assert.Equal(t, 2, trades[1].ID)
	assert.Equal(t, 1.0, trades[1].Quantity)
	assert.Equal(t, 5005.0, trades[1].EntryPrice)

	open := l.OpenPositions()
	require.Len(t, open, 1)
	assert.Equal(t, 4.0, open[0].Quantity)
	assert.Equal(t, 5005.0, open[0].AvgPrice)
}

func TestPositionFlipInOneFill(t *testing.T) {
	t.Parallel()

	l := New(market.CapitalBase)
	l.Apply(order("ES09-25", 0, 3, 100))

	trades := l.Apply(order("ES09-25", 60, -5, 110))
	require.Len(t, trades, 1)

	assert.Equal(t, Long, trades[0].Side)
	assert.Equal(t, 3.0, trades[0].Quantity)
	assert.InDelta(t, (110.0-100)*50*3, trades[0].Profit, 1e-9)
	assert.InDelta(t, 60.0, trades[0].Duration, 1e-9)

	open := l.OpenPositions()
	require.Len(t, open, 1)
	assert.Equal(t, -2.0, open[0].Quantity)
	assert.Equal(t, 110.0, open[0].AvgPrice)
	assert.Equal(t, -2.0, l.Net("ES09-25"))
}

func TestShortSideProfit(t *testing.T) {
	t.Parallel()

	l := New(market.CapitalBase)
	l.Apply(order("CL01-26", 0, -2, 80))
	trades := l.Apply(order("CL01-26", 15, 2, 78))

	require.Len(t, trades, 1)
	assert.Equal(t, Short, trades[0].Side)
	assert.InDelta(t, (80.0-78)*1000*2, trades[0].Profit, 1e-9)
	assert.InDelta(t, (80.0-78)/80*100, trades[0].GainPct, 1e-9)
}

func TestSideReflectsClosedLotNotClosingOrder(t *testing.T) {
	t.Parallel()

	l := New(market.CapitalBase)
	l.Apply(order("GC02-26", 0, -1, 2400))

	// A buy order closes a short lot: the trade is a short trade.
	trades := l.Apply(order("GC02-26", 5, 1, 2410))
	require.Len(t, trades, 1)
	assert.Equal(t, Short, trades[0].Side)
}

func TestZeroEntryPriceYieldsZeroGain(t *testing.T) {
	t.Parallel()

	l := New(market.CapitalBase)
	l.Apply(order("ES09-25", 0, 1, 0))
	trades := l.Apply(order("ES09-25", 1, -1, 10))

	require.Len(t, trades, 1)
	assert.Equal(t, 0.0, trades[0].GainPct)
	assert.False(t, trades[0].GainPct != trades[0].GainPct, "must not be NaN")
}

func TestNetInvariantAcrossMixedSymbols(t *testing.T) {
	t.Parallel()

	l := New(market.CapitalBase)
	seq := []market.Order{
		order("ES09-25", 0, 2, 5000),
		order("NQ12-25", 1, -3, 20000),
		order("ES09-25", 2, -5, 5010),
		order("NQ12-25", 3, 1, 19950),
		order("ES09-25", 4, 3, 5020),
	}

	net := map[string]float64{}
	for _, o := range seq {
		l.Apply(o)
		net[o.Symbol] += o.Quantity
		assert.Equal(t, net[o.Symbol], l.Net(o.Symbol))
	}

	// ES: 2 -5 +3 = 0, NQ: -3 +1 = -2
	open := l.OpenPositions()
	require.Len(t, open, 1)
	assert.Equal(t, "NQ12-25", open[0].Symbol)
	assert.Equal(t, -2.0, open[0].Quantity)
}

func TestTagsPropagate(t *testing.T) {
	t.Parallel()

	l := New(market.CapitalBase)

	entry := order("ES09-25", 0, 1, 5000)
	entry.Tag = "breakout"
	exit := order("ES09-25", 10, -1, 5010)
	exit.Tag = "target"

	l.Apply(entry)
	trades := l.Apply(exit)

	require.Len(t, trades, 1)
	assert.Equal(t, "breakout", trades[0].EntryTag)
	assert.Equal(t, "target", trades[0].ExitTag)
}

func TestReplay(t *testing.T) {
	t.Parallel()

	trades, open := Replay([]market.Order{
		order("ES09-25", 0, 3, 5000),
		order("ES09-25", 10, 5, 5005),
		order("ES09-25", 20, -4, 5010),
	}, market.CapitalBase)

	assert.Len(t, trades, 2)
	require.Len(t, open, 1)
	assert.Equal(t, 4.0, open[0].Quantity)
}
