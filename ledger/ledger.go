// Package ledger reconstructs realized round-trip trades from a
// chronological sequence of order fills using FIFO lot matching.
package ledger

import (
	"math"
	"sort"
	"time"

	"github.com/rustyeddy/tradereport/market"
)

// Side is the direction of the lot a trade closed, not the direction
// of the order that closed it.
type Side string

const (
	Long  Side = "long"
	Short Side = "short"
)

// Lot is an unclosed slice of a position. Quantity keeps the sign of
// the opening order; partially closed lots have it reduced in place.
type Lot struct {
	Quantity float64
	Price    float64
	Time     time.Time
	Tag      string
}

// Trade is one realized close event. Immutable once emitted.
type Trade struct {
	ID         int
	Symbol     string
	BaseSymbol string
	Side       Side
	Quantity   float64 // always positive
	EntryTime  time.Time
	EntryPrice float64
	ExitTime   time.Time
	ExitPrice  float64
	Profit     float64 // account currency
	GainPct    float64 // direction-aware, relative to entry price
	SizePct    float64 // entry notional as % of capital base
	Duration   float64 // minutes between entry and exit
	EntryTag   string
	ExitTag    string
}

// OpenPosition is the unclosed remainder for a symbol after all
// orders have been applied.
type OpenPosition struct {
	Symbol     string
	BaseSymbol string
	Quantity   float64 // net signed
	AvgPrice   float64 // volume-weighted over remaining lots
	CostBasis  float64 // remaining entry notional
	SizePct    float64 // cost basis as % of capital base
	OpenedAt   time.Time
}

// book holds the FIFO queue and running net position for one symbol.
type book struct {
	baseSymbol string
	multiplier float64
	net        float64
	lots       []Lot
}

// Ledger owns the per-symbol books for exactly one report's lifetime.
// Orders must be applied one at a time in ascending timestamp order.
type Ledger struct {
	capitalBase float64
	books       map[string]*book
	nextID      int
}

// New returns an empty ledger. Trade and open-position sizes are
// expressed against capitalBase.
func New(capitalBase float64) *Ledger {
	return &Ledger{
		capitalBase: capitalBase,
		books:       make(map[string]*book),
		nextID:      1,
	}
}

// Apply consumes one order and returns the trades it realized, oldest
// lot first. An order that flattens and flips a position in one fill
// produces closing trades plus a fresh lot in the new direction.
func (l *Ledger) Apply(o market.Order) []Trade {
	b, ok := l.books[o.Symbol]
	if !ok {
		b = &book{baseSymbol: o.BaseSymbol, multiplier: o.Multiplier}
		l.books[o.Symbol] = b
	}

	var trades []Trade
	remaining := math.Abs(o.Quantity)

	if opposes(o.Quantity, b.net) {
		toClose := math.Min(remaining, math.Abs(b.net))
		remaining -= toClose

		for toClose > 0 && len(b.lots) > 0 {
			lot := &b.lots[0]
			closed := math.Min(toClose, math.Abs(lot.Quantity))

			trades = append(trades, l.close(b, o, *lot, closed))

			toClose -= closed
			if math.Abs(lot.Quantity) <= closed {
				b.lots = b.lots[1:]
			} else {
				lot.Quantity -= sign(lot.Quantity) * closed
			}
		}
	}

	// Whatever the close did not consume opens inventory in the
	// order's direction.
	if remaining > 0 {
		b.lots = append(b.lots, Lot{
			Quantity: sign(o.Quantity) * remaining,
			Price:    o.Price,
			Time:     o.Time,
			Tag:      o.Tag,
		})
	}

	b.net += o.Quantity
	return trades
}

// close realizes quantity units of lot against the exiting order.
func (l *Ledger) close(b *book, o market.Order, lot Lot, quantity float64) Trade {
	side := Long
	direction := 1.0
	if lot.Quantity < 0 {
		side = Short
		direction = -1.0
	}

	profit := direction * (o.Price - lot.Price) * b.multiplier * quantity

	gainPct := 0.0
	if lot.Price != 0 {
		gainPct = direction * (o.Price - lot.Price) / lot.Price * 100
	}

	sizePct := 0.0
	if l.capitalBase != 0 {
		sizePct = lot.Price * b.multiplier / l.capitalBase * 100
	}

	t := Trade{
		ID:         l.nextID,
		Symbol:     o.Symbol,
		BaseSymbol: b.baseSymbol,
		Side:       side,
		Quantity:   quantity,
		EntryTime:  lot.Time,
		EntryPrice: lot.Price,
		ExitTime:   o.Time,
		ExitPrice:  o.Price,
		Profit:     profit,
		GainPct:    gainPct,
		SizePct:    sizePct,
		Duration:   o.Time.Sub(lot.Time).Minutes(),
		EntryTag:   lot.Tag,
		ExitTag:    o.Tag,
	}
	l.nextID++
	return t
}

// OpenPositions returns the unclosed remainder per symbol, sorted by
// symbol for deterministic report ordering.
func (l *Ledger) OpenPositions() []OpenPosition {
	var out []OpenPosition
	for symbol, b := range l.books {
		if len(b.lots) == 0 {
			continue
		}

		var qty, notional, volume float64
		for _, lot := range b.lots {
			qty += lot.Quantity
			volume += math.Abs(lot.Quantity)
			notional += math.Abs(lot.Quantity) * lot.Price
		}

		avg := 0.0
		if volume != 0 {
			avg = notional / volume
		}

		basis := notional * b.multiplier
		sizePct := 0.0
		if l.capitalBase != 0 {
			sizePct = basis / l.capitalBase * 100
		}

		out = append(out, OpenPosition{
			Symbol:     symbol,
			BaseSymbol: b.baseSymbol,
			Quantity:   qty,
			AvgPrice:   avg,
			CostBasis:  basis,
			SizePct:    sizePct,
			OpenedAt:   b.lots[0].Time,
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}

// Net returns the running signed position for a symbol.
func (l *Ledger) Net(symbol string) float64 {
	if b, ok := l.books[symbol]; ok {
		return b.net
	}
	return 0
}

func opposes(q, net float64) bool {
	return (q > 0 && net < 0) || (q < 0 && net > 0)
}

func sign(x float64) float64 {
	if x < 0 {
		return -1
	}
	return 1
}
