package ledger

import "github.com/rustyeddy/tradereport/market"

// Replay applies an already-sorted order sequence to a fresh ledger
// and returns every realized trade plus the remaining open inventory.
func Replay(orders []market.Order, capitalBase float64) ([]Trade, []OpenPosition) {
	l := New(capitalBase)

	var trades []Trade
	for _, o := range orders {
		trades = append(trades, l.Apply(o)...)
	}

	return trades, l.OpenPositions()
}
