// journal/journal.go
package journal

import (
	"time"

	"github.com/rustyeddy/tradereport/ledger"
)

// TradeRecord is one realized trade as stored by a journal. RunID
// groups the trades exported together; TradeID is the sequential id
// the ledger assigned within that run.
type TradeRecord struct {
	RunID      string
	TradeID    int
	Symbol     string
	BaseSymbol string
	Side       string
	Quantity   float64
	EntryPrice float64
	ExitPrice  float64
	EntryTime  time.Time
	ExitTime   time.Time
	Profit     float64
	GainPct    float64
	SizePct    float64
	EntryTag   string
	ExitTag    string
}

// Run is the metadata row written once per export.
type Run struct {
	RunID   string
	Created time.Time
	Source  string
	Orders  int
	Trades  int
	TotalPL float64
}

// FromTrade converts a ledger trade for storage under runID.
func FromTrade(runID string, t ledger.Trade) TradeRecord {
	return TradeRecord{
		RunID:      runID,
		TradeID:    t.ID,
		Symbol:     t.Symbol,
		BaseSymbol: t.BaseSymbol,
		Side:       string(t.Side),
		Quantity:   t.Quantity,
		EntryPrice: t.EntryPrice,
		ExitPrice:  t.ExitPrice,
		EntryTime:  t.EntryTime,
		ExitTime:   t.ExitTime,
		Profit:     t.Profit,
		GainPct:    t.GainPct,
		SizePct:    t.SizePct,
		EntryTag:   t.EntryTag,
		ExitTag:    t.ExitTag,
	}
}

type Journal interface {
	RecordRun(Run) error
	RecordTrade(TradeRecord) error
	Close() error
}
