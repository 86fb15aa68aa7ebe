// Package report builds and serializes the performance report. The
// rendered text is a wire contract: section header strings, row field
// counts and ordering are relied on by Parse and by downstream
// consumers of the document, so they must not change.
package report

import (
	"errors"
	"time"

	"github.com/rustyeddy/tradereport/ledger"
	"github.com/rustyeddy/tradereport/market"
	"github.com/rustyeddy/tradereport/stats"
)

// Section header and layout constants shared by Render and Parse.
const (
	Title = "TRADE PERFORMANCE REPORT"

	secOverall   = "OVERALL PERFORMANCE"
	secBreakdown = "POSITION BREAKDOWN"
	secTrades    = "REALIZED TRADES"
	secOpen      = "OPEN POSITIONS"
	secByProduct = "PERFORMANCE BY PRODUCT"
	secBySide    = "PERFORMANCE BY POSITION TYPE"

	ruleWidth = 80

	generatedLayout = "Jan 2, 2006 3:04:05 PM"
	timeLayout      = "2006-01-02 15:04:05"

	tradeRowFields = 14
	openRowFields  = 7
	groupRowFields = 5
)

// ErrNoOrders is returned when nothing survives input filtering.
var ErrNoOrders = errors.New("no valid orders to process")

// Report is the structured document. The presentation layer consumes
// this directly; the text rendering exists for export and for
// downstream tools that re-parse it.
type Report struct {
	GeneratedAt time.Time
	Source      string
	CapitalBase float64

	Trades    []ledger.Trade
	Open      []ledger.OpenPosition
	Metrics   stats.Metrics
	ByProduct []stats.GroupStats
	BySide    []stats.GroupStats
}

// Build replays the order sequence and assembles the full report.
// Orders must already be validated and sorted by timestamp.
func Build(orders []market.Order, source string, capitalBase float64, at time.Time) (*Report, error) {
	if len(orders) == 0 {
		return nil, ErrNoOrders
	}

	trades, open := ledger.Replay(orders, capitalBase)

	return &Report{
		GeneratedAt: at,
		Source:      source,
		CapitalBase: capitalBase,
		Trades:      trades,
		Open:        open,
		Metrics:     stats.Compute(trades),
		ByProduct:   stats.ByProduct(trades),
		BySide:      stats.BySide(trades),
	}, nil
}
