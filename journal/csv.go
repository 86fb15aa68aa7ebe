// journal/csv.go
package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

// tradeHeader is the CSV column order; it mirrors the trades table.
var tradeHeader = []string{
	"run_id", "trade_id", "symbol", "base_symbol", "side", "quantity",
	"entry_price", "exit_price", "entry_time", "exit_time",
	"profit", "gain_pct", "size_pct", "entry_tag", "exit_tag",
}

type CSVJournal struct {
	trades *csv.Writer
	tf     *os.File
}

func NewCSV(tradesPath string) (*CSVJournal, error) {
	tf, err := os.Create(tradesPath)
	if err != nil {
		return nil, err
	}

	tw := csv.NewWriter(tf)
	if err := tw.Write(tradeHeader); err != nil {
		return nil, err
	}
	tw.Flush()
	if err := tw.Error(); err != nil {
		return nil, err
	}

	return &CSVJournal{tw, tf}, nil
}

// RecordRun is a no-op for the CSV journal; run metadata lives on
// every row via run_id.
func (j *CSVJournal) RecordRun(Run) error { return nil }

func (j *CSVJournal) RecordTrade(t TradeRecord) error {
	err := j.trades.Write([]string{
		t.RunID,
		strconv.Itoa(t.TradeID),
		t.Symbol,
		t.BaseSymbol,
		t.Side,
		f(t.Quantity),
		f(t.EntryPrice),
		f(t.ExitPrice),
		t.EntryTime.Format(time.RFC3339),
		t.ExitTime.Format(time.RFC3339),
		f(t.Profit),
		f(t.GainPct),
		f(t.SizePct),
		t.EntryTag,
		t.ExitTag,
	})
	if err != nil {
		return err
	}

	j.trades.Flush()
	return j.trades.Error()
}

func (j *CSVJournal) Close() error {
	j.trades.Flush()
	if err := j.trades.Error(); err != nil {
		return err
	}
	return j.tf.Close()
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
