// journal/sqlite.go
package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordRun(r Run) error {
	_, err := j.db.Exec(`
		INSERT INTO runs (run_id, created, source, orders, trades, total_pl)
		VALUES (?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Created, r.Source, r.Orders, r.Trades, r.TotalPL,
	)
	return err
}

func (j *SQLite) RecordTrade(t TradeRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO trades
		(run_id, trade_id, symbol, base_symbol, side, quantity,
		 entry_price, exit_price, entry_time, exit_time,
		 profit, gain_pct, size_pct, entry_tag, exit_tag)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.RunID, t.TradeID, t.Symbol, t.BaseSymbol, t.Side, t.Quantity,
		t.EntryPrice, t.ExitPrice, t.EntryTime, t.ExitTime,
		t.Profit, t.GainPct, t.SizePct, t.EntryTag, t.ExitTag,
	)
	return err
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
