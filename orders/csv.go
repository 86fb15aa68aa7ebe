// Package orders turns a raw brokerage order-log CSV into the clean,
// chronologically sorted order sequence the ledger consumes. Column
// positions are detected from the header by name, individual bad rows
// are skipped with a diagnostic, and structural problems fail the
// whole parse before any ledger work starts.
package orders

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rustyeddy/tradereport/market"
)

var (
	ErrEmptyInput    = errors.New("empty input")
	ErrNoValidOrders = errors.New("no valid orders survived filtering")
)

// RowError is a per-row diagnostic; rows that produce one are skipped
// and processing continues.
type RowError struct {
	Line   int
	Reason string
}

func (e RowError) String() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

// Normalizer parses order logs. The zero value uses the built-in
// multiplier table; set Multiplier to override contract resolution.
type Normalizer struct {
	Multiplier func(baseSymbol string) float64
}

// New returns a normalizer backed by the standard multiplier table.
func New() *Normalizer {
	return &Normalizer{Multiplier: market.MultiplierFor}
}

// columns holds the detected header indices; -1 means absent.
type columns struct {
	time, symbol, qty, action, price, status, tag int
}

// header aliases, compared after lowercasing and stripping separators.
var columnAliases = map[string][]string{
	"time":   {"time", "timestamp", "datetime", "date", "filltime", "filledtime"},
	"symbol": {"symbol", "instrument", "contract", "product"},
	"qty":    {"qty", "quantity", "units", "size", "filledqty"},
	"action": {"action", "side", "buysell", "direction"},
	"price":  {"price", "fillprice", "avgprice", "avgfillprice"},
	"status": {"status", "state", "orderstatus"},
	"tag":    {"tag", "name", "note", "notes", "comment", "label"},
}

// accepted timestamp layouts, tried in order.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"1/2/2006 15:04:05",
	"1/2/2006 3:04:05 PM",
	"1/2/2006 3:04 PM",
}

// ParseFile reads and normalizes an order-log CSV from disk.
func (n *Normalizer) ParseFile(path string) ([]market.Order, []RowError, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open order log: %w", err)
	}
	defer f.Close()

	return n.Parse(f)
}

// Parse normalizes an order-log CSV: header detection, row validation
// with skip-and-continue tolerance, then a stable sort by timestamp so
// ties keep their file order.
func (n *Normalizer) Parse(r io.Reader) ([]market.Order, []RowError, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil, ErrEmptyInput
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read header: %w", err)
	}

	cols, err := detectColumns(header)
	if err != nil {
		return nil, nil, err
	}

	lookup := n.Multiplier
	if lookup == nil {
		lookup = market.MultiplierFor
	}

	var (
		out     []market.Order
		skipped []RowError
		line    = 1
	)

	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			skipped = append(skipped, RowError{line, err.Error()})
			continue
		}

		o, ok, reason := parseRow(record, cols, lookup)
		if !ok {
			if reason != "" {
				skipped = append(skipped, RowError{line, reason})
			}
			continue
		}
		out = append(out, o)
	}

	if len(out) == 0 {
		return nil, skipped, ErrNoValidOrders
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })
	return out, skipped, nil
}

// parseRow validates one record. ok is false for skipped rows; a
// non-empty reason marks the row malformed (diagnostic), an empty one
// marks it filtered by policy (e.g. a cancelled order).
func parseRow(record []string, cols columns, lookup func(string) float64) (market.Order, bool, string) {
	get := func(i int) string {
		if i < 0 || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	if s := get(cols.status); s != "" && !isFilled(s) {
		return market.Order{}, false, ""
	}

	ts := get(cols.time)
	if ts == "" {
		return market.Order{}, false, "missing timestamp"
	}
	t, ok := parseTime(ts)
	if !ok {
		return market.Order{}, false, fmt.Sprintf("unparseable timestamp %q", ts)
	}

	rawSymbol := get(cols.symbol)
	if rawSymbol == "" {
		return market.Order{}, false, "missing symbol"
	}
	symbol := market.NormalizeSymbol(rawSymbol)

	qtyStr := get(cols.qty)
	qty, err := strconv.ParseFloat(strings.ReplaceAll(qtyStr, ",", ""), 64)
	if err != nil {
		return market.Order{}, false, fmt.Sprintf("unparseable quantity %q", qtyStr)
	}

	if action := get(cols.action); action != "" {
		switch strings.ToLower(action) {
		case "sell", "s", "short", "sellshort":
			qty = -math.Abs(qty)
		case "buy", "b", "long", "buytocover":
			qty = math.Abs(qty)
		default:
			return market.Order{}, false, fmt.Sprintf("unknown action %q", action)
		}
	}
	if qty == 0 {
		return market.Order{}, false, "zero quantity"
	}

	priceStr := get(cols.price)
	price, err := strconv.ParseFloat(strings.ReplaceAll(priceStr, ",", ""), 64)
	if err != nil {
		return market.Order{}, false, fmt.Sprintf("unparseable price %q", priceStr)
	}
	if price <= 0 {
		return market.Order{}, false, fmt.Sprintf("non-positive price %v", price)
	}

	base := market.BaseSymbol(symbol)

	return market.Order{
		Time:       t,
		Symbol:     symbol,
		BaseSymbol: base,
		Quantity:   qty,
		Price:      price,
		Multiplier: lookup(base),
		Tag:        get(cols.tag),
	}, true, ""
}

func detectColumns(header []string) (columns, error) {
	cols := columns{time: -1, symbol: -1, qty: -1, action: -1, price: -1, status: -1, tag: -1}

	assign := map[string]*int{
		"time": &cols.time, "symbol": &cols.symbol, "qty": &cols.qty,
		"action": &cols.action, "price": &cols.price, "status": &cols.status,
		"tag": &cols.tag,
	}

	for i, name := range header {
		key := canonical(name)
		for role, aliases := range columnAliases {
			for _, a := range aliases {
				if key == a && *assign[role] < 0 {
					*assign[role] = i
				}
			}
		}
	}

	var missing []string
	for _, req := range []struct {
		name string
		idx  int
	}{
		{"time", cols.time}, {"symbol", cols.symbol},
		{"quantity", cols.qty}, {"price", cols.price},
	} {
		if req.idx < 0 {
			missing = append(missing, req.name)
		}
	}
	if len(missing) > 0 {
		return cols, fmt.Errorf("header missing required columns: %s", strings.Join(missing, ", "))
	}
	return cols, nil
}

// canonical lowercases a header cell and drops separators so
// "Fill Price", "fill_price" and "FillPrice" all match.
func canonical(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '_', '-', '/', '.':
			return -1
		}
		return r
	}, name)
}

func isFilled(status string) bool {
	switch strings.ToLower(status) {
	case "filled", "fill", "executed", "complete", "completed", "done":
		return true
	}
	return false
}

func parseTime(s string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
