package market

import (
	"strings"
	"time"
	"unicode"
)

// CapitalBase is the reference notional used to express position sizes
// as a percentage. Configurable per run via the config package.
const CapitalBase = 100000.0

// Order is one fill event from a brokerage order log. Orders are
// constructed once by the normalizer and never mutated afterward.
type Order struct {
	Time       time.Time
	Symbol     string  // full instrument identifier, whitespace removed
	BaseSymbol string  // root commodity code, e.g. "ES" for "ES09-25"
	Quantity   float64 // signed: positive = buy, negative = sell
	Price      float64
	Multiplier float64 // contract value per point
	Tag        string  // free-text annotation carried through to trades
}

// NormalizeSymbol strips interior whitespace from a raw instrument
// identifier so the symbol is always a single token in report rows.
// "ES 09-25" becomes "ES09-25".
func NormalizeSymbol(raw string) string {
	return strings.Join(strings.Fields(raw), "")
}

// BaseSymbol derives the root commodity code by trimming trailing
// non-letter characters (expiry digits, separators) from the symbol.
func BaseSymbol(symbol string) string {
	return strings.TrimRightFunc(symbol, func(r rune) bool {
		return !unicode.IsLetter(r)
	})
}
