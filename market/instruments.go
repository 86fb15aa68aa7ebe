// market/instruments.go
package market

// DefaultMultiplier is applied to roots missing from Multipliers.
const DefaultMultiplier = 50.0

// Multipliers maps a root commodity code to its contract value per
// point. Covers the CME index, energy, metals and rates products the
// tool is normally fed; anything else falls back to DefaultMultiplier.
var Multipliers = map[string]float64{
	"ES":  50,
	"NQ":  20,
	"YM":  5,
	"RTY": 50,
	"MES": 5,
	"MNQ": 2,
	"MYM": 0.5,
	"M2K": 5,
	"CL":  1000,
	"GC":  100,
	"SI":  5000,
	"ZB":  1000,
}

// MultiplierFor resolves the contract multiplier for a root symbol.
func MultiplierFor(baseSymbol string) float64 {
	if m, ok := Multipliers[baseSymbol]; ok {
		return m
	}
	return DefaultMultiplier
}
