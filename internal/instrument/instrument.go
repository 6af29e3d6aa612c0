// Package instrument describes the tradable symbol an order is placed on.
package instrument

import (
	"fmt"
	"math"
	"strconv"
)

const (
	EURUSD = "EUR_USD"
	GBPUSD = "GBP_USD"
	USDJPY = "USD_JPY"
	XAUUSD = "XAU_USD"
	NAS100 = "NAS100_USD"
)

type Spec struct {
	Name string
	// PipSize is the price increment one pip represents.
	PipSize float64
	// LotSize is the number of units in one lot.
	LotSize float64
	// UnitsPrecision is the number of decimals an order size in units may carry.
	UnitsPrecision int
	// DisplayPrecision is the number of decimals prices are quoted with.
	DisplayPrecision int
}

var known = map[string]Spec{
	EURUSD: {Name: EURUSD, PipSize: 0.0001, LotSize: 100000, UnitsPrecision: 0, DisplayPrecision: 5},
	GBPUSD: {Name: GBPUSD, PipSize: 0.0001, LotSize: 100000, UnitsPrecision: 0, DisplayPrecision: 5},
	USDJPY: {Name: USDJPY, PipSize: 0.01, LotSize: 100000, UnitsPrecision: 0, DisplayPrecision: 3},
	XAUUSD: {Name: XAUUSD, PipSize: 0.01, LotSize: 100, UnitsPrecision: 0, DisplayPrecision: 3},
	NAS100: {Name: NAS100, PipSize: 0.1, LotSize: 1, UnitsPrecision: 1, DisplayPrecision: 1},
}

// Lookup returns the static spec for an instrument. Used where no broker is
// available to describe it (paper trading, previews).
func Lookup(name string) (Spec, error) {
	spec, ok := known[name]
	if !ok {
		return Spec{}, fmt.Errorf("unsupported instrument: %s", name)
	}
	return spec, nil
}

// PipsToPrice converts a pip distance to a price distance.
func (s Spec) PipsToPrice(pips float64) float64 {
	return pips * s.PipSize
}

// PriceToPips converts a price distance to pips, always non-negative.
func (s Spec) PriceToPips(distance float64) float64 {
	return math.Abs(distance) / s.PipSize
}

// LotsToUnits converts lots to units, rounded down to the unit step so the
// order never exceeds the size the account qualified for.
func (s Spec) LotsToUnits(lots float64) float64 {
	scale := math.Pow10(s.UnitsPrecision)
	// tolerate float noise like 0.07 * 100000 = 7000.000000000001
	steps := math.Floor(lots*s.LotSize*scale + 1e-9)
	// dividing keeps 3 steps of 0.1 at 0.3 rather than 0.30000000000000004
	return steps / scale
}

// FormatUnits renders an order size with exactly the decimals the broker accepts.
func (s Spec) FormatUnits(units float64) string {
	return strconv.FormatFloat(units, 'f', s.UnitsPrecision, 64)
}

// FormatPrice renders a price with the instrument's quote precision.
func (s Spec) FormatPrice(price float64) string {
	return strconv.FormatFloat(price, 'f', s.DisplayPrecision, 64)
}

// FromPipLocation builds a pip size from a broker pip location, e.g. -4 for 0.0001.
func FromPipLocation(location int) float64 {
	return math.Pow10(location)
}
