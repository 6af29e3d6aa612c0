// Package fibo converts retracement ratios into prices relative to the swing
// of the last closed bar.
package fibo

import (
	"github.com/lohzi97/FiboManualTradingPanel/internal/types"
)

// Range is the swing a ratio is measured against. Ratio 0 maps to Zero and
// ratio 1 maps to Hundred.
type Range struct {
	Zero    float64
	Hundred float64
}

// Levels holds the three user supplied ratios of one order attempt.
type Levels struct {
	Entry      float64
	StopLoss   float64
	TakeProfit float64
}

// Prices are Levels converted against a Range.
type Prices struct {
	Entry      float64
	StopLoss   float64
	TakeProfit float64
}

// LevelToPrice maps a ratio onto the range [zeroPrice, hundredPrice].
// Ratios outside [0, 1] extrapolate past the range.
func LevelToPrice(ratio, zeroPrice, hundredPrice float64) float64 {
	return (hundredPrice-zeroPrice)*ratio + zeroPrice
}

// RangeFor returns the swing for the given direction. A BUY measures from the
// bar low up to the high, a SELL from the high down to the low, so a growing
// ratio always moves toward profit for that side.
func RangeFor(action types.Action, bar types.Bar) Range {
	if action == types.SELL {
		return Range{Zero: bar.High, Hundred: bar.Low}
	}
	return Range{Zero: bar.Low, Hundred: bar.High}
}

func (r Range) Price(ratio float64) float64 {
	return LevelToPrice(ratio, r.Zero, r.Hundred)
}

func (r Range) Prices(l Levels) Prices {
	return Prices{
		Entry:      r.Price(l.Entry),
		StopLoss:   r.Price(l.StopLoss),
		TakeProfit: r.Price(l.TakeProfit),
	}
}

// Valid reports whether StopLoss < Entry < TakeProfit.
//
// The rule is checked on the raw ratios and is the same for BUY and SELL;
// RangeFor already flips the swing for a SELL, so the ratios are direction
// relative.
func (l Levels) Valid() bool {
	if l.StopLoss >= l.Entry || l.StopLoss >= l.TakeProfit || l.Entry >= l.TakeProfit {
		return false
	}
	return true
}
