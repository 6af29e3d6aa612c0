package order

import (
	"math"
	"strconv"
	"strings"

	"github.com/lohzi97/FiboManualTradingPanel/internal/fibo"
)

// LevelInput is one free-text ratio field as typed by the trader.
type LevelInput struct {
	Text    string
	Default float64
}

// Value parses Text, falling back to Default when it is not a finite number.
func (in LevelInput) Value() float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(in.Text), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return in.Default
	}
	return v
}

type Inputs struct {
	Entry      LevelInput
	StopLoss   LevelInput
	TakeProfit LevelInput
}

func (in Inputs) Levels() fibo.Levels {
	return fibo.Levels{
		Entry:      in.Entry.Value(),
		StopLoss:   in.StopLoss.Value(),
		TakeProfit: in.TakeProfit.Value(),
	}
}

// DefaultInputs pre-fills the fields the way the panel shows them: entry with
// two decimals, stop-loss and take-profit with one.
func DefaultInputs(levels fibo.Levels) Inputs {
	return Inputs{
		Entry:      LevelInput{Text: strconv.FormatFloat(levels.Entry, 'f', 2, 64), Default: levels.Entry},
		StopLoss:   LevelInput{Text: strconv.FormatFloat(levels.StopLoss, 'f', 1, 64), Default: levels.StopLoss},
		TakeProfit: LevelInput{Text: strconv.FormatFloat(levels.TakeProfit, 'f', 1, 64), Default: levels.TakeProfit},
	}
}
