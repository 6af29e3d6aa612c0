// Package sizing implements fixed-ratio position sizing.
//
// The account has to hold MaxDrawdown / RiskPercentage before the first
// 0.01 lot is allowed. Every further 0.01 lot needs Delta more equity per
// 0.01 lot already traded, so growth in size slows as the account grows.
package sizing

import (
	"errors"
	"fmt"

	"github.com/lohzi97/FiboManualTradingPanel/internal/logging"
)

const (
	// MaxIterations bounds the lot search. Hitting it means the config is
	// degenerate (e.g. Delta of zero), it is not a business limit.
	MaxIterations = 10000

	// LotStep is the smallest size increment, in lots.
	LotStep = 0.01

	stepsPerLot = 100
)

var ErrBoundsExceeded = fmt.Errorf("fixed ratio lot search exceeded %d iterations", MaxIterations)

var sizerLog = logging.New("sizer")

type Status int

const (
	OK Status = iota
	InsufficientBalance
	BoundsExceeded
)

func (s Status) String() string {
	switch s {
	case OK:
		return "OK"
	case InsufficientBalance:
		return "INSUFFICIENT_BALANCE"
	case BoundsExceeded:
		return "BOUNDS_EXCEEDED"
	default:
		return "UNKNOWN"
	}
}

// RiskConfig is read once at startup.
type RiskConfig struct {
	Delta          float64 `yaml:"delta"`           // equity per 0.01 lot step
	RiskPercentage float64 `yaml:"risk_percentage"` // decimal, 0.02 = 2%
	MaxDrawdown    float64 `yaml:"max_drawdown"`    // account currency
}

func (c RiskConfig) Validate() error {
	if c.RiskPercentage <= 0 {
		return errors.New("risk percentage must be greater than zero")
	}
	if c.MaxDrawdown < 0 {
		return errors.New("max drawdown must not be negative")
	}
	return nil
}

// MinRequiredBalance is the balance needed before any size is allowed.
func (c RiskConfig) MinRequiredBalance() float64 {
	return c.MaxDrawdown / c.RiskPercentage
}

type Result struct {
	Status Status
	Lots   float64
}

// Err returns ErrBoundsExceeded for a failed search. An insufficient balance
// is a valid result and returns nil.
func (r Result) Err() error {
	if r.Status == BoundsExceeded {
		return ErrBoundsExceeded
	}
	return nil
}

// FixedRatioLots returns the size, in lots, the balance qualifies for.
func FixedRatioLots(balance float64, cfg RiskConfig) Result {
	minRequired := cfg.MinRequiredBalance()
	if balance < minRequired {
		sizerLog.Debug("Balance below minimum required", "balance", balance, "minRequired", minRequired)
		return Result{Status: InsufficientBalance}
	}

	cumulative := minRequired
	for step := 1; step <= MaxIterations; step++ {
		// lots * 100 * delta, with lots = step / 100
		cumulative += float64(step) * cfg.Delta
		if cumulative > balance {
			lots := float64(step) / stepsPerLot
			sizerLog.Debug("Fixed ratio lots found", "balance", balance, "lots", lots, "threshold", cumulative, "iterations", step)
			return Result{Status: OK, Lots: lots}
		}
	}

	sizerLog.Warn("Fixed ratio lot search exhausted", "balance", balance, "delta", cfg.Delta, "cumulative", cumulative)
	return Result{Status: BoundsExceeded}
}
