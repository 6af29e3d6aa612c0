package order

import (
	"errors"
	"fmt"

	"github.com/lohzi97/FiboManualTradingPanel/internal/sizing"
	"github.com/lohzi97/FiboManualTradingPanel/internal/timeframe"
)

var (
	ErrInvalidInput = errors.New("invalid fibo level input")
	ErrSizingFailed = errors.New("position sizing failed")

	// ErrUnrecognizedTimeframe is re-exported so callers only need this package.
	ErrUnrecognizedTimeframe = timeframe.ErrUnrecognizedTimeframe
)

const InsufficientBalanceNotice = "Insufficient account balance to place trade!"

// Describe returns the short message shown to the trader for a failed attempt.
func Describe(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidInput):
		return "Invalid Fibo Level Input!"
	case errors.Is(err, sizing.ErrBoundsExceeded):
		return fmt.Sprintf("Lot size calculation exceeded %d iterations!", sizing.MaxIterations)
	case errors.Is(err, ErrUnrecognizedTimeframe):
		return "Unsupported chart timeframe!"
	default:
		return "Order failed: " + err.Error()
	}
}
