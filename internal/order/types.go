package order

import (
	"context"
	"time"

	"github.com/lohzi97/FiboManualTradingPanel/internal/instrument"
	"github.com/lohzi97/FiboManualTradingPanel/internal/timeframe"
	"github.com/lohzi97/FiboManualTradingPanel/internal/types"
)

const DefaultLabel = "FiboManualTradingPanel"

// Request is a pending LIMIT order ready for the broker. It is built once per
// attempt and never changed afterwards.
type Request struct {
	ID         string
	Action     types.Action
	Instrument instrument.Spec
	Label      string

	// Swing the levels were measured against
	ZeroPrice    float64
	HundredPrice float64

	EntryPrice      float64
	StopLossPrice   float64
	TakeProfitPrice float64
	StopLossPips    float64
	TakeProfitPips  float64

	Lots   float64
	Volume float64 // units
	Expiry time.Time
}

// Outcome is the result of an attempt that did not fail.
type Outcome struct {
	Request *Request
	// InsufficientBalance is set when sizing returned zero lots. The request is
	// assembled for display but not submitted.
	InsufficientBalance bool
	Submitted           bool
}

// MarketData supplies the swing bar and the instrument description.
type MarketData interface {
	LastClosedBar(ctx context.Context, instrument string, tf timeframe.Timeframe) (types.Bar, error)
	Instrument(ctx context.Context, name string) (instrument.Spec, error)
}

type BalanceSource interface {
	Balance(ctx context.Context) (float64, error)
}

// Submitter hands the order to the broker without waiting for the result.
type Submitter interface {
	PlaceLimitOrderAsync(ctx context.Context, req Request)
}

type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }
