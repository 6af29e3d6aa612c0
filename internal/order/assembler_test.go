package order

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lohzi97/FiboManualTradingPanel/internal/instrument"
	"github.com/lohzi97/FiboManualTradingPanel/internal/sizing"
	"github.com/lohzi97/FiboManualTradingPanel/internal/timeframe"
	"github.com/lohzi97/FiboManualTradingPanel/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMarket struct {
	bar      types.Bar
	spec     instrument.Spec
	barErr   error
	barCalls int
}

func (m *fakeMarket) LastClosedBar(ctx context.Context, name string, tf timeframe.Timeframe) (types.Bar, error) {
	m.barCalls++
	return m.bar, m.barErr
}

func (m *fakeMarket) Instrument(ctx context.Context, name string) (instrument.Spec, error) {
	return m.spec, nil
}

type fakeBalance struct {
	balance float64
	calls   int
}

func (b *fakeBalance) Balance(ctx context.Context) (float64, error) {
	b.calls++
	return b.balance, nil
}

type fakeSubmitter struct {
	requests []Request
}

func (s *fakeSubmitter) PlaceLimitOrderAsync(ctx context.Context, req Request) {
	s.requests = append(s.requests, req)
}

var serverTime = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

// pip size 0.1 on a 100/110 swing gives 5 price units = 50 pips
var testSpec = instrument.Spec{Name: "NAS100_USD", PipSize: 0.1, LotSize: 1, UnitsPrecision: 2, DisplayPrecision: 1}

func newTestAssembler(balance float64, tf timeframe.Timeframe) (*Assembler, *fakeMarket, *fakeBalance, *fakeSubmitter) {
	market := &fakeMarket{
		bar:  types.Bar{Timestamp: serverTime.Add(-time.Hour), Open: 102, High: 110, Low: 100, Close: 108},
		spec: testSpec,
	}
	bal := &fakeBalance{balance: balance}
	sub := &fakeSubmitter{}

	cfg := Config{
		Instrument: testSpec.Name,
		Timeframe:  tf,
		Risk:       sizing.RiskConfig{Delta: 50, RiskPercentage: 0.02, MaxDrawdown: 10},
	}
	a := NewAssembler(cfg, market, bal, sub).WithClock(ClockFunc(func() time.Time { return serverTime }))
	a.newID = func() string { return "test-id" }
	return a, market, bal, sub
}

func inputs(entry, sl, tp string) Inputs {
	return Inputs{
		Entry:      LevelInput{Text: entry, Default: 0.5},
		StopLoss:   LevelInput{Text: sl, Default: 0.0},
		TakeProfit: LevelInput{Text: tp, Default: 2.0},
	}
}

func TestPlace_BuyScenario(t *testing.T) {
	a, _, _, sub := newTestAssembler(1000, timeframe.H1)

	outcome, err := a.Place(context.Background(), types.BUY, inputs("0.5", "0.0", "1.0"))
	require.NoError(t, err)
	require.True(t, outcome.Submitted)
	assert.False(t, outcome.InsufficientBalance)
	require.Len(t, sub.requests, 1)

	req := sub.requests[0]
	assert.Equal(t, "test-id", req.ID)
	assert.Equal(t, types.BUY, req.Action)
	assert.Equal(t, DefaultLabel, req.Label)
	assert.Equal(t, testSpec, req.Instrument)
	assert.InDelta(t, 100.0, req.ZeroPrice, 1e-9)
	assert.InDelta(t, 110.0, req.HundredPrice, 1e-9)
	assert.InDelta(t, 105.0, req.EntryPrice, 1e-9)
	assert.InDelta(t, 100.0, req.StopLossPrice, 1e-9)
	assert.InDelta(t, 110.0, req.TakeProfitPrice, 1e-9)
	assert.InDelta(t, 5/testSpec.PipSize, req.StopLossPips, 1e-9)
	assert.InDelta(t, 5/testSpec.PipSize, req.TakeProfitPips, 1e-9)
	assert.InDelta(t, 0.05, req.Lots, 1e-9)
	assert.InDelta(t, 0.05, req.Volume, 1e-9)
	assert.Equal(t, serverTime.Add(time.Hour), req.Expiry)
	assert.Equal(t, *outcome.Request, req)
}

func TestPlace_SellScenario(t *testing.T) {
	a, _, _, sub := newTestAssembler(1000, timeframe.M15)

	outcome, err := a.Place(context.Background(), types.SELL, inputs("0.5", "0.0", "1.0"))
	require.NoError(t, err)
	require.True(t, outcome.Submitted)
	require.Len(t, sub.requests, 1)

	req := sub.requests[0]
	assert.Equal(t, types.SELL, req.Action)
	assert.InDelta(t, 110.0, req.ZeroPrice, 1e-9)
	assert.InDelta(t, 100.0, req.HundredPrice, 1e-9)
	assert.InDelta(t, 105.0, req.EntryPrice, 1e-9)
	assert.InDelta(t, 110.0, req.StopLossPrice, 1e-9)
	assert.InDelta(t, 100.0, req.TakeProfitPrice, 1e-9)
	assert.InDelta(t, 50.0, req.StopLossPips, 1e-9)
	assert.InDelta(t, 50.0, req.TakeProfitPips, 1e-9)
	assert.Equal(t, serverTime.Add(15*time.Minute), req.Expiry)
}

func TestPlace_InvalidInputStopsEverything(t *testing.T) {
	a, market, bal, sub := newTestAssembler(1000, timeframe.H1)

	_, err := a.Place(context.Background(), types.BUY, inputs("0.5", "0.6", "2.0"))
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, "Invalid Fibo Level Input!", Describe(err))

	assert.Zero(t, market.barCalls, "no bar lookup after invalid input")
	assert.Zero(t, bal.calls, "no balance lookup after invalid input")
	assert.Empty(t, sub.requests)
}

func TestPlace_UnparseableInputUsesDefault(t *testing.T) {
	a, _, _, sub := newTestAssembler(1000, timeframe.H1)

	// stop loss falls back to 0.0 and take profit to 2.0
	outcome, err := a.Place(context.Background(), types.BUY, inputs("0.5", "abc", ""))
	require.NoError(t, err)
	require.Len(t, sub.requests, 1)
	assert.InDelta(t, 100.0, outcome.Request.StopLossPrice, 1e-9)
	assert.InDelta(t, 120.0, outcome.Request.TakeProfitPrice, 1e-9)
}

func TestPlace_InsufficientBalance(t *testing.T) {
	a, _, _, sub := newTestAssembler(499, timeframe.H1)

	outcome, err := a.Place(context.Background(), types.BUY, inputs("0.5", "0.0", "1.0"))
	require.NoError(t, err, "insufficient balance is not a failure")
	assert.True(t, outcome.InsufficientBalance)
	assert.False(t, outcome.Submitted)
	require.NotNil(t, outcome.Request)
	assert.Zero(t, outcome.Request.Lots)
	assert.Zero(t, outcome.Request.Volume)
	assert.Empty(t, sub.requests)
}

func TestPlace_SizingBoundsExceeded(t *testing.T) {
	a, _, _, sub := newTestAssembler(1000, timeframe.H1)
	a.cfg.Risk.Delta = 0

	outcome, err := a.Place(context.Background(), types.BUY, inputs("0.5", "0.0", "1.0"))
	assert.Nil(t, outcome)
	assert.ErrorIs(t, err, ErrSizingFailed)
	assert.ErrorIs(t, err, sizing.ErrBoundsExceeded)
	assert.Equal(t, "Lot size calculation exceeded 10000 iterations!", Describe(err))
	assert.Empty(t, sub.requests)
}

func TestPlace_UnrecognizedTimeframe(t *testing.T) {
	a, _, _, sub := newTestAssembler(1000, timeframe.Timeframe("W1"))

	_, err := a.Place(context.Background(), types.BUY, inputs("0.5", "0.0", "1.0"))
	assert.ErrorIs(t, err, ErrUnrecognizedTimeframe)
	assert.Equal(t, "Unsupported chart timeframe!", Describe(err))
	assert.Empty(t, sub.requests)
}

func TestPlace_MarketDataFailure(t *testing.T) {
	a, market, _, sub := newTestAssembler(1000, timeframe.H1)
	market.barErr = errors.New("connection refused")

	_, err := a.Place(context.Background(), types.SELL, inputs("0.5", "0.0", "1.0"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Contains(t, Describe(err), "Order failed")
	assert.Empty(t, sub.requests)
}

func TestPlace_DryRunDoesNotSubmit(t *testing.T) {
	a, _, _, sub := newTestAssembler(1000, timeframe.H1)
	a.cfg.DryRun = true

	outcome, err := a.Place(context.Background(), types.BUY, inputs("0.5", "0.0", "1.0"))
	require.NoError(t, err)
	assert.False(t, outcome.Submitted)
	assert.NotNil(t, outcome.Request)
	assert.Empty(t, sub.requests)
}

func TestPlace_RepeatedAttemptsAreIndependent(t *testing.T) {
	a, _, bal, sub := newTestAssembler(1000, timeframe.H1)

	_, err := a.Place(context.Background(), types.BUY, inputs("0.5", "0.0", "1.0"))
	require.NoError(t, err)

	bal.balance = 10000
	_, err = a.Place(context.Background(), types.BUY, inputs("0.5", "0.0", "1.0"))
	require.NoError(t, err)

	require.Len(t, sub.requests, 2)
	assert.Equal(t, 2, bal.calls, "balance is read on every attempt")
	assert.InDelta(t, 0.05, sub.requests[0].Lots, 1e-9)
	assert.InDelta(t, 0.20, sub.requests[1].Lots, 1e-9)
}

func TestPreview_DoesNotSubmit(t *testing.T) {
	a, _, _, sub := newTestAssembler(1000, timeframe.H1)

	outcome, err := a.Preview(context.Background(), types.BUY, inputs("0.5", "0.0", "1.0"))
	require.NoError(t, err)
	assert.False(t, outcome.Submitted)
	assert.Empty(t, sub.requests)
}
