// Package order turns the trader's fibo levels into a sized LIMIT order.
package order

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/lohzi97/FiboManualTradingPanel/internal/fibo"
	"github.com/lohzi97/FiboManualTradingPanel/internal/logging"
	"github.com/lohzi97/FiboManualTradingPanel/internal/sizing"
	"github.com/lohzi97/FiboManualTradingPanel/internal/timeframe"
	"github.com/lohzi97/FiboManualTradingPanel/internal/types"
)

var orderLog = logging.New("order")

type Config struct {
	Instrument string
	Timeframe  timeframe.Timeframe
	Label      string
	Risk       sizing.RiskConfig
	// DryRun assembles the order without handing it to the submitter
	DryRun bool
}

type Assembler struct {
	cfg       Config
	market    MarketData
	balance   BalanceSource
	submitter Submitter
	clock     Clock
	newID     func() string
}

func NewAssembler(cfg Config, market MarketData, balance BalanceSource, submitter Submitter) *Assembler {
	if cfg.Label == "" {
		cfg.Label = DefaultLabel
	}
	return &Assembler{
		cfg:       cfg,
		market:    market,
		balance:   balance,
		submitter: submitter,
		clock:     systemClock{},
		newID:     uuid.NewString,
	}
}

// WithClock replaces the server clock used for order expiry.
func (a *Assembler) WithClock(c Clock) *Assembler {
	a.clock = c
	return a
}

// Place runs one order attempt to completion. Nothing is retried; every
// failure returns before the submitter is called.
func (a *Assembler) Place(ctx context.Context, action types.Action, inputs Inputs) (*Outcome, error) {
	outcome, err := a.Preview(ctx, action, inputs)
	if err != nil {
		return nil, err
	}

	req := outcome.Request
	if outcome.InsufficientBalance {
		slog.Warn(InsufficientBalanceNotice, "action", action, "instrument", req.Instrument.Name)
		return outcome, nil
	}

	if a.cfg.DryRun {
		slog.Info("Dry run, order not submitted", "id", req.ID)
		return outcome, nil
	}

	slog.Info("Placing limit order",
		"id", req.ID,
		"action", req.Action,
		"instrument", req.Instrument.Name,
		"volume", req.Volume,
		"price", req.EntryPrice,
		"slPips", req.StopLossPips,
		"tpPips", req.TakeProfitPips,
		"expiry", req.Expiry)

	a.submitter.PlaceLimitOrderAsync(ctx, *req)
	outcome.Submitted = true
	return outcome, nil
}

// Preview assembles the request without submitting it.
func (a *Assembler) Preview(ctx context.Context, action types.Action, inputs Inputs) (*Outcome, error) {
	levels := inputs.Levels()
	if !levels.Valid() {
		slog.Warn("Rejected fibo levels", "action", action, "entry", levels.Entry, "stopLoss", levels.StopLoss, "takeProfit", levels.TakeProfit)
		return nil, fmt.Errorf("%w: stop loss %v, entry %v, take profit %v must be increasing",
			ErrInvalidInput, levels.StopLoss, levels.Entry, levels.TakeProfit)
	}

	req, insufficient, err := a.assemble(ctx, action, levels)
	if err != nil {
		return nil, err
	}
	return &Outcome{Request: req, InsufficientBalance: insufficient}, nil
}

func (a *Assembler) assemble(ctx context.Context, action types.Action, levels fibo.Levels) (*Request, bool, error) {
	spec, err := a.market.Instrument(ctx, a.cfg.Instrument)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load instrument %s: %w", a.cfg.Instrument, err)
	}

	bar, err := a.market.LastClosedBar(ctx, a.cfg.Instrument, a.cfg.Timeframe)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load last closed bar: %w", err)
	}

	swing := fibo.RangeFor(action, bar)
	prices := swing.Prices(levels)
	slPips := spec.PriceToPips(prices.Entry - prices.StopLoss)
	tpPips := spec.PriceToPips(prices.TakeProfit - prices.Entry)

	orderLog.Debug("Converted fibo levels",
		"action", action,
		"zero", swing.Zero,
		"hundred", swing.Hundred,
		"entry", prices.Entry,
		"stopLoss", prices.StopLoss,
		"takeProfit", prices.TakeProfit,
		"slPips", slPips,
		"tpPips", tpPips)

	balance, err := a.balance.Balance(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load account balance: %w", err)
	}

	sized := sizing.FixedRatioLots(balance, a.cfg.Risk)
	if err := sized.Err(); err != nil {
		slog.Error("Lot size calculation failed", "balance", balance, "delta", a.cfg.Risk.Delta, "error", err)
		return nil, false, fmt.Errorf("%w: %w", ErrSizingFailed, err)
	}

	barDuration, err := a.cfg.Timeframe.ToDuration()
	if err != nil {
		return nil, false, err
	}

	req := &Request{
		ID:              a.newID(),
		Action:          action,
		Instrument:      spec,
		Label:           a.cfg.Label,
		ZeroPrice:       swing.Zero,
		HundredPrice:    swing.Hundred,
		EntryPrice:      prices.Entry,
		StopLossPrice:   prices.StopLoss,
		TakeProfitPrice: prices.TakeProfit,
		StopLossPips:    slPips,
		TakeProfitPips:  tpPips,
		Lots:            sized.Lots,
		Volume:          spec.LotsToUnits(sized.Lots),
		Expiry:          a.clock.Now().Add(barDuration),
	}

	// a size too small for the instrument's unit step cannot be traded either
	insufficient := sized.Status == sizing.InsufficientBalance || req.Volume == 0
	return req, insufficient, nil
}
