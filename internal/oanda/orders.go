package oanda

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/lohzi97/FiboManualTradingPanel/internal/order"
	"github.com/lohzi97/FiboManualTradingPanel/internal/types"
)

const submitTimeout = 30 * time.Second

// PlaceLimitOrderAsync sends the order in the background and only logs the
// outcome. Call Wait before exiting the process.
func (s *OandaService) PlaceLimitOrderAsync(ctx context.Context, req order.Request) {
	// the order must outlive the attempt that placed it
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), submitTimeout)

	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		defer cancel()

		resp, err := s.PlaceLimitOrder(ctx, req)
		if err != nil {
			slog.Error("Failed to place limit order", "id", req.ID, "instrument", req.Instrument.Name, "error", err)
			return
		}
		if resp.OrderCancelTransaction != nil {
			slog.Warn("Limit order was cancelled by oanda", "id", req.ID, "reason", resp.OrderCancelTransaction.Reason)
			return
		}
		slog.Info("Limit order created", "id", req.ID, "transaction", resp.OrderCreateTransaction.ID)
	}()
}

// Wait blocks until every order sent with PlaceLimitOrderAsync has finished.
func (s *OandaService) Wait() {
	s.inflight.Wait()
}

// PlaceLimitOrder creates a GTD limit order with stop loss and take profit on fill.
func (s *OandaService) PlaceLimitOrder(ctx context.Context, req order.Request) (*OrderCreateResponse, error) {
	body := OrderCreateRequest{Order: buildLimitOrder(req)}

	oandaLog.Info("Submitting limit order", "id", req.ID, "instrument", body.Order.Instrument, "units", body.Order.Units, "price", body.Order.Price, "gtd", body.Order.GtdTime)

	var resp OrderCreateResponse
	if err := s.do(ctx, http.MethodPost, "/v3/accounts/"+s.AccountId+"/orders", body, &resp); err != nil {
		return nil, fmt.Errorf("failed to create limit order: %w", err)
	}
	return &resp, nil
}

func buildLimitOrder(req order.Request) LimitOrderRequest {
	spec := req.Instrument

	units := req.Volume
	if req.Action == types.SELL {
		units = -units
	}

	return LimitOrderRequest{
		Type:         "LIMIT",
		Instrument:   InstrumentName(spec.Name),
		Units:        spec.FormatUnits(units),
		Price:        PriceValue(spec.FormatPrice(req.EntryPrice)),
		TimeInForce:  "GTD",
		GtdTime:      req.Expiry.UTC().Format(time.RFC3339),
		PositionFill: "DEFAULT",
		StopLossOnFill: &StopLossDetails{
			Distance: PriceValue(spec.FormatPrice(spec.PipsToPrice(req.StopLossPips))),
		},
		// Oanda only accepts a price for take profit
		TakeProfitOnFill: &TakeProfitDetail{
			Price: PriceValue(spec.FormatPrice(req.TakeProfitPrice)),
		},
		ClientExtensions: &ClientExtensions{
			ID:  req.ID,
			Tag: req.Label,
		},
	}
}
