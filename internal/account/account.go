// Package account is an in-memory paper broker: it holds a balance and
// records the pending orders the panel places, without ever filling them.
package account

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/lohzi97/FiboManualTradingPanel/internal/order"
)

type Account struct {
	balance      float64
	pending      []PendingOrder
	nextTicketID int
}

type PendingOrder struct {
	Ticket   int
	PlacedAt time.Time
	Request  order.Request
}

func (p PendingOrder) Print(w io.Writer) {
	req := p.Request
	fmt.Fprintf(w, "#%d | %s %s | %.2f lots (%s units) @ %s | SL %s (%.1f pips) | TP %s (%.1f pips) | expires %s | %s\n",
		p.Ticket,
		req.Action,
		req.Instrument.Name,
		req.Lots,
		req.Instrument.FormatUnits(req.Volume),
		req.Instrument.FormatPrice(req.EntryPrice),
		req.Instrument.FormatPrice(req.StopLossPrice),
		req.StopLossPips,
		req.Instrument.FormatPrice(req.TakeProfitPrice),
		req.TakeProfitPips,
		req.Expiry.Format("2006-01-02 15:04"),
		req.Label,
	)
}

func NewAccount(initialBalance float64) *Account {
	return &Account{
		balance:      initialBalance,
		pending:      []PendingOrder{},
		nextTicketID: 1,
	}
}

func (a *Account) Balance(ctx context.Context) (float64, error) {
	return a.balance, nil
}

// PlaceLimitOrderAsync records the order as pending. Paper orders are accepted
// immediately, so there is nothing to wait for.
func (a *Account) PlaceLimitOrderAsync(ctx context.Context, req order.Request) {
	p := PendingOrder{
		Ticket:   a.nextTicketID,
		PlacedAt: time.Now().UTC(),
		Request:  req,
	}
	a.nextTicketID++
	a.pending = append(a.pending, p)

	slog.Info("Paper limit order accepted", "ticket", p.Ticket, "id", req.ID, "action", req.Action, "price", req.EntryPrice, "volume", req.Volume, "expiry", req.Expiry)
}

func (a *Account) PendingOrders() []PendingOrder {
	return a.pending
}

func (a *Account) PendingCount() int {
	return len(a.pending)
}
