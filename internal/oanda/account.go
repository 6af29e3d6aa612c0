package oanda

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/lohzi97/FiboManualTradingPanel/internal/instrument"
)

const currencyLotSize = 100000

// Balance returns the current account balance. It is fetched on every call.
func (s *OandaService) Balance(ctx context.Context) (float64, error) {
	var summary AccountSummaryResponse
	if err := s.do(ctx, http.MethodGet, "/v3/accounts/"+s.AccountId+"/summary", nil, &summary); err != nil {
		return 0, fmt.Errorf("failed to fetch account summary: %w", err)
	}

	balance, err := strconv.ParseFloat(summary.Account.Balance, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse account balance %q: %w", summary.Account.Balance, err)
	}

	oandaLog.Debug("Fetched account balance", "balance", balance, "currency", summary.Account.Currency)
	return balance, nil
}

// Instrument describes a tradable instrument using the account's instrument list.
func (s *OandaService) Instrument(ctx context.Context, name string) (instrument.Spec, error) {
	params := url.Values{}
	params.Add("instruments", name)

	var resp InstrumentsResponse
	if err := s.do(ctx, http.MethodGet, "/v3/accounts/"+s.AccountId+"/instruments?"+params.Encode(), nil, &resp); err != nil {
		return instrument.Spec{}, fmt.Errorf("failed to fetch instrument %s: %w", name, err)
	}

	for _, ins := range resp.Instruments {
		if ins.Name == name {
			return toSpec(ins), nil
		}
	}
	return instrument.Spec{}, fmt.Errorf("instrument %s not tradable on account %s", name, s.AccountId)
}

func toSpec(ins Instrument) instrument.Spec {
	// Oanda trades in units, lots are a convention. Prefer the static table,
	// otherwise assume standard lots for currencies and 1 unit for CFDs.
	lotSize := 1.0
	if known, err := instrument.Lookup(ins.Name); err == nil {
		lotSize = known.LotSize
	} else if ins.Type == "CURRENCY" {
		lotSize = currencyLotSize
	}

	return instrument.Spec{
		Name:             ins.Name,
		PipSize:          instrument.FromPipLocation(ins.PipLocation),
		LotSize:          lotSize,
		UnitsPrecision:   ins.TradeUnitsPrecision,
		DisplayPrecision: ins.DisplayPrecision,
	}
}
