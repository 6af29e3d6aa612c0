package account

import (
	"context"
	"errors"

	"github.com/lohzi97/FiboManualTradingPanel/internal/instrument"
	"github.com/lohzi97/FiboManualTradingPanel/internal/timeframe"
	"github.com/lohzi97/FiboManualTradingPanel/internal/types"
)

// StaticMarket serves a fixed swing bar and the built-in instrument table.
// It backs paper trading where the trader types the bar high/low in.
type StaticMarket struct {
	Bar types.Bar
}

func (m StaticMarket) LastClosedBar(ctx context.Context, name string, tf timeframe.Timeframe) (types.Bar, error) {
	if m.Bar.High < m.Bar.Low {
		return types.Bar{}, errors.New("bar high is below bar low")
	}
	return m.Bar, nil
}

func (m StaticMarket) Instrument(ctx context.Context, name string) (instrument.Spec, error) {
	return instrument.Lookup(name)
}
