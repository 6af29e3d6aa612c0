package oanda

import (
	"net/http"
	"sync"

	"golang.org/x/time/rate"
)

// https://developer.oanda.com/rest-live-v20/pricing-ep/

type Candlestick struct {
	Time     string          `json:"time"`
	Bid      CandleStickData `json:"bid"`
	Ask      CandleStickData `json:"ask"`
	Mid      CandleStickData `json:"mid"`
	Volume   int             `json:"volume"`
	Complete bool            `json:"complete"`
}

type CandleStickData struct {
	O PriceValue `json:"o"`
	H PriceValue `json:"h"`
	L PriceValue `json:"l"`
	C PriceValue `json:"c"`
}

type PriceValue string
type InstrumentName string

type CandlestickGranularity string

type CandlestickResponse struct {
	Candles     []Candlestick          `json:"candles"`
	Instrument  InstrumentName         `json:"instrument"`
	Granularity CandlestickGranularity `json:"granularity"`
}

type OandaService struct {
	AccountId string
	ApiKey    string
	ApiUrl    string

	client   *http.Client
	limiter  *rate.Limiter
	inflight sync.WaitGroup
}

type CandleRequest struct {
	Instrument  InstrumentName         `json:"instrument"`
	Granularity CandlestickGranularity `json:"granularity,omitempty"` // Default S5
	Count       int                    `json:"count,omitempty"`       // Default 500, max 5000
}

// https://developer.oanda.com/rest-live-v20/account-ep/

type AccountSummaryResponse struct {
	Account struct {
		ID       string `json:"id"`
		Currency string `json:"currency"`
		Balance  string `json:"balance"`
	} `json:"account"`
}

type Instrument struct {
	Name                string         `json:"name"`
	Type                string         `json:"type"` // CURRENCY, CFD, METAL
	PipLocation         int            `json:"pipLocation"`
	DisplayPrecision    int            `json:"displayPrecision"`
	TradeUnitsPrecision int            `json:"tradeUnitsPrecision"`
	MinimumTradeSize    string         `json:"minimumTradeSize"`
	DisplayName         InstrumentName `json:"displayName"`
}

type InstrumentsResponse struct {
	Instruments []Instrument `json:"instruments"`
}

// https://developer.oanda.com/rest-live-v20/order-ep/

type OrderCreateRequest struct {
	Order LimitOrderRequest `json:"order"`
}

type LimitOrderRequest struct {
	Type             string            `json:"type"` // LIMIT
	Instrument       InstrumentName    `json:"instrument"`
	Units            string            `json:"units"` // negative for a sell
	Price            PriceValue        `json:"price"`
	TimeInForce      string            `json:"timeInForce"` // GTD
	GtdTime          string            `json:"gtdTime"`
	PositionFill     string            `json:"positionFill"`
	StopLossOnFill   *StopLossDetails  `json:"stopLossOnFill,omitempty"`
	TakeProfitOnFill *TakeProfitDetail `json:"takeProfitOnFill,omitempty"`
	ClientExtensions *ClientExtensions `json:"clientExtensions,omitempty"`
}

type StopLossDetails struct {
	Distance PriceValue `json:"distance"`
}

type TakeProfitDetail struct {
	Price PriceValue `json:"price"`
}

type ClientExtensions struct {
	ID      string `json:"id"`
	Tag     string `json:"tag,omitempty"`
	Comment string `json:"comment,omitempty"`
}

type OrderCreateResponse struct {
	OrderCreateTransaction struct {
		ID   string `json:"id"`
		Type string `json:"type"`
	} `json:"orderCreateTransaction"`
	OrderCancelTransaction *struct {
		Reason string `json:"reason"`
	} `json:"orderCancelTransaction,omitempty"`
	ErrorMessage string `json:"errorMessage,omitempty"`
}
