package oanda

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/lohzi97/FiboManualTradingPanel/internal/logging"
	"github.com/lohzi97/FiboManualTradingPanel/internal/timeframe"
	"github.com/lohzi97/FiboManualTradingPanel/internal/types"
)

const (
	DefaultBaseUrl = "https://api-fxpractice.oanda.com"

	// Enough history to find a complete candle behind the one still forming
	lastClosedBarCount = 3

	// Oanda allows 120 requests per second per connection
	DefaultRequestsPerSecond = 100

	// Oanda granularities
	M1  CandlestickGranularity = "M1"
	M2  CandlestickGranularity = "M2"
	M4  CandlestickGranularity = "M4"
	M5  CandlestickGranularity = "M5"
	M10 CandlestickGranularity = "M10"
	M15 CandlestickGranularity = "M15"
	M30 CandlestickGranularity = "M30"
	H1  CandlestickGranularity = "H1"
	H2  CandlestickGranularity = "H2"
	H3  CandlestickGranularity = "H3"
	H4  CandlestickGranularity = "H4"
	H6  CandlestickGranularity = "H6"
	H8  CandlestickGranularity = "H8"
	H12 CandlestickGranularity = "H12"
	D   CandlestickGranularity = "D"
	M   CandlestickGranularity = "M"
)

var oandaLog = logging.New("oanda")

// Chart timeframes Oanda can serve candles for. M3, M6-M9, M20, M45, D2
// and D3 have no Oanda granularity.
var timeframeToGranularity = map[timeframe.Timeframe]CandlestickGranularity{
	timeframe.M1:  M1,
	timeframe.M2:  M2,
	timeframe.M4:  M4,
	timeframe.M5:  M5,
	timeframe.M10: M10,
	timeframe.M15: M15,
	timeframe.M30: M30,
	timeframe.H1:  H1,
	timeframe.H2:  H2,
	timeframe.H3:  H3,
	timeframe.H4:  H4,
	timeframe.H6:  H6,
	timeframe.H8:  H8,
	timeframe.H12: H12,
	timeframe.D1:  D,
	timeframe.MN1: M,
}

// GranularityFor returns the Oanda granularity for a chart timeframe.
func GranularityFor(tf timeframe.Timeframe) (CandlestickGranularity, error) {
	g, ok := timeframeToGranularity[tf]
	if !ok {
		return "", fmt.Errorf("timeframe %s has no oanda granularity: %w", tf, timeframe.ErrUnrecognizedTimeframe)
	}
	return g, nil
}

func (g CandlestickGranularity) String() string {
	return string(g)
}

func NewOandaService(accountId, apiKey, apiUrl string) *OandaService {
	if apiUrl == "" {
		apiUrl = DefaultBaseUrl
	}

	return &OandaService{
		AccountId: accountId,
		ApiKey:    apiKey,
		ApiUrl:    apiUrl,
		client:    &http.Client{Timeout: 30 * time.Second},
		limiter:   rate.NewLimiter(rate.Limit(DefaultRequestsPerSecond), DefaultRequestsPerSecond),
	}
}

// WithHTTPClient swaps the HTTP client, mainly for tests.
func (s *OandaService) WithHTTPClient(c *http.Client) *OandaService {
	s.client = c
	return s
}

// LastClosedBar returns the most recent complete candle.
func (s *OandaService) LastClosedBar(ctx context.Context, instrument string, tf timeframe.Timeframe) (types.Bar, error) {
	granularity, err := GranularityFor(tf)
	if err != nil {
		return types.Bar{}, err
	}

	resp, err := s.fetchHistoricCandles(ctx, CandleRequest{
		Instrument:  InstrumentName(instrument),
		Granularity: granularity,
		Count:       lastClosedBarCount,
	})
	if err != nil {
		return types.Bar{}, err
	}

	for i := len(resp.Candles) - 1; i >= 0; i-- {
		if !resp.Candles[i].Complete {
			continue
		}
		bars, err := s.candlesToBars(resp.Candles[i : i+1])
		if err != nil {
			return types.Bar{}, err
		}
		oandaLog.Debug("Last closed bar", "instrument", instrument, "granularity", granularity, "high", bars[0].High, "low", bars[0].Low, "timestamp", bars[0].Timestamp)
		return bars[0], nil
	}

	return types.Bar{}, fmt.Errorf("no closed %s candle for %s", granularity, instrument)
}

func (s *OandaService) candlesToBars(candles []Candlestick) ([]types.Bar, error) {
	bars := make([]types.Bar, 0, len(candles))
	for _, candle := range candles {
		timestamp, err := time.Parse(time.RFC3339, candle.Time)
		if err != nil {
			return nil, fmt.Errorf("failed to parse candle time %s: %w", candle.Time, err)
		}

		o, err := candle.Mid.O.Float()
		if err != nil {
			return nil, fmt.Errorf("failed to parse candle open price %s: %w", candle.Mid.O, err)
		}
		h, err := candle.Mid.H.Float()
		if err != nil {
			return nil, fmt.Errorf("failed to parse candle high price %s: %w", candle.Mid.H, err)
		}
		l, err := candle.Mid.L.Float()
		if err != nil {
			return nil, fmt.Errorf("failed to parse candle low price %s: %w", candle.Mid.L, err)
		}
		c, err := candle.Mid.C.Float()
		if err != nil {
			return nil, fmt.Errorf("failed to parse candle close price %s: %w", candle.Mid.C, err)
		}

		bars = append(bars, types.Bar{
			Timestamp: timestamp,
			Open:      o,
			High:      h,
			Low:       l,
			Close:     c,
			Volume:    float64(candle.Volume),
		})
	}
	return bars, nil
}

func (p PriceValue) Float() (float64, error) {
	return strconv.ParseFloat(string(p), 64)
}

func (s *OandaService) fetchHistoricCandles(ctx context.Context, req CandleRequest) (*CandlestickResponse, error) {
	path := "/v3/accounts/" + s.AccountId + "/instruments/" + string(req.Instrument) + "/candles"

	params := url.Values{}
	params.Add("price", "M")
	if req.Granularity != "" {
		params.Add("granularity", string(req.Granularity))
	}
	if req.Count != 0 {
		params.Add("count", strconv.Itoa(req.Count))
	}

	oandaLog.Info("Fetching historic candles", "instrument", req.Instrument, "granularity", req.Granularity, "count", req.Count)

	var candleResp CandlestickResponse
	if err := s.do(ctx, http.MethodGet, path+"?"+params.Encode(), nil, &candleResp); err != nil {
		return nil, fmt.Errorf("failed to fetch candles: %w", err)
	}

	return &candleResp, nil
}

// do sends one request to the Oanda REST API and decodes the JSON reply into out.
func (s *OandaService) do(ctx context.Context, method, path string, body any, out any) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	fullURL := s.ApiUrl + path
	oandaLog.Debug("Request URL", "method", method, "url", fullURL)

	httpReq, err := http.NewRequestWithContext(ctx, method, fullURL, reqBody)
	if err != nil {
		return err
	}

	httpReq.Header.Set("Authorization", "Bearer "+s.ApiKey)
	httpReq.Header.Set("Accept-Datetime-Format", "RFC3339")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		bodyBytes, err := io.ReadAll(resp.Body)
		if err != nil {
			slog.Error("Failed to read error response body",
				"statusCode", resp.StatusCode,
				"error", err)
			return fmt.Errorf("status code %d, could not read error body: %w", resp.StatusCode, err)
		}

		rawRespBody := string(bodyBytes)
		slog.Error("Oanda API returned an error status",
			"path", path,
			"statusCode", resp.StatusCode,
			"rawResponse", rawRespBody)

		return fmt.Errorf("status code %d, API Response: %s", resp.StatusCode, rawRespBody)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
