package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"trading-analyzer/internal/model"
)

const twelveDataBaseURL = "https://api.twelvedata.com"

var tdIntervals = map[string]string{
	"1m": "1min", "5m": "5min", "15m": "15min", "30m": "30min",
	"1h": "1h", "4h": "4h", "1d": "1day",
}

// TwelveData serves forex pairs and stock tickers as the second line behind
// Alpha Vantage.
type TwelveData struct {
	apiKey  string
	baseURL string
}

func NewTwelveData(apiKey string) *TwelveData {
	return &TwelveData{apiKey: apiKey, baseURL: twelveDataBaseURL}
}

func (t *TwelveData) Name() string { return "twelvedata" }

func (t *TwelveData) Supports(symbol string) bool {
	if t.apiKey == "" {
		return false
	}
	return !isCryptoSymbol(symbol)
}

// tdResponse covers both the success and the error envelope; Status tells
// them apart.
type tdResponse struct {
	Status  string `json:"status"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Values  []struct {
		Datetime string `json:"datetime"`
		Open     string `json:"open"`
		High     string `json:"high"`
		Low      string `json:"low"`
		Close    string `json:"close"`
		Volume   string `json:"volume"`
	} `json:"values"`
}

func (t *TwelveData) Fetch(ctx context.Context, symbol, timeframe string, limit int) (model.FetchResult, error) {
	interval, ok := tdIntervals[timeframe]
	if !ok {
		return model.FetchResult{}, fmt.Errorf("twelvedata: unsupported timeframe %q", timeframe)
	}

	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("interval", interval)
	q.Set("outputsize", strconv.Itoa(limit))
	q.Set("apikey", t.apiKey)

	ctx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+"/time_series?"+q.Encode(), nil)
	if err != nil {
		return model.FetchResult{}, fmt.Errorf("twelvedata: build request: %w", err)
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return model.FetchResult{}, fmt.Errorf("twelvedata: fetch: %w", err)
	}
	defer resp.Body.Close()

	var body tdResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return model.FetchResult{}, fmt.Errorf("twelvedata: decode: %w", err)
	}
	if body.Status == "error" {
		return model.FetchResult{}, tdError(body)
	}
	if len(body.Values) == 0 {
		return model.FetchResult{}, fmt.Errorf("twelvedata: %w", ErrNoData)
	}

	forex := isForexSymbol(symbol)
	candles := make([]model.Candle, 0, len(body.Values))
	for _, v := range body.Values {
		ts, err := parseAVTime(v.Datetime)
		if err != nil {
			return model.FetchResult{}, fmt.Errorf("twelvedata: bad timestamp %q", v.Datetime)
		}
		c := model.Candle{Time: ts}
		if c.Open, err = strconv.ParseFloat(v.Open, 64); err != nil {
			return model.FetchResult{}, fmt.Errorf("twelvedata: open: %w", err)
		}
		if c.High, err = strconv.ParseFloat(v.High, 64); err != nil {
			return model.FetchResult{}, fmt.Errorf("twelvedata: high: %w", err)
		}
		if c.Low, err = strconv.ParseFloat(v.Low, 64); err != nil {
			return model.FetchResult{}, fmt.Errorf("twelvedata: low: %w", err)
		}
		if c.Close, err = strconv.ParseFloat(v.Close, 64); err != nil {
			return model.FetchResult{}, fmt.Errorf("twelvedata: close: %w", err)
		}
		switch {
		case v.Volume != "":
			if c.Volume, err = strconv.ParseFloat(v.Volume, 64); err != nil {
				return model.FetchResult{}, fmt.Errorf("twelvedata: volume: %w", err)
			}
		case forex:
			c.Volume = syntheticVolume(c.High, c.Low, c.Close)
		}
		candles = append(candles, c)
	}
	sortAscending(candles)
	return model.FetchResult{Candles: candles}, nil
}

func tdError(body tdResponse) error {
	switch body.Code {
	case http.StatusTooManyRequests:
		return fmt.Errorf("twelvedata: %w: %s", ErrRateLimited, body.Message)
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("twelvedata: %w: %s", ErrInvalidKey, body.Message)
	default:
		return fmt.Errorf("twelvedata: error %d: %s", body.Code, body.Message)
	}
}
