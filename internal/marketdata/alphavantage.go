package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"trading-analyzer/internal/model"
)

const alphaVantageBaseURL = "https://www.alphavantage.co/query"

// avIntervals maps timeframes onto Alpha Vantage intraday interval names.
// 4h and 1d have no intraday form and go straight to the daily endpoint.
var avIntervals = map[string]string{
	"1m": "1min", "5m": "5min", "15m": "15min", "30m": "30min", "1h": "60min",
}

// AlphaVantage serves forex pairs and stock tickers. Intraday endpoints sit
// behind rate limits and a premium tier on the free key, so a failed
// intraday request falls back to the daily series with Fallback set.
type AlphaVantage struct {
	apiKey  string
	baseURL string
}

func NewAlphaVantage(apiKey string) *AlphaVantage {
	return &AlphaVantage{apiKey: apiKey, baseURL: alphaVantageBaseURL}
}

func (a *AlphaVantage) Name() string { return "alphavantage" }

// Supports covers forex pairs and plain stock tickers. Crypto goes to
// Binance.
func (a *AlphaVantage) Supports(symbol string) bool {
	if a.apiKey == "" {
		return false
	}
	return !isCryptoSymbol(symbol)
}

func (a *AlphaVantage) Fetch(ctx context.Context, symbol, timeframe string, limit int) (model.FetchResult, error) {
	if interval, ok := avIntervals[timeframe]; ok {
		candles, err := a.fetchSeries(ctx, symbol, interval, false)
		if err == nil {
			return capResult(candles, limit, false), nil
		}
		// Intraday endpoints are premium for some symbols; daily is not.
		daily, derr := a.fetchSeries(ctx, symbol, "", true)
		if derr != nil {
			return model.FetchResult{}, err
		}
		return capResult(daily, limit, true), nil
	}
	candles, err := a.fetchSeries(ctx, symbol, "", true)
	if err != nil {
		return model.FetchResult{}, err
	}
	fallback := timeframe != "1d"
	return capResult(candles, limit, fallback), nil
}

func (a *AlphaVantage) fetchSeries(ctx context.Context, symbol, interval string, daily bool) ([]model.Candle, error) {
	q := url.Values{}
	q.Set("apikey", a.apiKey)

	forex := isForexSymbol(symbol)
	switch {
	case forex && daily:
		base, quote, _ := splitPair(symbol)
		q.Set("function", "FX_DAILY")
		q.Set("from_symbol", base)
		q.Set("to_symbol", quote)
	case forex:
		base, quote, _ := splitPair(symbol)
		q.Set("function", "FX_INTRADAY")
		q.Set("from_symbol", base)
		q.Set("to_symbol", quote)
		q.Set("interval", interval)
	case daily:
		q.Set("function", "TIME_SERIES_DAILY")
		q.Set("symbol", symbol)
	default:
		q.Set("function", "TIME_SERIES_INTRADAY")
		q.Set("symbol", symbol)
		q.Set("interval", interval)
	}
	q.Set("outputsize", "full")

	ctx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("alphavantage: build request: %w", err)
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("alphavantage: fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("alphavantage: unexpected status %s", resp.Status)
	}

	var payload map[string]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("alphavantage: decode: %w", err)
	}
	if err := avError(payload); err != nil {
		return nil, err
	}
	return parseAVSeries(payload, forex)
}

// avError maps the Alpha Vantage soft-error envelope onto the provider
// failure taxonomy. Errors arrive as 200 responses with a single
// explanatory field.
func avError(payload map[string]json.RawMessage) error {
	if raw, ok := payload["Note"]; ok {
		return fmt.Errorf("alphavantage: %w: %s", ErrRateLimited, rawString(raw))
	}
	if raw, ok := payload["Information"]; ok {
		msg := rawString(raw)
		if strings.Contains(strings.ToLower(msg), "premium") {
			return fmt.Errorf("alphavantage: %w: %s", ErrPremiumRequired, msg)
		}
		return fmt.Errorf("alphavantage: %w: %s", ErrRateLimited, msg)
	}
	if raw, ok := payload["Error Message"]; ok {
		return fmt.Errorf("alphavantage: %w: %s", ErrInvalidKey, rawString(raw))
	}
	return nil
}

func rawString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return string(raw)
	}
	return s
}

// parseAVSeries finds the time-series object (its key embeds the interval,
// e.g. "Time Series FX (60min)") and flattens it oldest-first.
func parseAVSeries(payload map[string]json.RawMessage, forex bool) ([]model.Candle, error) {
	var seriesRaw json.RawMessage
	for key, raw := range payload {
		if strings.HasPrefix(key, "Time Series") {
			seriesRaw = raw
			break
		}
	}
	if seriesRaw == nil {
		return nil, fmt.Errorf("alphavantage: %w", ErrNoData)
	}

	var series map[string]map[string]string
	if err := json.Unmarshal(seriesRaw, &series); err != nil {
		return nil, fmt.Errorf("alphavantage: decode series: %w", err)
	}
	candles := make([]model.Candle, 0, len(series))
	for stamp, fields := range series {
		ts, err := parseAVTime(stamp)
		if err != nil {
			return nil, err
		}
		c := model.Candle{Time: ts}
		if c.Open, err = avField(fields, "1. open"); err != nil {
			return nil, err
		}
		if c.High, err = avField(fields, "2. high"); err != nil {
			return nil, err
		}
		if c.Low, err = avField(fields, "3. low"); err != nil {
			return nil, err
		}
		if c.Close, err = avField(fields, "4. close"); err != nil {
			return nil, err
		}
		if forex {
			c.Volume = syntheticVolume(c.High, c.Low, c.Close)
		} else if c.Volume, err = avField(fields, "5. volume"); err != nil {
			return nil, err
		}
		candles = append(candles, c)
	}
	if len(candles) == 0 {
		return nil, fmt.Errorf("alphavantage: %w", ErrNoData)
	}
	sortAscending(candles)
	return candles, nil
}

func avField(fields map[string]string, key string) (float64, error) {
	s, ok := fields[key]
	if !ok {
		return 0, fmt.Errorf("alphavantage: series missing %q", key)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("alphavantage: field %q: %w", key, err)
	}
	return v, nil
}

func parseAVTime(stamp string) (int64, error) {
	for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, stamp); err == nil {
			return t.UnixMilli(), nil
		}
	}
	return 0, fmt.Errorf("alphavantage: bad timestamp %q", stamp)
}

// capResult trims to the newest limit candles.
func capResult(candles []model.Candle, limit int, fallback bool) model.FetchResult {
	if limit > 0 && len(candles) > limit {
		candles = candles[len(candles)-limit:]
	}
	return model.FetchResult{Candles: candles, Fallback: fallback}
}

