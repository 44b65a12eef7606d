package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"trading-analyzer/internal/model"
)

const binanceBaseURL = "https://api.binance.com"

// binanceIntervals maps our timeframe names onto Binance kline intervals.
var binanceIntervals = map[string]string{
	"1m": "1m", "5m": "5m", "15m": "15m", "30m": "30m",
	"1h": "1h", "4h": "4h", "1d": "1d",
}

// Binance serves crypto pairs from the public spot klines endpoint.
// No API key is required for historical klines.
type Binance struct {
	baseURL string
}

func NewBinance() *Binance {
	return &Binance{baseURL: binanceBaseURL}
}

func (b *Binance) Name() string { return "binance" }

func (b *Binance) Supports(symbol string) bool { return isCryptoSymbol(symbol) }

// binanceSymbol converts "BTC/USD" to the exchange ticker "BTCUSDT".
// Binance quotes crypto in USDT, which the original treats as USD.
func binanceSymbol(symbol string) (string, error) {
	base, quote, ok := splitPair(symbol)
	if !ok {
		return "", fmt.Errorf("binance: not a pair symbol: %q", symbol)
	}
	if quote == "USD" {
		quote = "USDT"
	}
	return base + quote, nil
}

func (b *Binance) Fetch(ctx context.Context, symbol, timeframe string, limit int) (model.FetchResult, error) {
	interval, ok := binanceIntervals[timeframe]
	if !ok {
		return model.FetchResult{}, fmt.Errorf("binance: unsupported timeframe %q", timeframe)
	}
	ticker, err := binanceSymbol(symbol)
	if err != nil {
		return model.FetchResult{}, err
	}

	q := url.Values{}
	q.Set("symbol", ticker)
	q.Set("interval", interval)
	q.Set("limit", strconv.Itoa(limit))

	ctx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.baseURL+"/api/v3/klines?"+q.Encode(), nil)
	if err != nil {
		return model.FetchResult{}, fmt.Errorf("binance: build request: %w", err)
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return model.FetchResult{}, fmt.Errorf("binance: fetch klines: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == 418:
		return model.FetchResult{}, fmt.Errorf("binance: %w", ErrRateLimited)
	case resp.StatusCode != http.StatusOK:
		return model.FetchResult{}, fmt.Errorf("binance: unexpected status %s", resp.Status)
	}

	var rows [][]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return model.FetchResult{}, fmt.Errorf("binance: decode klines: %w", err)
	}
	candles, err := parseBinanceKlines(rows)
	if err != nil {
		return model.FetchResult{}, err
	}
	if len(candles) == 0 {
		return model.FetchResult{}, fmt.Errorf("binance: %w", ErrNoData)
	}
	sortAscending(candles)
	return model.FetchResult{Candles: candles}, nil
}

// parseBinanceKlines decodes the kline row layout:
// [openTime, "open", "high", "low", "close", "volume", closeTime, ...].
// Prices arrive as JSON strings.
func parseBinanceKlines(rows [][]json.RawMessage) ([]model.Candle, error) {
	candles := make([]model.Candle, 0, len(rows))
	for _, row := range rows {
		if len(row) < 6 {
			return nil, fmt.Errorf("binance: short kline row (%d fields)", len(row))
		}
		var openTime int64
		if err := json.Unmarshal(row[0], &openTime); err != nil {
			return nil, fmt.Errorf("binance: kline open time: %w", err)
		}
		vals := make([]float64, 5)
		for i := 1; i <= 5; i++ {
			var s string
			if err := json.Unmarshal(row[i], &s); err != nil {
				return nil, fmt.Errorf("binance: kline field %d: %w", i, err)
			}
			f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				return nil, fmt.Errorf("binance: kline field %d: %w", i, err)
			}
			vals[i-1] = f
		}
		candles = append(candles, model.Candle{
			Time:   openTime,
			Open:   vals[0],
			High:   vals[1],
			Low:    vals[2],
			Close:  vals[3],
			Volume: vals[4],
		})
	}
	return candles, nil
}
