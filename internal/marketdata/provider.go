// Package marketdata fetches OHLCV candle history from external providers.
// Providers are tried in registration order; the first one that supports
// the symbol and returns data wins.
package marketdata

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"sort"
	"strings"
	"time"

	"trading-analyzer/internal/model"
)

// RequestTimeout bounds every outbound provider request.
const RequestTimeout = 12 * time.Second

// Provider failure taxonomy. Callers branch on these to decide whether a
// retry, a key rotation or a provider fallback makes sense.
var (
	ErrRateLimited     = errors.New("marketdata: provider rate limit reached")
	ErrInvalidKey      = errors.New("marketdata: invalid or missing API key")
	ErrPremiumRequired = errors.New("marketdata: endpoint requires a premium plan")
	ErrNoData          = errors.New("marketdata: provider returned no candles")
	ErrUnsupported     = errors.New("marketdata: no provider supports this symbol")
)

// httpClient is shared by all providers. Per-request deadlines come from
// context, the client timeout is a backstop.
var httpClient = &http.Client{Timeout: RequestTimeout + 2*time.Second}

// Registry is an ordered provider chain implementing model.Provider itself.
type Registry struct {
	providers []model.Provider
}

func NewRegistry(providers ...model.Provider) *Registry {
	return &Registry{providers: providers}
}

func (r *Registry) Name() string { return "registry" }

func (r *Registry) Supports(symbol string) bool {
	for _, p := range r.providers {
		if p.Supports(symbol) {
			return true
		}
	}
	return false
}

// Fetch walks the chain. A provider that does not support the symbol is
// skipped silently; a supporting provider that fails is logged and the next
// one is tried. The last error is returned when every provider fails.
func (r *Registry) Fetch(ctx context.Context, symbol, timeframe string, limit int) (model.FetchResult, error) {
	var lastErr error
	for _, p := range r.providers {
		if !p.Supports(symbol) {
			continue
		}
		res, err := p.Fetch(ctx, symbol, timeframe, limit)
		if err == nil {
			return res, nil
		}
		lastErr = err
		log.Printf("[marketdata] %s failed for %s %s: %v", p.Name(), symbol, timeframe, err)
		if ctx.Err() != nil {
			return model.FetchResult{}, ctx.Err()
		}
	}
	if lastErr == nil {
		return model.FetchResult{}, fmt.Errorf("%w: %s", ErrUnsupported, symbol)
	}
	return model.FetchResult{}, lastErr
}

// cryptoBases are the assets served by Binance spot klines.
var cryptoBases = map[string]bool{
	"BTC": true, "ETH": true, "BNB": true, "SOL": true, "XRP": true,
	"ADA": true, "DOGE": true, "DOT": true, "LINK": true, "LTC": true,
	"AVAX": true, "MATIC": true, "ATOM": true, "UNI": true,
}

// splitPair returns base and quote for "BTC/USD" style symbols. ok is false
// for plain equity tickers.
func splitPair(symbol string) (base, quote string, ok bool) {
	parts := strings.SplitN(symbol, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return strings.ToUpper(parts[0]), strings.ToUpper(parts[1]), true
}

func isCryptoSymbol(symbol string) bool {
	base, _, ok := splitPair(symbol)
	return ok && cryptoBases[base]
}

func isForexSymbol(symbol string) bool {
	base, _, ok := splitPair(symbol)
	return ok && !cryptoBases[base]
}

// syntheticVolume fills in the missing volume on forex bars so volume-ratio
// scoring stays meaningful: bar range scaled to a notional turnover.
func syntheticVolume(high, low, close float64) float64 {
	if close <= 0 {
		return 1
	}
	v := math.Round((high - low) / close * 1e7)
	return math.Max(1, v)
}

// sortAscending orders candles oldest-first in place, which every provider
// guarantees on its output.
func sortAscending(candles []model.Candle) {
	sort.Slice(candles, func(i, j int) bool { return candles[i].Time < candles[j].Time })
}
