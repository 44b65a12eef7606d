package model

import "context"

// ── Collaborator Port Interfaces ──
// These interfaces decouple the analyzer loop from concrete implementations
// (market-data providers, Redis cache, SQLite history). Each implementation
// satisfies one or more of these interfaces.

// FetchResult is a provider response: a candle window plus data-quality flags
// describing how it was obtained.
type FetchResult struct {
	Candles  []Candle
	Fallback bool // a coarser interval was substituted for the requested one
}

// Provider fetches a candle window for a symbol and timeframe.
type Provider interface {
	// Name returns the provider identifier used in cache keys ("binance",
	// "alphavantage", "twelvedata").
	Name() string

	// Fetch returns up to limit candles in ascending time order.
	Fetch(ctx context.Context, symbol, timeframe string, limit int) (FetchResult, error)

	// Supports reports whether the provider can serve the given symbol.
	Supports(symbol string) bool
}

// WindowCache stores recently fetched windows keyed by
// provider:symbol:timeframe, with per-provider freshness TTLs.
type WindowCache interface {
	// Get returns the cached window and whether it is still fresh.
	// A nil slice means no cache entry exists.
	Get(ctx context.Context, provider, symbol, timeframe string) (candles []Candle, fresh bool, err error)

	// Put stores a window with the provider's freshness TTL.
	Put(ctx context.Context, provider, symbol, timeframe string, candles []Candle) error

	// Close releases underlying resources.
	Close() error
}

// CandleStore persists candle history for offline replay.
type CandleStore interface {
	// WriteCandles upserts a batch of candles for a symbol/timeframe.
	WriteCandles(ctx context.Context, symbol, timeframe string, candles []Candle) error

	// ReadCandles reads candles for a symbol/timeframe after a timestamp,
	// ascending, up to limit (0 = no limit).
	ReadCandles(ctx context.Context, symbol, timeframe string, afterMS int64, limit int) ([]Candle, error)

	// Close releases underlying resources.
	Close() error
}

// ResultStore persists backtest runs.
type ResultStore interface {
	// WriteBacktest stores one aggregate backtest result for a symbol.
	WriteBacktest(ctx context.Context, symbol, timeframe string, res BacktestResult) error

	// Close releases underlying resources.
	Close() error
}
