// Package redis caches fetched candle windows so repeated evaluations of
// the same symbol do not hammer the upstream providers. Freshness is
// tracked separately from the data so an expired entry can still be served
// as a stale window when the provider is down.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	goredis "github.com/go-redis/redis/v8"

	"trading-analyzer/internal/model"
)

// Per-provider freshness windows, matched to each provider's rate limits.
var providerTTLs = map[string]time.Duration{
	"binance":      10 * time.Second,
	"alphavantage": 180 * time.Second,
	"twelvedata":   45 * time.Second,
}

const (
	defaultTTL = 30 * time.Second

	// staleRetention is how long an expired window stays servable.
	staleRetention = 30 * time.Minute
)

// Config configures the cache connection.
type Config struct {
	Addr     string // e.g. "localhost:6379"
	Password string
	DB       int
}

// Cache implements model.WindowCache on Redis. All operations pass through
// a circuit breaker so a down Redis degrades to cache misses instead of
// stalling every fetch.
type Cache struct {
	client  *goredis.Client
	breaker *CircuitBreaker
}

// Client returns the underlying Redis client for health checks.
func (c *Cache) Client() *goredis.Client { return c.client }

// New connects and pings the server.
func New(cfg Config) (*Cache, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	log.Printf("[redis] connected to %s", cfg.Addr)
	return &Cache{
		client:  client,
		breaker: NewCircuitBreaker(5, 30*time.Second),
	}, nil
}

func dataKey(provider, symbol, timeframe string) string {
	return "candles:" + provider + ":" + symbol + ":" + timeframe
}

func freshKey(provider, symbol, timeframe string) string {
	return "fresh:" + provider + ":" + symbol + ":" + timeframe
}

// Get returns the cached window and whether it is still fresh. A miss
// returns (nil, false, nil).
func (c *Cache) Get(ctx context.Context, provider, symbol, timeframe string) ([]model.Candle, bool, error) {
	var (
		candles []model.Candle
		fresh   bool
	)
	err := c.breaker.Execute(func() error {
		raw, err := c.client.Get(ctx, dataKey(provider, symbol, timeframe)).Bytes()
		if err == goredis.Nil {
			return nil
		}
		if err != nil {
			return fmt.Errorf("redis get: %w", err)
		}
		if err := json.Unmarshal(raw, &candles); err != nil {
			return fmt.Errorf("redis decode window: %w", err)
		}
		n, err := c.client.Exists(ctx, freshKey(provider, symbol, timeframe)).Result()
		if err != nil {
			return fmt.Errorf("redis exists: %w", err)
		}
		fresh = n > 0
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return candles, fresh, nil
}

// Put stores the window and arms the freshness marker with the provider's
// TTL.
func (c *Cache) Put(ctx context.Context, provider, symbol, timeframe string, candles []model.Candle) error {
	raw, err := json.Marshal(candles)
	if err != nil {
		return fmt.Errorf("redis encode window: %w", err)
	}
	ttl, ok := providerTTLs[provider]
	if !ok {
		ttl = defaultTTL
	}
	return c.breaker.Execute(func() error {
		pipe := c.client.Pipeline()
		pipe.Set(ctx, dataKey(provider, symbol, timeframe), raw, staleRetention)
		pipe.Set(ctx, freshKey(provider, symbol, timeframe), "1", ttl)
		if _, err := pipe.Exec(ctx); err != nil {
			return fmt.Errorf("redis put window: %w", err)
		}
		return nil
	})
}

func (c *Cache) Close() error {
	return c.client.Close()
}
