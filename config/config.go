package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Provider credentials. Binance klines need no key; the other two are
	// optional and enable their providers when set.
	AlphaVantageKey string
	TwelveDataKey   string

	// Infrastructure
	RedisAddr     string
	RedisPassword string
	SQLitePath    string
	APIAddr       string

	// Analysis
	Symbols      string // comma-separated, e.g. "BTC/USD,EUR/USD"
	Timeframe    string // 1m 5m 15m 30m 1h 4h 1d
	PollInterval time.Duration
	StreamSymbol string // crypto symbol to follow live over WS, "" disables

	// Engine overrides, 0 keeps the engine default.
	MinConfirmations int
	BTMinConfidence  int

	// Alerting
	TelegramBotToken string
	TelegramChatID   string
	WebhookURL       string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		AlphaVantageKey: getEnv("ALPHAVANTAGE_API_KEY", ""),
		TwelveDataKey:   getEnv("TWELVEDATA_API_KEY", ""),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		SQLitePath:    getEnv("SQLITE_PATH", "data/analyzer.db"),
		APIAddr:       getEnv("API_ADDR", ":8080"),

		Symbols:      getEnv("SYMBOLS", "BTC/USD"),
		Timeframe:    getEnv("TIMEFRAME", "1h"),
		PollInterval: envDuration("POLL_INTERVAL", 30*time.Second),
		StreamSymbol: getEnv("STREAM_SYMBOL", ""),

		MinConfirmations: envInt("MIN_CONFIRMATIONS", 0),
		BTMinConfidence:  envInt("BT_MIN_CONFIDENCE", 0),

		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramChatID:   getEnv("TELEGRAM_CHAT_ID", ""),
		WebhookURL:       getEnv("WEBHOOK_URL", ""),
	}
}

// ParseSymbols splits the Symbols string into a cleaned slice.
func (c *Config) ParseSymbols() []string {
	parts := strings.Split(c.Symbols, ",")
	symbols := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		symbols = append(symbols, p)
	}
	return symbols
}

func getEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("[config] invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	// Accept plain seconds as well as Go duration strings.
	if n, err := strconv.Atoi(v); err == nil && n > 0 {
		return time.Duration(n) * time.Second
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Printf("[config] invalid %s=%q, using %s", key, v, fallback)
		return fallback
	}
	return d
}
