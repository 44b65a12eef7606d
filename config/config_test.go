package config

import (
	"reflect"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.Symbols != "BTC/USD" || cfg.Timeframe != "1h" {
		t.Errorf("analysis defaults: %+v", cfg)
	}
	if cfg.PollInterval != 30*time.Second {
		t.Errorf("poll interval default: %s", cfg.PollInterval)
	}
	if cfg.APIAddr != ":8080" || cfg.SQLitePath != "data/analyzer.db" {
		t.Errorf("infra defaults: %+v", cfg)
	}
}

func TestParseSymbols(t *testing.T) {
	c := &Config{Symbols: " BTC/USD, EUR/USD ,,AAPL "}
	got := c.ParseSymbols()
	want := []string{"BTC/USD", "EUR/USD", "AAPL"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestEnvInt(t *testing.T) {
	t.Setenv("TEST_COUNT", "9")
	if got := envInt("TEST_COUNT", 3); got != 9 {
		t.Errorf("expected 9, got %d", got)
	}
	t.Setenv("TEST_COUNT", "bogus")
	if got := envInt("TEST_COUNT", 3); got != 3 {
		t.Errorf("invalid value must fall back, got %d", got)
	}
}

func TestEnvDuration(t *testing.T) {
	t.Setenv("TEST_INTERVAL", "45")
	if got := envDuration("TEST_INTERVAL", time.Second); got != 45*time.Second {
		t.Errorf("plain seconds: %s", got)
	}
	t.Setenv("TEST_INTERVAL", "2m")
	if got := envDuration("TEST_INTERVAL", time.Second); got != 2*time.Minute {
		t.Errorf("duration string: %s", got)
	}
	t.Setenv("TEST_INTERVAL", "bogus")
	if got := envDuration("TEST_INTERVAL", 7*time.Second); got != 7*time.Second {
		t.Errorf("invalid value must fall back: %s", got)
	}
}
