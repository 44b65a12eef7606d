package marketdata

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestBinanceSymbol(t *testing.T) {
	got, err := binanceSymbol("BTC/USD")
	if err != nil || got != "BTCUSDT" {
		t.Errorf("BTC/USD: expected BTCUSDT, got %q (%v)", got, err)
	}
	got, err = binanceSymbol("ETH/USDT")
	if err != nil || got != "ETHUSDT" {
		t.Errorf("ETH/USDT: expected ETHUSDT, got %q (%v)", got, err)
	}
	if _, err := binanceSymbol("AAPL"); err == nil {
		t.Error("plain ticker must be rejected")
	}
}

func TestParseBinanceKlines(t *testing.T) {
	raw := `[
		[1700000000000, "100.1", "101.2", "99.5", "100.9", "1234.5", 1700003599999],
		[1700003600000, "100.9", "102.0", "100.4", "101.7", "987.6", 1700007199999]
	]`
	var rows [][]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &rows); err != nil {
		t.Fatal(err)
	}
	candles, err := parseBinanceKlines(rows)
	if err != nil {
		t.Fatal(err)
	}
	if len(candles) != 2 {
		t.Fatalf("expected 2 candles, got %d", len(candles))
	}
	c := candles[0]
	if c.Time != 1700000000000 || c.Open != 100.1 || c.High != 101.2 ||
		c.Low != 99.5 || c.Close != 100.9 || c.Volume != 1234.5 {
		t.Errorf("first candle mismatch: %+v", c)
	}
}

func TestParseBinanceKlines_ShortRow(t *testing.T) {
	rows := [][]json.RawMessage{{json.RawMessage(`1700000000000`)}}
	if _, err := parseBinanceKlines(rows); err == nil {
		t.Error("short row must fail")
	}
}

func TestBinanceFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("symbol"); got != "BTCUSDT" {
			t.Errorf("symbol query: %q", got)
		}
		if got := r.URL.Query().Get("interval"); got != "1h" {
			t.Errorf("interval query: %q", got)
		}
		// Out of order on purpose: Fetch must sort ascending.
		w.Write([]byte(`[
			[1700003600000, "2", "3", "1", "2.5", "20", 0],
			[1700000000000, "1", "2", "0.5", "1.5", "10", 0]
		]`))
	}))
	defer srv.Close()

	b := &Binance{baseURL: srv.URL}
	res, err := b.Fetch(context.Background(), "BTC/USD", "1h", 100)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Candles) != 2 || res.Candles[0].Time != 1700000000000 {
		t.Errorf("candles not sorted ascending: %+v", res.Candles)
	}
	if res.Fallback {
		t.Error("binance never serves fallback data")
	}
}

func TestBinanceFetch_RateLimited(t *testing.T) {
	for _, status := range []int{http.StatusTooManyRequests, 418} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))
		b := &Binance{baseURL: srv.URL}
		_, err := b.Fetch(context.Background(), "BTC/USD", "1h", 100)
		srv.Close()
		if !errors.Is(err, ErrRateLimited) {
			t.Errorf("status %d: expected ErrRateLimited, got %v", status, err)
		}
	}
}

func TestBinanceFetch_UnsupportedTimeframe(t *testing.T) {
	b := NewBinance()
	if _, err := b.Fetch(context.Background(), "BTC/USD", "2h", 100); err == nil {
		t.Error("unknown timeframe must fail before any request")
	}
}

func TestParseKlineEvent(t *testing.T) {
	msg := []byte(`{"e":"kline","k":{"t":1700000000000,"o":"100.0","h":"101.0","l":"99.0","c":"100.5","v":"42.5","x":true}}`)
	u, err := parseKlineEvent("BTC/USD", msg)
	if err != nil {
		t.Fatal(err)
	}
	if u.Symbol != "BTC/USD" || !u.Closed {
		t.Errorf("update envelope mismatch: %+v", u)
	}
	c := u.Candle
	if c.Time != 1700000000000 || c.Open != 100 || c.Close != 100.5 || c.Volume != 42.5 {
		t.Errorf("candle mismatch: %+v", c)
	}
}
