package marketdata

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"trading-analyzer/internal/model"
)

func TestAVError_Taxonomy(t *testing.T) {
	cases := []struct {
		name    string
		payload string
		want    error
	}{
		{"note is rate limit", `{"Note":"5 calls per minute"}`, ErrRateLimited},
		{"information premium", `{"Information":"This is a premium endpoint"}`, ErrPremiumRequired},
		{"information other", `{"Information":"Thank you for using Alpha Vantage"}`, ErrRateLimited},
		{"error message", `{"Error Message":"Invalid API call"}`, ErrInvalidKey},
	}
	for _, tc := range cases {
		var payload map[string]json.RawMessage
		if err := json.Unmarshal([]byte(tc.payload), &payload); err != nil {
			t.Fatal(err)
		}
		if err := avError(payload); !errors.Is(err, tc.want) {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}

	clean := map[string]json.RawMessage{"Meta Data": json.RawMessage(`{}`)}
	if err := avError(clean); err != nil {
		t.Errorf("clean payload must pass: %v", err)
	}
}

func TestParseAVSeries_ForexSyntheticVolume(t *testing.T) {
	raw := `{
		"Meta Data": {},
		"Time Series FX (60min)": {
			"2024-01-02 11:00:00": {"1. open":"1.1010","2. high":"1.1030","3. low":"1.1000","4. close":"1.1020"},
			"2024-01-02 10:00:00": {"1. open":"1.1000","2. high":"1.1020","3. low":"1.0990","4. close":"1.1010"}
		}
	}`
	var payload map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		t.Fatal(err)
	}
	candles, err := parseAVSeries(payload, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(candles) != 2 {
		t.Fatalf("expected 2 candles, got %d", len(candles))
	}
	if candles[0].Time >= candles[1].Time {
		t.Error("candles must be sorted oldest-first")
	}
	for _, c := range candles {
		if c.Volume < 1 {
			t.Errorf("forex bars must carry synthetic volume: %+v", c)
		}
	}
}

func TestParseAVSeries_NoSeriesKey(t *testing.T) {
	payload := map[string]json.RawMessage{"Meta Data": json.RawMessage(`{}`)}
	if _, err := parseAVSeries(payload, false); !errors.Is(err, ErrNoData) {
		t.Errorf("expected ErrNoData, got %v", err)
	}
}

func TestParseAVTime(t *testing.T) {
	ts, err := parseAVTime("2024-01-02 10:30:00")
	if err != nil {
		t.Fatal(err)
	}
	want := time.Date(2024, 1, 2, 10, 30, 0, 0, time.UTC).UnixMilli()
	if ts != want {
		t.Errorf("intraday stamp: expected %d, got %d", want, ts)
	}

	ts, err = parseAVTime("2024-01-02")
	if err != nil {
		t.Fatal(err)
	}
	want = time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC).UnixMilli()
	if ts != want {
		t.Errorf("daily stamp: expected %d, got %d", want, ts)
	}

	if _, err := parseAVTime("02/01/2024"); err == nil {
		t.Error("unknown layout must fail")
	}
}

func TestAlphaVantageFetch_IntradayFallsBackToDaily(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("function") {
		case "FX_INTRADAY":
			w.Write([]byte(`{"Information":"premium endpoint"}`))
		case "FX_DAILY":
			w.Write([]byte(`{
				"Time Series FX (Daily)": {
					"2024-01-02": {"1. open":"1.10","2. high":"1.11","3. low":"1.09","4. close":"1.105"},
					"2024-01-03": {"1. open":"1.105","2. high":"1.12","3. low":"1.10","4. close":"1.11"}
				}
			}`))
		default:
			t.Errorf("unexpected function %q", r.URL.Query().Get("function"))
		}
	}))
	defer srv.Close()

	av := &AlphaVantage{apiKey: "k", baseURL: srv.URL}
	res, err := av.Fetch(context.Background(), "EUR/USD", "1h", 100)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Fallback {
		t.Error("daily data served for an intraday request must set Fallback")
	}
	if len(res.Candles) != 2 {
		t.Errorf("expected 2 daily candles, got %d", len(res.Candles))
	}
}

func TestAlphaVantageFetch_DailyNotFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("function"); got != "TIME_SERIES_DAILY" {
			t.Errorf("expected daily function, got %q", got)
		}
		w.Write([]byte(`{
			"Time Series (Daily)": {
				"2024-01-02": {"1. open":"190","2. high":"192","3. low":"189","4. close":"191","5. volume":"1000000"}
			}
		}`))
	}))
	defer srv.Close()

	av := &AlphaVantage{apiKey: "k", baseURL: srv.URL}
	res, err := av.Fetch(context.Background(), "AAPL", "1d", 100)
	if err != nil {
		t.Fatal(err)
	}
	if res.Fallback {
		t.Error("a 1d request served daily data is not a fallback")
	}
	if res.Candles[0].Volume != 1000000 {
		t.Errorf("equity volume must come from the payload: %+v", res.Candles[0])
	}
}

func TestAlphaVantageSupports(t *testing.T) {
	av := NewAlphaVantage("k")
	if av.Supports("BTC/USD") {
		t.Error("crypto must route to binance")
	}
	if !av.Supports("EUR/USD") || !av.Supports("AAPL") {
		t.Error("forex and equities must be supported")
	}
	if NewAlphaVantage("").Supports("AAPL") {
		t.Error("missing key must disable the provider")
	}
}

func TestCapResult(t *testing.T) {
	candles := []model.Candle{{Time: 1}, {Time: 2}, {Time: 3}}
	res := capResult(candles, 2, true)
	if len(res.Candles) != 2 || res.Candles[0].Time != 2 {
		t.Errorf("expected newest 2 candles, got %+v", res.Candles)
	}
	if !res.Fallback {
		t.Error("fallback flag must pass through")
	}
	if res := capResult(candles, 0, false); len(res.Candles) != 3 {
		t.Errorf("zero limit must keep everything, got %d", len(res.Candles))
	}
}
