package marketdata

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTDError(t *testing.T) {
	cases := []struct {
		code int
		want error
	}{
		{429, ErrRateLimited},
		{401, ErrInvalidKey},
		{403, ErrInvalidKey},
	}
	for _, tc := range cases {
		err := tdError(tdResponse{Status: "error", Code: tc.code, Message: "x"})
		if !errors.Is(err, tc.want) {
			t.Errorf("code %d: expected %v, got %v", tc.code, tc.want, err)
		}
	}
	if err := tdError(tdResponse{Status: "error", Code: 500, Message: "x"}); err == nil {
		t.Error("unknown code must still error")
	}
}

func TestTwelveDataFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("interval"); got != "1h" {
			t.Errorf("interval query: %q", got)
		}
		// Newest-first order with empty forex volume.
		w.Write([]byte(`{
			"status": "ok",
			"values": [
				{"datetime":"2024-01-02 11:00:00","open":"1.1010","high":"1.1030","low":"1.1000","close":"1.1020","volume":""},
				{"datetime":"2024-01-02 10:00:00","open":"1.1000","high":"1.1020","low":"1.0990","close":"1.1010","volume":""}
			]
		}`))
	}))
	defer srv.Close()

	td := &TwelveData{apiKey: "k", baseURL: srv.URL}
	res, err := td.Fetch(context.Background(), "EUR/USD", "1h", 100)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Candles) != 2 {
		t.Fatalf("expected 2 candles, got %d", len(res.Candles))
	}
	if res.Candles[0].Time >= res.Candles[1].Time {
		t.Error("candles must be sorted oldest-first")
	}
	for _, c := range res.Candles {
		if c.Volume < 1 {
			t.Errorf("forex bars must carry synthetic volume: %+v", c)
		}
	}
}

func TestTwelveDataFetch_ErrorEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"error","code":429,"message":"limit"}`))
	}))
	defer srv.Close()

	td := &TwelveData{apiKey: "k", baseURL: srv.URL}
	if _, err := td.Fetch(context.Background(), "EUR/USD", "1h", 100); !errors.Is(err, ErrRateLimited) {
		t.Errorf("expected ErrRateLimited, got %v", err)
	}
}

func TestTwelveDataFetch_EmptyValues(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok","values":[]}`))
	}))
	defer srv.Close()

	td := &TwelveData{apiKey: "k", baseURL: srv.URL}
	if _, err := td.Fetch(context.Background(), "EUR/USD", "1h", 100); !errors.Is(err, ErrNoData) {
		t.Errorf("expected ErrNoData, got %v", err)
	}
}
