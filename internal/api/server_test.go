package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"trading-analyzer/internal/analyzer"
)

func testServer() *Server {
	svc := analyzer.New(analyzer.Config{Symbols: []string{"BTC/USD"}}, analyzer.Deps{})
	return New(":0", svc, nil)
}

func TestHandleSignal_MissingSymbol(t *testing.T) {
	s := testServer()
	rec := httptest.NewRecorder()
	s.handleSignal(rec, httptest.NewRequest(http.MethodGet, "/api/signal", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["error"] == "" {
		t.Error("error responses must carry an error field")
	}
}

func TestHandleSignal_UnknownSymbol(t *testing.T) {
	s := testServer()
	rec := httptest.NewRecorder()
	s.handleSignal(rec, httptest.NewRequest(http.MethodGet, "/api/signal?symbol=BTC/USD", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 before the first evaluation, got %d", rec.Code)
	}
}

func TestHandleBacktest_MissingSymbol(t *testing.T) {
	s := testServer()
	rec := httptest.NewRecorder()
	s.handleBacktest(rec, httptest.NewRequest(http.MethodGet, "/api/backtest", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandleBacktest_NoProvider(t *testing.T) {
	s := testServer()
	rec := httptest.NewRecorder()
	s.handleBacktest(rec, httptest.NewRequest(http.MethodGet, "/api/backtest?symbol=BTC/USD", nil))
	if rec.Code != http.StatusBadGateway {
		t.Errorf("expected 502 with no providers configured, got %d", rec.Code)
	}
}
