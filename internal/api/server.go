// Package api serves the read-side HTTP endpoints: the latest signal and
// an on-demand backtest per symbol, plus health and Prometheus metrics.
package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"trading-analyzer/internal/analyzer"
	"trading-analyzer/internal/metrics"
)

// Server wraps the HTTP listener around the analyzer read API.
type Server struct {
	svc  *analyzer.Service
	srv  *http.Server
	addr string
}

func New(addr string, svc *analyzer.Service, health *metrics.HealthStatus) *Server {
	s := &Server{svc: svc, addr: addr}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/signal", s.handleSignal)
	mux.HandleFunc("/api/backtest", s.handleBacktest)
	mux.Handle("/metrics", promhttp.Handler())
	if health != nil {
		mux.HandleFunc("/healthz", health.ServeHTTP)
	}

	s.srv = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Start serves in a background goroutine.
func (s *Server) Start() {
	go func() {
		log.Printf("[api] listening on %s", s.addr)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("[api] serve error: %v", err)
		}
	}()
}

// Stop shuts the listener down gracefully.
func (s *Server) Stop(ctx context.Context) {
	if err := s.srv.Shutdown(ctx); err != nil {
		log.Printf("[api] shutdown error: %v", err)
	}
}

func (s *Server) handleSignal(w http.ResponseWriter, r *http.Request) {
	symbol := r.URL.Query().Get("symbol")
	if symbol == "" {
		httpError(w, http.StatusBadRequest, "missing symbol parameter")
		return
	}
	sig, ok := s.svc.Latest(symbol)
	if !ok {
		httpError(w, http.StatusNotFound, "no signal for symbol yet")
		return
	}
	writeJSON(w, http.StatusOK, sig)
}

func (s *Server) handleBacktest(w http.ResponseWriter, r *http.Request) {
	symbol := r.URL.Query().Get("symbol")
	if symbol == "" {
		httpError(w, http.StatusBadRequest, "missing symbol parameter")
		return
	}
	res, err := s.svc.Backtest(r.Context(), symbol)
	if err != nil {
		httpError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[api] encode response: %v", err)
	}
}

func httpError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
