// Package analyzer runs the per-symbol evaluation loop: fetch a candle
// window (cache-aware), run the signal engine, publish the latest signal,
// persist history and alert on action changes.
package analyzer

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"trading-analyzer/internal/backtest"
	"trading-analyzer/internal/logger"
	"trading-analyzer/internal/metrics"
	"trading-analyzer/internal/model"
	"trading-analyzer/internal/notification"
	"trading-analyzer/internal/ringbuf"
	"trading-analyzer/internal/signal"
)

// Config holds the loop parameters.
type Config struct {
	Symbols      []string
	Timeframe    string
	PollInterval time.Duration
	WindowLimit  int // candles requested per fetch, default model.DefaultWindowCap

	Engine signal.Config
}

// Deps are the service collaborators. Cache, Store, Results, Ring, Metrics
// and Health are optional; a nil Notifier disables alerting.
type Deps struct {
	Providers []model.Provider
	Cache     model.WindowCache
	Store     model.CandleStore
	Results   model.ResultStore
	Notifier  notification.Notifier
	Ring      *ringbuf.Ring
	Metrics   *metrics.Metrics
	Health    *metrics.HealthStatus
}

// Service is the analyzer loop plus the read-side for the HTTP API.
type Service struct {
	cfg  Config
	deps Deps

	mu         sync.RWMutex
	windows    map[string]*model.Window
	latest     map[string]model.Signal
	lastAction map[string]model.Action

	// high-water mark of ring drops already exported to Prometheus
	ringDropped uint64
}

func New(cfg Config, deps Deps) *Service {
	if cfg.WindowLimit <= 0 {
		cfg.WindowLimit = model.DefaultWindowCap
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 30 * time.Second
	}
	return &Service{
		cfg:        cfg,
		deps:       deps,
		windows:    make(map[string]*model.Window),
		latest:     make(map[string]model.Signal),
		lastAction: make(map[string]model.Action),
	}
}

// Run evaluates every configured symbol once immediately, then on each poll
// tick, until ctx is cancelled. Symbols are evaluated sequentially; the
// engine is CPU-cheap next to the fetches.
func (s *Service) Run(ctx context.Context) error {
	s.evaluateAll(ctx)

	ticker := time.NewTicker(s.cfg.PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.drainStream()
			s.evaluateAll(ctx)
		}
	}
}

func (s *Service) evaluateAll(ctx context.Context) {
	for _, symbol := range s.cfg.Symbols {
		if ctx.Err() != nil {
			return
		}
		tctx := logger.WithTraceID(ctx, logger.GenerateTraceID(symbol, time.Now()))
		if err := s.evaluateSymbol(tctx, symbol); err != nil {
			slog.Error("evaluation failed", append(logger.LogWithTrace(tctx),
				slog.String("symbol", symbol), slog.Any("err", err))...)
		}
	}
}

// drainStream folds buffered live kline updates into the symbol windows.
// Open bars replace the last candle, closed bars append.
func (s *Service) drainStream() {
	if s.deps.Ring == nil {
		return
	}
	if m := s.deps.Metrics; m != nil {
		if d := s.deps.Ring.Dropped(); d > s.ringDropped {
			m.RingDropped.Add(float64(d - s.ringDropped))
			s.ringDropped = d
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for {
		u, ok := s.deps.Ring.Pop()
		if !ok {
			return
		}
		w := s.windows[u.Symbol]
		if w == nil {
			continue
		}
		w.Push(u.Candle)
	}
}

func (s *Service) evaluateSymbol(ctx context.Context, symbol string) error {
	candles, meta, err := s.fetchWindow(ctx, symbol)
	if err != nil {
		return err
	}

	s.mu.Lock()
	w := s.windows[symbol]
	if w == nil {
		w = model.NewWindow(model.DefaultWindowCap)
		s.windows[symbol] = w
	}
	for _, c := range candles {
		w.Push(c)
	}
	window := w.Candles()
	s.mu.Unlock()

	start := time.Now()
	sig := signal.Evaluate(window, s.cfg.Engine, meta)
	if m := s.deps.Metrics; m != nil {
		m.EvaluationsTotal.Inc()
		m.EvaluationDur.Observe(time.Since(start).Seconds())
		m.SignalsTotal.WithLabelValues(symbol, string(sig.Action)).Inc()
		m.Confidence.WithLabelValues(symbol).Set(float64(sig.Confidence))
		if meta.IsStale {
			m.StaleWindows.Inc()
		}
		if meta.IsFallback {
			m.FallbackWindows.Inc()
		}
	}
	if s.deps.Health != nil {
		s.deps.Health.SetLastEvalTime(time.Now())
	}

	slog.Info("signal", append(logger.LogWithTrace(ctx),
		slog.String("symbol", symbol),
		slog.String("action", string(sig.Action)),
		slog.Int("confidence", sig.Confidence),
		slog.String("regime", string(sig.RegimeMode)))...)

	if s.deps.Store != nil {
		if err := s.deps.Store.WriteCandles(ctx, symbol, s.cfg.Timeframe, candles); err != nil {
			slog.Warn("candle persist failed", slog.String("symbol", symbol), slog.Any("err", err))
		}
	}

	s.publish(ctx, symbol, sig)
	return nil
}

// publish stores the latest signal and alerts when the action changed.
func (s *Service) publish(ctx context.Context, symbol string, sig model.Signal) {
	s.mu.Lock()
	prev, seen := s.lastAction[symbol]
	s.latest[symbol] = sig
	s.lastAction[symbol] = sig.Action
	s.mu.Unlock()

	if s.deps.Notifier == nil || !seen || prev == sig.Action {
		return
	}
	alert := notification.Alert{
		Symbol:     symbol,
		Action:     sig.Action,
		Prev:       prev,
		Confidence: sig.Confidence,
		Entry:      sig.Levels.Entry,
		StopLoss:   sig.Levels.StopLoss,
		TP1:        sig.Levels.TP1,
	}
	if err := s.deps.Notifier.Send(ctx, alert); err != nil {
		if s.deps.Metrics != nil {
			s.deps.Metrics.AlertsFailed.Inc()
		}
		return
	}
	if s.deps.Metrics != nil {
		s.deps.Metrics.AlertsSent.Inc()
	}
}

// fetchWindow serves a fresh cached window if one exists, otherwise walks
// the provider chain. When every provider fails, a stale cached window is
// served with Meta.IsStale set.
func (s *Service) fetchWindow(ctx context.Context, symbol string) ([]model.Candle, model.Meta, error) {
	supporting := make([]model.Provider, 0, len(s.deps.Providers))
	for _, p := range s.deps.Providers {
		if p.Supports(symbol) {
			supporting = append(supporting, p)
		}
	}
	if len(supporting) == 0 {
		return nil, model.Meta{}, fmt.Errorf("no provider supports %s", symbol)
	}

	m := s.deps.Metrics
	if s.deps.Cache != nil {
		for _, p := range supporting {
			candles, fresh, err := s.deps.Cache.Get(ctx, p.Name(), symbol, s.cfg.Timeframe)
			if err != nil {
				slog.Warn("cache get failed", slog.String("symbol", symbol), slog.Any("err", err))
				break
			}
			if fresh && len(candles) > 0 {
				if m != nil {
					m.CacheHits.Inc()
				}
				return candles, model.Meta{}, nil
			}
		}
	}
	if m != nil {
		m.CacheMisses.Inc()
	}

	var lastErr error
	for _, p := range supporting {
		start := time.Now()
		if m != nil {
			m.FetchesTotal.WithLabelValues(p.Name()).Inc()
		}
		res, err := p.Fetch(ctx, symbol, s.cfg.Timeframe, s.cfg.WindowLimit)
		if m != nil {
			m.FetchDur.Observe(time.Since(start).Seconds())
		}
		if err != nil {
			if m != nil {
				m.FetchErrors.WithLabelValues(p.Name()).Inc()
			}
			lastErr = err
			if ctx.Err() != nil {
				return nil, model.Meta{}, ctx.Err()
			}
			continue
		}
		if s.deps.Cache != nil {
			if cerr := s.deps.Cache.Put(ctx, p.Name(), symbol, s.cfg.Timeframe, res.Candles); cerr != nil {
				slog.Warn("cache put failed", slog.String("symbol", symbol), slog.Any("err", cerr))
			}
		}
		return res.Candles, model.Meta{IsFallback: res.Fallback}, nil
	}

	// Stale serve: any cached window beats no window.
	if s.deps.Cache != nil {
		for _, p := range supporting {
			candles, _, err := s.deps.Cache.Get(ctx, p.Name(), symbol, s.cfg.Timeframe)
			if err == nil && len(candles) > 0 {
				return candles, model.Meta{IsStale: true}, nil
			}
		}
	}
	return nil, model.Meta{}, fmt.Errorf("fetch %s: %w", symbol, lastErr)
}

// Latest returns the most recent signal for a symbol.
func (s *Service) Latest(symbol string) (model.Signal, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sig, ok := s.latest[symbol]
	return sig, ok
}

// Symbols returns the configured symbol list.
func (s *Service) Symbols() []string {
	return s.cfg.Symbols
}

// Backtest replays the engine over the symbol's current window and
// persists the aggregate when a result store is configured.
func (s *Service) Backtest(ctx context.Context, symbol string) (model.BacktestResult, error) {
	s.mu.RLock()
	w := s.windows[symbol]
	s.mu.RUnlock()

	var window []model.Candle
	if w != nil {
		window = w.Candles()
	}
	if len(window) < backtest.MinCandles {
		candles, _, err := s.fetchWindow(ctx, symbol)
		if err != nil {
			return model.BacktestResult{}, err
		}
		window = candles
	}

	start := time.Now()
	res := backtest.Run(window, s.cfg.Engine)
	if m := s.deps.Metrics; m != nil {
		m.BacktestRuns.Inc()
		m.BacktestDur.Observe(time.Since(start).Seconds())
	}
	if s.deps.Results != nil {
		if err := s.deps.Results.WriteBacktest(ctx, symbol, s.cfg.Timeframe, res); err != nil {
			slog.Warn("backtest persist failed", slog.String("symbol", symbol), slog.Any("err", err))
		}
	}
	return res, nil
}
