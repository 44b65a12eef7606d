// Package metrics exposes Prometheus instrumentation for the analyzer
// service: evaluation throughput, signal mix, provider health and cache
// behavior.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all Prometheus metrics for the analyzer.
type Metrics struct {
	EvaluationsTotal prometheus.Counter
	EvaluationDur    prometheus.Histogram
	SignalsTotal     *prometheus.CounterVec // labels: symbol, action
	Confidence       *prometheus.GaugeVec   // labels: symbol

	FetchesTotal    *prometheus.CounterVec // labels: provider
	FetchErrors     *prometheus.CounterVec // labels: provider
	FetchDur        prometheus.Histogram
	CacheHits       prometheus.Counter
	CacheMisses     prometheus.Counter
	StaleWindows    prometheus.Counter
	FallbackWindows prometheus.Counter

	WSReconnects prometheus.Counter
	RingDropped  prometheus.Counter

	AlertsSent   prometheus.Counter
	AlertsFailed prometheus.Counter

	BacktestRuns prometheus.Counter
	BacktestDur  prometheus.Histogram
}

// New registers and returns all analyzer metrics.
func New() *Metrics {
	m := &Metrics{
		EvaluationsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "analyzer_evaluations_total",
			Help: "Total signal evaluations performed",
		}),
		EvaluationDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "analyzer_evaluation_duration_seconds",
			Help:    "Signal evaluation latency",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 12),
		}),
		SignalsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "analyzer_signals_total",
			Help: "Signals emitted, by symbol and action",
		}, []string{"symbol", "action"}),
		Confidence: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "analyzer_confidence",
			Help: "Latest signal confidence per symbol",
		}, []string{"symbol"}),

		FetchesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "analyzer_fetches_total",
			Help: "Provider fetches attempted",
		}, []string{"provider"}),
		FetchErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "analyzer_fetch_errors_total",
			Help: "Provider fetches that failed",
		}, []string{"provider"}),
		FetchDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "analyzer_fetch_duration_seconds",
			Help:    "Provider fetch latency",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "analyzer_cache_hits_total",
			Help: "Fresh window served from cache",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "analyzer_cache_misses_total",
			Help: "Window fetched from provider",
		}),
		StaleWindows: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "analyzer_stale_windows_total",
			Help: "Evaluations served from a stale cached window",
		}),
		FallbackWindows: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "analyzer_fallback_windows_total",
			Help: "Evaluations served from a coarser fallback interval",
		}),

		WSReconnects: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "analyzer_ws_reconnects_total",
			Help: "Kline stream reconnects",
		}),
		RingDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "analyzer_ring_dropped_total",
			Help: "Stream updates dropped on a full ring buffer",
		}),

		AlertsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "analyzer_alerts_sent_total",
			Help: "Signal-change alerts delivered",
		}),
		AlertsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "analyzer_alerts_failed_total",
			Help: "Signal-change alerts that failed delivery",
		}),

		BacktestRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "analyzer_backtest_runs_total",
			Help: "Walk-forward backtests executed",
		}),
		BacktestDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "analyzer_backtest_duration_seconds",
			Help:    "Walk-forward backtest latency",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 14),
		}),
	}

	prometheus.MustRegister(
		m.EvaluationsTotal,
		m.EvaluationDur,
		m.SignalsTotal,
		m.Confidence,
		m.FetchesTotal,
		m.FetchErrors,
		m.FetchDur,
		m.CacheHits,
		m.CacheMisses,
		m.StaleWindows,
		m.FallbackWindows,
		m.WSReconnects,
		m.RingDropped,
		m.AlertsSent,
		m.AlertsFailed,
		m.BacktestRuns,
		m.BacktestDur,
	)
	return m
}
