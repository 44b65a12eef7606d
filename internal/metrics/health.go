package metrics

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	goredis "github.com/go-redis/redis/v8"
)

// HealthStatus tracks liveness of the service dependencies and serves the
// /healthz endpoint.
type HealthStatus struct {
	mu             sync.RWMutex
	startTime      time.Time
	RedisEnabled   bool
	RedisConnected bool
	SQLiteOK       bool
	StreamOK       bool
	LastEvalTime   time.Time
}

func NewHealthStatus() *HealthStatus {
	return &HealthStatus{startTime: time.Now()}
}

func (h *HealthStatus) SetRedisEnabled(v bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.RedisEnabled = v
}

func (h *HealthStatus) SetRedisConnected(v bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.RedisConnected = v
}

func (h *HealthStatus) SetSQLiteOK(v bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.SQLiteOK = v
}

func (h *HealthStatus) SetStreamOK(v bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.StreamOK = v
}

func (h *HealthStatus) SetLastEvalTime(t time.Time) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.LastEvalTime = t
}

// CheckRedis pings Redis and records the result.
func (h *HealthStatus) CheckRedis(ctx context.Context, rdb *goredis.Client) {
	if rdb == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	h.SetRedisConnected(rdb.Ping(ctx).Err() == nil)
}

// CheckSQLite pings the database and records the result.
func (h *HealthStatus) CheckSQLite(ctx context.Context, db *sql.DB) {
	if db == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	h.SetSQLiteOK(db.PingContext(ctx) == nil)
}

// StartLivenessChecker re-probes dependencies on an interval until ctx is
// cancelled.
func (h *HealthStatus) StartLivenessChecker(ctx context.Context, rdb *goredis.Client, db *sql.DB, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				h.CheckRedis(ctx, rdb)
				h.CheckSQLite(ctx, db)
			}
		}
	}()
}

func (h *HealthStatus) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	overall := "healthy"
	code := http.StatusOK
	if (h.RedisEnabled && !h.RedisConnected) || !h.SQLiteOK {
		overall = "degraded"
		code = http.StatusServiceUnavailable
	}

	lastEval := ""
	if !h.LastEvalTime.IsZero() {
		lastEval = time.Since(h.LastEvalTime).Round(time.Millisecond).String()
	}

	status := struct {
		Status         string `json:"status"`
		Uptime         string `json:"uptime"`
		RedisConnected bool   `json:"redis_connected"`
		SQLiteOK       bool   `json:"sqlite_ok"`
		StreamOK       bool   `json:"stream_ok"`
		LastEvalAge    string `json:"last_eval_age,omitempty"`
	}{
		Status:         overall,
		Uptime:         time.Since(h.startTime).Round(time.Second).String(),
		RedisConnected: h.RedisConnected,
		SQLiteOK:       h.SQLiteOK,
		StreamOK:       h.StreamOK,
		LastEvalAge:    lastEval,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(status)
}
