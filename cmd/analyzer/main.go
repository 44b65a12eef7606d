// cmd/analyzer runs the live signal service: it polls market data for the
// configured symbols, evaluates the signal engine, serves the read API and
// delivers alerts on signal changes.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"trading-analyzer/config"
	"trading-analyzer/internal/analyzer"
	"trading-analyzer/internal/api"
	"trading-analyzer/internal/logger"
	"trading-analyzer/internal/marketdata"
	"trading-analyzer/internal/metrics"
	"trading-analyzer/internal/model"
	"trading-analyzer/internal/notification"
	"trading-analyzer/internal/ringbuf"
	sig "trading-analyzer/internal/signal"
	redisstore "trading-analyzer/internal/store/redis"
	sqlitestore "trading-analyzer/internal/store/sqlite"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds | log.Lshortfile)
	if err := godotenv.Load(); err == nil {
		log.Println("[analyzer] loaded .env")
	}

	logger.Init("analyzer", slog.LevelInfo)
	cfg := config.Load()
	symbols := cfg.ParseSymbols()
	if len(symbols) == 0 {
		log.Fatal("[analyzer] no symbols configured")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	prom := metrics.New()
	health := metrics.NewHealthStatus()

	// ---- Providers ----
	providers := []model.Provider{marketdata.NewBinance()}
	if cfg.AlphaVantageKey != "" {
		providers = append(providers, marketdata.NewAlphaVantage(cfg.AlphaVantageKey))
	}
	if cfg.TwelveDataKey != "" {
		providers = append(providers, marketdata.NewTwelveData(cfg.TwelveDataKey))
	}

	// ---- Redis window cache (optional) ----
	var cache model.WindowCache
	var redisCache *redisstore.Cache
	if cfg.RedisAddr != "" {
		c, err := redisstore.New(redisstore.Config{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		if err != nil {
			log.Printf("[analyzer] redis unavailable, running without cache: %v", err)
		} else {
			cache = c
			redisCache = c
			health.SetRedisEnabled(true)
			health.SetRedisConnected(true)
			defer c.Close()
		}
	}

	// ---- SQLite history ----
	os.MkdirAll("data", 0o755)
	store, err := sqlitestore.Open(cfg.SQLitePath)
	if err != nil {
		log.Fatalf("[analyzer] sqlite init failed: %v", err)
	}
	defer store.Close()
	health.SetSQLiteOK(true)

	if redisCache != nil {
		health.StartLivenessChecker(ctx, redisCache.Client(), store.DB(), 30*time.Second)
	} else {
		health.StartLivenessChecker(ctx, nil, store.DB(), 30*time.Second)
	}

	// ---- Notification backends ----
	backends := []notification.Notifier{notification.NewLogNotifier()}
	if cfg.TelegramBotToken != "" && cfg.TelegramChatID != "" {
		backends = append(backends, notification.NewTelegramNotifier(cfg.TelegramBotToken, cfg.TelegramChatID))
	}
	if cfg.WebhookURL != "" {
		backends = append(backends, notification.NewWebhookNotifier(cfg.WebhookURL))
	}

	// ---- Live kline stream (optional, crypto only) ----
	var ring *ringbuf.Ring
	if cfg.StreamSymbol != "" {
		ring = ringbuf.New(1024)
		stream := marketdata.NewKlineStream(cfg.StreamSymbol, cfg.Timeframe, ring)
		stream.OnReconnect = func() {
			prom.WSReconnects.Inc()
			health.SetStreamOK(false)
		}
		go func() {
			health.SetStreamOK(true)
			if err := stream.Run(ctx); err != nil && ctx.Err() == nil {
				log.Printf("[analyzer] kline stream stopped: %v", err)
			}
		}()
	}

	engine := sig.DefaultConfig()
	if cfg.MinConfirmations > 0 {
		engine.MinConfirmations = cfg.MinConfirmations
	}
	if cfg.BTMinConfidence > 0 {
		engine.BTMinConfidence = cfg.BTMinConfidence
	}

	svc := analyzer.New(analyzer.Config{
		Symbols:      symbols,
		Timeframe:    cfg.Timeframe,
		PollInterval: cfg.PollInterval,
		Engine:       engine,
	}, analyzer.Deps{
		Providers: providers,
		Cache:     cache,
		Store:     store,
		Results:   store,
		Notifier:  notification.NewFanout(backends...),
		Ring:      ring,
		Metrics:   prom,
		Health:    health,
	})

	srv := api.New(cfg.APIAddr, svc, health)
	srv.Start()

	log.Printf("[analyzer] ╔══════════════════════════════════════════════════╗")
	log.Printf("[analyzer] ║  Signal Analyzer                                 ║")
	log.Printf("[analyzer] ║  symbols: %-38v ║", symbols)
	log.Printf("[analyzer] ║  timeframe: %-8s poll: %-19s ║", cfg.Timeframe, cfg.PollInterval)
	log.Printf("[analyzer] ╚══════════════════════════════════════════════════╝")

	go func() {
		if err := svc.Run(ctx); err != nil && ctx.Err() == nil {
			log.Printf("[analyzer] service loop stopped: %v", err)
		}
	}()

	<-sigCh
	log.Println("[analyzer] shutting down...")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	srv.Stop(shutdownCtx)
	log.Println("[analyzer] bye")
}
