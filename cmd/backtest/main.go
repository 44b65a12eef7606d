// cmd/backtest replays stored candle history through the signal engine in
// a walk-forward loop and prints the aggregate trade statistics.
//
// Usage:
//
//	go run ./cmd/backtest --symbol=BTC/USD --tf=1h
//	go run ./cmd/backtest --symbol=EUR/USD --tf=1h --fetch
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"trading-analyzer/config"
	"trading-analyzer/internal/backtest"
	"trading-analyzer/internal/marketdata"
	"trading-analyzer/internal/model"
	"trading-analyzer/internal/signal"
	sqlitestore "trading-analyzer/internal/store/sqlite"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	godotenv.Load()

	symbol := flag.String("symbol", "BTC/USD", "Symbol to replay")
	tf := flag.String("tf", "1h", "Timeframe")
	dbPath := flag.String("db", "data/analyzer.db", "Path to SQLite database")
	limit := flag.Int("limit", model.DefaultWindowCap, "Max candles to load")
	fetch := flag.Bool("fetch", false, "Fetch fresh candles from providers instead of SQLite")
	persist := flag.Bool("persist", false, "Store the result in SQLite")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	var store *sqlitestore.Store
	if !*fetch || *persist {
		var err error
		store, err = sqlitestore.Open(*dbPath)
		if err != nil {
			log.Fatalf("[backtest] sqlite open failed: %v", err)
		}
		defer store.Close()
	}

	var candles []model.Candle
	if *fetch {
		candles = fetchCandles(ctx, *symbol, *tf, *limit)
	} else {
		var err error
		candles, err = store.ReadCandles(ctx, *symbol, *tf, 0, *limit)
		if err != nil {
			log.Fatalf("[backtest] read candles: %v", err)
		}
	}
	if len(candles) < backtest.MinCandles {
		log.Fatalf("[backtest] need at least %d candles, have %d (try --fetch)", backtest.MinCandles, len(candles))
	}

	start := time.Now()
	res := backtest.Run(candles, signal.DefaultConfig())
	elapsed := time.Since(start)

	fmt.Println("╔══════════════════════════════════════╗")
	fmt.Println("║        BACKTEST COMPLETE             ║")
	fmt.Println("╠══════════════════════════════════════╣")
	fmt.Printf("║  Symbol:        %-20s ║\n", *symbol)
	fmt.Printf("║  Candles:       %-20d ║\n", len(candles))
	fmt.Printf("║  Trades:        %-20d ║\n", res.Trades)
	fmt.Printf("║  Wins/Losses:   %-20s ║\n", fmt.Sprintf("%d/%d", res.Wins, res.Losses))
	fmt.Printf("║  Win rate:      %-20s ║\n", fmt.Sprintf("%.1f%%", res.WinRate))
	fmt.Printf("║  Avg R:         %-20.2f ║\n", res.AvgR)
	fmt.Printf("║  Profit factor: %-20.2f ║\n", res.ProfitFactor)
	fmt.Printf("║  Elapsed:       %-20s ║\n", elapsed.Round(time.Millisecond))
	fmt.Println("╚══════════════════════════════════════╝")

	for _, t := range res.History {
		fmt.Printf("  %s @ %.5g stop %.5g target %.5g → %s (R=%.2f)\n",
			t.Direction, t.EntryPrice, t.StopLoss, t.Target, t.Result, t.R)
	}

	if *persist {
		if err := store.WriteBacktest(ctx, *symbol, *tf, res); err != nil {
			log.Fatalf("[backtest] persist result: %v", err)
		}
		log.Println("[backtest] result stored")
	}
}

func fetchCandles(ctx context.Context, symbol, tf string, limit int) []model.Candle {
	cfg := config.Load()
	providers := []model.Provider{marketdata.NewBinance()}
	if cfg.AlphaVantageKey != "" {
		providers = append(providers, marketdata.NewAlphaVantage(cfg.AlphaVantageKey))
	}
	if cfg.TwelveDataKey != "" {
		providers = append(providers, marketdata.NewTwelveData(cfg.TwelveDataKey))
	}
	registry := marketdata.NewRegistry(providers...)
	res, err := registry.Fetch(ctx, symbol, tf, limit)
	if err != nil {
		log.Fatalf("[backtest] fetch %s: %v", symbol, err)
	}
	if res.Fallback {
		log.Printf("[backtest] note: provider substituted daily bars for %s", tf)
	}
	return res.Candles
}
