package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"trading-analyzer/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestWriteReadCandles(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	candles := []model.Candle{
		{Time: 1000, Open: 1, High: 2, Low: 0.5, Close: 1.5, Volume: 10},
		{Time: 2000, Open: 1.5, High: 3, Low: 1, Close: 2.5, Volume: 20},
		{Time: 3000, Open: 2.5, High: 4, Low: 2, Close: 3.5, Volume: 30},
	}
	if err := s.WriteCandles(ctx, "BTC/USD", "1h", candles); err != nil {
		t.Fatal(err)
	}

	got, err := s.ReadCandles(ctx, "BTC/USD", "1h", 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 candles, got %d", len(got))
	}
	if got[0] != candles[0] || got[2] != candles[2] {
		t.Errorf("round trip mismatch: %+v", got)
	}
}

func TestReadCandles_AfterAndLimit(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var candles []model.Candle
	for i := int64(1); i <= 5; i++ {
		candles = append(candles, model.Candle{Time: i * 1000, Open: 1, High: 1, Low: 1, Close: 1, Volume: 1})
	}
	if err := s.WriteCandles(ctx, "BTC/USD", "1h", candles); err != nil {
		t.Fatal(err)
	}

	got, err := s.ReadCandles(ctx, "BTC/USD", "1h", 2000, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Time != 3000 || got[1].Time != 4000 {
		t.Errorf("after/limit mismatch: %+v", got)
	}
}

func TestWriteCandles_UpsertReplaces(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first := []model.Candle{{Time: 1000, Open: 1, High: 2, Low: 0.5, Close: 1.5, Volume: 10}}
	if err := s.WriteCandles(ctx, "BTC/USD", "1h", first); err != nil {
		t.Fatal(err)
	}
	revised := []model.Candle{{Time: 1000, Open: 1, High: 2.5, Low: 0.5, Close: 2.0, Volume: 15}}
	if err := s.WriteCandles(ctx, "BTC/USD", "1h", revised); err != nil {
		t.Fatal(err)
	}

	got, err := s.ReadCandles(ctx, "BTC/USD", "1h", 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("upsert must not duplicate: %d rows", len(got))
	}
	if got[0].Close != 2.0 || got[0].Volume != 15 {
		t.Errorf("row not revised: %+v", got[0])
	}
}

func TestReadCandles_KeysIsolated(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	c := []model.Candle{{Time: 1000, Open: 1, High: 1, Low: 1, Close: 1, Volume: 1}}
	if err := s.WriteCandles(ctx, "BTC/USD", "1h", c); err != nil {
		t.Fatal(err)
	}
	if err := s.WriteCandles(ctx, "BTC/USD", "4h", c); err != nil {
		t.Fatal(err)
	}

	got, err := s.ReadCandles(ctx, "BTC/USD", "1h", 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Errorf("timeframes must not mix: %d rows", len(got))
	}
	if got, _ := s.ReadCandles(ctx, "ETH/USD", "1h", 0, 0); len(got) != 0 {
		t.Errorf("symbols must not mix: %d rows", len(got))
	}
}

func TestWriteBacktest(t *testing.T) {
	s := openTestStore(t)
	res := model.BacktestResult{
		Trades: 4, Wins: 3, Losses: 1, WinRate: 75, AvgR: 0.9, ProfitFactor: 4.5,
		History: []model.ClosedTrade{
			{Direction: model.ActionBuy, EntryPrice: 100, Result: model.TradeWin, R: 1.5},
		},
	}
	if err := s.WriteBacktest(context.Background(), "BTC/USD", "1h", res); err != nil {
		t.Fatal(err)
	}

	var trades int
	var history string
	row := s.DB().QueryRow(`SELECT trades, history FROM backtests WHERE symbol = ?`, "BTC/USD")
	if err := row.Scan(&trades, &history); err != nil {
		t.Fatal(err)
	}
	if trades != 4 || history == "" {
		t.Errorf("persisted row mismatch: trades=%d history=%q", trades, history)
	}
}
