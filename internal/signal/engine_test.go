package signal

import (
	"math"
	"reflect"
	"strings"
	"testing"

	"trading-analyzer/internal/model"
)

// trendingSeries builds a steadily rising market with mild oscillation and
// expanding volume, enough bars for every indicator to warm up.
func trendingSeries(n int) []model.Candle {
	candles := make([]model.Candle, n)
	price := 100.0
	for i := 0; i < n; i++ {
		drift := 0.6
		wave := math.Sin(float64(i)/4) * 0.8
		open := price
		close := price + drift + wave
		high := math.Max(open, close) + 0.5
		low := math.Min(open, close) - 0.5
		vol := 1000 + float64(i%20)*25
		candles[i] = model.Candle{
			Time: int64(i) * 3600_000,
			Open: open, High: high, Low: low, Close: close, Volume: vol,
		}
		price = close
	}
	return candles
}

// flatSeries builds bars with zero range and constant price.
func flatSeries(n int) []model.Candle {
	candles := make([]model.Candle, n)
	for i := 0; i < n; i++ {
		candles[i] = model.Candle{
			Time: int64(i) * 3600_000,
			Open: 100, High: 100, Low: 100, Close: 100, Volume: 500,
		}
	}
	return candles
}

func hasReasonContaining(sig model.Signal, substr string) bool {
	for _, r := range sig.Reasons {
		if strings.Contains(r.Text, substr) {
			return true
		}
	}
	return false
}

func TestEvaluate_InsufficientData(t *testing.T) {
	sig := Evaluate(trendingSeries(MinBars-1), DefaultConfig(), model.Meta{})
	if sig.Action != model.ActionWait {
		t.Fatalf("expected WAIT, got %s", sig.Action)
	}
	if sig.RegimeMode != model.RegimeUnknown {
		t.Errorf("expected unknown regime, got %s", sig.RegimeMode)
	}
	if !hasReasonContaining(sig, "insufficient data") {
		t.Errorf("missing insufficient-data reason: %+v", sig.Reasons)
	}
}

func TestEvaluate_TrendingMarket(t *testing.T) {
	sig := Evaluate(trendingSeries(200), DefaultConfig(), model.Meta{})

	if !sig.RegimeMode.Trending() {
		t.Errorf("expected a trending regime for a steady advance, got %s", sig.RegimeMode)
	}
	if sig.Action != model.ActionBuy {
		t.Errorf("expected BUY in a steady advance, got %s (conf=%d reasons=%+v)",
			sig.Action, sig.Confidence, sig.Reasons)
	}
	if sig.Confidence < 0 || sig.Confidence > 100 {
		t.Errorf("confidence out of range: %d", sig.Confidence)
	}
	if sig.MaxConfirmations != MaxConfirmationCount {
		t.Errorf("max confirmations: expected %d, got %d", MaxConfirmationCount, sig.MaxConfirmations)
	}
	if sig.BuyConfirm < sig.SellConfirm {
		t.Errorf("uptrend should favor buy side: buy=%d sell=%d", sig.BuyConfirm, sig.SellConfirm)
	}

	lv := sig.Levels
	if lv.Entry <= 0 {
		t.Fatalf("entry must be the last close, got %.4f", lv.Entry)
	}
	if !(lv.StopLoss < lv.Entry && lv.Entry < lv.TP1 && lv.TP1 < lv.TP2 && lv.TP2 < lv.TP3) {
		t.Errorf("long levels out of order: stop=%.2f entry=%.2f tp1=%.2f tp2=%.2f tp3=%.2f",
			lv.StopLoss, lv.Entry, lv.TP1, lv.TP2, lv.TP3)
	}
}

func TestEvaluate_BreakdownCaps(t *testing.T) {
	sig := Evaluate(trendingSeries(200), DefaultConfig(), model.Meta{})
	bk := sig.Breakdown
	if bk.Regime > 20 || bk.Setup > 40 || bk.Confirmation > 25 || bk.Execution > 15 {
		t.Errorf("stage caps exceeded: %+v", bk)
	}
	if bk.Regime < 0 || bk.Setup < 0 || bk.Confirmation < 0 || bk.Execution < 0 {
		t.Errorf("negative stage score: %+v", bk)
	}
}

func TestEvaluate_FlatMarketBlocked(t *testing.T) {
	sig := Evaluate(flatSeries(150), DefaultConfig(), model.Meta{})

	if sig.Action != model.ActionWait {
		t.Fatalf("flat market must WAIT, got %s", sig.Action)
	}
	if !sig.Blocked {
		t.Error("zero-range bars must trip the volatility block")
	}
	if sig.Confidence > 30 {
		t.Errorf("blocked confidence must be capped at 30, got %d", sig.Confidence)
	}
	if !hasReasonContaining(sig, "volatility too low") {
		t.Errorf("missing low-volatility reason: %+v", sig.Reasons)
	}
}

func TestEvaluate_FlatMarketSnapshotFinite(t *testing.T) {
	sig := Evaluate(flatSeries(150), DefaultConfig(), model.Meta{})
	ind := sig.Indicators
	checks := map[string]float64{
		"atr": ind.ATR, "atrPct": ind.ATRPct,
		"bbUpper": ind.BBUpper, "bbLower": ind.BBLower,
		"senkouA": ind.IchimokuSenkouA, "senkouB": ind.IchimokuSenkouB,
		"keltnerUpper": ind.KeltnerUpper, "keltnerLower": ind.KeltnerLower,
		"vwap": ind.VWAP, "adx": ind.ADX,
	}
	for name, v := range checks {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Errorf("%s: non-finite snapshot value %v", name, v)
		}
	}
}

func TestEvaluate_StaleDataCapsConfidence(t *testing.T) {
	sig := Evaluate(trendingSeries(200), DefaultConfig(), model.Meta{IsStale: true})
	if sig.Action != model.ActionWait {
		t.Fatalf("stale data must force WAIT, got %s", sig.Action)
	}
	if sig.Confidence > 30 {
		t.Errorf("stale confidence must be capped at 30, got %d", sig.Confidence)
	}
	if !hasReasonContaining(sig, "stale data") {
		t.Errorf("missing stale-data reason: %+v", sig.Reasons)
	}
}

func TestEvaluate_FallbackPenalty(t *testing.T) {
	base := Evaluate(trendingSeries(200), DefaultConfig(), model.Meta{})
	fb := Evaluate(trendingSeries(200), DefaultConfig(), model.Meta{IsFallback: true})
	if fb.Breakdown.Penalty != base.Breakdown.Penalty+10 {
		t.Errorf("fallback penalty: expected +10 over %d, got %d",
			base.Breakdown.Penalty, fb.Breakdown.Penalty)
	}
	if !hasReasonContaining(fb, "fallback") {
		t.Errorf("missing fallback reason: %+v", fb.Reasons)
	}
}

func TestEvaluate_Deterministic(t *testing.T) {
	candles := trendingSeries(200)
	a := Evaluate(candles, DefaultConfig(), model.Meta{})
	b := Evaluate(candles, DefaultConfig(), model.Meta{})
	if !reflect.DeepEqual(a, b) {
		t.Error("same window must produce an identical signal")
	}
}

func TestConfigWithDefaults(t *testing.T) {
	cfg := Config{EMAFast: 5}.withDefaults()
	if cfg.EMAFast != 5 {
		t.Errorf("explicit value overwritten: %d", cfg.EMAFast)
	}
	def := DefaultConfig()
	if cfg.RSIPeriod != def.RSIPeriod || cfg.MinConfirmations != def.MinConfirmations {
		t.Errorf("zero fields not defaulted: %+v", cfg)
	}
	if cfg.DirectionRatioMin != def.DirectionRatioMin {
		t.Errorf("float tunable not defaulted: %+v", cfg)
	}
}
