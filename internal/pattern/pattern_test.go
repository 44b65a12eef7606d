package pattern

import (
	"math"
	"testing"

	"trading-analyzer/internal/model"
)

func bar(o, h, l, c float64) model.Candle {
	return model.Candle{Open: o, High: h, Low: l, Close: c, Volume: 1}
}

func TestRibbon_Classification(t *testing.T) {
	cases := []struct {
		name                  string
		fast, mid, slow, e200 float64
		want                  RibbonDirection
	}{
		{"fully stacked up", 4, 3, 2, 1, RibbonStrongUp},
		{"up without 200", 4, 3, 2, 5, RibbonUp},
		{"fully stacked down", 1, 2, 3, 4, RibbonStrongDown},
		{"down without 200", 1, 2, 3, 0, RibbonDown},
		{"mixed", 2, 3, 1, 0, RibbonMixed},
	}
	for _, tc := range cases {
		if got := Ribbon(tc.fast, tc.mid, tc.slow, tc.e200); got != tc.want {
			t.Errorf("%s: expected %s, got %s", tc.name, tc.want, got)
		}
	}
}

func TestPivots_HandCalculated(t *testing.T) {
	// H=20, L=10, C=15 → pivot=15, r1=20, s1=10, r2=25, s2=5.
	candles := []model.Candle{
		bar(12, 20, 10, 14),
		bar(14, 18, 12, 15),
	}
	p := Pivots(candles, 60)
	if math.Abs(p.Pivot-15) > 1e-9 {
		t.Errorf("pivot: expected 15, got %.4f", p.Pivot)
	}
	if math.Abs(p.R1-20) > 1e-9 || math.Abs(p.S1-10) > 1e-9 {
		t.Errorf("r1/s1: expected 20/10, got %.4f/%.4f", p.R1, p.S1)
	}
	if math.Abs(p.R2-25) > 1e-9 || math.Abs(p.S2-5) > 1e-9 {
		t.Errorf("r2/s2: expected 25/5, got %.4f/%.4f", p.R2, p.S2)
	}
	if p.Support != 10 || p.Resistance != 20 {
		t.Errorf("support/resistance: expected 10/20, got %.4f/%.4f", p.Support, p.Resistance)
	}
}

func TestZoneTest_ResistanceCheckedFirst(t *testing.T) {
	p := PivotLevels{R1: 100, S1: 100, Pivot: 100}
	z := p.ZoneTest(100, 1)
	if !z.AtZone || z.Level != "r1" {
		t.Errorf("expected r1 zone, got %+v", z)
	}
}

func TestZoneTest_OutsideTolerance(t *testing.T) {
	p := PivotLevels{R1: 100}
	if z := p.ZoneTest(101, 1); z.AtZone {
		t.Errorf("0.3·ATR tolerance should not reach 1.0 away: %+v", z)
	}
}

func TestSwingLowHigh(t *testing.T) {
	candles := []model.Candle{
		bar(5, 6, 4, 5),
		bar(5, 9, 3, 8),
		bar(8, 10, 7, 9),
	}
	if got := SwingLow(candles, 3); got != 3 {
		t.Errorf("swing low: expected 3, got %.2f", got)
	}
	if got := SwingHigh(candles, 3); got != 10 {
		t.Errorf("swing high: expected 10, got %.2f", got)
	}
}

func TestMultiSwingLow_FindsLocalSwing(t *testing.T) {
	// V shape: lows descend to 2 at the middle bar, then rise.
	lows := []float64{6, 5, 2, 5, 6, 7, 8}
	candles := make([]model.Candle, len(lows))
	for i, l := range lows {
		candles[i] = bar(l+1, l+2, l, l+1)
	}
	if got := MultiSwingLow(candles, len(candles)); got != 2 {
		t.Errorf("expected swing low 2, got %.2f", got)
	}
}

func TestMultiSwingLow_FallsBackToWindowMin(t *testing.T) {
	// Strictly descending lows never form a local swing.
	candles := []model.Candle{
		bar(10, 11, 9, 10), bar(9, 10, 8, 9), bar(8, 9, 7, 8),
		bar(7, 8, 6, 7), bar(6, 7, 5, 6),
	}
	if got := MultiSwingLow(candles, 5); got != 5 {
		t.Errorf("expected fallback to window min 5, got %.2f", got)
	}
}

func TestBullishEngulfing(t *testing.T) {
	prev := bar(10, 10.5, 9, 9.5)  // red
	last := bar(9.2, 11.2, 9.1, 11) // green, body spans prev close-open
	if !BullishEngulfing(prev, last) {
		t.Error("expected bullish engulfing")
	}
	if BullishEngulfing(last, prev) {
		t.Error("reversed order must not match")
	}
}

func TestBearishEngulfing(t *testing.T) {
	prev := bar(9.5, 10.5, 9.4, 10.3) // green
	last := bar(10.6, 10.7, 8.9, 9)   // red, engulfs
	if !BearishEngulfing(prev, last) {
		t.Error("expected bearish engulfing")
	}
}

func TestHammerAndShootingStar(t *testing.T) {
	hammer := bar(10, 10.25, 7, 10.2) // long lower wick, green
	if !Hammer(hammer) {
		t.Error("expected hammer")
	}
	if ShootingStar(hammer) {
		t.Error("hammer must not be a shooting star")
	}

	star := bar(10.2, 13, 9.95, 10) // long upper wick, red
	if !ShootingStar(star) {
		t.Error("expected shooting star")
	}
	if Hammer(star) {
		t.Error("shooting star must not be a hammer")
	}
}

func TestThreeRunPatterns(t *testing.T) {
	if !ThreeWhiteSoldiers(bar(1, 2.2, 1, 2), bar(2, 3.2, 2, 3), bar(3, 4.2, 3, 4)) {
		t.Error("expected three white soldiers")
	}
	if !ThreeBlackCrows(bar(4, 4.2, 3, 3), bar(3, 3.2, 2, 2), bar(2, 2.2, 1, 1)) {
		t.Error("expected three black crows")
	}
	if ThreeWhiteSoldiers(bar(1, 2.2, 1, 2), bar(2, 3.2, 2, 3), bar(3, 3.2, 2.4, 2.5)) {
		t.Error("non-advancing third close must not match")
	}
}

func TestRSIDivergence_Bullish(t *testing.T) {
	n := 40
	candles := make([]model.Candle, n)
	rsi := make([]float64, n)
	for i := 0; i < n; i++ {
		candles[i] = bar(100, 101, 99, 100)
		rsi[i] = 50
	}
	// First swing low at i=20: price 90, RSI 25.
	candles[20] = bar(100, 101, 90, 100)
	rsi[20] = 25
	// Second swing low at i=30: lower price 85, higher RSI 32 (<40).
	candles[30] = bar(100, 101, 85, 100)
	rsi[30] = 32

	div := RSIDivergence(candles, rsi, 35)
	if !div.Bullish {
		t.Error("expected bullish RSI divergence")
	}
	if div.Bearish {
		t.Error("unexpected bearish divergence")
	}
}

func TestRSIDivergence_TooShortWindow(t *testing.T) {
	candles := make([]model.Candle, 20)
	rsi := make([]float64, 20)
	for i := range candles {
		candles[i] = bar(1, 2, 0.5, 1)
	}
	if div := RSIDivergence(candles, rsi, 30); div.Bullish || div.Bearish {
		t.Error("short window must report no divergence")
	}
}

func TestMACDDivergence_Bearish(t *testing.T) {
	n := 40
	candles := make([]model.Candle, n)
	hist := make([]float64, n)
	for i := 0; i < n; i++ {
		candles[i] = bar(100, 100, 99, 100)
	}
	// Peak 1 at i=20: high 110, hist 2. Peak 2 at i=30: higher high 115,
	// weaker hist 1.
	candles[20] = bar(100, 110, 99, 100)
	hist[19], hist[20], hist[21] = 1, 2, 1
	candles[30] = bar(100, 115, 99, 100)
	hist[29], hist[30], hist[31] = 0.5, 1, 0.5

	div := MACDDivergence(candles, hist, 35)
	if !div.Bearish {
		t.Error("expected bearish MACD divergence")
	}
	if div.Bullish {
		t.Error("unexpected bullish divergence")
	}
}
