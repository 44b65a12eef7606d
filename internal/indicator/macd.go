package indicator

import "trading-analyzer/internal/model"

// MACDResult holds the MACD line, signal line and histogram series.
type MACDResult struct {
	Line      []float64
	Signal    []float64
	Histogram []float64
}

// MACD computes EMA(fast)-EMA(slow) with a signal line that is an EMA of the
// MACD line seeded at its first value. With fewer than slow bars all three
// series are zero.
func MACD(candles []model.Candle, fast, slow, signal int) MACDResult {
	n := len(candles)
	if n < slow {
		return MACDResult{
			Line:      filled(n, 0),
			Signal:    filled(n, 0),
			Histogram: filled(n, 0),
		}
	}

	emaFast := EMA(candles, fast)
	emaSlow := EMA(candles, slow)
	line := make([]float64, n)
	for i := range line {
		line[i] = emaFast[i] - emaSlow[i]
	}

	sig := emaSeries(line, signal)
	hist := make([]float64, n)
	for i := range hist {
		hist[i] = line[i] - sig[i]
	}
	return MACDResult{Line: line, Signal: sig, Histogram: hist}
}

// HistMomentum returns the histogram change over the given bar distance:
// hist[i] - hist[i-period], 0 inside the warm-up.
func (m MACDResult) HistMomentum(period int) []float64 {
	out := make([]float64, len(m.Histogram))
	for i := range out {
		if i < period {
			continue
		}
		out[i] = m.Histogram[i] - m.Histogram[i-period]
	}
	return out
}
