package indicator

import "trading-analyzer/internal/model"

// WilliamsR computes -100·(highN-close)/(highN-lowN) over the rolling period.
// Warm-up bars and flat ranges are -50.
func WilliamsR(candles []model.Candle, period int) []float64 {
	n := len(candles)
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		if i < period-1 {
			out[i] = -50
			continue
		}
		hi, lo := candles[i].High, candles[i].Low
		for j := i - period + 1; j <= i; j++ {
			if candles[j].High > hi {
				hi = candles[j].High
			}
			if candles[j].Low < lo {
				lo = candles[j].Low
			}
		}
		if hi == lo {
			out[i] = -50
			continue
		}
		out[i] = -100 * (hi - candles[i].Close) / (hi - lo)
	}
	return out
}
