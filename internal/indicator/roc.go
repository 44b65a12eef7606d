package indicator

import "trading-analyzer/internal/model"

// ROC computes the Rate of Change:
// (close - close[-period]) / close[-period] · 100. Warm-up bars are 0.
func ROC(candles []model.Candle, period int) []float64 {
	out := make([]float64, len(candles))
	for i := range candles {
		if i < period {
			continue
		}
		base := candles[i-period].Close
		if base == 0 {
			continue
		}
		out[i] = (candles[i].Close - base) / base * 100
	}
	return out
}
