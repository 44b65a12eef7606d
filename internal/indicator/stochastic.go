package indicator

import "trading-analyzer/internal/model"

// StochasticResult holds the %K and %D series.
type StochasticResult struct {
	K []float64
	D []float64
}

// Stochastic computes %K = (close-lowN)/(highN-lowN)·100 over the kPeriod
// rolling window and %D as the trailing mean of %K over dPeriod. Warm-up bars
// and flat ranges are 50.
func Stochastic(candles []model.Candle, kPeriod, dPeriod int) StochasticResult {
	n := len(candles)
	k := make([]float64, n)
	for i := 0; i < n; i++ {
		if i < kPeriod-1 {
			k[i] = 50
			continue
		}
		hi, lo := candles[i].High, candles[i].Low
		for j := i - kPeriod + 1; j <= i; j++ {
			if candles[j].High > hi {
				hi = candles[j].High
			}
			if candles[j].Low < lo {
				lo = candles[j].Low
			}
		}
		if hi == lo {
			k[i] = 50
			continue
		}
		k[i] = (candles[i].Close - lo) / (hi - lo) * 100
	}

	d := make([]float64, n)
	for i := 0; i < n; i++ {
		if i < dPeriod-1 {
			d[i] = 50
			continue
		}
		d[i] = trailingMean(k, i, dPeriod)
	}
	return StochasticResult{K: k, D: d}
}
