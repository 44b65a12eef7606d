package indicator

import "trading-analyzer/internal/model"

// StochRSIResult holds the smoothed %K and %D series.
type StochRSIResult struct {
	K []float64
	D []float64
}

// StochRSI applies the Stochastic formula to the RSI series and smooths the
// result twice (%K over smoothK bars, %D over smoothD bars of %K). Warm-up
// bars and flat RSI ranges are 50.
func StochRSI(candles []model.Candle, rsiPeriod, stochPeriod, smoothK, smoothD int) StochRSIResult {
	rsi := RSI(candles, rsiPeriod)
	n := len(rsi)

	raw := make([]float64, n)
	for i := 0; i < n; i++ {
		if i < stochPeriod-1 {
			raw[i] = 50
			continue
		}
		hi, lo := rsi[i], rsi[i]
		for j := i - stochPeriod + 1; j <= i; j++ {
			if rsi[j] > hi {
				hi = rsi[j]
			}
			if rsi[j] < lo {
				lo = rsi[j]
			}
		}
		if hi == lo {
			raw[i] = 50
			continue
		}
		raw[i] = (rsi[i] - lo) / (hi - lo) * 100
	}

	k := smoothNeutral(raw, smoothK)
	d := smoothNeutral(k, smoothD)
	return StochRSIResult{K: k, D: d}
}

// smoothNeutral is a trailing mean with 50 as the warm-up placeholder.
func smoothNeutral(vals []float64, period int) []float64 {
	out := make([]float64, len(vals))
	for i := range vals {
		if i < period-1 {
			out[i] = 50
			continue
		}
		out[i] = trailingMean(vals, i, period)
	}
	return out
}
