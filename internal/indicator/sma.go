package indicator

import "trading-analyzer/internal/model"

// SMA computes the simple trailing mean of closes.
// Bars before the warm-up period are NaN.
func SMA(candles []model.Candle, period int) []float64 {
	return smaSeries(model.Closes(candles), period)
}

func smaSeries(vals []float64, period int) []float64 {
	out := make([]float64, len(vals))
	for i := range vals {
		if i < period-1 {
			out[i] = nan()
			continue
		}
		out[i] = trailingMean(vals, i, period)
	}
	return out
}
