package indicator

import (
	"math"

	"trading-analyzer/internal/model"
)

// TrueRange computes the per-bar true range:
// max(high-low, |high-prevClose|, |low-prevClose|). The first bar uses
// high-low.
func TrueRange(candles []model.Candle) []float64 {
	out := make([]float64, len(candles))
	for i, c := range candles {
		if i == 0 {
			out[i] = c.High - c.Low
			continue
		}
		prevClose := candles[i-1].Close
		out[i] = math.Max(c.High-c.Low,
			math.Max(math.Abs(c.High-prevClose), math.Abs(c.Low-prevClose)))
	}
	return out
}

// ATR computes the Average True Range as a simple trailing mean of true
// range. Bars inside the warm-up period are NaN.
func ATR(candles []model.Candle, period int) []float64 {
	tr := TrueRange(candles)
	out := make([]float64, len(tr))
	for i := range tr {
		if i < period-1 {
			out[i] = nan()
			continue
		}
		out[i] = trailingMean(tr, i, period)
	}
	return out
}
