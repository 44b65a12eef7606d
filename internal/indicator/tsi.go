package indicator

import (
	"math"

	"trading-analyzer/internal/model"
)

// TSI computes the True Strength Index: the ratio of double-smoothed close
// momentum to double-smoothed absolute momentum, scaled ×100. Smoothing is a
// Wilder-style recurrence s = (s·(p-1)+v)/p seeded at the first value. Zero
// absolute momentum yields 0.
func TSI(candles []model.Candle, long, short int) []float64 {
	n := len(candles)
	if n == 0 {
		return nil
	}

	mom := make([]float64, n)
	absMom := make([]float64, n)
	for i := 1; i < n; i++ {
		mom[i] = candles[i].Close - candles[i-1].Close
		absMom[i] = math.Abs(mom[i])
	}

	smooth := wilderSmooth(wilderSmooth(mom, long), short)
	smoothAbs := wilderSmooth(wilderSmooth(absMom, long), short)

	out := make([]float64, n)
	for i := 0; i < n; i++ {
		if smoothAbs[i] == 0 {
			continue
		}
		out[i] = 100 * smooth[i] / smoothAbs[i]
	}
	return out
}

// wilderSmooth applies s = (s·(p-1)+v)/p seeded at the first value.
func wilderSmooth(vals []float64, period int) []float64 {
	out := make([]float64, len(vals))
	if len(vals) == 0 {
		return out
	}
	s := vals[0]
	out[0] = s
	for i := 1; i < len(vals); i++ {
		s = (s*float64(period-1) + vals[i]) / float64(period)
		out[i] = s
	}
	return out
}
