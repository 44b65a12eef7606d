// Package indicator provides technical indicator calculations over candle
// windows.
//
// Every indicator is a pure function: it takes the full candle slice plus its
// parameters and returns one output value (or tuple) per input bar. Bars
// before the warm-up period carry a documented placeholder: NaN where the
// indicator has no meaningful value yet, or a neutral default (RSI 50,
// Stochastic 50, Williams %R -50) where downstream scoring expects a number.
// Divide-by-zero cases always resolve to the neutral default, never NaN for
// oscillators.
package indicator

import "math"

// nan is the warm-up placeholder for indicators without a neutral default.
func nan() float64 { return math.NaN() }

// filled returns a slice of n copies of v.
func filled(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

// trailingMean returns the mean of vals[i-period+1..i].
// Caller guarantees i >= period-1.
func trailingMean(vals []float64, i, period int) float64 {
	sum := 0.0
	for j := i - period + 1; j <= i; j++ {
		sum += vals[j]
	}
	return sum / float64(period)
}
