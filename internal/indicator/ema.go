package indicator

import "trading-analyzer/internal/model"

// EMA computes the Exponential Moving Average of closes.
// Seed is the first close; recurrence v = close·k + v·(1-k) with
// k = 2/(period+1). With period=1 the output equals the close series.
func EMA(candles []model.Candle, period int) []float64 {
	if len(candles) == 0 {
		return nil
	}
	return emaSeries(model.Closes(candles), period)
}

// emaSeries applies the EMA recurrence to an arbitrary series, seeded at the
// first value.
func emaSeries(vals []float64, period int) []float64 {
	if len(vals) == 0 {
		return nil
	}
	k := 2.0 / float64(period+1)
	out := make([]float64, len(vals))
	v := vals[0]
	out[0] = v
	for i := 1; i < len(vals); i++ {
		v = vals[i]*k + v*(1-k)
		out[i] = v
	}
	return out
}
