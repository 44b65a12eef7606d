package indicator

import "trading-analyzer/internal/model"

// AOColor labels an Awesome Oscillator bar relative to the previous value.
type AOColor string

const (
	AONeutral AOColor = "neutral"
	AORising  AOColor = "green"
	AOFalling AOColor = "red"
)

// AwesomeResult holds the oscillator values and per-bar color.
type AwesomeResult struct {
	Values []float64
	Colors []AOColor
}

// AwesomeOscillator computes EMA(fast)-EMA(slow) of closes (5/34 by
// convention). A bar is colored rising or falling against the previous
// oscillator value; the first bar is neutral.
func AwesomeOscillator(candles []model.Candle, fast, slow int) AwesomeResult {
	n := len(candles)
	res := AwesomeResult{Values: make([]float64, n), Colors: make([]AOColor, n)}
	if n == 0 {
		return res
	}

	emaFast := EMA(candles, fast)
	emaSlow := EMA(candles, slow)
	for i := 0; i < n; i++ {
		res.Values[i] = emaFast[i] - emaSlow[i]
		switch {
		case i == 0:
			res.Colors[i] = AONeutral
		case res.Values[i] > res.Values[i-1]:
			res.Colors[i] = AORising
		default:
			res.Colors[i] = AOFalling
		}
	}
	return res
}
