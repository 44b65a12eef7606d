package indicator

import "trading-analyzer/internal/model"

// KeltnerResult holds the Keltner channel series. Bars where either the SMA
// or the ATR is still warming up are NaN.
type KeltnerResult struct {
	Upper  []float64
	Middle []float64
	Lower  []float64
}

// Keltner computes SMA ± mult·ATR channels.
func Keltner(candles []model.Candle, period int, mult float64) KeltnerResult {
	sma := SMA(candles, period)
	atr := ATR(candles, period)

	n := len(candles)
	res := KeltnerResult{
		Upper:  make([]float64, n),
		Middle: make([]float64, n),
		Lower:  make([]float64, n),
	}
	for i := 0; i < n; i++ {
		res.Middle[i] = sma[i]
		res.Upper[i] = sma[i] + mult*atr[i]
		res.Lower[i] = sma[i] - mult*atr[i]
	}
	return res
}
