package indicator

import (
	"math"

	"trading-analyzer/internal/model"
)

// BollingerResult holds the upper, middle and lower band series.
type BollingerResult struct {
	Upper  []float64
	Middle []float64
	Lower  []float64
}

// Bollinger computes SMA ± mult·population-stdev of closes.
// Bars inside the warm-up period are NaN in all three series.
func Bollinger(candles []model.Candle, period int, mult float64) BollingerResult {
	n := len(candles)
	closes := model.Closes(candles)
	sma := smaSeries(closes, period)

	res := BollingerResult{
		Upper:  make([]float64, n),
		Middle: make([]float64, n),
		Lower:  make([]float64, n),
	}
	for i := 0; i < n; i++ {
		if i < period-1 || math.IsNaN(sma[i]) {
			res.Upper[i], res.Middle[i], res.Lower[i] = nan(), nan(), nan()
			continue
		}
		variance := 0.0
		for j := i - period + 1; j <= i; j++ {
			d := closes[j] - sma[i]
			variance += d * d
		}
		sd := math.Sqrt(variance / float64(period))
		res.Middle[i] = sma[i]
		res.Upper[i] = sma[i] + mult*sd
		res.Lower[i] = sma[i] - mult*sd
	}
	return res
}
