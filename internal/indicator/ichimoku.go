package indicator

import (
	"math"

	"trading-analyzer/internal/model"
)

// Default Ichimoku parameters (9/26/52/26).
const (
	IchimokuTenkan = 9
	IchimokuKijun  = 26
	IchimokuSenkou = 52
	IchimokuChikou = 26
)

// IchimokuResult holds the Ichimoku line series. Warm-up bars are NaN.
type IchimokuResult struct {
	Tenkan  []float64
	Kijun   []float64
	SenkouA []float64
	SenkouB []float64
	Chikou  []float64
}

// Ichimoku computes the Ichimoku lines: Tenkan and Kijun are midpoints of the
// rolling high/low over their periods, SenkouA = (Tenkan+Kijun)/2, SenkouB
// is the midpoint over the senkou period, and Chikou is the close shifted
// back by the chikou displacement (Chikou[i] = close[i-chikou]).
func Ichimoku(candles []model.Candle, tenkan, kijun, senkou, chikou int) IchimokuResult {
	n := len(candles)
	res := IchimokuResult{
		Tenkan:  make([]float64, n),
		Kijun:   make([]float64, n),
		SenkouA: make([]float64, n),
		SenkouB: make([]float64, n),
		Chikou:  make([]float64, n),
	}

	for i := 0; i < n; i++ {
		res.Tenkan[i] = midpoint(candles, i, tenkan)
		res.Kijun[i] = midpoint(candles, i, kijun)
		res.SenkouB[i] = midpoint(candles, i, senkou)
		if math.IsNaN(res.Tenkan[i]) || math.IsNaN(res.Kijun[i]) {
			res.SenkouA[i] = nan()
		} else {
			res.SenkouA[i] = (res.Tenkan[i] + res.Kijun[i]) / 2
		}
		if i < chikou {
			res.Chikou[i] = nan()
		} else {
			res.Chikou[i] = candles[i-chikou].Close
		}
	}
	return res
}

// midpoint returns (rolling high + rolling low)/2 over the trailing period
// ending at i, or NaN inside the warm-up.
func midpoint(candles []model.Candle, i, period int) float64 {
	if i < period-1 {
		return nan()
	}
	hi, lo := candles[i].High, candles[i].Low
	for j := i - period + 1; j <= i; j++ {
		if candles[j].High > hi {
			hi = candles[j].High
		}
		if candles[j].Low < lo {
			lo = candles[j].Low
		}
	}
	return (hi + lo) / 2
}
