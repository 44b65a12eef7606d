package indicator

import (
	"math"

	"trading-analyzer/internal/model"
)

// ADXResult holds the ADX, +DI and -DI series.
type ADXResult struct {
	ADX     []float64
	PlusDI  []float64
	MinusDI []float64
}

// ADX computes the Average Directional Index from Wilder-smoothed +DM/-DM/TR:
// DX = |+DI - (-DI)| / (+DI + (-DI)) · 100, ADX = Wilder-smoothed DX.
// Until the smoothing window fills, ADX is 20 and +DI/-DI are 0. Windows
// shorter than 2·period return those placeholders throughout.
func ADX(candles []model.Candle, period int) ADXResult {
	n := len(candles)
	if n < period*2 {
		return ADXResult{
			ADX:     filled(n, 20),
			PlusDI:  filled(n, 0),
			MinusDI: filled(n, 0),
		}
	}

	plusDM := make([]float64, n)
	minusDM := make([]float64, n)
	tr := make([]float64, n)
	for i := 0; i < n; i++ {
		if i == 0 {
			tr[i] = candles[i].High - candles[i].Low
			continue
		}
		up := candles[i].High - candles[i-1].High
		dn := candles[i-1].Low - candles[i].Low
		if up > dn && up > 0 {
			plusDM[i] = up
		}
		if dn > up && dn > 0 {
			minusDM[i] = dn
		}
		prevClose := candles[i-1].Close
		tr[i] = math.Max(candles[i].High-candles[i].Low,
			math.Max(math.Abs(candles[i].High-prevClose), math.Abs(candles[i].Low-prevClose)))
	}

	sTR := wilderRunningSum(tr, period)
	sPDM := wilderRunningSum(plusDM, period)
	sNDM := wilderRunningSum(minusDM, period)

	res := ADXResult{
		ADX:     make([]float64, n),
		PlusDI:  make([]float64, n),
		MinusDI: make([]float64, n),
	}
	dx := make([]float64, n)
	for i := 0; i < n; i++ {
		t := sTR[i]
		if math.IsNaN(t) || t == 0 {
			dx[i] = nan()
			continue
		}
		pi := sPDM[i] / t * 100
		ni := sNDM[i] / t * 100
		res.PlusDI[i] = pi
		res.MinusDI[i] = ni
		if sum := pi + ni; sum != 0 {
			dx[i] = math.Abs(pi-ni) / sum * 100
		}
	}

	adxV := nan()
	for i := 0; i < n; i++ {
		d := dx[i]
		switch {
		case math.IsNaN(d):
			res.ADX[i] = 20
		case math.IsNaN(adxV):
			adxV = d
			res.ADX[i] = d
		default:
			adxV = (adxV*float64(period-1) + d) / float64(period)
			res.ADX[i] = adxV
		}
	}
	return res
}

// wilderRunningSum accumulates the first period values into a running sum,
// then applies the Wilder recurrence s = s - s/period + v. Bars before the
// window fills are NaN.
func wilderRunningSum(vals []float64, period int) []float64 {
	out := make([]float64, len(vals))
	var s float64
	for i := range vals {
		if i < period {
			s += vals[i]
			if i == period-1 {
				out[i] = s
			} else {
				out[i] = nan()
			}
			continue
		}
		s = s - s/float64(period) + vals[i]
		out[i] = s
	}
	return out
}
