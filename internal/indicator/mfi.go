package indicator

import "trading-analyzer/internal/model"

// MFI computes the Money Flow Index: a volume-weighted RSI using typical
// price direction. Warm-up bars are 50. Zero total flow in the window (all
// volumes zero) is neutral 50; zero negative flow with positive flow present
// is 100.
func MFI(candles []model.Candle, period int) []float64 {
	n := len(candles)
	posFlow := make([]float64, n)
	negFlow := make([]float64, n)
	for i := 0; i < n; i++ {
		flow := candles[i].TypicalPrice() * candles[i].Volume
		if i == 0 || candles[i].Close >= candles[i-1].Close {
			posFlow[i] = flow
		} else {
			negFlow[i] = flow
		}
	}

	out := make([]float64, n)
	for i := 0; i < n; i++ {
		if i < period-1 {
			out[i] = 50
			continue
		}
		var pos, neg float64
		for j := i - period + 1; j <= i; j++ {
			pos += posFlow[j]
			neg += negFlow[j]
		}
		switch {
		case pos == 0 && neg == 0:
			out[i] = 50
		case neg == 0:
			out[i] = 100
		default:
			out[i] = 100 - 100/(1+pos/neg)
		}
	}
	return out
}
