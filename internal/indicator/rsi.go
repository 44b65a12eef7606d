package indicator

import "trading-analyzer/internal/model"

// RSI computes the Relative Strength Index with Wilder smoothing of gains
// and losses. Bars inside the warm-up period are 50 (neutral); with fewer
// than period+1 bars the whole series is 50. Average loss of zero yields 100.
func RSI(candles []model.Candle, period int) []float64 {
	n := len(candles)
	if n < period+1 {
		return filled(n, 50)
	}

	change := make([]float64, n)
	for i := 1; i < n; i++ {
		change[i] = candles[i].Close - candles[i-1].Close
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		if change[i] > 0 {
			avgGain += change[i]
		} else {
			avgLoss += -change[i]
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	out := make([]float64, n)
	for i := 0; i < n; i++ {
		switch {
		case i < period:
			out[i] = 50
		case i == period:
			out[i] = rsiValue(avgGain, avgLoss)
		default:
			c := change[i]
			gain, loss := 0.0, 0.0
			if c > 0 {
				gain = c
			} else {
				loss = -c
			}
			avgGain = (avgGain*float64(period-1) + gain) / float64(period)
			avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
			out[i] = rsiValue(avgGain, avgLoss)
		}
	}
	return out
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100
	}
	return 100 - 100/(1+avgGain/avgLoss)
}
