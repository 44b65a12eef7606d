package indicator

import "trading-analyzer/internal/model"

// VWAP computes the cumulative volume-weighted average of typical price from
// the window start. Bars with zero cumulative volume fall back to the close.
func VWAP(candles []model.Candle) []float64 {
	out := make([]float64, len(candles))
	var cumVol, cumTPV float64
	for i, c := range candles {
		cumTPV += c.TypicalPrice() * c.Volume
		cumVol += c.Volume
		if cumVol == 0 {
			out[i] = c.Close
			continue
		}
		out[i] = cumTPV / cumVol
	}
	return out
}
