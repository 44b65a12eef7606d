package pattern

import "trading-analyzer/internal/model"

// DefaultDivergenceLookback is the trailing bar count scanned for swings.
const DefaultDivergenceLookback = 30

// Divergence flags a bullish and/or bearish price-oscillator mismatch.
type Divergence struct {
	Bullish bool
	Bearish bool
}

// RSIDivergence scans the trailing lookback bars for swing points (strict
// extremes among 2 neighbors on each side) and compares the last two. A
// bullish divergence needs a lower swing low in price with a higher RSI at
// the swing, and the latest swing RSI below 40. Bearish is the mirror with
// RSI above 60.
func RSIDivergence(candles []model.Candle, rsi []float64, lookback int) Divergence {
	n := len(candles)
	if n < lookback+5 {
		return Divergence{}
	}
	bars := candles[n-lookback:]
	osc := rsi[n-lookback:]

	type swing struct {
		price float64
		osc   float64
	}
	var lows, highs []swing
	for i := 2; i < len(bars)-2; i++ {
		if bars[i].Low < bars[i-1].Low && bars[i].Low < bars[i-2].Low &&
			bars[i].Low < bars[i+1].Low && bars[i].Low < bars[i+2].Low {
			lows = append(lows, swing{price: bars[i].Low, osc: osc[i]})
		}
		if bars[i].High > bars[i-1].High && bars[i].High > bars[i-2].High &&
			bars[i].High > bars[i+1].High && bars[i].High > bars[i+2].High {
			highs = append(highs, swing{price: bars[i].High, osc: osc[i]})
		}
	}

	var div Divergence
	if len(lows) >= 2 {
		recent, prev := lows[len(lows)-1], lows[len(lows)-2]
		if recent.price < prev.price && recent.osc > prev.osc && recent.osc < 40 {
			div.Bullish = true
		}
	}
	if len(highs) >= 2 {
		recent, prev := highs[len(highs)-1], highs[len(highs)-2]
		if recent.price > prev.price && recent.osc < prev.osc && recent.osc > 60 {
			div.Bearish = true
		}
	}
	return div
}

// MACDDivergence scans histogram troughs (local minima below zero) and peaks
// (local maxima above zero) over the trailing lookback bars. Bullish: price
// made a lower low while the histogram trough rose. Bearish is the mirror.
func MACDDivergence(candles []model.Candle, hist []float64, lookback int) Divergence {
	n := len(candles)
	if n < lookback+5 {
		return Divergence{}
	}
	bars := candles[n-lookback:]
	h := hist[n-lookback:]

	type swing struct {
		price float64
		hist  float64
	}
	var troughs, peaks []swing
	for i := 1; i < len(h)-1; i++ {
		if h[i] < h[i-1] && h[i] < h[i+1] && h[i] < 0 {
			troughs = append(troughs, swing{price: bars[i].Low, hist: h[i]})
		}
		if h[i] > h[i-1] && h[i] > h[i+1] && h[i] > 0 {
			peaks = append(peaks, swing{price: bars[i].High, hist: h[i]})
		}
	}

	var div Divergence
	if len(troughs) >= 2 {
		recent, prev := troughs[len(troughs)-1], troughs[len(troughs)-2]
		if recent.price < prev.price && recent.hist > prev.hist {
			div.Bullish = true
		}
	}
	if len(peaks) >= 2 {
		recent, prev := peaks[len(peaks)-1], peaks[len(peaks)-2]
		if recent.price > prev.price && recent.hist < prev.hist {
			div.Bearish = true
		}
	}
	return div
}
