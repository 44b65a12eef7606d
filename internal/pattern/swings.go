package pattern

import "trading-analyzer/internal/model"

// Default trailing windows for swing scans: 40 bars for detection, 30 for
// risk-level anchoring.
const (
	DefaultSwingLookback     = 40
	DefaultStopSwingLookback = 30
)

// SwingLow returns the minimum low over the trailing lookback bars.
func SwingLow(candles []model.Candle, lookback int) float64 {
	bars := tail(candles, lookback)
	if len(bars) == 0 {
		return 0
	}
	lo := bars[0].Low
	for _, c := range bars {
		if c.Low < lo {
			lo = c.Low
		}
	}
	return lo
}

// SwingHigh returns the maximum high over the trailing lookback bars.
func SwingHigh(candles []model.Candle, lookback int) float64 {
	bars := tail(candles, lookback)
	if len(bars) == 0 {
		return 0
	}
	hi := bars[0].High
	for _, c := range bars {
		if c.High > hi {
			hi = c.High
		}
	}
	return hi
}

// MultiSwingLow collects all local swing lows (5-bar window, ties allowed)
// over the trailing lookback bars and returns the lowest. Falls back to the
// plain window minimum when no swing qualifies.
func MultiSwingLow(candles []model.Candle, lookback int) float64 {
	bars := tail(candles, lookback)
	lowest := 0.0
	found := false
	for i := 2; i < len(bars)-2; i++ {
		l := bars[i].Low
		if l <= bars[i-1].Low && l <= bars[i-2].Low && l <= bars[i+1].Low && l <= bars[i+2].Low {
			if !found || l < lowest {
				lowest = l
				found = true
			}
		}
	}
	if found {
		return lowest
	}
	return SwingLow(bars, len(bars))
}

// MultiSwingHigh is the mirror of MultiSwingLow for swing highs.
func MultiSwingHigh(candles []model.Candle, lookback int) float64 {
	bars := tail(candles, lookback)
	highest := 0.0
	found := false
	for i := 2; i < len(bars)-2; i++ {
		h := bars[i].High
		if h >= bars[i-1].High && h >= bars[i-2].High && h >= bars[i+1].High && h >= bars[i+2].High {
			if !found || h > highest {
				highest = h
				found = true
			}
		}
	}
	if found {
		return highest
	}
	return SwingHigh(bars, len(bars))
}

func tail(candles []model.Candle, lookback int) []model.Candle {
	if lookback >= len(candles) {
		return candles
	}
	return candles[len(candles)-lookback:]
}
