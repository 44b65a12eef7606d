package pattern

import "trading-analyzer/internal/model"

// Candlestick thresholds: the engulfing body must cover 0.6 of the bar
// range; a hammer/star wick must be 2.5× the body with the opposite wick
// under 0.5× the body.
const (
	engulfBodyShare = 0.6
	wickBodyRatio   = 2.5
	oppositeWickMax = 0.5
)

// BullishEngulfing reports a green candle whose body fully contains the
// previous red candle's close-open span, with a dominant body.
func BullishEngulfing(prev, last model.Candle) bool {
	return last.Bullish() && prev.Bearish() &&
		last.Close > prev.Open && last.Open < prev.Close &&
		last.Body() > last.Range()*engulfBodyShare
}

// BearishEngulfing is the mirror of BullishEngulfing.
func BearishEngulfing(prev, last model.Candle) bool {
	return last.Bearish() && prev.Bullish() &&
		last.Close < prev.Open && last.Open > prev.Close &&
		last.Body() > last.Range()*engulfBodyShare
}

// Hammer reports a green candle with a long lower wick and a small body near
// the top of the range.
func Hammer(last model.Candle) bool {
	body := last.Body()
	upperWick := last.High - max(last.Close, last.Open)
	lowerWick := min(last.Close, last.Open) - last.Low
	return lowerWick > body*wickBodyRatio && upperWick < body*oppositeWickMax && last.Bullish()
}

// ShootingStar reports a red candle with a long upper wick and a small body
// near the bottom of the range.
func ShootingStar(last model.Candle) bool {
	body := last.Body()
	upperWick := last.High - max(last.Close, last.Open)
	lowerWick := min(last.Close, last.Open) - last.Low
	return upperWick > body*wickBodyRatio && lowerWick < body*oppositeWickMax && last.Bearish()
}

// ThreeWhiteSoldiers reports three consecutive green candles with strictly
// advancing closes.
func ThreeWhiteSoldiers(c2, c1, c0 model.Candle) bool {
	return c0.Bullish() && c1.Bullish() && c2.Bullish() &&
		c0.Close > c1.Close && c1.Close > c2.Close
}

// ThreeBlackCrows reports three consecutive red candles with strictly
// declining closes.
func ThreeBlackCrows(c2, c1, c0 model.Candle) bool {
	return c0.Bearish() && c1.Bearish() && c2.Bearish() &&
		c0.Close < c1.Close && c1.Close < c2.Close
}
