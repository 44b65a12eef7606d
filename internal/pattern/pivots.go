package pattern

import (
	"math"

	"trading-analyzer/internal/model"
)

// DefaultPivotLookback is the trailing bar count used for pivot levels.
const DefaultPivotLookback = 60

// srZoneATRFactor scales ATR into the tolerance band around a pivot level.
const srZoneATRFactor = 0.3

// PivotLevels are classic pivot support/resistance levels derived from the
// trailing window's high, low and last close.
type PivotLevels struct {
	R3, R2, R1 float64
	Pivot      float64
	S1, S2, S3 float64
	Support    float64 // window low
	Resistance float64 // window high
}

// Pivots computes classic pivot levels over the trailing lookback bars:
// pivot = (H+L+C)/3, r1 = 2·pivot-L, s1 = 2·pivot-H, r2 = pivot+(H-L),
// s2 = pivot-(H-L), r3 = H+2(pivot-L), s3 = L-2(H-pivot).
func Pivots(candles []model.Candle, lookback int) PivotLevels {
	if len(candles) == 0 {
		return PivotLevels{}
	}
	if lookback > len(candles) {
		lookback = len(candles)
	}
	bars := candles[len(candles)-lookback:]

	h, l := bars[0].High, bars[0].Low
	for _, c := range bars {
		if c.High > h {
			h = c.High
		}
		if c.Low < l {
			l = c.Low
		}
	}
	c := bars[len(bars)-1].Close
	pivot := (h + l + c) / 3

	return PivotLevels{
		R3:         h + 2*(pivot-l),
		R2:         pivot + (h - l),
		R1:         2*pivot - l,
		Pivot:      pivot,
		S1:         2*pivot - h,
		S2:         pivot - (h - l),
		S3:         l - 2*(h-pivot),
		Support:    l,
		Resistance: h,
	}
}

// SRZone reports whether price sits inside the tolerance band of a pivot
// level. Level names follow the classic convention ("r1".."r3", "s1".."s3",
// "pivot"); resistance levels are checked first.
type SRZone struct {
	AtZone bool
	Level  string
	Value  float64
}

// ZoneTest checks price against every pivot level with a 0.3·ATR tolerance.
func (p PivotLevels) ZoneTest(price, atr float64) SRZone {
	levels := []struct {
		name  string
		value float64
	}{
		{"r1", p.R1}, {"r2", p.R2}, {"r3", p.R3},
		{"s1", p.S1}, {"s2", p.S2}, {"s3", p.S3},
		{"pivot", p.Pivot},
	}
	threshold := atr * srZoneATRFactor
	for _, lv := range levels {
		if math.Abs(price-lv.value) < threshold {
			return SRZone{AtZone: true, Level: lv.name, Value: lv.value}
		}
	}
	return SRZone{}
}
