// Package pattern provides derived analytics on top of the indicator
// package: EMA ribbon classification, divergence detection, classic pivot
// levels, swing extrema and candlestick patterns.
package pattern

// RibbonDirection classifies the ordering of the EMA stack.
type RibbonDirection string

const (
	RibbonStrongUp   RibbonDirection = "STRONG_UP"
	RibbonUp         RibbonDirection = "UP"
	RibbonStrongDown RibbonDirection = "STRONG_DOWN"
	RibbonDown       RibbonDirection = "DOWN"
	RibbonMixed      RibbonDirection = "MIXED"
)

// Ribbon classifies the (fast, mid, slow, ema200) ordering. A fully stacked
// ribbon including the 200 EMA is STRONG; fast>mid>slow alone is a plain
// UP/DOWN; anything else is MIXED.
func Ribbon(fast, mid, slow, ema200 float64) RibbonDirection {
	switch {
	case fast > mid && mid > slow && slow > ema200:
		return RibbonStrongUp
	case fast > mid && mid > slow:
		return RibbonUp
	case fast < mid && mid < slow && slow < ema200:
		return RibbonStrongDown
	case fast < mid && mid < slow:
		return RibbonDown
	default:
		return RibbonMixed
	}
}
