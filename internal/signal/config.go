// Package signal implements the four-stage scored decision engine: regime
// classification, directional setup scoring, divergence/pattern confirmation
// and risk-managed execution gating, combined into a BUY/SELL/WAIT signal
// with a bounded confidence score and an auditable rationale trail.
package signal

// Config holds the engine's flat numeric parameters. Zero fields fall back
// to the documented defaults, so a partially populated Config is valid.
type Config struct {
	EMAFast    int     `json:"ema_fast"`
	EMAMid     int     `json:"ema_mid"`
	EMASlow    int     `json:"ema_slow"`
	RSIPeriod  int     `json:"rsi_period"`
	MACDFast   int     `json:"macd_fast"`
	MACDSlow   int     `json:"macd_slow"`
	MACDSignal int     `json:"macd_signal"`
	BBPeriod   int     `json:"bb_period"`
	BBMult     float64 `json:"bb_mult"`
	ATRPeriod  int     `json:"atr_period"`
	ADXPeriod  int     `json:"adx_period"`
	StochK     int     `json:"stoch_k"`
	StochD     int     `json:"stoch_d"`

	MinConfirmations int `json:"min_confirmations"`
	ChartCandles     int `json:"chart_candles"`
	BTMinConfidence  int `json:"bt_min_confidence"`

	// Empirical decision tunables. The defaults come from the reference
	// implementation and are not claimed optimal.
	DirectionGapMin    int     `json:"direction_gap_min"`
	DirectionRatioMin  float64 `json:"direction_ratio_min"`
	CandleRangeATRGate float64 `json:"candle_range_atr_gate"`
}

// DefaultConfig returns the documented parameter defaults.
func DefaultConfig() Config {
	return Config{
		EMAFast:    9,
		EMAMid:     21,
		EMASlow:    50,
		RSIPeriod:  14,
		MACDFast:   12,
		MACDSlow:   26,
		MACDSignal: 9,
		BBPeriod:   20,
		BBMult:     2,
		ATRPeriod:  14,
		ADXPeriod:  14,
		StochK:     14,
		StochD:     3,

		MinConfirmations: 7,
		ChartCandles:     160,
		BTMinConfidence:  55,

		DirectionGapMin:    8,
		DirectionRatioMin:  0.25,
		CandleRangeATRGate: 0.5,
	}
}

// withDefaults fills zero fields with defaults.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.EMAFast == 0 {
		c.EMAFast = def.EMAFast
	}
	if c.EMAMid == 0 {
		c.EMAMid = def.EMAMid
	}
	if c.EMASlow == 0 {
		c.EMASlow = def.EMASlow
	}
	if c.RSIPeriod == 0 {
		c.RSIPeriod = def.RSIPeriod
	}
	if c.MACDFast == 0 {
		c.MACDFast = def.MACDFast
	}
	if c.MACDSlow == 0 {
		c.MACDSlow = def.MACDSlow
	}
	if c.MACDSignal == 0 {
		c.MACDSignal = def.MACDSignal
	}
	if c.BBPeriod == 0 {
		c.BBPeriod = def.BBPeriod
	}
	if c.BBMult == 0 {
		c.BBMult = def.BBMult
	}
	if c.ATRPeriod == 0 {
		c.ATRPeriod = def.ATRPeriod
	}
	if c.ADXPeriod == 0 {
		c.ADXPeriod = def.ADXPeriod
	}
	if c.StochK == 0 {
		c.StochK = def.StochK
	}
	if c.StochD == 0 {
		c.StochD = def.StochD
	}
	if c.MinConfirmations == 0 {
		c.MinConfirmations = def.MinConfirmations
	}
	if c.ChartCandles == 0 {
		c.ChartCandles = def.ChartCandles
	}
	if c.BTMinConfidence == 0 {
		c.BTMinConfidence = def.BTMinConfidence
	}
	if c.DirectionGapMin == 0 {
		c.DirectionGapMin = def.DirectionGapMin
	}
	if c.DirectionRatioMin == 0 {
		c.DirectionRatioMin = def.DirectionRatioMin
	}
	if c.CandleRangeATRGate == 0 {
		c.CandleRangeATRGate = def.CandleRangeATRGate
	}
	return c
}
