package model

import "encoding/json"

// Action is the discrete trading recommendation.
type Action string

const (
	ActionBuy  Action = "BUY"
	ActionSell Action = "SELL"
	ActionWait Action = "WAIT"
)

// ReasonClass tags a rationale line with the side it supports.
type ReasonClass string

const (
	ReasonBuy     ReasonClass = "buy"
	ReasonSell    ReasonClass = "sell"
	ReasonNeutral ReasonClass = "neutral"
)

// Reason is one human-readable rationale line. Order is significant: reasons
// are appended in stage order and must be preserved for display.
type Reason struct {
	Text  string      `json:"text"`
	Class ReasonClass `json:"class"`
}

// RegimeMode classifies market behavior and drives which scoring branch runs.
type RegimeMode string

const (
	RegimeStrongTrend   RegimeMode = "strong-trend"
	RegimeTrend         RegimeMode = "trend"
	RegimeWeakTrend     RegimeMode = "weak-trend"
	RegimeMeanReversion RegimeMode = "mean-reversion"
	RegimeUnknown       RegimeMode = "unknown"
)

// Trending reports whether the regime activates the trend-following branch.
func (m RegimeMode) Trending() bool {
	return m == RegimeStrongTrend || m == RegimeTrend
}

// Meta carries data-quality flags supplied by the caller, not derived by the
// engine. IsStale means the window came from cache past its freshness TTL;
// IsFallback means a coarser interval was substituted for the requested one.
type Meta struct {
	IsStale    bool `json:"is_stale"`
	IsFallback bool `json:"is_fallback"`
}

// Breakdown itemizes the confidence score by stage.
// Caps: regime 20, setup 40, execution 15, confirmation 25. Penalty is the
// accumulated deduction and is not capped.
type Breakdown struct {
	Regime       int `json:"regime"`
	Setup        int `json:"setup"`
	Execution    int `json:"execution"`
	Confirmation int `json:"confirmation"`
	Penalty      int `json:"penalty"`
}

// Levels holds the concrete price levels attached to a signal.
type Levels struct {
	Entry      float64 `json:"entry"`
	StopLoss   float64 `json:"stop_loss"`
	TP1        float64 `json:"tp1"`
	TP2        float64 `json:"tp2"`
	TP3        float64 `json:"tp3"`
	Support    float64 `json:"support"`
	Resistance float64 `json:"resistance"`
	Pivot      float64 `json:"pivot"`
	S2         float64 `json:"s2"`
	R2         float64 `json:"r2"`
}

// IndicatorSnapshot captures the last-bar value of every computed indicator,
// for display and auditability.
type IndicatorSnapshot struct {
	EMA9   float64 `json:"ema9"`
	EMA21  float64 `json:"ema21"`
	EMA50  float64 `json:"ema50"`
	EMA100 float64 `json:"ema100"`
	EMA200 float64 `json:"ema200"`

	RSI        float64 `json:"rsi"`
	MACD       float64 `json:"macd"`
	MACDSignal float64 `json:"macd_signal"`
	MACDHist   float64 `json:"macd_hist"`
	ATR        float64 `json:"atr"`
	ATRPct     float64 `json:"atr_pct"`
	StochK     float64 `json:"stoch_k"`
	StochD     float64 `json:"stoch_d"`
	VWAP       float64 `json:"vwap"`
	ADX        float64 `json:"adx"`
	PlusDI     float64 `json:"plus_di"`
	MinusDI    float64 `json:"minus_di"`
	BBUpper    float64 `json:"bb_upper"`
	BBMiddle   float64 `json:"bb_middle"`
	BBLower    float64 `json:"bb_lower"`
	VolRatio   float64 `json:"vol_ratio"`
	Momentum   float64 `json:"momentum"`

	Ribbon      string `json:"ribbon"`
	RSIDivBull  bool   `json:"rsi_div_bull"`
	RSIDivBear  bool   `json:"rsi_div_bear"`
	MACDDivBull bool   `json:"macd_div_bull"`
	MACDDivBear bool   `json:"macd_div_bear"`

	IchimokuTenkan  float64 `json:"ichimoku_tenkan"`
	IchimokuKijun   float64 `json:"ichimoku_kijun"`
	IchimokuSenkouA float64 `json:"ichimoku_senkou_a"`
	IchimokuSenkouB float64 `json:"ichimoku_senkou_b"`
	KeltnerMid      float64 `json:"keltner_mid"`
	KeltnerUpper    float64 `json:"keltner_upper"`
	KeltnerLower    float64 `json:"keltner_lower"`
	StochRSIK       float64 `json:"stoch_rsi_k"`
	StochRSID       float64 `json:"stoch_rsi_d"`
	WilliamsR       float64 `json:"williams_r"`
	MFI             float64 `json:"mfi"`
	Awesome         float64 `json:"awesome"`
	TSI             float64 `json:"tsi"`
	MACDHistMom     float64 `json:"macd_hist_mom"`
}

// Signal is the engine output: a fresh, stateless evaluation of the full
// window. MaxConfirmations is always 12.
type Signal struct {
	Action           Action            `json:"action"`
	Confidence       int               `json:"confidence"`
	Reasons          []Reason          `json:"reasons"`
	Confirmations    int               `json:"confirmations"`
	MaxConfirmations int               `json:"max_confirmations"`
	BuyConfirm       int               `json:"buy_confirm"`
	SellConfirm      int               `json:"sell_confirm"`
	Blocked          bool              `json:"blocked"`
	Breakdown        Breakdown         `json:"breakdown"`
	RegimeMode       RegimeMode        `json:"regime_mode"`
	Indicators       IndicatorSnapshot `json:"indicators"`
	Levels           Levels            `json:"levels"`
}

// JSON returns the JSON-encoded signal (ignoring errors for hot-path usage).
func (s *Signal) JSON() []byte {
	b, _ := json.Marshal(s)
	return b
}
