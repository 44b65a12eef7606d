package model

// TradeResult labels a closed simulated trade.
type TradeResult string

const (
	TradeWin  TradeResult = "win"
	TradeLoss TradeResult = "loss"
)

// ClosedTrade is one completed trade from the walk-forward simulator.
// R is the profit or loss expressed as a multiple of the initial risk
// (negative for losses).
type ClosedTrade struct {
	Direction  Action      `json:"direction"`
	EntryPrice float64     `json:"entry_price"`
	EntryIndex int         `json:"entry_index"`
	EntryTime  int64       `json:"entry_time"`
	StopLoss   float64     `json:"stop_loss"`
	Target     float64     `json:"target"`
	RiskUnit   float64     `json:"risk_unit"`
	Result     TradeResult `json:"result"`
	R          float64     `json:"r"`
}

// BacktestResult aggregates the walk-forward simulation.
// History retains only the last 20 closed trades.
type BacktestResult struct {
	Trades       int           `json:"trades"`
	Wins         int           `json:"wins"`
	Losses       int           `json:"losses"`
	WinRate      float64       `json:"win_rate"`
	AvgR         float64       `json:"avg_r"`
	ProfitFactor float64       `json:"profit_factor"`
	History      []ClosedTrade `json:"history"`
}
