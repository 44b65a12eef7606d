// Package backtest replays the signal engine over historical candles in a
// walk-forward loop and aggregates trade outcomes into R-multiples.
package backtest

import (
	"math"

	"trading-analyzer/internal/model"
	"trading-analyzer/internal/signal"
)

const (
	// MinCandles is the minimum history length for a non-trivial run.
	MinCandles = 120

	startIndex  = 100
	stride      = 5
	tailSkip    = 10
	maxHoldBars = 50

	// HistoryKeep bounds the closed-trade history in the result.
	HistoryKeep = 20
)

// openTrade tracks a position between replay steps until an exit triggers.
type openTrade struct {
	direction model.Action
	entry     float64
	entryIdx  int
	entryTime int64
	stop      float64
	target    float64
	risk      float64
	cursor    int // next bar index to scan
}

// Run replays the engine over the candle history. Each step evaluates the
// prefix window ending at the step index; entries fill at the next bar's
// open and exits are resolved bar-by-bar with the stop checked before the
// target on every bar.
func Run(candles []model.Candle, cfg signal.Config) model.BacktestResult {
	var res model.BacktestResult
	n := len(candles)
	if n < MinCandles {
		return res
	}

	var (
		open     *openTrade
		sumWinR  float64
		sumLossR float64
		history  []model.ClosedTrade
		minConf  = cfg.BTMinConfidence
	)
	if minConf == 0 {
		minConf = signal.DefaultConfig().BTMinConfidence
	}

	record := func(t *openTrade, result model.TradeResult, r float64) {
		ct := model.ClosedTrade{
			Direction:  t.direction,
			EntryPrice: t.entry,
			EntryIndex: t.entryIdx,
			EntryTime:  t.entryTime,
			StopLoss:   t.stop,
			Target:     t.target,
			RiskUnit:   t.risk,
			Result:     result,
		}
		if result == model.TradeWin {
			res.Wins++
			sumWinR += r
			ct.R = r
		} else {
			res.Losses++
			sumLossR += r
			ct.R = -r
		}
		history = append(history, ct)
	}

	for i := startIndex; i < n-tailSkip; i += stride {
		if open != nil {
			last := min(i, open.entryIdx+maxHoldBars)
			for j := open.cursor; j <= last && j < n; j++ {
				bar := candles[j]
				done := scanBar(open, bar, record)
				if !done && j == open.entryIdx+maxHoldBars {
					timeoutClose(open, bar.Close, record)
					done = true
				}
				if done {
					open = nil
					break
				}
				open.cursor = j + 1
			}
		}
		if open != nil {
			continue
		}

		sig := signal.Evaluate(candles[:i+1], cfg, model.Meta{})
		if sig.Action == model.ActionWait || sig.Confidence < minConf {
			continue
		}
		entryIdx := i + 1
		entry := candles[entryIdx].Open
		open = &openTrade{
			direction: sig.Action,
			entry:     entry,
			entryIdx:  entryIdx,
			entryTime: candles[entryIdx].Time,
			stop:      sig.Levels.StopLoss,
			target:    sig.Levels.TP1,
			risk:      math.Abs(entry - sig.Levels.StopLoss),
			cursor:    entryIdx + 1,
		}
	}

	res.Trades = res.Wins + res.Losses
	if res.Trades > 0 {
		res.WinRate = float64(res.Wins) / float64(res.Trades) * 100
		res.AvgR = (sumWinR - sumLossR) / float64(res.Trades)
	}
	switch {
	case sumLossR > 0:
		res.ProfitFactor = sumWinR / sumLossR
	case sumWinR > 0:
		res.ProfitFactor = 99
	}
	if len(history) > HistoryKeep {
		history = history[len(history)-HistoryKeep:]
	}
	res.History = history
	return res
}

// scanBar applies stop-then-target exit checks for one bar. Returns true if
// the trade closed.
func scanBar(t *openTrade, bar model.Candle, record func(*openTrade, model.TradeResult, float64)) bool {
	if t.direction == model.ActionBuy {
		if bar.Low <= t.stop {
			record(t, model.TradeLoss, 1)
			return true
		}
		if bar.High >= t.target {
			record(t, model.TradeWin, rMultiple(t.target, t.entry, t.risk))
			return true
		}
		return false
	}
	if bar.High >= t.stop {
		record(t, model.TradeLoss, 1)
		return true
	}
	if bar.Low <= t.target {
		record(t, model.TradeWin, rMultiple(t.target, t.entry, t.risk))
		return true
	}
	return false
}

// timeoutClose force-closes at the bar close, classifying by P&L sign.
func timeoutClose(t *openTrade, closePrice float64, record func(*openTrade, model.TradeResult, float64)) {
	pnl := closePrice - t.entry
	if t.direction == model.ActionSell {
		pnl = t.entry - closePrice
	}
	if pnl > 0 {
		r := 0.0
		if t.risk > 0 {
			r = pnl / t.risk
		}
		record(t, model.TradeWin, r)
		return
	}
	r := 1.0
	if t.risk > 0 {
		r = math.Abs(pnl) / t.risk
	}
	record(t, model.TradeLoss, r)
}

func rMultiple(target, entry, risk float64) float64 {
	if risk <= 0 {
		return 0
	}
	return math.Abs(target-entry) / risk
}
