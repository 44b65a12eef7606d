package signal

import (
	"fmt"
	"math"
	"strings"

	"trading-analyzer/internal/indicator"
	"trading-analyzer/internal/model"
	"trading-analyzer/internal/pattern"
)

// Evaluate runs the four-stage scorer over the full candle window and
// returns a fresh Signal. It holds no state across calls and never returns
// an error: degraded input degrades to WAIT with an explanatory reason.
func Evaluate(candles []model.Candle, cfg Config, meta model.Meta) model.Signal {
	cfg = cfg.withDefaults()
	n := len(candles)

	sig := model.Signal{
		Action:           model.ActionWait,
		MaxConfirmations: MaxConfirmationCount,
		RegimeMode:       model.RegimeUnknown,
	}
	if n < MinBars {
		sig.Reasons = []model.Reason{{
			Text:  fmt.Sprintf("insufficient data (%d/%d bars)", n, MinBars),
			Class: model.ReasonNeutral,
		}}
		return sig
	}

	last := candles[n-1]
	prev := candles[n-2]
	prev2 := candles[n-3]
	price := last.Close

	// ── Indicator computation ──
	emaFast := indicator.EMA(candles, cfg.EMAFast)
	emaMid := indicator.EMA(candles, cfg.EMAMid)
	emaSlow := indicator.EMA(candles, cfg.EMASlow)
	ema100 := indicator.EMA(candles, min(100, n*2/5))
	ema200 := indicator.EMA(candles, min(200, n*55/100))
	rsiArr := indicator.RSI(candles, cfg.RSIPeriod)
	macd := indicator.MACD(candles, cfg.MACDFast, cfg.MACDSlow, cfg.MACDSignal)
	bb := indicator.Bollinger(candles, cfg.BBPeriod, cfg.BBMult)
	atrArr := indicator.ATR(candles, cfg.ATRPeriod)
	stoch := indicator.Stochastic(candles, cfg.StochK, cfg.StochD)
	vwap := indicator.VWAP(candles)
	adx := indicator.ADX(candles, cfg.ADXPeriod)
	roc := indicator.ROC(candles, rocPeriod)

	ichimoku := indicator.Ichimoku(candles,
		indicator.IchimokuTenkan, indicator.IchimokuKijun,
		indicator.IchimokuSenkou, indicator.IchimokuChikou)
	keltner := indicator.Keltner(candles, keltnerPeriod, keltnerMult)
	stochRSI := indicator.StochRSI(candles, cfg.RSIPeriod, stochRSIPeriod, stochRSISmooth, stochRSISmooth)
	willR := indicator.WilliamsR(candles, willRPeriod)
	mfi := indicator.MFI(candles, mfiPeriod)
	ao := indicator.AwesomeOscillator(candles, aoFast, aoSlow)
	tsi := indicator.TSI(candles, tsiLong, tsiShort)
	histMom := macd.HistMomentum(macdHistMomPeriod)

	N := n - 1
	rsi, pRsi, pRsi2 := rsiArr[N], rsiArr[N-1], rsiArr[N-2]
	mVal, mSig, mHist := macd.Line[N], macd.Signal[N], macd.Histogram[N]
	pmHist, pmHist2 := macd.Histogram[N-1], macd.Histogram[N-2]
	atr := atrArr[N]
	if math.IsNaN(atr) {
		atr = 0
	}
	atrPct := 0.0
	if price > 0 {
		atrPct = atr / price * 100
	}
	sK, sD, psK, psD := stoch.K[N], stoch.D[N], stoch.K[N-1], stoch.D[N-1]
	adxV, pdi, ndi := adx.ADX[N], adx.PlusDI[N], adx.MinusDI[N]
	momentum := roc[N]

	tenkan, kijun := ichimoku.Tenkan[N], ichimoku.Kijun[N]
	senkouA, senkouB := ichimoku.SenkouA[N], ichimoku.SenkouB[N]
	srsiK, srsiD := stochRSI.K[N], stochRSI.D[N]
	pSrsiK, pSrsiD := stochRSI.K[N-1], stochRSI.D[N-1]
	willRVal, mfiVal, tsiVal := willR[N], mfi[N], tsi[N]
	aoVal, pAoVal := ao.Values[N], ao.Values[N-1]

	// ── Derived analytics ──
	srLookback := min(srLookbackMax, n)
	pivots := pattern.Pivots(candles, srLookback)
	srZone := pivots.ZoneTest(price, atr)
	ribbon := pattern.Ribbon(emaFast[N], emaMid[N], emaSlow[N], ema200[N])
	rsiDiv := pattern.RSIDivergence(candles, rsiArr, pattern.DefaultDivergenceLookback)
	macdDiv := pattern.MACDDivergence(candles, macd.Histogram, pattern.DefaultDivergenceLookback)

	support := pivots.S1
	if support <= 0 {
		support = pattern.SwingLow(candles, srLookback)
	}
	resistance := pivots.R1
	if resistance <= 0 {
		resistance = pattern.SwingHigh(candles, srLookback)
	}

	avgVol := meanVolume(candles, volumeAvgLookback)
	avgVol5 := meanVolume(candles, volumeTrendLookback)
	volRatio, volTrend := 1.0, 1.0
	if avgVol > 0 {
		volRatio = last.Volume / avgVol
		volTrend = avgVol5 / avgVol
	}

	reasons := make([]model.Reason, 0, 24)
	add := func(class model.ReasonClass, format string, args ...any) {
		reasons = append(reasons, model.Reason{Text: fmt.Sprintf(format, args...), Class: class})
	}

	var bk model.Breakdown

	// ═══ Stage 1: regime identification ═══
	regimeBlocked := false
	regimeScore := 0
	regime := model.RegimeUnknown

	if meta.IsStale {
		add(model.ReasonNeutral, "stale data — reduced accuracy")
		bk.Penalty += stalePenalty
	}
	if meta.IsFallback {
		add(model.ReasonNeutral, "daily fallback data (requested interval unavailable)")
		bk.Penalty += fallbackPenalty
	}

	switch {
	case adxV >= adxStrongTrend:
		regime = model.RegimeStrongTrend
		regimeScore += regimeStrongTrendScore
		cls := model.ReasonSell
		if pdi > ndi {
			cls = model.ReasonBuy
		}
		add(cls, "strong trend: ADX=%.1f | +DI=%.1f -DI=%.1f", adxV, pdi, ndi)
	case adxV >= adxTrend:
		regime = model.RegimeTrend
		regimeScore += regimeTrendScore
		add(model.ReasonNeutral, "moderate trend: ADX=%.1f", adxV)
	case adxV >= adxWeakTrend:
		regime = model.RegimeWeakTrend
		regimeScore += regimeWeakTrendScore
		add(model.ReasonNeutral, "weak trend: ADX=%.1f — caution", adxV)
	default:
		regime = model.RegimeMeanReversion
		regimeScore += regimeMeanRevScore
		add(model.ReasonNeutral, "no trend: ADX=%.1f — reversion setups only", adxV)
	}

	switch {
	case atrPct < atrPctBlocked:
		regimeBlocked = true
		add(model.ReasonNeutral, "volatility too low: %.4f%%", atrPct)
	case atrPct >= atrPctGood:
		regimeScore += atrPctGoodScore
		add(model.ReasonNeutral, "healthy volatility: %.3f%%", atrPct)
	case atrPct >= atrPctOK:
		regimeScore += atrPctOKScore
	}

	if volRatio < lowVolumeRatio {
		bk.Penalty += lowVolumePenalty
		add(model.ReasonNeutral, "very low volume (%.0f%% of average)", volRatio*100)
	}
	bk.Regime = min(regimeCap, regimeScore)

	// ═══ Stage 2: directional setup ═══
	buyScore, sellScore := 0, 0

	if regime.Trending() {
		// Trend-following branch.
		switch ribbon {
		case pattern.RibbonStrongUp:
			buyScore += ribbonStrongScore
			add(model.ReasonBuy, "EMA ribbon fully stacked bullish")
		case pattern.RibbonStrongDown:
			sellScore += ribbonStrongScore
			add(model.ReasonSell, "EMA ribbon fully stacked bearish")
		case pattern.RibbonUp:
			buyScore += ribbonWeakScore
			add(model.ReasonBuy, "EMAs aligned bullish")
		case pattern.RibbonDown:
			sellScore += ribbonWeakScore
			add(model.ReasonSell, "EMAs aligned bearish")
		default:
			add(model.ReasonNeutral, "EMAs mixed — no trend confirmation")
		}

		macdBullCross := mVal > mSig && macd.Line[N-1] <= macd.Signal[N-1]
		macdBearCross := mVal < mSig && macd.Line[N-1] >= macd.Signal[N-1]
		macdBullMom := mHist > 0 && mHist > pmHist && pmHist > pmHist2
		macdBearMom := mHist < 0 && mHist < pmHist && pmHist < pmHist2
		switch {
		case macdBullCross:
			buyScore += macdFreshCrossScore
			add(model.ReasonBuy, "fresh MACD bullish cross")
		case macdBearCross:
			sellScore += macdFreshCrossScore
			add(model.ReasonSell, "fresh MACD bearish cross")
		case macdBullMom:
			buyScore += macdMomentumScore
			add(model.ReasonBuy, "MACD histogram rising 3 bars")
		case macdBearMom:
			sellScore += macdMomentumScore
			add(model.ReasonSell, "MACD histogram falling 3 bars")
		case mHist > 0:
			buyScore += macdSignScore
			add(model.ReasonBuy, "MACD positive")
		case mHist < 0:
			sellScore += macdSignScore
			add(model.ReasonSell, "MACD negative")
		}

		switch {
		case rsi > 50 && rsi < 70 && rsi > pRsi:
			buyScore += rsiTrendScore
			add(model.ReasonBuy, "RSI=%.1f rising in healthy zone", rsi)
		case rsi < 50 && rsi > 30 && rsi < pRsi:
			sellScore += rsiTrendScore
			add(model.ReasonSell, "RSI=%.1f falling in healthy zone", rsi)
		case rsi > rsiOverbought:
			bk.Penalty += rsiExtremePenalty
			add(model.ReasonNeutral, "RSI=%.1f overbought — reversal risk", rsi)
		case rsi < rsiOversold:
			bk.Penalty += rsiExtremePenalty
			add(model.ReasonNeutral, "RSI=%.1f oversold — reversal risk", rsi)
		}

		if pdi > ndi && pdi-ndi > diGapMin {
			buyScore += diGapScore
			add(model.ReasonBuy, "+DI(%.1f) > -DI(%.1f) — buying pressure", pdi, ndi)
		} else if ndi > pdi && ndi-pdi > diGapMin {
			sellScore += diGapScore
			add(model.ReasonSell, "-DI(%.1f) > +DI(%.1f) — selling pressure", ndi, pdi)
		}

		if price > vwap[N] && prev.Close > vwap[N-1] && prev2.Close > vwap[N-2] {
			buyScore += vwapStabilityScore
			add(model.ReasonBuy, "holding above VWAP (3 bars)")
		} else if price < vwap[N] && prev.Close < vwap[N-1] && prev2.Close < vwap[N-2] {
			sellScore += vwapStabilityScore
			add(model.ReasonSell, "holding below VWAP (3 bars)")
		}

		if momentum > momentumThreshold {
			buyScore += momentumScore
			add(model.ReasonBuy, "positive momentum: %.2f%%", momentum)
		} else if momentum < -momentumThreshold {
			sellScore += momentumScore
			add(model.ReasonSell, "negative momentum: %.2f%%", momentum)
		}
	} else {
		// Mean-reversion branch (weak/no trend).
		if !math.IsNaN(bb.Lower[N]) {
			if bw := bb.Upper[N] - bb.Lower[N]; bw > 0 {
				pp := (price - bb.Lower[N]) / bw
				switch {
				case pp <= bbExtremeLow && last.Bullish():
					buyScore += bbExtremeScore
					add(model.ReasonBuy, "at lower Bollinger band + bullish candle")
				case pp >= bbExtremeHigh && last.Bearish():
					sellScore += bbExtremeScore
					add(model.ReasonSell, "at upper Bollinger band + bearish candle")
				case pp <= bbNearLow:
					buyScore += bbNearScore
					add(model.ReasonBuy, "near lower Bollinger band")
				case pp >= bbNearHigh:
					sellScore += bbNearScore
					add(model.ReasonSell, "near upper Bollinger band")
				}
			}
		}

		rsiReversingUp := rsi < rsiReversalLow && rsi > pRsi && pRsi > pRsi2
		rsiReversingDn := rsi > rsiReversalHigh && rsi < pRsi && pRsi < pRsi2
		switch {
		case rsiReversingUp:
			buyScore += rsiReversalScore
			add(model.ReasonBuy, "RSI=%.1f turning up from oversold (3 bars)", rsi)
		case rsiReversingDn:
			sellScore += rsiReversalScore
			add(model.ReasonSell, "RSI=%.1f turning down from overbought (3 bars)", rsi)
		case rsi < rsiSimpleLow:
			buyScore += rsiSimpleScore
			add(model.ReasonBuy, "RSI=%.1f oversold", rsi)
		case rsi > rsiSimpleHigh:
			sellScore += rsiSimpleScore
			add(model.ReasonSell, "RSI=%.1f overbought", rsi)
		}

		switch {
		case sK > sD && psK <= psD && sK < stochZoneLow:
			buyScore += stochCrossScore
			add(model.ReasonBuy, "stochastic bullish cross in oversold zone")
		case sK < sD && psK >= psD && sK > stochZoneHigh:
			sellScore += stochCrossScore
			add(model.ReasonSell, "stochastic bearish cross in overbought zone")
		case sK < stochDeepLow:
			buyScore += stochDeepScore
			add(model.ReasonBuy, "stochastic deeply oversold")
		case sK > stochDeepHigh:
			sellScore += stochDeepScore
			add(model.ReasonSell, "stochastic deeply overbought")
		}

		if !math.IsNaN(bb.Lower[N]) && !math.IsNaN(bb.Lower[N-1]) {
			if prev.Close < bb.Lower[N-1] && last.Close > bb.Lower[N] {
				buyScore += bbReentryScore
				add(model.ReasonBuy, "re-entered above lower band")
			}
			if prev.Close > bb.Upper[N-1] && last.Close < bb.Upper[N] {
				sellScore += bbReentryScore
				add(model.ReasonSell, "re-entered below upper band")
			}
		}

		if srZone.AtZone {
			if strings.HasPrefix(srZone.Level, "s") && last.Bullish() {
				buyScore += srBounceScore
				add(model.ReasonBuy, "bounce off support %s", srZone.Level)
			} else if strings.HasPrefix(srZone.Level, "r") && last.Bearish() {
				sellScore += srBounceScore
				add(model.ReasonSell, "rejection at resistance %s", srZone.Level)
			}
		}
	}

	// ── Stage 2.5: always-applied overlay ──
	cloudDefined := !math.IsNaN(senkouA) && !math.IsNaN(senkouB) &&
		!math.IsNaN(tenkan) && !math.IsNaN(kijun)
	if cloudDefined && price > senkouA && price > senkouB && tenkan > kijun {
		buyScore += ichimokuScore
		add(model.ReasonBuy, "Ichimoku: price above cloud + Tenkan>Kijun")
	} else if cloudDefined && price < senkouA && price < senkouB && tenkan < kijun {
		sellScore += ichimokuScore
		add(model.ReasonSell, "Ichimoku: price below cloud + Tenkan<Kijun")
	}

	if srsiK > srsiD && pSrsiK <= pSrsiD && srsiK < stochRSIZoneLow {
		buyScore += stochRSICrossScore
		add(model.ReasonBuy, "StochRSI bullish cross in oversold zone (%.0f)", srsiK)
	} else if srsiK < srsiD && pSrsiK >= pSrsiD && srsiK > stochRSIZoneHigh {
		sellScore += stochRSICrossScore
		add(model.ReasonSell, "StochRSI bearish cross in overbought zone (%.0f)", srsiK)
	}

	switch {
	case mfiVal > mfiBuyLevel && buyScore > 0:
		buyScore += mfiScore
		add(model.ReasonBuy, "MFI=%.0f — strong buying flow", mfiVal)
	case mfiVal < mfiSellLevel && sellScore > 0:
		sellScore += mfiScore
		add(model.ReasonSell, "MFI=%.0f — strong selling flow", mfiVal)
	case mfiVal > mfiHighExtreme:
		bk.Penalty += mfiExtremePenalty
		add(model.ReasonNeutral, "MFI=%.0f overbought", mfiVal)
	case mfiVal < mfiLowExtreme:
		bk.Penalty += mfiExtremePenalty
		add(model.ReasonNeutral, "MFI=%.0f oversold", mfiVal)
	}

	if willRVal < willROversold && last.Bullish() {
		buyScore += willRScore
		add(model.ReasonBuy, "Williams %%R=%.0f + bullish candle", willRVal)
	} else if willRVal > willROverbought && last.Bearish() {
		sellScore += willRScore
		add(model.ReasonSell, "Williams %%R=%.0f + bearish candle", willRVal)
	}

	if aoVal > 0 && pAoVal > 0 && aoVal > pAoVal && buyScore > 0 {
		buyScore += aoScore
		add(model.ReasonBuy, "Awesome Oscillator accelerating up")
	} else if aoVal < 0 && pAoVal < 0 && aoVal < pAoVal && sellScore > 0 {
		sellScore += aoScore
		add(model.ReasonSell, "Awesome Oscillator accelerating down")
	}

	if tsiVal > tsiThreshold {
		buyScore += tsiScore
		add(model.ReasonBuy, "TSI=%.0f — bullish strength", tsiVal)
	} else if tsiVal < -tsiThreshold {
		sellScore += tsiScore
		add(model.ReasonSell, "TSI=%.0f — bearish strength", tsiVal)
	}

	if price < keltner.Lower[N] && last.Bullish() {
		buyScore += keltnerScore
		add(model.ReasonBuy, "below lower Keltner channel + bullish candle")
	} else if price > keltner.Upper[N] && last.Bearish() {
		sellScore += keltnerScore
		add(model.ReasonSell, "above upper Keltner channel + bearish candle")
	}

	// ═══ Stage 3: divergence & confirmation ═══
	confScore := 0

	if rsiDiv.Bullish {
		buyScore += rsiDivergenceScore
		confScore += rsiDivergenceScore
		add(model.ReasonBuy, "bullish RSI divergence — strong reversal signal")
	}
	if rsiDiv.Bearish {
		sellScore += rsiDivergenceScore
		confScore += rsiDivergenceScore
		add(model.ReasonSell, "bearish RSI divergence — strong reversal signal")
	}
	if macdDiv.Bullish {
		buyScore += macdDivergenceScore
		confScore += macdDivergenceScore
		add(model.ReasonBuy, "bullish MACD divergence")
	}
	if macdDiv.Bearish {
		sellScore += macdDivergenceScore
		confScore += macdDivergenceScore
		add(model.ReasonSell, "bearish MACD divergence")
	}

	if volRatio > volumeStrongRatio && volTrend > volumeTrendRatio {
		if price > prev.Close {
			buyScore += volumeStrongScore
			confScore += volumeStrongScore
			add(model.ReasonBuy, "high and rising volume on advance")
		} else {
			sellScore += volumeStrongScore
			confScore += volumeStrongScore
			add(model.ReasonSell, "high and rising volume on decline")
		}
	} else if volRatio > volumeMildRatio {
		if price > prev.Close {
			buyScore += volumeMildScore
			add(model.ReasonBuy, "above-average volume on advance")
		} else {
			sellScore += volumeMildScore
			add(model.ReasonSell, "above-average volume on decline")
		}
	}

	if rng := last.Range(); rng > 0 && rng > atr*cfg.CandleRangeATRGate {
		switch {
		case pattern.BullishEngulfing(prev, last):
			buyScore += engulfingScore
			confScore += engulfingConfirmBonus
			add(model.ReasonBuy, "strong bullish engulfing")
		case pattern.BearishEngulfing(prev, last):
			sellScore += engulfingScore
			confScore += engulfingConfirmBonus
			add(model.ReasonSell, "strong bearish engulfing")
		case pattern.Hammer(last):
			buyScore += hammerStarScore
			add(model.ReasonBuy, "hammer")
		case pattern.ShootingStar(last):
			sellScore += hammerStarScore
			add(model.ReasonSell, "shooting star")
		}
		if pattern.ThreeWhiteSoldiers(prev2, prev, last) {
			buyScore += threeRunScore
			add(model.ReasonBuy, "three white soldiers")
		}
		if pattern.ThreeBlackCrows(prev2, prev, last) {
			sellScore += threeRunScore
			add(model.ReasonSell, "three black crows")
		}
	}

	bk.Setup = min(setupCap, max(buyScore, sellScore))
	bk.Confirmation = min(confirmationCap, confScore)

	// ═══ Stage 4: execution & risk ═══
	execScore := 0
	execBlocked := false
	isBuy := buyScore > sellScore

	swingLo := pattern.MultiSwingLow(candles, pattern.DefaultStopSwingLookback)
	swingHi := pattern.MultiSwingHigh(candles, pattern.DefaultStopSwingLookback)

	var stop, t1, t2, t3 float64
	if isBuy {
		stop = math.Min(swingLo, price-atr*stopATRMult) - atr*stopCushionATR
		risk := math.Max(price-stop, atr*riskFloorATR)
		t1 = price + risk*tp1R
		t2 = price + risk*tp2R
		t3 = price + risk*tp3R
	} else {
		stop = math.Max(swingHi, price+atr*stopATRMult) + atr*stopCushionATR
		risk := math.Max(stop-price, atr*riskFloorATR)
		t1 = price - risk*tp1R
		t2 = price - risk*tp2R
		t3 = price - risk*tp3R
	}

	riskAmt := math.Abs(price - stop)
	rewardAmt := math.Abs(t1 - price)
	rr := 0.0
	if riskAmt > 0 {
		rr = rewardAmt / riskAmt
	}

	sideClass := model.ReasonSell
	if isBuy {
		sideClass = model.ReasonBuy
	}
	switch {
	case rr >= rrExcellent:
		execScore += rrExcellentScore
		add(sideClass, "excellent R:R 1:%.1f", rr)
	case rr >= rrGood:
		execScore += rrGoodScore
		add(sideClass, "good R:R 1:%.1f", rr)
	case rr >= rrAcceptable:
		execScore += rrAcceptableScore
		add(model.ReasonNeutral, "acceptable R:R 1:%.1f", rr)
	default:
		execBlocked = true
		add(model.ReasonNeutral, "poor R:R 1:%.1f — entry blocked", rr)
	}

	distRes := resistance - price
	distSup := price - support
	switch {
	case isBuy && distRes < atr*srProximityATR:
		execBlocked = true
		add(model.ReasonNeutral, "too close to resistance — no room to run")
	case !isBuy && distSup < atr*srProximityATR:
		execBlocked = true
		add(model.ReasonNeutral, "too close to support — no room to fall")
	case (isBuy && distRes > atr*srFarATR) || (!isBuy && distSup > atr*srFarATR):
		execScore += srFarScore
		add(sideClass, "clear distance from S/R")
	case (isBuy && distRes > atr*srOkATR) || (!isBuy && distSup > atr*srOkATR):
		execScore += srOkScore
	}
	bk.Execution = min(executionCap, execScore)

	// ═══ Final confidence & decision ═══
	raw := bk.Regime + bk.Setup + bk.Execution + bk.Confirmation
	pen := bk.Penalty
	switch {
	case volRatio < heavyVolumePenaltyRatio:
		pen += heavyVolumePenalty
	case volRatio < softVolumePenaltyRatio:
		pen += softVolumePenalty
	}
	conf := raw - pen
	if conf < 0 {
		conf = 0
	}
	if conf > 100 {
		conf = 100
	}
	blocked := regimeBlocked || execBlocked

	buyConf := int(math.Round(math.Min(MaxConfirmationCount, float64(buyScore)/setupCap*MaxConfirmationCount)))
	sellConf := int(math.Round(math.Min(MaxConfirmationCount, float64(sellScore)/setupCap*MaxConfirmationCount)))
	maxConf := max(buyConf, sellConf)

	directionGap := buyScore - sellScore
	if directionGap < 0 {
		directionGap = -directionGap
	}
	directionRatio := 0.0
	if top := max(buyScore, sellScore); top > 0 {
		directionRatio = float64(directionGap) / float64(top)
	}

	branchLabel := "reversion"
	if strings.Contains(string(regime), "trend") {
		branchLabel = "trend"
	}

	action := model.ActionWait
	switch {
	case blocked || meta.IsStale:
		conf = min(conf, waitCapBlocked)
		if blocked {
			add(model.ReasonNeutral, "waiting — safety filter active")
		} else {
			add(model.ReasonNeutral, "waiting — stale data")
		}
	case maxConf < cfg.MinConfirmations:
		conf = min(conf, waitCapConfirmations)
		add(model.ReasonNeutral, "waiting — insufficient confirmations %d/%d", maxConf, cfg.MinConfirmations)
	case directionGap < cfg.DirectionGapMin:
		conf = min(conf, waitCapGap)
		add(model.ReasonNeutral, "waiting — mixed signals (gap: %d)", directionGap)
	case directionRatio < cfg.DirectionRatioMin:
		conf = min(conf, waitCapRatio)
		add(model.ReasonNeutral, "waiting — low directional clarity (%.0f%%)", directionRatio*100)
	case buyScore > sellScore && buyConf >= cfg.MinConfirmations && conf >= confidenceFloor:
		action = model.ActionBuy
		add(model.ReasonBuy, "%s buy — confidence %d%% (%d/%d)", branchLabel, conf, buyConf, MaxConfirmationCount)
	case sellScore > buyScore && sellConf >= cfg.MinConfirmations && conf >= confidenceFloor:
		action = model.ActionSell
		add(model.ReasonSell, "%s sell — confidence %d%% (%d/%d)", branchLabel, conf, sellConf, MaxConfirmationCount)
	default:
		conf = min(conf, waitCapDefault)
		add(model.ReasonNeutral, "waiting — insufficient confidence to enter")
	}

	sig.Action = action
	sig.Confidence = conf
	sig.Reasons = reasons
	sig.Confirmations = maxConf
	sig.BuyConfirm = buyConf
	sig.SellConfirm = sellConf
	sig.Blocked = blocked
	sig.Breakdown = bk
	sig.RegimeMode = regime
	sig.Levels = model.Levels{
		Entry:      price,
		StopLoss:   stop,
		TP1:        t1,
		TP2:        t2,
		TP3:        t3,
		Support:    support,
		Resistance: resistance,
		Pivot:      pivots.Pivot,
		S2:         pivots.S2,
		R2:         pivots.R2,
	}
	sig.Indicators = model.IndicatorSnapshot{
		EMA9:   emaFast[N],
		EMA21:  emaMid[N],
		EMA50:  emaSlow[N],
		EMA100: ema100[N],
		EMA200: ema200[N],

		RSI:        rsi,
		MACD:       mVal,
		MACDSignal: mSig,
		MACDHist:   mHist,
		ATR:        atr,
		ATRPct:     atrPct,
		StochK:     sK,
		StochD:     sD,
		VWAP:       vwap[N],
		ADX:        adxV,
		PlusDI:     pdi,
		MinusDI:    ndi,
		BBUpper:    fin(bb.Upper[N]),
		BBMiddle:   fin(bb.Middle[N]),
		BBLower:    fin(bb.Lower[N]),
		VolRatio:   volRatio,
		Momentum:   momentum,

		Ribbon:      string(ribbon),
		RSIDivBull:  rsiDiv.Bullish,
		RSIDivBear:  rsiDiv.Bearish,
		MACDDivBull: macdDiv.Bullish,
		MACDDivBear: macdDiv.Bearish,

		IchimokuTenkan:  fin(tenkan),
		IchimokuKijun:   fin(kijun),
		IchimokuSenkouA: fin(senkouA),
		IchimokuSenkouB: fin(senkouB),
		KeltnerMid:      fin(keltner.Middle[N]),
		KeltnerUpper:    fin(keltner.Upper[N]),
		KeltnerLower:    fin(keltner.Lower[N]),
		StochRSIK:       srsiK,
		StochRSID:       srsiD,
		WilliamsR:       willRVal,
		MFI:             mfiVal,
		Awesome:         aoVal,
		TSI:             tsiVal,
		MACDHistMom:     histMom[N],
	}
	return sig
}

// meanVolume averages volume over the trailing lookback bars.
func meanVolume(candles []model.Candle, lookback int) float64 {
	if lookback > len(candles) {
		lookback = len(candles)
	}
	if lookback == 0 {
		return 0
	}
	sum := 0.0
	for _, c := range candles[len(candles)-lookback:] {
		sum += c.Volume
	}
	return sum / float64(lookback)
}

// fin maps NaN to 0 for JSON-safe snapshots of warm-up values.
func fin(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return v
}
