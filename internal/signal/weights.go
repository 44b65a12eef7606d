package signal

// Every score increment, penalty and threshold used by the staged scorer
// lives here so tests can assert against the documented values instead of
// re-deriving them from the engine body.

// MinBars is the minimum window length for a non-trivial signal.
const MinBars = 80

// MaxConfirmationCount is the fixed ceiling of the confirmation meter.
const MaxConfirmationCount = 12

// Stage caps.
const (
	regimeCap       = 20
	setupCap        = 40
	executionCap    = 15
	confirmationCap = 25
)

// Stage 1: regime identification.
const (
	adxStrongTrend = 30
	adxTrend       = 22
	adxWeakTrend   = 15

	regimeStrongTrendScore = 12
	regimeTrendScore       = 8
	regimeWeakTrendScore   = 4
	regimeMeanRevScore     = 3

	atrPctBlocked = 0.003 // below this the volatility gate trips
	atrPctGood    = 0.05
	atrPctOK      = 0.02
	atrPctGoodScore = 6
	atrPctOKScore   = 3

	stalePenalty    = 20
	fallbackPenalty = 10

	lowVolumeRatio   = 0.4
	lowVolumePenalty = 8
)

// Stage 2: directional setup, trend branch.
const (
	ribbonStrongScore = 8
	ribbonWeakScore   = 4

	macdFreshCrossScore = 8
	macdMomentumScore   = 5
	macdSignScore       = 2

	rsiTrendScore      = 6
	rsiOverbought      = 75.0
	rsiOversold        = 25.0
	rsiExtremePenalty  = 5

	diGapMin   = 5.0
	diGapScore = 6

	vwapStabilityScore = 4

	momentumThreshold = 0.5
	momentumScore     = 3
)

// Stage 2: directional setup, range branch.
const (
	bbExtremeLow    = 0.08
	bbExtremeHigh   = 0.92
	bbExtremeScore  = 10
	bbNearLow       = 0.15
	bbNearHigh      = 0.85
	bbNearScore     = 4
	bbReentryScore  = 6

	rsiReversalLow   = 35.0
	rsiReversalHigh  = 65.0
	rsiReversalScore = 10
	rsiSimpleLow     = 30.0
	rsiSimpleHigh    = 70.0
	rsiSimpleScore   = 3

	stochZoneLow    = 25.0
	stochZoneHigh   = 75.0
	stochCrossScore = 8
	stochDeepLow    = 15.0
	stochDeepHigh   = 85.0
	stochDeepScore  = 3

	srBounceScore = 5
)

// Stage 2.5: always-applied overlay.
const (
	ichimokuScore = 4

	stochRSIZoneLow    = 25.0
	stochRSIZoneHigh   = 75.0
	stochRSICrossScore = 5

	mfiBuyLevel   = 60.0
	mfiSellLevel  = 40.0
	mfiScore      = 3
	mfiHighExtreme = 80.0
	mfiLowExtreme  = 20.0
	mfiExtremePenalty = 3

	willROversold   = -80.0
	willROverbought = -20.0
	willRScore      = 4

	aoScore = 3

	tsiThreshold = 20.0
	tsiScore     = 2

	keltnerScore = 3
)

// Stage 3: divergence and confirmation.
const (
	rsiDivergenceScore  = 8
	macdDivergenceScore = 6

	volumeStrongRatio = 1.5
	volumeTrendRatio  = 1.2
	volumeStrongScore = 4
	volumeMildRatio   = 1.2
	volumeMildScore   = 2

	engulfingScore        = 5
	engulfingConfirmBonus = 3
	hammerStarScore       = 3
	threeRunScore         = 4
)

// Stage 4: execution and risk.
const (
	stopATRMult    = 1.5
	stopCushionATR = 0.3
	riskFloorATR   = 0.5

	tp1R = 1.5
	tp2R = 2.5
	tp3R = 3.5

	rrExcellent      = 2.0
	rrExcellentScore = 8
	rrGood           = 1.5
	rrGoodScore      = 5
	rrAcceptable     = 1.0
	rrAcceptableScore = 2

	srProximityATR = 0.8 // closer than this to the opposing level blocks entry
	srFarATR       = 3.0
	srFarScore     = 5
	srOkATR        = 1.5
	srOkScore      = 2
)

// Final decision.
const (
	heavyVolumePenaltyRatio = 0.3
	heavyVolumePenalty      = 15
	softVolumePenaltyRatio  = 0.5
	softVolumePenalty       = 8

	confidenceFloor = 50

	waitCapBlocked       = 30
	waitCapConfirmations = 35
	waitCapGap           = 40
	waitCapRatio         = 38
	waitCapDefault       = 45
)

// Auxiliary lookbacks (fixed in the reference implementation).
const (
	rocPeriod           = 10
	macdHistMomPeriod   = 5
	volumeAvgLookback   = 20
	volumeTrendLookback = 5
	srLookbackMax       = 60
	keltnerPeriod       = 20
	keltnerMult         = 2.0
	aoFast              = 5
	aoSlow              = 34
	tsiLong             = 25
	tsiShort            = 13
	stochRSIPeriod      = 14
	stochRSISmooth      = 3
	willRPeriod         = 14
	mfiPeriod           = 14
)
