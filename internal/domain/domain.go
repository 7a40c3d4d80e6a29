package domain

import (
	"math"
	"strings"
	"time"
)

// DefaultSymbol is the instrument tracked when none is configured.
const DefaultSymbol = "SPX"

// Timeframes consumed by the director engine, fastest first. The daily series
// only feeds pivot-level derivation.
const (
	TimeframeFast   = "1m"
	TimeframeMedium = "5m"
	TimeframeSlow   = "15m"
	TimeframeDaily  = "1d"
)

var SupportedTimeframes = []string{TimeframeFast, TimeframeMedium, TimeframeSlow, TimeframeDaily}

// Direction is the side of an option trade recommendation.
type Direction string

const (
	DirectionCall Direction = "CALL"
	DirectionPut  Direction = "PUT"
	DirectionNone Direction = "NONE"
)

func (d Direction) IsTradable() bool {
	return d == DirectionCall || d == DirectionPut
}

// Strength buckets a composite score into a confidence tier.
type Strength string

const (
	StrengthHigh   Strength = "HIGH"
	StrengthMedium Strength = "MEDIUM"
	StrengthLow    Strength = "LOW"
)

// TrendSignal is the stance reported by a trend-following indicator.
type TrendSignal string

const (
	TrendBuy  TrendSignal = "BUY"
	TrendSell TrendSignal = "SELL"
	TrendHold TrendSignal = "HOLD"
)

// ParseTrendSignal maps upstream spellings onto a TrendSignal, defaulting to HOLD.
func ParseTrendSignal(raw string) TrendSignal {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "BUY", "BULLISH", "LONG":
		return TrendBuy
	case "SELL", "BEARISH", "SHORT":
		return TrendSell
	default:
		return TrendHold
	}
}

// Crossover is a normalized MACD crossover reading.
type Crossover string

const (
	CrossoverBullish Crossover = "BULLISH"
	CrossoverBearish Crossover = "BEARISH"
	CrossoverNone    Crossover = "NONE"
)

// ParseCrossover normalizes the synonymous spellings different feeds use
// (BUY/BULLISH, SELL/BEARISH) into a single Crossover value.
func ParseCrossover(raw string) Crossover {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "BULLISH", "BUY", "BULL":
		return CrossoverBullish
	case "BEARISH", "SELL", "BEAR":
		return CrossoverBearish
	default:
		return CrossoverNone
	}
}

// Candle is one OHLCV bar for a single timeframe.
type Candle struct {
	Timeframe string    `json:"timeframe"`
	OpenTime  time.Time `json:"open_time"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    float64   `json:"volume"`
}

// IndicatorSnapshot bundles the per-tick indicator readings the scorer
// consumes. Sanitized gives the defensive copy used for scoring.
type IndicatorSnapshot struct {
	CurrentPrice float64     `json:"current_price"`
	RSI          float64     `json:"rsi"`
	ADX          float64     `json:"adx"`
	SuperTrend   TrendSignal `json:"super_trend"`
	EWO          TrendSignal `json:"ewo"`
	MACDCross    Crossover   `json:"macd_crossover"`
	PivotR1      float64     `json:"pivot_r1"`
	PivotR2      float64     `json:"pivot_r2"`
	PivotS1      float64     `json:"pivot_s1"`
	PivotS2      float64     `json:"pivot_s2"`
}

// Sanitized replaces NaN/unset fields with neutral defaults so scoring never
// sees malformed input: RSI 50, ADX 0, HOLD/NONE signals, absent pivots as 0.
func (s IndicatorSnapshot) Sanitized() IndicatorSnapshot {
	out := s
	if !isFinite(out.CurrentPrice) {
		out.CurrentPrice = 0
	}
	if !isFinite(out.RSI) {
		out.RSI = 50
	}
	if !isFinite(out.ADX) {
		out.ADX = 0
	}
	switch out.SuperTrend {
	case TrendBuy, TrendSell:
	default:
		out.SuperTrend = TrendHold
	}
	switch out.EWO {
	case TrendBuy, TrendSell:
	default:
		out.EWO = TrendHold
	}
	switch out.MACDCross {
	case CrossoverBullish, CrossoverBearish:
	default:
		out.MACDCross = CrossoverNone
	}
	for _, p := range []*float64{&out.PivotR1, &out.PivotR2, &out.PivotS1, &out.PivotS2} {
		if !isFinite(*p) || *p < 0 {
			*p = 0
		}
	}
	return out
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// SignalScore is the scorer's per-tick output, derived fresh each tick.
type SignalScore struct {
	Bullish   float64   `json:"bullish_score"`
	Bearish   float64   `json:"bearish_score"`
	Direction Direction `json:"direction"`
	Strength  Strength  `json:"strength,omitempty"`
	Reason    string    `json:"reason,omitempty"`
}

// SignalKey is the identity of a trade recommendation. Two signals with equal
// keys are the same recommendation; re-delivery must not re-fire side effects.
type SignalKey struct {
	Type     Direction
	Strike   float64
	Strength Strength
}

// TradeSignal is a fully planned option trade recommendation.
type TradeSignal struct {
	Type             Direction `json:"type"`
	StrikePrice      float64   `json:"strike_price"`
	EntryPrice       float64   `json:"entry_price"`
	EstimatedPremium float64   `json:"estimated_premium"`
	ProfitTarget1    float64   `json:"profit_target_1"`
	ProfitTarget2    float64   `json:"profit_target_2"`
	ProfitTarget3    float64   `json:"profit_target_3"`
	StopLoss         float64   `json:"stop_loss"`
	TargetSPXPrice   float64   `json:"target_spx_price"`
	StopSPXPrice     float64   `json:"stop_spx_price"`
	Reason           string    `json:"reason"`
	Strength         Strength  `json:"strength"`
	Timestamp        time.Time `json:"timestamp"`
}

func (t TradeSignal) Key() SignalKey {
	return SignalKey{Type: t.Type, Strike: t.StrikePrice, Strength: t.Strength}
}

// LifecycleState tracks a recommendation from proposal to outcome.
type LifecycleState string

const (
	LifecycleNone    LifecycleState = "NONE"
	LifecyclePending LifecycleState = "PENDING"
	LifecycleActive  LifecycleState = "ACTIVE"
	LifecycleProfit  LifecycleState = "PROFIT"
	LifecycleStopped LifecycleState = "STOPPED"
)

// DirectorRegime is the persistent directional-bias classification.
type DirectorRegime string

const (
	RegimeTrendUp   DirectorRegime = "TREND_UP"
	RegimeTrendDown DirectorRegime = "TREND_DOWN"
	RegimeChop      DirectorRegime = "CHOP"
)

// DirectorState carries directional bias across ticks; each recomputation is
// seeded with the previous value (hysteresis).
type DirectorState struct {
	Regime      DirectorRegime `json:"regime"`
	BiasScore   float64        `json:"bias_score"`
	InsideCloud bool           `json:"inside_cloud"`
}

// TrapType tags the reversal pattern a trap detection matched.
type TrapType string

const (
	TrapNone TrapType = "NONE"
	TrapBull TrapType = "BULL_TRAP"
	TrapBear TrapType = "BEAR_TRAP"
)

// TrapModeResult marks a short-lived false-breakout condition. An active trap
// decays over a fixed number of subsequent bars.
type TrapModeResult struct {
	Active        bool     `json:"active"`
	Type          TrapType `json:"type"`
	BarsRemaining int      `json:"bars_remaining"`
}

// AlertCooldownState is the ledger gating alert emission.
type AlertCooldownState struct {
	LastDirection        Direction `json:"last_direction"`
	LastAlertAt          time.Time `json:"last_alert_at"`
	RetestSinceLastAlert bool      `json:"retest_since_last_alert"`
	SameDirectionBlocked bool      `json:"same_direction_blocked"`
}

// ScalpAlert is an emitted, push-worthy trade alert. Immutable once created.
type ScalpAlert struct {
	Direction   Direction `json:"direction"`
	Explanation string    `json:"explanation"`
	Confidence  float64   `json:"confidence"`
	ShouldPush  bool      `json:"should_push"`
	Timestamp   time.Time `json:"timestamp"`
}

// Stance is the read-only projection of the director engine's state.
type Stance struct {
	Director  DirectorState      `json:"director"`
	Trap      TrapModeResult     `json:"trap"`
	Cooldown  AlertCooldownState `json:"cooldown"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// Quote is the current mark price of the tracked instrument.
type Quote struct {
	Symbol    string    `json:"symbol"`
	Mark      float64   `json:"mark"`
	Timestamp time.Time `json:"timestamp"`
}

// PayoutTarget is one row of the display-level payout simulation.
type PayoutTarget struct {
	Multiple          float64 `json:"multiple"`
	OptionPrice       float64 `json:"option_price"`
	ProfitPerContract float64 `json:"profit_per_contract"`
	TotalProfit       float64 `json:"total_profit"`
}

// PayoutPlan is the contracts-affordable count and payout table for a budget.
type PayoutPlan struct {
	Budget    float64        `json:"budget"`
	Premium   float64        `json:"premium"`
	Contracts int            `json:"contracts"`
	CostBasis float64        `json:"cost_basis"`
	Targets   []PayoutTarget `json:"targets"`
}

// MarketOpen reports whether the regular US cash session is trading at t
// (14:30-21:00 UTC, Monday-Friday). Holidays are not modelled.
func MarketOpen(t time.Time) bool {
	utc := t.UTC()
	switch utc.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	mins := utc.Hour()*60 + utc.Minute()
	return mins >= 14*60+30 && mins < 21*60
}
