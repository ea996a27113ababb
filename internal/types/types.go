package types

import "time"

// Action is the direction of a signal, decision, or allocation.
type Action string

const (
	ActionBuy  Action = "BUY"
	ActionSell Action = "SELL"
	ActionHold Action = "HOLD"
)

// OpposedTo reports whether two actions point in opposing directions.
// HOLD opposes nothing.
func (a Action) OpposedTo(b Action) bool {
	return (a == ActionBuy && b == ActionSell) || (a == ActionSell && b == ActionBuy)
}

// Regime classifies market behavior for one asset within one cycle.
type Regime string

const (
	RegimeTrending    Regime = "TRENDING"
	RegimeRanging     Regime = "RANGING"
	RegimeVolatile    Regime = "VOLATILE"
	RegimeBearRanging Regime = "BEAR_RANGING"
)

// TradingSignal is one strategy's view of one asset for the current cycle.
// Signals are produced externally and immutable once received.
type TradingSignal struct {
	AssetID     string    `json:"asset_id"`
	StrategyID  string    `json:"strategy_id"`
	Action      Action    `json:"action"`
	Confidence  float64   `json:"confidence"` // 0-100
	GeneratedAt time.Time `json:"generated_at"`
}

// IndicatorSnapshot feeds the regime detector. NaN marks a missing input.
type IndicatorSnapshot struct {
	PctChange24h float64 `json:"pct_change_24h"`
	PctChange5d  float64 `json:"pct_change_5d"`
	PctChange7d  float64 `json:"pct_change_7d"`
	BandWidthPct float64 `json:"band_width_pct"`
}

// Decision is the fused per-asset outcome of one cycle. Exactly one per
// asset; may be HOLD.
type Decision struct {
	AssetID        string  `json:"asset_id"`
	Action         Action  `json:"action"`
	Confidence     float64 `json:"confidence"`
	SourceStrategy string  `json:"source_strategy,omitempty"`
	Regime         Regime  `json:"regime"`
	Reason         string  `json:"reason"`
}

// Opportunity is an actionable decision eligible for capital.
type Opportunity struct {
	AssetID    string  `json:"asset_id"`
	Action     Action  `json:"action"`
	Confidence float64 `json:"confidence"`
	RankScore  float64 `json:"rank_score"`
}

// CapitalAllocation is owned by the allocator until handed to the
// execution gateway.
type CapitalAllocation struct {
	AssetID string  `json:"asset_id"`
	Action  Action  `json:"action"`
	Amount  float64 `json:"amount"`
}

// CapitalStateSchemaVersion guards the persisted snapshot format.
const CapitalStateSchemaVersion = 1

// CapitalState is the one shared capital pool. Single writer per cycle.
type CapitalState struct {
	SchemaVersion    int                `json:"schema_version"`
	TotalCapital     float64            `json:"total_capital"`
	AvailableCapital float64            `json:"available_capital"`
	Exposure         map[string]float64 `json:"per_asset_exposure"`
}

// Stage tracks an asset through the per-cycle pipeline.
type Stage string

const (
	StageSignaled         Stage = "SIGNALED"
	StageRegimeClassified Stage = "REGIME_CLASSIFIED"
	StageFused            Stage = "FUSED"
	StageConsensusChecked Stage = "CONSENSUS_CHECKED"
	StageCooldownChecked  Stage = "COOLDOWN_CHECKED"
	StageRanked           Stage = "RANKED"
	StageAllocated        Stage = "ALLOCATED"
	StageSkipped          Stage = "SKIPPED"
)

// Structured reason codes. Business outcomes, not errors.
const (
	ReasonNoCapital             = "no_capital_allocated"
	ReasonBelowMinimum          = "below_minimum"
	ReasonPositionLimit         = "position_limit_exceeded"
	ReasonCooldownActive        = "cooldown_active"
	ReasonInsufficientConsensus = "insufficient_consensus"
	ReasonNoQualifyingStrategy  = "no_qualifying_strategy"
)

// AssetAudit records how one asset moved through the cycle.
type AssetAudit struct {
	AssetID       string   `json:"asset_id"`
	Stage         Stage    `json:"stage"`
	Regime        Regime   `json:"regime,omitempty"`
	Decision      Decision `json:"decision"`
	Allocated     float64  `json:"allocated,omitempty"`
	SkipReason    string   `json:"skip_reason,omitempty"`
	DegradedInput bool     `json:"degraded_input,omitempty"`
}

// ExecutionOutcome is reported back by the execution gateway.
type ExecutionOutcome string

const (
	OutcomeFilled   ExecutionOutcome = "FILLED"
	OutcomeRejected ExecutionOutcome = "REJECTED"
)

// CycleInput carries everything one cycle needs. Now is the only clock the
// core consults, so frozen inputs replay deterministically.
type CycleInput struct {
	Now        time.Time
	Signals    map[string][]TradingSignal
	Indicators map[string]IndicatorSnapshot
	Capital    CapitalState
}

// CycleResult is the cycle's output: allocations plus the audit trace.
type CycleResult struct {
	Allocations []CapitalAllocation    `json:"allocations"`
	Audit       map[string]*AssetAudit `json:"audit"`
	Time        int64                  `json:"time"`
}
