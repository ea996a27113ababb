package fusion

import (
	"context"
	"fmt"

	"github.com/schmidb/AI-crypto-bot-sub000/internal/logger"
	"github.com/schmidb/AI-crypto-bot-sub000/internal/thresholds"
	"github.com/schmidb/AI-crypto-bot-sub000/internal/types"
)

const (
	confirmationBonus = 5.0
	vetoPenalty       = 10.0
)

// Engine fuses one asset's strategy signals into a single decision using the
// priority order and threshold table for the asset's regime. Stateless and
// safe for concurrent use.
type Engine struct {
	table *thresholds.Table
}

func NewEngine(table *thresholds.Table) *Engine {
	return &Engine{table: table}
}

// Fuse walks the priority order for the regime. HOLD and missing signals are
// skipped (missing is an implicit HOLD, never an error). The first strategy
// whose adjusted confidence meets its effective threshold wins outright;
// later entries are not consulted even if they would score higher. An
// exhausted priority list yields a HOLD decision.
func (e *Engine) Fuse(ctx context.Context, assetID string, regime types.Regime, signals []types.TradingSignal) types.Decision {
	bySrc := make(map[string]types.TradingSignal, len(signals))
	for _, s := range signals {
		bySrc[s.StrategyID] = s
	}

	for _, strategy := range e.table.Priority(regime) {
		sig, ok := bySrc[strategy]
		if !ok || sig.Action == types.ActionHold {
			continue
		}

		threshold := e.table.Lookup(regime, strategy, sig.Action)
		adjusted := e.adjust(ctx, regime, sig, signals)
		if adjusted >= threshold {
			logger.Debug(ctx, "Fusion candidate qualified",
				"asset", assetID,
				"strategy", strategy,
				"action", sig.Action,
				"raw_confidence", sig.Confidence,
				"adjusted_confidence", adjusted,
				"threshold", threshold,
			)
			return types.Decision{
				AssetID:        assetID,
				Action:         sig.Action,
				Confidence:     adjusted,
				SourceStrategy: strategy,
				Regime:         regime,
				Reason:         fmt.Sprintf("%s %s qualified at %.1f (threshold %.1f)", strategy, sig.Action, adjusted, threshold),
			}
		}
		logger.Debug(ctx, "Fusion candidate below threshold",
			"asset", assetID,
			"strategy", strategy,
			"action", sig.Action,
			"adjusted_confidence", adjusted,
			"threshold", threshold,
		)
	}

	return types.Decision{
		AssetID: assetID,
		Action:  types.ActionHold,
		Regime:  regime,
		Reason:  types.ReasonNoQualifyingStrategy,
	}
}

// adjust applies the confirmation bonus and veto penalty against the rest of
// the signal set. A confirmation is any other strategy signaling the same
// direction, regardless of its own threshold. A veto requires the opposing
// strategy's raw confidence to be strictly above its own base threshold for
// its own action.
func (e *Engine) adjust(ctx context.Context, regime types.Regime, candidate types.TradingSignal, signals []types.TradingSignal) float64 {
	confirmed := false
	vetoed := false
	for _, other := range signals {
		if other.StrategyID == candidate.StrategyID {
			continue
		}
		if other.Action == candidate.Action {
			confirmed = true
			continue
		}
		if other.Action.OpposedTo(candidate.Action) {
			otherThreshold := e.table.Lookup(regime, other.StrategyID, other.Action)
			if other.Confidence > otherThreshold {
				vetoed = true
				logger.Debug(ctx, "Strong disagreement vetoing candidate",
					"asset", candidate.AssetID,
					"candidate", candidate.StrategyID,
					"vetoer", other.StrategyID,
					"vetoer_confidence", other.Confidence,
					"vetoer_threshold", otherThreshold,
				)
			}
		}
	}

	adjusted := candidate.Confidence
	if confirmed {
		adjusted += confirmationBonus
	}
	if vetoed {
		adjusted -= vetoPenalty
	}
	return clamp(adjusted, 0, 100)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
