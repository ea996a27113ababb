package consensus

import (
	"github.com/schmidb/AI-crypto-bot-sub000/internal/types"
)

// Apply downgrades a decision to HOLD when fewer than minAgree distinct
// strategies signal the decision's direction. Raw signal direction counts;
// the agreeing strategies' own thresholds are ignored. The source strategy
// counts toward the total, so minAgree of 1 disables the filter. Pure
// function: the input decision is not mutated.
func Apply(decision types.Decision, signals []types.TradingSignal, minAgree int) types.Decision {
	if decision.Action == types.ActionHold || minAgree <= 1 {
		return decision
	}

	agree := map[string]bool{}
	for _, s := range signals {
		if s.Action == decision.Action {
			agree[s.StrategyID] = true
		}
	}

	if len(agree) < minAgree {
		return types.Decision{
			AssetID: decision.AssetID,
			Action:  types.ActionHold,
			Regime:  decision.Regime,
			Reason:  types.ReasonInsufficientConsensus,
		}
	}
	return decision
}
