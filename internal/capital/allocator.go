package capital

import (
	"context"
	"sort"

	"github.com/schmidb/AI-crypto-bot-sub000/internal/logger"
	"github.com/schmidb/AI-crypto-bot-sub000/internal/types"
)

// Limits bound what the allocator may spend. Percentages are 0-100.
type Limits struct {
	MinReserve     float64 `yaml:"min_reserve"`
	MaxPerTradePct float64 `yaml:"max_per_trade_pct"`
	MaxPositionPct float64 `yaml:"max_position_pct"`
	MinTradeAmount float64 `yaml:"min_trade_amount"`
}

// Rank orders actionable decisions by adjusted confidence, descending, with
// ties broken by ascending asset ID so identical inputs always rank
// identically.
func Rank(decisions []types.Decision) []types.Opportunity {
	opps := make([]types.Opportunity, 0, len(decisions))
	for _, d := range decisions {
		if d.Action == types.ActionHold {
			continue
		}
		opps = append(opps, types.Opportunity{
			AssetID:    d.AssetID,
			Action:     d.Action,
			Confidence: d.Confidence,
			RankScore:  d.Confidence,
		})
	}
	sort.Slice(opps, func(i, j int) bool {
		if opps[i].RankScore != opps[j].RankScore {
			return opps[i].RankScore > opps[j].RankScore
		}
		return opps[i].AssetID < opps[j].AssetID
	})
	return opps
}

// Allocator greedily funds ranked opportunities from one shared capital
// pool. It is the only pipeline stage that needs exclusive access to
// CapitalState, so it runs strictly sequentially.
type Allocator struct {
	limits Limits
}

func NewAllocator(limits Limits) *Allocator {
	return &Allocator{limits: limits}
}

// Allocate runs one greedy pass over the ranked opportunities. The returned
// skip map carries a reason code for every opportunity that got nothing.
// The input state is not mutated; spending is tracked on a working copy.
//
// Reserve discipline: once the working pool minus the reserve floor drops
// below the minimum trade amount, no further opportunity can be funded this
// cycle and the pass stops. SELL proceeds are settlement-gated and never
// credited within the cycle that generated them.
func (a *Allocator) Allocate(ctx context.Context, state types.CapitalState, opps []types.Opportunity) ([]types.CapitalAllocation, map[string]string) {
	allocations := []types.CapitalAllocation{}
	skipped := map[string]string{}

	remaining := state.AvailableCapital - a.limits.MinReserve
	positionCap := a.limits.MaxPositionPct / 100.0 * state.TotalCapital

	for i, opp := range opps {
		if remaining < a.limits.MinTradeAmount {
			for _, rest := range opps[i:] {
				skipped[rest.AssetID] = types.ReasonNoCapital
			}
			logger.Info(ctx, "Capital exhausted for cycle",
				"remaining", remaining,
				"min_trade_amount", a.limits.MinTradeAmount,
				"unfunded", len(opps)-i,
			)
			break
		}

		headroom := positionCap - state.Exposure[opp.AssetID]
		if headroom < a.limits.MinTradeAmount {
			skipped[opp.AssetID] = types.ReasonPositionLimit
			logger.Debug(ctx, "Opportunity blocked by position limit",
				"asset", opp.AssetID,
				"exposure", state.Exposure[opp.AssetID],
				"position_cap", positionCap,
			)
			continue
		}

		candidate := remaining * a.limits.MaxPerTradePct / 100.0
		if headroom < candidate {
			candidate = headroom
		}
		if candidate < a.limits.MinTradeAmount {
			skipped[opp.AssetID] = types.ReasonBelowMinimum
			logger.Debug(ctx, "Opportunity below minimum trade amount",
				"asset", opp.AssetID,
				"candidate", candidate,
				"min_trade_amount", a.limits.MinTradeAmount,
			)
			continue
		}

		allocations = append(allocations, types.CapitalAllocation{
			AssetID: opp.AssetID,
			Action:  opp.Action,
			Amount:  candidate,
		})
		if opp.Action == types.ActionBuy {
			remaining -= candidate
		}
		logger.Info(ctx, "Capital allocated",
			"asset", opp.AssetID,
			"action", opp.Action,
			"amount", candidate,
			"remaining", remaining,
		)
	}

	return allocations, skipped
}
