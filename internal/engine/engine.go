package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/schmidb/AI-crypto-bot-sub000/internal/auditlog"
	"github.com/schmidb/AI-crypto-bot-sub000/internal/capital"
	"github.com/schmidb/AI-crypto-bot-sub000/internal/consensus"
	"github.com/schmidb/AI-crypto-bot-sub000/internal/cooldown"
	"github.com/schmidb/AI-crypto-bot-sub000/internal/fusion"
	"github.com/schmidb/AI-crypto-bot-sub000/internal/logger"
	"github.com/schmidb/AI-crypto-bot-sub000/internal/regime"
	"github.com/schmidb/AI-crypto-bot-sub000/internal/store"
	"github.com/schmidb/AI-crypto-bot-sub000/internal/thresholds"
	"github.com/schmidb/AI-crypto-bot-sub000/internal/trace"
	"github.com/schmidb/AI-crypto-bot-sub000/internal/types"
)

// Engine orchestrates one decision cycle: regime classification, signal
// fusion, consensus, cooldown, ranking, and capital allocation. Regime
// detection and fusion run per asset in parallel; everything that touches
// CapitalState or cooldown records runs sequentially after the join.
type Engine struct {
	cfg       *store.Config
	detector  *regime.Detector
	fuser     *fusion.Engine
	cooldowns *cooldown.Manager
	allocator *capital.Allocator
	states    *capital.StateStore
	journal   *auditlog.Journal
	minAgree  int

	// Cycles never overlap: a second caller blocks until the prior cycle
	// fully completes.
	mu sync.Mutex
}

func New(cfg *store.Config, table *thresholds.Table, cooldowns *cooldown.Manager, states *capital.StateStore, journal *auditlog.Journal) *Engine {
	return &Engine{
		cfg:       cfg,
		detector:  regime.NewDetector(cfg.Regime),
		fuser:     fusion.NewEngine(table),
		cooldowns: cooldowns,
		allocator: capital.NewAllocator(cfg.Capital.Limits),
		states:    states,
		journal:   journal,
		minAgree:  cfg.Consensus.MinAgree,
	}
}

// RunCycle fuses the cycle's signals into decisions and allocates capital.
// All time comes from input.Now, so frozen inputs replay deterministically.
// Business outcomes (HOLD, skips, exhausted capital) are ordinary results,
// never errors.
func (e *Engine) RunCycle(ctx context.Context, input types.CycleInput) (*types.CycleResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ctx, span := trace.StartSpan(ctx, "engine.RunCycle")
	defer span.End()

	assets := assetUniverse(input)
	audits := make(map[string]*types.AssetAudit, len(assets))
	decisions := make([]types.Decision, len(assets))

	var wg sync.WaitGroup
	for i, asset := range assets {
		audit := &types.AssetAudit{AssetID: asset, Stage: types.StageSignaled}
		audits[asset] = audit

		wg.Add(1)
		go func(i int, asset string, audit *types.AssetAudit) {
			defer wg.Done()
			decisions[i] = e.decideAsset(ctx, asset, input, audit)
		}(i, asset, audit)
	}
	wg.Wait()

	// Cooldown check and allocation need exclusive access to shared state;
	// this part of the pipeline is strictly sequential.
	actionable := make([]types.Decision, 0, len(decisions))
	for i, asset := range assets {
		d := decisions[i]
		audit := audits[asset]
		if d.Action == types.ActionHold {
			audit.Stage = types.StageSkipped
			audit.SkipReason = d.Reason
			continue
		}
		if !e.cooldowns.Check(ctx, asset, input.Now) {
			audit.Stage = types.StageSkipped
			audit.SkipReason = types.ReasonCooldownActive
			logger.Debug(ctx, "Asset suppressed by cooldown", "asset", asset)
			continue
		}
		audit.Stage = types.StageCooldownChecked
		actionable = append(actionable, d)
	}

	opps := capital.Rank(actionable)
	for _, o := range opps {
		audits[o.AssetID].Stage = types.StageRanked
	}

	allocations, skipped := e.allocator.Allocate(ctx, input.Capital, opps)
	for asset, reason := range skipped {
		audits[asset].Stage = types.StageSkipped
		audits[asset].SkipReason = reason
	}
	for _, a := range allocations {
		audit := audits[a.AssetID]
		audit.Stage = types.StageAllocated
		audit.Allocated = a.Amount
		logger.Allocation(ctx, a.AssetID, string(a.Action), a.Amount)
	}

	ordered := make([]*types.AssetAudit, len(assets))
	for i, asset := range assets {
		ordered[i] = audits[asset]
	}
	if err := e.journal.AppendCycle(input.Now, ordered); err != nil {
		// The audit trail is best effort; a journaling failure never blocks
		// the cycle's allocations.
		logger.Warn(ctx, "Failed to append cycle audit trail", "error", err)
	}

	logger.Info(ctx, "Cycle completed",
		"assets", len(assets),
		"actionable", len(actionable),
		"allocations", len(allocations),
	)
	return &types.CycleResult{
		Allocations: allocations,
		Audit:       audits,
		Time:        input.Now.Unix(),
	}, nil
}

// decideAsset runs the per-asset stages that share no mutable state:
// regime classification, fusion, and the consensus filter.
func (e *Engine) decideAsset(ctx context.Context, asset string, input types.CycleInput, audit *types.AssetAudit) types.Decision {
	snap, ok := input.Indicators[asset]
	if !ok {
		snap = types.IndicatorSnapshot{
			PctChange24h: math.NaN(),
			PctChange5d:  math.NaN(),
			PctChange7d:  math.NaN(),
			BandWidthPct: math.NaN(),
		}
	}

	res := e.detector.Classify(snap)
	audit.Regime = res.Regime
	audit.DegradedInput = res.DegradedInput
	audit.Stage = types.StageRegimeClassified
	if res.DegradedInput {
		logger.Risk(ctx, asset, "DEGRADED_INDICATOR_INPUT", "fallback_regime", string(res.Regime))
	}

	d := e.fuser.Fuse(ctx, asset, res.Regime, input.Signals[asset])
	audit.Stage = types.StageFused

	d = consensus.Apply(d, input.Signals[asset], e.minAgree)
	audit.Stage = types.StageConsensusChecked
	audit.Decision = d

	logger.Decision(ctx, asset, string(d.Action), d.Confidence, d.Reason, "regime", string(res.Regime))
	return d
}

// RecordExecutionResult feeds a gateway outcome back into the core. Only a
// confirmed fill commits the cooldown record and mutates the durable
// CapitalState; a rejection leaves both untouched so the asset can trade
// again immediately.
func (e *Engine) RecordExecutionResult(ctx context.Context, alloc types.CapitalAllocation, outcome types.ExecutionOutcome, at time.Time) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.journal.AppendExecution(at, alloc, outcome); err != nil {
		logger.Warn(ctx, "Failed to append execution audit entry", "error", err)
	}

	if outcome != types.OutcomeFilled {
		logger.Info(ctx, "Execution rejected - no state change",
			"asset", alloc.AssetID,
			"action", alloc.Action,
			"amount", alloc.Amount,
		)
		return nil
	}

	state, ok, err := e.states.Load()
	if err != nil {
		return fmt.Errorf("load capital state: %w", err)
	}
	if !ok {
		return errors.New("capital state snapshot missing; bootstrap must seed it")
	}

	switch alloc.Action {
	case types.ActionBuy:
		state.AvailableCapital -= alloc.Amount
		state.Exposure[alloc.AssetID] += alloc.Amount
	case types.ActionSell:
		// Proceeds are credited only now, on confirmed settlement.
		state.AvailableCapital += alloc.Amount
		state.Exposure[alloc.AssetID] -= alloc.Amount
		if state.Exposure[alloc.AssetID] < 0 {
			state.Exposure[alloc.AssetID] = 0
		}
	}

	if err := e.states.Save(state); err != nil {
		return fmt.Errorf("persist capital state: %w", err)
	}

	if err := e.cooldowns.Commit(ctx, alloc.AssetID, at); err != nil {
		return fmt.Errorf("commit cooldown: %w", err)
	}

	logger.Info(ctx, "Execution recorded",
		"asset", alloc.AssetID,
		"action", alloc.Action,
		"amount", alloc.Amount,
		"available", state.AvailableCapital,
		"exposure", state.Exposure[alloc.AssetID],
	)
	return nil
}

// assetUniverse returns the sorted union of assets with signals or
// indicators, so map iteration order never leaks into results.
func assetUniverse(input types.CycleInput) []string {
	seen := map[string]bool{}
	for asset := range input.Signals {
		seen[asset] = true
	}
	for asset := range input.Indicators {
		seen[asset] = true
	}
	assets := make([]string, 0, len(seen))
	for asset := range seen {
		assets = append(assets, asset)
	}
	sort.Strings(assets)
	return assets
}
