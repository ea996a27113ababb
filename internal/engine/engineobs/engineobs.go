package engineobs

import (
	"context"
	"time"

	"github.com/schmidb/AI-crypto-bot-sub000/internal/interfaces"
	"github.com/schmidb/AI-crypto-bot-sub000/internal/logger"
	"github.com/schmidb/AI-crypto-bot-sub000/internal/trace"
	"github.com/schmidb/AI-crypto-bot-sub000/internal/types"
)

type observableEngine struct {
	engine interfaces.Engine
}

var _ interfaces.Engine = (*observableEngine)(nil)

func Wrap(eng interfaces.Engine) interfaces.Engine {
	return &observableEngine{
		engine: eng,
	}
}

func (oe *observableEngine) RunCycle(ctx context.Context, input types.CycleInput) (*types.CycleResult, error) {
	ctx, span := trace.StartSpan(ctx, "engine.RunCycle")
	defer span.End()

	start := time.Now()

	logger.InfoSkip(ctx, 1, "Starting decision cycle",
		"assets", len(input.Signals),
		"available_capital", input.Capital.AvailableCapital,
	)

	result, err := oe.engine.RunCycle(ctx, input)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Decision cycle failed", err,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	logger.InfoSkip(ctx, 1, "Decision cycle completed",
		"allocations", len(result.Allocations),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return result, nil
}

func (oe *observableEngine) RecordExecutionResult(ctx context.Context, alloc types.CapitalAllocation, outcome types.ExecutionOutcome, at time.Time) error {
	ctx, span := trace.StartSpan(ctx, "engine.RecordExecutionResult")
	defer span.End()

	err := oe.engine.RecordExecutionResult(ctx, alloc, outcome, at)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to record execution result", err,
			"asset", alloc.AssetID,
			"outcome", string(outcome),
		)
		return err
	}

	logger.InfoSkip(ctx, 1, "Execution result recorded",
		"asset", alloc.AssetID,
		"action", string(alloc.Action),
		"amount", alloc.Amount,
		"outcome", string(outcome),
	)
	return nil
}
