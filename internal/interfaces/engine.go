package interfaces

import (
	"context"
	"time"

	"github.com/schmidb/AI-crypto-bot-sub000/internal/types"
)

type Engine interface {
	RunCycle(ctx context.Context, input types.CycleInput) (*types.CycleResult, error)
	RecordExecutionResult(ctx context.Context, alloc types.CapitalAllocation, outcome types.ExecutionOutcome, at time.Time) error
}
