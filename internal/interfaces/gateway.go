package interfaces

import (
	"context"

	"github.com/schmidb/AI-crypto-bot-sub000/internal/types"
)

// ExecutionGateway receives allocations and owns settlement. The core never
// learns about order mechanics, only the final outcome.
type ExecutionGateway interface {
	Execute(ctx context.Context, alloc types.CapitalAllocation) (types.ExecutionOutcome, error)
}
