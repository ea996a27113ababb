package gateway

import (
	"context"

	"github.com/schmidb/AI-crypto-bot-sub000/internal/logger"
	"github.com/schmidb/AI-crypto-bot-sub000/internal/types"
)

// PaperGateway simulates order execution for DRY_RUN mode: every allocation
// fills immediately at face value. A live gateway implements the same
// interface against a real exchange.
type PaperGateway struct{}

func NewPaperGateway() *PaperGateway {
	return &PaperGateway{}
}

func (g *PaperGateway) Execute(ctx context.Context, alloc types.CapitalAllocation) (types.ExecutionOutcome, error) {
	logger.Info(ctx, "Paper execution filled",
		"asset", alloc.AssetID,
		"action", string(alloc.Action),
		"amount", alloc.Amount,
	)
	return types.OutcomeFilled, nil
}
