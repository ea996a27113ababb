package gatewayobs

import (
	"context"

	"github.com/schmidb/AI-crypto-bot-sub000/internal/interfaces"
	"github.com/schmidb/AI-crypto-bot-sub000/internal/logger"
	"github.com/schmidb/AI-crypto-bot-sub000/internal/trace"
	"github.com/schmidb/AI-crypto-bot-sub000/internal/types"
)

type observableGateway struct {
	gateway interfaces.ExecutionGateway
}

var _ interfaces.ExecutionGateway = (*observableGateway)(nil)

func Wrap(gw interfaces.ExecutionGateway) interfaces.ExecutionGateway {
	return &observableGateway{
		gateway: gw,
	}
}

func (og *observableGateway) Execute(ctx context.Context, alloc types.CapitalAllocation) (types.ExecutionOutcome, error) {
	ctx, span := trace.StartSpan(ctx, "gateway.Execute")
	defer span.End()

	outcome, err := og.gateway.Execute(ctx, alloc)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Gateway execution failed", err,
			"asset", alloc.AssetID,
			"action", string(alloc.Action),
			"amount", alloc.Amount,
		)
		return outcome, err
	}

	logger.InfoSkip(ctx, 1, "Gateway execution completed",
		"asset", alloc.AssetID,
		"action", string(alloc.Action),
		"amount", alloc.Amount,
		"outcome", string(outcome),
	)
	return outcome, nil
}
