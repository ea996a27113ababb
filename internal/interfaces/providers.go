package interfaces

import (
	"context"
	"time"

	"github.com/schmidb/AI-crypto-bot-sub000/internal/types"
)

// SignalProvider supplies one signal per strategy per asset each cycle.
// Missing signals are implicit HOLDs, never errors.
type SignalProvider interface {
	Signals(ctx context.Context, assets []string, now time.Time) (map[string][]types.TradingSignal, error)
}

// IndicatorProvider supplies the regime detector's inputs. Missing values
// are reported as NaN.
type IndicatorProvider interface {
	Snapshots(ctx context.Context, assets []string) (map[string]types.IndicatorSnapshot, error)
}
