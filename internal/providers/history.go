package providers

import (
	"context"
	"sync"

	"github.com/schmidb/AI-crypto-bot-sub000/internal/ta"
	"github.com/schmidb/AI-crypto-bot-sub000/internal/types"
)

// HistoryIndicatorProvider derives indicator snapshots from per-asset daily
// close series. Feeds append closes as bars complete; each cycle reads a
// fresh snapshot computed from the history. Assets with too little history
// produce NaN fields and classify as degraded.
type HistoryIndicatorProvider struct {
	mu       sync.RWMutex
	closes   map[string][]float64
	maxDepth int
}

func NewHistoryIndicatorProvider(maxDepth int) *HistoryIndicatorProvider {
	if maxDepth <= 0 {
		maxDepth = 64
	}
	return &HistoryIndicatorProvider{
		closes:   map[string][]float64{},
		maxDepth: maxDepth,
	}
}

// Append records a completed daily close for an asset, trimming history to
// the retention depth.
func (p *HistoryIndicatorProvider) Append(assetID string, close float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	series := append(p.closes[assetID], close)
	if len(series) > p.maxDepth {
		series = series[len(series)-p.maxDepth:]
	}
	p.closes[assetID] = series
}

// Seed replaces an asset's history wholesale, oldest close first.
func (p *HistoryIndicatorProvider) Seed(assetID string, closes []float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	series := make([]float64, len(closes))
	copy(series, closes)
	if len(series) > p.maxDepth {
		series = series[len(series)-p.maxDepth:]
	}
	p.closes[assetID] = series
}

func (p *HistoryIndicatorProvider) Snapshots(ctx context.Context, assets []string) (map[string]types.IndicatorSnapshot, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make(map[string]types.IndicatorSnapshot, len(assets))
	for _, asset := range assets {
		series, ok := p.closes[asset]
		if !ok {
			continue
		}
		out[asset] = ta.Snapshot(series)
	}
	return out, nil
}
