package providers

import (
	"context"
	"time"

	"github.com/schmidb/AI-crypto-bot-sub000/internal/logger"
	"github.com/schmidb/AI-crypto-bot-sub000/internal/types"
)

// StaticSignalProvider serves a fixed signal set for every cycle. In
// production the strategy services (indicator heuristics, LLM analysts) sit
// behind the same interface; this provider keeps the bot runnable without
// them and gives tests frozen inputs.
type StaticSignalProvider struct {
	signals map[string][]types.TradingSignal
}

func NewStaticSignalProvider(signals map[string][]types.TradingSignal) *StaticSignalProvider {
	if signals == nil {
		signals = map[string][]types.TradingSignal{}
	}
	return &StaticSignalProvider{signals: signals}
}

func (p *StaticSignalProvider) Signals(ctx context.Context, assets []string, now time.Time) (map[string][]types.TradingSignal, error) {
	out := make(map[string][]types.TradingSignal, len(assets))
	for _, asset := range assets {
		if sigs, ok := p.signals[asset]; ok {
			out[asset] = sigs
		}
	}
	logger.Debug(ctx, "Static signals served", "assets", len(out))
	return out, nil
}

// StaticIndicatorProvider serves a fixed indicator snapshot per asset.
type StaticIndicatorProvider struct {
	snapshots map[string]types.IndicatorSnapshot
}

func NewStaticIndicatorProvider(snapshots map[string]types.IndicatorSnapshot) *StaticIndicatorProvider {
	if snapshots == nil {
		snapshots = map[string]types.IndicatorSnapshot{}
	}
	return &StaticIndicatorProvider{snapshots: snapshots}
}

func (p *StaticIndicatorProvider) Snapshots(ctx context.Context, assets []string) (map[string]types.IndicatorSnapshot, error) {
	out := make(map[string]types.IndicatorSnapshot, len(assets))
	for _, asset := range assets {
		if snap, ok := p.snapshots[asset]; ok {
			out[asset] = snap
		}
	}
	return out, nil
}
