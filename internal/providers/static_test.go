package providers

import (
	"context"
	"testing"
	"time"

	"github.com/schmidb/AI-crypto-bot-sub000/internal/types"
)

func TestStaticSignalProvider(t *testing.T) {
	p := NewStaticSignalProvider(map[string][]types.TradingSignal{
		"BTC-EUR": {{AssetID: "BTC-EUR", StrategyID: "momentum", Action: types.ActionBuy, Confidence: 80}},
	})

	out, err := p.Signals(context.Background(), []string{"BTC-EUR", "ETH-EUR"}, time.Now())
	if err != nil {
		t.Fatalf("Signals failed: %v", err)
	}
	if len(out["BTC-EUR"]) != 1 {
		t.Errorf("BTC-EUR signals = %d, want 1", len(out["BTC-EUR"]))
	}
	if _, ok := out["ETH-EUR"]; ok {
		t.Error("asset without configured signals must be omitted")
	}
}

func TestStaticSignalProviderNilMap(t *testing.T) {
	p := NewStaticSignalProvider(nil)
	out, err := p.Signals(context.Background(), []string{"BTC-EUR"}, time.Now())
	if err != nil {
		t.Fatalf("Signals failed: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("nil-configured provider served %d entries, want 0", len(out))
	}
}

func TestStaticIndicatorProvider(t *testing.T) {
	p := NewStaticIndicatorProvider(map[string]types.IndicatorSnapshot{
		"BTC-EUR": {PctChange24h: 1, PctChange5d: 2, PctChange7d: 3, BandWidthPct: 1.5},
	})

	out, err := p.Snapshots(context.Background(), []string{"BTC-EUR", "ETH-EUR"})
	if err != nil {
		t.Fatalf("Snapshots failed: %v", err)
	}
	if snap := out["BTC-EUR"]; snap.PctChange5d != 2 {
		t.Errorf("PctChange5d = %v, want 2", snap.PctChange5d)
	}
	if _, ok := out["ETH-EUR"]; ok {
		t.Error("asset without configured snapshot must be omitted")
	}
}
