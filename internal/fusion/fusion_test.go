package fusion

import (
	"context"
	"testing"

	"github.com/schmidb/AI-crypto-bot-sub000/internal/thresholds"
	"github.com/schmidb/AI-crypto-bot-sub000/internal/types"
)

func testTable(t *testing.T, entries []thresholds.Entry, priorities map[types.Regime][]string, def float64) *thresholds.Table {
	t.Helper()
	table, err := thresholds.Build(entries, priorities, def)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return table
}

func sig(strategy string, action types.Action, conf float64) types.TradingSignal {
	return types.TradingSignal{AssetID: "BTC-EUR", StrategyID: strategy, Action: action, Confidence: conf}
}

func TestFuseSpecScenario(t *testing.T) {
	// RANGING, mean_reversion BUY 75 against threshold 30.
	table := testTable(t,
		[]thresholds.Entry{{Regime: types.RegimeRanging, Strategy: "mean_reversion", Action: types.ActionBuy, Threshold: 30}},
		map[types.Regime][]string{types.RegimeRanging: {"mean_reversion", "momentum"}},
		50,
	)
	e := NewEngine(table)

	d := e.Fuse(context.Background(), "BTC-EUR", types.RegimeRanging, []types.TradingSignal{
		sig("mean_reversion", types.ActionBuy, 75),
	})

	if d.Action != types.ActionBuy {
		t.Fatalf("Fuse action = %s, want BUY", d.Action)
	}
	if d.SourceStrategy != "mean_reversion" {
		t.Errorf("Fuse source = %s, want mean_reversion", d.SourceStrategy)
	}
	if d.Confidence != 75 {
		t.Errorf("Fuse confidence = %.1f, want 75 (no other strategies to adjust)", d.Confidence)
	}
}

func TestFusePriorityOrderWins(t *testing.T) {
	// Both qualify; the earlier priority entry wins even though the later
	// one has higher confidence.
	table := testTable(t, nil,
		map[types.Regime][]string{types.RegimeTrending: {"momentum", "breakout"}},
		50,
	)
	e := NewEngine(table)

	d := e.Fuse(context.Background(), "BTC-EUR", types.RegimeTrending, []types.TradingSignal{
		sig("breakout", types.ActionBuy, 95),
		sig("momentum", types.ActionBuy, 60),
	})

	if d.SourceStrategy != "momentum" {
		t.Errorf("Fuse source = %s, want momentum (earlier priority)", d.SourceStrategy)
	}
	// 60 raw + 5 confirmation from breakout.
	if d.Confidence != 65 {
		t.Errorf("Fuse confidence = %.1f, want 65", d.Confidence)
	}
}

func TestFuseSkipsHoldAndMissing(t *testing.T) {
	table := testTable(t, nil,
		map[types.Regime][]string{types.RegimeTrending: {"momentum", "breakout", "mean_reversion"}},
		50,
	)
	e := NewEngine(table)

	// momentum missing, breakout HOLD: mean_reversion decides.
	d := e.Fuse(context.Background(), "BTC-EUR", types.RegimeTrending, []types.TradingSignal{
		sig("breakout", types.ActionHold, 90),
		sig("mean_reversion", types.ActionSell, 70),
	})

	if d.SourceStrategy != "mean_reversion" || d.Action != types.ActionSell {
		t.Errorf("Fuse = %s/%s, want mean_reversion/SELL", d.SourceStrategy, d.Action)
	}
}

func TestFuseThresholdInclusive(t *testing.T) {
	table := testTable(t,
		[]thresholds.Entry{{Regime: types.RegimeRanging, Strategy: "mean_reversion", Action: types.ActionBuy, Threshold: 60}},
		map[types.Regime][]string{types.RegimeRanging: {"mean_reversion"}},
		50,
	)
	e := NewEngine(table)

	d := e.Fuse(context.Background(), "BTC-EUR", types.RegimeRanging, []types.TradingSignal{
		sig("mean_reversion", types.ActionBuy, 60),
	})
	if d.Action != types.ActionBuy {
		t.Errorf("adjusted confidence equal to threshold must qualify, got %s", d.Action)
	}
}

func TestFuseVetoPenalty(t *testing.T) {
	// momentum BUY 62 would clear its threshold 60, but mean_reversion
	// SELLs above its own base threshold, so 62-10=52 misses.
	table := testTable(t,
		[]thresholds.Entry{
			{Regime: types.RegimeRanging, Strategy: "momentum", Action: types.ActionBuy, Threshold: 60},
			{Regime: types.RegimeRanging, Strategy: "mean_reversion", Action: types.ActionSell, Threshold: 40},
		},
		map[types.Regime][]string{types.RegimeRanging: {"momentum", "mean_reversion"}},
		50,
	)
	e := NewEngine(table)

	d := e.Fuse(context.Background(), "BTC-EUR", types.RegimeRanging, []types.TradingSignal{
		sig("momentum", types.ActionBuy, 62),
		sig("mean_reversion", types.ActionSell, 45),
	})

	// Both veto each other: mean_reversion falls to 35 against its
	// threshold 40, so the list is exhausted.
	if d.Action != types.ActionHold {
		t.Fatalf("Fuse action = %s, want HOLD after mutual vetoes", d.Action)
	}
	if d.Reason != types.ReasonNoQualifyingStrategy {
		t.Errorf("Fuse reason = %s, want %s", d.Reason, types.ReasonNoQualifyingStrategy)
	}
}

func TestFuseWeakDisagreementDoesNotVeto(t *testing.T) {
	// The opposing strategy sits below its own base threshold, so no
	// penalty applies.
	table := testTable(t,
		[]thresholds.Entry{
			{Regime: types.RegimeRanging, Strategy: "momentum", Action: types.ActionBuy, Threshold: 60},
			{Regime: types.RegimeRanging, Strategy: "mean_reversion", Action: types.ActionSell, Threshold: 40},
		},
		map[types.Regime][]string{types.RegimeRanging: {"momentum"}},
		50,
	)
	e := NewEngine(table)

	d := e.Fuse(context.Background(), "BTC-EUR", types.RegimeRanging, []types.TradingSignal{
		sig("momentum", types.ActionBuy, 62),
		sig("mean_reversion", types.ActionSell, 35),
	})

	if d.Action != types.ActionBuy {
		t.Fatalf("Fuse action = %s, want BUY (weak disagreement)", d.Action)
	}
	if d.Confidence != 62 {
		t.Errorf("Fuse confidence = %.1f, want 62 unadjusted", d.Confidence)
	}
}

func TestFuseConfirmationBonusLiftsOverThreshold(t *testing.T) {
	table := testTable(t,
		[]thresholds.Entry{{Regime: types.RegimeTrending, Strategy: "momentum", Action: types.ActionBuy, Threshold: 60}},
		map[types.Regime][]string{types.RegimeTrending: {"momentum"}},
		50,
	)
	e := NewEngine(table)

	// 57 alone misses 60; +5 confirmation from breakout lifts it to 62.
	d := e.Fuse(context.Background(), "BTC-EUR", types.RegimeTrending, []types.TradingSignal{
		sig("momentum", types.ActionBuy, 57),
		sig("breakout", types.ActionBuy, 10),
	})

	if d.Action != types.ActionBuy {
		t.Fatalf("Fuse action = %s, want BUY with confirmation bonus", d.Action)
	}
	if d.Confidence != 62 {
		t.Errorf("Fuse confidence = %.1f, want 62", d.Confidence)
	}
}

func TestFuseExhaustedYieldsHold(t *testing.T) {
	table := testTable(t, nil,
		map[types.Regime][]string{types.RegimeRanging: {"momentum"}},
		50,
	)
	e := NewEngine(table)

	d := e.Fuse(context.Background(), "BTC-EUR", types.RegimeRanging, nil)
	if d.Action != types.ActionHold || d.Confidence != 0 {
		t.Errorf("Fuse on empty signals = %s/%.1f, want HOLD/0", d.Action, d.Confidence)
	}
	if d.SourceStrategy != "" {
		t.Errorf("Fuse HOLD source = %q, want empty", d.SourceStrategy)
	}
}

func TestFuseConfidenceClamped(t *testing.T) {
	table := testTable(t, nil,
		map[types.Regime][]string{types.RegimeTrending: {"momentum"}},
		50,
	)
	e := NewEngine(table)

	d := e.Fuse(context.Background(), "BTC-EUR", types.RegimeTrending, []types.TradingSignal{
		sig("momentum", types.ActionBuy, 98),
		sig("breakout", types.ActionBuy, 50),
	})
	if d.Confidence != 100 {
		t.Errorf("Fuse confidence = %.1f, want clamp at 100", d.Confidence)
	}
}
