package thresholds

import (
	"testing"

	"github.com/schmidb/AI-crypto-bot-sub000/internal/types"
)

func validPriorities() map[types.Regime][]string {
	return map[types.Regime][]string{
		types.RegimeRanging:  {"mean_reversion", "momentum"},
		types.RegimeTrending: {"momentum"},
	}
}

func TestLookup(t *testing.T) {
	table, err := Build([]Entry{
		{Regime: types.RegimeRanging, Strategy: "mean_reversion", Action: types.ActionBuy, Threshold: 30},
		{Regime: types.RegimeRanging, Strategy: "mean_reversion", Action: types.ActionSell, Threshold: 35},
	}, validPriorities(), 50)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if got := table.Lookup(types.RegimeRanging, "mean_reversion", types.ActionBuy); got != 30 {
		t.Errorf("Lookup hit = %.1f, want 30", got)
	}
	if got := table.Lookup(types.RegimeRanging, "mean_reversion", types.ActionSell); got != 35 {
		t.Errorf("Lookup hit = %.1f, want 35", got)
	}
	// Tuples without an entry resolve to the global default.
	if got := table.Lookup(types.RegimeTrending, "momentum", types.ActionBuy); got != 50 {
		t.Errorf("Lookup miss = %.1f, want default 50", got)
	}
}

func TestPriority(t *testing.T) {
	table, err := Build(nil, validPriorities(), 50)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	got := table.Priority(types.RegimeRanging)
	if len(got) != 2 || got[0] != "mean_reversion" || got[1] != "momentum" {
		t.Errorf("Priority(RANGING) = %v, want [mean_reversion momentum]", got)
	}
	if got := table.Priority(types.RegimeVolatile); got != nil {
		t.Errorf("Priority for unlisted regime = %v, want nil", got)
	}
}

func TestBuildValidation(t *testing.T) {
	cases := []struct {
		name       string
		entries    []Entry
		priorities map[types.Regime][]string
		def        float64
	}{
		{"empty priorities", nil, map[types.Regime][]string{}, 50},
		{"empty priority list", nil, map[types.Regime][]string{types.RegimeRanging: {}}, 50},
		{"unknown regime in priorities", nil, map[types.Regime][]string{"SIDEWAYS": {"momentum"}}, 50},
		{"duplicate strategy in priority list", nil, map[types.Regime][]string{types.RegimeRanging: {"momentum", "momentum"}}, 50},
		{"default out of range", nil, validPriorities(), 120},
		{"entry threshold out of range", []Entry{{Regime: types.RegimeRanging, Strategy: "momentum", Action: types.ActionBuy, Threshold: 101}}, validPriorities(), 50},
		{"entry for HOLD", []Entry{{Regime: types.RegimeRanging, Strategy: "momentum", Action: types.ActionHold, Threshold: 10}}, validPriorities(), 50},
		{"entry with unknown regime", []Entry{{Regime: "SIDEWAYS", Strategy: "momentum", Action: types.ActionBuy, Threshold: 10}}, validPriorities(), 50},
		{"duplicate entry", []Entry{
			{Regime: types.RegimeRanging, Strategy: "momentum", Action: types.ActionBuy, Threshold: 10},
			{Regime: types.RegimeRanging, Strategy: "momentum", Action: types.ActionBuy, Threshold: 20},
		}, validPriorities(), 50},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Build(tc.entries, tc.priorities, tc.def); err == nil {
				t.Error("expected Build to fail")
			}
		})
	}
}
