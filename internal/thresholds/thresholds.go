package thresholds

import (
	"fmt"

	"github.com/schmidb/AI-crypto-bot-sub000/internal/types"
)

// Entry is one row of the adaptive threshold table.
type Entry struct {
	Regime    types.Regime `yaml:"regime"`
	Strategy  string       `yaml:"strategy"`
	Action    types.Action `yaml:"action"`
	Threshold float64      `yaml:"threshold"` // 0-100
}

type key struct {
	regime   types.Regime
	strategy string
	action   types.Action
}

// Table resolves (regime, strategy, action) to a confidence threshold and
// holds the per-regime strategy priority order. Immutable after Build.
type Table struct {
	entries          map[key]float64
	priorities       map[types.Regime][]string
	defaultThreshold float64
}

// Build validates the raw config rows and priority lists and assembles the
// lookup table. Validation failures here are configuration errors and abort
// startup.
func Build(entries []Entry, priorities map[types.Regime][]string, defaultThreshold float64) (*Table, error) {
	if defaultThreshold < 0 || defaultThreshold > 100 {
		return nil, fmt.Errorf("default threshold must be within 0-100, got %.2f", defaultThreshold)
	}
	if len(priorities) == 0 {
		return nil, fmt.Errorf("priority lists cannot be empty")
	}
	for regime, list := range priorities {
		if !validRegime(regime) {
			return nil, fmt.Errorf("unknown regime %q in priority lists", regime)
		}
		if len(list) == 0 {
			return nil, fmt.Errorf("priority list for regime %s cannot be empty", regime)
		}
		seen := map[string]bool{}
		for _, s := range list {
			if s == "" {
				return nil, fmt.Errorf("empty strategy id in priority list for regime %s", regime)
			}
			if seen[s] {
				return nil, fmt.Errorf("duplicate strategy %q in priority list for regime %s", s, regime)
			}
			seen[s] = true
		}
	}

	t := &Table{
		entries:          make(map[key]float64, len(entries)),
		priorities:       priorities,
		defaultThreshold: defaultThreshold,
	}
	for _, e := range entries {
		if !validRegime(e.Regime) {
			return nil, fmt.Errorf("unknown regime %q in threshold table", e.Regime)
		}
		if e.Action != types.ActionBuy && e.Action != types.ActionSell {
			return nil, fmt.Errorf("threshold entries apply to BUY or SELL, got %q", e.Action)
		}
		if e.Strategy == "" {
			return nil, fmt.Errorf("threshold entry missing strategy id")
		}
		if e.Threshold < 0 || e.Threshold > 100 {
			return nil, fmt.Errorf("threshold for (%s,%s,%s) must be within 0-100, got %.2f", e.Regime, e.Strategy, e.Action, e.Threshold)
		}
		k := key{e.Regime, e.Strategy, e.Action}
		if _, dup := t.entries[k]; dup {
			return nil, fmt.Errorf("duplicate threshold entry for (%s,%s,%s)", e.Regime, e.Strategy, e.Action)
		}
		t.entries[k] = e.Threshold
	}
	return t, nil
}

// Lookup returns the configured threshold, or the global default when the
// tuple has no entry.
func (t *Table) Lookup(regime types.Regime, strategy string, action types.Action) float64 {
	if v, ok := t.entries[key{regime, strategy, action}]; ok {
		return v
	}
	return t.defaultThreshold
}

// Priority returns the ordered strategy list for a regime. The returned
// slice must not be mutated.
func (t *Table) Priority(regime types.Regime) []string {
	return t.priorities[regime]
}

// DefaultThreshold exposes the fallback used for missing entries.
func (t *Table) DefaultThreshold() float64 {
	return t.defaultThreshold
}

func validRegime(r types.Regime) bool {
	switch r {
	case types.RegimeTrending, types.RegimeRanging, types.RegimeVolatile, types.RegimeBearRanging:
		return true
	}
	return false
}
