package regime

import (
	"math"

	"github.com/schmidb/AI-crypto-bot-sub000/internal/types"
)

// Thresholds control the classification rules. Zero value is unusable; use
// DefaultThresholds or values from config.
type Thresholds struct {
	Trend24hPct       float64 `yaml:"trend_24h_pct"`       // |24h move| above this suggests a trend
	Trend5dPct        float64 `yaml:"trend_5d_pct"`        // |5d move| above this suggests a trend
	VolatilityCeiling float64 `yaml:"volatility_ceiling"`  // band width at or above this vetoes TRENDING
	VolatileBandPct   float64 `yaml:"volatile_band_pct"`   // band width above this is VOLATILE outright
	ElevatedBandPct   float64 `yaml:"elevated_band_pct"`   // band width above this plus a large 24h move is VOLATILE
	BearDrop7dPct     float64 `yaml:"bear_drop_7d_pct"`    // 7d move below this (negative) marks a bear drift
	LowBandPct        float64 `yaml:"low_band_pct"`        // band width below this counts as quiet
	Ranging24hPct     float64 `yaml:"ranging_24h_pct"`     // |24h move| below this counts as flat
}

// DefaultThresholds match the production tuning of the rule set.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Trend24hPct:       4.0,
		Trend5dPct:        8.0,
		VolatilityCeiling: 5.0,
		VolatileBandPct:   5.0,
		ElevatedBandPct:   3.0,
		BearDrop7dPct:     -5.0,
		LowBandPct:        2.0,
		Ranging24hPct:     1.5,
	}
}

// Result carries the classification plus a degraded-input marker for the
// audit trace.
type Result struct {
	Regime        types.Regime
	DegradedInput bool
}

// Detector classifies the market regime of one asset from an indicator
// snapshot. Stateless and safe for concurrent use.
type Detector struct {
	t Thresholds
}

func NewDetector(t Thresholds) *Detector {
	return &Detector{t: t}
}

// Classify applies the rules in strict priority order and always returns one
// of the four regimes. Missing or NaN inputs degrade to RANGING; they never
// produce an error.
func (d *Detector) Classify(snap types.IndicatorSnapshot) Result {
	if hasNaN(snap) {
		return Result{Regime: types.RegimeRanging, DegradedInput: true}
	}

	abs24 := math.Abs(snap.PctChange24h)
	abs5d := math.Abs(snap.PctChange5d)
	bw := snap.BandWidthPct

	// Rule 1: strong directional move. Band width at the volatility ceiling
	// reclassifies the same move as VOLATILE.
	if abs24 > d.t.Trend24hPct || abs5d > d.t.Trend5dPct {
		if bw >= d.t.VolatilityCeiling {
			return Result{Regime: types.RegimeVolatile}
		}
		return Result{Regime: types.RegimeTrending}
	}

	// Rule 2: wide bands, or a large 24h move on elevated bands.
	if bw > d.t.VolatileBandPct || (abs24 > d.t.Trend24hPct && bw > d.t.ElevatedBandPct) {
		return Result{Regime: types.RegimeVolatile}
	}

	// Rule 3: quiet downward drift overrides plain RANGING.
	if snap.PctChange7d < d.t.BearDrop7dPct && bw < d.t.LowBandPct {
		return Result{Regime: types.RegimeBearRanging}
	}

	// Rule 4: flat and quiet.
	if abs24 < d.t.Ranging24hPct && bw < d.t.LowBandPct {
		return Result{Regime: types.RegimeRanging}
	}

	// Conservative fallback.
	return Result{Regime: types.RegimeRanging}
}

func hasNaN(snap types.IndicatorSnapshot) bool {
	return math.IsNaN(snap.PctChange24h) ||
		math.IsNaN(snap.PctChange5d) ||
		math.IsNaN(snap.PctChange7d) ||
		math.IsNaN(snap.BandWidthPct)
}
