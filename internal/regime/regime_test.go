package regime

import (
	"math"
	"testing"

	"github.com/schmidb/AI-crypto-bot-sub000/internal/types"
)

func snap(p24, p5d, p7d, bw float64) types.IndicatorSnapshot {
	return types.IndicatorSnapshot{
		PctChange24h: p24,
		PctChange5d:  p5d,
		PctChange7d:  p7d,
		BandWidthPct: bw,
	}
}

func TestClassifyRuleOrder(t *testing.T) {
	d := NewDetector(DefaultThresholds())

	cases := []struct {
		name string
		in   types.IndicatorSnapshot
		want types.Regime
	}{
		{"strong 24h move trends", snap(5.0, 2.0, 1.0, 2.0), types.RegimeTrending},
		{"strong 5d move trends", snap(1.0, 9.0, 1.0, 2.0), types.RegimeTrending},
		{"negative move trends too", snap(-4.5, 0.0, 0.0, 2.0), types.RegimeTrending},
		{"trend with wide bands is volatile", snap(5.0, 2.0, 1.0, 6.0), types.RegimeVolatile},
		{"trend at volatility ceiling is volatile", snap(5.0, 2.0, 1.0, 5.0), types.RegimeVolatile},
		{"wide bands alone are volatile", snap(1.0, 1.0, 1.0, 5.5), types.RegimeVolatile},
		{"quiet bear drift", snap(1.0, -3.0, -6.0, 1.5), types.RegimeBearRanging},
		{"bear drift with wide bands is not bear ranging", snap(1.0, -3.0, -6.0, 2.5), types.RegimeRanging},
		{"flat and quiet ranges", snap(0.5, 1.0, 1.0, 1.5), types.RegimeRanging},
		{"nothing matches falls back to ranging", snap(2.0, 3.0, 1.0, 2.5), types.RegimeRanging},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := d.Classify(tc.in)
			if got.Regime != tc.want {
				t.Errorf("Classify(%+v) = %s, want %s", tc.in, got.Regime, tc.want)
			}
			if got.DegradedInput {
				t.Errorf("unexpected degraded flag for clean input %+v", tc.in)
			}
		})
	}
}

func TestClassifyAlwaysReturnsARegime(t *testing.T) {
	d := NewDetector(DefaultThresholds())
	valid := map[types.Regime]bool{
		types.RegimeTrending:    true,
		types.RegimeRanging:     true,
		types.RegimeVolatile:    true,
		types.RegimeBearRanging: true,
	}

	values := []float64{-20, -5, -1.4, 0, 1.4, 3, 4.5, 10, math.NaN()}
	for _, p24 := range values {
		for _, p7d := range values {
			for _, bw := range values {
				got := d.Classify(snap(p24, 0, p7d, bw))
				if !valid[got.Regime] {
					t.Fatalf("Classify returned invalid regime %q for (%.1f, %.1f, %.1f)", got.Regime, p24, p7d, bw)
				}
			}
		}
	}
}

func TestClassifyDegradedInput(t *testing.T) {
	d := NewDetector(DefaultThresholds())

	cases := []types.IndicatorSnapshot{
		snap(math.NaN(), 1, 1, 1),
		snap(1, math.NaN(), 1, 1),
		snap(1, 1, math.NaN(), 1),
		snap(5.0, 9.0, 1, math.NaN()), // would trend without the NaN
	}

	for _, in := range cases {
		got := d.Classify(in)
		if got.Regime != types.RegimeRanging {
			t.Errorf("Classify(%+v) = %s, want RANGING on degraded input", in, got.Regime)
		}
		if !got.DegradedInput {
			t.Errorf("Classify(%+v) missing degraded flag", in)
		}
	}
}
