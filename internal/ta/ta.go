// Package ta derives the indicator snapshot the regime detector consumes
// from raw daily close series. Missing or short history yields NaN fields,
// which downstream classification treats as degraded input.
package ta

import (
	"math"

	"github.com/schmidb/AI-crypto-bot-sub000/internal/types"
)

func SMA(closes []float64, n int) float64 {
	if len(closes) < n || n <= 0 {
		return math.NaN()
	}
	sum := 0.0
	for i := len(closes) - n; i < len(closes); i++ {
		sum += closes[i]
	}
	return sum / float64(n)
}

func StdDev(vals []float64, n int) float64 {
	if len(vals) < n || n <= 0 {
		return math.NaN()
	}
	m := SMA(vals, n)
	s := 0.0
	for i := len(vals) - n; i < len(vals); i++ {
		d := vals[i] - m
		s += d * d
	}
	return math.Sqrt(s / float64(n))
}

// BandWidthPct is the Bollinger band width as a percentage of the middle
// band: (upper - lower) / mid * 100 with k standard deviations.
func BandWidthPct(closes []float64, n int, k float64) float64 {
	mid := SMA(closes, n)
	sd := StdDev(closes, n)
	if math.IsNaN(mid) || math.IsNaN(sd) || mid == 0 {
		return math.NaN()
	}
	return (2 * k * sd) / mid * 100
}

// PctChange is the percentage move of the last close against the close
// lookback entries earlier.
func PctChange(closes []float64, lookback int) float64 {
	if lookback <= 0 || len(closes) < lookback+1 {
		return math.NaN()
	}
	prev := closes[len(closes)-1-lookback]
	if prev == 0 {
		return math.NaN()
	}
	return (closes[len(closes)-1] - prev) / prev * 100
}

// bollingerWindow matches the 20-period band the regime thresholds are
// tuned against.
const (
	bollingerWindow = 20
	bollingerK      = 2.0
)

// Snapshot condenses a daily close series into the fields the regime
// detector reads. The series is oldest first; intraday change uses the
// most recent two entries.
func Snapshot(dailyCloses []float64) types.IndicatorSnapshot {
	return types.IndicatorSnapshot{
		PctChange24h: PctChange(dailyCloses, 1),
		PctChange5d:  PctChange(dailyCloses, 5),
		PctChange7d:  PctChange(dailyCloses, 7),
		BandWidthPct: BandWidthPct(dailyCloses, bollingerWindow, bollingerK),
	}
}
