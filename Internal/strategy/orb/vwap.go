package orb

import "github.com/fazecat/orbwatch/Internal/types"

// AnchoredVWAP is the cumulative volume-weighted average price from the
// session's first bar through the latest, using typical price (H+L+C)/3.
// Valid is false while total session volume is zero; an undefined VWAP
// never confirms a breakout.
type AnchoredVWAP struct {
	Value float64
	Valid bool
}

func ComputeVWAP(bars []types.Bar) AnchoredVWAP {
	var weightedSum, totalVolume float64
	for _, b := range bars {
		typical := (b.High + b.Low + b.Close) / 3.0
		vol := float64(b.Volume)
		weightedSum += typical * vol
		totalVolume += vol
	}
	if totalVolume == 0 {
		return AnchoredVWAP{}
	}
	return AnchoredVWAP{Value: weightedSum / totalVolume, Valid: true}
}
