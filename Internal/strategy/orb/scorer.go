package orb

import (
	"fmt"

	"github.com/fazecat/orbwatch/Internal/types"
)

// Composite score weights. Fixed policy, not tunable at call time.
const (
	BreakoutPoints      = 40.0
	VWAPConfirmPoints   = 30.0
	VolumeConfirmPoints = 20.0
	RangeQualityPoints  = 10.0
)

// DefaultReferenceRangeWidth is the opening-range width (as a fraction
// of the range low) at which range quality earns its full 10 points.
// Wider ranges earn proportionally less; a degenerate zero-width range
// still earns the full 10.
const DefaultReferenceRangeWidth = 0.01

// VolumeMode selects what gets compared against the average-daily-volume
// baseline for the volume confirmation flag.
type VolumeMode string

const (
	// VolumeModeSessionTotal compares cumulative session volume to the
	// baseline: confirmation means the day is already trading above its
	// trailing average. This is the default.
	VolumeModeSessionTotal VolumeMode = "session_total"
	// VolumeModeLatestBar compares only the latest bar's volume.
	VolumeModeLatestBar VolumeMode = "latest_bar"
)

// Scorer evaluates one symbol's intraday bar series into a SetupScore.
// It holds no per-symbol state; a single Scorer is safe to share across
// concurrent evaluations.
type Scorer struct {
	ReferenceRangeWidth float64
	VolumeMode          VolumeMode
}

func NewScorer() *Scorer {
	return &Scorer{
		ReferenceRangeWidth: DefaultReferenceRangeWidth,
		VolumeMode:          VolumeModeSessionTotal,
	}
}

// Evaluate scores a same-day bar series against the opening range, the
// anchored VWAP and the volume baseline. An empty series is not an error:
// it returns the zero score (no signal yet). Malformed input (unsorted
// bars, negative prices or volume, bar high below its low) is a
// precondition violation and returns a descriptive error instead of a
// misleading score. avgVolume <= 0 means no baseline; the volume flag
// then stays false.
func (s *Scorer) Evaluate(bars []types.Bar, currentPrice, avgVolume float64) (types.SetupScore, error) {
	if len(bars) == 0 {
		return types.SetupScore{Direction: types.DirectionNone}, nil
	}
	if err := validateBars(bars); err != nil {
		return types.SetupScore{}, err
	}
	if currentPrice < 0 {
		return types.SetupScore{}, fmt.Errorf("invalid input: negative current price %.4f", currentPrice)
	}

	openingRange := types.OpeningRange{High: bars[0].High, Low: bars[0].Low}
	vwap := ComputeVWAP(bars)

	direction := types.DirectionNone
	if currentPrice > openingRange.High {
		direction = types.DirectionBullish
	} else if currentPrice < openingRange.Low {
		direction = types.DirectionBearish
	}
	hasBreakout := direction != types.DirectionNone

	vwapConfirmed := false
	if vwap.Valid {
		switch direction {
		case types.DirectionBullish:
			vwapConfirmed = currentPrice > vwap.Value
		case types.DirectionBearish:
			vwapConfirmed = currentPrice < vwap.Value
		}
	}

	volumeConfirmed := s.volumeConfirmed(bars, avgVolume)

	score := 0.0
	if hasBreakout {
		score += BreakoutPoints
		if vwapConfirmed {
			score += VWAPConfirmPoints
		}
		// Volume only counts once a breakout exists; heavy tape with
		// price still inside the range is not a setup.
		if volumeConfirmed {
			score += VolumeConfirmPoints
		}
	}
	score += s.rangeQuality(openingRange)

	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}

	return types.SetupScore{
		Direction:       direction,
		HasBreakout:     hasBreakout,
		VWAPConfirmed:   vwapConfirmed,
		VolumeConfirmed: volumeConfirmed,
		RangeWidth:      openingRange.Width(),
		Score:           score,
	}, nil
}

// rangeQuality maps opening-range width to 0-10. Tighter ranges score
// higher: a clean narrow range produces a cleaner breakout level than a
// wide churny one.
func (s *Scorer) rangeQuality(r types.OpeningRange) float64 {
	ref := s.ReferenceRangeWidth
	if ref <= 0 {
		ref = DefaultReferenceRangeWidth
	}
	widthPct := r.WidthPct()
	if widthPct <= 0 {
		return RangeQualityPoints
	}
	quality := RangeQualityPoints * (ref / widthPct)
	if quality > RangeQualityPoints {
		quality = RangeQualityPoints
	}
	return quality
}

func (s *Scorer) volumeConfirmed(bars []types.Bar, avgVolume float64) bool {
	if avgVolume <= 0 {
		return false
	}
	switch s.VolumeMode {
	case VolumeModeLatestBar:
		return float64(bars[len(bars)-1].Volume) > avgVolume
	default:
		var total float64
		for _, b := range bars {
			total += float64(b.Volume)
		}
		return total > avgVolume
	}
}

func validateBars(bars []types.Bar) error {
	for i, b := range bars {
		if b.Open < 0 || b.High < 0 || b.Low < 0 || b.Close < 0 {
			return fmt.Errorf("invalid input: bar %d has a negative price", i)
		}
		if b.Volume < 0 {
			return fmt.Errorf("invalid input: bar %d has negative volume %d", i, b.Volume)
		}
		if b.High < b.Low {
			return fmt.Errorf("invalid input: bar %d high %.4f below low %.4f", i, b.High, b.Low)
		}
		if i > 0 && !bars[i-1].Timestamp.Before(b.Timestamp) {
			return fmt.Errorf("invalid input: bars not in strictly ascending time order at index %d", i)
		}
	}
	return nil
}
