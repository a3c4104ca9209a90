package orb

import (
	"time"

	"github.com/fazecat/orbwatch/Internal/types"
)

// Breakout positions relative to the opening range.
const (
	PositionAboveHigh   = "ABOVE_HIGH"
	PositionInsideRange = "INSIDE_RANGE"
	PositionBelowLow    = "BELOW_LOW"
)

// BreakoutEvent is the first post-opening-range bar that traded through
// the range, if any.
type BreakoutEvent struct {
	Direction types.Direction
	Time      time.Time
	Price     float64
}

// FindFirstBreakout scans the bars after the opening-range bar for the
// first one whose high cleared the range high or whose low undercut the
// range low. A bullish break found earlier in the session wins over a
// later bearish one and vice versa. An empty series has no breakout.
func FindFirstBreakout(bars []types.Bar, r types.OpeningRange) (BreakoutEvent, bool) {
	if len(bars) == 0 {
		return BreakoutEvent{}, false
	}
	for _, b := range bars[1:] {
		if b.High > r.High {
			return BreakoutEvent{Direction: types.DirectionBullish, Time: b.Timestamp, Price: b.High}, true
		}
		if b.Low < r.Low {
			return BreakoutEvent{Direction: types.DirectionBearish, Time: b.Timestamp, Price: b.Low}, true
		}
	}
	return BreakoutEvent{}, false
}

// ClassifyPosition places the current price relative to the range.
func ClassifyPosition(currentPrice float64, r types.OpeningRange) string {
	switch {
	case currentPrice > r.High:
		return PositionAboveHigh
	case currentPrice < r.Low:
		return PositionBelowLow
	default:
		return PositionInsideRange
	}
}

// DistancePct returns the percentage distance of price from a level,
// signed: positive means price above the level.
func DistancePct(price, level float64) float64 {
	if level <= 0 {
		return 0
	}
	return (price - level) / level * 100
}
