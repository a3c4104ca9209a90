package orb

import (
	"math"
	"testing"
	"time"

	"github.com/fazecat/orbwatch/Internal/types"
)

func makeBar(minuteOffset int, o, h, l, c float64, v int64) types.Bar {
	open := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)
	return types.Bar{
		Timestamp: open.Add(time.Duration(minuteOffset) * time.Minute),
		Open:      o, High: h, Low: l, Close: c, Volume: v,
	}
}

func TestEvaluate_BullishBreakoutFullyConfirmed(t *testing.T) {
	scorer := NewScorer()
	bars := []types.Bar{makeBar(0, 100, 102, 99, 101, 10000)}

	score, err := scorer.Evaluate(bars, 103, 8000)
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}

	if score.Direction != types.DirectionBullish {
		t.Errorf("Direction = %s, want BULLISH", score.Direction)
	}
	if !score.HasBreakout {
		t.Errorf("Expected breakout above ORB high 102 at price 103")
	}
	// VWAP = (102+99+101)/3 = 100.67, price 103 above it
	if !score.VWAPConfirmed {
		t.Errorf("Expected VWAP confirmation (103 > 100.67)")
	}
	if !score.VolumeConfirmed {
		t.Errorf("Expected volume confirmation (10000 > 8000)")
	}
	if score.Score <= 90 || score.Score > 100 {
		t.Errorf("Score = %.2f, want in (90, 100]", score.Score)
	}
}

func TestEvaluate_InsideRangeScoresRangeQualityOnly(t *testing.T) {
	scorer := NewScorer()
	bars := []types.Bar{makeBar(0, 100, 102, 99, 101, 10000)}

	score, err := scorer.Evaluate(bars, 100.5, 8000)
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}

	if score.Direction != types.DirectionNone {
		t.Errorf("Direction = %s, want NONE for price inside range", score.Direction)
	}
	if score.HasBreakout {
		t.Errorf("No breakout expected with price 100.5 inside [99, 102]")
	}
	if score.Score > RangeQualityPoints {
		t.Errorf("Score = %.2f, want <= %.1f (range quality only)", score.Score, RangeQualityPoints)
	}
	// Volume is heavy but must not contribute without a breakout.
	if !score.VolumeConfirmed {
		t.Errorf("Volume flag should still report 10000 > 8000")
	}
}

func TestEvaluate_ZeroVolumeNeverConfirmsVWAP(t *testing.T) {
	scorer := NewScorer()
	bars := []types.Bar{
		makeBar(0, 100, 102, 99, 101, 0),
		makeBar(5, 101, 103, 100, 102, 0),
	}

	score, err := scorer.Evaluate(bars, 104, 8000)
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	if !score.HasBreakout {
		t.Fatalf("Expected breakout at 104 > 102")
	}
	if score.VWAPConfirmed {
		t.Errorf("VWAP is undefined on zero volume, must not confirm")
	}
}

func TestEvaluate_EmptyBarsIsNoSignalNotError(t *testing.T) {
	scorer := NewScorer()
	score, err := scorer.Evaluate(nil, 100, 8000)
	if err != nil {
		t.Fatalf("Empty series must not error, got: %v", err)
	}
	if score.Score != 0 || score.Direction != types.DirectionNone || score.HasBreakout {
		t.Errorf("Empty series should yield the zero score, got %+v", score)
	}
}

func TestEvaluate_IsPure(t *testing.T) {
	scorer := NewScorer()
	bars := []types.Bar{
		makeBar(0, 100, 102, 99, 101, 10000),
		makeBar(5, 101, 104, 101, 103, 12000),
	}

	first, err1 := scorer.Evaluate(bars, 103.5, 8000)
	second, err2 := scorer.Evaluate(bars, 103.5, 8000)
	if err1 != nil || err2 != nil {
		t.Fatalf("Evaluate errored: %v / %v", err1, err2)
	}
	if first != second {
		t.Errorf("Identical inputs produced different scores: %+v vs %+v", first, second)
	}
}

func TestEvaluate_ScoreStaysInBounds(t *testing.T) {
	scorer := NewScorer()
	cases := []struct {
		name         string
		bars         []types.Bar
		currentPrice float64
		avgVolume    float64
	}{
		{"tight range full confirm", []types.Bar{makeBar(0, 100, 100.01, 100, 100.005, 50000)}, 101, 1000},
		{"wide range no confirm", []types.Bar{makeBar(0, 100, 150, 50, 120, 100)}, 100, 0},
		{"bearish break", []types.Bar{makeBar(0, 100, 102, 99, 100, 9000)}, 95, 100},
		{"zero width range", []types.Bar{makeBar(0, 100, 100, 100, 100, 500)}, 100, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			score, err := scorer.Evaluate(tc.bars, tc.currentPrice, tc.avgVolume)
			if err != nil {
				t.Fatalf("Evaluate returned error: %v", err)
			}
			if score.Score < 0 || score.Score > 100 {
				t.Errorf("Score = %.2f out of [0,100]", score.Score)
			}
		})
	}
}

func TestEvaluate_InvalidInputFailsFast(t *testing.T) {
	scorer := NewScorer()
	cases := []struct {
		name         string
		bars         []types.Bar
		currentPrice float64
	}{
		{"unsorted bars", []types.Bar{makeBar(5, 100, 102, 99, 101, 100), makeBar(0, 101, 103, 100, 102, 100)}, 103},
		{"duplicate timestamps", []types.Bar{makeBar(0, 100, 102, 99, 101, 100), makeBar(0, 101, 103, 100, 102, 100)}, 103},
		{"negative price", []types.Bar{makeBar(0, -1, 102, 99, 101, 100)}, 103},
		{"negative volume", []types.Bar{makeBar(0, 100, 102, 99, 101, -5)}, 103},
		{"high below low", []types.Bar{makeBar(0, 100, 98, 99, 101, 100)}, 103},
		{"negative current price", []types.Bar{makeBar(0, 100, 102, 99, 101, 100)}, -10},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := scorer.Evaluate(tc.bars, tc.currentPrice, 8000); err == nil {
				t.Errorf("Expected validation error, got none")
			}
		})
	}
}

func TestEvaluate_VolumeModes(t *testing.T) {
	bars := []types.Bar{
		makeBar(0, 100, 102, 99, 101, 6000),
		makeBar(5, 101, 104, 101, 103, 3000),
	}

	sessionScorer := NewScorer() // default: session_total
	score, err := sessionScorer.Evaluate(bars, 105, 8000)
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	if !score.VolumeConfirmed {
		t.Errorf("Session total 9000 > 8000 should confirm in session_total mode")
	}

	barScorer := NewScorer()
	barScorer.VolumeMode = VolumeModeLatestBar
	score, err = barScorer.Evaluate(bars, 105, 8000)
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	if score.VolumeConfirmed {
		t.Errorf("Latest bar 3000 < 8000 should not confirm in latest_bar mode")
	}
}

func TestEvaluate_NoBaselineMeansNoVolumeConfirmation(t *testing.T) {
	scorer := NewScorer()
	bars := []types.Bar{makeBar(0, 100, 102, 99, 101, 1000000)}
	score, err := scorer.Evaluate(bars, 103, 0)
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	if score.VolumeConfirmed {
		t.Errorf("Missing baseline must leave the volume flag unset")
	}
}

func TestRangeQuality_TighterRangeScoresHigher(t *testing.T) {
	scorer := NewScorer()

	tight := scorer.rangeQuality(types.OpeningRange{High: 100.2, Low: 100}) // 0.2%
	wide := scorer.rangeQuality(types.OpeningRange{High: 103, Low: 100})    // 3%

	if tight <= wide {
		t.Errorf("Tight range quality %.2f should exceed wide range quality %.2f", tight, wide)
	}
	if tight > RangeQualityPoints {
		t.Errorf("Quality %.2f exceeds cap %.1f", tight, RangeQualityPoints)
	}
	zeroWidth := scorer.rangeQuality(types.OpeningRange{High: 100, Low: 100})
	if zeroWidth != RangeQualityPoints {
		t.Errorf("Zero-width range should earn the full %.1f, got %.2f", RangeQualityPoints, zeroWidth)
	}
}

func TestComputeVWAP(t *testing.T) {
	bars := []types.Bar{
		makeBar(0, 100, 102, 99, 101, 10000),
		makeBar(5, 101, 105, 101, 104, 20000),
	}
	vwap := ComputeVWAP(bars)
	if !vwap.Valid {
		t.Fatalf("VWAP should be defined with nonzero volume")
	}
	// (100.6667*10000 + 103.3333*20000) / 30000
	want := (100.0 + (2.0 / 3.0) + 2*(103.0+(1.0/3.0))) / 3.0
	if math.Abs(vwap.Value-want) > 1e-9 {
		t.Errorf("VWAP = %.6f, want %.6f", vwap.Value, want)
	}
}

func TestFindFirstBreakout(t *testing.T) {
	r := types.OpeningRange{High: 102, Low: 99}
	bars := []types.Bar{
		makeBar(0, 100, 102, 99, 101, 100),
		makeBar(5, 101, 101.5, 100.5, 101, 100), // still inside
		makeBar(10, 101, 102.5, 101, 102.2, 100), // breaks high
		makeBar(15, 102, 103, 98, 98.5, 100),     // later break of low ignored
	}

	ev, ok := FindFirstBreakout(bars, r)
	if !ok {
		t.Fatalf("Expected a breakout event")
	}
	if ev.Direction != types.DirectionBullish {
		t.Errorf("Direction = %s, want BULLISH (first break wins)", ev.Direction)
	}
	if ev.Price != 102.5 {
		t.Errorf("Breakout price = %.2f, want 102.5", ev.Price)
	}

	inside := bars[:2]
	if _, ok := FindFirstBreakout(inside, r); ok {
		t.Errorf("No breakout expected while all bars stay inside the range")
	}

	if _, ok := FindFirstBreakout(nil, r); ok {
		t.Errorf("No breakout expected for an empty series")
	}
}
