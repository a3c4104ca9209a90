package types

import "time"

type Bar struct {
	Timestamp time.Time `json:"t"`
	Open      float64   `json:"o"`
	High      float64   `json:"h"`
	Low       float64   `json:"l"`
	Close     float64   `json:"c"`
	Volume    int64     `json:"v"`
}

// Direction of an opening-range breakout.
type Direction string

const (
	DirectionNone    Direction = "NONE"
	DirectionBullish Direction = "BULLISH"
	DirectionBearish Direction = "BEARISH"
)

// OpeningRange is the high/low of the session's first 5-minute bar,
// frozen once that bar exists. Invariant: High >= Low.
type OpeningRange struct {
	High float64 `json:"high"`
	Low  float64 `json:"low"`
}

func (r OpeningRange) Width() float64 {
	return r.High - r.Low
}

// WidthPct is the range width as a fraction of the range low.
func (r OpeningRange) WidthPct() float64 {
	if r.Low <= 0 {
		return 0
	}
	return (r.High - r.Low) / r.Low
}

// SetupScore is one evaluation result. It carries no identity across
// calls; every evaluation builds a fresh value.
type SetupScore struct {
	Direction       Direction `json:"direction"`
	HasBreakout     bool      `json:"has_breakout"`
	VWAPConfirmed   bool      `json:"vwap_confirmed"`
	VolumeConfirmed bool      `json:"volume_confirmed"`
	RangeWidth      float64   `json:"range_width"`
	Score           float64   `json:"score"`
}

// Setup is a scored symbol plus the context the scanner gathers around
// the core score: position relative to the range and VWAP, and the first
// breakout bar if one printed.
type Setup struct {
	Symbol       string     `json:"symbol"`
	SetupScore   SetupScore `json:"setup_score"`
	ORHigh       float64    `json:"orb_high"`
	ORLow        float64    `json:"orb_low"`
	ORRangePct   float64    `json:"orb_range_pct"`
	CurrentPrice float64    `json:"current_price"`
	VWAP         float64    `json:"vwap"`
	VWAPDistPct  float64    `json:"vwap_distance_pct"`
	Position     string     `json:"position"` // ABOVE_HIGH / INSIDE_RANGE / BELOW_LOW
	DistFromHigh float64    `json:"distance_from_high_pct"`
	DistFromLow  float64    `json:"distance_from_low_pct"`
	BreakoutTime time.Time  `json:"breakout_time"`
	BreakoutBar  float64    `json:"breakout_price,omitempty"`
	VolumeRatio  float64    `json:"volume_ratio"`
	BarCount     int        `json:"bar_count"`
	LastUpdate   time.Time  `json:"last_update"`
}

// ScanFilter narrows a ranked setup list. Filtering is post-processing
// over already-scored setups, never part of scoring itself.
type ScanFilter struct {
	MinScore      float64
	BreakoutOnly  bool
	Direction     Direction // DirectionNone means any
	VWAPConfirmed bool
}
