package orb

import (
	"sort"

	"github.com/fazecat/orbwatch/Internal/types"
)

// Rank orders setups best-first: descending score, ties broken by the
// tighter opening range, then by symbol so a rerun over the same inputs
// always yields the same order.
func Rank(setups []types.Setup) {
	sort.SliceStable(setups, func(i, j int) bool {
		a, b := setups[i], setups[j]
		if a.SetupScore.Score != b.SetupScore.Score {
			return a.SetupScore.Score > b.SetupScore.Score
		}
		if a.SetupScore.RangeWidth != b.SetupScore.RangeWidth {
			return a.SetupScore.RangeWidth < b.SetupScore.RangeWidth
		}
		return a.Symbol < b.Symbol
	})
}

// ApplyFilter keeps the setups matching the filter predicates. Order is
// preserved; the input slice is not modified.
func ApplyFilter(setups []types.Setup, f types.ScanFilter) []types.Setup {
	out := make([]types.Setup, 0, len(setups))
	for _, s := range setups {
		if s.SetupScore.Score < f.MinScore {
			continue
		}
		if f.BreakoutOnly && !s.SetupScore.HasBreakout {
			continue
		}
		if f.Direction != "" && f.Direction != types.DirectionNone && s.SetupScore.Direction != f.Direction {
			continue
		}
		if f.VWAPConfirmed && !s.SetupScore.VWAPConfirmed {
			continue
		}
		out = append(out, s)
	}
	return out
}
