package datafeed

import (
	"time"

	"github.com/fazecat/orbwatch/Internal/types"
)

// ResampleTo5Min aggregates 1-minute bars into 5-minute bars aligned to
// the session open: first open, max high, min low, last close, summed
// volume. Input must be oldest first; buckets with no bars are dropped.
// The final bucket may still be forming and will be rebuilt on the next
// poll.
func ResampleTo5Min(bars []types.Bar, sessionOpen time.Time) []types.Bar {
	if len(bars) == 0 {
		return nil
	}

	var out []types.Bar
	var cur *types.Bar
	var curBucket time.Time

	for _, b := range bars {
		if b.Timestamp.Before(sessionOpen) {
			continue
		}
		bucket := sessionOpen.Add(b.Timestamp.Sub(sessionOpen).Truncate(5 * time.Minute))
		if cur == nil || !bucket.Equal(curBucket) {
			if cur != nil {
				out = append(out, *cur)
			}
			nb := types.Bar{
				Timestamp: bucket,
				Open:      b.Open,
				High:      b.High,
				Low:       b.Low,
				Close:     b.Close,
				Volume:    b.Volume,
			}
			cur = &nb
			curBucket = bucket
			continue
		}
		if b.High > cur.High {
			cur.High = b.High
		}
		if b.Low < cur.Low {
			cur.Low = b.Low
		}
		cur.Close = b.Close
		cur.Volume += b.Volume
	}
	if cur != nil {
		out = append(out, *cur)
	}
	return out
}

// ClipToSession drops bars outside [open, close).
func ClipToSession(bars []types.Bar, open, close time.Time) []types.Bar {
	out := make([]types.Bar, 0, len(bars))
	for _, b := range bars {
		if b.Timestamp.Before(open) || !b.Timestamp.Before(close) {
			continue
		}
		out = append(out, b)
	}
	return out
}
