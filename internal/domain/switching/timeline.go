package switching

import (
	"sort"
	"time"

	"cutaway/internal/types"
)

// Timeline compiles the resolver's decision over [start,end) into a gapless,
// non-overlapping shot list: the first interval starts at start, the last
// ends at end, and each interval ends where the next begins. Shots shorter
// than the configured minimum are merged away before returning.
//
// Breakpoints are the segment and override boundaries inside the range plus
// the hold-expiry instant of every gap longer than HoldPrevious, so the
// compiled timeline matches pointwise resolution instead of freezing the
// held speaker across an entire long silence.
func (r *Resolver) Timeline(start, end time.Duration) []types.SwitchingInterval {
	if end <= start {
		return nil
	}

	cuts := r.breakpoints(start, end)
	out := make([]types.SwitchingInterval, 0, len(cuts))
	for i := 0; i+1 < len(cuts); i++ {
		lo, hi := cuts[i], cuts[i+1]
		src, _ := r.ActiveAt(probeInstant(lo, hi))
		if n := len(out); n > 0 && out[n-1].Source == src {
			out[n-1].End = hi
			continue
		}
		out = append(out, types.SwitchingInterval{Start: lo, End: hi, Source: src})
	}
	return EnforceMinShot(out, r.opts.MinShot)
}

// probeInstant picks the instant that represents [lo,hi). Sampling a hair
// after lo keeps half-open boundaries honest: an override or hold window
// that closes exactly at lo must not claim the sub-interval that begins
// there.
func probeInstant(lo, hi time.Duration) time.Duration {
	probe := lo + timeEpsilon
	if mid := lo + (hi-lo)/2; probe > mid {
		return mid
	}
	return probe
}

func (r *Resolver) breakpoints(start, end time.Duration) []time.Duration {
	cuts := []time.Duration{start, end}
	add := func(t time.Duration) {
		if t > start && t < end {
			cuts = append(cuts, t)
		}
	}
	for _, p := range r.pieces {
		add(p.Start)
		add(p.End)
	}
	for _, o := range r.overrides {
		add(o.Start)
		add(o.End)
	}
	if hold := r.opts.HoldPrevious; hold > 0 {
		for i, p := range r.pieces {
			expiry := p.End + hold
			if i+1 < len(r.pieces) && r.pieces[i+1].Start <= expiry {
				continue // next speaker arrives before the hold runs out
			}
			add(expiry)
		}
	}

	sort.Slice(cuts, func(i, j int) bool { return cuts[i] < cuts[j] })
	return dedupeCuts(cuts, end)
}

// dedupeCuts drops breakpoints within timeEpsilon of their predecessor,
// keeping the range endpoints exact.
func dedupeCuts(sorted []time.Duration, end time.Duration) []time.Duration {
	out := sorted[:1]
	for _, c := range sorted[1:] {
		if c-out[len(out)-1] <= timeEpsilon {
			continue
		}
		out = append(out, c)
	}
	if len(out) == 1 {
		// Sub-epsilon range: still emit one interval covering it.
		return append(out, end)
	}
	if out[len(out)-1] != end {
		out[len(out)-1] = end
	}
	return out
}

// EnforceMinShot absorbs intervals shorter than min into a neighbor:
// same-source neighbors collapse the blip back into one continuous shot;
// otherwise the short interval extends its predecessor (the shot already on
// air), or its successor when it is first. Runs until stable. A single
// remaining interval is kept whatever its length.
func EnforceMinShot(tl []types.SwitchingInterval, min time.Duration) []types.SwitchingInterval {
	if min <= 0 || len(tl) < 2 {
		return tl
	}
	out := append([]types.SwitchingInterval(nil), tl...)
	for len(out) > 1 {
		i := shortestUnder(out, min)
		if i < 0 {
			break
		}
		switch {
		case i > 0 && i+1 < len(out) && out[i-1].Source == out[i+1].Source:
			out[i-1].End = out[i+1].End
			out = append(out[:i], out[i+2:]...)
		case i == 0:
			out[1].Start = out[0].Start
			out = out[1:]
		default:
			out[i-1].End = out[i].End
			out = append(out[:i], out[i+1:]...)
		}
	}
	return out
}

// shortestUnder returns the index of the shortest interval under min, or -1.
// Absorbing the worst offender first keeps the result independent of scan
// direction.
func shortestUnder(tl []types.SwitchingInterval, min time.Duration) int {
	best := -1
	var bestDur time.Duration
	for i, iv := range tl {
		d := iv.End - iv.Start
		if d >= min {
			continue
		}
		if best < 0 || d < bestDur {
			best, bestDur = i, d
		}
	}
	return best
}

// SourceAt looks up the source on air at t in a compiled timeline,
// O(log shots). ok is false outside the timeline's range and inside blank
// intervals.
func SourceAt(tl []types.SwitchingInterval, t time.Duration) (string, bool) {
	i := sort.Search(len(tl), func(i int) bool { return tl[i].Start > t })
	if i == 0 {
		return "", false
	}
	iv := tl[i-1]
	if t >= iv.End || iv.Source == "" {
		return "", false
	}
	return iv.Source, true
}
