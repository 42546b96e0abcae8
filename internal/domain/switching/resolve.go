// Package switching decides which camera source is on air at any instant of
// a multicam episode, and compiles that decision into a gapless shot list.
//
// Everything here is pure computation over caller-supplied configuration:
// no I/O, no shared state. A Resolver is built once per run from untrusted
// diarization segments and immutable source configuration; afterwards it is
// safe for concurrent readers, serving both a UI scrubber (one lookup per
// tick) and the batch timeline compiler.
package switching

import (
	"sort"
	"time"

	"cutaway/internal/types"
)

// timeEpsilon absorbs floating-point jitter at interval boundaries:
// breakpoints closer together than this collapse into one cut.
const timeEpsilon = time.Millisecond

// Options tunes resolution beyond what the segments say.
type Options struct {
	Overrides     []types.Override
	HoldPrevious  time.Duration // keep the previous speaker on air through gaps up to this long
	DefaultSource string        // shown when nothing else applies; empty = first source by display order
	MinShot       time.Duration // compiled shots shorter than this merge into a neighbor
}

// Resolver answers "which source is on air at t" for one fixed set of
// segments, sources, and options.
type Resolver struct {
	pieces    []types.SpeakerSegment // flattened: disjoint, sorted, latest-start-wins
	sources   []types.VideoSource
	ordered   []types.VideoSource
	overrides []types.Override
	opts      Options
	fallback  map[string]string // unmatched diarization label -> source id
}

// NewResolver normalizes the inputs once: segments are clamped, sorted, and
// flattened into disjoint spans (on overlap the latest-starting segment
// wins), overrides are clamped and sorted, and the order-based label
// fallback of unmatched diarization labels is precomputed.
func NewResolver(segments []types.SpeakerSegment, sources []types.VideoSource, opts Options) *Resolver {
	sorted := normalizeSegments(segments)
	r := &Resolver{
		pieces:    flattenSegments(sorted),
		sources:   sources,
		ordered:   byDisplayOrder(sources),
		overrides: normalizeOverrides(opts.Overrides),
		opts:      opts,
		fallback:  orderFallback(sorted, byDisplayOrder(sources)),
	}
	return r
}

// ActiveAt resolves the active source at t. Resolution order: override
// window, single-source shortcut, containing segment, hold-over of the
// previous speaker through short gaps, then the configured default. ok is
// false only when no source can be shown at all.
func (r *Resolver) ActiveAt(t time.Duration) (string, bool) {
	if id, ok := r.overrideAt(t); ok {
		return id, true
	}
	if len(r.sources) == 1 {
		return r.sources[0].ID, true
	}
	if seg, ok := r.pieceAt(t); ok {
		if id, ok := r.speakerSource(seg); ok {
			return id, true
		}
		return r.defaultSource()
	}
	if r.opts.HoldPrevious > 0 {
		if prev, ok := r.pieceBefore(t); ok && t-prev.End <= r.opts.HoldPrevious {
			if id, ok := r.speakerSource(prev); ok {
				return id, true
			}
		}
	}
	return r.defaultSource()
}

// overrideAt reports the override window containing t, if any. Overrides are
// user-authored and few; on overlap the latest-starting window wins.
func (r *Resolver) overrideAt(t time.Duration) (string, bool) {
	i := sort.Search(len(r.overrides), func(i int) bool { return r.overrides[i].Start > t })
	for j := i - 1; j >= 0; j-- {
		if t < r.overrides[j].End {
			return r.overrides[j].Source, true
		}
	}
	return "", false
}

// pieceAt finds the flattened segment containing t. Pieces are disjoint and
// sorted, so a single binary search suffices.
func (r *Resolver) pieceAt(t time.Duration) (types.SpeakerSegment, bool) {
	i := sort.Search(len(r.pieces), func(i int) bool { return r.pieces[i].Start > t })
	if i == 0 {
		return types.SpeakerSegment{}, false
	}
	if p := r.pieces[i-1]; t < p.End {
		return p, true
	}
	return types.SpeakerSegment{}, false
}

// pieceBefore finds the last flattened segment ending at or before t.
func (r *Resolver) pieceBefore(t time.Duration) (types.SpeakerSegment, bool) {
	i := sort.Search(len(r.pieces), func(i int) bool { return r.pieces[i].End > t })
	if i == 0 {
		return types.SpeakerSegment{}, false
	}
	return r.pieces[i-1], true
}

// speakerSource resolves a segment's speaker to a source id, trying the
// direct matcher first and the order-based fallback mapping second.
func (r *Resolver) speakerSource(seg types.SpeakerSegment) (string, bool) {
	if src, ok := SourceForSpeaker(seg.Label, seg.SpeakerID, r.ordered); ok {
		return src.ID, true
	}
	if id, ok := r.fallback[seg.Label]; ok {
		return id, true
	}
	return "", false
}

func (r *Resolver) defaultSource() (string, bool) {
	if r.opts.DefaultSource != "" {
		return r.opts.DefaultSource, true
	}
	if len(r.ordered) > 0 {
		return r.ordered[0].ID, true
	}
	return "", false
}

// normalizeSegments clamps negative starts to zero, drops zero-length and
// inverted spans, and sorts by start. The input slice stays untouched.
func normalizeSegments(segments []types.SpeakerSegment) []types.SpeakerSegment {
	out := make([]types.SpeakerSegment, 0, len(segments))
	for _, s := range segments {
		if s.Start < 0 {
			s.Start = 0
		}
		if s.End <= s.Start {
			continue
		}
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}

func normalizeOverrides(overrides []types.Override) []types.Override {
	out := make([]types.Override, 0, len(overrides))
	for _, o := range overrides {
		if o.Start < 0 {
			o.Start = 0
		}
		if o.End <= o.Start {
			continue
		}
		out = append(out, o)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}

// flattenSegments rewrites sorted, possibly overlapping segments into
// disjoint spans where the latest-starting segment owns each instant.
// Adjacent spans with the same speaker merge back together, so span
// boundaries are exactly the instants where the winning speaker changes.
func flattenSegments(sorted []types.SpeakerSegment) []types.SpeakerSegment {
	if len(sorted) < 2 {
		return sorted
	}

	cuts := make([]time.Duration, 0, len(sorted)*2)
	for _, s := range sorted {
		cuts = append(cuts, s.Start, s.End)
	}
	sort.Slice(cuts, func(i, j int) bool { return cuts[i] < cuts[j] })

	var out []types.SpeakerSegment
	// Segments arrive in start order, so a plain stack tracks the
	// latest-starting candidate; entries that already ended surface later
	// and are discarded then.
	var stack []types.SpeakerSegment
	next := 0
	for i := 0; i+1 < len(cuts); i++ {
		lo, hi := cuts[i], cuts[i+1]
		if hi == lo {
			continue
		}
		for next < len(sorted) && sorted[next].Start <= lo {
			stack = append(stack, sorted[next])
			next++
		}
		for len(stack) > 0 && stack[len(stack)-1].End <= lo {
			stack = stack[:len(stack)-1]
		}
		if len(stack) == 0 {
			continue
		}
		win := stack[len(stack)-1]
		if n := len(out); n > 0 && out[n-1].End == lo &&
			out[n-1].Label == win.Label && out[n-1].SpeakerID == win.SpeakerID {
			out[n-1].End = hi
			continue
		}
		out = append(out, types.SpeakerSegment{Label: win.Label, SpeakerID: win.SpeakerID, Start: lo, End: hi})
	}
	return out
}

// orderFallback builds the positional mapping used when diarization labels
// match no configured source: the first such label encountered in segment
// order maps to the first unclaimed source by display order, and so on.
// Labels the matcher resolves directly do not take a slot, and the sources
// they resolve to are withheld from the mapping, so a mix of matched and
// generic labels never lands two speakers on one camera. Labels beyond the
// source count stay unmapped.
func orderFallback(sorted []types.SpeakerSegment, ordered []types.VideoSource) map[string]string {
	seen := make(map[string]bool)
	claimed := make(map[string]bool, len(ordered))
	unmatched := make([]string, 0, len(ordered))
	for _, s := range sorted {
		if s.Label == "" || seen[s.Label] {
			continue
		}
		seen[s.Label] = true
		if src, ok := SourceForSpeaker(s.Label, s.SpeakerID, ordered); ok {
			claimed[src.ID] = true
			continue
		}
		unmatched = append(unmatched, s.Label)
	}

	out := make(map[string]string, len(unmatched))
	i := 0
	for _, label := range unmatched {
		for i < len(ordered) && claimed[ordered[i].ID] {
			i++
		}
		if i >= len(ordered) {
			break
		}
		out[label] = ordered[i].ID
		i++
	}
	return out
}
