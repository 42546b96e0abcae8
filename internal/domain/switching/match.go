package switching

import (
	"sort"
	"strings"

	"cutaway/internal/types"
)

// SourceForSpeaker maps a diarization identity to a configured source.
// Resolution order, first match wins:
//  1. speakerID against PersonID when a speaker id is known.
//  2. case-insensitive exact match of label against source labels.
//
// Within each rule, speaker-type sources beat wide/broll when several match,
// and display order breaks remaining ties. No match is a normal outcome
// reported via ok=false; the resolver's fallback chain handles it.
func SourceForSpeaker(label, speakerID string, sources []types.VideoSource) (types.VideoSource, bool) {
	ordered := byDisplayOrder(sources)
	if speakerID != "" {
		if src, ok := firstMatch(ordered, func(s types.VideoSource) bool {
			return s.PersonID != "" && s.PersonID == speakerID
		}); ok {
			return src, true
		}
	}
	if label != "" {
		if src, ok := firstMatch(ordered, func(s types.VideoSource) bool {
			return strings.EqualFold(s.Label, label)
		}); ok {
			return src, true
		}
	}
	return types.VideoSource{}, false
}

func firstMatch(ordered []types.VideoSource, match func(types.VideoSource) bool) (types.VideoSource, bool) {
	var first types.VideoSource
	found := false
	for _, s := range ordered {
		if !match(s) {
			continue
		}
		if s.Type == types.SourceSpeaker {
			return s, true
		}
		if !found {
			first = s
			found = true
		}
	}
	return first, found
}

// byDisplayOrder returns a sorted copy; callers' slices stay untouched.
func byDisplayOrder(sources []types.VideoSource) []types.VideoSource {
	out := make([]types.VideoSource, len(sources))
	copy(out, sources)
	sort.SliceStable(out, func(i, j int) bool { return out[i].DisplayOrder < out[j].DisplayOrder })
	return out
}
