package switching

import (
	"math"
	"sort"
	"time"

	"cutaway/internal/types"
)

// ToFrames quantizes a compiled timeline to frame numbers at fps, relative
// to clipStart. Every boundary instant is quantized exactly once (the range
// start by floor, every later boundary by round-half-away-from-zero) and
// adjacent intervals share the quantized boundary, so the result can have no
// gap or overlap by construction. Shots that quantize to zero frames are
// dropped, their span flowing into the neighboring cut; same-source
// neighbors merge. fps must be a positive finite number, otherwise nil.
func ToFrames(tl []types.SwitchingInterval, clipStart time.Duration, fps float64) []types.FrameInterval {
	if len(tl) == 0 || fps <= 0 || math.IsInf(fps, 0) || math.IsNaN(fps) {
		return nil
	}

	cur := int(math.Floor((tl[0].Start - clipStart).Seconds() * fps))
	out := make([]types.FrameInterval, 0, len(tl))
	for _, iv := range tl {
		endF := int(math.Round((iv.End - clipStart).Seconds() * fps))
		if endF <= cur {
			continue
		}
		if n := len(out); n > 0 && out[n-1].Source == iv.Source {
			out[n-1].EndFrame = endF
			cur = endF
			continue
		}
		out = append(out, types.FrameInterval{StartFrame: cur, EndFrame: endF, Source: iv.Source})
		cur = endF
	}
	return out
}

// SourceAtFrame looks up the source on air at a frame number in a quantized
// timeline, O(log shots). ok is false outside the range and inside blanks.
func SourceAtFrame(tl []types.FrameInterval, frame int) (string, bool) {
	i := sort.Search(len(tl), func(i int) bool { return tl[i].StartFrame > frame })
	if i == 0 {
		return "", false
	}
	iv := tl[i-1]
	if frame >= iv.EndFrame || iv.Source == "" {
		return "", false
	}
	return iv.Source, true
}
