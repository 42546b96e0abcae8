package switching

import (
	"math"
	"time"

	"cutaway/internal/types"
)

const (
	// preRollMaxFraction caps how much of the preceding shot a pre-rolled
	// cut may consume.
	preRollMaxFraction = 0.30
	// preRollMinRemainder is the floor left of the preceding shot after a
	// pre-rolled cut.
	preRollMinRemainder = 100 * time.Millisecond
)

// ApplyPreRoll shifts every internal cut point earlier so the next speaker's
// camera appears slightly before they start talking. Each boundary moves by
// min(preRoll, 30% of the preceding shot, preceding shot − 100ms), never
// below zero, evaluated left to right against the already-shifted preceding
// duration. Contiguity is preserved: both sides of a boundary move together.
// Empty and single-shot timelines, and preRoll <= 0, pass through unchanged.
func ApplyPreRoll(tl []types.SwitchingInterval, preRoll time.Duration) []types.SwitchingInterval {
	if preRoll <= 0 || len(tl) < 2 {
		return tl
	}
	out := append([]types.SwitchingInterval(nil), tl...)
	for i := 1; i < len(out); i++ {
		prevDur := out[i-1].End - out[i-1].Start
		shift := preRoll
		if limit := time.Duration(math.Round(float64(prevDur) * preRollMaxFraction)); limit < shift {
			shift = limit
		}
		if limit := prevDur - preRollMinRemainder; limit < shift {
			shift = limit
		}
		if shift <= 0 {
			continue
		}
		cut := out[i-1].End - shift
		out[i-1].End = cut
		out[i].Start = cut
	}
	return out
}
