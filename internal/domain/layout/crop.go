package layout

import (
	"math"

	"cutaway/internal/types"
)

// Aspect ratios closer than this are treated as equal, absorbing float noise
// from dimension probes (1920/1080 vs a configured 1.78).
const aspectMatchEpsilon = 0.01

// CropFor picks the crop anchor used when fitting src into a frame of the
// given target aspect ratio (width over height). A source that already
// matches the target is anchored dead center no matter what offsets say;
// otherwise the operator-configured offsets decide which part survives the
// crop. Unknown dimensions or a malformed target also fall back to the
// configured offsets.
func CropFor(src types.VideoSource, targetAspect float64) types.CropPosition {
	if src.Width > 0 && src.Height > 0 {
		actual := float64(src.Width) / float64(src.Height)
		if math.Abs(actual-targetAspect) < aspectMatchEpsilon {
			return types.CropPosition{X: 50, Y: 50}
		}
	}
	return types.CropPosition{X: clamp(src.CropX, 0, 100), Y: clamp(src.CropY, 0, 100)}
}
