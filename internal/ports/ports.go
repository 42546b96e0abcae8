package ports

import (
	"context"

	"cutaway/internal/types"
)

// SegmentReader produces speaker segments from a diarization artifact.
type SegmentReader interface {
	ReadSegments(ctx context.Context, path string) ([]types.SpeakerSegment, error)
}

// MediaProber reports stream properties of a local media file.
type MediaProber interface {
	Probe(ctx context.Context, path string) (types.MediaInfo, error)
}

// RenderRequest carries everything a renderer needs to realize a plan.
// Mode is "cut" or "compose", Width and Height are the output canvas in
// pixels, and AudioSource names the source supplying the reference audio
// track.
type RenderRequest struct {
	Plan        types.CutPlan
	Sources     []types.VideoSource
	Mode        string
	OutPath     string
	Width       int
	Height      int
	AudioSource string
}

// Renderer realizes a cut plan into an output file.
type Renderer interface {
	Render(ctx context.Context, req RenderRequest) error
}
