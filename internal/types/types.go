package types

import (
	"fmt"
	"time"
)

// SourceType classifies what a camera feed shows.
type SourceType string

const (
	SourceSpeaker SourceType = "speaker" // a single speaker's camera
	SourceWide    SourceType = "wide"    // a wide/room shot
	SourceBroll   SourceType = "broll"   // cutaway footage, never a layout slot
)

// LayoutMode selects how visible sources are arranged on screen.
type LayoutMode string

const (
	ModeSolo          LayoutMode = "solo"
	ModeActiveSpeaker LayoutMode = "active-speaker"
	ModeSideBySide    LayoutMode = "side-by-side"
	ModeGrid          LayoutMode = "grid"
)

// VideoSource is one configured camera/video feed of an episode.
// Immutable for the duration of a resolution run.
type VideoSource struct {
	ID           string
	Label        string
	Type         SourceType
	PersonID     string
	SyncOffset   time.Duration // signed clock offset vs the reference audio
	CropX        float64       // crop anchor percentages, 0-100
	CropY        float64
	DisplayOrder int
	Width        int // native pixels; 0 = unknown
	Height       int
	Media        string // local media path; adapters only
}

// SeekTime converts an episode-absolute instant into this source's local
// seek time, clamped to zero for sources that started recording late.
func (s VideoSource) SeekTime(abs time.Duration) time.Duration {
	t := abs + s.SyncOffset
	if t < 0 {
		return 0
	}
	return t
}

// SpeakerSegment is one diarization turn. Untrusted input: may arrive
// unsorted, overlapping, or with labels that match no configured source.
type SpeakerSegment struct {
	Label     string
	SpeakerID string
	Start     time.Duration
	End       time.Duration
}

// Override pins a source over a half-open [Start,End) window, beating
// whatever diarization says inside it.
type Override struct {
	Start  time.Duration
	End    time.Duration
	Source string
}

// SwitchingInterval is one shot of a compiled timeline. A compiled timeline
// over [a,b) is gapless: the first interval starts at a, the last ends at b,
// and each interval ends where the next begins. An empty Source means no
// camera is active (renderers show a blank frame).
type SwitchingInterval struct {
	Start  time.Duration
	End    time.Duration
	Source string
}

// FrameInterval is the frame-quantized counterpart of a SwitchingInterval
// at a fixed frame rate. Half-open: [StartFrame,EndFrame).
type FrameInterval struct {
	StartFrame int    `json:"start_frame"`
	EndFrame   int    `json:"end_frame"`
	Source     string `json:"source"`
}

// LayoutEntry places one source on screen. X/Y are percentage center
// coordinates, Width/Height percentages of the canvas. Every configured
// source gets exactly one entry per layout, visible or not.
type LayoutEntry struct {
	Source  string  `json:"source"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Visible bool    `json:"visible"`
	Z       int     `json:"z"`
}

// PipPosition is a user-configured picture-in-picture anchor for one source,
// honored only in active-speaker mode.
type PipPosition struct {
	Source string
	X      float64
	Y      float64
}

// CropPosition is the crop anchor for fitting a source into a different
// aspect ratio, as percentages of the source frame.
type CropPosition struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (c CropPosition) String() string {
	return fmt.Sprintf("%g%% %g%%", c.X, c.Y)
}

// MediaInfo is what a prober reports about a media file.
type MediaInfo struct {
	Width    int
	Height   int
	FPS      float64
	Duration time.Duration
}
