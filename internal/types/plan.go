package types

import "time"

// CutPlan is the manifest handed to external renderers: the compiled
// switching decision for one clip range plus everything a compositor needs
// to place and seek each source.
type CutPlan struct {
	PlanID         string          `json:"plan_id"`
	Title          string          `json:"title"`
	GeneratedAt    time.Time       `json:"generated_at"`
	StartSec       float64         `json:"start_sec"`
	EndSec         float64         `json:"end_sec"`
	FPS            float64         `json:"fps"`
	Mode           LayoutMode      `json:"layout_mode"`
	AvailableModes []LayoutMode    `json:"available_modes"`
	Timeline       []PlanInterval  `json:"timeline"`
	Frames         []FrameInterval `json:"frames"`
	Shots          []PlanShot      `json:"shots"`
	Sources        []PlanSource    `json:"sources"`
}

// PlanInterval is a SwitchingInterval in wire form (float seconds).
type PlanInterval struct {
	StartSec float64 `json:"start_sec"`
	EndSec   float64 `json:"end_sec"`
	Source   string  `json:"source"`
}

// PlanShot pairs one timeline interval with the full screen layout that
// applies while it is on air.
type PlanShot struct {
	StartSec float64       `json:"start_sec"`
	EndSec   float64       `json:"end_sec"`
	Source   string        `json:"source"`
	Layout   []LayoutEntry `json:"layout"`
}

// PlanSource carries the per-source render hints: where to seek at the
// plan's range start and where to anchor an aspect-ratio crop.
type PlanSource struct {
	ID           string       `json:"id"`
	Label        string       `json:"label"`
	Type         SourceType   `json:"type"`
	SeekSec      float64      `json:"seek_sec"`
	Crop         CropPosition `json:"crop"`
	Media        string       `json:"media,omitempty"`
	Width        int          `json:"width,omitempty"`
	Height       int          `json:"height,omitempty"`
	DisplayOrder int          `json:"display_order"`
}
