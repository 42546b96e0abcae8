package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"cutaway/internal/types"
)

// Source is one camera/video feed of the episode.
type Source struct {
	ID           string  `toml:"id" yaml:"id"`
	Label        string  `toml:"label" yaml:"label"`
	Type         string  `toml:"type" yaml:"type"`
	Person       string  `toml:"person" yaml:"person"`
	Media        string  `toml:"media" yaml:"media"`
	SyncOffsetMS int64   `toml:"sync_offset_ms" yaml:"sync_offset_ms"`
	CropX        float64 `toml:"crop_x" yaml:"crop_x"`
	CropY        float64 `toml:"crop_y" yaml:"crop_y"`
	DisplayOrder int     `toml:"display_order" yaml:"display_order"`
	Width        int     `toml:"width" yaml:"width"`
	Height       int     `toml:"height" yaml:"height"`
}

// OverrideRule pins a source over a half-open window of episode time,
// overruling diarization.
type OverrideRule struct {
	StartSec float64 `toml:"start_sec" yaml:"start_sec"`
	EndSec   float64 `toml:"end_sec" yaml:"end_sec"`
	Source   string  `toml:"source" yaml:"source"`
}

// Switching tunes active-source resolution and timeline compilation.
type Switching struct {
	DefaultSource  string  `toml:"default_source" yaml:"default_source"`
	HoldPreviousMS int64   `toml:"hold_previous_ms" yaml:"hold_previous_ms"`
	MinShotMS      int64   `toml:"min_shot_ms" yaml:"min_shot_ms"`
	PreRollSec     float64 `toml:"pre_roll_sec" yaml:"pre_roll_sec"`
}

// Layout selects the visual arrangement and picture-in-picture insets.
type Layout struct {
	Mode       string    `toml:"mode" yaml:"mode"`
	PiPEnabled bool      `toml:"pip_enabled" yaml:"pip_enabled"`
	PiPScale   float64   `toml:"pip_scale" yaml:"pip_scale"`
	PiP        []PiPSlot `toml:"pip" yaml:"pip"`
}

// PiPSlot anchors one source's picture-in-picture inset.
type PiPSlot struct {
	Source string  `toml:"source" yaml:"source"`
	X      float64 `toml:"x" yaml:"x"`
	Y      float64 `toml:"y" yaml:"y"`
}

// Output describes the render target.
type Output struct {
	FPS         float64 `toml:"fps" yaml:"fps"`
	Width       int     `toml:"width" yaml:"width"`
	Height      int     `toml:"height" yaml:"height"`
	AudioSource string  `toml:"audio_source" yaml:"audio_source"`
}

// Project is a fully loaded episode project file.
type Project struct {
	Title     string         `toml:"title" yaml:"title"`
	Sources   []Source       `toml:"sources" yaml:"sources"`
	Overrides []OverrideRule `toml:"overrides" yaml:"overrides"`
	Switching Switching      `toml:"switching" yaml:"switching"`
	Layout    Layout         `toml:"layout" yaml:"layout"`
	Output    Output         `toml:"output" yaml:"output"`
}

// Load parses, normalizes, and validates a project file. The decoder is
// picked by extension: .toml, or .yaml/.yml.
func Load(path string) (*Project, error) {
	p := Default()

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open project: %w", err)
	}
	defer file.Close()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if err := toml.NewDecoder(file).Decode(&p); err != nil {
			return nil, fmt.Errorf("parse project: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.NewDecoder(file).Decode(&p); err != nil {
			return nil, fmt.Errorf("parse project: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported project extension %q (want .toml, .yaml, or .yml)", ext)
	}

	p.normalize()
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// VideoSources converts the configured sources into domain values, with
// millisecond sync offsets expanded to durations.
func (p *Project) VideoSources() []types.VideoSource {
	out := make([]types.VideoSource, 0, len(p.Sources))
	for _, s := range p.Sources {
		out = append(out, types.VideoSource{
			ID:           s.ID,
			Label:        s.Label,
			Type:         types.SourceType(s.Type),
			PersonID:     s.Person,
			SyncOffset:   time.Duration(s.SyncOffsetMS) * time.Millisecond,
			CropX:        s.CropX,
			CropY:        s.CropY,
			DisplayOrder: s.DisplayOrder,
			Width:        s.Width,
			Height:       s.Height,
			Media:        s.Media,
		})
	}
	return out
}

// OverrideWindows converts the configured overrides into domain values.
func (p *Project) OverrideWindows() []types.Override {
	out := make([]types.Override, 0, len(p.Overrides))
	for _, o := range p.Overrides {
		out = append(out, types.Override{
			Start:  secDur(o.StartSec),
			End:    secDur(o.EndSec),
			Source: o.Source,
		})
	}
	return out
}

// PipPositions converts the configured picture-in-picture slots.
func (p *Project) PipPositions() []types.PipPosition {
	out := make([]types.PipPosition, 0, len(p.Layout.PiP))
	for _, slot := range p.Layout.PiP {
		out = append(out, types.PipPosition{Source: slot.Source, X: slot.X, Y: slot.Y})
	}
	return out
}

// HoldPrevious returns the gap hold-over window.
func (p *Project) HoldPrevious() time.Duration {
	return time.Duration(p.Switching.HoldPreviousMS) * time.Millisecond
}

// MinShot returns the minimum compiled shot length.
func (p *Project) MinShot() time.Duration {
	return time.Duration(p.Switching.MinShotMS) * time.Millisecond
}

// PreRoll returns how early a cut anticipates the next speaker.
func (p *Project) PreRoll() time.Duration {
	return secDur(p.Switching.PreRollSec)
}

// Mode returns the configured layout mode, empty when the project defers to
// availability.
func (p *Project) Mode() types.LayoutMode {
	return types.LayoutMode(p.Layout.Mode)
}

func secDur(sec float64) time.Duration {
	return time.Duration(sec * float64(time.Second))
}
