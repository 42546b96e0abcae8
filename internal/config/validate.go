package config

import (
	"errors"
	"fmt"
	"math"
)

// Validate ensures the project is usable. Every rule names the offending key
// so the operator can fix the file without reading code.
func (p *Project) Validate() error {
	if err := p.validateSources(); err != nil {
		return err
	}
	if err := p.validateOverrides(); err != nil {
		return err
	}
	if err := p.validateSwitching(); err != nil {
		return err
	}
	if err := p.validateLayout(); err != nil {
		return err
	}
	return p.validateOutput()
}

func (p *Project) validateSources() error {
	if len(p.Sources) == 0 {
		return errors.New("project must define at least one source")
	}
	seen := make(map[string]struct{}, len(p.Sources))
	for i, s := range p.Sources {
		if s.ID == "" {
			return fmt.Errorf("sources[%d]: id must be set", i)
		}
		if _, dup := seen[s.ID]; dup {
			return fmt.Errorf("sources[%d]: duplicate id %q", i, s.ID)
		}
		seen[s.ID] = struct{}{}
		switch s.Type {
		case "speaker", "wide", "broll":
		default:
			return fmt.Errorf("sources[%d]: unknown type %q (want speaker, wide, or broll)", i, s.Type)
		}
	}
	return nil
}

func (p *Project) validateOverrides() error {
	for i, o := range p.Overrides {
		if o.Source == "" {
			return fmt.Errorf("overrides[%d]: source must be set", i)
		}
		if !p.hasSource(o.Source) {
			return fmt.Errorf("overrides[%d]: unknown source %q", i, o.Source)
		}
		if math.IsNaN(o.EndSec) || o.EndSec <= o.StartSec {
			return fmt.Errorf("overrides[%d]: end_sec must be greater than start_sec", i)
		}
	}
	return nil
}

func (p *Project) validateSwitching() error {
	if s := p.Switching.DefaultSource; s != "" && !p.hasSource(s) {
		return fmt.Errorf("switching.default_source: unknown source %q", s)
	}
	return nil
}

func (p *Project) validateLayout() error {
	switch p.Layout.Mode {
	case "", "solo", "active-speaker", "side-by-side", "grid":
	default:
		return fmt.Errorf("layout.mode: unknown mode %q", p.Layout.Mode)
	}
	for i, slot := range p.Layout.PiP {
		if slot.Source == "" {
			return fmt.Errorf("layout.pip[%d]: source must be set", i)
		}
		if !p.hasSource(slot.Source) {
			return fmt.Errorf("layout.pip[%d]: unknown source %q", i, slot.Source)
		}
	}
	return nil
}

func (p *Project) validateOutput() error {
	if fps := p.Output.FPS; fps <= 0 || math.IsNaN(fps) || math.IsInf(fps, 0) {
		return fmt.Errorf("output.fps must be a positive number, got %v", p.Output.FPS)
	}
	if p.Output.Width == 0 || p.Output.Height == 0 {
		return errors.New("output.width and output.height must be positive")
	}
	if s := p.Output.AudioSource; s != "" && !p.hasSource(s) {
		return fmt.Errorf("output.audio_source: unknown source %q", s)
	}
	return nil
}

func (p *Project) hasSource(id string) bool {
	for _, s := range p.Sources {
		if s.ID == id {
			return true
		}
	}
	return false
}
