package config

import (
	"math"
	"strings"
)

// normalize trims identifiers, fills per-element defaults, and clamps
// malformed numerics to their documented ranges. It never fails: anything it
// cannot repair is left for Validate to reject loudly.
func (p *Project) normalize() {
	p.Title = strings.TrimSpace(p.Title)
	p.normalizeSources()
	p.normalizeOverrides()
	p.normalizeSwitching()
	p.normalizeLayout()
	p.normalizeOutput()
}

func (p *Project) normalizeSources() {
	for i := range p.Sources {
		s := &p.Sources[i]
		s.ID = strings.TrimSpace(s.ID)
		s.Label = strings.TrimSpace(s.Label)
		s.Person = strings.TrimSpace(s.Person)
		s.Media = strings.TrimSpace(s.Media)
		s.Type = strings.ToLower(strings.TrimSpace(s.Type))
		if s.Type == "" {
			s.Type = defaultSourceType
		}
		s.CropX = clamp(s.CropX, 0, 100)
		s.CropY = clamp(s.CropY, 0, 100)
		if s.Width < 0 {
			s.Width = 0
		}
		if s.Height < 0 {
			s.Height = 0
		}
	}
}

func (p *Project) normalizeOverrides() {
	for i := range p.Overrides {
		o := &p.Overrides[i]
		o.Source = strings.TrimSpace(o.Source)
		if o.StartSec < 0 || math.IsNaN(o.StartSec) {
			o.StartSec = 0
		}
	}
}

func (p *Project) normalizeSwitching() {
	p.Switching.DefaultSource = strings.TrimSpace(p.Switching.DefaultSource)
	if p.Switching.HoldPreviousMS < 0 {
		p.Switching.HoldPreviousMS = 0
	}
	if p.Switching.MinShotMS < 0 {
		p.Switching.MinShotMS = 0
	}
	if p.Switching.PreRollSec < 0 || math.IsNaN(p.Switching.PreRollSec) {
		p.Switching.PreRollSec = 0
	}
}

func (p *Project) normalizeLayout() {
	p.Layout.Mode = strings.ToLower(strings.TrimSpace(p.Layout.Mode))
	p.Layout.PiPScale = clamp(p.Layout.PiPScale, 0, 1)
	for i := range p.Layout.PiP {
		slot := &p.Layout.PiP[i]
		slot.Source = strings.TrimSpace(slot.Source)
		slot.X = clamp(slot.X, 0, 100)
		slot.Y = clamp(slot.Y, 0, 100)
	}
}

func (p *Project) normalizeOutput() {
	p.Output.AudioSource = strings.TrimSpace(p.Output.AudioSource)
	if p.Output.Width < 0 {
		p.Output.Width = 0
	}
	if p.Output.Height < 0 {
		p.Output.Height = 0
	}
}

func clamp(v, lo, hi float64) float64 {
	switch {
	case math.IsNaN(v):
		return lo
	case v < lo:
		return lo
	case v > hi:
		return hi
	}
	return v
}
