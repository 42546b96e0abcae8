// Package layout maps an active source and a visual mode onto per-source
// screen rectangles, visibility, and stacking order, plus the aspect-ratio
// crop anchor. Coordinates are percentages of the output canvas with X/Y at
// rectangle centers, matching what compositors and browser previews consume.
//
// Every function here is total: degenerate source counts, unknown modes, and
// malformed numerics degrade to a defined layout instead of failing, because
// a misconfigured episode must still render something.
package layout

import (
	"math"
	"sort"

	"cutaway/internal/types"
)

// PiP configures picture-in-picture insets, honored in active-speaker mode.
type PiP struct {
	Enabled   bool
	Scale     float64 // inset size as a fraction of the full screen, clamped to [0,1]
	Positions []types.PipPosition
}

// Compute places every configured source for one instant. The result always
// holds exactly one entry per source, hidden entries included, so consumers
// never need an existence check.
func Compute(sources []types.VideoSource, activeID string, mode types.LayoutMode, pip PiP) []types.LayoutEntry {
	entries := make([]types.LayoutEntry, len(sources))
	index := make(map[string]int, len(sources))
	for i, s := range sources {
		entries[i] = types.LayoutEntry{Source: s.ID}
		index[s.ID] = i
	}

	switch mode {
	case types.ModeActiveSpeaker:
		fullScreen(entries, index, activeID)
		if !pip.Enabled {
			break
		}
		size := clamp(pip.Scale, 0, 1) * 100
		for _, p := range pip.Positions {
			i, ok := index[p.Source]
			if !ok || p.Source == activeID {
				continue // the active source is already full screen
			}
			entries[i] = types.LayoutEntry{
				Source:  p.Source,
				X:       clamp(p.X, 0, 100),
				Y:       clamp(p.Y, 0, 100),
				Width:   size,
				Height:  size,
				Visible: true,
				Z:       2, // always above the full-screen layer
			}
		}
	case types.ModeSideBySide:
		slots := sortedNonBroll(sources)
		if len(slots) == 1 {
			fullScreen(entries, index, slots[0].ID)
			break
		}
		xs := [...]float64{25, 75}
		for k, s := range slots {
			if k >= len(xs) {
				break // extra sources stay hidden
			}
			entries[index[s.ID]] = types.LayoutEntry{
				Source: s.ID, X: xs[k], Y: 50, Width: 50, Height: 100, Visible: true, Z: 1,
			}
		}
	case types.ModeGrid:
		slots := sortedNonBroll(sources)
		if len(slots) == 1 {
			fullScreen(entries, index, slots[0].ID)
			break
		}
		cols := int(math.Ceil(math.Sqrt(float64(len(slots)))))
		if cols < 1 {
			break
		}
		rows := (len(slots) + cols - 1) / cols
		cellW := 100 / float64(cols)
		cellH := 100 / float64(rows)
		for k, s := range slots {
			col := k % cols
			row := k / cols
			entries[index[s.ID]] = types.LayoutEntry{
				Source:  s.ID,
				X:       (float64(col) + 0.5) * cellW,
				Y:       (float64(row) + 0.5) * cellH,
				Width:   cellW,
				Height:  cellH,
				Visible: true,
				Z:       1,
			}
		}
	default:
		// solo, and any unknown mode degrades to it
		fullScreen(entries, index, activeID)
	}
	return entries
}

// AvailableModes reports which layout modes are legal to offer for the
// configured sources. Broll never counts toward a slot and never unlocks a
// mode.
func AvailableModes(sources []types.VideoSource) []types.LayoutMode {
	n := 0
	for _, s := range sources {
		if s.Type != types.SourceBroll {
			n++
		}
	}
	switch {
	case n <= 1:
		return []types.LayoutMode{types.ModeSolo}
	case n == 2:
		return []types.LayoutMode{types.ModeActiveSpeaker, types.ModeSideBySide, types.ModeSolo}
	default:
		return []types.LayoutMode{types.ModeActiveSpeaker, types.ModeSideBySide, types.ModeGrid, types.ModeSolo}
	}
}

func fullScreen(entries []types.LayoutEntry, index map[string]int, activeID string) {
	i, ok := index[activeID]
	if !ok {
		return // no active source: everything stays hidden, renderers show blank
	}
	entries[i] = types.LayoutEntry{
		Source: activeID, X: 50, Y: 50, Width: 100, Height: 100, Visible: true, Z: 1,
	}
}

func sortedNonBroll(sources []types.VideoSource) []types.VideoSource {
	out := make([]types.VideoSource, 0, len(sources))
	for _, s := range sources {
		if s.Type != types.SourceBroll {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DisplayOrder < out[j].DisplayOrder })
	return out
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
