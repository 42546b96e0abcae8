package layout

import (
	"math"
	"testing"

	"cutaway/internal/types"
)

func fourSources() []types.VideoSource {
	return []types.VideoSource{
		{ID: "cam-alice", Label: "Alice", Type: types.SourceSpeaker, DisplayOrder: 0},
		{ID: "cam-bob", Label: "Bob", Type: types.SourceSpeaker, DisplayOrder: 1},
		{ID: "cam-carol", Label: "Carol", Type: types.SourceSpeaker, DisplayOrder: 2},
		{ID: "cam-dave", Label: "Dave", Type: types.SourceSpeaker, DisplayOrder: 3},
	}
}

func entryFor(t *testing.T, entries []types.LayoutEntry, id string) types.LayoutEntry {
	t.Helper()
	for _, e := range entries {
		if e.Source == id {
			return e
		}
	}
	t.Fatalf("no entry for source %q in %+v", id, entries)
	return types.LayoutEntry{}
}

func TestCompute_OneEntryPerSourceAlways(t *testing.T) {
	t.Parallel()

	sources := []types.VideoSource{
		{ID: "cam-alice", Type: types.SourceSpeaker, DisplayOrder: 0},
		{ID: "cam-bob", Type: types.SourceSpeaker, DisplayOrder: 1},
		{ID: "cam-broll", Type: types.SourceBroll, DisplayOrder: 2},
	}
	modes := []types.LayoutMode{
		types.ModeSolo, types.ModeActiveSpeaker, types.ModeSideBySide, types.ModeGrid,
		types.LayoutMode("cinematic"),
	}
	actives := []string{"cam-alice", "cam-broll", "nope", ""}

	for _, mode := range modes {
		for _, active := range actives {
			entries := Compute(sources, active, mode, PiP{})
			if len(entries) != len(sources) {
				t.Fatalf("mode=%s active=%q: expected %d entries, got %d", mode, active, len(sources), len(entries))
			}
			for i, s := range sources {
				if entries[i].Source != s.ID {
					t.Fatalf("mode=%s active=%q: entry %d is %q, expected %q", mode, active, i, entries[i].Source, s.ID)
				}
			}
		}
	}
}

func TestCompute_SoloShowsOnlyActive(t *testing.T) {
	t.Parallel()

	sources := fourSources()
	entries := Compute(sources, "cam-bob", types.ModeSolo, PiP{})

	active := entryFor(t, entries, "cam-bob")
	want := types.LayoutEntry{Source: "cam-bob", X: 50, Y: 50, Width: 100, Height: 100, Visible: true, Z: 1}
	if active != want {
		t.Fatalf("expected %+v, got %+v", want, active)
	}
	for _, id := range []string{"cam-alice", "cam-carol", "cam-dave"} {
		if e := entryFor(t, entries, id); e.Visible {
			t.Fatalf("expected %s hidden, got %+v", id, e)
		}
	}
}

func TestCompute_SoloUnknownActiveHidesAll(t *testing.T) {
	t.Parallel()

	entries := Compute(fourSources(), "cam-ghost", types.ModeSolo, PiP{})
	for _, e := range entries {
		if e.Visible {
			t.Fatalf("expected all entries hidden, got %+v", e)
		}
	}
}

func TestCompute_UnknownModeFallsBackToSolo(t *testing.T) {
	t.Parallel()

	entries := Compute(fourSources(), "cam-alice", types.LayoutMode("cinematic"), PiP{})
	active := entryFor(t, entries, "cam-alice")
	if !active.Visible || active.Width != 100 || active.Height != 100 {
		t.Fatalf("expected full-screen fallback, got %+v", active)
	}
}

func TestCompute_ActiveSpeakerWithPiP(t *testing.T) {
	t.Parallel()

	sources := fourSources()
	pip := PiP{
		Enabled: true,
		Scale:   0.25,
		Positions: []types.PipPosition{
			{Source: "cam-bob", X: 85, Y: 85},
			{Source: "cam-alice", X: 10, Y: 10}, // active: position must be ignored
			{Source: "cam-ghost", X: 50, Y: 50}, // unknown source: dropped
		},
	}
	entries := Compute(sources, "cam-alice", types.ModeActiveSpeaker, pip)

	active := entryFor(t, entries, "cam-alice")
	if !active.Visible || active.Width != 100 || active.Z != 1 {
		t.Fatalf("expected active full screen below insets, got %+v", active)
	}

	inset := entryFor(t, entries, "cam-bob")
	want := types.LayoutEntry{Source: "cam-bob", X: 85, Y: 85, Width: 25, Height: 25, Visible: true, Z: 2}
	if inset != want {
		t.Fatalf("expected %+v, got %+v", want, inset)
	}

	for _, id := range []string{"cam-carol", "cam-dave"} {
		if e := entryFor(t, entries, id); e.Visible {
			t.Fatalf("source %s has no pip position and must stay hidden, got %+v", id, e)
		}
	}
}

func TestCompute_ActiveSpeakerPiPDisabled(t *testing.T) {
	t.Parallel()

	pip := PiP{Enabled: false, Scale: 0.25, Positions: []types.PipPosition{{Source: "cam-bob", X: 85, Y: 85}}}
	entries := Compute(fourSources(), "cam-alice", types.ModeActiveSpeaker, pip)
	if e := entryFor(t, entries, "cam-bob"); e.Visible {
		t.Fatalf("pip disabled: expected cam-bob hidden, got %+v", e)
	}
}

func TestCompute_PiPClampsMalformedNumbers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		scale    float64
		x, y     float64
		wantSize float64
		wantX    float64
		wantY    float64
	}{
		{"oversized scale", 1.5, 85, 85, 100, 85, 85},
		{"negative scale", -0.5, 85, 85, 0, 85, 85},
		{"nan scale", math.NaN(), 85, 85, 0, 85, 85},
		{"offsets beyond canvas", 0.2, 250, -40, 20, 100, 0},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			pip := PiP{Enabled: true, Scale: tt.scale, Positions: []types.PipPosition{{Source: "cam-bob", X: tt.x, Y: tt.y}}}
			entries := Compute(fourSources(), "cam-alice", types.ModeActiveSpeaker, pip)
			e := entryFor(t, entries, "cam-bob")
			if e.Width != tt.wantSize || e.Height != tt.wantSize {
				t.Fatalf("expected size %v, got %vx%v", tt.wantSize, e.Width, e.Height)
			}
			if e.X != tt.wantX || e.Y != tt.wantY {
				t.Fatalf("expected position (%v,%v), got (%v,%v)", tt.wantX, tt.wantY, e.X, e.Y)
			}
		})
	}
}

func TestCompute_SideBySideUsesDisplayOrder(t *testing.T) {
	t.Parallel()

	// Input order deliberately scrambled; display order decides the halves.
	sources := []types.VideoSource{
		{ID: "cam-bob", Type: types.SourceSpeaker, DisplayOrder: 1},
		{ID: "cam-broll", Type: types.SourceBroll, DisplayOrder: 0},
		{ID: "cam-alice", Type: types.SourceSpeaker, DisplayOrder: 0},
	}
	entries := Compute(sources, "cam-bob", types.ModeSideBySide, PiP{})

	left := entryFor(t, entries, "cam-alice")
	if left.X != 25 || left.Y != 50 || left.Width != 50 || left.Height != 100 || !left.Visible {
		t.Fatalf("expected cam-alice on the left half, got %+v", left)
	}
	right := entryFor(t, entries, "cam-bob")
	if right.X != 75 || right.Width != 50 || !right.Visible {
		t.Fatalf("expected cam-bob on the right half, got %+v", right)
	}
	if e := entryFor(t, entries, "cam-broll"); e.Visible {
		t.Fatalf("broll must never take a side-by-side slot, got %+v", e)
	}
}

func TestCompute_SideBySideExtrasStayHidden(t *testing.T) {
	t.Parallel()

	entries := Compute(fourSources(), "cam-alice", types.ModeSideBySide, PiP{})
	for _, id := range []string{"cam-carol", "cam-dave"} {
		if e := entryFor(t, entries, id); e.Visible {
			t.Fatalf("expected %s hidden beyond the two slots, got %+v", id, e)
		}
	}
}

func TestCompute_SideBySideSingleEligibleGoesFullScreen(t *testing.T) {
	t.Parallel()

	sources := []types.VideoSource{
		{ID: "cam-alice", Type: types.SourceSpeaker, DisplayOrder: 0},
		{ID: "cam-broll", Type: types.SourceBroll, DisplayOrder: 1},
	}
	entries := Compute(sources, "cam-broll", types.ModeSideBySide, PiP{})
	only := entryFor(t, entries, "cam-alice")
	if !only.Visible || only.Width != 100 || only.Height != 100 {
		t.Fatalf("expected lone eligible source full screen, got %+v", only)
	}
}

func TestCompute_GridQuadrants(t *testing.T) {
	t.Parallel()

	entries := Compute(fourSources(), "cam-alice", types.ModeGrid, PiP{})

	wants := map[string][2]float64{
		"cam-alice": {25, 25},
		"cam-bob":   {75, 25},
		"cam-carol": {25, 75},
		"cam-dave":  {75, 75},
	}
	for id, pos := range wants {
		e := entryFor(t, entries, id)
		if !e.Visible || e.X != pos[0] || e.Y != pos[1] || e.Width != 50 || e.Height != 50 || e.Z != 1 {
			t.Fatalf("source %s: expected quadrant at (%v,%v), got %+v", id, pos[0], pos[1], e)
		}
	}
}

func TestCompute_GridThreeLeavesEmptyCell(t *testing.T) {
	t.Parallel()

	entries := Compute(fourSources()[:3], "cam-alice", types.ModeGrid, PiP{})

	wants := map[string][2]float64{
		"cam-alice": {25, 25},
		"cam-bob":   {75, 25},
		"cam-carol": {25, 75},
	}
	for id, pos := range wants {
		e := entryFor(t, entries, id)
		if !e.Visible || e.X != pos[0] || e.Y != pos[1] || e.Width != 50 || e.Height != 50 {
			t.Fatalf("source %s: expected cell at (%v,%v), got %+v", id, pos[0], pos[1], e)
		}
	}
}

func TestCompute_GridSingleEligibleGoesFullScreen(t *testing.T) {
	t.Parallel()

	sources := []types.VideoSource{
		{ID: "cam-alice", Type: types.SourceSpeaker, DisplayOrder: 0},
		{ID: "cam-broll", Type: types.SourceBroll, DisplayOrder: 1},
	}
	entries := Compute(sources, "cam-alice", types.ModeGrid, PiP{})
	only := entryFor(t, entries, "cam-alice")
	if !only.Visible || only.Width != 100 {
		t.Fatalf("expected lone eligible source full screen, got %+v", only)
	}
}

func TestAvailableModes_Table(t *testing.T) {
	t.Parallel()

	speaker := func(id string, order int) types.VideoSource {
		return types.VideoSource{ID: id, Type: types.SourceSpeaker, DisplayOrder: order}
	}
	broll := types.VideoSource{ID: "cam-broll", Type: types.SourceBroll, DisplayOrder: 9}

	tests := []struct {
		name    string
		sources []types.VideoSource
		want    []types.LayoutMode
	}{
		{"none", nil, []types.LayoutMode{types.ModeSolo}},
		{"one", []types.VideoSource{speaker("a", 0)}, []types.LayoutMode{types.ModeSolo}},
		{
			"one plus broll",
			[]types.VideoSource{speaker("a", 0), broll},
			[]types.LayoutMode{types.ModeSolo},
		},
		{
			"two",
			[]types.VideoSource{speaker("a", 0), speaker("b", 1)},
			[]types.LayoutMode{types.ModeActiveSpeaker, types.ModeSideBySide, types.ModeSolo},
		},
		{
			"three",
			[]types.VideoSource{speaker("a", 0), speaker("b", 1), speaker("c", 2)},
			[]types.LayoutMode{types.ModeActiveSpeaker, types.ModeSideBySide, types.ModeGrid, types.ModeSolo},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := AvailableModes(tt.sources)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Fatalf("mode %d: expected %s, got %s", i, tt.want[i], got[i])
				}
			}
		})
	}
}
