package switching

import (
	"testing"
	"time"

	"cutaway/internal/types"
)

func dur(sec float64) time.Duration { return time.Duration(sec * float64(time.Second)) }

func seg(label string, start, end float64) types.SpeakerSegment {
	return types.SpeakerSegment{Label: label, Start: dur(start), End: dur(end)}
}

func testSources() []types.VideoSource {
	return []types.VideoSource{
		{ID: "cam-alice", Label: "Alice", Type: types.SourceSpeaker, PersonID: "spk-0", DisplayOrder: 0},
		{ID: "cam-bob", Label: "Bob", Type: types.SourceSpeaker, PersonID: "spk-1", DisplayOrder: 1},
		{ID: "cam-wide", Label: "Wide", Type: types.SourceWide, DisplayOrder: 2},
	}
}

func TestActiveAt_SegmentsAndDefault(t *testing.T) {
	t.Parallel()

	r := NewResolver([]types.SpeakerSegment{
		seg("Alice", 1, 10),
		seg("Bob", 12, 20),
	}, testSources(), Options{DefaultSource: "cam-wide"})

	tests := []struct {
		name   string
		at     float64
		wantID string
	}{
		{"before any speech", 0.5, "cam-wide"},
		{"inside first segment", 5, "cam-alice"},
		{"start is inclusive", 1, "cam-alice"},
		{"end is exclusive", 10, "cam-wide"},
		{"inside second segment", 15, "cam-bob"},
		{"after all speech", 25, "cam-wide"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			id, ok := r.ActiveAt(dur(tt.at))
			if !ok || id != tt.wantID {
				t.Fatalf("at %vs: expected %q, got %q ok=%v", tt.at, tt.wantID, id, ok)
			}
		})
	}
}

func TestActiveAt_OverrideWins(t *testing.T) {
	t.Parallel()

	r := NewResolver(
		[]types.SpeakerSegment{seg("Alice", 0, 60)},
		testSources(),
		Options{
			Overrides: []types.Override{
				{Start: dur(30), End: dur(45), Source: "cam-wide"},
			},
			DefaultSource: "cam-alice",
		},
	)

	if id, _ := r.ActiveAt(dur(29)); id != "cam-alice" {
		t.Fatalf("before override: expected cam-alice, got %q", id)
	}
	if id, _ := r.ActiveAt(dur(30)); id != "cam-wide" {
		t.Fatalf("override start should be inclusive, got %q", id)
	}
	if id, _ := r.ActiveAt(dur(44)); id != "cam-wide" {
		t.Fatalf("inside override: expected cam-wide, got %q", id)
	}
	if id, _ := r.ActiveAt(dur(45)); id != "cam-alice" {
		t.Fatalf("override end should be exclusive, got %q", id)
	}
}

func TestActiveAt_LatestOverrideWinsOnOverlap(t *testing.T) {
	t.Parallel()

	r := NewResolver(nil, testSources(), Options{
		Overrides: []types.Override{
			{Start: dur(0), End: dur(20), Source: "cam-alice"},
			{Start: dur(5), End: dur(10), Source: "cam-bob"},
		},
	})

	if id, _ := r.ActiveAt(dur(7)); id != "cam-bob" {
		t.Fatalf("expected latest-starting override cam-bob, got %q", id)
	}
	if id, _ := r.ActiveAt(dur(12)); id != "cam-alice" {
		t.Fatalf("after inner override ends, expected cam-alice, got %q", id)
	}
}

func TestActiveAt_SingleSourceAlwaysOn(t *testing.T) {
	t.Parallel()

	only := []types.VideoSource{{ID: "cam-solo", Label: "Host", Type: types.SourceSpeaker}}
	r := NewResolver([]types.SpeakerSegment{seg("SPEAKER_03", 5, 6)}, only, Options{})

	for _, at := range []float64{0, 3, 5.5, 100} {
		if id, ok := r.ActiveAt(dur(at)); !ok || id != "cam-solo" {
			t.Fatalf("at %vs: expected cam-solo, got %q ok=%v", at, id, ok)
		}
	}
}

func TestActiveAt_HoldThroughShortGap(t *testing.T) {
	t.Parallel()

	r := NewResolver([]types.SpeakerSegment{
		seg("Alice", 0, 10),
		seg("Bob", 12, 20),
	}, testSources(), Options{
		HoldPrevious:  1500 * time.Millisecond,
		DefaultSource: "cam-wide",
	})

	if id, _ := r.ActiveAt(dur(10.5)); id != "cam-alice" {
		t.Fatalf("0.5s into the gap: expected held cam-alice, got %q", id)
	}
	if id, _ := r.ActiveAt(dur(11.5)); id != "cam-alice" {
		t.Fatalf("hold window boundary is inclusive: expected cam-alice, got %q", id)
	}
	if id, _ := r.ActiveAt(dur(11.8)); id != "cam-wide" {
		t.Fatalf("1.8s into the gap: expected default cam-wide, got %q", id)
	}
}

func TestActiveAt_ZeroHoldSwitchesAtSegmentEnd(t *testing.T) {
	t.Parallel()

	segs := []types.SpeakerSegment{seg("Alice", 0, 10)}

	r := NewResolver(segs, testSources(), Options{DefaultSource: "cam-wide"})
	if id, _ := r.ActiveAt(dur(10)); id != "cam-wide" {
		t.Fatalf("without a hold window the default takes over at segment end, got %q", id)
	}

	held := NewResolver(segs, testSources(), Options{
		HoldPrevious:  2 * time.Second,
		DefaultSource: "cam-wide",
	})
	if id, _ := held.ActiveAt(dur(12)); id != "cam-alice" {
		t.Fatalf("hold window boundary stays inclusive, got %q", id)
	}
}

func TestActiveAt_OrderFallbackForUnknownLabels(t *testing.T) {
	t.Parallel()

	r := NewResolver([]types.SpeakerSegment{
		seg("SPEAKER_00", 0, 5),
		seg("SPEAKER_01", 5, 10),
		seg("SPEAKER_00", 10, 15),
	}, testSources(), Options{})

	if id, _ := r.ActiveAt(dur(2)); id != "cam-alice" {
		t.Fatalf("first unknown label should map to first source, got %q", id)
	}
	if id, _ := r.ActiveAt(dur(7)); id != "cam-bob" {
		t.Fatalf("second unknown label should map to second source, got %q", id)
	}
	if id, _ := r.ActiveAt(dur(12)); id != "cam-alice" {
		t.Fatalf("repeated label should keep its mapping, got %q", id)
	}
}

func TestActiveAt_OrderFallbackSkipsMatchedLabelsAndTheirSources(t *testing.T) {
	t.Parallel()

	// "Bob" resolves by label match and claims cam-bob, so the generic
	// label must land on cam-alice instead of doubling up on cam-bob.
	r := NewResolver([]types.SpeakerSegment{
		seg("Bob", 0, 5),
		seg("SPEAKER_01", 5, 10),
	}, testSources(), Options{})

	if id, _ := r.ActiveAt(dur(2)); id != "cam-bob" {
		t.Fatalf("matched label should keep its own source, got %q", id)
	}
	if id, _ := r.ActiveAt(dur(7)); id != "cam-alice" {
		t.Fatalf("unknown label should take the first unclaimed source, got %q", id)
	}
}

func TestActiveAt_UnsortedOverlappingSegments(t *testing.T) {
	t.Parallel()

	r := NewResolver([]types.SpeakerSegment{
		seg("Bob", 4, 8),
		seg("Alice", 0, 10),
	}, testSources(), Options{DefaultSource: "cam-wide"})

	if id, _ := r.ActiveAt(dur(2)); id != "cam-alice" {
		t.Fatalf("before overlap: expected cam-alice, got %q", id)
	}
	if id, _ := r.ActiveAt(dur(6)); id != "cam-bob" {
		t.Fatalf("inside overlap the later-starting segment wins, got %q", id)
	}
	if id, _ := r.ActiveAt(dur(9)); id != "cam-alice" {
		t.Fatalf("after the interrupting segment ends, expected cam-alice, got %q", id)
	}
}

func TestNewResolver_ClampsMalformedSegments(t *testing.T) {
	t.Parallel()

	// Negative start clamps to zero; zero-length and inverted spans drop.
	r := NewResolver([]types.SpeakerSegment{
		seg("Alice", -5, 3),
		seg("Bob", 7, 7),
		seg("Bob", 9, 4),
		seg("Bob", 4, 6),
	}, testSources(), Options{DefaultSource: "cam-wide"})

	if id, _ := r.ActiveAt(0); id != "cam-alice" {
		t.Fatalf("clamped segment should be active at zero, got %q", id)
	}
	if id, _ := r.ActiveAt(dur(5)); id != "cam-bob" {
		t.Fatalf("valid segment should survive, got %q", id)
	}
	if id, _ := r.ActiveAt(dur(8)); id != "cam-wide" {
		t.Fatalf("dropped segments should leave the default, got %q", id)
	}
}

func TestActiveAt_NoSources(t *testing.T) {
	t.Parallel()

	r := NewResolver([]types.SpeakerSegment{seg("Alice", 0, 10)}, nil, Options{})
	if id, ok := r.ActiveAt(dur(5)); ok || id != "" {
		t.Fatalf("expected no source, got %q ok=%v", id, ok)
	}
}

func TestActiveAt_DefaultFallsBackToFirstByDisplayOrder(t *testing.T) {
	t.Parallel()

	sources := []types.VideoSource{
		{ID: "cam-b", Label: "B", Type: types.SourceSpeaker, DisplayOrder: 2},
		{ID: "cam-a", Label: "A", Type: types.SourceSpeaker, DisplayOrder: 1},
	}
	r := NewResolver(nil, sources, Options{})
	if id, ok := r.ActiveAt(dur(1)); !ok || id != "cam-a" {
		t.Fatalf("expected first source by display order, got %q ok=%v", id, ok)
	}
}
