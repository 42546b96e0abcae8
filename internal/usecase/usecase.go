// Package usecase runs the full switching decision for one clip: read
// diarization segments, resolve the active source over the range, compile
// and post-process the shot list, compute per-shot layouts, and assemble the
// cut-plan manifest. Rendering is delegated to the injected renderer.
package usecase

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"cutaway/internal/config"
	"cutaway/internal/domain/layout"
	"cutaway/internal/domain/switching"
	"cutaway/internal/ports"
	"cutaway/internal/types"
)

type Deps struct {
	Segments ports.SegmentReader
	Prober   ports.MediaProber
	Renderer ports.Renderer
}

type Usecase struct{ d Deps }

func New(d Deps) Usecase { return Usecase{d: d} }

type Input struct {
	Project      *config.Project
	SegmentsPath string           // empty = no diarization, resolve from config alone
	Start        time.Duration    // clip range, absolute episode time
	End          time.Duration    // 0 = extend to the last known boundary
	FPS          float64          // 0 = project output fps
	Mode         types.LayoutMode // "" = project mode, else first available
	RenderMode   string           // "" = plan only; "cut" or "compose"
	OutDir       string           // where a render lands
	Logf         func(format string, args ...any)
}

type Result struct {
	Plan       types.CutPlan
	RenderPath string
}

func (u Usecase) Run(ctx context.Context, in Input) (Result, error) {
	logf := in.Logf
	if logf == nil {
		logf = func(string, ...any) {}
	}
	proj := in.Project

	var segments []types.SpeakerSegment
	if in.SegmentsPath != "" {
		var err error
		segments, err = u.d.Segments.ReadSegments(ctx, in.SegmentsPath)
		if err != nil {
			return Result{}, err
		}
		logf("segments: %d rows from %s", len(segments), in.SegmentsPath)
	}

	sources := proj.VideoSources()
	u.probeDimensions(ctx, sources, logf)

	overrides := proj.OverrideWindows()
	end := in.End
	if end <= in.Start {
		end = lastBoundary(segments, overrides)
		if end <= in.Start {
			return Result{}, fmt.Errorf("clip range is empty: no end given and no segment or override to extend to")
		}
		logf("range end derived from inputs: %s", end)
	}

	mode := in.Mode
	if mode == "" {
		mode = proj.Mode()
	}
	available := layout.AvailableModes(sources)
	if mode == "" {
		mode = available[0]
	}
	fps := in.FPS
	if fps <= 0 {
		fps = proj.Output.FPS
	}

	resolver := switching.NewResolver(segments, sources, switching.Options{
		Overrides:     overrides,
		HoldPrevious:  proj.HoldPrevious(),
		DefaultSource: proj.Switching.DefaultSource,
		MinShot:       proj.MinShot(),
	})
	tl := resolver.Timeline(in.Start, end)
	tl = switching.ApplyPreRoll(tl, proj.PreRoll())
	frames := switching.ToFrames(tl, in.Start, fps)
	logf("timeline: %d shots over [%s, %s) at %g fps", len(tl), in.Start, end, fps)

	pip := layout.PiP{
		Enabled:   proj.Layout.PiPEnabled,
		Scale:     proj.Layout.PiPScale,
		Positions: proj.PipPositions(),
	}
	shots := make([]types.PlanShot, 0, len(tl))
	for _, iv := range tl {
		shots = append(shots, types.PlanShot{
			StartSec: iv.Start.Seconds(),
			EndSec:   iv.End.Seconds(),
			Source:   iv.Source,
			Layout:   layout.Compute(sources, iv.Source, mode, pip),
		})
	}

	targetAspect := float64(proj.Output.Width) / float64(proj.Output.Height)
	planSources := make([]types.PlanSource, 0, len(sources))
	for _, s := range sources {
		planSources = append(planSources, types.PlanSource{
			ID:           s.ID,
			Label:        s.Label,
			Type:         s.Type,
			SeekSec:      s.SeekTime(in.Start).Seconds(),
			Crop:         layout.CropFor(s, targetAspect),
			Media:        s.Media,
			Width:        s.Width,
			Height:       s.Height,
			DisplayOrder: s.DisplayOrder,
		})
	}

	plan := types.CutPlan{
		PlanID:         uuid.NewString(),
		Title:          proj.Title,
		GeneratedAt:    time.Now().UTC(),
		StartSec:       in.Start.Seconds(),
		EndSec:         end.Seconds(),
		FPS:            fps,
		Mode:           mode,
		AvailableModes: available,
		Timeline:       toPlanIntervals(tl),
		Frames:         frames,
		Shots:          shots,
		Sources:        planSources,
	}

	res := Result{Plan: plan}
	if in.RenderMode != "" {
		res.RenderPath = filepath.Join(in.OutDir, "render.mp4")
		logf("rendering (%s): %s", in.RenderMode, res.RenderPath)
		err := u.d.Renderer.Render(ctx, ports.RenderRequest{
			Plan:        plan,
			Sources:     sources,
			Mode:        in.RenderMode,
			OutPath:     res.RenderPath,
			Width:       proj.Output.Width,
			Height:      proj.Output.Height,
			AudioSource: audioSource(proj, sources),
		})
		if err != nil {
			return Result{}, err
		}
	}
	return res, nil
}

// probeDimensions fills unknown native dimensions from the media files.
// Best-effort: a plan without dimensions is still valid, so probe failures
// only log.
func (u Usecase) probeDimensions(ctx context.Context, sources []types.VideoSource, logf func(string, ...any)) {
	if u.d.Prober == nil {
		return
	}
	for i := range sources {
		s := &sources[i]
		if s.Media == "" || (s.Width > 0 && s.Height > 0) {
			continue
		}
		info, err := u.d.Prober.Probe(ctx, s.Media)
		if err != nil {
			logf("probe %s: %v (continuing without dimensions)", s.ID, err)
			continue
		}
		s.Width, s.Height = info.Width, info.Height
	}
}

func audioSource(proj *config.Project, sources []types.VideoSource) string {
	if proj.Output.AudioSource != "" {
		return proj.Output.AudioSource
	}
	if len(sources) > 0 {
		return sources[0].ID
	}
	return ""
}

func lastBoundary(segments []types.SpeakerSegment, overrides []types.Override) time.Duration {
	var end time.Duration
	for _, seg := range segments {
		if seg.End > end {
			end = seg.End
		}
	}
	for _, o := range overrides {
		if o.End > end {
			end = o.End
		}
	}
	return end
}

func toPlanIntervals(tl []types.SwitchingInterval) []types.PlanInterval {
	out := make([]types.PlanInterval, 0, len(tl))
	for _, iv := range tl {
		out = append(out, types.PlanInterval{
			StartSec: iv.Start.Seconds(),
			EndSec:   iv.End.Seconds(),
			Source:   iv.Source,
		})
	}
	return out
}
