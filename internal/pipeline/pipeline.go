// Package pipeline wires the adapters to the usecase for one end-to-end run:
// load the project, read segments, compile the plan, write the manifest into
// a per-run output directory, and optionally render.
package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"cutaway/internal/config"
	"cutaway/internal/ports"
	"cutaway/internal/ports/adapters/ffmpeg"
	"cutaway/internal/ports/adapters/segmentfile"
	"cutaway/internal/types"
	"cutaway/internal/usecase"
)

type Config struct {
	ProjectPath  string
	SegmentsPath string // optional: no diarization means config-only resolution
	OutDir       string
	Start        time.Duration
	End          time.Duration // 0 = extend to the last segment/override
	FPS          float64       // 0 = project output fps
	Mode         string        // "" = project/availability default
	Render       bool
	RenderMode   string // cut | compose; empty defaults to cut
	FFmpegPath   string
	FFprobePath  string
	Logf         func(format string, args ...any)
}

func (c Config) Validate() error {
	if c.ProjectPath == "" {
		return errors.New("project path is empty")
	}
	if _, err := os.Stat(c.ProjectPath); err != nil {
		return fmt.Errorf("stat project: %w", err)
	}
	if c.SegmentsPath != "" {
		if _, err := os.Stat(c.SegmentsPath); err != nil {
			return fmt.Errorf("stat segments: %w", err)
		}
	}
	if c.Start < 0 {
		return fmt.Errorf("start must be >= 0")
	}
	if c.End != 0 && c.End <= c.Start {
		return fmt.Errorf("end must be after start")
	}
	switch types.LayoutMode(c.Mode) {
	case "", types.ModeSolo, types.ModeActiveSpeaker, types.ModeSideBySide, types.ModeGrid:
	default:
		return fmt.Errorf("unknown layout mode %q", c.Mode)
	}
	switch c.RenderMode {
	case "", "cut", "compose":
	default:
		return fmt.Errorf("unknown render mode %q (want cut or compose)", c.RenderMode)
	}
	return nil
}

// Result reports where the run's artifacts landed.
type Result struct {
	Plan         types.CutPlan
	RunDir       string
	ManifestPath string
	RenderPath   string
}

func Run(ctx context.Context, cfg Config) (Result, error) {
	logf := cfg.Logf
	if logf == nil {
		logf = func(string, ...any) {}
	}

	proj, err := config.Load(cfg.ProjectPath)
	if err != nil {
		return Result{}, err
	}
	logf("project: %s (%d sources)", cfg.ProjectPath, len(proj.Sources))

	uc := usecase.New(usecase.Deps{
		Segments: segmentfile.New(),
		Prober:   ffmpeg.New(cfg.FFmpegPath, cfg.FFprobePath),
		Renderer: ffmpeg.New(cfg.FFmpegPath, cfg.FFprobePath),
	})

	outDir := cfg.OutDir
	if outDir == "" {
		outDir = "out"
	}
	runName := proj.Title
	if runName == "" {
		runName = strings.TrimSuffix(filepath.Base(cfg.ProjectPath), filepath.Ext(cfg.ProjectPath))
	}
	runDir := buildRunDir(outDir, runName, time.Now().UTC())
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return Result{}, err
	}
	logf("output run dir: %s", runDir)

	renderMode := ""
	if cfg.Render {
		renderMode = cfg.RenderMode
		if renderMode == "" {
			renderMode = "cut"
		}
	}

	res, err := uc.Run(ctx, usecase.Input{
		Project:      proj,
		SegmentsPath: cfg.SegmentsPath,
		Start:        cfg.Start,
		End:          cfg.End,
		FPS:          cfg.FPS,
		Mode:         types.LayoutMode(cfg.Mode),
		RenderMode:   renderMode,
		OutDir:       runDir,
		Logf:         logf,
	})
	if err != nil {
		return Result{}, err
	}

	b, err := json.MarshalIndent(res.Plan, "", "  ")
	if err != nil {
		return Result{}, fmt.Errorf("marshal plan: %w", err)
	}
	manifestPath := filepath.Join(runDir, "plan.json")
	if err := os.WriteFile(manifestPath, b, 0o644); err != nil {
		return Result{}, err
	}
	logf("plan written (%d shots): %s", len(res.Plan.Timeline), manifestPath)

	return Result{
		Plan:         res.Plan,
		RunDir:       runDir,
		ManifestPath: manifestPath,
		RenderPath:   res.RenderPath,
	}, nil
}

func buildRunDir(outRoot, name string, now time.Time) string {
	slug := normalizePathSegment(name)
	if slug == "" {
		slug = "episode"
	}
	ts := now.UTC().Format("20060102-150405Z")
	runSeed := fmt.Sprintf("%s|%d", name, now.UTC().UnixNano())
	suffix := hash(runSeed)[:6]
	return filepath.Join(outRoot, fmt.Sprintf("%s-%s-%s", slug, ts, suffix))
}

func normalizePathSegment(s string) string {
	var b strings.Builder
	prevDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
			prevDash = false
		default:
			if !prevDash {
				b.WriteByte('-')
				prevDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

func hash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])[:12]
}

// ensure adapters implement ports
var _ ports.SegmentReader = (*segmentfile.Adapter)(nil)
var _ ports.MediaProber = (*ffmpeg.Adapter)(nil)
var _ ports.Renderer = (*ffmpeg.Adapter)(nil)
