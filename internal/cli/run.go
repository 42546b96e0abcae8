package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"cutaway/internal/pipeline"
)

// addPlanFlags registers the flags shared by plan and render.
func addPlanFlags(cmd *cobra.Command) {
	cmd.Flags().String("segments", "", "Diarization segments file (JSON)")
	cmd.Flags().String("out", "out", "Output directory")
	cmd.Flags().Float64("from", 0, "Clip start, seconds")
	cmd.Flags().Float64("to", 0, "Clip end, seconds (0 = last segment)")
	cmd.Flags().Float64("fps", 0, "Frame rate (0 = project setting)")
	cmd.Flags().String("mode", "", "Layout mode (solo, active-speaker, side-by-side, grid)")
	cmd.Flags().Bool("json", false, "Write the plan JSON to stdout")
}

// runPlan executes one pipeline run for both the plan and render commands.
func runPlan(cmd *cobra.Command, projectPath string, render bool, renderMode string) error {
	segments, _ := cmd.Flags().GetString("segments")
	outDir, _ := cmd.Flags().GetString("out")
	from, _ := cmd.Flags().GetFloat64("from")
	to, _ := cmd.Flags().GetFloat64("to")
	fps, _ := cmd.Flags().GetFloat64("fps")
	mode, _ := cmd.Flags().GetString("mode")
	asJSON, _ := cmd.Flags().GetBool("json")

	absProject, err := filepath.Abs(projectPath)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Hour)
	defer cancel()

	cfg := pipeline.Config{
		ProjectPath:  absProject,
		SegmentsPath: segments,
		OutDir:       outDir,
		Start:        secDur(from),
		End:          secDur(to),
		FPS:          fps,
		Mode:         mode,
		Render:       render,
		RenderMode:   renderMode,
		FFmpegPath:   getenvDefault("CUTAWAY_FFMPEG", "ffmpeg"),
		FFprobePath:  getenvDefault("CUTAWAY_FFPROBE", "ffprobe"),
		Logf: func(format string, args ...any) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		},
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	res, err := pipeline.Run(ctx, cfg)
	if err != nil {
		return err
	}
	return printPlan(cmd.OutOrStdout(), res, asJSON)
}

func secDur(sec float64) time.Duration {
	return time.Duration(sec * float64(time.Second))
}
