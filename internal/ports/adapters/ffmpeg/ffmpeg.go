// Package ffmpeg shells out to ffprobe and ffmpeg: it probes stream
// properties of source media and realizes a cut plan into an output file.
// Argument and filtergraph construction is pure and kept separate from
// process execution so it can be asserted textually in tests. No pixel data
// ever enters this process.
package ffmpeg

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"cutaway/internal/ports"
	"cutaway/internal/types"
)

type Adapter struct {
	ffmpeg  string
	ffprobe string
}

func New(ffmpegPath, ffprobePath string) *Adapter {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &Adapter{ffmpeg: ffmpegPath, ffprobe: ffprobePath}
}

// Probe reports the first video stream's dimensions and frame rate plus the
// container duration.
func (a *Adapter) Probe(ctx context.Context, path string) (types.MediaInfo, error) {
	cmd := exec.CommandContext(ctx, a.ffprobe,
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height,r_frame_rate",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1",
		path,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return types.MediaInfo{}, fmt.Errorf("ffprobe %s: %w\n%s", path, err, string(b))
	}
	return parseProbeOutput(string(b))
}

// parseProbeOutput reads ffprobe's flat key=value output. r_frame_rate
// arrives as a rational ("30000/1001").
func parseProbeOutput(out string) (types.MediaInfo, error) {
	var info types.MediaInfo
	for _, line := range strings.Split(out, "\n") {
		key, val, ok := strings.Cut(strings.TrimSpace(line), "=")
		if !ok {
			continue
		}
		switch key {
		case "width":
			info.Width, _ = strconv.Atoi(val)
		case "height":
			info.Height, _ = strconv.Atoi(val)
		case "r_frame_rate":
			info.FPS = parseRational(val)
		case "duration":
			if sec, err := strconv.ParseFloat(val, 64); err == nil {
				info.Duration = time.Duration(sec * float64(time.Second))
			}
		}
	}
	if info.Width <= 0 || info.Height <= 0 {
		return types.MediaInfo{}, fmt.Errorf("ffprobe: no video stream dimensions in output %q", strings.TrimSpace(out))
	}
	return info, nil
}

func parseRational(s string) float64 {
	num, den, ok := strings.Cut(s, "/")
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}
	if !ok {
		return n
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0
	}
	return n / d
}

// Render realizes a plan with the requested strategy: "cut" hard-switches
// between the sources following the compiled timeline, "compose" renders a
// static multi-source arrangement from the plan's layout rectangles.
func (a *Adapter) Render(ctx context.Context, req ports.RenderRequest) error {
	var args []string
	var err error
	switch req.Mode {
	case "cut":
		args, err = buildCutArgs(req)
	case "compose":
		args, err = buildComposeArgs(req)
	default:
		err = fmt.Errorf("unknown render mode %q (want cut or compose)", req.Mode)
	}
	if err != nil {
		return err
	}
	cmd := exec.CommandContext(ctx, a.ffmpeg, args...)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg render: %w\n%s", err, string(b))
	}
	return nil
}

// buildCutArgs builds the argv for the cut strategy: one input per distinct
// source on the timeline (plus a black lavfi input for blank shots), each
// shot trimmed from its source at the sync-adjusted local time, scaled to
// the output canvas, and concatenated in timeline order. Audio comes from
// the reference audio source across the whole range.
func buildCutArgs(req ports.RenderRequest) ([]string, error) {
	if len(req.Plan.Timeline) == 0 {
		return nil, fmt.Errorf("plan has no timeline")
	}

	byID := sourceIndex(req.Sources)
	inputs := make([]string, 0, len(req.Sources))
	inputOf := make(map[string]int)
	hasBlank := false
	for _, iv := range req.Plan.Timeline {
		if iv.Source == "" {
			hasBlank = true
			continue
		}
		if _, seen := inputOf[iv.Source]; seen {
			continue
		}
		src, ok := byID[iv.Source]
		if !ok {
			return nil, fmt.Errorf("timeline references unknown source %q", iv.Source)
		}
		if src.Media == "" {
			return nil, fmt.Errorf("source %q has no media path", iv.Source)
		}
		inputOf[iv.Source] = len(inputs)
		inputs = append(inputs, src.Media)
	}

	audioSrc, ok := byID[req.AudioSource]
	if !ok {
		return nil, fmt.Errorf("audio source %q is not configured", req.AudioSource)
	}
	audioInput, ok := inputOf[audioSrc.ID]
	if !ok {
		if audioSrc.Media == "" {
			return nil, fmt.Errorf("audio source %q has no media path", audioSrc.ID)
		}
		audioInput = len(inputs)
		inputs = append(inputs, audioSrc.Media)
	}
	blankInput := len(inputs) // the lavfi canvas is always the last input

	var filter []string
	var concat strings.Builder
	for i, iv := range req.Plan.Timeline {
		dur := iv.EndSec - iv.StartSec
		var chain string
		if iv.Source == "" {
			chain = fmt.Sprintf("[%d:v]trim=start=0:end=%s,setpts=PTS-STARTPTS[v%d]",
				blankInput, fmtFloat(dur), i)
		} else {
			src := byID[iv.Source]
			local := src.SeekTime(secDur(iv.StartSec)).Seconds()
			chain = fmt.Sprintf("[%d:v]trim=start=%s:end=%s,setpts=PTS-STARTPTS,scale=%d:%d,setsar=1[v%d]",
				inputOf[iv.Source], fmtFloat(local), fmtFloat(local+dur), req.Width, req.Height, i)
		}
		filter = append(filter, chain)
		fmt.Fprintf(&concat, "[v%d]", i)
	}
	fmt.Fprintf(&concat, "concat=n=%d:v=1:a=0[vout]", len(req.Plan.Timeline))
	filter = append(filter, concat.String())

	aStart := audioSrc.SeekTime(secDur(req.Plan.StartSec)).Seconds()
	aEnd := aStart + (req.Plan.EndSec - req.Plan.StartSec)
	filter = append(filter, fmt.Sprintf("[%d:a]atrim=start=%s:end=%s,asetpts=PTS-STARTPTS[aout]",
		audioInput, fmtFloat(aStart), fmtFloat(aEnd)))

	args := []string{"-y", "-hide_banner", "-loglevel", "error"}
	for _, in := range inputs {
		args = append(args, "-i", in)
	}
	if hasBlank {
		args = append(args, "-f", "lavfi", "-i", blankCanvas(req))
	}
	args = append(args,
		"-filter_complex", strings.Join(filter, ";"),
		"-map", "[vout]",
		"-map", "[aout]",
	)
	return append(args, encodeArgs(req)...), nil
}

// buildComposeArgs builds the argv for the compose strategy: every source
// visible in the plan's opening layout is scaled to its rectangle and
// overlaid onto a black canvas in ascending stacking order. The arrangement
// is static for the whole clip; compose is the strategy for side-by-side and
// grid renders, where nothing switches.
func buildComposeArgs(req ports.RenderRequest) ([]string, error) {
	if len(req.Plan.Shots) == 0 {
		return nil, fmt.Errorf("plan has no shots")
	}

	byID := sourceIndex(req.Sources)
	var visible []types.LayoutEntry
	for _, e := range req.Plan.Shots[0].Layout {
		if e.Visible {
			visible = append(visible, e)
		}
	}
	if len(visible) == 0 {
		return nil, fmt.Errorf("opening layout has no visible sources")
	}
	// Overlay order follows stacking order; equal z keeps layout order.
	for i := 1; i < len(visible); i++ {
		for j := i; j > 0 && visible[j].Z < visible[j-1].Z; j-- {
			visible[j], visible[j-1] = visible[j-1], visible[j]
		}
	}

	dur := req.Plan.EndSec - req.Plan.StartSec
	args := []string{"-y", "-hide_banner", "-loglevel", "error"}
	for _, e := range visible {
		src, ok := byID[e.Source]
		if !ok {
			return nil, fmt.Errorf("layout references unknown source %q", e.Source)
		}
		if src.Media == "" {
			return nil, fmt.Errorf("source %q has no media path", e.Source)
		}
		args = append(args, "-i", src.Media)
	}

	filter := []string{fmt.Sprintf("color=c=black:s=%dx%d:d=%s[base]", req.Width, req.Height, fmtFloat(dur))}
	for i, e := range visible {
		src := byID[e.Source]
		local := src.SeekTime(secDur(req.Plan.StartSec)).Seconds()
		w := pct(e.Width, req.Width)
		h := pct(e.Height, req.Height)
		filter = append(filter, fmt.Sprintf("[%d:v]trim=start=%s:end=%s,setpts=PTS-STARTPTS,scale=%d:%d,setsar=1[p%d]",
			i, fmtFloat(local), fmtFloat(local+dur), w, h, i))
	}
	prev := "[base]"
	for i, e := range visible {
		// Layout coordinates are rectangle centers; overlay wants top-left.
		x := pct(e.X, req.Width) - pct(e.Width, req.Width)/2
		y := pct(e.Y, req.Height) - pct(e.Height, req.Height)/2
		out := fmt.Sprintf("[o%d]", i)
		if i == len(visible)-1 {
			out = "[vout]"
		}
		filter = append(filter, fmt.Sprintf("%s[p%d]overlay=%d:%d%s", prev, i, x, y, out))
		prev = out
	}

	audioSrc, ok := byID[req.AudioSource]
	if !ok {
		return nil, fmt.Errorf("audio source %q is not configured", req.AudioSource)
	}
	audioInput := -1
	for i, e := range visible {
		if e.Source == audioSrc.ID {
			audioInput = i
			break
		}
	}
	if audioInput == -1 {
		if audioSrc.Media == "" {
			return nil, fmt.Errorf("audio source %q has no media path", audioSrc.ID)
		}
		audioInput = len(visible)
		args = append(args, "-i", audioSrc.Media)
	}
	aStart := audioSrc.SeekTime(secDur(req.Plan.StartSec)).Seconds()
	filter = append(filter, fmt.Sprintf("[%d:a]atrim=start=%s:end=%s,asetpts=PTS-STARTPTS[aout]",
		audioInput, fmtFloat(aStart), fmtFloat(aStart+dur)))

	args = append(args,
		"-filter_complex", strings.Join(filter, ";"),
		"-map", "[vout]",
		"-map", "[aout]",
	)
	return append(args, encodeArgs(req)...), nil
}

func encodeArgs(req ports.RenderRequest) []string {
	args := []string{
		"-c:v", "libx264",
		"-preset", "veryfast",
		"-crf", "18",
		"-c:a", "aac",
		"-b:a", "192k",
	}
	if req.Plan.FPS > 0 {
		args = append(args, "-r", fmtFloat(req.Plan.FPS))
	}
	return append(args, req.OutPath)
}

func blankCanvas(req ports.RenderRequest) string {
	return fmt.Sprintf("color=c=black:s=%dx%d:d=%s",
		req.Width, req.Height, fmtFloat(req.Plan.EndSec-req.Plan.StartSec))
}

func sourceIndex(sources []types.VideoSource) map[string]types.VideoSource {
	byID := make(map[string]types.VideoSource, len(sources))
	for _, s := range sources {
		byID[s.ID] = s
	}
	return byID
}

func pct(percent float64, span int) int {
	return int(percent / 100 * float64(span))
}

func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}

func secDur(sec float64) time.Duration {
	return time.Duration(sec * float64(time.Second))
}
