package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-isatty"

	"cutaway/internal/pipeline"
	"cutaway/internal/types"
)

// printPlan writes the run result for humans or machines: a shot table on
// interactive terminals, the full plan JSON otherwise (or when --json asks
// for it).
func printPlan(w io.Writer, res pipeline.Result, forceJSON bool) error {
	if forceJSON || !stdoutIsTTY() {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res.Plan)
	}

	renderShotTable(w, res.Plan)
	fmt.Fprintf(w, "plan: %s\n", res.ManifestPath)
	if res.RenderPath != "" {
		fmt.Fprintf(w, "render: %s\n", res.RenderPath)
	}
	return nil
}

func renderShotTable(w io.Writer, plan types.CutPlan) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.SetTitle("%s (%s)", plan.Title, plan.Mode)
	t.AppendHeader(table.Row{"#", "start", "end", "length", "source"})
	for i, iv := range plan.Timeline {
		source := iv.Source
		if source == "" {
			source = "(blank)"
		}
		t.AppendRow(table.Row{
			i + 1,
			fmt.Sprintf("%.2fs", iv.StartSec),
			fmt.Sprintf("%.2fs", iv.EndSec),
			fmt.Sprintf("%.2fs", iv.EndSec-iv.StartSec),
			source,
		})
	}
	t.AppendFooter(table.Row{"", "", "", "", fmt.Sprintf("%d shots @ %g fps", len(plan.Timeline), plan.FPS)})
	t.Render()
}

func stdoutIsTTY() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
