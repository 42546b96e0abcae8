package cli

import (
	"github.com/spf13/cobra"
)

func newPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan <project>",
		Short: "Compile the switching timeline and write the cut-plan manifest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(cmd, args[0], false, "")
		},
	}
	addPlanFlags(cmd)
	return cmd
}

func newRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render <project>",
		Short: "Compile the plan and render it with ffmpeg",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, _ := cmd.Flags().GetString("render-mode")
			return runPlan(cmd, args[0], true, mode)
		},
	}
	addPlanFlags(cmd)
	cmd.Flags().String("render-mode", "cut", "Render strategy: cut (hard switches) or compose (static arrangement)")
	return cmd
}
