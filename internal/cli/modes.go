package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"cutaway/internal/config"
	"cutaway/internal/domain/layout"
	"cutaway/internal/types"
)

func newModesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "modes <project>",
		Short: "Show which layout modes the configured sources allow",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			proj, err := config.Load(args[0])
			if err != nil {
				return err
			}
			sources := proj.VideoSources()
			modes := layout.AvailableModes(sources)

			out := cmd.OutOrStdout()
			nonBroll := 0
			for _, s := range sources {
				if s.Type != types.SourceBroll {
					nonBroll++
				}
			}
			fmt.Fprintf(out, "%d sources (%d layout slots)\n", len(sources), nonBroll)
			for _, m := range modes {
				fmt.Fprintln(out, m)
			}
			return nil
		},
	}
}
