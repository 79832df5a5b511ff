package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

const modulePath = "github.com/finkeep/finkeep"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the finkeep version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "finkeep v%s\nmodule: %s\n", Version, modulePath)
			return nil
		},
	}
}
