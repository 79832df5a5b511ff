package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize finkeep storage",
		Long:  "Create configuration and data directories, then create any missing database tables.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := openContext()
			if err != nil {
				return err
			}
			if err := ctx.InitDB(); err != nil {
				return systemErr(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Finkeep initialized successfully")
			return nil
		},
	}
}

func newSampleCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Reset storage to deterministic sample data",
		Long: "Replace all asset and transaction data with a generated sample series.\n" +
			"If no accounts are configured, a built-in sample layout is installed first.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("sample replaces all existing data; re-run with --yes to confirm")
			}
			ctx, err := openContext()
			if err != nil {
				return err
			}
			if err := ctx.SeedSampleData(); err != nil {
				return systemErr(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Sample data written")
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm destructive reset")
	return cmd
}
