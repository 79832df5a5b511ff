// Backup bundle export and import commands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newExportCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all data to a backup zip",
		Long:  "Write a zip bundle containing asset.csv, flow.csv, and config.json.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := openInitializedContext()
			if err != nil {
				return err
			}
			f, err := os.Create(out)
			if err != nil {
				return systemErr(fmt.Errorf("creating %s: %w", out, err))
			}
			defer f.Close()

			if err := ctx.ExportZip(f); err != nil {
				return systemErr(err)
			}
			if err := f.Close(); err != nil {
				return systemErr(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "finkeep-backup.zip", "output zip file")
	return cmd
}

func newImportCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "import <bundle.zip>",
		Short: "Import data from a backup zip",
		Long: `Restore configuration and data from a backup bundle.

All members are validated before anything is written. Configuration and
transactions are replaced wholesale; asset rows are merged by upsert.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("import replaces configuration and transactions; re-run with --yes to confirm")
			}
			ctx, err := openContext()
			if err != nil {
				return err
			}
			if err := ctx.ImportZipFile(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %s\n", args[0])
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm destructive import")
	return cmd
}
