// Maintenance and diagnostic commands.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newReindexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reindex",
		Short: "Recompute all transaction IDs",
		Long: "Rewrite every transaction ID sequentially per month, preserving row order.\n" +
			"Repairs ID collisions left behind by bulk imports.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := openInitializedContext()
			if err != nil {
				return err
			}
			if err := ctx.Trans().Reindex(); err != nil {
				return systemErr(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Transaction IDs reindexed")
			return nil
		},
	}
}

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show storage schema and row counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := openInitializedContext()
			if err != nil {
				return err
			}
			asset, tran, err := ctx.TableInfo()
			if err != nil {
				return systemErr(err)
			}

			if flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), map[string]any{
					"AssetColumns":     asset,
					"TranColumns":      tran,
					"AssetRows":        len(ctx.Assets().Rows()),
					"TransactionRows":  len(ctx.Trans().Rows()),
					"DatabasePath":     ctx.Assets().Store().Path(),
					"ConfiguredAssets": len(ctx.Config().Accounts()),
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "database: %s\n\n", ctx.Assets().Store().Path())
			tw := newTable(out)
			fmt.Fprintln(tw, "TABLE\tCOLUMN\tTYPE\tNOT_NULL\tPK")
			for _, c := range asset {
				fmt.Fprintf(tw, "asset\t%s\t%s\t%t\t%t\n", c.Name, c.Type, c.NotNull, c.PrimaryKey)
			}
			for _, c := range tran {
				fmt.Fprintf(tw, "tran\t%s\t%s\t%t\t%t\n", c.Name, c.Type, c.NotNull, c.PrimaryKey)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(out, "\nasset rows: %d\ntransactions: %d\n",
				len(ctx.Assets().Rows()), len(ctx.Trans().Rows()))
			return nil
		},
	}
}
