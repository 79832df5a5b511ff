// Reporting queries.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/finkeep/finkeep/internal/dates"
	"github.com/finkeep/finkeep/internal/money"
)

func newQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Query and aggregate recorded data",
	}
	cmd.AddCommand(newQueryDateCmd())
	cmd.AddCommand(newQueryPeriodCmd())
	cmd.AddCommand(newQueryWorthCmd())
	cmd.AddCommand(newQueryIOCmd())
	return cmd
}

func newQueryDateCmd() *cobra.Command {
	var exact bool
	cmd := &cobra.Command{
		Use:   "date [month]",
		Short: "Show every sub-account's snapshot for a month",
		Long: `Show every configured sub-account's snapshot for a month (default: current).

Sub-accounts without an entry for the month carry their most recent prior net
worth forward with zero inflow and profit, unless --exact is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date := dates.Current()
			if len(args) == 1 {
				date = args[0]
			}
			ctx, err := openInitializedContext()
			if err != nil {
				return err
			}
			rows, err := ctx.QueryDate(date, !exact)
			if err != nil {
				return err
			}
			if flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), rows)
			}
			return printAssetRows(cmd, rows)
		},
	}
	cmd.Flags().BoolVar(&exact, "exact", false, "only rows recorded in that month, no carry-forward")
	return cmd
}

func newQueryPeriodCmd() *cobra.Command {
	var fill bool
	cmd := &cobra.Command{
		Use:   "period <start> <end>",
		Short: "Show asset rows over a month range",
		Long: `Show asset rows with date in [start, end] inclusive.

With --fill, every configured sub-account gets exactly one row per month:
net worth is carried forward over gaps, inflow and profit are zero on months
with no recorded entry.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := openInitializedContext()
			if err != nil {
				return err
			}
			rows, err := ctx.QueryPeriodData(args[0], args[1], fill)
			if err != nil {
				return err
			}
			if flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), rows)
			}
			return printAssetRows(cmd, rows)
		},
	}
	cmd.Flags().BoolVar(&fill, "fill", false, "one row per sub-account per month, gaps filled")
	return cmd
}

func newQueryWorthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "worth [month]",
		Short: "Show total net worth, inflow, and profit for a month",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date := dates.Current()
			if len(args) == 1 {
				date = args[0]
			}
			ctx, err := openInitializedContext()
			if err != nil {
				return err
			}
			worth, err := ctx.TotalWorth(date)
			if err != nil {
				return err
			}
			inflow, err := ctx.TotalInflow(date)
			if err != nil {
				return err
			}
			profit, err := ctx.TotalProfit(date)
			if err != nil {
				return err
			}

			norm, err := dates.Norm(date)
			if err != nil {
				return err
			}
			if flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), map[string]any{
					"Date":     norm,
					"NetWorth": worth,
					"Inflow":   inflow,
					"Profit":   profit,
				})
			}
			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintln(tw, "DATE\tNET_WORTH\tINFLOW\tPROFIT")
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
				norm, money.Format(worth), money.Format(inflow), money.Format(profit))
			return tw.Flush()
		},
	}
}

func newQueryIOCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "io",
		Short: "Show monthly income vs untracked outlay",
		Long: `Derive per-month outlay from recorded income and asset inflow:

  OUTLAY = INCOME - INFLOW

Money earned but not showing up as new asset value was spent elsewhere.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := openInitializedContext()
			if err != nil {
				return err
			}
			rows := ctx.IncomeOutlay()
			if flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), rows)
			}
			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintln(tw, "DATE\tINFLOW\tINCOME\tOUTLAY")
			for _, r := range rows {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
					r.Date, money.Format(r.Inflow), money.Format(r.Income), money.Format(r.Outlay))
			}
			return tw.Flush()
		},
	}
}
