// Asset record commands.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/finkeep/finkeep/internal/dates"
	"github.com/finkeep/finkeep/internal/money"
	"github.com/finkeep/finkeep/pkg/types"
)

func newRecordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Manage monthly asset records",
	}
	cmd.AddCommand(newRecordAddCmd())
	cmd.AddCommand(newRecordDeleteCmd())
	cmd.AddCommand(newRecordListCmd())
	return cmd
}

func newRecordAddCmd() *cobra.Command {
	var inflow, profit string
	cmd := &cobra.Command{
		Use:   "add <date> <account> <subaccount> <networth>",
		Short: "Record a monthly asset snapshot",
		Long: `Record a sub-account's net worth for one month.

Re-entering the same month for the same sub-account replaces the previous
entry; there is never more than one row per sub-account per month.

Example:
  finkeep record add 2024-05 Bank checking 12345.67 --inflow 500 --profit 123.45`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := dates.Norm(args[0])
			if err != nil {
				return err
			}
			account, subaccount := args[1], args[2]

			net, err := money.Parse(args[3])
			if err != nil {
				return fmt.Errorf("invalid net worth %q: %w", args[3], err)
			}
			inflowVal, err := parseOptionalAmount(inflow)
			if err != nil {
				return fmt.Errorf("invalid inflow %q: %w", inflow, err)
			}
			profitVal, err := parseOptionalAmount(profit)
			if err != nil {
				return fmt.Errorf("invalid profit %q: %w", profit, err)
			}

			ctx, err := openInitializedContext()
			if err != nil {
				return err
			}
			if !ctx.Config().HasAsset(account, subaccount) {
				return fmt.Errorf("sub-account %s/%s is not configured; run 'finkeep account add' first",
					account, subaccount)
			}

			snap := types.AssetSnapshot{
				Date:       date,
				Account:    account,
				Subaccount: subaccount,
				NetWorth:   net,
				Inflow:     inflowVal,
				Profit:     profitVal,
			}
			if err := ctx.Assets().Upsert(snap); err != nil {
				return systemErr(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s %s/%s\n", date, account, subaccount)
			return nil
		},
	}
	cmd.Flags().StringVar(&inflow, "inflow", "", "new money added this month (default 0)")
	cmd.Flags().StringVar(&profit, "profit", "", "gain or loss this month (default 0)")
	return cmd
}

func parseOptionalAmount(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	return money.Parse(s)
}

func newRecordDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <date> <account> <subaccount>",
		Short: "Delete one monthly asset record",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := dates.Norm(args[0])
			if err != nil {
				return err
			}
			ctx, err := openInitializedContext()
			if err != nil {
				return err
			}
			if err := ctx.Assets().Delete(date, args[1], args[2]); err != nil {
				return systemErr(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s %s/%s\n", date, args[1], args[2])
			return nil
		},
	}
}

func newRecordListCmd() *cobra.Command {
	var date, account, subaccount string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List asset records with optional filters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := openInitializedContext()
			if err != nil {
				return err
			}
			rows := ctx.Assets().Query(date, account, subaccount)

			if flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), rows)
			}
			return printAssetRows(cmd, rows)
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "filter by month (YYYY-MM)")
	cmd.Flags().StringVar(&account, "account", "", "filter by account")
	cmd.Flags().StringVar(&subaccount, "subaccount", "", "filter by sub-account")
	return cmd
}

func printAssetRows(cmd *cobra.Command, rows []types.AssetSnapshot) error {
	tw := newTable(cmd.OutOrStdout())
	fmt.Fprintln(tw, "DATE\tACCOUNT\tSUBACCOUNT\tNET_WORTH\tINFLOW\tPROFIT")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Date, r.Account, r.Subaccount,
			money.Format(r.NetWorth), money.Format(r.Inflow), money.Format(r.Profit))
	}
	return tw.Flush()
}
