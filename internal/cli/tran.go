// Transaction commands.
package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/finkeep/finkeep/internal/money"
	"github.com/finkeep/finkeep/pkg/types"
)

func newTranCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tran",
		Short: "Manage income and outlay transactions",
	}
	cmd.AddCommand(newTranAddCmd())
	cmd.AddCommand(newTranDeleteCmd())
	cmd.AddCommand(newTranListCmd())
	return cmd
}

func newTranAddCmd() *cobra.Command {
	var category, note string
	cmd := &cobra.Command{
		Use:   "add <date> <type> <value>",
		Short: "Record a transaction",
		Long: `Record a transaction for a month. Type is INCOME or OUTLAY.

The transaction ID is assigned automatically from the month and the number of
transactions already recorded in it.

Example:
  finkeep tran add 2024-05 INCOME 4200 --category salary`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, typ := args[0], args[1]
			value, err := money.Parse(args[2])
			if err != nil {
				return fmt.Errorf("invalid value %q: %w", args[2], err)
			}

			ctx, err := openInitializedContext()
			if err != nil {
				return err
			}
			id, err := ctx.Trans().Insert(date, typ, value, category, note)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Recorded transaction %d\n", id)
			return nil
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "free-form transaction category")
	cmd.Flags().StringVar(&note, "note", "", "free-form note")
	return cmd
}

func newTranDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a transaction by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid transaction ID %q", args[0])
			}
			ctx, err := openInitializedContext()
			if err != nil {
				return err
			}
			if _, ok := ctx.Trans().QueryByID(id); !ok {
				return fmt.Errorf("transaction %d not found", id)
			}
			if err := ctx.Trans().DeleteByID(id); err != nil {
				return systemErr(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted transaction %d\n", id)
			return nil
		},
	}
}

func newTranListCmd() *cobra.Command {
	var date, typ, category string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions with optional filters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := openInitializedContext()
			if err != nil {
				return err
			}
			rows := ctx.Trans().Query(date, typ, category)

			if flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), rows)
			}

			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintln(tw, "ID\tDATE\tTYPE\tVALUE\tCATEGORY\tNOTE")
			for _, r := range rows {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
					r.ID, r.Date, r.Type, money.Format(r.Value), r.Category, r.Note)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "filter by month (YYYY-MM)")
	cmd.Flags().StringVar(&typ, "type", "", fmt.Sprintf("filter by type (%s or %s)", types.TranIncome, types.TranOutlay))
	cmd.Flags().StringVar(&category, "category", "", "filter by category")
	return cmd
}
