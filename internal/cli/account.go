// Account and sub-account management commands.
package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newAccountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage accounts and sub-accounts",
	}
	cmd.AddCommand(newAccountAddCmd())
	cmd.AddCommand(newAccountDeleteCmd())
	cmd.AddCommand(newAccountListCmd())
	return cmd
}

func newAccountAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <account> <subaccount> [category=value...]",
		Short: "Add a sub-account under an account",
		Long: `Add a sub-account, creating the account if it does not exist yet.

Category assignments are given as key=value pairs and must reference declared
categories and values.

Example:
  finkeep account add Bank checking
  finkeep account add Broker stocks Risk=High Currency=USD`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			account, subaccount := args[0], args[1]

			ctx, err := openContext()
			if err != nil {
				return err
			}
			cfg := ctx.Config()

			cats := map[string]string{}
			for _, arg := range args[2:] {
				parts := strings.SplitN(arg, "=", 2)
				if len(parts) != 2 {
					return fmt.Errorf("invalid category assignment %q (expected category=value)", arg)
				}
				cat, value := parts[0], parts[1]
				if !cfg.Categories().Has(cat) {
					return fmt.Errorf("unknown category %q (declared: %s)",
						cat, strings.Join(cfg.CategoryNames(), ", "))
				}
				if !cfg.Categories().ValidValue(cat, value) {
					return fmt.Errorf("value %q not in option set for category %q (valid: %s)",
						value, cat, strings.Join(cfg.Categories().Values(cat), ", "))
				}
				cats[cat] = value
			}

			if err := cfg.AddAsset(account, subaccount, cats); err != nil {
				return systemErr(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s/%s\n", account, subaccount)
			return nil
		},
	}
}

func newAccountDeleteCmd() *cobra.Command {
	var purge bool
	cmd := &cobra.Command{
		Use:   "delete <account> <subaccount>",
		Short: "Delete a sub-account from configuration",
		Long: `Delete a sub-account from the configuration.

Historical asset rows stay in the database and remain queryable unless
--purge is given, which also deletes the sub-account's full history.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			account, subaccount := args[0], args[1]

			ctx, err := openContext()
			if err != nil {
				return err
			}
			if err := ctx.DeleteSubaccount(account, subaccount, purge); err != nil {
				return systemErr(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s/%s\n", account, subaccount)
			return nil
		},
	}
	cmd.Flags().BoolVar(&purge, "purge", false, "also delete the sub-account's asset history")
	return cmd
}

func newAccountListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured accounts and sub-accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := openContext()
			if err != nil {
				return err
			}
			accounts := ctx.Config().Accounts()

			if flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), ctx.Config().ToDocument())
			}

			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintln(tw, "ACCOUNT\tSUBACCOUNT\tCATEGORIES")
			for _, acc := range accounts {
				for _, sub := range acc.Subs {
					var cats []string
					for k, v := range sub.Categories {
						cats = append(cats, k+"="+v)
					}
					fmt.Fprintf(tw, "%s\t%s\t%s\n", acc.Name, sub.Name, strings.Join(cats, " "))
				}
			}
			return tw.Flush()
		},
	}
}
