// Category dictionary commands.
package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/finkeep/finkeep/pkg/types"
)

func newCategoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "category",
		Short: "Manage the category dictionary",
	}
	cmd.AddCommand(newCategorySetCmd())
	cmd.AddCommand(newCategoryListCmd())
	return cmd
}

func newCategorySetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <category=value1,value2,...> [...]",
		Short: "Replace the category dictionary",
		Long: `Replace the category dictionary wholesale.

Every argument declares one category with its comma-separated option set.
Sub-account assignments that no longer fit the new dictionary are stripped.

Example:
  finkeep category set Risk=Low,Mid,High Currency=USD,EUR`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dict := types.CategoryDict{}
			for _, arg := range args {
				parts := strings.SplitN(arg, "=", 2)
				if len(parts) != 2 || parts[0] == "" {
					return fmt.Errorf("invalid category declaration %q (expected name=v1,v2,...)", arg)
				}
				dict[parts[0]] = strings.Split(parts[1], ",")
			}

			ctx, err := openContext()
			if err != nil {
				return err
			}
			if err := ctx.Config().ReplaceCategories(dict); err != nil {
				return systemErr(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Set %d categories\n", len(dict))
			return nil
		},
	}
}

func newCategoryListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List declared categories and their option sets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := openContext()
			if err != nil {
				return err
			}
			dict := ctx.Config().Categories()

			if flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), dict)
			}

			names := make([]string, 0, len(dict))
			for name := range dict {
				names = append(names, name)
			}
			sort.Strings(names)

			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintln(tw, "CATEGORY\tVALUES")
			for _, name := range names {
				fmt.Fprintf(tw, "%s\t%s\n", name, strings.Join(dict[name], ", "))
			}
			return tw.Flush()
		},
	}
}
