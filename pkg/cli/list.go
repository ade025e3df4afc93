package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/cartograph/testgroups/pkg/extension"
	"github.com/cartograph/testgroups/pkg/util"
)

// NewListCmd creates the list command
func NewListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the groups of a descriptor",
		Long: `List every group of the descriptor in declaration order with its environment,
root path and the number of source, test and extension entries.

With --verbose the extension references are printed instead of their count.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			desc, err := opts.load(cmd.Context())
			if err != nil {
				return err
			}

			verbose := util.IsVerbose(cmd.Context())

			tbl := newTable(cmd.OutOrStdout(), "GROUP", "ENVIRONMENT", "ROOT", "SOURCES", "TESTS", "EXTENSIONS")
			for name, g := range desc.All() {
				var exts any = len(g.Extensions)
				if verbose {
					exts = strings.Join(extension.Refs(g.Extensions), ",")
				}
				tbl.AddRow(name, g.Environment, g.RootPath, len(g.Sources), len(g.Tests), exts)
			}
			tbl.Print()

			return nil
		},
	}
}
