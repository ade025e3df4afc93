package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/cartograph/testgroups/pkg/config"
	"github.com/cartograph/testgroups/pkg/workspace"
)

// NewFilesCmd creates the files command
func NewFilesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "files <group>",
		Short: "List the files a group's patterns expand to",
		Long: `Expand the source and test patterns of a group against its root directory and
print the files a harness would load, sources first. Patterns that match
nothing are reported after the table.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			desc, err := opts.load(cmd.Context())
			if err != nil {
				return err
			}

			g, ok := desc.Get(args[0])
			if !ok {
				return fmt.Errorf("%w %q: available groups are %q", config.ErrUnknownGroup, args[0], desc.Names())
			}

			files, err := workspace.Expand(cmd.Context(), desc.Dir(), g)
			if err != nil {
				return fmt.Errorf("failed to expand test group %q: %w", args[0], err)
			}

			out := cmd.OutOrStdout()
			bold := color.New(color.Bold)
			yellow := color.New(color.FgYellow)

			_, _ = bold.Fprintf(out, "Root: %s\n\n", files.Root)

			tbl := newTable(out, "KIND", "FILE")
			for _, f := range files.Sources {
				tbl.AddRow(workspace.FieldSources, f)
			}
			for _, f := range files.Tests {
				tbl.AddRow(workspace.FieldTests, f)
			}
			tbl.Print()

			for _, field := range []string{workspace.FieldSources, workspace.FieldTests} {
				for _, p := range files.Unmatched[field] {
					_, _ = yellow.Fprintf(out, "%s pattern %q matches no files\n", field, p)
				}
			}

			return nil
		},
	}
}
