package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/cartograph/testgroups/pkg/check"
	"github.com/cartograph/testgroups/pkg/config"
	"github.com/cartograph/testgroups/pkg/log"
	"github.com/cartograph/testgroups/pkg/util"
)

var errCheckFailed = errors.New("check failed")

// NewCheckCmd creates the check command
func NewCheckCmd(opts *rootOptions) *cobra.Command {
	var groups []string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check groups the way a harness would before running them",
		Long: `Validate the descriptor document against its schema, then check every group:
known environment, existing root directory, valid patterns, matching test
files and resolvable extensions.

Exits with code 0 if no problems are found, code 1 otherwise.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := log.WithComponent(ctx, "cli")

			data, dir, err := opts.readDescriptor()
			if err != nil {
				return err
			}

			schemaErr := check.ValidateDocument(data)
			if schemaErr != nil {
				logger.Debug().Err(schemaErr).Msg("schema validation failed")
			}

			desc, err := config.Read(data, dir)
			if err != nil {
				return errors.Join(err, schemaErr)
			}

			desc, err = desc.Select(groups...)
			if err != nil {
				return err
			}

			report, err := check.Run(ctx, desc, check.Options{})
			if err != nil {
				return fmt.Errorf("check aborted: %w", err)
			}

			printReport(cmd.OutOrStdout(), schemaErr, report, util.IsVerbose(ctx))

			if schemaErr != nil || !report.OK() {
				// silent error, sets exit code 1
				cmd.SilenceErrors = true
				return errCheckFailed
			}

			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&groups, "group", "g", nil, "Only check the named groups (repeatable)")

	return cmd
}

func printReport(out io.Writer, schemaErr error, report *check.Report, verbose bool) {
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	bold := color.New(color.Bold)

	if schemaErr != nil {
		_, _ = red.Fprintf(out, "✗ %v\n", schemaErr)
	}

	for _, g := range report.Groups {
		if g.OK() {
			_, _ = green.Fprintf(out, "✓ %s", g.Name)
		} else {
			_, _ = red.Fprintf(out, "✗ %s", g.Name)
		}
		if g.Files != nil {
			_, _ = fmt.Fprintf(out, " (%d sources, %d tests)", len(g.Files.Sources), len(g.Files.Tests))
		}
		_, _ = fmt.Fprintln(out)

		for _, p := range g.Problems {
			_, _ = red.Fprintf(out, "    %s: %s\n", p.Field, p.Message)
		}

		if verbose {
			for _, ext := range g.Extensions {
				_, _ = fmt.Fprintf(out, "    extension %s (%s)\n", ext.Ref, ext.Scheme)
			}
		}
	}

	failed := 0
	for _, g := range report.Groups {
		if !g.OK() {
			failed++
		}
	}

	_, _ = fmt.Fprintln(out)
	if failed == 0 && schemaErr == nil {
		_, _ = bold.Fprintf(out, "%d groups checked, no problems\n", len(report.Groups))
		return
	}
	_, _ = bold.Fprintf(out, "%d groups checked, %d with problems, %d problems total\n", len(report.Groups), failed, len(report.Problems()))
}
