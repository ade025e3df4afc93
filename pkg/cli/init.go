package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/google/renameio/v2"
	"github.com/spf13/cobra"

	"github.com/cartograph/testgroups/pkg/config"
	"github.com/cartograph/testgroups/pkg/extension"
	"github.com/cartograph/testgroups/pkg/group"
)

// NewInitCmd creates the init command
func NewInitCmd() *cobra.Command {
	var (
		force       bool
		environment = string(group.EnvBrowser)
	)

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a starter descriptor",
		Long: `Write a starter test group descriptor. PATH defaults to testgroups.yaml in the
current directory; when PATH is a directory the file is created inside it.

The file is replaced atomically, and only with --force when it already exists.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := group.ParseEnvironment(environment)
			if err != nil {
				return err
			}

			path := config.FileNames[0]
			if len(args) == 1 {
				path = args[0]
			}
			if info, err := os.Stat(path); err == nil && info.IsDir() {
				path = filepath.Join(path, config.FileNames[0])
			}

			if _, err := os.Stat(path); err == nil {
				if !force {
					return fmt.Errorf("%s already exists (use --force to overwrite)", path)
				}
			} else if !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("failed to stat %s: %w", path, err)
			}

			desc, err := starterDescriptor(env)
			if err != nil {
				return err
			}

			data, err := config.Encode(desc)
			if err != nil {
				return fmt.Errorf("failed to encode descriptor: %w", err)
			}

			if err := renameio.WriteFile(path, data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}

			_, _ = color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing descriptor")
	cmd.Flags().StringVarP(&environment, "environment", "e", environment, "Environment of the starter group (browser, node)")

	return cmd
}

func starterDescriptor(env group.Environment) (*config.Descriptor, error) {
	switch env {
	case group.EnvNode:
		return config.New(config.Entry{
			Name: "Node tests",
			Group: group.TestGroupConfig{
				Environment: group.EnvNode,
				RootPath:    ".",
				Sources:     []string{"lib/**/*.js"},
				Tests:       []string{"test/**/*.test.js"},
			},
		})
	default:
		return config.New(config.Entry{
			Name: "Browser tests",
			Group: group.TestGroupConfig{
				Environment: group.EnvBrowser,
				RootPath:    ".",
				Sources:     []string{"lib/**/*.js"},
				Tests:       []string{"spec/**/*.spec.{coffee,js}"},
				Extensions:  []extension.Ref{"buster-coffee"},
			},
		})
	}
}
