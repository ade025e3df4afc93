// Package cli provides commands for inspecting and checking test group descriptors.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cartograph/testgroups/pkg/config"
	"github.com/cartograph/testgroups/pkg/log"
	"github.com/cartograph/testgroups/pkg/util"
)

// EnvConfig names the environment variable holding the default descriptor path.
const EnvConfig = "TESTGROUPS_CONFIG"

type rootOptions struct {
	configPath string
	verbose    bool
	logLevel   string
	logFormat  string
}

// NewRootCmd creates the root testgroups command
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "testgroups",
		Short: "Inspect and check test group descriptors",
		Long: `testgroups reads a test group descriptor (testgroups.yaml) and lets you list
its groups, expand their source and test patterns, and check them the way a
test harness would before running them.

When --config is not given the descriptor is located by name in the current
directory, then in test/ and spec/.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := log.New(log.Config{
				Level:  opts.logLevel,
				Format: opts.logFormat,
				Output: cmd.ErrOrStderr(),
			})
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx = log.WithLogger(ctx, logger)
			ctx = util.WithVerbose(ctx, opts.verbose)
			cmd.SetContext(ctx)

			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", os.Getenv(EnvConfig), "Path to the test group descriptor (env "+EnvConfig+")")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose output")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	flags.StringVar(&opts.logFormat, "log-format", log.FormatConsole, "Log format (console, json)")

	rootCmd.AddCommand(NewListCmd(opts))
	rootCmd.AddCommand(NewShowCmd(opts))
	rootCmd.AddCommand(NewFilesCmd(opts))
	rootCmd.AddCommand(NewCheckCmd(opts))
	rootCmd.AddCommand(NewInitCmd())

	return rootCmd
}

// Execute runs the root command with ctx
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

// descriptorPath returns the configured descriptor path, locating one from
// the working directory when none was given.
func (o *rootOptions) descriptorPath() (string, error) {
	if o.configPath != "" {
		return o.configPath, nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}

	path, err := config.Locate(wd)
	if err != nil {
		return "", fmt.Errorf("%w: pass --config or set %s", err, EnvConfig)
	}

	return path, nil
}

func (o *rootOptions) load(ctx context.Context) (*config.Descriptor, error) {
	path, err := o.descriptorPath()
	if err != nil {
		return nil, err
	}

	log.WithComponent(ctx, "cli").Debug().Str("path", path).Msg("loading descriptor")

	return config.FromFile(path)
}

// readDescriptor returns the raw document along with the directory its
// rootPath values are relative to.
func (o *rootOptions) readDescriptor() (data []byte, dir string, err error) {
	path, err := o.descriptorPath()
	if err != nil {
		return nil, "", err
	}

	data, err = os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read file '%s' for test groups: %w", path, err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get absolute path for '%s': %w", path, err)
	}

	return data, filepath.Dir(abs), nil
}
