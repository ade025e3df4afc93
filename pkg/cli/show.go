package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/cartograph/testgroups/pkg/config"
)

const (
	outputYAML = "yaml"
	outputJSON = "json"
)

// NewShowCmd creates the show command
func NewShowCmd(opts *rootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "show <group>",
		Short: "Print the record of one group",
		Long: `Print the record of one group exactly as declared.

Examples:
  testgroups show "Browser tests"
  testgroups show "Browser tests" -o json`,
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

			var data []byte
			switch output {
			case outputYAML:
				data, err = yaml.Marshal(g)
			case outputJSON:
				data, err = json.MarshalIndent(g, "", "  ")
				data = append(data, '\n')
			default:
				return fmt.Errorf("unknown output format %q: expected %s or %s", output, outputYAML, outputJSON)
			}
			if err != nil {
				return fmt.Errorf("failed to encode test group %q: %w", args[0], err)
			}

			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", outputYAML, "Output format (yaml, json)")

	return cmd
}
