package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/pgops/cli/internal/ui"
	"github.com/satishbabariya/pgops/cli/internal/version"
)

// NewVersionCommand creates the version command.
func NewVersionCommand() *cobra.Command {
	var require string

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := version.Get()
			if require == "" {
				fmt.Fprintln(ui.Out, info.FullString())
				return nil
			}

			ok, err := info.Satisfies(require)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("pgops %s does not satisfy %s", info.Version, require)
			}
			ui.PrintSuccess("pgops %s satisfies %s", info.Version, require)
			return nil
		},
	}

	cmd.Flags().StringVar(&require, "require", "", `fail unless the version satisfies this constraint, e.g. ">= 0.1"`)
	return cmd
}
