package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/pgops/cli/internal/ui"
	"github.com/satishbabariya/pgops/runtime/client"
)

// NewDBCommand creates the parent db command.
func NewDBCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Manage PostGIS databases",
		Long: `Manage PostGIS databases.

create and drop connect to the "postgres" maintenance database with the
configured credentials and run outside of any transaction.`,
	}

	cmd.AddCommand(newDBCreateCommand(a))
	cmd.AddCommand(newDBDropCommand(a))
	cmd.AddCommand(newDBCheckCommand(a))
	return cmd
}

func newDBCreateCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: "Create a database with the postgis extension",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.dryRun {
				ui.PrintInfo("Would create database %s and enable postgis", args[0])
				return nil
			}
			opts, err := a.options()
			if err != nil {
				return err
			}

			spinner, _ := ui.PrintSpinner(fmt.Sprintf("Creating database %s", args[0]))
			err = client.CreateDatabase(cmd.Context(), a.cfg.ConnConfig(), args[0], opts...)
			if spinner != nil {
				_ = spinner.Stop()
			}
			if err != nil {
				return err
			}
			ui.PrintSuccess("Created database %s", args[0])
			return nil
		},
	}
}

func newDBDropCommand(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "drop <name>",
		Short: "Drop a database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.dryRun {
				ui.PrintInfo("Would drop database %s", args[0])
				return nil
			}
			if !yes {
				ok, err := confirm(fmt.Sprintf("Drop database %s? This cannot be undone.", args[0]))
				if err != nil {
					return err
				}
				if !ok {
					ui.PrintInfo("Aborted")
					return nil
				}
			}

			opts, err := a.options()
			if err != nil {
				return err
			}
			if err := client.DropDatabase(cmd.Context(), a.cfg.ConnConfig(), args[0], opts...); err != nil {
				return err
			}
			ui.PrintSuccess("Dropped database %s", args[0])
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func newDBCheckCommand(a *app) *cobra.Command {
	var constraint string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check the connection and the installed PostGIS version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if constraint == "" {
				constraint = a.cfg.PostGISMinVersion
			}

			c, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Close()

			ui.PrintHeader("PostGIS", a.cfg.Database.Name)
			v, err := c.CheckPostGIS(cmd.Context(), constraint)
			if v != nil {
				ui.PrintKeyValue("postgis", v.String())
			}
			if err != nil {
				return err
			}
			ui.PrintSuccess("PostGIS %s satisfies %s", v, constraint)
			return nil
		},
	}

	cmd.Flags().StringVar(&constraint, "min-version", "", `PostGIS version constraint (default from config, ">= 2.0")`)
	return cmd
}
