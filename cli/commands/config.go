package commands

import (
	"github.com/spf13/cobra"

	"github.com/satishbabariya/pgops/cli/internal/config"
	"github.com/satishbabariya/pgops/cli/internal/ui"
)

// NewConfigCommand creates the config command.
func NewConfigCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or save the effective configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the configuration after files, .env and environment are applied",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			source := cfg.File
			if source == "" {
				source = "defaults and environment"
			}
			ui.PrintHeader("pgops config", source)
			conn := cfg.ConnConfig()
			conn.Password = ""
			ui.PrintKeyValue("dsn", conn.DSN())
			if cfg.DatabaseURL != "" {
				ui.PrintKeyValue("DATABASE_URL", "set, overrides dsn")
			}
			ui.PrintKeyValue("geometry", cfg.Geometry.Column)
			ui.PrintKeyValue("kind", cfg.Geometry.Kind)
			ui.PrintKeyValue("srid", cfg.Geometry.SRID)
			ui.PrintKeyValue("target srid", cfg.Geometry.TargetSRID)
			ui.PrintKeyValue("postgis", cfg.PostGISMinVersion)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "save",
		Short: "Write the effective configuration to ~/.config/pgops/.pgops.yaml",
		Long: `Write the effective configuration to ~/.config/pgops/.pgops.yaml.

The database password is never written; set PGOPS_DATABASE_PASSWORD instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.SaveConfig(a.cfg)
			if err != nil {
				return err
			}
			ui.PrintSuccess("Saved %s", path)
			return nil
		},
	})

	return cmd
}
