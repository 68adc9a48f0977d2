package commands

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/satishbabariya/pgops/cli/internal/ui"
	"github.com/satishbabariya/pgops/migrate/introspect"
	"github.com/satishbabariya/pgops/query/builder"
)

// confirm asks a yes/no question on the terminal.
var confirm = func(message string) (bool, error) {
	ok := false
	err := survey.AskOne(&survey.Confirm{Message: message, Default: false}, &ok)
	return ok, err
}

// NewInsertCommand creates the insert command.
func NewInsertCommand(a *app) *cobra.Command {
	var rf recordFlags
	var returning string

	cmd := &cobra.Command{
		Use:   "insert <table>",
		Short: "Insert one row",
		Example: `  pgops insert d.points --data '{"geom":"100 200","description":"well"}' --kind point --returning gid
  pgops insert d.parcels --set description=plot --set geom="0 0,0 1,1 1,0 0"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			compiled, err := rf.compile(a.cfg)
			if err != nil {
				return err
			}
			if a.dryRun {
				stmt, err := builder.Insert(args[0], compiled, returning)
				if err != nil {
					return err
				}
				return ui.PrintSQL(stmt.SQL, stmt.Args)
			}

			c, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Close()

			res, err := c.Insert(cmd.Context(), args[0], compiled, returning)
			if err != nil {
				return err
			}
			if res.Rows != nil {
				return ui.PrintJSON(res.Rows)
			}
			ui.PrintSuccess("Inserted %d row(s) into %s", res.RowsAffected, args[0])
			return nil
		},
	}

	rf.register(cmd)
	cmd.Flags().StringVar(&returning, "returning", "", "RETURNING clause, e.g. gid")
	return cmd
}

// NewUpdateCommand creates the update command.
func NewUpdateCommand(a *app) *cobra.Command {
	var rf recordFlags
	var wf whereFlags

	cmd := &cobra.Command{
		Use:     "update <table>",
		Short:   "Update rows",
		Example: `  pgops update d.points --set description=moved --where "where gid=?" --arg 1`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			compiled, err := rf.compile(a.cfg)
			if err != nil {
				return err
			}
			if a.dryRun {
				stmt, err := builder.Update(args[0], compiled, wf.where, wf.values())
				if err != nil {
					return err
				}
				return ui.PrintSQL(stmt.SQL, stmt.Args)
			}
			if wf.where == "" {
				ui.PrintWarning("No --where given, every row of %s will be updated", args[0])
			}

			c, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Close()

			res, err := c.Update(cmd.Context(), args[0], compiled, wf.where, wf.values()...)
			if err != nil {
				return err
			}
			ui.PrintSuccess("Updated %d row(s) in %s", res.RowsAffected, args[0])
			return nil
		},
	}

	rf.register(cmd)
	wf.register(cmd)
	return cmd
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(a *app) *cobra.Command {
	var wf whereFlags
	var yes bool

	cmd := &cobra.Command{
		Use:     "delete <table>",
		Short:   "Delete rows",
		Example: `  pgops delete d.points --where "where gid=?" --arg 1`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stmt, err := builder.Delete(args[0], wf.where, wf.values())
			if err != nil {
				return err
			}
			if a.dryRun {
				return ui.PrintSQL(stmt.SQL, stmt.Args)
			}

			if wf.where == "" && !yes {
				ok, err := confirm(fmt.Sprintf("Delete every row of %s?", args[0]))
				if err != nil {
					return err
				}
				if !ok {
					ui.PrintInfo("Aborted")
					return nil
				}
			}

			c, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Close()

			res, err := c.Delete(cmd.Context(), args[0], wf.where, wf.values()...)
			if err != nil {
				return err
			}
			ui.PrintSuccess("Deleted %d row(s) from %s", res.RowsAffected, args[0])
			return nil
		},
	}

	wf.register(cmd)
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask before deleting every row")
	return cmd
}

// NewSelectCommand creates the select command.
func NewSelectCommand(a *app) *cobra.Command {
	var wf whereFlags
	var columns string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "select <table>",
		Short: fmt.Sprintf("Select up to %d rows", builder.SelectPageSize),
		Long: fmt.Sprintf(`Select up to %d rows aggregated to JSON.

Without --columns every column is selected and the geometry column is
returned as GeoJSON.`, builder.SelectPageSize),
		Example: `  pgops select d.points --columns "gid,st_astext(geom)" --where "where gid > ?" --arg 10`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table := args[0]
			if a.dryRun {
				cols := columns
				if cols == "" {
					cols = "*"
				}
				stmt, err := builder.Select(table, cols, wf.where, wf.values())
				if err != nil {
					return err
				}
				return ui.PrintSQL(stmt.SQL, stmt.Args)
			}

			c, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Close()

			cols := columns
			if cols == "" {
				names, err := c.ColumnNames(cmd.Context(), table, introspect.WithGeometryColumn(a.cfg.Geometry.Column))
				if err != nil {
					return err
				}
				if names == nil {
					return fmt.Errorf("table %s does not exist or has no columns", table)
				}
				cols = builder.SelectColumns(names...)
			}

			res, err := c.Select(cmd.Context(), table, cols, wf.where, wf.values()...)
			if err != nil {
				return err
			}
			if asJSON {
				return ui.PrintJSON(res.Rows)
			}
			if len(res.Rows) >= builder.SelectPageSize {
				ui.PrintWarning("Showing the first %d rows only", builder.SelectPageSize)
			}
			return ui.PrintRows(res.Rows)
		},
	}

	wf.register(cmd)
	cmd.Flags().StringVar(&columns, "columns", "", "comma separated column expressions")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print rows as JSON")
	return cmd
}
