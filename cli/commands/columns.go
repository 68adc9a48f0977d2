package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/pgops/cli/internal/ui"
	"github.com/satishbabariya/pgops/migrate/introspect"
)

// NewColumnsCommand creates the columns command.
func NewColumnsCommand(a *app) *cobra.Command {
	var noGeoJSON bool
	var geomColumn string
	var detail bool

	cmd := &cobra.Command{
		Use:   "columns <table>",
		Short: "List the columns of a table",
		Long: `List the columns of a table in ordinal order.

The geometry column is shown as st_asgeojson(<column>), the expression
select uses by default. Use --detail for types and registered geometries.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table := args[0]
			if a.dryRun {
				stmt, err := introspect.ColumnNamesStatement(table)
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

			if detail {
				return printColumnDetail(cmd, c.Introspector(), table)
			}

			column := a.cfg.Geometry.Column
			if geomColumn != "" {
				column = geomColumn
			}
			names, err := c.ColumnNames(cmd.Context(), table,
				introspect.WithGeoJSON(!noGeoJSON),
				introspect.WithGeometryColumn(column))
			if err != nil {
				return err
			}
			if names == nil {
				ui.PrintWarning("Table %s does not exist or has no columns", table)
				return nil
			}
			for _, name := range names {
				fmt.Fprintln(ui.Out, name)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&noGeoJSON, "no-geojson", false, "show the geometry column by its plain name")
	cmd.Flags().StringVar(&geomColumn, "geom-column", "", "geometry column (overrides config)")
	cmd.Flags().BoolVar(&detail, "detail", false, "show data types and geometry metadata")
	return cmd
}

func printColumnDetail(cmd *cobra.Command, in *introspect.Introspector, table string) error {
	ctx := cmd.Context()

	exists, err := in.TableExists(ctx, table)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("table %s does not exist", table)
	}

	columns, err := in.Columns(ctx, table)
	if err != nil {
		return err
	}
	geoms, err := in.GeometryColumns(ctx, table)
	if err != nil {
		return err
	}
	ui.PrintHeader(table, fmt.Sprintf("%d columns, %d geometry", len(columns), len(geoms)))

	byName := make(map[string]introspect.GeometryColumn, len(geoms))
	for _, g := range geoms {
		byName[g.Column] = g
	}

	rows := make([][]string, 0, len(columns))
	for _, col := range columns {
		geometry := ""
		if g, ok := byName[col.Name]; ok {
			geometry = g.Type + " / " + strconv.Itoa(g.SRID)
		}
		def := ""
		if col.Default != nil {
			def = *col.Default
		}
		rows = append(rows, []string{col.Name, col.UDTName, strconv.FormatBool(col.Nullable), def, geometry})
	}
	return ui.PrintTable([]string{"column", "type", "nullable", "default", "geometry"}, rows)
}
