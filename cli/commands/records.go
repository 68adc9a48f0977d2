package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/satishbabariya/pgops/cli/internal/config"
	"github.com/satishbabariya/pgops/geom"
	"github.com/satishbabariya/pgops/query/fields"
)

// recordFlags are the flags shared by insert and update.
type recordFlags struct {
	data       string
	set        []string
	remove     []string
	noGeometry bool
	geomColumn string
	srid       int
	kind       string
	targetSRID int
}

func (f *recordFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.data, "data", "", `record as a JSON object, or @file to read it from a file`)
	flags.StringArrayVar(&f.set, "set", nil, "column=value pair, repeatable; applied after --data")
	flags.StringSliceVar(&f.remove, "remove", nil, "columns to drop from the record")
	flags.BoolVar(&f.noGeometry, "no-geometry", false, "do not treat any column as geometry")
	flags.StringVar(&f.geomColumn, "geom-column", "", "geometry column (overrides config)")
	flags.IntVar(&f.srid, "srid", 0, "SRID of the given coordinates (overrides config)")
	flags.StringVar(&f.kind, "kind", "", "geometry kind: POINT, LINESTRING, POLYGON, MULTIPOINT, MULTILINESTRING, MULTIPOLYGON")
	flags.IntVar(&f.targetSRID, "target-srid", 0, "reproject to this SRID with st_transform")
}

// spec merges the configured geometry with flag overrides.
func (f *recordFlags) spec(cfg *config.Config) (*geom.Spec, error) {
	if f.noGeometry {
		return nil, nil
	}
	spec, err := cfg.GeometrySpec()
	if err != nil {
		return nil, err
	}
	if f.geomColumn != "" {
		spec.Column = f.geomColumn
	}
	if f.srid != 0 {
		spec.SRID = f.srid
	}
	if f.kind != "" {
		if spec.Kind, err = geom.ParseKind(f.kind); err != nil {
			return nil, err
		}
	}
	if f.targetSRID != 0 {
		spec.TargetSRID = f.targetSRID
	}
	return spec, nil
}

// record parses --data and --set into an ordered field set.
func (f *recordFlags) record() (*fields.Set, error) {
	set := fields.NewSet()

	if data := strings.TrimSpace(f.data); data != "" {
		raw := []byte(data)
		if strings.HasPrefix(data, "@") {
			var err error
			if raw, err = afero.ReadFile(config.AppFs, data[1:]); err != nil {
				return nil, fmt.Errorf("failed to read record: %w", err)
			}
		}
		if err := set.UnmarshalJSON(raw); err != nil {
			return nil, fmt.Errorf("invalid --data: %w", err)
		}
	}

	for _, pair := range f.set {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("invalid --set %q, expected column=value", pair)
		}
		set.Set(strings.TrimSpace(name), value)
	}
	return set, nil
}

// compile turns the flags into a compiled record.
func (f *recordFlags) compile(cfg *config.Config) (*fields.Compiled, error) {
	set, err := f.record()
	if err != nil {
		return nil, err
	}
	spec, err := f.spec(cfg)
	if err != nil {
		return nil, err
	}
	return fields.Compile(set, f.remove, spec)
}

// whereFlags are the flags shared by update, delete and select.
type whereFlags struct {
	where string
	args  []string
}

func (f *whereFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.where, "where", "", `filter appended verbatim, e.g. "where gid=?"`)
	cmd.Flags().StringArrayVar(&f.args, "arg", nil, "value bound to the next ? in --where, repeatable")
}

func (f *whereFlags) values() []any {
	if len(f.args) == 0 {
		return nil
	}
	values := make([]any, len(f.args))
	for i, a := range f.args {
		values[i] = a
	}
	return values
}
