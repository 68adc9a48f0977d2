// Package introspect reads table metadata from the PostgreSQL catalog.
package introspect

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"

	"github.com/satishbabariya/pgops/geom"
	"github.com/satishbabariya/pgops/query/builder"
	"github.com/satishbabariya/pgops/query/executor"
)

// DefaultSchema is used for table names without a schema prefix.
const DefaultSchema = "public"

// Column describes one table column.
type Column struct {
	Name     string
	DataType string
	UDTName  string
	Nullable bool
	Default  *string
}

// IsGeometry reports whether the column holds a PostGIS geometry.
func (c Column) IsGeometry() bool {
	return c.UDTName == "geometry"
}

// GeometryColumn is a row of the PostGIS geometry_columns view.
type GeometryColumn struct {
	Column string
	SRID   int
	Type   string
}

// Introspector runs catalog queries through an executor.
type Introspector struct {
	exec  executor.Execer
	cache *ColumnCache
}

// New creates an introspector.
func New(exec executor.Execer) *Introspector {
	return &Introspector{exec: exec}
}

// WithCache makes ColumnNames serve repeated lookups from cache. Tables that
// do not exist are not cached.
func (i *Introspector) WithCache(cache *ColumnCache) *Introspector {
	i.cache = cache
	return i
}

// Cache returns the column cache, nil when caching is off.
func (i *Introspector) Cache() *ColumnCache {
	return i.cache
}

// SplitTable splits a schema qualified name on its first '.'.
func SplitTable(table string) (schema, name string) {
	if i := strings.IndexByte(table, '.'); i >= 0 {
		return table[:i], table[i+1:]
	}
	return DefaultSchema, table
}

type options struct {
	geoJSON        bool
	geometryColumn string
}

// Option configures ColumnNames.
type Option func(*options)

// WithGeoJSON controls whether the geometry column is replaced by
// st_asgeojson(<column>). Enabled by default.
func WithGeoJSON(enabled bool) Option {
	return func(o *options) {
		o.geoJSON = enabled
	}
}

// WithGeometryColumn sets the column treated as geometry. Defaults to "geom".
func WithGeometryColumn(name string) Option {
	return func(o *options) {
		o.geometryColumn = name
	}
}

// ColumnNamesStatement builds the catalog query used by ColumnNames.
func ColumnNamesStatement(table string) (builder.Statement, error) {
	if table == "" {
		return builder.Statement{}, builder.ErrEmptyTable
	}
	schema, name := SplitTable(table)
	return builder.Statement{
		Kind:  builder.KindIntrospect,
		Table: table,
		SQL: builder.Rebind("SELECT column_name FROM information_schema.columns " +
			"WHERE table_schema=? and table_name = ? ORDER BY ordinal_position"),
		Args: []any{schema, name},
	}, nil
}

// ColumnNames returns the column names of table in ordinal order. The
// geometry column is replaced by its GeoJSON expression unless disabled.
// A table that does not exist and a table without columns both yield nil.
func (i *Introspector) ColumnNames(ctx context.Context, table string, opts ...Option) ([]string, error) {
	o := options{geoJSON: true, geometryColumn: geom.DefaultColumn}
	for _, opt := range opts {
		opt(&o)
	}

	stmt, err := ColumnNamesStatement(table)
	if err != nil {
		return nil, err
	}

	key := tableKey(table) + strconv.FormatBool(o.geoJSON) + "|" + o.geometryColumn
	if i.cache != nil {
		if names, ok := i.cache.Get(key); ok {
			return names, nil
		}
	}

	rows, err := i.exec.Query(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query columns of %s: %w", ErrIntrospectionFailed, table, err)
	}

	var names []string
	for _, row := range rows {
		name, err := text(row[0])
		if err != nil {
			return nil, err
		}
		if o.geoJSON && name == o.geometryColumn {
			name = geom.AsGeoJSON(name)
		}
		names = append(names, name)
	}
	if i.cache != nil && names != nil {
		i.cache.Set(key, names)
	}
	return names, nil
}

// Columns returns full column descriptions of table in ordinal order.
func (i *Introspector) Columns(ctx context.Context, table string) ([]Column, error) {
	if table == "" {
		return nil, builder.ErrEmptyTable
	}
	schema, name := SplitTable(table)
	stmt := builder.Statement{
		Kind:  builder.KindIntrospect,
		Table: table,
		SQL: builder.Rebind(`SELECT column_name, data_type, udt_name, is_nullable, column_default
		FROM information_schema.columns
		WHERE table_schema = ?
		  AND table_name = ?
		ORDER BY ordinal_position`),
		Args: []any{schema, name},
	}

	rows, err := i.exec.Query(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query columns of %s: %w", ErrIntrospectionFailed, table, err)
	}

	var columns []Column
	for _, row := range rows {
		var col Column
		var nullable string
		for idx, dst := range []*string{&col.Name, &col.DataType, &col.UDTName, &nullable} {
			if *dst, err = text(row[idx]); err != nil {
				return nil, err
			}
		}
		col.Nullable = nullable == "YES"
		if row[4] != nil {
			def, err := text(row[4])
			if err != nil {
				return nil, err
			}
			col.Default = &def
		}
		columns = append(columns, col)
	}
	return columns, nil
}

// GeometryColumns returns the geometry columns PostGIS registers for table.
func (i *Introspector) GeometryColumns(ctx context.Context, table string) ([]GeometryColumn, error) {
	if table == "" {
		return nil, builder.ErrEmptyTable
	}
	schema, name := SplitTable(table)
	stmt := builder.Statement{
		Kind:  builder.KindIntrospect,
		Table: table,
		SQL: builder.Rebind(`SELECT f_geometry_column, srid, type
		FROM geometry_columns
		WHERE f_table_schema = ?
		  AND f_table_name = ?
		ORDER BY f_geometry_column`),
		Args: []any{schema, name},
	}

	rows, err := i.exec.Query(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query geometry columns of %s: %w", ErrIntrospectionFailed, table, err)
	}

	var columns []GeometryColumn
	for _, row := range rows {
		var gc GeometryColumn
		if gc.Column, err = text(row[0]); err != nil {
			return nil, err
		}
		if gc.SRID, err = integer(row[1]); err != nil {
			return nil, err
		}
		if gc.Type, err = text(row[2]); err != nil {
			return nil, err
		}
		columns = append(columns, gc)
	}
	return columns, nil
}

// TableExists reports whether table resolves to a relation. Schema and name
// are quoted, so they match case-sensitively like ColumnNames.
func (i *Introspector) TableExists(ctx context.Context, table string) (bool, error) {
	if table == "" {
		return false, builder.ErrEmptyTable
	}
	schema, name := SplitTable(table)
	stmt := builder.Statement{
		Kind:  builder.KindIntrospect,
		Table: table,
		SQL:   builder.Rebind("SELECT to_regclass(?) IS NOT NULL"),
		Args:  []any{pq.QuoteIdentifier(schema) + "." + pq.QuoteIdentifier(name)},
	}

	v, err := i.exec.QueryValue(ctx, stmt)
	if err != nil {
		return false, fmt.Errorf("%w: failed to resolve %s: %w", ErrIntrospectionFailed, table, err)
	}
	exists, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("%w: %T from to_regclass", ErrUnexpectedValue, v)
	}
	return exists, nil
}

func text(v any) (string, error) {
	switch s := v.(type) {
	case string:
		return s, nil
	case []byte:
		return string(s), nil
	default:
		return "", fmt.Errorf("%w: %T", ErrUnexpectedValue, v)
	}
}

func integer(v any) (int, error) {
	switch n := v.(type) {
	case int64:
		return int(n), nil
	case int32:
		return int(n), nil
	case int:
		return n, nil
	case string:
		return strconv.Atoi(n)
	default:
		return 0, fmt.Errorf("%w: %T", ErrUnexpectedValue, v)
	}
}
