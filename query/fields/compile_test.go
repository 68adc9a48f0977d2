package fields

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/pgops/geom"
)

func pointSpec(target int) *geom.Spec {
	return &geom.Spec{Column: "geom", SRID: 25830, Kind: geom.Point, TargetSRID: target}
}

func TestCompile_PreservesSetOrder(t *testing.T) {
	set := NewSet().
		Set("description", "water well").
		Set("depth", 12.15).
		Set("gid", 7)

	c, err := Compile(set, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"description", "depth", "gid"}, c.Columns)
	assert.Equal(t, []any{"water well", 12.15, 7}, c.Values)
	assert.Equal(t, []string{"?", "?", "?"}, c.Expressions)
	require.NoError(t, c.Validate())
}

func TestCompile_Empty(t *testing.T) {
	c, err := Compile(NewSet(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, c.Len())
	assert.Empty(t, c.Columns)
	assert.Empty(t, c.Values)
	assert.Empty(t, c.Expressions)

	c, err = Compile(nil, nil, pointSpec(0))
	require.NoError(t, err)
	assert.Equal(t, 0, c.Len())
}

func TestCompile_Remove(t *testing.T) {
	set := NewSet().
		Set("gid", 1).
		Set("description", "water well").
		Set("depth", 12.15)

	c, err := Compile(set, []string{"gid"}, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, c.Len())
	assert.NotContains(t, c.Columns, "gid")
	assert.Equal(t, []any{"water well", 12.15}, c.Values)
	assert.Len(t, c.Expressions, 2)

	// the caller's set is not modified
	assert.True(t, set.Has("gid"))
	assert.Equal(t, 3, set.Len())
}

func TestCompile_RemoveUnknown(t *testing.T) {
	set := NewSet().Set("description", "x")

	_, err := Compile(set, []string{"depth"}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownField)

	var unknown *UnknownFieldError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "depth", unknown.Name)
}

func TestCompile_EmptyStringBecomesNull(t *testing.T) {
	set := NewSet().
		Set("description", "").
		Set("depth", nil).
		Set("name", "well")

	c, err := Compile(set, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []any{nil, nil, "well"}, c.Values)
}

func TestCompile_Geometry(t *testing.T) {
	set := NewSet().Set("geom", "100 200")

	c, err := Compile(set, nil, pointSpec(0))
	require.NoError(t, err)

	assert.Equal(t, []string{"geom"}, c.Columns)
	assert.Equal(t, []any{"POINT(100 200)"}, c.Values)
	assert.Equal(t, []string{"st_geometryfromtext(?,25830)"}, c.Expressions)
}

func TestCompile_GeometryReprojected(t *testing.T) {
	set := NewSet().
		Set("description", "water well").
		Set("depth", 12.15).
		Set("geom", "100 200")

	c, err := Compile(set, []string{"depth"}, pointSpec(25831))
	require.NoError(t, err)

	assert.Equal(t, "description,geom", c.ColumnList())
	assert.Equal(t, []any{"water well", "POINT(100 200)"}, c.Values)
	assert.Equal(t, "?,st_transform(st_geometryfromtext(?,25830),25831)", c.ExpressionList())
}

func TestCompile_GeometryKinds(t *testing.T) {
	tests := []struct {
		kind geom.Kind
		want string
	}{
		{geom.LineString, "LINESTRING(1 2,3 4)"},
		{geom.Polygon, "POLYGON((1 2,3 4))"},
		{geom.MultiPoint, "MULTIPOINT((1 2,3 4))"},
		{geom.MultiLineString, "MULTILINESTRING((1 2,3 4))"},
		{geom.MultiPolygon, "MULTIPOLYGON(((1 2,3 4)))"},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			spec := &geom.Spec{Column: "geom", SRID: 4326, Kind: tt.kind}
			c, err := Compile(NewSet().Set("geom", "1 2,3 4"), nil, spec)
			require.NoError(t, err)
			assert.Equal(t, []any{tt.want}, c.Values)
		})
	}
}

func TestCompile_UnsupportedKind(t *testing.T) {
	spec := &geom.Spec{Column: "geom", SRID: 4326, Kind: "CIRCLE"}

	_, err := Compile(NewSet().Set("geom", "1 2"), nil, spec)
	assert.ErrorIs(t, err, geom.ErrUnsupportedKind)

	// nothing to wrap, nothing to reject
	c, err := Compile(NewSet().Set("geom", ""), nil, spec)
	require.NoError(t, err)
	assert.Equal(t, []any{nil}, c.Values)
	assert.Equal(t, []string{"st_geometryfromtext(?,4326)"}, c.Expressions)
}

func TestCompile_GeometryColumnAbsent(t *testing.T) {
	c, err := Compile(NewSet().Set("description", "x"), nil, pointSpec(25831))
	require.NoError(t, err)
	assert.Equal(t, []string{"?"}, c.Expressions)
}

func TestCompile_InvalidGeometryValue(t *testing.T) {
	_, err := Compile(NewSet().Set("geom", 42), nil, pointSpec(0))
	assert.ErrorIs(t, err, ErrInvalidGeometryValue)
}

func TestCompile_SharedByInsertAndUpdate(t *testing.T) {
	set := NewSet().Set("geom", "300 300").Set("description", "water well2")

	first, err := Compile(set, nil, pointSpec(25831))
	require.NoError(t, err)
	second, err := Compile(set, nil, pointSpec(25831))
	require.NoError(t, err)

	assert.Equal(t, first, second)
	v, _ := set.Get("geom")
	assert.Equal(t, "300 300", v)
}

func TestSet_UnmarshalJSONKeepsOrder(t *testing.T) {
	var set Set
	err := json.Unmarshal([]byte(`{"geom": "100 200", "description": "water well", "depth": 12.15, "note": null}`), &set)
	require.NoError(t, err)

	assert.Equal(t, []string{"geom", "description", "depth", "note"}, set.Names())
	depth, _ := set.Get("depth")
	assert.Equal(t, json.Number("12.15"), depth)
	note, ok := set.Get("note")
	assert.True(t, ok)
	assert.Nil(t, note)
}

func TestSet_UnmarshalJSONRejectsArrays(t *testing.T) {
	var set Set
	assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &set))
}

func TestSet_ReplaceKeepsPosition(t *testing.T) {
	set := NewSet().Set("a", 1).Set("b", 2).Set("a", 3)
	assert.Equal(t, []string{"a", "b"}, set.Names())
	v, _ := set.Get("a")
	assert.Equal(t, 3, v)
}

func TestFromMap_SortsColumns(t *testing.T) {
	set := FromMap(map[string]any{"geom": "1 2", "depth": 1.5, "description": "x"})
	assert.Equal(t, []string{"depth", "description", "geom"}, set.Names())
}
