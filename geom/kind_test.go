package geom

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindWKT(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{Point, "POINT(100 200)"},
		{LineString, "LINESTRING(100 200)"},
		{Polygon, "POLYGON((100 200))"},
		{MultiPoint, "MULTIPOINT((100 200))"},
		{MultiLineString, "MULTILINESTRING((100 200))"},
		{MultiPolygon, "MULTIPOLYGON(((100 200)))"},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			got, err := tt.kind.WKT("100 200")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKindWKT_Unsupported(t *testing.T) {
	_, err := Kind("CIRCLE").WKT("1 2")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedKind))

	var kindErr *UnsupportedKindError
	require.ErrorAs(t, err, &kindErr)
	assert.Equal(t, "CIRCLE", kindErr.Kind)
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind(" multipolygon ")
	require.NoError(t, err)
	assert.Equal(t, MultiPolygon, k)

	_, err = ParseKind("GEOMETRYCOLLECTION")
	assert.ErrorIs(t, err, ErrUnsupportedKind)
}

func TestSpecExpression(t *testing.T) {
	spec := Spec{Column: "geom", SRID: 25830, Kind: Point}
	assert.Equal(t, "st_geometryfromtext(?,25830)", spec.Expression())
	assert.False(t, spec.Reprojects())

	spec.TargetSRID = 25831
	assert.Equal(t, "st_transform(st_geometryfromtext(?,25830),25831)", spec.Expression())
}

func TestDefaultSpec(t *testing.T) {
	spec := DefaultSpec()
	assert.Equal(t, "geom", spec.Column)
	assert.Equal(t, 25830, spec.SRID)
	assert.Equal(t, Polygon, spec.Kind)
	assert.Zero(t, spec.TargetSRID)
}

func TestFunctionHelpers(t *testing.T) {
	assert.Equal(t, "st_asgeojson(geom)", AsGeoJSON("geom"))
	assert.Equal(t, "st_astext(the_geom)", AsText("the_geom"))
}
