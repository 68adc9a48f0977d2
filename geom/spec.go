package geom

import "fmt"

// Placeholder is the positional parameter marker used in generated expressions.
const Placeholder = "?"

// Defaults used by DefaultSpec.
const (
	DefaultColumn = "geom"
	DefaultSRID   = 25830
)

// Spec describes how the geometry column of a field set is converted.
type Spec struct {
	// Column is the geometry column name.
	Column string
	// SRID is the coordinate system the incoming coordinates are expressed in.
	SRID int
	// Kind is the WKT geometry type used to wrap the coordinates.
	Kind Kind
	// TargetSRID, when non-zero, reprojects the geometry with st_transform.
	TargetSRID int
}

// DefaultSpec returns a spec for a POLYGON column named geom in EPSG:25830.
func DefaultSpec() Spec {
	return Spec{
		Column: DefaultColumn,
		SRID:   DefaultSRID,
		Kind:   Polygon,
	}
}

// Reprojects reports whether geometries are transformed to another SRID.
func (s Spec) Reprojects() bool {
	return s.TargetSRID != 0
}

// Expression returns the value expression for the geometry column:
// st_geometryfromtext(?,srid), nested in st_transform(...,target) when reprojecting.
func (s Spec) Expression() string {
	expr := FromText(Placeholder, s.SRID)
	if s.Reprojects() {
		expr = Transform(expr, s.TargetSRID)
	}
	return expr
}

// FromText returns st_geometryfromtext(arg,srid).
func FromText(arg string, srid int) string {
	return fmt.Sprintf("st_geometryfromtext(%s,%d)", arg, srid)
}

// Transform returns st_transform(expr,srid).
func Transform(expr string, srid int) string {
	return fmt.Sprintf("st_transform(%s,%d)", expr, srid)
}

// AsGeoJSON returns st_asgeojson(column).
func AsGeoJSON(column string) string {
	return fmt.Sprintf("st_asgeojson(%s)", column)
}

// AsText returns st_astext(column).
func AsText(column string) string {
	return fmt.Sprintf("st_astext(%s)", column)
}
