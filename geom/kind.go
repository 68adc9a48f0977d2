// Package geom builds PostGIS geometry literals and expressions.
package geom

import "strings"

// Kind is a WKT geometry type name.
type Kind string

const (
	Point           Kind = "POINT"
	LineString      Kind = "LINESTRING"
	Polygon         Kind = "POLYGON"
	MultiPoint      Kind = "MULTIPOINT"
	MultiLineString Kind = "MULTILINESTRING"
	MultiPolygon    Kind = "MULTIPOLYGON"
)

// Kinds lists every supported kind.
var Kinds = []Kind{Point, LineString, Polygon, MultiPoint, MultiLineString, MultiPolygon}

// envelopes holds the opening and closing text wrapped around a coordinate string.
var envelopes = map[Kind][2]string{
	Point:           {"POINT(", ")"},
	LineString:      {"LINESTRING(", ")"},
	Polygon:         {"POLYGON((", "))"},
	MultiPoint:      {"MULTIPOINT((", "))"},
	MultiLineString: {"MULTILINESTRING((", "))"},
	MultiPolygon:    {"MULTIPOLYGON(((", ")))"},
}

// ParseKind parses a kind name, ignoring case and surrounding space.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToUpper(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", &UnsupportedKindError{Kind: s}
	}
	return k, nil
}

// Valid reports whether k is a supported kind.
func (k Kind) Valid() bool {
	_, ok := envelopes[k]
	return ok
}

// String returns the WKT type name.
func (k Kind) String() string {
	return string(k)
}

// WKT wraps a coordinate string in the envelope for k,
// e.g. "1 2,3 4,5 6,1 2" becomes "POLYGON((1 2,3 4,5 6,1 2))".
func (k Kind) WKT(coords string) (string, error) {
	env, ok := envelopes[k]
	if !ok {
		return "", &UnsupportedKindError{Kind: string(k)}
	}
	return env[0] + coords + env[1], nil
}
