package geom

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedKind is returned when a geometry kind is not one of the six WKT kinds handled here.
	ErrUnsupportedKind = errors.New("geom: unsupported geometry kind")

	// ErrOddCoordinates is returned when a coordinate list cannot be split into x/y pairs.
	ErrOddCoordinates = errors.New("geom: odd number of coordinates")

	// ErrNoCoordinates is returned for an empty coordinate list.
	ErrNoCoordinates = errors.New("geom: no coordinates")
)

// UnsupportedKindError reports the offending geometry kind.
type UnsupportedKindError struct {
	Kind string
}

// Error implements the error interface.
func (e *UnsupportedKindError) Error() string {
	return fmt.Sprintf("geom: unsupported geometry kind %q", e.Kind)
}

// Unwrap returns ErrUnsupportedKind.
func (e *UnsupportedKindError) Unwrap() error {
	return ErrUnsupportedKind
}
