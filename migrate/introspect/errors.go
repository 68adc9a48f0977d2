package introspect

import "errors"

var (
	// ErrIntrospectionFailed wraps failures reading the catalog.
	ErrIntrospectionFailed = errors.New("database introspection failed")

	// ErrUnexpectedValue indicates a catalog value of an unexpected type.
	ErrUnexpectedValue = errors.New("unexpected catalog value")
)
