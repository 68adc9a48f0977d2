package fields

import (
	"errors"
	"fmt"
)

// Sentinel errors for compile failures.
var (
	// ErrUnknownField indicates a removal list named a column that is not in the set.
	ErrUnknownField = errors.New("fields: unknown field")

	// ErrInvalidGeometryValue indicates the geometry column holds something other than a coordinate string.
	ErrInvalidGeometryValue = errors.New("fields: geometry value must be a coordinate string")

	// ErrMisalignedFields indicates columns, values and expressions differ in length.
	ErrMisalignedFields = errors.New("fields: columns, values and expressions are not aligned")

	// ErrDuplicateColumn indicates the same column appears twice in a pre-built record.
	ErrDuplicateColumn = errors.New("fields: duplicate column")
)

// UnknownFieldError names the column that could not be removed.
type UnknownFieldError struct {
	Name string
}

// Error implements the error interface.
func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("fields: cannot remove %q: not present in the field set", e.Name)
}

// Unwrap returns ErrUnknownField.
func (e *UnknownFieldError) Unwrap() error {
	return ErrUnknownField
}
