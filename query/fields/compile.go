package fields

import (
	"fmt"
	"strings"

	"github.com/satishbabariya/pgops/geom"
)

// Compiled holds three index-aligned lists: Columns[i] is bound to Values[i]
// through Expressions[i].
type Compiled struct {
	Columns     []string
	Values      []any
	Expressions []string
}

// Len returns the number of compiled columns.
func (c *Compiled) Len() int {
	return len(c.Columns)
}

// ColumnList returns the comma separated column names.
func (c *Compiled) ColumnList() string {
	return strings.Join(c.Columns, ",")
}

// ExpressionList returns the comma separated value expressions.
func (c *Compiled) ExpressionList() string {
	return strings.Join(c.Expressions, ",")
}

// Validate checks the alignment invariant and column uniqueness.
func (c *Compiled) Validate() error {
	if len(c.Columns) != len(c.Values) || len(c.Columns) != len(c.Expressions) {
		return fmt.Errorf("%w: %d columns, %d values, %d expressions",
			ErrMisalignedFields, len(c.Columns), len(c.Values), len(c.Expressions))
	}

	seen := make(map[string]struct{}, len(c.Columns))
	for _, col := range c.Columns {
		if _, ok := seen[col]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateColumn, col)
		}
		seen[col] = struct{}{}
	}
	return nil
}

// Compile turns a field set into a Compiled record.
//
// Columns listed in remove are dropped first; naming a column that is not in
// the set fails with *UnknownFieldError. When spec is non-nil and its column
// holds a non-empty coordinate string, the coordinates are wrapped in the WKT
// envelope of spec.Kind and the column's expression becomes spec.Expression().
// Empty strings are bound as NULL. The caller's set is left untouched.
func Compile(set *Set, remove []string, spec *geom.Spec) (*Compiled, error) {
	work := NewSet()
	if set != nil {
		work = set.Clone()
	}

	for _, name := range remove {
		if !work.Delete(name) {
			return nil, &UnknownFieldError{Name: name}
		}
	}

	if spec != nil {
		if v, ok := work.Get(spec.Column); ok && !isEmpty(v) {
			coords, err := geometryText(v)
			if err != nil {
				return nil, err
			}
			wkt, err := spec.Kind.WKT(coords)
			if err != nil {
				return nil, err
			}
			work.Set(spec.Column, wkt)
		}
	}

	n := work.Len()
	c := &Compiled{
		Columns:     make([]string, 0, n),
		Values:      make([]any, 0, n),
		Expressions: make([]string, 0, n),
	}

	for _, name := range work.names {
		value := work.values[name]
		if s, ok := value.(string); ok && s == "" {
			value = nil
		}

		expr := geom.Placeholder
		if spec != nil && name == spec.Column {
			expr = spec.Expression()
		}

		c.Columns = append(c.Columns, name)
		c.Values = append(c.Values, value)
		c.Expressions = append(c.Expressions, expr)
	}

	return c, nil
}

func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}

func geometryText(v any) (string, error) {
	switch g := v.(type) {
	case string:
		return g, nil
	case []byte:
		return string(g), nil
	case fmt.Stringer:
		return g.String(), nil
	default:
		return "", fmt.Errorf("%w: got %T", ErrInvalidGeometryValue, v)
	}
}
