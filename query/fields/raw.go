package fields

import (
	"fmt"
	"strings"
)

// New builds a Compiled record from already aligned lists.
func New(columns []string, values []any, expressions []string) (*Compiled, error) {
	c := &Compiled{
		Columns:     append([]string(nil), columns...),
		Values:      append([]any(nil), values...),
		Expressions: append([]string(nil), expressions...),
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Raw builds a Compiled record from comma separated column and expression
// strings, e.g.
//
//	Raw("depth, description, geom",
//	    []any{12.15, "water well", "POINT(100 200)"},
//	    "?,?,st_transform(st_geometryfromtext(?,25830),25831)")
//
// Commas inside parentheses or quotes do not split expressions.
func Raw(columns string, values []any, expressions string) (*Compiled, error) {
	cols := splitTopLevel(columns)
	exprs := splitTopLevel(expressions)
	if len(cols) == 0 && len(exprs) == 0 && len(values) == 0 {
		return &Compiled{}, nil
	}
	c, err := New(cols, values, exprs)
	if err != nil {
		return nil, fmt.Errorf("raw fields: %w", err)
	}
	return c, nil
}

// splitTopLevel splits s on commas that are not nested in parentheses or
// single/double quotes, trimming surrounding space from each part.
func splitTopLevel(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	var (
		parts []string
		depth int
		quote rune
		start int
	)
	for i, r := range s {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '\'' || r == '"':
			quote = r
		case r == '(':
			depth++
		case r == ')':
			if depth > 0 {
				depth--
			}
		case r == ',' && depth == 0:
			parts = append(parts, strings.TrimSpace(s[start:i]))
			start = i + 1
		}
	}
	return append(parts, strings.TrimSpace(s[start:]))
}
