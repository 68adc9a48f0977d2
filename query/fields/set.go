// Package fields compiles column/value sets into the ordered column, value and
// expression lists used by the statement builders.
package fields

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Set is an insertion-ordered mapping from column name to value.
// Compiled output follows this order.
type Set struct {
	names  []string
	values map[string]any
}

// NewSet creates an empty set.
func NewSet() *Set {
	return &Set{values: make(map[string]any)}
}

// FromMap builds a set from a Go map. Map iteration order is random, so
// columns are ordered lexicographically.
func FromMap(m map[string]any) *Set {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	s := NewSet()
	for _, name := range names {
		s.Set(name, m[name])
	}
	return s
}

// Set adds or replaces a column value. A replaced column keeps its position.
func (s *Set) Set(name string, value any) *Set {
	if s.values == nil {
		s.values = make(map[string]any)
	}
	if _, ok := s.values[name]; !ok {
		s.names = append(s.names, name)
	}
	s.values[name] = value
	return s
}

// Get returns the value for name.
func (s *Set) Get(name string) (any, bool) {
	v, ok := s.values[name]
	return v, ok
}

// Has reports whether name is in the set.
func (s *Set) Has(name string) bool {
	_, ok := s.values[name]
	return ok
}

// Delete removes name and reports whether it was present.
func (s *Set) Delete(name string) bool {
	if !s.Has(name) {
		return false
	}
	delete(s.values, name)
	for i, n := range s.names {
		if n == name {
			s.names = append(s.names[:i], s.names[i+1:]...)
			break
		}
	}
	return true
}

// Len returns the number of columns.
func (s *Set) Len() int {
	return len(s.names)
}

// Names returns the column names in order.
func (s *Set) Names() []string {
	return append([]string(nil), s.names...)
}

// Clone returns a shallow copy.
func (s *Set) Clone() *Set {
	c := &Set{
		names:  append([]string(nil), s.names...),
		values: make(map[string]any, len(s.values)),
	}
	for k, v := range s.values {
		c.values[k] = v
	}
	return c
}

// UnmarshalJSON decodes a JSON object keeping the document's key order.
// Numbers are decoded as json.Number.
func (s *Set) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("fields: expected a JSON object, got %v", tok)
	}

	*s = Set{values: make(map[string]any)}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("fields: expected an object key, got %v", tok)
		}

		var value any
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("fields: decoding %q: %w", name, err)
		}
		s.Set(name, value)
	}

	_, err = dec.Token()
	return err
}
