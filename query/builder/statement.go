// Package builder builds parameterized PostgreSQL statements from compiled field records.
//
// Builders write "?" as the placeholder marker, both in compiled value
// expressions and in caller supplied WHERE clauses, and rewrite the markers to
// $1..$n from left to right. Values being set therefore always bind before
// WHERE arguments. Markers inside single-quoted literals are left alone.
package builder

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

// Sentinel errors for statement construction.
var (
	// ErrEmptyTable indicates a missing table name.
	ErrEmptyTable = errors.New("builder: table name is required")

	// ErrNoFields indicates an UPDATE with nothing to set.
	ErrNoFields = errors.New("builder: no fields to set")

	// ErrNoColumns indicates a SELECT with an empty column list.
	ErrNoColumns = errors.New("builder: no columns to select")
)

// Kind identifies the statement type.
type Kind string

const (
	KindInsert     Kind = "insert"
	KindUpdate     Kind = "update"
	KindDelete     Kind = "delete"
	KindSelect     Kind = "select"
	KindIntrospect Kind = "introspect"
	KindAdmin      Kind = "admin"
)

// Statement is SQL text plus its positional arguments.
type Statement struct {
	Kind  Kind
	Table string
	SQL   string
	Args  []any
}

// String returns the SQL text.
func (s Statement) String() string {
	return s.SQL
}

// literalMarker stands in for "?" inside string literals while rebinding.
// PostgreSQL text values cannot contain NUL.
const literalMarker = "\x00"

// Rebind rewrites "?" markers outside single-quoted literals to PostgreSQL $n
// placeholders.
func Rebind(query string) string {
	masked, _ := maskLiterals(query)
	return strings.ReplaceAll(sqlx.Rebind(sqlx.DOLLAR, masked), literalMarker, "?")
}

// maskLiterals replaces "?" inside single-quoted literals with literalMarker
// and counts the markers left outside them. A doubled quote inside a literal
// closes and reopens it, which leaves the literal state unchanged.
func maskLiterals(query string) (string, int) {
	var sb strings.Builder
	sb.Grow(len(query))

	inLiteral, markers := false, 0
	for _, r := range query {
		switch {
		case r == '\'':
			inLiteral = !inLiteral
		case r == '?' && inLiteral:
			sb.WriteString(literalMarker)
			continue
		case r == '?':
			markers++
		}
		sb.WriteRune(r)
	}
	return sb.String(), markers
}

// countPlaceholders returns the number of "?" markers outside string literals.
func countPlaceholders(query string) int {
	_, n := maskLiterals(query)
	return n
}

func newStatement(kind Kind, table, query string, args []any) Statement {
	return Statement{
		Kind:  kind,
		Table: table,
		SQL:   query,
		Args:  args,
	}
}

func checkTable(table string) error {
	if table == "" {
		return ErrEmptyTable
	}
	return nil
}

func placeholderCountError(kind Kind, want, got int) error {
	return fmt.Errorf("builder: %s statement has %d placeholders but %d arguments", kind, want, got)
}
