package builder

import (
	"fmt"
	"strings"

	"github.com/satishbabariya/pgops/query/fields"
)

const (
	// SelectPageSize caps the rows returned by Select. It is fixed; callers
	// needing more rows must page with their own WHERE clause.
	SelectPageSize = 100

	// SelectAlias names the row set aggregated by Select.
	SelectAlias = "registros"
)

// Insert builds
//
//	INSERT INTO <table> (<columns>) VALUES (<expressions>)[ RETURNING <returning>]
//
// An empty record inserts DEFAULT VALUES.
func Insert(table string, c *fields.Compiled, returning string) (Statement, error) {
	if err := checkTable(table); err != nil {
		return Statement{}, err
	}
	if c == nil {
		c = &fields.Compiled{}
	}
	if err := c.Validate(); err != nil {
		return Statement{}, err
	}

	var sb strings.Builder
	sb.WriteString("INSERT INTO ")
	sb.WriteString(table)
	if c.Len() == 0 {
		sb.WriteString(" DEFAULT VALUES")
	} else {
		fmt.Fprintf(&sb, " (%s) VALUES (%s)", c.ColumnList(), c.ExpressionList())
	}
	if returning = strings.TrimSpace(returning); returning != "" {
		sb.WriteString(" RETURNING ")
		sb.WriteString(returning)
	}

	return checked(newStatement(KindInsert, table, sb.String(), append([]any(nil), c.Values...)))
}

// Update builds
//
//	UPDATE <table> SET (<columns>) = (<expressions>)[ <where>]
//
// where is appended verbatim and may contain "?" markers bound to whereArgs.
// Without a where clause every row of the table is updated.
func Update(table string, c *fields.Compiled, where string, whereArgs []any) (Statement, error) {
	if err := checkTable(table); err != nil {
		return Statement{}, err
	}
	if c == nil || c.Len() == 0 {
		return Statement{}, ErrNoFields
	}
	if err := c.Validate(); err != nil {
		return Statement{}, err
	}

	var sb strings.Builder
	sb.WriteString("UPDATE ")
	sb.WriteString(table)
	if c.Len() == 1 {
		// a single parenthesized expression is not a row source
		fmt.Fprintf(&sb, " SET (%s) = ROW(%s)", c.ColumnList(), c.ExpressionList())
	} else {
		fmt.Fprintf(&sb, " SET (%s) = (%s)", c.ColumnList(), c.ExpressionList())
	}
	args := append([]any(nil), c.Values...)
	if where = strings.TrimSpace(where); where != "" {
		sb.WriteString(" ")
		sb.WriteString(where)
		args = append(args, whereArgs...)
	}

	return checked(newStatement(KindUpdate, table, sb.String(), args))
}

// Delete builds DELETE FROM <table>[ <where>]. Without a where clause every
// row of the table is deleted.
func Delete(table, where string, whereArgs []any) (Statement, error) {
	if err := checkTable(table); err != nil {
		return Statement{}, err
	}

	query := "DELETE FROM " + table
	var args []any
	if where = strings.TrimSpace(where); where != "" {
		query += " " + where
		args = append(args, whereArgs...)
	}

	return checked(newStatement(KindDelete, table, query, args))
}

// Select builds a statement that aggregates up to SelectPageSize rows into a
// single JSON array:
//
//	SELECT array_to_json(array_agg(registros)) FROM (select <columns> from <table> as t <where> limit 100) as registros;
//
// The array is NULL when no row matches.
func Select(table, columns, where string, whereArgs []any) (Statement, error) {
	if err := checkTable(table); err != nil {
		return Statement{}, err
	}
	if strings.TrimSpace(columns) == "" {
		return Statement{}, ErrNoColumns
	}

	where = strings.TrimSpace(where)
	query := fmt.Sprintf(
		"SELECT array_to_json(array_agg(%[1]s)) FROM (select %[2]s from %[3]s as t %[4]s limit %[5]d) as %[1]s;",
		SelectAlias, columns, table, where, SelectPageSize,
	)

	var args []any
	if where != "" {
		args = append(args, whereArgs...)
	}
	return checked(newStatement(KindSelect, table, query, args))
}

// SelectColumns joins column expressions for Select.
func SelectColumns(columns ...string) string {
	return strings.Join(columns, ",")
}

// checked verifies the marker count matches the argument count, then rebinds
// the markers to $n placeholders.
func checked(stmt Statement) (Statement, error) {
	if n := countPlaceholders(stmt.SQL); n != len(stmt.Args) {
		return Statement{}, placeholderCountError(stmt.Kind, n, len(stmt.Args))
	}
	stmt.SQL = Rebind(stmt.SQL)
	return stmt, nil
}
