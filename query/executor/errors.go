package executor

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/satishbabariya/pgops/query/builder"
)

// SQLSTATE codes the helpers below classify.
const (
	CodeUniqueViolation     = "23505"
	CodeForeignKeyViolation = "23503"
	CodeUndefinedTable      = "42P01"
	CodeUndefinedColumn     = "42703"

	connectionExceptionClass = "08"
)

// DatabaseExecutionError reports a statement the database rejected.
type DatabaseExecutionError struct {
	// Statement is the statement that failed.
	Statement builder.Statement

	// Code is the SQLSTATE when the driver reported one.
	Code string

	Cause error
}

func (e *DatabaseExecutionError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("executor: %s on %q failed [%s]: %v", e.Statement.Kind, e.Statement.Table, e.Code, e.Cause)
	}
	return fmt.Sprintf("executor: %s on %q failed: %v", e.Statement.Kind, e.Statement.Table, e.Cause)
}

// Unwrap returns the driver error.
func (e *DatabaseExecutionError) Unwrap() error {
	return e.Cause
}

func wrapError(stmt builder.Statement, err error) error {
	if err == nil {
		return nil
	}
	return &DatabaseExecutionError{
		Statement: stmt,
		Code:      Code(err),
		Cause:     err,
	}
}

// Code returns the SQLSTATE carried by err, or "".
func Code(err error) string {
	var dbErr *DatabaseExecutionError
	if errors.As(err, &dbErr) && dbErr.Code != "" {
		return dbErr.Code
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

// IsUniqueViolation reports whether err is a unique constraint violation.
func IsUniqueViolation(err error) bool {
	return Code(err) == CodeUniqueViolation
}

// IsForeignKeyViolation reports whether err is a foreign key violation.
func IsForeignKeyViolation(err error) bool {
	return Code(err) == CodeForeignKeyViolation
}

// IsUndefinedTable reports whether err names a table that does not exist.
func IsUndefinedTable(err error) bool {
	return Code(err) == CodeUndefinedTable
}

// IsConnectionError reports whether err means the connection is unusable.
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return true
	}
	return strings.HasPrefix(Code(err), connectionExceptionClass)
}
