// Package executor runs built statements against PostgreSQL.
package executor

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/satishbabariya/pgops/internal/debug"
	"github.com/satishbabariya/pgops/query/builder"
)

// DriverName is the database/sql driver used for PostgreSQL.
const DriverName = "postgres"

// Execer executes statements.
type Execer interface {
	// Exec runs stmt and returns the number of affected rows.
	Exec(ctx context.Context, stmt builder.Statement) (int64, error)

	// Query runs stmt and returns every row as a tuple.
	Query(ctx context.Context, stmt builder.Statement) ([][]any, error)

	// QueryValue runs stmt and returns the first column of the first row,
	// or nil when there are no rows.
	QueryValue(ctx context.Context, stmt builder.Statement) (any, error)

	Close() error
}

// queryer is satisfied by both *sqlx.DB and *sqlx.Tx.
type queryer interface {
	sqlx.QueryerContext
	sqlx.ExecerContext
}

// SQLExecutor executes statements over a sqlx handle.
//
// Insert, update and delete statements each run in their own transaction,
// committed as soon as the statement succeeds and rolled back otherwise.
// Everything else runs in autocommit mode.
type SQLExecutor struct {
	db *sqlx.DB
}

// New creates an executor over db.
func New(db *sqlx.DB) *SQLExecutor {
	return &SQLExecutor{db: db}
}

// Open opens a lib/pq connection pool for dsn and pings it.
func Open(ctx context.Context, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// Exec implements Execer.
func (e *SQLExecutor) Exec(ctx context.Context, stmt builder.Statement) (int64, error) {
	var affected int64
	err := e.run(ctx, stmt, func(q queryer) error {
		res, err := q.ExecContext(ctx, stmt.SQL, stmt.Args...)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, err
	}
	return affected, nil
}

// Query implements Execer.
func (e *SQLExecutor) Query(ctx context.Context, stmt builder.Statement) ([][]any, error) {
	var result [][]any
	err := e.run(ctx, stmt, func(q queryer) error {
		rows, err := q.QueryxContext(ctx, stmt.SQL, stmt.Args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			row, err := rows.SliceScan()
			if err != nil {
				return fmt.Errorf("failed to scan row: %w", err)
			}
			for i, v := range row {
				if b, ok := v.([]byte); ok {
					row[i] = string(b)
				}
			}
			result = append(result, row)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// QueryValue implements Execer.
func (e *SQLExecutor) QueryValue(ctx context.Context, stmt builder.Statement) (any, error) {
	rows, err := e.Query(ctx, stmt)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, nil
	}
	return rows[0][0], nil
}

// Close closes the underlying connection pool.
func (e *SQLExecutor) Close() error {
	if e.db == nil {
		return nil
	}
	return e.db.Close()
}

func (e *SQLExecutor) run(ctx context.Context, stmt builder.Statement, fn func(q queryer) error) error {
	debug.Debug("Executing statement", "kind", stmt.Kind, "sql", stmt.SQL, "args", len(stmt.Args))

	if !transactional(stmt.Kind) {
		if err := fn(e.db); err != nil {
			return wrapError(stmt, err)
		}
		return nil
	}

	tx, err := e.db.BeginTxx(ctx, nil)
	if err != nil {
		return wrapError(stmt, fmt.Errorf("failed to begin transaction: %w", err))
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			debug.Warn("Rollback failed", "error", rbErr)
		}
		return wrapError(stmt, err)
	}

	if err := tx.Commit(); err != nil {
		return wrapError(stmt, fmt.Errorf("failed to commit transaction: %w", err))
	}
	return nil
}

func transactional(kind builder.Kind) bool {
	switch kind {
	case builder.KindInsert, builder.KindUpdate, builder.KindDelete:
		return true
	default:
		return false
	}
}

var _ Execer = (*SQLExecutor)(nil)
