package executor

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/pgops/query/builder"
)

func newMock(t *testing.T) (*SQLExecutor, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(sqlx.NewDb(db, DriverName)), mock
}

func TestExec_CommitsMutation(t *testing.T) {
	exec, mock := newMock(t)
	stmt := builder.Statement{
		Kind:  builder.KindUpdate,
		Table: "d.points",
		SQL:   "UPDATE d.points SET (description) = ROW($1) where gid=$2",
		Args:  []any{"moved", int64(1)},
	}

	mock.ExpectBegin()
	mock.ExpectExec(stmt.SQL).WithArgs("moved", int64(1)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	n, err := exec.Exec(context.Background(), stmt)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExec_RollsBackOnFailure(t *testing.T) {
	exec, mock := newMock(t)
	stmt := builder.Statement{Kind: builder.KindDelete, Table: "d.missing", SQL: "DELETE FROM d.missing"}

	mock.ExpectBegin()
	mock.ExpectExec(stmt.SQL).WillReturnError(&pq.Error{Code: CodeUndefinedTable, Message: `relation "d.missing" does not exist`})
	mock.ExpectRollback()

	_, err := exec.Exec(context.Background(), stmt)
	require.Error(t, err)

	var dbErr *DatabaseExecutionError
	require.ErrorAs(t, err, &dbErr)
	assert.Equal(t, CodeUndefinedTable, dbErr.Code)
	assert.Equal(t, stmt, dbErr.Statement)
	assert.True(t, IsUndefinedTable(err))
	assert.False(t, IsUniqueViolation(err))

	var pqErr *pq.Error
	assert.ErrorAs(t, err, &pqErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExec_AdminRunsOutsideTransaction(t *testing.T) {
	exec, mock := newMock(t)
	stmt := builder.Statement{Kind: builder.KindAdmin, SQL: `CREATE DATABASE "gis"`}

	mock.ExpectExec(stmt.SQL).WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := exec.Exec(context.Background(), stmt)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuery_InsertReturning(t *testing.T) {
	exec, mock := newMock(t)
	stmt := builder.Statement{
		Kind:  builder.KindInsert,
		Table: "d.points",
		SQL:   "INSERT INTO d.points (description) VALUES ($1) RETURNING gid",
		Args:  []any{"a"},
	}

	mock.ExpectBegin()
	mock.ExpectQuery(stmt.SQL).WithArgs("a").WillReturnRows(sqlmock.NewRows([]string{"gid"}).AddRow(int64(7)))
	mock.ExpectCommit()

	rows, err := exec.Query(context.Background(), stmt)
	require.NoError(t, err)
	assert.Equal(t, [][]any{{int64(7)}}, rows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuery_ConvertsBytes(t *testing.T) {
	exec, mock := newMock(t)
	stmt := builder.Statement{Kind: builder.KindIntrospect, SQL: "SELECT column_name FROM information_schema.columns"}

	mock.ExpectQuery(stmt.SQL).WillReturnRows(sqlmock.NewRows([]string{"column_name"}).
		AddRow([]byte("gid")).
		AddRow([]byte("geom")))

	rows, err := exec.Query(context.Background(), stmt)
	require.NoError(t, err)
	assert.Equal(t, [][]any{{"gid"}, {"geom"}}, rows)
}

func TestQueryValue(t *testing.T) {
	exec, mock := newMock(t)
	stmt := builder.Statement{Kind: builder.KindSelect, SQL: "SELECT 1"}

	mock.ExpectQuery(stmt.SQL).WillReturnRows(sqlmock.NewRows([]string{"registros"}).AddRow(nil))
	v, err := exec.QueryValue(context.Background(), stmt)
	require.NoError(t, err)
	assert.Nil(t, v)

	mock.ExpectQuery(stmt.SQL).WillReturnRows(sqlmock.NewRows([]string{"registros"}))
	v, err = exec.QueryValue(context.Background(), stmt)
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestQuery_ContextCanceled(t *testing.T) {
	exec, mock := newMock(t)
	stmt := builder.Statement{Kind: builder.KindSelect, SQL: "SELECT 1"}
	mock.ExpectQuery(stmt.SQL).WillReturnError(context.Canceled)

	_, err := exec.Query(context.Background(), stmt)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestErrorHelpers(t *testing.T) {
	unique := &DatabaseExecutionError{Code: CodeUniqueViolation, Cause: errors.New("dup")}
	assert.True(t, IsUniqueViolation(unique))
	assert.Contains(t, unique.Error(), "[23505]")

	fk := wrapError(builder.Statement{}, &pq.Error{Code: CodeForeignKeyViolation})
	assert.True(t, IsForeignKeyViolation(fk))

	conn := wrapError(builder.Statement{}, &pq.Error{Code: "08006"})
	assert.True(t, IsConnectionError(conn))
	assert.False(t, IsConnectionError(nil))
	assert.False(t, IsConnectionError(unique))

	assert.Equal(t, "", Code(errors.New("plain")))
	assert.NoError(t, wrapError(builder.Statement{}, nil))
}
