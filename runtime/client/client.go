// Package client executes PostGIS CRUD statements.
package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/satishbabariya/pgops/internal/debug"
	"github.com/satishbabariya/pgops/migrate/introspect"
	"github.com/satishbabariya/pgops/query/builder"
	"github.com/satishbabariya/pgops/query/executor"
	"github.com/satishbabariya/pgops/query/fields"
)

// Row is one record returned by Select.
type Row = executor.Row

// InsertResult is the outcome of Insert.
type InsertResult struct {
	Statement builder.Statement

	// Rows holds one tuple per inserted row, aligned with the RETURNING
	// columns. It is nil when no RETURNING clause was given.
	Rows [][]any

	// RowsAffected is set when no RETURNING clause was given.
	RowsAffected int64
}

// ExecResult is the outcome of Update and Delete.
type ExecResult struct {
	Statement    builder.Statement
	RowsAffected int64
}

// SelectResult is the outcome of Select.
type SelectResult struct {
	Statement builder.Statement

	// Rows is nil when nothing matched.
	Rows []Row

	Found bool
}

// Client runs statements over a single PostgreSQL connection.
type Client struct {
	exec         executor.Execer
	introspector *introspect.Introspector
	owned        executor.Execer
}

// Connect opens a connection described by cfg.
func Connect(ctx context.Context, cfg ConnConfig, opts ...Option) (*Client, error) {
	return ConnectDSN(ctx, cfg.DSN(), opts...)
}

// ConnectDSN opens a connection from a lib/pq keyword DSN or postgres:// URL.
func ConnectDSN(ctx context.Context, dsn string, opts ...Option) (*Client, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	var owned executor.Execer
	if o.execer == nil {
		db, err := executor.Open(ctx, dsn)
		if err != nil {
			return nil, err
		}
		if o.maxOpenConns > 0 {
			db.SetMaxOpenConns(o.maxOpenConns)
		}
		o.execer = executor.New(db)
		owned = o.execer
	}

	return newClient(o, owned), nil
}

// New creates a client over an existing executor.
func New(exec executor.Execer, opts ...Option) *Client {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	o.execer = exec
	return newClient(o, nil)
}

func newClient(o options, owned executor.Execer) *Client {
	exec := &instrumented{
		next:        o.execer,
		middlewares: o.middlewares,
		recorder:    o.recorder,
	}
	in := introspect.New(exec)
	if o.columnCache != nil {
		in.WithCache(o.columnCache)
	}
	return &Client{
		exec:         exec,
		introspector: in,
		owned:        owned,
	}
}

// Close releases the connection if the client opened it.
func (c *Client) Close() error {
	if c.owned == nil {
		return nil
	}
	return c.owned.Close()
}

// Introspector returns the catalog reader bound to this client.
func (c *Client) Introspector() *introspect.Introspector {
	return c.introspector
}

// Insert inserts one row. With a non-empty returning clause the returned
// values are collected in the result.
func (c *Client) Insert(ctx context.Context, table string, compiled *fields.Compiled, returning string) (*InsertResult, error) {
	returning = strings.TrimSpace(returning)
	stmt, err := builder.Insert(table, compiled, returning)
	if err != nil {
		return nil, err
	}

	result := &InsertResult{Statement: stmt}
	if returning == "" {
		if result.RowsAffected, err = c.exec.Exec(ctx, stmt); err != nil {
			return nil, err
		}
		return result, nil
	}

	if result.Rows, err = c.exec.Query(ctx, stmt); err != nil {
		return nil, err
	}
	return result, nil
}

// Update updates the rows matching where, or every row when where is empty.
func (c *Client) Update(ctx context.Context, table string, compiled *fields.Compiled, where string, args ...any) (*ExecResult, error) {
	stmt, err := builder.Update(table, compiled, where, args)
	if err != nil {
		return nil, err
	}
	return c.execute(ctx, stmt)
}

// Delete deletes the rows matching where, or every row when where is empty.
func (c *Client) Delete(ctx context.Context, table, where string, args ...any) (*ExecResult, error) {
	stmt, err := builder.Delete(table, where, args)
	if err != nil {
		return nil, err
	}
	return c.execute(ctx, stmt)
}

func (c *Client) execute(ctx context.Context, stmt builder.Statement) (*ExecResult, error) {
	n, err := c.exec.Exec(ctx, stmt)
	if err != nil {
		return nil, err
	}
	return &ExecResult{Statement: stmt, RowsAffected: n}, nil
}

// Select returns at most builder.SelectPageSize rows of table decoded from
// a JSON aggregate. Columns wrapped in a function appear under the
// function name.
func (c *Client) Select(ctx context.Context, table, columns, where string, args ...any) (*SelectResult, error) {
	stmt, err := builder.Select(table, columns, where, args)
	if err != nil {
		return nil, err
	}

	aggregate, err := c.exec.QueryValue(ctx, stmt)
	if err != nil {
		return nil, err
	}

	rows, err := executor.DecodeRows(aggregate)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s rows: %w", table, err)
	}
	if len(rows) >= builder.SelectPageSize {
		debug.Warn("Select returned a full page, more rows may exist", "table", table, "limit", builder.SelectPageSize)
	}

	return &SelectResult{
		Statement: stmt,
		Rows:      rows,
		Found:     rows != nil,
	}, nil
}

// SelectColumns selects the given column names joined with commas.
func (c *Client) SelectColumns(ctx context.Context, table string, columns []string, where string, args ...any) (*SelectResult, error) {
	if len(columns) == 0 {
		return nil, builder.ErrNoColumns
	}
	return c.Select(ctx, table, builder.SelectColumns(columns...), where, args...)
}

// ColumnNames returns the column names of table, with the geometry column
// converted to GeoJSON unless disabled through opts.
func (c *Client) ColumnNames(ctx context.Context, table string, opts ...introspect.Option) ([]string, error) {
	return c.introspector.ColumnNames(ctx, table, opts...)
}

// TableExists reports whether table exists.
func (c *Client) TableExists(ctx context.Context, table string) (bool, error) {
	return c.introspector.TableExists(ctx, table)
}
