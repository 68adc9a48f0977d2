package client

import (
	"context"
	"log/slog"
	"time"

	"github.com/satishbabariya/pgops/query/builder"
	"github.com/satishbabariya/pgops/query/executor"
	"github.com/satishbabariya/pgops/telemetry"
)

// StatementEvent describes one statement passing through the middleware chain.
type StatementEvent struct {
	Statement builder.Statement
	Start     time.Time
	End       time.Time
	Duration  time.Duration
	Rows      int64
	Error     error
}

// Middleware intercepts statement execution. It must call next to run the
// statement; End, Duration, Rows and Error are set once next returns.
type Middleware func(ctx context.Context, event *StatementEvent, next func() error) error

// LoggingMiddleware logs statements at debug level.
func LoggingMiddleware(logger *slog.Logger) Middleware {
	return func(ctx context.Context, event *StatementEvent, next func() error) error {
		logger.DebugContext(ctx, "Executing statement", "sql", event.Statement.SQL, "args", event.Statement.Args)
		err := next()
		if err != nil {
			logger.DebugContext(ctx, "Statement failed", "error", err)
		} else {
			logger.DebugContext(ctx, "Statement completed", "duration", event.Duration, "rows", event.Rows)
		}
		return err
	}
}

// TimingMiddleware reports execution time of every statement.
func TimingMiddleware(onTiming func(stmt builder.Statement, duration time.Duration)) Middleware {
	return func(ctx context.Context, event *StatementEvent, next func() error) error {
		err := next()
		if onTiming != nil {
			onTiming(event.Statement, event.Duration)
		}
		return err
	}
}

// ErrorMiddleware reports failed statements.
func ErrorMiddleware(onError func(stmt builder.Statement, err error)) Middleware {
	return func(ctx context.Context, event *StatementEvent, next func() error) error {
		err := next()
		if err != nil && onError != nil {
			onError(event.Statement, err)
		}
		return err
	}
}

// instrumented runs statements through the middleware chain and reports
// them to the recorder.
type instrumented struct {
	next        executor.Execer
	middlewares []Middleware
	recorder    telemetry.Recorder
}

func (i *instrumented) Exec(ctx context.Context, stmt builder.Statement) (int64, error) {
	var affected int64
	err := i.execute(ctx, stmt, func() (int64, error) {
		var err error
		affected, err = i.next.Exec(ctx, stmt)
		return affected, err
	})
	return affected, err
}

func (i *instrumented) Query(ctx context.Context, stmt builder.Statement) ([][]any, error) {
	var rows [][]any
	err := i.execute(ctx, stmt, func() (int64, error) {
		var err error
		rows, err = i.next.Query(ctx, stmt)
		return int64(len(rows)), err
	})
	return rows, err
}

func (i *instrumented) QueryValue(ctx context.Context, stmt builder.Statement) (any, error) {
	var value any
	err := i.execute(ctx, stmt, func() (int64, error) {
		var err error
		value, err = i.next.QueryValue(ctx, stmt)
		if value == nil {
			return 0, err
		}
		return 1, err
	})
	return value, err
}

func (i *instrumented) Close() error {
	return i.next.Close()
}

func (i *instrumented) execute(ctx context.Context, stmt builder.Statement, run func() (int64, error)) error {
	event := &StatementEvent{
		Statement: stmt,
		Start:     time.Now(),
	}

	index := 0
	var next func() error
	next = func() error {
		if index >= len(i.middlewares) {
			rows, err := run()
			event.End = time.Now()
			event.Duration = event.End.Sub(event.Start)
			event.Rows = rows
			event.Error = err
			return err
		}
		mw := i.middlewares[index]
		index++
		return mw(ctx, event, next)
	}

	err := next()
	i.recorder.RecordStatement(ctx, telemetry.StatementInfo{
		Operation:    string(stmt.Kind),
		Table:        stmt.Table,
		SQL:          stmt.SQL,
		Args:         len(stmt.Args),
		Duration:     event.Duration,
		RowsAffected: event.Rows,
		Err:          err,
	})
	return err
}

var _ executor.Execer = (*instrumented)(nil)
