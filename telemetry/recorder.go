// Package telemetry records executed statements.
package telemetry

import (
	"context"
	"time"
)

// StatementInfo describes one executed statement.
type StatementInfo struct {
	// Operation is the statement kind (insert, update, delete, select, introspect, admin).
	Operation string

	// Table is the target table, schema qualified as given by the caller.
	Table string

	// SQL is the statement text as sent to the database.
	SQL string

	// Args is the number of bound arguments.
	Args int

	// Duration is how long execution took.
	Duration time.Duration

	// RowsAffected is the row count reported by the database, or the number of rows returned.
	RowsAffected int64

	// Err is the execution error, nil on success.
	Err error
}

// Success reports whether the statement succeeded.
func (i StatementInfo) Success() bool {
	return i.Err == nil
}

// Status returns "success" or "error".
func (i StatementInfo) Status() string {
	if i.Err != nil {
		return "error"
	}
	return "success"
}

// Recorder receives every statement a client executes.
type Recorder interface {
	RecordStatement(ctx context.Context, info StatementInfo)
}

// Noop discards everything.
type Noop struct{}

// RecordStatement does nothing.
func (Noop) RecordStatement(context.Context, StatementInfo) {}

// Multi fans a statement out to several recorders.
type Multi []Recorder

// RecordStatement forwards info to every recorder.
func (m Multi) RecordStatement(ctx context.Context, info StatementInfo) {
	for _, r := range m {
		if r != nil {
			r.RecordStatement(ctx, info)
		}
	}
}

// RecorderFunc adapts a function to Recorder.
type RecorderFunc func(ctx context.Context, info StatementInfo)

// RecordStatement calls f.
func (f RecorderFunc) RecordStatement(ctx context.Context, info StatementInfo) {
	f(ctx, info)
}

var (
	_ Recorder = Noop{}
	_ Recorder = Multi{}
	_ Recorder = RecorderFunc(nil)
)
