package telemetry

import (
	"context"
	"log/slog"
)

// SlogRecorder logs statements at debug level and failures at error level.
type SlogRecorder struct {
	logger *slog.Logger
}

// NewSlogRecorder creates a recorder writing to logger, or slog.Default() when nil.
func NewSlogRecorder(logger *slog.Logger) *SlogRecorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogRecorder{logger: logger}
}

// RecordStatement logs info.
func (r *SlogRecorder) RecordStatement(ctx context.Context, info StatementInfo) {
	attrs := []any{
		"operation", info.Operation,
		"table", info.Table,
		"sql", info.SQL,
		"args", info.Args,
		"duration", info.Duration,
	}
	if info.Err != nil {
		r.logger.ErrorContext(ctx, "Statement failed.", append(attrs, "error", info.Err)...)
		return
	}
	r.logger.DebugContext(ctx, "Statement executed.", append(attrs, "rows", info.RowsAffected)...)
}

var _ Recorder = (*SlogRecorder)(nil)
