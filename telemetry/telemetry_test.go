package telemetry

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	r, err := NewPrometheusRecorder(reg)
	require.NoError(t, err)

	ctx := context.Background()
	r.RecordStatement(ctx, StatementInfo{Operation: "insert", Table: "d.points", Duration: time.Millisecond, RowsAffected: 1})
	r.RecordStatement(ctx, StatementInfo{Operation: "insert", Table: "d.points", Duration: time.Millisecond, RowsAffected: 2})
	r.RecordStatement(ctx, StatementInfo{Operation: "update", Table: "d.points", Err: errors.New("boom")})

	assert.Equal(t, 2.0, testutil.ToFloat64(r.statements.WithLabelValues("insert", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.statements.WithLabelValues("update", "error")))
	assert.Equal(t, 3.0, testutil.ToFloat64(r.rows.WithLabelValues("insert")))
	assert.Equal(t, 2, testutil.CollectAndCount(r.duration))
}

func TestPrometheusRecorder_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewPrometheusRecorder(reg)
	require.NoError(t, err)

	_, err = NewPrometheusRecorder(reg)
	assert.Error(t, err)
}

func TestSlogRecorder(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	r := NewSlogRecorder(logger)

	r.RecordStatement(context.Background(), StatementInfo{Operation: "delete", Table: "d.points", SQL: "DELETE FROM d.points", RowsAffected: 4})
	assert.Contains(t, buf.String(), "Statement executed.")
	assert.Contains(t, buf.String(), "rows=4")

	buf.Reset()
	r.RecordStatement(context.Background(), StatementInfo{Operation: "delete", Err: errors.New("relation does not exist")})
	assert.Contains(t, buf.String(), "level=ERROR")
	assert.Contains(t, buf.String(), "relation does not exist")
}

func TestMulti(t *testing.T) {
	var got []string
	rec := RecorderFunc(func(_ context.Context, info StatementInfo) {
		got = append(got, info.SQL)
	})

	m := Multi{rec, nil, Noop{}, rec}
	m.RecordStatement(context.Background(), StatementInfo{SQL: "select 1"})
	assert.Equal(t, []string{"select 1", "select 1"}, got)
}

func TestStatementInfoStatus(t *testing.T) {
	assert.Equal(t, "success", StatementInfo{}.Status())
	assert.Equal(t, "error", StatementInfo{Err: errors.New("x")}.Status())
}
