package telemetry

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder exports statement counters and latencies.
type PrometheusRecorder struct {
	statements *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	rows       *prometheus.CounterVec
}

// NewPrometheusRecorder creates the collectors and registers them with reg.
func NewPrometheusRecorder(reg prometheus.Registerer) (*PrometheusRecorder, error) {
	r := &PrometheusRecorder{
		statements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pgops",
			Name:      "statements_total",
			Help:      "Statements executed, by operation and status.",
		}, []string{"operation", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "pgops",
			Name:      "statement_duration_seconds",
			Help:      "Statement execution latency.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		}, []string{"operation"}),
		rows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pgops",
			Name:      "rows_affected_total",
			Help:      "Rows affected or returned, by operation.",
		}, []string{"operation"}),
	}

	for _, c := range []prometheus.Collector{r.statements, r.duration, r.rows} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// RecordStatement updates the collectors.
func (r *PrometheusRecorder) RecordStatement(_ context.Context, info StatementInfo) {
	r.statements.WithLabelValues(info.Operation, info.Status()).Inc()
	r.duration.WithLabelValues(info.Operation).Observe(info.Duration.Seconds())
	if info.Success() && info.RowsAffected > 0 {
		r.rows.WithLabelValues(info.Operation).Add(float64(info.RowsAffected))
	}
}

var _ Recorder = (*PrometheusRecorder)(nil)
