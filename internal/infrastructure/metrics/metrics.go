// Package metrics exposes Prometheus collectors for the board engine.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/taskmaster/boards/internal/domain/entities"
	"github.com/taskmaster/boards/internal/ports"
)

// EngineMetrics counts engine operations by outcome and records their latency
type EngineMetrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// NewEngineMetrics creates the collectors and registers them with reg
func NewEngineMetrics(reg prometheus.Registerer) *EngineMetrics {
	m := &EngineMetrics{
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "board_engine_operations_total",
				Help: "Total number of board engine operations by result",
			},
			[]string{"op", "result"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "board_engine_operation_duration_seconds",
				Help:    "Board engine operation duration in seconds, including the store session",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"op"},
		),
	}
	reg.MustRegister(m.operations, m.duration)
	return m
}

var _ ports.EngineMetrics = (*EngineMetrics)(nil)

// ObserveOperation records one operation. The result label is the stable
// error code, "ok" on success.
func (m *EngineMetrics) ObserveOperation(op string, err error, elapsed time.Duration) {
	m.operations.WithLabelValues(op, entities.ErrorCode(err)).Inc()
	m.duration.WithLabelValues(op).Observe(elapsed.Seconds())
}
