// Package metrics exports gate, execution and checkpoint activity in Prometheus format.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/anyonecancode/acc/internal/domain"
	"github.com/anyonecancode/acc/internal/ports"
)

const namespace = "acc"

// Recorder implements ports.Metrics on a private registry.
type Recorder struct {
	registry *prometheus.Registry

	decisions   *prometheus.CounterVec
	executions  *prometheus.CounterVec
	execLatency *prometheus.HistogramVec
	checkpoints *prometheus.CounterVec
}

// NewRecorder creates a Recorder with its own registry.
func NewRecorder() *Recorder {
	r := &Recorder{registry: prometheus.NewRegistry()}

	r.decisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "gate",
			Name:      "decisions_total",
			Help:      "Approval decisions applied to proposed commands",
		},
		[]string{"kind"},
	)
	r.executions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "execution",
			Name:      "runs_total",
			Help:      "Commands handed to the execution adapter",
		},
		[]string{"mode", "status"},
	)
	r.execLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "execution",
			Name:      "duration_seconds",
			Help:      "Execution latency in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"mode"},
	)
	r.checkpoints = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "checkpoint",
			Name:      "operations_total",
			Help:      "Checkpoint operations by outcome",
		},
		[]string{"op", "status"},
	)

	r.registry.MustRegister(r.decisions, r.executions, r.execLatency, r.checkpoints)
	return r
}

// ObserveDecision implements ports.Metrics.
func (r *Recorder) ObserveDecision(kind domain.DecisionKind) {
	r.decisions.WithLabelValues(string(kind)).Inc()
}

// ObserveExecution implements ports.Metrics.
func (r *Recorder) ObserveExecution(mode domain.ExecutionMode, succeeded bool, seconds float64) {
	r.executions.WithLabelValues(string(mode), status(succeeded)).Inc()
	r.execLatency.WithLabelValues(string(mode)).Observe(seconds)
}

// ObserveCheckpoint implements ports.Metrics.
func (r *Recorder) ObserveCheckpoint(op string, err error) {
	r.checkpoints.WithLabelValues(op, status(err == nil)).Inc()
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry at /metrics.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

func status(ok bool) string {
	if ok {
		return "success"
	}
	return "error"
}

// Nop discards all observations.
type Nop struct{}

func (Nop) ObserveDecision(domain.DecisionKind)                  {}
func (Nop) ObserveExecution(domain.ExecutionMode, bool, float64) {}
func (Nop) ObserveCheckpoint(string, error)                      {}

var (
	_ ports.Metrics = (*Recorder)(nil)
	_ ports.Metrics = Nop{}
)
