package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the reconciliation collectors.
type Metrics struct {
	Runs                 *prometheus.CounterVec
	Operations           *prometheus.CounterVec
	OperationDuration    *prometheus.HistogramVec
	PlannedOperations    *prometheus.GaugeVec
	LockContentionsTotal *prometheus.CounterVec
}

// New registers the collectors on reg. Use prometheus.DefaultRegisterer in the
// service and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Runs: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "mapwize_sync_runs_total",
			Help: "Total number of reconciliation runs by kind and outcome",
		}, []string{"kind", "status"}),
		Operations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "mapwize_sync_operations_total",
			Help: "Total number of executed gateway mutations by kind, action and result",
		}, []string{"kind", "action", "result"}),
		OperationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mapwize_sync_operation_duration_seconds",
			Help:    "Latency of gateway mutations in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"kind", "action"}),
		PlannedOperations: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "mapwize_sync_planned_operations",
			Help: "Operations planned by the last reconciliation run of a kind",
		}, []string{"kind", "action"}),
		LockContentionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "mapwize_sync_lock_contentions_total",
			Help: "Total number of runs rejected because the venue and kind were locked",
		}, []string{"kind"}),
	}
}

// ObserveRun counts a finished run.
func (m *Metrics) ObserveRun(kind, status string) {
	m.Runs.WithLabelValues(kind, status).Inc()
}

// ObserveOperation records one gateway mutation.
func (m *Metrics) ObserveOperation(kind, action string, seconds float64, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	m.Operations.WithLabelValues(kind, action, result).Inc()
	m.OperationDuration.WithLabelValues(kind, action).Observe(seconds)
}

// SetPlanned publishes the planned create, update and delete counts of a run.
func (m *Metrics) SetPlanned(kind string, create, update, del int) {
	m.PlannedOperations.WithLabelValues(kind, "create").Set(float64(create))
	m.PlannedOperations.WithLabelValues(kind, "update").Set(float64(update))
	m.PlannedOperations.WithLabelValues(kind, "delete").Set(float64(del))
}

// IncrementLockContentions counts a run rejected by the lock.
func (m *Metrics) IncrementLockContentions(kind string) {
	m.LockContentionsTotal.WithLabelValues(kind).Inc()
}
