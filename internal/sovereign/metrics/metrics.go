package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for sovereign lifecycle operations.
type Metrics struct {
	// Operation outcomes by operation and error code ("ok" on success)
	Operations *prometheus.CounterVec

	// Operation latency including collaborator calls
	OperationLatency *prometheus.HistogramVec

	// State transitions by destination state
	Transitions *prometheus.CounterVec

	// Compensations by effect and result
	Compensations *prometheus.CounterVec

	// Base-currency amounts moved, by flow
	CurrencyMoved *prometheus.CounterVec
}

// New registers every sovereign instrument on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Operations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "sovereign_operations_total",
			Help: "Total sovereign operations by operation and result code",
		}, []string{"operation", "code"}),

		OperationLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sovereign_operation_duration_seconds",
			Help:    "Duration of sovereign operations including collaborator calls",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"operation"}),

		Transitions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "sovereign_state_transitions_total",
			Help: "Total lifecycle transitions by destination state",
		}, []string{"state"}),

		Compensations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "sovereign_compensations_total",
			Help: "Collaborator effects undone after a failed operation",
		}, []string{"effect", "result"}), // result: "ok", "failed"

		CurrencyMoved: f.NewCounterVec(prometheus.CounterOpts{
			Name: "sovereign_currency_moved_total",
			Help: "Base currency moved by committed operations",
		}, []string{"flow"}), // flow: "deposit", "refund", "fees", "treasury", "unwind"
	}
}

// ObserveOperation records one finished operation.
func (m *Metrics) ObserveOperation(operation, code string, d time.Duration) {
	if m != nil {
		m.Operations.WithLabelValues(operation, code).Inc()
		m.OperationLatency.WithLabelValues(operation).Observe(d.Seconds())
	}
}

func (m *Metrics) IncTransition(state string) {
	if m != nil {
		m.Transitions.WithLabelValues(state).Inc()
	}
}

func (m *Metrics) IncCompensation(effect string, ok bool) {
	if m == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "failed"
	}
	m.Compensations.WithLabelValues(effect, result).Inc()
}

func (m *Metrics) AddCurrency(flow string, amount uint64) {
	if m != nil && amount > 0 {
		m.CurrencyMoved.WithLabelValues(flow).Add(float64(amount))
	}
}
