package guarded

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus instruments for a guarded sink.
type Metrics struct {
	Delivered       prometheus.Counter
	Fallbacks       prometheus.Counter
	PrimaryFailures prometheus.Counter
	CircuitState    prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Delivered: f.NewCounter(prometheus.CounterOpts{
			Name: "sovereign_events_delivered_total",
			Help: "Total number of lifecycle events delivered to the primary sink",
		}),
		Fallbacks: f.NewCounter(prometheus.CounterOpts{
			Name: "sovereign_events_fallback_total",
			Help: "Total number of lifecycle events routed to the fallback sink",
		}),
		PrimaryFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "sovereign_events_primary_failures_total",
			Help: "Total number of primary sink delivery failures",
		}),
		CircuitState: f.NewGauge(prometheus.GaugeOpts{
			Name: "sovereign_events_circuit_state",
			Help: "Event sink circuit state (0=closed, 1=open)",
		}),
	}
}

func (m *Metrics) incDelivered() {
	if m != nil {
		m.Delivered.Inc()
	}
}

func (m *Metrics) incFallback() {
	if m != nil {
		m.Fallbacks.Inc()
	}
}

func (m *Metrics) incPrimaryFailure() {
	if m != nil {
		m.PrimaryFailures.Inc()
	}
}

func (m *Metrics) setOpen(open bool) {
	if m == nil {
		return
	}
	if open {
		m.CircuitState.Set(1)
	} else {
		m.CircuitState.Set(0)
	}
}
