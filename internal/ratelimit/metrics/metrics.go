package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	RequestsRejected *prometheus.CounterVec
	CheckErrors      prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RequestsRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sovereign_ratelimit_rejected_total",
			Help: "Requests rejected by the per-caller rate limit",
		}, []string{"method"}),
		CheckErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "sovereign_ratelimit_check_errors_total",
			Help: "Rate limit checks that failed and let the request through",
		}),
	}
}

func (m *Metrics) IncrementRejected(method string) {
	m.RequestsRejected.WithLabelValues(method).Inc()
}

func (m *Metrics) IncrementCheckErrors() {
	m.CheckErrors.Inc()
}
