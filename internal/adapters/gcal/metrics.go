package gcal

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts calendar sync traffic. A nil *Metrics is a no-op so the
// dispatcher works without a registry in tests.
type Metrics struct {
	Inserts  prometheus.Counter
	Retries  prometheus.Counter
	Failures prometheus.Counter
}

// NewMetrics creates the sync counters.
func NewMetrics() *Metrics {
	return &Metrics{
		Inserts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "calendar_inserts_total",
			Help: "Successful calendar event creates",
		}),
		Retries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "calendar_insert_retries_total",
			Help: "Backoff retries of calendar event creates",
		}),
		Failures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "calendar_insert_failures_total",
			Help: "Calendar event creates that failed after classification or budget exhaustion",
		}),
	}
}

// Register adds the counters to a registry.
func (m *Metrics) Register(reg *prometheus.Registry) {
	reg.MustRegister(m.Inserts, m.Retries, m.Failures)
}

func (m *Metrics) incInserts() {
	if m != nil {
		m.Inserts.Inc()
	}
}

func (m *Metrics) incRetries() {
	if m != nil {
		m.Retries.Inc()
	}
}

func (m *Metrics) incFailures() {
	if m != nil {
		m.Failures.Inc()
	}
}
