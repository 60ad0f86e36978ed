package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts notification outcomes. A nil *Metrics records nothing.
type Metrics struct {
	events       *prometheus.CounterVec
	mailFailures *prometheus.CounterVec
}

// New registers the donation collectors with reg, or the default
// registerer when reg is nil.
func New(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		events: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "donations",
				Subsystem: "ipn",
				Name:      "events_total",
				Help:      "Payment notifications processed, by kind and outcome.",
			},
			[]string{"kind", "outcome"},
		),
		mailFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "donations",
				Name:      "mail_failures_total",
				Help:      "Notification emails that could not be dispatched.",
			},
			[]string{"template"},
		),
	}
	for _, c := range []prometheus.Collector{m.events, m.mailFailures} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) ObserveEvent(kind, outcome string) {
	if m == nil {
		return
	}
	if kind == "" {
		kind = "unknown"
	}
	m.events.WithLabelValues(kind, outcome).Inc()
}

func (m *Metrics) ObserveMailFailure(template string) {
	if m == nil {
		return
	}
	m.mailFailures.WithLabelValues(template).Inc()
}
