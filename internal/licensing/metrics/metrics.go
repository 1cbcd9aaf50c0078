// Package metrics holds the Prometheus collectors for the licensing service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels.
const (
	OutcomeSuccess     = "success"
	OutcomeNotFound    = "not_found"
	OutcomeAlreadyUsed = "already_used"
	OutcomeExpired     = "expired"
	OutcomeConflict    = "conflict"
	OutcomeInvalid     = "invalid_input"
	OutcomeTaken       = "username_taken"
	OutcomeProvision   = "provisioning_failed"
	OutcomeError       = "error"
)

// Metrics is the set of licensing counters, registered on their own
// registry so tests can build as many as they like.
type Metrics struct {
	Registry *prometheus.Registry

	LicensesGenerated prometheus.Counter
	KeyCollisions     prometheus.Counter
	LicensesExpired   prometheus.Counter
	Claims            *prometheus.CounterVec
	Activations       *prometheus.CounterVec
}

// New builds and registers the collectors, plus the Go and process collectors.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		LicensesGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "licensing",
			Name:      "licenses_generated_total",
			Help:      "License codes issued.",
		}),
		KeyCollisions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "licensing",
			Name:      "key_collisions_total",
			Help:      "Generated keys rejected because they already existed.",
		}),
		LicensesExpired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "licensing",
			Name:      "licenses_expired_total",
			Help:      "License codes moved to expired, manually or by the sweeper.",
		}),
		Claims: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "licensing",
			Name:      "claims_total",
			Help:      "License claim attempts by outcome.",
		}, []string{"outcome"}),
		Activations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "licensing",
			Name:      "activations_total",
			Help:      "Tenant activation attempts by outcome.",
		}, []string{"outcome"}),
	}

	m.Registry.MustRegister(
		m.LicensesGenerated,
		m.KeyCollisions,
		m.LicensesExpired,
		m.Claims,
		m.Activations,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

// The helpers below accept a nil receiver so services work without metrics.

func (m *Metrics) Generated() {
	if m != nil {
		m.LicensesGenerated.Inc()
	}
}

func (m *Metrics) Collision() {
	if m != nil {
		m.KeyCollisions.Inc()
	}
}

func (m *Metrics) Expired(n int) {
	if m != nil && n > 0 {
		m.LicensesExpired.Add(float64(n))
	}
}

func (m *Metrics) Claim(outcome string) {
	if m != nil {
		m.Claims.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) Activation(outcome string) {
	if m != nil {
		m.Activations.WithLabelValues(outcome).Inc()
	}
}
