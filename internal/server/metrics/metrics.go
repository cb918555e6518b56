// Package metrics exposes prometheus counters for token operations and
// HTTP traffic.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Rotation outcomes.
const (
	OutcomeSuccess       = "success"
	OutcomeUnknown       = "unknown"
	OutcomeExpired       = "expired"
	OutcomeOwnerMismatch = "owner_mismatch"
	OutcomeError         = "error"
)

// Metrics owns its registry so tests and multiple servers in one process do
// not collide. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry     *prometheus.Registry
	tokensIssued prometheus.Counter
	rotations    *prometheus.CounterVec
	revocations  *prometheus.CounterVec
	httpRequests *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		tokensIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gophauth",
			Name:      "token_pairs_issued_total",
			Help:      "Token pairs issued by login, registration or rotation.",
		}),
		rotations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gophauth",
			Name:      "refresh_rotations_total",
			Help:      "Refresh token rotation attempts by outcome.",
		}, []string{"outcome"}),
		revocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gophauth",
			Name:      "refresh_revocations_total",
			Help:      "Logout calls by scope.",
		}, []string{"scope"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gophauth",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
	}

	m.registry.MustRegister(
		m.tokensIssued, m.rotations, m.revocations, m.httpRequests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) TokenPairIssued() {
	if m == nil {
		return
	}
	m.tokensIssued.Inc()
}

func (m *Metrics) Rotation(outcome string) {
	if m == nil {
		return
	}
	m.rotations.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Revocation(scope string) {
	if m == nil {
		return
	}
	m.revocations.WithLabelValues(scope).Inc()
}

func (m *Metrics) HTTPRequest(method, route string, status int) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
