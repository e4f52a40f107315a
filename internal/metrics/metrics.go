// Package metrics collects and exposes Prometheus counters for the
// membership site's decision points.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	gateDecisions *prometheus.CounterVec
	webhookEvents *prometheus.CounterVec
	loginAttempts *prometheus.CounterVec
	checkouts     *prometheus.CounterVec
}

func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		gateDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kursus_gate_decisions_total",
			Help: "Access gate outcomes per protected-route evaluation.",
		}, []string{"decision"}),
		webhookEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kursus_webhook_events_total",
			Help: "Payment webhook deliveries by event type and outcome.",
		}, []string{"type", "outcome"}),
		loginAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kursus_login_attempts_total",
			Help: "Login attempts by method and outcome.",
		}, []string{"method", "outcome"}),
		checkouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kursus_checkout_sessions_total",
			Help: "Checkout session creations by outcome.",
		}, []string{"outcome"}),
	}

	reg.MustRegister(
		c.gateDecisions,
		c.webhookEvents,
		c.loginAttempts,
		c.checkouts,
	)

	return c
}

func (c *Collector) RecordGateDecision(decision string) {
	c.gateDecisions.WithLabelValues(decision).Inc()
}

func (c *Collector) RecordWebhookEvent(eventType, outcome string) {
	c.webhookEvents.WithLabelValues(eventType, outcome).Inc()
}

func (c *Collector) RecordLoginAttempt(method, outcome string) {
	c.loginAttempts.WithLabelValues(method, outcome).Inc()
}

func (c *Collector) RecordCheckout(outcome string) {
	c.checkouts.WithLabelValues(outcome).Inc()
}

// Handler serves the registry in the Prometheus text format.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
