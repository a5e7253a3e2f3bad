// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package metrics holds the Prometheus collectors for the board.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Mutation outcomes
const (
	OutcomeCommitted  = "committed"
	OutcomeRolledBack = "rolled_back"
)

// Metrics is safe to use as a nil pointer; every method is then a no-op.
type Metrics struct {
	registry     *prometheus.Registry
	mutations    *prometheus.CounterVec
	rejected     *prometheus.CounterVec
	participants prometheus.Gauge
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tripboard",
			Name:      "mutations_total",
			Help:      "Participant mutations by field and outcome.",
		}, []string{"field", "outcome"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tripboard",
			Name:      "intents_rejected_total",
			Help:      "Intents rejected before any mutation was created.",
		}, []string{"reason"}),
		participants: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "tripboard",
			Name:      "participants",
			Help:      "Participants loaded from the remote store.",
		}),
	}
	m.registry.MustRegister(
		m.mutations,
		m.rejected,
		m.participants,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) MutationFinished(field, outcome string) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(field, outcome).Inc()
}

func (m *Metrics) IntentRejected(reason string) {
	if m == nil {
		return
	}
	m.rejected.WithLabelValues(reason).Inc()
}

func (m *Metrics) SetParticipants(n int) {
	if m == nil {
		return
	}
	m.participants.Set(float64(n))
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }
