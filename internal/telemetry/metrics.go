// Package telemetry exposes Prometheus metrics for the progress
// server: load/save traffic and daily-claim outcomes.
package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	Loads          prometheus.Counter
	LoadMisses     prometheus.Counter
	Saves          prometheus.Counter
	ClaimsGranted  prometheus.Counter
	ClaimsRejected prometheus.Counter
	CoinsAwarded   prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Loads: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tapkombat_progress_loads_total",
			Help: "Progress load requests served.",
		}),
		LoadMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tapkombat_progress_load_misses_total",
			Help: "Load requests for first-time players.",
		}),
		Saves: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tapkombat_progress_saves_total",
			Help: "Progress snapshots persisted.",
		}),
		ClaimsGranted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tapkombat_daily_claims_granted_total",
			Help: "Daily reward claims granted.",
		}),
		ClaimsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tapkombat_daily_claims_rejected_total",
			Help: "Daily reward claims rejected while cooling down.",
		}),
		CoinsAwarded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tapkombat_daily_coins_awarded_total",
			Help: "Coins paid out by daily rewards.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.Loads, m.LoadMisses, m.Saves,
		m.ClaimsGranted, m.ClaimsRejected, m.CoinsAwarded,
	)
	return m
}

// Handler serves the /metrics endpoint for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
