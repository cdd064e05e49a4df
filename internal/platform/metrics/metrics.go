package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the process-wide instruments. One instance per process,
// registered on its own registry so tests can build throwaway copies.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests     *prometheus.CounterVec
	BatchesAllocated prometheus.Counter
	ClaimsPaid       prometheus.Counter
	BudgetRemaining  prometheus.Gauge
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)
	return &Metrics{
		registry: registry,
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "speedrun_http_requests_total",
			Help: "HTTP requests by route and status class.",
		}, []string{"route", "status"}),
		BatchesAllocated: factory.NewCounter(prometheus.CounterOpts{
			Name: "speedrun_reward_batches_allocated_total",
			Help: "Committed reward allocation batches.",
		}),
		ClaimsPaid: factory.NewCounter(prometheus.CounterOpts{
			Name: "speedrun_reward_claims_paid_total",
			Help: "Paid-out claims.",
		}),
		BudgetRemaining: factory.NewGauge(prometheus.GaugeOpts{
			Name: "speedrun_reward_budget_remaining",
			Help: "Unallocated campaign budget in whole USD.",
		}),
	}
}

// Handler serves the /metrics endpoint for this instance's registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
