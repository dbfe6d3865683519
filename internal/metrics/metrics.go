package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds the counters for the order synchronization layer.
// Mutations are labelled by operation (add, update, status, delete)
// and counted once as confirmed or rolled back.
type Registry struct {
	reg                 *prometheus.Registry
	MutationsConfirmed  *prometheus.CounterVec
	MutationsRolledBack *prometheus.CounterVec
	RefreshTotal        prometheus.Counter
	RefreshFailures     prometheus.Counter
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	confirmed := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "order_sync_mutations_confirmed_total"}, []string{"op"})
	rolledBack := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "order_sync_mutations_rolled_back_total"}, []string{"op"})
	refreshTotal := prometheus.NewCounter(prometheus.CounterOpts{Name: "order_sync_refresh_total"})
	refreshFailures := prometheus.NewCounter(prometheus.CounterOpts{Name: "order_sync_refresh_failures_total"})

	r.MustRegister(confirmed, rolledBack, refreshTotal, refreshFailures)
	return &Registry{
		reg:                 r,
		MutationsConfirmed:  confirmed,
		MutationsRolledBack: rolledBack,
		RefreshTotal:        refreshTotal,
		RefreshFailures:     refreshFailures,
	}
}

func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}
