package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// GetCounter tracks the number of Get operations served by open caches.
	GetCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "lru_get_total",
		Help: "Total number of Get operations",
	})
	// SetCounter tracks the number of Set operations.
	SetCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "lru_set_total",
		Help: "Total number of Set operations",
	})
	// ClearCounter tracks the number of Clear operations.
	ClearCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "lru_clear_total",
		Help: "Total number of cache clears",
	})
	// EntriesGauge reports the number of entries held by in-memory caches.
	// It is shared by every InMemoryCache in the process, so it is the sum of
	// their sizes.
	EntriesGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "lru_entries",
		Help: "Current number of entries across all in-memory caches",
	})
)

// NewRegistry creates a new Prometheus registry.
func NewRegistry() *prometheus.Registry {
	return prometheus.NewRegistry()
}

// RegisterCoreMetrics registers the lru core metrics on the provided registry.
func RegisterCoreMetrics(reg prometheus.Registerer) {
	reg.MustRegister(GetCounter, SetCounter, ClearCounter, EntriesGauge)
}
