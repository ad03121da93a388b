package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	LoadApplied = "applied"
	LoadStale   = "stale"

	CacheHit  = "hit"
	CacheMiss = "miss"
)

// CatalogMetrics records catalog loads and the snapshot cache.
type CatalogMetrics struct {
	fetches      *prometheus.CounterVec
	loads        *prometheus.CounterVec
	loadDuration prometheus.Histogram
	cache        *prometheus.CounterVec
	deals        prometheus.Gauge
}

// NewCatalogMetrics registers the catalog metrics on the provided registerer.
func NewCatalogMetrics(reg prometheus.Registerer) *CatalogMetrics {
	if reg == nil {
		return &CatalogMetrics{}
	}
	fetches := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_fetches_total",
		Help: "Provider fetches, by resource and outcome.",
	}, []string{"resource", "outcome"})
	loads := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_loads_total",
		Help: "Completed catalog loads, applied or discarded as stale.",
	}, []string{"result"})
	loadDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "catalog_load_duration_seconds",
		Help:    "Duration of catalog loads in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	cache := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_cache_lookups_total",
		Help: "Catalog snapshot cache lookups, by result.",
	}, []string{"result"})
	deals := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "catalog_active_deals",
		Help: "Active deals in the current catalog snapshot.",
	})
	reg.MustRegister(fetches, loads, loadDuration, cache, deals)
	return &CatalogMetrics{
		fetches:      fetches,
		loads:        loads,
		loadDuration: loadDuration,
		cache:        cache,
		deals:        deals,
	}
}

// ObserveFetch counts one provider fetch for resource.
func (c *CatalogMetrics) ObserveFetch(resource string, err error) {
	if c == nil || c.fetches == nil {
		return
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	c.fetches.WithLabelValues(normalizeLabel(resource), outcome).Inc()
}

// ObserveLoad records a finished load; stale loads were superseded before they landed.
func (c *CatalogMetrics) ObserveLoad(stale bool, duration time.Duration) {
	if c == nil || c.loads == nil {
		return
	}
	result := LoadApplied
	if stale {
		result = LoadStale
	}
	c.loads.WithLabelValues(result).Inc()
	c.loadDuration.Observe(duration.Seconds())
}

// ObserveCache counts one snapshot cache lookup.
func (c *CatalogMetrics) ObserveCache(hit bool) {
	if c == nil || c.cache == nil {
		return
	}
	result := CacheMiss
	if hit {
		result = CacheHit
	}
	c.cache.WithLabelValues(result).Inc()
}

// SetDeals publishes the size of the applied snapshot.
func (c *CatalogMetrics) SetDeals(n int) {
	if c == nil || c.deals == nil {
		return
	}
	c.deals.Set(float64(n))
}
